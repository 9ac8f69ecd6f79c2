package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"senstosales/internal/domain"
	"senstosales/internal/ledger"
	"senstosales/internal/port"
	"senstosales/internal/sequence"
)

// LedgerService is the read-only quantity ledger used for previews.
type LedgerService interface {
	RemainingQuantity(ctx context.Context, lineID string, lotNo *int) (decimal.Decimal, error)
	Position(ctx context.Context, lineID string, lotNo *int) (*domain.Position, error)
}

type ledgerService struct {
	store port.Store
}

// NewLedgerService creates a new LedgerService implementation.
func NewLedgerService(store port.Store) LedgerService {
	return &ledgerService{store: store}
}

func (s *ledgerService) RemainingQuantity(ctx context.Context, lineID string, lotNo *int) (decimal.Decimal, error) {
	k := ledger.KeyFor(lineID, lotNo)
	remaining, err := ledger.New(s.store.Ledger()).Remaining(ctx, k, "")
	if err != nil {
		return decimal.Zero, notFoundAs(err, "%s not found", k)
	}
	return remaining, nil
}

func (s *ledgerService) Position(ctx context.Context, lineID string, lotNo *int) (*domain.Position, error) {
	k := ledger.KeyFor(lineID, lotNo)
	pos, err := ledger.New(s.store.Ledger()).Position(ctx, k)
	if err != nil {
		return nil, notFoundAs(err, "%s not found", k)
	}
	return &pos, nil
}

// notFoundAs replaces a bare repository ErrNotFound with a message naming the entity.
func notFoundAs(err error, format string, args ...any) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NotFound(format, args...)
	}
	return err
}

// conflictAs replaces a repository ErrUniqueViolation with a Conflict naming the entity.
func conflictAs(err error, format string, args ...any) error {
	if errors.Is(err, domain.ErrUniqueViolation) {
		return domain.Conflict(format, args...)
	}
	return err
}

// checkSuppliedNumber keeps caller-chosen numbers from shadowing the counter:
// inside PREFIX/<scope>/ only a plain numeric suffix is accepted.
func checkSuppliedNumber(gen *sequence.Generator, field, number string) error {
	if number != "" && !gen.Accepts(number) {
		return domain.InvalidInput("%s %s must end in a number after %s/<financial year>/",
			field, number, gen.Prefix())
	}
	return nil
}

func requireDate(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.InvalidInput("%s is required", field)
	}
	if _, err := time.Parse(domain.DateLayout, value); err != nil {
		return domain.InvalidInput("%s must be a date in YYYY-MM-DD format", field)
	}
	return nil
}

func optionalDate(field, value string) error {
	if value == "" {
		return nil
	}
	return requireDate(field, value)
}
