// Package ledger answers "how much of this PO line is still open" for the
// dispatch and invoice writers. Arithmetic is pure; reads go through
// port.LedgerRepository so the same code runs inside or outside a write tx.
package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"senstosales/internal/domain"
	"senstosales/internal/port"
)

// QtyPlaces is the precision quantities are held at.
const QtyPlaces = 3

// Key identifies a PO line, or one delivery lot of it.
type Key struct {
	LineID string
	LotNo  int
	HasLot bool
}

// LineKey addresses a whole PO line.
func LineKey(lineID string) Key { return Key{LineID: lineID} }

// LotKey addresses one lot of a PO line.
func LotKey(lineID string, lotNo int) Key { return Key{LineID: lineID, LotNo: lotNo, HasLot: true} }

// KeyFor builds a lot key when lotNo is set, else a line key.
func KeyFor(lineID string, lotNo *int) Key {
	if lotNo == nil {
		return LineKey(lineID)
	}
	return LotKey(lineID, *lotNo)
}

// Lot returns the lot number as a pointer, nil for line keys.
func (k Key) Lot() *int {
	if !k.HasLot {
		return nil
	}
	n := k.LotNo
	return &n
}

func (k Key) String() string {
	if k.HasLot {
		return fmt.Sprintf("PO line %s lot %d", k.LineID, k.LotNo)
	}
	return fmt.Sprintf("PO line %s", k.LineID)
}

// Remaining is ordered minus dispatched. It may be negative when reading
// data that was over-committed outside this engine.
func Remaining(ordered, dispatched decimal.Decimal) decimal.Decimal {
	return ordered.Sub(dispatched).Round(QtyPlaces)
}

// Check fails with a BusinessRuleViolation when requested exceeds remaining.
func Check(k Key, requested, remaining decimal.Decimal) error {
	if requested.GreaterThan(remaining) {
		return domain.QuantityExceeded(k.String(), requested, remaining)
	}
	return nil
}

// Tally accumulates quantities requested within a single document so that
// two lines against the same target are checked together.
type Tally map[Key]decimal.Decimal

// Add records qty against k and returns the running total for k.
func (t Tally) Add(k Key, qty decimal.Decimal) decimal.Decimal {
	total := t[k].Add(qty)
	t[k] = total
	return total
}

// Book reads ledger positions through a repository.
type Book struct {
	repo port.LedgerRepository
}

// New returns a Book over repo. Pass a transaction-scoped repository when the
// result guards a write.
func New(repo port.LedgerRepository) *Book {
	return &Book{repo: repo}
}

// Remaining returns ordered - Σ dispatched for k, ignoring rows of excludingDC.
func (b *Book) Remaining(ctx context.Context, k Key, excludingDC string) (decimal.Decimal, error) {
	ordered, err := b.repo.Ordered(ctx, k.LineID, k.Lot())
	if err != nil {
		return decimal.Zero, err
	}
	dispatched, err := b.repo.Dispatched(ctx, k.LineID, k.Lot(), excludingDC)
	if err != nil {
		return decimal.Zero, err
	}
	return Remaining(ordered, dispatched), nil
}

// Position returns the full ledger view of k.
func (b *Book) Position(ctx context.Context, k Key) (domain.Position, error) {
	ordered, err := b.repo.Ordered(ctx, k.LineID, k.Lot())
	if err != nil {
		return domain.Position{}, err
	}
	dispatched, err := b.repo.Dispatched(ctx, k.LineID, k.Lot(), "")
	if err != nil {
		return domain.Position{}, err
	}
	invoiced, err := b.repo.Invoiced(ctx, k.LineID, k.Lot())
	if err != nil {
		return domain.Position{}, err
	}
	return domain.Position{
		Ordered:    ordered.Round(QtyPlaces),
		Dispatched: dispatched.Round(QtyPlaces),
		Invoiced:   invoiced.Round(QtyPlaces),
		Remaining:  Remaining(ordered, dispatched),
	}, nil
}
