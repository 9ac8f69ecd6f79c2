package port

import (
	"context"

	"senstosales/internal/domain"
)

// HSNRepository defines the contract for HSN/SAC rate master access.
type HSNRepository interface {
	LoadAll(ctx context.Context) ([]domain.HSNCode, error)
	// ReplaceAll swaps the whole master in one transaction.
	ReplaceAll(ctx context.Context, entries []domain.HSNCode) error
}
