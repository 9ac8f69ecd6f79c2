package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"senstosales/internal/domain"
	"senstosales/internal/port"
)

type hsnRepo struct {
	db *sqlx.DB
}

// NewHSNRepo creates a new HSNRepository over the pool.
func NewHSNRepo(db *sqlx.DB) port.HSNRepository {
	return &hsnRepo{db: db}
}

func (r *hsnRepo) LoadAll(ctx context.Context) ([]domain.HSNCode, error) {
	var entries []domain.HSNCode
	err := r.db.SelectContext(ctx, &entries,
		`SELECT code, description, gst_rate FROM hsn_codes ORDER BY code, gst_rate`)
	if err != nil {
		return nil, fmt.Errorf("hsnRepo.LoadAll: %w", err)
	}
	return entries, nil
}

func (r *hsnRepo) ReplaceAll(ctx context.Context, entries []domain.HSNCode) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("hsnRepo.ReplaceAll: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM hsn_codes`); err != nil {
		return fmt.Errorf("hsnRepo.ReplaceAll: clear: %w", err)
	}
	stmt, err := tx.PrepareNamedContext(ctx,
		`INSERT INTO hsn_codes (code, description, gst_rate) VALUES (:code, :description, :gst_rate)`)
	if err != nil {
		return fmt.Errorf("hsnRepo.ReplaceAll: prepare: %w", err)
	}
	defer stmt.Close()

	seen := make(map[string]bool, len(entries))
	for i := range entries {
		key := entries[i].Code + "|" + entries[i].GSTRate.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		if _, err := stmt.ExecContext(ctx, &entries[i]); err != nil {
			return fmt.Errorf("hsnRepo.ReplaceAll: insert %s: %w", entries[i].Code, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("hsnRepo.ReplaceAll: commit: %w", err)
	}
	return nil
}
