package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"senstosales/internal/domain"
)

type receiptRepo struct {
	q sqlx.ExtContext
}

func (r *receiptRepo) Create(ctx context.Context, rc *domain.SRVReceipt) error {
	rc.CreatedAt = time.Now().UTC()
	_, err := sqlx.NamedExecContext(ctx, r.q,
		`INSERT INTO srv_receipts (srv_number, srv_date, po_number, received_qty, accepted_qty,
		 rejected_qty, remarks, owner_id, created_at)
		 VALUES (:srv_number, :srv_date, :po_number, :received_qty, :accepted_qty,
		 :rejected_qty, :remarks, :owner_id, :created_at)`, rc)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("receiptRepo.Create: %w", domain.ErrUniqueViolation)
		}
		return fmt.Errorf("receiptRepo.Create: %w", err)
	}
	return nil
}

func (r *receiptRepo) ListByPO(ctx context.Context, poNumber string) ([]domain.SRVReceipt, error) {
	query := `SELECT srv_number, srv_date, po_number, received_qty, accepted_qty, rejected_qty,
		remarks, owner_id, created_at FROM srv_receipts`
	var args []any
	if poNumber != "" {
		query += ` WHERE po_number = ?`
		args = append(args, poNumber)
	}
	query += ` ORDER BY srv_date DESC, srv_number DESC`

	var out []domain.SRVReceipt
	if err := sqlx.SelectContext(ctx, r.q, &out, r.q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("receiptRepo.ListByPO: %w", err)
	}
	return out, nil
}
