package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"senstosales/internal/config"
	"senstosales/internal/port"
)

// ledgerLockKey is the PostgreSQL advisory lock taken by every ledger write.
const ledgerLockKey int64 = 0x5e457051

// repositories binds every repository to one query handle, either the pool
// or a transaction.
type repositories struct {
	q sqlx.ExtContext
}

func (r repositories) PurchaseOrders() port.PurchaseOrderRepository { return &poRepo{q: r.q} }
func (r repositories) Challans() port.ChallanRepository             { return &challanRepo{q: r.q} }
func (r repositories) Invoices() port.InvoiceRepository             { return &invoiceRepo{q: r.q} }
func (r repositories) Receipts() port.ReceiptRepository             { return &receiptRepo{q: r.q} }
func (r repositories) Ledger() port.LedgerRepository                { return &ledgerRepo{q: r.q} }

// Store is the sqlx-backed port.Store.
type Store struct {
	repositories
	db *sqlx.DB
}

// NewStore wraps an open pool. For SQLite the DSN must carry _txlock=immediate
// (see config.DBConfig.DSN) so that BEGIN takes the write lock.
func NewStore(db *sqlx.DB) *Store {
	return &Store{repositories: repositories{q: db}, db: db}
}

// DB exposes the pool for health checks and migrations.
func (s *Store) DB() *sqlx.DB { return s.db }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithinExclusiveTx runs fn holding the engine's write lock for the whole
// transaction. SQLite acquires it at BEGIN IMMEDIATE; PostgreSQL takes a
// transaction-scoped advisory lock before fn runs.
func (s *Store) WithinExclusiveTx(ctx context.Context, fn func(tx port.Repositories) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store.WithinExclusiveTx: begin: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if s.db.DriverName() == config.DriverPostgres {
		if _, err := tx.ExecContext(ctx, tx.Rebind("SELECT pg_advisory_xact_lock(?)"), ledgerLockKey); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("store.WithinExclusiveTx: lock: %w", err)
		}
	}

	if err := fn(repositories{q: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := ctx.Err(); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store.WithinExclusiveTx: commit: %w", err)
	}
	return nil
}
