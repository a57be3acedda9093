package persistence

import (
	"context"
	"errors"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// txContextKey carries the transactional *gorm.DB through the context so
// repositories called inside RunInTransaction join the same transaction.
type txContextKey struct{}

// withTx returns a context carrying the transactional DB handle
func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// dbFromContext returns the transactional DB from the context if one is
// present, otherwise the fallback connection.
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback
}

// GormTxRunner implements shared.TxRunner on top of GORM transactions.
// All repository calls made with the context passed to fn run inside a
// single database transaction and commit or roll back together.
type GormTxRunner struct {
	db *gorm.DB
}

// NewGormTxRunner creates a new GormTxRunner
func NewGormTxRunner(db *gorm.DB) *GormTxRunner {
	return &GormTxRunner{db: db}
}

// RunInTransaction executes fn inside a database transaction. A
// serialization failure or deadlock rolls back and reruns fn once on a
// fresh transaction; a second failure surfaces to the caller. fn must
// therefore load its state through the transactional context rather
// than capture pre-loaded aggregates.
func (r *GormTxRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	run := func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(withTx(ctx, tx))
		})
	}

	err := run()
	if err != nil && isTransientTxError(err) {
		err = run()
	}
	return err
}

// isTransientTxError reports whether the transaction failed on a
// condition a clean rerun can resolve. 40001 is a serialization
// failure, 40P01 a deadlock.
func isTransientTxError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// Ensure GormTxRunner implements TxRunner
var _ shared.TxRunner = (*GormTxRunner)(nil)
