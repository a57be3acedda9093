package shared

import "context"

// TxRunner provides a transactional boundary for multi-aggregate
// mutations. Repository calls made with the context passed to fn join
// the same transaction; if fn returns an error everything rolls back.
type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// NopTxRunner runs fn without a transactional boundary. Used in tests
// and for single-aggregate operations where the repository save is
// already atomic.
type NopTxRunner struct{}

// RunInTransaction invokes fn with the unmodified context
func (NopTxRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
