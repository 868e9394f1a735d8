package db

import "context"

type Transactor interface {
	WithTx(ctx context.Context, fn TxFunc) error
}

// NoopTransactor runs fn directly. Used with stores that have no
// transactions, such as the in-memory repository.
type NoopTransactor struct{}

func (NoopTransactor) WithTx(ctx context.Context, fn TxFunc) error {
	return fn(ctx)
}
