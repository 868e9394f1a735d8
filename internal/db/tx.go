package db

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
)

// TxFunc runs with a context carrying the transaction; repositories pick it
// up through Client.Conn.
type TxFunc func(ctx context.Context) error

type txKey struct{}

// WithTx runs the given function in a transaction. A nested call joins the
// transaction already in ctx.
func (c *Client) WithTx(ctx context.Context, fn TxFunc) error {
	if _, ok := ctx.Value(txKey{}).(dialect.Tx); ok {
		return fn(ctx)
	}

	tx, err := c.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("start tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx rollback: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx commit: %w", err)
	}
	return nil
}

// Conn returns the transaction in ctx, or the driver when there is none.
func (c *Client) Conn(ctx context.Context) dialect.ExecQuerier {
	if tx, ok := ctx.Value(txKey{}).(dialect.Tx); ok {
		return tx
	}
	return c.drv
}
