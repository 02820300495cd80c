// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/petvida/petvida/pkg/errutil"
)

type txKey struct{}

// Transactor runs functions inside a single database transaction.
// The open pgx.Tx travels in the context, and repositories pick it up
// through Querier, so every write made by fn commits or rolls back together.
type Transactor struct {
	pool Pool
}

// NewTransactor creates a Transactor backed by the given pool.
func NewTransactor(pool Pool) *Transactor {
	return &Transactor{pool: pool}
}

// InTransaction begins a transaction, stores it in context, and calls fn.
// If fn returns nil the transaction is committed, otherwise it is rolled back
// and fn's error is returned unchanged. A context that already carries a
// transaction joins it instead of nesting.
func (t *Transactor) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return oops.Code(errutil.CodePersistence).With("operation", "begin transaction").Wrap(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return oops.Code(errutil.CodePersistence).With("operation", "commit transaction").Wrap(err)
	}
	return nil
}

// Querier returns the transaction bound to ctx, or fallback when none is open.
func Querier(ctx context.Context, fallback DB) DB {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return fallback
}

// InTx reports whether ctx carries an open transaction.
func InTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(pgx.Tx)
	return ok
}
