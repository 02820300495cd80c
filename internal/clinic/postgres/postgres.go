// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

// Package postgres implements the clinic repositories on PostgreSQL.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/petvida/petvida/internal/store"
)

// exec runs a single-row write and reports NOT_FOUND when nothing matched.
func exec(ctx context.Context, db store.DB, op, entity string, id int64, sql string, args ...any) error {
	tag, err := store.Querier(ctx, db).Exec(ctx, sql, args...)
	if err != nil {
		return store.Fail(err).With("operation", op).With(entity+"_id", id).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return store.NotFound(entity, id)
	}
	return nil
}

// collect runs a query and scans every row with scan.
func collect[T any](ctx context.Context, db store.DB, op string, scan func(pgx.Row) (T, error), sql string, args ...any) ([]T, error) {
	rows, err := store.Querier(ctx, db).Query(ctx, sql, args...)
	if err != nil {
		return nil, store.Fail(err).With("operation", op).Wrap(err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, store.Fail(err).With("operation", op).Wrap(err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Fail(err).With("operation", op).Wrap(err)
	}
	return out, nil
}
