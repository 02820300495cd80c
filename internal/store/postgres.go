// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

// Package store owns the PostgreSQL connection pool, the unit of work that
// repositories share, and the embedded schema migrations.
package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/petvida/petvida/pkg/errutil"
)

// DB is the query surface shared by *pgxpool.Pool, pgx.Tx and pgxmock.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pool is a DB that can open transactions.
type Pool interface {
	DB
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ConnectOptions controls how Connect retries an unreachable server.
type ConnectOptions struct {
	// Retries is the number of extra attempts after the first. Zero means a
	// single attempt.
	Retries uint64
	// Backoff is the base delay of the exponential backoff.
	Backoff time.Duration
	Logger  *slog.Logger
}

// Connect opens a pool and pings the server, retrying with exponential
// backoff while the server is unreachable. A malformed URL fails at once.
func Connect(ctx context.Context, databaseURL string, opts ConnectOptions) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, oops.Code(errutil.CodePersistence).
			With("operation", "parse database url").
			Wrap(err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	base := opts.Backoff
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	backoff := retry.WithMaxRetries(opts.Retries, retry.NewExponential(base))

	var pool *pgxpool.Pool
	attempt := 0
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		p, err := pgxpool.NewWithConfig(ctx, cfg.Copy())
		if err != nil {
			return err
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			logger.WarnContext(ctx, "database not reachable",
				"attempt", attempt,
				"error", err)
			return retry.RetryableError(err)
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, oops.Code(errutil.CodePersistence).
			With("operation", "connect").
			With("attempts", attempt).
			Wrap(err)
	}
	return pool, nil
}
