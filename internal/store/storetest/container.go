// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

//go:build integration

// Package storetest starts a migrated PostgreSQL container for integration
// tests.
package storetest

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/petvida/petvida/internal/store"
)

// Database is a running, migrated test database.
type Database struct {
	Pool    *pgxpool.Pool
	ConnStr string

	container *postgres.PostgresContainer
}

// Start runs postgres:16-alpine, applies every migration and opens a pool.
func Start(ctx context.Context) (*Database, error) {
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("petvida_test"),
		postgres.WithUsername("petvida"),
		postgres.WithPassword("petvida"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, oops.With("operation", "start postgres container").Wrap(err)
	}

	db := &Database{container: container}
	fail := func(op string, err error) (*Database, error) {
		db.Close(ctx)
		return nil, oops.With("operation", op).Wrap(err)
	}

	db.ConnStr, err = container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return fail("get connection string", err)
	}

	migrator, err := store.NewMigrator(db.ConnStr)
	if err != nil {
		return fail("create migrator", err)
	}
	err = migrator.Up()
	_ = migrator.Close()
	if err != nil {
		return fail("run migrations", err)
	}

	db.Pool, err = store.Connect(ctx, db.ConnStr, store.ConnectOptions{Retries: 5, Backoff: 200 * time.Millisecond})
	if err != nil {
		return fail("connect", err)
	}
	return db, nil
}

// Truncate empties every clinic table and resets identities.
func (db *Database) Truncate(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx,
		`TRUNCATE surgeries, appointments, animals, accounts, owners RESTART IDENTITY CASCADE`)
	return err
}

// Close releases the pool and terminates the container.
func (db *Database) Close(ctx context.Context) {
	if db.Pool != nil {
		db.Pool.Close()
	}
	if db.container != nil {
		_ = db.container.Terminate(ctx)
	}
}
