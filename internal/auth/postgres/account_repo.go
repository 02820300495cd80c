// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

// Package postgres implements auth.AccountRepository on PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/petvida/petvida/internal/auth"
	"github.com/petvida/petvida/internal/store"
	"github.com/petvida/petvida/pkg/errutil"
)

const accountColumns = `id, handle, password_hash, role, owner_id, failed_attempts, locked, created_at, updated_at`

// AccountRepository implements auth.AccountRepository.
type AccountRepository struct {
	db store.DB
}

// NewAccountRepository creates an AccountRepository. Calls made with a
// context carrying a store transaction run inside it.
func NewAccountRepository(db store.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) q(ctx context.Context) store.DB {
	return store.Querier(ctx, r.db)
}

// GetByHandle retrieves an account by its exact handle.
func (r *AccountRepository) GetByHandle(ctx context.Context, handle string) (*auth.Account, error) {
	row := r.q(ctx).QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE handle = $1`, handle)
	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code(errutil.CodeNotFound).
			With("handle", handle).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, store.Fail(err).
			With("operation", "get account by handle").
			With("handle", handle).
			Wrap(err)
	}
	return account, nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*auth.Account, error) {
	row := r.q(ctx).QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code(errutil.CodeNotFound).
			With("account_id", id).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, store.Fail(err).
			With("operation", "get account by id").
			With("account_id", id).
			Wrap(err)
	}
	return account, nil
}

// Create inserts a and fills in its ID and timestamps.
func (r *AccountRepository) Create(ctx context.Context, a *auth.Account) error {
	err := r.q(ctx).QueryRow(ctx, `
		INSERT INTO accounts (handle, password_hash, role, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, a.Handle, a.PasswordHash, string(a.Role), a.OwnerID).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return store.Fail(err).
			With("operation", "insert account").
			With("handle", a.Handle).
			Wrap(err)
	}
	return nil
}

// RecordSuccess resets the failure counter, replacing the digest when
// newDigest is non-empty.
func (r *AccountRepository) RecordSuccess(ctx context.Context, id int64, newDigest string) error {
	tag, err := r.q(ctx).Exec(ctx, `
		UPDATE accounts
		SET failed_attempts = 0,
		    password_hash = COALESCE(NULLIF($2, ''), password_hash),
		    updated_at = now()
		WHERE id = $1
	`, id, newDigest)
	if err != nil {
		return store.Fail(err).With("operation", "record login success").With("account_id", id).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return store.NotFound("account", id)
	}
	return nil
}

// RecordFailure increments the counter and locks at auth.LockoutThreshold in
// one statement.
func (r *AccountRepository) RecordFailure(ctx context.Context, id int64) (int, error) {
	var failures int
	err := r.q(ctx).QueryRow(ctx, `
		UPDATE accounts
		SET failed_attempts = failed_attempts + 1,
		    locked = locked OR failed_attempts + 1 >= $2,
		    updated_at = now()
		WHERE id = $1
		RETURNING failed_attempts
	`, id, auth.LockoutThreshold).Scan(&failures)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, store.NotFound("account", id)
	}
	if err != nil {
		return 0, store.Fail(err).With("operation", "record login failure").With("account_id", id).Wrap(err)
	}
	return failures, nil
}

// SetPasswordHash replaces the stored digest.
func (r *AccountRepository) SetPasswordHash(ctx context.Context, id int64, digest string) error {
	return r.update(ctx, "set password hash", id,
		`UPDATE accounts SET password_hash = $2, updated_at = now() WHERE id = $1`, id, digest)
}

// LinkOwner attaches an owner record to a client account.
func (r *AccountRepository) LinkOwner(ctx context.Context, id, ownerID int64) error {
	return r.update(ctx, "link owner", id,
		`UPDATE accounts SET owner_id = $2, updated_at = now() WHERE id = $1`, id, ownerID)
}

// Unlock clears the lock and the failure counter.
func (r *AccountRepository) Unlock(ctx context.Context, id int64) error {
	return r.update(ctx, "unlock account", id,
		`UPDATE accounts SET locked = false, failed_attempts = 0, updated_at = now() WHERE id = $1`, id)
}

// ExistsWithRole reports whether any account holds role.
func (r *AccountRepository) ExistsWithRole(ctx context.Context, role auth.Role) (bool, error) {
	var exists bool
	err := r.q(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE role = $1)`, string(role)).Scan(&exists)
	if err != nil {
		return false, store.Fail(err).With("operation", "check role exists").With("role", string(role)).Wrap(err)
	}
	return exists, nil
}

// List returns every account ordered by ID.
func (r *AccountRepository) List(ctx context.Context) ([]*auth.Account, error) {
	return r.list(ctx, "list accounts", `SELECT `+accountColumns+` FROM accounts ORDER BY id`)
}

// ListByRole returns the accounts holding role ordered by handle.
func (r *AccountRepository) ListByRole(ctx context.Context, role auth.Role) ([]*auth.Account, error) {
	return r.list(ctx, "list accounts by role",
		`SELECT `+accountColumns+` FROM accounts WHERE role = $1 ORDER BY handle`, string(role))
}

func (r *AccountRepository) update(ctx context.Context, op string, id int64, sql string, args ...any) error {
	tag, err := r.q(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return store.Fail(err).With("operation", op).With("account_id", id).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return store.NotFound("account", id)
	}
	return nil
}

func (r *AccountRepository) list(ctx context.Context, op, sql string, args ...any) ([]*auth.Account, error) {
	rows, err := r.q(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, store.Fail(err).With("operation", op).Wrap(err)
	}
	defer rows.Close()

	var accounts []*auth.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, store.Fail(err).With("operation", op).Wrap(err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Fail(err).With("operation", op).Wrap(err)
	}
	return accounts, nil
}

func scanAccount(row pgx.Row) (*auth.Account, error) {
	var (
		a    auth.Account
		role string
	)
	if err := row.Scan(
		&a.ID,
		&a.Handle,
		&a.PasswordHash,
		&role,
		&a.OwnerID,
		&a.FailedAttempts,
		&a.Locked,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	a.Role = auth.Role(role)
	return &a, nil
}

var _ auth.AccountRepository = (*AccountRepository)(nil)
