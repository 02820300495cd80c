// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"

	"github.com/petvida/petvida/pkg/errutil"
)

// DefaultAdminHandle is the handle of the administrator created on first run.
const DefaultAdminHandle = "admin"

// Transactor runs fn inside one unit of work.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// PasswordPrompt asks the operator for a new, confirmed password.
type PasswordPrompt func(ctx context.Context) (string, error)

var errAdminPresent = errors.New("administrator already present")

// Bootstrapper guarantees an administrator account exists.
type Bootstrapper struct {
	accounts AccountRepository
	hasher   PasswordHasher
	tx       Transactor
	handle   string
	logger   *slog.Logger
}

// NewBootstrapper creates a Bootstrapper that creates handle as the first
// administrator. An empty handle means DefaultAdminHandle.
func NewBootstrapper(accounts AccountRepository, hasher PasswordHasher, tx Transactor, handle string, logger *slog.Logger) (*Bootstrapper, error) {
	if accounts == nil {
		return nil, oops.Errorf("account repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if tx == nil {
		return nil, oops.Errorf("transactor is required")
	}
	if handle == "" {
		handle = DefaultAdminHandle
	}
	if err := ValidateHandle(handle); err != nil {
		return nil, oops.With("operation", "configure admin handle").Wrap(err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bootstrapper{accounts: accounts, hasher: hasher, tx: tx, handle: handle, logger: logger}, nil
}

// EnsureAdmin creates the administrator when no account holds the admin
// role. prompt is only called in that case. It reports whether an account
// was created; running it again is a no-op. A failure leaves no
// administrator row behind. When an account of another role holds the
// reserved handle it fails with DUPLICATE_HANDLE before prompting.
func (b *Bootstrapper) EnsureAdmin(ctx context.Context, prompt PasswordPrompt) (bool, error) {
	exists, err := b.accounts.ExistsWithRole(ctx, RoleAdmin)
	if err != nil {
		return false, oops.With("operation", "check for administrator").Wrap(err)
	}
	if exists {
		return false, nil
	}
	switch err := b.checkHandle(ctx); {
	case errors.Is(err, errAdminPresent):
		return false, nil
	case err != nil:
		return false, err
	}

	b.logger.InfoContext(ctx, "no administrator found, creating one",
		"event", "bootstrap_admin",
		"handle", b.handle)

	password, err := prompt(ctx)
	if err != nil {
		return false, oops.With("operation", "prompt administrator password").Wrap(err)
	}
	if err := ValidatePassword(password); err != nil {
		return false, err
	}
	digest, err := b.hasher.Hash(password)
	if err != nil {
		return false, oops.With("operation", "hash administrator password").Wrap(err)
	}

	err = b.tx.InTransaction(ctx, func(ctx context.Context) error {
		exists, err := b.accounts.ExistsWithRole(ctx, RoleAdmin)
		if err != nil {
			return err
		}
		if exists {
			return errAdminPresent
		}
		err = b.accounts.Create(ctx, &Account{
			Handle:       b.handle,
			PasswordHash: digest,
			Role:         RoleAdmin,
		})
		if errutil.Is(err, errutil.KindDuplicateHandle) {
			return b.checkHandle(ctx)
		}
		return err
	})
	if errors.Is(err, errAdminPresent) {
		b.logger.InfoContext(ctx, "administrator created concurrently",
			"event", "bootstrap_admin_skipped",
			"handle", b.handle)
		return false, nil
	}
	if errutil.Is(err, errutil.KindDuplicateHandle) {
		return false, err
	}
	if err != nil {
		return false, oops.With("operation", "create administrator").Wrap(err)
	}

	b.logger.InfoContext(ctx, "administrator created",
		"event", "bootstrap_admin_created",
		"handle", b.handle)
	return true, nil
}

// checkHandle returns errAdminPresent when an administrator holds the
// reserved handle, nil when the handle is free, and DUPLICATE_HANDLE when
// an account of another role holds it.
func (b *Bootstrapper) checkHandle(ctx context.Context) error {
	holder, err := b.accounts.GetByHandle(ctx, b.handle)
	switch {
	case errutil.Is(err, errutil.KindNotFound):
		return nil
	case err != nil:
		return oops.With("operation", "check administrator handle").With("handle", b.handle).Wrap(err)
	case holder.Role == RoleAdmin:
		return errAdminPresent
	}
	return oops.Code(errutil.CodeDuplicateHandle).
		With("handle", b.handle).
		With("role", string(holder.Role)).
		With("account_id", holder.ID).
		Errorf("administrator handle %q is held by a %s account; rename it or configure another admin.handle",
			b.handle, holder.Role.Label())
}
