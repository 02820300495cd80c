// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/petvida/petvida/pkg/errutil"
)

// Login outcomes reported to the LoginRecorder.
const (
	OutcomeSuccess            = "success"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeLocked             = "locked"
	OutcomeRoleMismatch       = "role_mismatch"
	OutcomeError              = "error"
)

// LoginRecorder counts login attempts by outcome.
type LoginRecorder interface {
	RecordLogin(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordLogin(string) {}

// dummyPasswordHash is verified against when the handle does not exist so the
// response time does not reveal which handles are registered.
//
//nolint:gosec // G101: intentionally fake digest, matches no password.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Service authenticates accounts and manages their credentials.
type Service struct {
	accounts     AccountRepository
	hasher       PasswordHasher
	logger       *slog.Logger
	metrics      LoginRecorder
	newSessionID func() ulid.ULID
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLoginRecorder sets the login metrics sink.
func WithLoginRecorder(r LoginRecorder) ServiceOption {
	return func(s *Service) {
		if r != nil {
			s.metrics = r
		}
	}
}

// NewService creates a Service. accounts and hasher are required.
func NewService(accounts AccountRepository, hasher PasswordHasher, opts ...ServiceOption) (*Service, error) {
	if accounts == nil {
		return nil, oops.Errorf("account repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	s := &Service{
		accounts:     accounts,
		hasher:       hasher,
		logger:       slog.Default(),
		metrics:      nopRecorder{},
		newSessionID: ulid.Make,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Login verifies handle and password. When expectedRole is non-nil the
// account must hold that role.
//
// Outcomes:
//   - unknown handle or wrong password: INVALID_CREDENTIALS
//   - locked account: ACCOUNT_LOCKED, the failure counter is left alone
//   - wrong password: the failure counter is incremented and the account
//     locks at LockoutThreshold
//   - role differs from expectedRole: ROLE_MISMATCH, not counted as a failure
//   - success: the counter is reset and an Identity is returned
func (s *Service) Login(ctx context.Context, handle, password string, expectedRole *Role) (*Identity, error) {
	account, err := s.accounts.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.hasher.Verify(password, dummyPasswordHash)
			s.metrics.RecordLogin(OutcomeInvalidCredentials)
			s.logger.InfoContext(ctx, "login rejected",
				"event", "login_failed",
				"reason", "unknown_handle",
				"handle", handle)
			return nil, invalidCredentials()
		}
		s.metrics.RecordLogin(OutcomeError)
		return nil, oops.With("operation", "get account by handle").Wrap(err)
	}

	if account.Locked {
		s.metrics.RecordLogin(OutcomeLocked)
		s.logger.WarnContext(ctx, "login rejected",
			"event", "login_locked",
			"handle", handle,
			"account_id", account.ID)
		return nil, oops.Code(errutil.CodeAccountLocked).
			With("account_id", account.ID).
			Errorf("account is locked after too many failed attempts; contact an administrator")
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		failures, err := s.accounts.RecordFailure(ctx, account.ID)
		if err != nil {
			s.metrics.RecordLogin(OutcomeError)
			return nil, oops.With("operation", "record failed login").
				With("account_id", account.ID).
				Wrap(err)
		}
		s.metrics.RecordLogin(OutcomeInvalidCredentials)
		s.logger.InfoContext(ctx, "login rejected",
			"event", "login_failed",
			"reason", "bad_password",
			"handle", handle,
			"account_id", account.ID,
			"failed_attempts", failures,
			"remaining_attempts", RemainingAttempts(failures))
		if ShouldLock(failures) {
			s.logger.WarnContext(ctx, "account locked",
				"event", "account_locked",
				"handle", handle,
				"account_id", account.ID)
		}
		return nil, invalidCredentials()
	}

	if expectedRole != nil && account.Role != *expectedRole {
		s.metrics.RecordLogin(OutcomeRoleMismatch)
		s.logger.InfoContext(ctx, "login rejected",
			"event", "login_role_mismatch",
			"handle", handle,
			"account_id", account.ID,
			"role", string(account.Role),
			"expected_role", string(*expectedRole))
		return nil, oops.Code(errutil.CodeRoleMismatch).
			With("role", string(account.Role)).
			With("expected_role", string(*expectedRole)).
			Errorf("this account is not a %s account", expectedRole.Label())
	}

	var upgraded string
	if s.hasher.NeedsUpgrade(account.PasswordHash) {
		digest, err := s.hasher.Hash(password)
		if err != nil {
			s.logger.WarnContext(ctx, "password rehash failed",
				"account_id", account.ID,
				"error", err)
		} else {
			upgraded = digest
		}
	}
	if err := s.accounts.RecordSuccess(ctx, account.ID, upgraded); err != nil {
		s.metrics.RecordLogin(OutcomeError)
		return nil, oops.With("operation", "record successful login").
			With("account_id", account.ID).
			Wrap(err)
	}

	id := &Identity{
		AccountID: account.ID,
		Handle:    account.Handle,
		Role:      account.Role,
		OwnerID:   account.OwnerID,
		SessionID: s.newSessionID(),
	}
	s.metrics.RecordLogin(OutcomeSuccess)
	s.logger.InfoContext(ctx, "login succeeded",
		"event", "login",
		"handle", account.Handle,
		"account_id", account.ID,
		"role", string(account.Role),
		"session_id", id.SessionID.String(),
		"rehashed", upgraded != "")
	return id, nil
}

// ChangePassword replaces the caller's password after re-verifying the
// current one. A wrong current password does not count towards lockout.
func (s *Service) ChangePassword(ctx context.Context, id *Identity, current, next, confirm string) error {
	if id == nil {
		return oops.Code(errutil.CodeRoleMismatch).Errorf("not authenticated")
	}
	account, err := s.accounts.GetByID(ctx, id.AccountID)
	if err != nil {
		return oops.With("operation", "get account").With("account_id", id.AccountID).Wrap(err)
	}
	if !s.hasher.Verify(current, account.PasswordHash) {
		return invalidCredentials()
	}
	if err := ValidatePasswordPair(next, confirm); err != nil {
		return err
	}
	digest, err := s.hasher.Hash(next)
	if err != nil {
		return oops.With("operation", "hash password").Wrap(err)
	}
	if err := s.accounts.SetPasswordHash(ctx, account.ID, digest); err != nil {
		return oops.With("operation", "store password").With("account_id", account.ID).Wrap(err)
	}
	s.logger.InfoContext(ctx, "password changed",
		"event", "password_changed",
		"account_id", account.ID,
		"session_id", id.SessionID.String())
	return nil
}

// Unlock clears the lock on handle. Only administrators may unlock; a nil
// actor is the local operator running the unlock command.
func (s *Service) Unlock(ctx context.Context, actor *Identity, handle string) error {
	if actor != nil {
		if err := RequireRole(actor, RoleAdmin); err != nil {
			return err
		}
	}
	account, err := s.accounts.GetByHandle(ctx, handle)
	if err != nil {
		return oops.With("operation", "get account by handle").With("handle", handle).Wrap(err)
	}
	if err := s.accounts.Unlock(ctx, account.ID); err != nil {
		return oops.With("operation", "unlock account").With("account_id", account.ID).Wrap(err)
	}

	attrs := []any{
		"event", "account_unlocked",
		"handle", handle,
		"account_id", account.ID,
	}
	if actor != nil {
		attrs = append(attrs, "actor_id", actor.AccountID, "session_id", actor.SessionID.String())
	}
	s.logger.InfoContext(ctx, "account unlocked", attrs...)
	return nil
}

// ListAccounts returns every account. Administrators only.
func (s *Service) ListAccounts(ctx context.Context, actor *Identity) ([]*Account, error) {
	if err := RequireRole(actor, RoleAdmin); err != nil {
		return nil, err
	}
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, oops.With("operation", "list accounts").Wrap(err)
	}
	return accounts, nil
}

// invalidCredentials is the same error for an unknown handle and a wrong
// password, so nothing on screen tells them apart.
func invalidCredentials() error {
	return oops.Code(errutil.CodeInvalidCredentials).Errorf("invalid handle or password")
}
