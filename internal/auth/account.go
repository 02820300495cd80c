// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package auth

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/petvida/petvida/pkg/errutil"
)

// Role is the permission class of an account.
type Role string

// Roles.
const (
	RoleAdmin        Role = "admin"
	RoleClient       Role = "client"
	RoleVeterinarian Role = "veterinarian"
)

// Roles lists every role in menu order.
var Roles = []Role{RoleAdmin, RoleClient, RoleVeterinarian}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return slices.Contains(Roles, r)
}

// Label is the human-readable role name.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleClient:
		return "Client"
	case RoleVeterinarian:
		return "Veterinarian"
	}
	return string(r)
}

// ParseRole accepts a role name, case-insensitively.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", oops.Code(errutil.CodeValidation).
			With("field", "role").
			Errorf("unknown role %q", s)
	}
	return r, nil
}

// Account is a persisted login.
type Account struct {
	ID             int64
	Handle         string
	PasswordHash   string
	Role           Role
	OwnerID        *int64
	FailedAttempts int
	Locked         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Identity is the authenticated principal of one interactive session.
type Identity struct {
	AccountID int64
	Handle    string
	Role      Role
	// OwnerID is set for client accounts linked to an owner record.
	OwnerID   *int64
	SessionID ulid.ULID
}

// RequireRole fails with ROLE_MISMATCH unless id holds one of roles.
func RequireRole(id *Identity, roles ...Role) error {
	if id == nil {
		return oops.Code(errutil.CodeRoleMismatch).Errorf("not authenticated")
	}
	if slices.Contains(roles, id.Role) {
		return nil
	}
	return oops.Code(errutil.CodeRoleMismatch).
		With("role", string(id.Role)).
		With("account_id", id.AccountID).
		Errorf("operation not permitted for role %s", id.Role)
}

// AccountRepository persists accounts. Each method is a single statement and
// runs inside the transaction bound to ctx when there is one.
type AccountRepository interface {
	// GetByHandle returns the account, or a NOT_FOUND error wrapping
	// ErrNotFound.
	GetByHandle(ctx context.Context, handle string) (*Account, error)
	GetByID(ctx context.Context, id int64) (*Account, error)

	// Create inserts a and sets a.ID. A taken handle is DUPLICATE_HANDLE.
	Create(ctx context.Context, a *Account) error

	// RecordSuccess resets the failure counter. A non-empty newDigest
	// replaces the stored credential in the same write.
	RecordSuccess(ctx context.Context, id int64, newDigest string) error

	// RecordFailure increments the failure counter, locks the account once
	// it reaches LockoutThreshold, and returns the new count.
	RecordFailure(ctx context.Context, id int64) (int, error)

	SetPasswordHash(ctx context.Context, id int64, digest string) error
	LinkOwner(ctx context.Context, id, ownerID int64) error
	ExistsWithRole(ctx context.Context, role Role) (bool, error)

	// Unlock clears the lock and the failure counter.
	Unlock(ctx context.Context, id int64) error

	List(ctx context.Context) ([]*Account, error)
	ListByRole(ctx context.Context, role Role) ([]*Account, error)
}
