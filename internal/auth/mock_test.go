// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package auth_test

import (
	"context"
	"strings"
	"sync"

	"github.com/samber/oops"
	"github.com/stretchr/testify/mock"

	"github.com/petvida/petvida/internal/auth"
	"github.com/petvida/petvida/pkg/errutil"
)

type mockAccountRepository struct {
	mock.Mock
}

func (m *mockAccountRepository) GetByHandle(ctx context.Context, handle string) (*auth.Account, error) {
	args := m.Called(ctx, handle)
	if a := args.Get(0); a != nil {
		return a.(*auth.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAccountRepository) GetByID(ctx context.Context, id int64) (*auth.Account, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*auth.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAccountRepository) Create(ctx context.Context, a *auth.Account) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAccountRepository) RecordSuccess(ctx context.Context, id int64, newDigest string) error {
	return m.Called(ctx, id, newDigest).Error(0)
}

func (m *mockAccountRepository) RecordFailure(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *mockAccountRepository) SetPasswordHash(ctx context.Context, id int64, digest string) error {
	return m.Called(ctx, id, digest).Error(0)
}

func (m *mockAccountRepository) LinkOwner(ctx context.Context, id, ownerID int64) error {
	return m.Called(ctx, id, ownerID).Error(0)
}

func (m *mockAccountRepository) ExistsWithRole(ctx context.Context, role auth.Role) (bool, error) {
	args := m.Called(ctx, role)
	return args.Bool(0), args.Error(1)
}

func (m *mockAccountRepository) Unlock(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAccountRepository) List(ctx context.Context) ([]*auth.Account, error) {
	args := m.Called(ctx)
	if a := args.Get(0); a != nil {
		return a.([]*auth.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAccountRepository) ListByRole(ctx context.Context, role auth.Role) ([]*auth.Account, error) {
	args := m.Called(ctx, role)
	if a := args.Get(0); a != nil {
		return a.([]*auth.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

// plainHasher stores "plain:<password>" so service tests skip argon2.
type plainHasher struct {
	legacyPrefix string
}

func (h plainHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", auth.ErrEmptyPassword
	}
	return "plain:" + password, nil
}

func (h plainHasher) Verify(password, digest string) bool {
	if h.legacyPrefix != "" && strings.HasPrefix(digest, h.legacyPrefix) {
		return digest == h.legacyPrefix+password
	}
	return digest == "plain:"+password
}

func (h plainHasher) NeedsUpgrade(digest string) bool {
	return !strings.HasPrefix(digest, "plain:")
}

// countingRecorder records login outcomes.
type countingRecorder struct {
	mu       sync.Mutex
	outcomes []string
}

func (r *countingRecorder) RecordLogin(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func (r *countingRecorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.outcomes) == 0 {
		return ""
	}
	return r.outcomes[len(r.outcomes)-1]
}

// inlineTransactor runs fn directly and records how often it was used.
type inlineTransactor struct {
	calls int
}

func (t *inlineTransactor) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

// memAccounts is an in-memory AccountRepository for multi-step scenarios.
type memAccounts struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*auth.Account
}

func newMemAccounts(accounts ...*auth.Account) *memAccounts {
	m := &memAccounts{byID: make(map[int64]*auth.Account)}
	for _, a := range accounts {
		_ = m.Create(context.Background(), a)
	}
	return m
}

func (m *memAccounts) GetByHandle(_ context.Context, handle string) (*auth.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.Handle == handle {
			cp := *a
			return &cp, nil
		}
	}
	return nil, notFound()
}

func (m *memAccounts) GetByID(_ context.Context, id int64) (*auth.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, notFound()
	}
	cp := *a
	return &cp, nil
}

func (m *memAccounts) Create(_ context.Context, a *auth.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Handle == a.Handle {
			return duplicateHandle()
		}
	}
	m.nextID++
	a.ID = m.nextID
	cp := *a
	m.byID[a.ID] = &cp
	return nil
}

func (m *memAccounts) RecordSuccess(_ context.Context, id int64, newDigest string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := m.byID[id]
	a.FailedAttempts = 0
	if newDigest != "" {
		a.PasswordHash = newDigest
	}
	return nil
}

func (m *memAccounts) RecordFailure(_ context.Context, id int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := m.byID[id]
	a.FailedAttempts++
	a.Locked = a.Locked || auth.ShouldLock(a.FailedAttempts)
	return a.FailedAttempts, nil
}

func (m *memAccounts) SetPasswordHash(_ context.Context, id int64, digest string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[id].PasswordHash = digest
	return nil
}

func (m *memAccounts) LinkOwner(_ context.Context, id, ownerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[id].OwnerID = &ownerID
	return nil
}

func (m *memAccounts) ExistsWithRole(_ context.Context, role auth.Role) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.Role == role {
			return true, nil
		}
	}
	return false, nil
}

func (m *memAccounts) Unlock(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return notFound()
	}
	a.Locked = false
	a.FailedAttempts = 0
	return nil
}

func (m *memAccounts) List(_ context.Context) ([]*auth.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*auth.Account, 0, len(m.byID))
	for id := int64(1); id <= m.nextID; id++ {
		if a, ok := m.byID[id]; ok {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memAccounts) ListByRole(ctx context.Context, role auth.Role) ([]*auth.Account, error) {
	all, _ := m.List(ctx)
	var out []*auth.Account
	for _, a := range all {
		if a.Role == role {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAccounts) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

func notFound() error {
	return oops.Code(errutil.CodeNotFound).Wrap(auth.ErrNotFound)
}

func duplicateHandle() error {
	return oops.Code(errutil.CodeDuplicateHandle).Errorf("handle already taken")
}
