// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package menu_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/petvida/petvida/internal/auth"
	"github.com/petvida/petvida/internal/clinic"
	"github.com/petvida/petvida/internal/console"
	"github.com/petvida/petvida/internal/menu"
	"github.com/petvida/petvida/internal/registration"
)

type mockAuth struct {
	mock.Mock
}

func (m *mockAuth) Login(ctx context.Context, handle, password string, role *auth.Role) (*auth.Identity, error) {
	args := m.Called(ctx, handle, password, role)
	if id := args.Get(0); id != nil {
		return id.(*auth.Identity), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuth) ChangePassword(ctx context.Context, id *auth.Identity, current, next, confirm string) error {
	return m.Called(ctx, id, current, next, confirm).Error(0)
}

func (m *mockAuth) Unlock(ctx context.Context, actor *auth.Identity, handle string) error {
	return m.Called(ctx, actor, handle).Error(0)
}

func (m *mockAuth) ListAccounts(ctx context.Context, actor *auth.Identity) ([]*auth.Account, error) {
	args := m.Called(ctx, actor)
	if a := args.Get(0); a != nil {
		return a.([]*auth.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockRegistrar struct {
	mock.Mock
}

func (m *mockRegistrar) Collect(ctx context.Context, _ *console.Prompter, role auth.Role) (registration.Form, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(registration.Form), args.Error(1)
}

func (m *mockRegistrar) SignUp(ctx context.Context, form registration.Form) (*registration.Result, error) {
	args := m.Called(ctx, form)
	if r := args.Get(0); r != nil {
		return r.(*registration.Result), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRegistrar) CreateUser(ctx context.Context, actor *auth.Identity, form registration.Form) (*registration.Result, error) {
	args := m.Called(ctx, actor, form)
	if r := args.Get(0); r != nil {
		return r.(*registration.Result), args.Error(1)
	}
	return nil, args.Error(1)
}

// mockRecords implements the record calls the tests drive. Calling any
// other Records method panics on the nil embedded interface.
type mockRecords struct {
	menu.Records
	mock.Mock
}

func (m *mockRecords) ListOwners(ctx context.Context, actor *auth.Identity) ([]*clinic.Owner, error) {
	args := m.Called(ctx, actor)
	if o := args.Get(0); o != nil {
		return o.([]*clinic.Owner), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRecords) DeleteOwner(ctx context.Context, actor *auth.Identity, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *mockRecords) ListAppointments(ctx context.Context, actor *auth.Identity, period *clinic.Period) ([]*clinic.AppointmentListing, error) {
	args := m.Called(ctx, actor, period)
	if l := args.Get(0); l != nil {
		return l.([]*clinic.AppointmentListing), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRecords) ListCancellable(ctx context.Context, actor *auth.Identity) ([]*clinic.AppointmentListing, error) {
	args := m.Called(ctx, actor)
	if l := args.Get(0); l != nil {
		return l.([]*clinic.AppointmentListing), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRecords) ScheduleAppointment(ctx context.Context, actor *auth.Identity, in clinic.AppointmentInput) (*clinic.Appointment, error) {
	args := m.Called(ctx, actor, in)
	if a := args.Get(0); a != nil {
		return a.(*clinic.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRecords) GetAppointment(ctx context.Context, actor *auth.Identity, id int64) (*clinic.Appointment, error) {
	args := m.Called(ctx, actor, id)
	if a := args.Get(0); a != nil {
		return a.(*clinic.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRecords) UpdateAppointment(ctx context.Context, actor *auth.Identity, id int64, patch clinic.AppointmentPatch) (*clinic.Appointment, error) {
	args := m.Called(ctx, actor, id, patch)
	if a := args.Get(0); a != nil {
		return a.(*clinic.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRecords) CancelAppointment(ctx context.Context, actor *auth.Identity, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *mockRecords) Profile(ctx context.Context, actor *auth.Identity) (*clinic.OwnerProfile, error) {
	args := m.Called(ctx, actor)
	if p := args.Get(0); p != nil {
		return p.(*clinic.OwnerProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRecords) UpdateContact(ctx context.Context, actor *auth.Identity, patch clinic.ContactPatch) (*clinic.Owner, error) {
	args := m.Called(ctx, actor, patch)
	if o := args.Get(0); o != nil {
		return o.(*clinic.Owner), args.Error(1)
	}
	return nil, args.Error(1)
}

type fakeMaintenance struct {
	resets int
	err    error
}

func (f *fakeMaintenance) Reset() error {
	f.resets++
	return f.err
}

type failureRecorder struct {
	kinds []string
}

func (r *failureRecorder) RecordFailure(kind string) {
	r.kinds = append(r.kinds, kind)
}

type harness struct {
	shell    *menu.Shell
	out      *bytes.Buffer
	auth     *mockAuth
	reg      *mockRegistrar
	records  *mockRecords
	maint    *fakeMaintenance
	failures *failureRecorder
}

// newHarness builds a Shell that reads lines as the operator's input.
func newHarness(t *testing.T, lines ...string) *harness {
	t.Helper()
	h := &harness{
		out:      &bytes.Buffer{},
		auth:     &mockAuth{},
		reg:      &mockRegistrar{},
		records:  &mockRecords{},
		maint:    &fakeMaintenance{},
		failures: &failureRecorder{},
	}
	input := strings.Join(lines, "\n") + "\n"
	shell, err := menu.New(menu.Deps{
		In:           console.NewReader(strings.NewReader(input), h.out),
		Out:          h.out,
		Auth:         h.auth,
		Registration: h.reg,
		Records:      h.records,
		Maintenance:  h.maint,
		Metrics:      h.failures,
	})
	require.NoError(t, err)
	h.shell = shell
	t.Cleanup(func() {
		h.auth.AssertExpectations(t)
		h.reg.AssertExpectations(t)
		h.records.AssertExpectations(t)
	})
	return h
}

func (h *harness) run(t *testing.T) string {
	t.Helper()
	require.NoError(t, h.shell.Run(context.Background()))
	return h.out.String()
}

func identity(role auth.Role) *auth.Identity {
	ownerID := int64(30)
	id := &auth.Identity{AccountID: 10, Handle: "user_" + string(role), Role: role}
	if role == auth.RoleClient {
		id.OwnerID = &ownerID
	}
	return id
}

// expectLogin makes the next login with handle/password succeed as role.
func (h *harness) expectLogin(role auth.Role) *auth.Identity {
	id := identity(role)
	h.auth.On("Login", mock.Anything, "ana", "secret123", mock.MatchedBy(func(r *auth.Role) bool {
		return r != nil && *r == role
	})).Return(id, nil).Once()
	return id
}
