// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package registration_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petvida/petvida/internal/auth"
	"github.com/petvida/petvida/internal/console"
	"github.com/petvida/petvida/internal/registration"
)

func scripted(lines ...string) (*console.Prompter, *bytes.Buffer) {
	out := &bytes.Buffer{}
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	return console.NewPrompter(console.NewReader(in, out), out), out
}

func TestCollectNewPassword(t *testing.T) {
	p, out := scripted(
		"short",                // too short
		"secret123", "other99", // mismatch restarts
		"secret123", "secret123",
	)
	pw, err := registration.CollectNewPassword(p, "Password")
	require.NoError(t, err)
	assert.Equal(t, "secret123", pw)
	assert.Contains(t, out.String(), "at least 8 characters")
	assert.Contains(t, out.String(), "passwords do not match")
}

func TestCollect_ClientRepromptsInvalidFields(t *testing.T) {
	db := newMemDB()
	w := newWorkflow(t, db, nil)
	_, err := w.Register(context.Background(), clientForm("taken", "11111111111"))
	require.NoError(t, err)

	p, out := scripted(
		"bad handle", "taken", "Admin", "ana",
		"secret123", "secret123",
		"Ana Souza",
		"123", "12345678901",
		"",
		"Rua A 1",
		"12", "11987654321",
		"",
		"Rex", "Dog", "Mixed",
		"41", "-1", "40",
	)
	form, err := w.Collect(context.Background(), p, auth.RoleClient)
	require.NoError(t, err)

	assert.Equal(t, "ana", form.Handle)
	assert.Equal(t, "12345678901", form.Owner.NationalID)
	assert.Equal(t, "11987654321", form.Owner.Phone)
	assert.Equal(t, 40, form.Animal.Age)
	require.NoError(t, form.Validate())
	assert.Contains(t, out.String(), `"taken" is already taken`)
	assert.Contains(t, out.String(), `"Admin" is reserved for the administrator`)
	assert.Equal(t, 1, len(db.accounts), "collecting persists nothing")

	_, err = w.Register(context.Background(), form)
	require.NoError(t, err)
}

func TestCollect_StaffSkipsOwnerDetails(t *testing.T) {
	w := newWorkflow(t, newMemDB(), nil)
	p, _ := scripted("drlee", "secret123", "secret123")
	form, err := w.Collect(context.Background(), p, auth.RoleVeterinarian)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleVeterinarian, form.Role)
	assert.Empty(t, form.Owner.Name)
}

func TestCollect_EndOfInputAborts(t *testing.T) {
	w := newWorkflow(t, newMemDB(), nil)
	p, _ := scripted("ana", "secret123")
	_, err := w.Collect(context.Background(), p, auth.RoleClient)
	assert.ErrorIs(t, err, io.EOF)
}

func TestCollectRole(t *testing.T) {
	p, _ := scripted("owner", "Veterinarian")
	role, err := registration.CollectRole(p)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleVeterinarian, role)
}
