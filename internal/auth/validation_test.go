// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/petvida/petvida/internal/auth"
	"github.com/petvida/petvida/pkg/errutil"
)

func TestValidateHandle(t *testing.T) {
	tests := []struct {
		handle string
		valid  bool
	}{
		{"ana", true},
		{"Dr_Silva2", true},
		{"_", true},
		{"123", true},
		{"", false},
		{"ana silva", false},
		{"ana-silva", false},
		{"josé", false},
		{"ana@clinic", false},
	}
	for _, tt := range tests {
		t.Run(tt.handle, func(t *testing.T) {
			err := auth.ValidateHandle(tt.handle)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			errutil.AssertKind(t, err, errutil.KindValidation)
			errutil.AssertErrorContext(t, err, "field", "handle")
		})
	}
}

func TestValidateReservedHandle(t *testing.T) {
	tests := []struct {
		name   string
		handle string
		role   auth.Role
		valid  bool
	}{
		{"client takes reserved handle", "admin", auth.RoleClient, false},
		{"vet takes reserved handle in other case", "Admin", auth.RoleVeterinarian, false},
		{"admin may hold it", "admin", auth.RoleAdmin, true},
		{"other handle", "ana", auth.RoleClient, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := auth.ValidateReservedHandle(tt.handle, tt.role, auth.DefaultAdminHandle)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			errutil.AssertKind(t, err, errutil.KindValidation)
			errutil.AssertErrorContext(t, err, "field", "handle")
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"letters and digits", "abcdefg1", true},
		{"long mixed", "correct horse 42", true},
		{"seven characters", "abcdef1", false},
		{"letters only", "abcdefgh", false},
		{"digits only", "12345678", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := auth.ValidatePassword(tt.password)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			errutil.AssertKind(t, err, errutil.KindValidation)
		})
	}
}

func TestValidatePasswordPair(t *testing.T) {
	assert.NoError(t, auth.ValidatePasswordPair("abcdefg1", "abcdefg1"))

	err := auth.ValidatePasswordPair("abcdefg1", "abcdefg2")
	errutil.AssertErrorContext(t, err, "field", "password_confirmation")

	err = auth.ValidatePasswordPair("weak", "weak")
	errutil.AssertErrorContext(t, err, "field", "password")
}
