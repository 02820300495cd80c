// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package auth

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/samber/oops"

	"github.com/petvida/petvida/pkg/errutil"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

var handleRegex = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidateHandle checks a login handle: letters, digits and underscores only.
func ValidateHandle(handle string) error {
	if handle == "" {
		return oops.Code(errutil.CodeValidation).
			With("field", "handle").
			Errorf("handle cannot be empty")
	}
	if !handleRegex.MatchString(handle) {
		return oops.Code(errutil.CodeValidation).
			With("field", "handle").
			Errorf("handle may contain only letters, digits and underscores")
	}
	return nil
}

// ValidateReservedHandle rejects adminHandle for any role but admin, so
// the first-run administrator can always claim it. Case is ignored.
func ValidateReservedHandle(handle string, role Role, adminHandle string) error {
	if role == RoleAdmin || !strings.EqualFold(handle, adminHandle) {
		return nil
	}
	return oops.Code(errutil.CodeValidation).
		With("field", "handle").
		With("handle", handle).
		Errorf("handle %q is reserved for the administrator", handle)
}

// ValidatePassword enforces the strength policy: at least MinPasswordLength
// characters with at least one letter and one digit.
func ValidatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return oops.Code(errutil.CodeValidation).
			With("field", "password").
			Errorf("password must have at least %d characters", MinPasswordLength)
	}
	var letter, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter || !digit {
		return oops.Code(errutil.CodeValidation).
			With("field", "password").
			Errorf("password must contain letters and digits")
	}
	return nil
}

// ValidatePasswordPair checks password strength and that confirm repeats it.
func ValidatePasswordPair(password, confirm string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	if password != confirm {
		return oops.Code(errutil.CodeValidation).
			With("field", "password_confirmation").
			Errorf("passwords do not match")
	}
	return nil
}
