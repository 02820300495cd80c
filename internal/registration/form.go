// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package registration

import (
	"github.com/samber/oops"

	"github.com/petvida/petvida/internal/auth"
	"github.com/petvida/petvida/internal/clinic"
	"github.com/petvida/petvida/pkg/errutil"
)

// Form is everything a registration needs. Owner and Animal are only read
// for clients.
type Form struct {
	Handle   string
	Password string
	Confirm  string
	Role     auth.Role
	Owner    clinic.OwnerInput
	Animal   clinic.AnimalInput
}

// Validate re-checks every field and returns the first failure.
func (f Form) Validate() error {
	if !f.Role.Valid() {
		return oops.Code(errutil.CodeValidation).
			With("field", "role").
			Errorf("unknown role %q", f.Role)
	}
	if err := auth.ValidateHandle(f.Handle); err != nil {
		return err
	}
	if err := auth.ValidatePasswordPair(f.Password, f.Confirm); err != nil {
		return err
	}
	if f.Role != auth.RoleClient {
		return nil
	}
	if err := f.Owner.Validate(); err != nil {
		return err
	}
	return f.Animal.Validate()
}
