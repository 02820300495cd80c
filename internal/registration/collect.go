// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package registration

import (
	"context"

	"github.com/petvida/petvida/internal/auth"
	"github.com/petvida/petvida/internal/clinic"
	"github.com/petvida/petvida/internal/console"
	"github.com/petvida/petvida/pkg/errutil"
)

// CollectNewPassword asks for a password until it meets the strength policy
// and is confirmed.
func CollectNewPassword(p *console.Prompter, label string) (string, error) {
	for {
		password, err := p.AskSecretUntil(label+": ", auth.ValidatePassword)
		if err != nil {
			return "", err
		}
		confirm, err := p.AskSecret("Confirm " + label + ": ")
		if err != nil {
			return "", err
		}
		if err := auth.ValidatePasswordPair(password, confirm); err != nil {
			p.Println("  " + err.Error())
			continue
		}
		return password, nil
	}
}

// CollectRole asks for one of the account roles.
func CollectRole(p *console.Prompter) (auth.Role, error) {
	p.Println("Roles: admin, client, veterinarian")
	return console.AskParsed(p, "Role: ", auth.ParseRole)
}

// CollectOwner asks for every owner field.
func CollectOwner(p *console.Prompter) (clinic.OwnerInput, error) {
	var (
		in  clinic.OwnerInput
		err error
	)
	steps := []struct {
		prompt string
		dst    *string
		check  func(string) error
	}{
		{"Full name: ", &in.Name, func(s string) error { return clinic.ValidateLetters("name", s) }},
		{"National ID (11 digits): ", &in.NationalID, clinic.ValidateNationalID},
		{"Email (optional): ", &in.Email, clinic.ValidateEmail},
		{"Address: ", &in.Address, func(s string) error { return clinic.ValidateRequired("address", s) }},
		{"Phone: ", &in.Phone, clinic.ValidatePhone},
		{"Note (optional): ", &in.Note, func(string) error { return nil }},
	}
	for _, s := range steps {
		if *s.dst, err = p.AskUntil(s.prompt, s.check); err != nil {
			return clinic.OwnerInput{}, err
		}
	}
	return in, nil
}

// CollectAnimal asks for every animal field.
func CollectAnimal(p *console.Prompter) (clinic.AnimalInput, error) {
	var (
		in  clinic.AnimalInput
		err error
	)
	letters := func(field string) func(string) error {
		return func(s string) error { return clinic.ValidateLetters(field, s) }
	}
	if in.Name, err = p.AskUntil("Animal name: ", letters("name")); err != nil {
		return in, err
	}
	if in.Species, err = p.AskUntil("Species: ", letters("species")); err != nil {
		return in, err
	}
	if in.Breed, err = p.AskUntil("Breed: ", letters("breed")); err != nil {
		return in, err
	}
	in.Age, err = console.AskParsed(p, "Age (years): ", clinic.ParseAge)
	return in, err
}

// Collect fills a Form for role from the prompter. The handle is checked
// against existing accounts as it is typed.
func (w *Workflow) Collect(ctx context.Context, p *console.Prompter, role auth.Role) (Form, error) {
	form := Form{Role: role}
	var lookupErr error

	handle, err := p.AskUntil("Handle: ", func(s string) error {
		if err := auth.ValidateHandle(s); err != nil {
			return err
		}
		if err := auth.ValidateReservedHandle(s, role, w.reserved); err != nil {
			return err
		}
		err := w.HandleAvailable(ctx, s)
		if errutil.Is(err, errutil.KindDuplicateHandle) {
			return err
		}
		lookupErr = err
		return nil
	})
	if err != nil {
		return Form{}, err
	}
	if lookupErr != nil {
		return Form{}, lookupErr
	}
	form.Handle = handle
	if form.Password, err = CollectNewPassword(p, "Password"); err != nil {
		return Form{}, err
	}
	form.Confirm = form.Password

	if role != auth.RoleClient {
		return form, nil
	}
	p.Println("Owner details")
	if form.Owner, err = CollectOwner(p); err != nil {
		return Form{}, err
	}
	p.Println("First animal")
	if form.Animal, err = CollectAnimal(p); err != nil {
		return Form{}, err
	}
	return form, nil
}
