// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package menu

import (
	"context"

	"github.com/petvida/petvida/internal/auth"
	"github.com/petvida/petvida/internal/registration"
)

func (s *Shell) clientMenu(ctx context.Context, actor *auth.Identity) error {
	return s.loop(ctx, "CLIENT ("+actor.Handle+")", "Log out", []item{
		{"1", "My details and animals", withIdentity(actor, s.showOwnProfile)},
		{"2", "My appointments", withIdentity(actor, s.listAppointments)},
		{"3", "Register a new animal", withIdentity(actor, s.registerAnimal)},
		{"4", "Update my contact details", withIdentity(actor, s.updateContact)},
		{"5", "Cancel a scheduled appointment", withIdentity(actor, s.cancelAppointment)},
		{"6", "Change my password", withIdentity(actor, s.changePassword)},
	})
}

func (s *Shell) showOwnProfile(ctx context.Context, actor *auth.Identity) error {
	profile, err := s.records.Profile(ctx, actor)
	if err != nil {
		return err
	}
	s.showProfile(profile)
	return nil
}

func (s *Shell) registerAnimal(ctx context.Context, actor *auth.Identity) error {
	in, err := registration.CollectAnimal(s.p)
	if err != nil {
		return err
	}
	animal, err := s.records.RegisterAnimal(ctx, actor, in)
	if err != nil {
		return err
	}
	s.p.Printf("%s registered (id %d).\n", animal.Name, animal.ID)
	return nil
}

func (s *Shell) updateContact(ctx context.Context, actor *auth.Identity) error {
	profile, err := s.records.Profile(ctx, actor)
	if err != nil {
		return err
	}
	s.p.Println("Leave a field blank to keep it; type - to clear email or note.")
	patch, err := s.askContact(profile.Owner)
	if err != nil {
		return err
	}
	if _, err := s.records.UpdateContact(ctx, actor, patch); err != nil {
		return err
	}
	s.p.Println("Contact details updated.")
	return nil
}

func (s *Shell) cancelAppointment(ctx context.Context, actor *auth.Identity) error {
	list, err := s.records.ListCancellable(ctx, actor)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		s.p.Println("You have no scheduled appointments.")
		return nil
	}
	s.showAppointments(list)
	apptID, err := s.askID("Appointment id to cancel: ", "appointment_id")
	if err != nil {
		return err
	}
	ok, err := s.p.Confirm("Cancel this appointment?")
	if err != nil || !ok {
		return err
	}
	if err := s.records.CancelAppointment(ctx, actor, apptID); err != nil {
		return err
	}
	s.p.Println("Appointment cancelled.")
	return nil
}
