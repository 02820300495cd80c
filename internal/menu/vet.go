// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package menu

import (
	"context"

	"github.com/petvida/petvida/internal/auth"
)

// vetMenu lists only the veterinarian's own appointments; the records
// service narrows the listing by role.
func (s *Shell) vetMenu(ctx context.Context, actor *auth.Identity) error {
	return s.loop(ctx, "VETERINARIAN ("+actor.Handle+")", "Log out", []item{
		{"1", "List animals", withIdentity(actor, s.listAnimals)},
		{"2", "Create appointment", withIdentity(actor, s.scheduleAppointment)},
		{"3", "Create surgery", withIdentity(actor, s.scheduleSurgery)},
		{"4", "My appointments", withIdentity(actor, s.listAppointments)},
		{"5", "My appointments by period", withIdentity(actor, s.listAppointmentsByPeriod)},
		{"6", "Change my password", withIdentity(actor, s.changePassword)},
	})
}
