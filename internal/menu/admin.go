// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package menu

import (
	"context"
	"strconv"

	"github.com/samber/oops"

	"github.com/petvida/petvida/internal/auth"
	"github.com/petvida/petvida/internal/clinic"
	"github.com/petvida/petvida/internal/console"
	"github.com/petvida/petvida/internal/registration"
)

func (s *Shell) adminMenu(ctx context.Context, actor *auth.Identity) error {
	return s.loop(ctx, "ADMIN ("+actor.Handle+")", "Log out", []item{
		{"1", "Users", func(ctx context.Context) error { return s.adminUsers(ctx, actor) }},
		{"2", "Owners and animals", func(ctx context.Context) error { return s.adminOwnersAnimals(ctx, actor) }},
		{"3", "Appointments", func(ctx context.Context) error { return s.adminAppointments(ctx, actor) }},
		{"4", "Surgeries", func(ctx context.Context) error { return s.adminSurgeries(ctx, actor) }},
		{"5", "Reports and maintenance", func(ctx context.Context) error { return s.adminReports(ctx, actor) }},
		{"6", "Change my password", withIdentity(actor, s.changePassword)},
	})
}

func (s *Shell) adminUsers(ctx context.Context, actor *auth.Identity) error {
	return s.loop(ctx, "ADMIN > USERS", "Back", []item{
		{"1", "Create user", withIdentity(actor, s.createUser)},
		{"2", "List accounts", withIdentity(actor, s.listAccounts)},
		{"3", "Unlock account", withIdentity(actor, s.unlockAccount)},
	})
}

func (s *Shell) adminOwnersAnimals(ctx context.Context, actor *auth.Identity) error {
	return s.loop(ctx, "ADMIN > OWNERS / ANIMALS", "Back", []item{
		{"1", "List owners", withIdentity(actor, s.listOwners)},
		{"2", "List animals", withIdentity(actor, s.listAnimals)},
		{"3", "Edit owner", withIdentity(actor, s.editOwner)},
		{"4", "Edit animal", withIdentity(actor, s.editAnimal)},
		{"5", "Delete owner", withIdentity(actor, s.deleteOwner)},
		{"6", "Delete animal", withIdentity(actor, s.deleteAnimal)},
	})
}

func (s *Shell) adminAppointments(ctx context.Context, actor *auth.Identity) error {
	return s.loop(ctx, "ADMIN > APPOINTMENTS", "Back", []item{
		{"1", "List all", withIdentity(actor, s.listAppointments)},
		{"2", "Create appointment", withIdentity(actor, s.scheduleAppointment)},
		{"3", "Edit diagnosis / status / priority", withIdentity(actor, s.editAppointment)},
		{"4", "Delete appointment", withIdentity(actor, s.deleteAppointment)},
		{"5", "List by period", withIdentity(actor, s.listAppointmentsByPeriod)},
	})
}

func (s *Shell) adminSurgeries(ctx context.Context, actor *auth.Identity) error {
	return s.loop(ctx, "ADMIN > SURGERIES", "Back", []item{
		{"1", "Create surgery", withIdentity(actor, s.scheduleSurgery)},
		{"2", "List surgeries", withIdentity(actor, s.listSurgeries)},
	})
}

func (s *Shell) adminReports(ctx context.Context, actor *auth.Identity) error {
	return s.loop(ctx, "ADMIN > REPORTS / MAINTENANCE", "Back", []item{
		{"1", "Animals per owner", withIdentity(actor, s.animalsPerOwner)},
		{"2", "Find owner by national ID", withIdentity(actor, s.findOwner)},
		{"3", "DROP ALL DATA", withIdentity(actor, s.dropAllData)},
	})
}

func (s *Shell) createUser(ctx context.Context, actor *auth.Identity) error {
	if err := auth.RequireRole(actor, auth.RoleAdmin); err != nil {
		return err
	}
	role, err := registration.CollectRole(s.p)
	if err != nil {
		return err
	}
	form, err := s.reg.Collect(ctx, s.p, role)
	if err != nil {
		return err
	}
	res, err := s.reg.CreateUser(ctx, actor, form)
	if err != nil {
		return err
	}
	s.p.Printf("Created %s account %q (id %d).\n", res.Account.Role.Label(), res.Account.Handle, res.Account.ID)
	return nil
}

func (s *Shell) listAccounts(ctx context.Context, actor *auth.Identity) error {
	accounts, err := s.auth.ListAccounts(ctx, actor)
	if err != nil {
		return err
	}
	s.showAccounts(accounts)
	return nil
}

func (s *Shell) unlockAccount(ctx context.Context, actor *auth.Identity) error {
	handle, err := s.p.AskUntil("Handle to unlock: ", auth.ValidateHandle)
	if err != nil {
		return err
	}
	if err := s.auth.Unlock(ctx, actor, handle); err != nil {
		return err
	}
	s.p.Printf("Account %q unlocked.\n", handle)
	return nil
}

func (s *Shell) listOwners(ctx context.Context, actor *auth.Identity) error {
	owners, err := s.records.ListOwners(ctx, actor)
	if err != nil {
		return err
	}
	s.showOwners(owners)
	return nil
}

func (s *Shell) listAnimals(ctx context.Context, actor *auth.Identity) error {
	animals, err := s.records.ListAnimals(ctx, actor)
	if err != nil {
		return err
	}
	s.showAnimals(animals)
	return nil
}

func (s *Shell) editOwner(ctx context.Context, actor *auth.Identity) error {
	ownerID, err := s.askID("Owner id: ", "owner_id")
	if err != nil {
		return err
	}
	owner, err := s.records.GetOwner(ctx, actor, ownerID)
	if err != nil {
		return err
	}
	s.p.Println("Leave a field blank to keep it; type - to clear an optional field.")

	var patch clinic.OwnerPatch
	if patch.Name, err = s.p.AskOptional("Name ["+owner.Name+"]: ", letters("name")); err != nil {
		return err
	}
	if patch.ContactPatch, err = s.askContact(owner); err != nil {
		return err
	}
	if _, err := s.records.UpdateOwner(ctx, actor, ownerID, patch); err != nil {
		return err
	}
	s.p.Println("Owner updated.")
	return nil
}

// askContact collects a ContactPatch showing the current values.
func (s *Shell) askContact(owner *clinic.Owner) (clinic.ContactPatch, error) {
	var (
		patch clinic.ContactPatch
		err   error
	)
	if patch.Email, err = s.askClearable("Email ["+show(owner.Email)+"]: ", clinic.ValidateEmail); err != nil {
		return patch, err
	}
	if patch.Address, err = s.p.AskOptional("Address ["+owner.Address+"]: ", accept); err != nil {
		return patch, err
	}
	if patch.Phone, err = s.p.AskOptional("Phone ["+owner.Phone+"]: ", clinic.ValidatePhone); err != nil {
		return patch, err
	}
	if patch.Note, err = s.askClearable("Note ["+show(owner.Note)+"]: ", accept); err != nil {
		return patch, err
	}
	return patch, nil
}

func (s *Shell) editAnimal(ctx context.Context, actor *auth.Identity) error {
	animalID, err := s.askID("Animal id: ", "animal_id")
	if err != nil {
		return err
	}
	animal, err := s.records.GetAnimal(ctx, actor, animalID)
	if err != nil {
		return err
	}
	s.p.Println("Leave a field blank to keep it.")

	var patch clinic.AnimalPatch
	if patch.Name, err = s.p.AskOptional("Name ["+animal.Name+"]: ", letters("name")); err != nil {
		return err
	}
	if patch.Species, err = s.p.AskOptional("Species ["+animal.Species+"]: ", letters("species")); err != nil {
		return err
	}
	if patch.Breed, err = s.p.AskOptional("Breed ["+animal.Breed+"]: ", letters("breed")); err != nil {
		return err
	}
	if patch.Age, err = askOptionalParsed(s.p, "Age ["+strconv.Itoa(animal.Age)+"]: ", clinic.ParseAge); err != nil {
		return err
	}
	if _, err := s.records.UpdateAnimal(ctx, actor, animalID, patch); err != nil {
		return err
	}
	s.p.Println("Animal updated.")
	return nil
}

func (s *Shell) deleteOwner(ctx context.Context, actor *auth.Identity) error {
	ownerID, err := s.askID("Owner id: ", "owner_id")
	if err != nil {
		return err
	}
	ok, err := s.p.Confirm("Delete this owner with all of their animals, appointments and surgeries?")
	if err != nil || !ok {
		return err
	}
	if err := s.records.DeleteOwner(ctx, actor, ownerID); err != nil {
		return err
	}
	s.p.Println("Owner deleted.")
	return nil
}

func (s *Shell) deleteAnimal(ctx context.Context, actor *auth.Identity) error {
	animalID, err := s.askID("Animal id: ", "animal_id")
	if err != nil {
		return err
	}
	ok, err := s.p.Confirm("Delete this animal with its appointments and surgeries?")
	if err != nil || !ok {
		return err
	}
	if err := s.records.DeleteAnimal(ctx, actor, animalID); err != nil {
		return err
	}
	s.p.Println("Animal deleted.")
	return nil
}

func (s *Shell) listAppointments(ctx context.Context, actor *auth.Identity) error {
	list, err := s.records.ListAppointments(ctx, actor, nil)
	if err != nil {
		return err
	}
	s.showAppointments(list)
	return nil
}

func (s *Shell) listAppointmentsByPeriod(ctx context.Context, actor *auth.Identity) error {
	period, err := s.askPeriod()
	if err != nil {
		return err
	}
	list, err := s.records.ListAppointments(ctx, actor, period)
	if err != nil {
		return err
	}
	s.showAppointments(list)
	return nil
}

// scheduleAppointment books an appointment. Veterinarians are not asked
// for a vet id; the booking is always theirs.
func (s *Shell) scheduleAppointment(ctx context.Context, actor *auth.Identity) error {
	var (
		in  clinic.AppointmentInput
		err error
	)
	if in.AnimalID, err = s.askID("Animal id: ", "animal_id"); err != nil {
		return err
	}
	if in.Date, err = s.askDate("Date"); err != nil {
		return err
	}
	if in.Time, err = console.AskParsed(s.p, "Time (HH:MM): ", clinic.ParseClockTime); err != nil {
		return err
	}
	if in.Reason, err = s.askRequired("Reason: ", "reason"); err != nil {
		return err
	}
	if in.Diagnosis, err = s.p.Ask("Diagnosis (optional): "); err != nil {
		return err
	}
	priority, err := askOptionalParsed(s.p, "Priority (normal/urgent) [normal]: ", clinic.ParsePriority)
	if err != nil {
		return err
	}
	if priority != nil {
		in.Priority = *priority
	}
	if actor.Role == auth.RoleAdmin {
		if in.VetID, err = askOptionalParsed(s.p, "Veterinarian account id (optional): ", parseOptionalID("vet_id")); err != nil {
			return err
		}
	}

	appt, err := s.records.ScheduleAppointment(ctx, actor, in)
	if err != nil {
		return err
	}
	s.p.Printf("Appointment %d scheduled for %s %s.\n", appt.ID, appt.Date.Format(clinic.DateLayout), appt.Time)
	return nil
}

func (s *Shell) editAppointment(ctx context.Context, actor *auth.Identity) error {
	apptID, err := s.askID("Appointment id: ", "appointment_id")
	if err != nil {
		return err
	}
	appt, err := s.records.GetAppointment(ctx, actor, apptID)
	if err != nil {
		return err
	}
	s.p.Println("Leave a field blank to keep it; type - to clear the diagnosis.")

	var patch clinic.AppointmentPatch
	if patch.Diagnosis, err = s.askClearable("Diagnosis ["+show(appt.Diagnosis)+"]: ", accept); err != nil {
		return err
	}
	if patch.Status, err = askOptionalParsed(s.p, "Status (scheduled/completed/cancelled) ["+string(appt.Status)+"]: ", clinic.ParseStatus); err != nil {
		return err
	}
	if patch.Priority, err = askOptionalParsed(s.p, "Priority (normal/urgent) ["+string(appt.Priority)+"]: ", clinic.ParsePriority); err != nil {
		return err
	}
	if _, err := s.records.UpdateAppointment(ctx, actor, apptID, patch); err != nil {
		return err
	}
	s.p.Println("Appointment updated.")
	return nil
}

func (s *Shell) deleteAppointment(ctx context.Context, actor *auth.Identity) error {
	apptID, err := s.askID("Appointment id: ", "appointment_id")
	if err != nil {
		return err
	}
	ok, err := s.p.Confirm("Delete this appointment?")
	if err != nil || !ok {
		return err
	}
	if err := s.records.DeleteAppointment(ctx, actor, apptID); err != nil {
		return err
	}
	s.p.Println("Appointment deleted.")
	return nil
}

func (s *Shell) scheduleSurgery(ctx context.Context, actor *auth.Identity) error {
	var (
		in  clinic.SurgeryInput
		err error
	)
	if in.AnimalID, err = s.askID("Animal id: ", "animal_id"); err != nil {
		return err
	}
	if in.Date, err = s.askDate("Date"); err != nil {
		return err
	}
	if in.Kind, err = s.askRequired("Procedure: ", "kind"); err != nil {
		return err
	}
	if in.Notes, err = s.p.Ask("Notes (optional): "); err != nil {
		return err
	}
	surgery, err := s.records.ScheduleSurgery(ctx, actor, in)
	if err != nil {
		return err
	}
	s.p.Printf("Surgery %d scheduled for %s.\n", surgery.ID, surgery.Date.Format(clinic.DateLayout))
	return nil
}

func (s *Shell) listSurgeries(ctx context.Context, actor *auth.Identity) error {
	list, err := s.records.ListSurgeries(ctx, actor)
	if err != nil {
		return err
	}
	s.showSurgeries(list)
	return nil
}

func (s *Shell) animalsPerOwner(ctx context.Context, actor *auth.Identity) error {
	counts, err := s.records.AnimalsPerOwner(ctx, actor)
	if err != nil {
		return err
	}
	s.showCounts(counts)
	return nil
}

func (s *Shell) findOwner(ctx context.Context, actor *auth.Identity) error {
	nationalID, err := s.p.AskUntil("National ID (11 digits): ", clinic.ValidateNationalID)
	if err != nil {
		return err
	}
	profile, err := s.records.FindOwnerByNationalID(ctx, actor, nationalID)
	if err != nil {
		return err
	}
	s.showProfile(profile)
	return nil
}

// dropAllData drops every table and recreates the empty schema. The
// current session keeps running, but its own account is gone.
func (s *Shell) dropAllData(ctx context.Context, actor *auth.Identity) error {
	if err := auth.RequireRole(actor, auth.RoleAdmin); err != nil {
		return err
	}
	if s.maint == nil {
		s.p.Println("Dropping data is not available in this session.")
		return nil
	}
	ok, err := s.p.Confirm("This deletes EVERY record, including all accounts. Continue?")
	if err != nil || !ok {
		return err
	}
	if err := s.maint.Reset(); err != nil {
		return oops.With("operation", "reset schema").Wrap(err)
	}
	s.logger.WarnContext(ctx, "all data dropped",
		"event", "data_dropped",
		"account_id", actor.AccountID,
		"session_id", actor.SessionID.String())
	s.p.Println("All data dropped. The administrator account is recreated on next start.")
	return nil
}
