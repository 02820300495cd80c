// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

// Package menu is the interactive shell: the main menu, login and sign-up,
// and one menu tree per role. Every failure is reported as one line and the
// shell returns to the menu it came from; only end of input ends a session.
package menu

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/samber/oops"

	"github.com/petvida/petvida/internal/auth"
	"github.com/petvida/petvida/internal/clinic"
	"github.com/petvida/petvida/internal/console"
	"github.com/petvida/petvida/internal/registration"
	"github.com/petvida/petvida/pkg/errutil"
)

// Authenticator logs accounts in and manages credentials.
type Authenticator interface {
	Login(ctx context.Context, handle, password string, expectedRole *auth.Role) (*auth.Identity, error)
	ChangePassword(ctx context.Context, id *auth.Identity, current, next, confirm string) error
	Unlock(ctx context.Context, actor *auth.Identity, handle string) error
	ListAccounts(ctx context.Context, actor *auth.Identity) ([]*auth.Account, error)
}

// Registrar collects and persists registrations.
type Registrar interface {
	Collect(ctx context.Context, p *console.Prompter, role auth.Role) (registration.Form, error)
	SignUp(ctx context.Context, form registration.Form) (*registration.Result, error)
	CreateUser(ctx context.Context, actor *auth.Identity, form registration.Form) (*registration.Result, error)
}

// Records is the clinic record surface the menus drive.
type Records interface {
	ListOwners(ctx context.Context, actor *auth.Identity) ([]*clinic.Owner, error)
	GetOwner(ctx context.Context, actor *auth.Identity, id int64) (*clinic.Owner, error)
	UpdateOwner(ctx context.Context, actor *auth.Identity, id int64, patch clinic.OwnerPatch) (*clinic.Owner, error)
	DeleteOwner(ctx context.Context, actor *auth.Identity, id int64) error

	ListAnimals(ctx context.Context, actor *auth.Identity) ([]*clinic.AnimalListing, error)
	GetAnimal(ctx context.Context, actor *auth.Identity, id int64) (*clinic.Animal, error)
	UpdateAnimal(ctx context.Context, actor *auth.Identity, id int64, patch clinic.AnimalPatch) (*clinic.Animal, error)
	DeleteAnimal(ctx context.Context, actor *auth.Identity, id int64) error

	ListAppointments(ctx context.Context, actor *auth.Identity, period *clinic.Period) ([]*clinic.AppointmentListing, error)
	ListCancellable(ctx context.Context, actor *auth.Identity) ([]*clinic.AppointmentListing, error)
	ScheduleAppointment(ctx context.Context, actor *auth.Identity, in clinic.AppointmentInput) (*clinic.Appointment, error)
	GetAppointment(ctx context.Context, actor *auth.Identity, id int64) (*clinic.Appointment, error)
	UpdateAppointment(ctx context.Context, actor *auth.Identity, id int64, patch clinic.AppointmentPatch) (*clinic.Appointment, error)
	DeleteAppointment(ctx context.Context, actor *auth.Identity, id int64) error
	CancelAppointment(ctx context.Context, actor *auth.Identity, id int64) error

	ScheduleSurgery(ctx context.Context, actor *auth.Identity, in clinic.SurgeryInput) (*clinic.Surgery, error)
	ListSurgeries(ctx context.Context, actor *auth.Identity) ([]*clinic.SurgeryListing, error)

	AnimalsPerOwner(ctx context.Context, actor *auth.Identity) ([]clinic.OwnerAnimalCount, error)
	FindOwnerByNationalID(ctx context.Context, actor *auth.Identity, nationalID string) (*clinic.OwnerProfile, error)

	Profile(ctx context.Context, actor *auth.Identity) (*clinic.OwnerProfile, error)
	RegisterAnimal(ctx context.Context, actor *auth.Identity, in clinic.AnimalInput) (*clinic.Animal, error)
	UpdateContact(ctx context.Context, actor *auth.Identity, patch clinic.ContactPatch) (*clinic.Owner, error)
}

// Maintenance drops and recreates every table.
type Maintenance interface {
	Reset() error
}

// FailureRecorder counts reported failures by kind.
type FailureRecorder interface {
	RecordFailure(kind string)
}

type nopRecorder struct{}

func (nopRecorder) RecordFailure(string) {}

// Deps are the collaborators of a Shell. Maintenance, Logger and Metrics
// are optional; without Maintenance the drop-all-data entry reports that
// it is unavailable.
type Deps struct {
	In           console.LineReader
	Out          io.Writer
	Auth         Authenticator
	Registration Registrar
	Records      Records
	Maintenance  Maintenance
	Logger       *slog.Logger
	Metrics      FailureRecorder
}

// Shell runs the interactive menus of one session.
type Shell struct {
	p       *console.Prompter
	out     io.Writer
	auth    Authenticator
	reg     Registrar
	records Records
	maint   Maintenance
	logger  *slog.Logger
	metrics FailureRecorder
}

// New creates a Shell.
func New(d Deps) (*Shell, error) {
	switch {
	case d.In == nil:
		return nil, oops.Errorf("line reader is required")
	case d.Out == nil:
		return nil, oops.Errorf("output writer is required")
	case d.Auth == nil:
		return nil, oops.Errorf("authenticator is required")
	case d.Registration == nil:
		return nil, oops.Errorf("registrar is required")
	case d.Records == nil:
		return nil, oops.Errorf("records are required")
	}
	s := &Shell{
		p:       console.NewPrompter(d.In, d.Out),
		out:     d.Out,
		auth:    d.Auth,
		reg:     d.Registration,
		records: d.Records,
		maint:   d.Maintenance,
		logger:  d.Logger,
		metrics: d.Metrics,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.metrics == nil {
		s.metrics = nopRecorder{}
	}
	return s, nil
}

// Run shows the main menu until the operator exits or input ends.
func (s *Shell) Run(ctx context.Context) error {
	adminRole, clientRole, vetRole := auth.RoleAdmin, auth.RoleClient, auth.RoleVeterinarian
	err := s.loop(ctx, "PETVIDA", "Exit", []item{
		{"1", "Log in as administrator", func(ctx context.Context) error { return s.loginAs(ctx, &adminRole, s.adminMenu) }},
		{"2", "Log in as client", func(ctx context.Context) error { return s.loginAs(ctx, &clientRole, s.clientMenu) }},
		{"3", "Log in as veterinarian", func(ctx context.Context) error { return s.loginAs(ctx, &vetRole, s.vetMenu) }},
		{"4", "Sign up as a client", s.signUp},
	})
	if err != nil && !ended(err) {
		return err
	}
	s.p.Println("Goodbye!")
	return nil
}

// item is one numbered menu entry.
type item struct {
	key   string
	label string
	run   func(ctx context.Context) error
}

// loop shows items until "0" is chosen. Action failures are reported and
// the menu is shown again; end of input and a cancelled context end the
// loop with an error.
func (s *Shell) loop(ctx context.Context, title, back string, items []item) error {
	for {
		if err := ctx.Err(); err != nil {
			return oops.Wrap(err)
		}
		s.p.Printf("\n--- %s ---\n", title)
		for _, it := range items {
			s.p.Printf("%s) %s\n", it.key, it.label)
		}
		s.p.Printf("0) %s\n", back)

		choice, err := s.p.Ask("> ")
		if errors.Is(err, console.ErrInterrupted) {
			return nil
		}
		if err != nil {
			return err
		}
		if choice == "0" {
			return nil
		}

		chosen := false
		for _, it := range items {
			if it.key != choice {
				continue
			}
			chosen = true
			if err := s.do(ctx, it.label, it.run); err != nil {
				return err
			}
		}
		if !chosen {
			s.p.Println("Invalid option.")
		}
	}
}

// do runs one action. It returns only errors that end the session.
func (s *Shell) do(ctx context.Context, label string, run func(ctx context.Context) error) error {
	err := run(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, console.ErrInterrupted):
		s.p.Println("Cancelled.")
		return nil
	case ended(err):
		return err
	}
	s.report(ctx, label, err)
	return nil
}

// report shows err to the operator and logs it.
func (s *Shell) report(ctx context.Context, action string, err error) {
	kind := errutil.KindOf(err)
	s.metrics.RecordFailure(string(kind))
	s.p.Println(Describe(err))
	errutil.LogErrorContext(ctx, s.logger, "menu action failed", oops.With("action", strings.ToLower(action)).Wrap(err))
}

// ended reports whether err ends the whole session.
func ended(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (s *Shell) loginAs(ctx context.Context, role *auth.Role, menu func(ctx context.Context, id *auth.Identity) error) error {
	handle, err := s.p.Ask("Handle: ")
	if err != nil {
		return err
	}
	password, err := s.p.AskSecret("Password: ")
	if err != nil {
		return err
	}
	id, err := s.auth.Login(ctx, handle, password, role)
	if err != nil {
		return err
	}
	s.p.Printf("Welcome, %s.\n", id.Handle)
	return menu(ctx, id)
}

func (s *Shell) signUp(ctx context.Context) error {
	form, err := s.reg.Collect(ctx, s.p, auth.RoleClient)
	if err != nil {
		return err
	}
	res, err := s.reg.SignUp(ctx, form)
	if err != nil {
		return err
	}
	s.p.Printf("Registration complete. Log in as %s to continue.\n", res.Account.Handle)
	return nil
}

func (s *Shell) changePassword(ctx context.Context, id *auth.Identity) error {
	current, err := s.p.AskSecret("Current password: ")
	if err != nil {
		return err
	}
	next, err := registration.CollectNewPassword(s.p, "New password")
	if err != nil {
		return err
	}
	if err := s.auth.ChangePassword(ctx, id, current, next, next); err != nil {
		return err
	}
	s.p.Println("Password changed.")
	return nil
}

// withIdentity adapts an action that needs the logged-in identity.
func withIdentity(id *auth.Identity, fn func(ctx context.Context, id *auth.Identity) error) func(ctx context.Context) error {
	return func(ctx context.Context) error { return fn(ctx, id) }
}
