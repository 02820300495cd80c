// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package clinic

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/oops"

	"github.com/petvida/petvida/internal/auth"
	"github.com/petvida/petvida/pkg/errutil"
)

// AccountLookup resolves accounts referenced by clinic records.
type AccountLookup interface {
	GetByID(ctx context.Context, id int64) (*auth.Account, error)
}

// Repositories groups the stores a Service needs.
type Repositories struct {
	Owners       OwnerRepository
	Animals      AnimalRepository
	Appointments AppointmentRepository
	Surgeries    SurgeryRepository
	Accounts     AccountLookup
}

// Service runs clinic record operations on behalf of an authenticated
// identity.
type Service struct {
	repos  Repositories
	logger *slog.Logger
}

// NewService creates a Service. Every repository is required.
func NewService(repos Repositories, logger *slog.Logger) (*Service, error) {
	switch {
	case repos.Owners == nil:
		return nil, oops.Errorf("owner repository is required")
	case repos.Animals == nil:
		return nil, oops.Errorf("animal repository is required")
	case repos.Appointments == nil:
		return nil, oops.Errorf("appointment repository is required")
	case repos.Surgeries == nil:
		return nil, oops.Errorf("surgery repository is required")
	case repos.Accounts == nil:
		return nil, oops.Errorf("account lookup is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repos: repos, logger: logger}, nil
}

func (s *Service) audit(ctx context.Context, actor *auth.Identity, event string, attrs ...any) {
	attrs = append([]any{
		"event", event,
		"account_id", actor.AccountID,
		"session_id", actor.SessionID.String(),
	}, attrs...)
	s.logger.InfoContext(ctx, "clinic record changed", attrs...)
}

// ownerOf returns the owner linked to a client identity.
func ownerOf(actor *auth.Identity) (int64, error) {
	if err := auth.RequireRole(actor, auth.RoleClient); err != nil {
		return 0, err
	}
	if actor.OwnerID == nil {
		return 0, oops.Code(errutil.CodeNotFound).
			With("account_id", actor.AccountID).
			Errorf("no owner record is linked to this account; please contact the front desk")
	}
	return *actor.OwnerID, nil
}

// ListOwners returns every owner. Administrators only.
func (s *Service) ListOwners(ctx context.Context, actor *auth.Identity) ([]*Owner, error) {
	if err := auth.RequireRole(actor, auth.RoleAdmin); err != nil {
		return nil, err
	}
	return s.repos.Owners.List(ctx)
}

// ListAnimals returns every animal with its owner's name.
func (s *Service) ListAnimals(ctx context.Context, actor *auth.Identity) ([]*AnimalListing, error) {
	if err := auth.RequireRole(actor, auth.RoleAdmin, auth.RoleVeterinarian); err != nil {
		return nil, err
	}
	return s.repos.Animals.List(ctx)
}

// ContactPatch holds optional contact changes; nil keeps the current value
// and an empty Email or Note clears it.
type ContactPatch struct {
	Email   *string
	Address *string
	Phone   *string
	Note    *string
}

// OwnerPatch is a ContactPatch that may also rename the owner.
type OwnerPatch struct {
	Name *string
	ContactPatch
}

func (p ContactPatch) apply(o *Owner) error {
	if p.Email != nil {
		if err := ValidateEmail(*p.Email); err != nil {
			return err
		}
		o.Email = optional(*p.Email)
	}
	if p.Address != nil {
		if err := ValidateRequired("address", *p.Address); err != nil {
			return err
		}
		o.Address = strings.TrimSpace(*p.Address)
	}
	if p.Phone != nil {
		if err := ValidatePhone(*p.Phone); err != nil {
			return err
		}
		o.Phone = *p.Phone
	}
	if p.Note != nil {
		o.Note = optional(*p.Note)
	}
	return nil
}

// GetOwner returns one owner. Administrators only.
func (s *Service) GetOwner(ctx context.Context, actor *auth.Identity, id int64) (*Owner, error) {
	if err := auth.RequireRole(actor, auth.RoleAdmin); err != nil {
		return nil, err
	}
	return s.repos.Owners.Get(ctx, id)
}

// UpdateOwner applies patch to owner id. Administrators only.
func (s *Service) UpdateOwner(ctx context.Context, actor *auth.Identity, id int64, patch OwnerPatch) (*Owner, error) {
	if err := auth.RequireRole(actor, auth.RoleAdmin); err != nil {
		return nil, err
	}
	owner, err := s.repos.Owners.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		if err := ValidateLetters("name", *patch.Name); err != nil {
			return nil, err
		}
		owner.Name = strings.TrimSpace(*patch.Name)
	}
	if err := patch.ContactPatch.apply(owner); err != nil {
		return nil, err
	}
	if err := s.repos.Owners.Update(ctx, owner); err != nil {
		return nil, err
	}
	s.audit(ctx, actor, "owner_updated", "owner_id", id)
	return owner, nil
}

// AnimalPatch holds optional animal changes; nil keeps the current value.
type AnimalPatch struct {
	Name    *string
	Species *string
	Breed   *string
	Age     *int
}

// GetAnimal returns one animal. Administrators and veterinarians.
func (s *Service) GetAnimal(ctx context.Context, actor *auth.Identity, id int64) (*Animal, error) {
	if err := auth.RequireRole(actor, auth.RoleAdmin, auth.RoleVeterinarian); err != nil {
		return nil, err
	}
	return s.repos.Animals.Get(ctx, id)
}

// UpdateAnimal applies patch to animal id. Administrators only.
func (s *Service) UpdateAnimal(ctx context.Context, actor *auth.Identity, id int64, patch AnimalPatch) (*Animal, error) {
	if err := auth.RequireRole(actor, auth.RoleAdmin); err != nil {
		return nil, err
	}
	animal, err := s.repos.Animals.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, f := range []struct {
		name string
		val  *string
	}{{"name", patch.Name}, {"species", patch.Species}, {"breed", patch.Breed}} {
		if f.val == nil {
			continue
		}
		if err := ValidateLetters(f.name, *f.val); err != nil {
			return nil, err
		}
	}
	if patch.Name != nil {
		animal.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Species != nil {
		animal.Species = strings.TrimSpace(*patch.Species)
	}
	if patch.Breed != nil {
		animal.Breed = strings.TrimSpace(*patch.Breed)
	}
	if patch.Age != nil {
		if err := ValidateAge(*patch.Age); err != nil {
			return nil, err
		}
		animal.Age = *patch.Age
	}
	if err := s.repos.Animals.Update(ctx, animal); err != nil {
		return nil, err
	}
	s.audit(ctx, actor, "animal_updated", "animal_id", id)
	return animal, nil
}

// DeleteOwner removes an owner together with their animals and bookings.
// Administrators only.
func (s *Service) DeleteOwner(ctx context.Context, actor *auth.Identity, id int64) error {
	if err := auth.RequireRole(actor, auth.RoleAdmin); err != nil {
		return err
	}
	if err := s.repos.Owners.Delete(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, "owner_deleted", "owner_id", id)
	return nil
}

// DeleteAnimal removes an animal together with its bookings. Administrators
// only.
func (s *Service) DeleteAnimal(ctx context.Context, actor *auth.Identity, id int64) error {
	if err := auth.RequireRole(actor, auth.RoleAdmin); err != nil {
		return err
	}
	if err := s.repos.Animals.Delete(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, "animal_deleted", "animal_id", id)
	return nil
}

// ListAppointments lists appointments visible to actor, optionally limited
// to period: administrators see all, veterinarians their own, clients those
// of their animals.
func (s *Service) ListAppointments(ctx context.Context, actor *auth.Identity, period *Period) ([]*AppointmentListing, error) {
	filter := AppointmentFilter{Period: period}
	switch {
	case actor == nil:
		return nil, auth.RequireRole(actor, auth.RoleAdmin)
	case actor.Role == auth.RoleAdmin:
	case actor.Role == auth.RoleVeterinarian:
		filter.VetID = &actor.AccountID
	default:
		ownerID, err := ownerOf(actor)
		if err != nil {
			return nil, err
		}
		filter.OwnerID = &ownerID
	}
	return s.repos.Appointments.List(ctx, filter)
}

// ListCancellable lists a client's scheduled appointments.
func (s *Service) ListCancellable(ctx context.Context, actor *auth.Identity) ([]*AppointmentListing, error) {
	ownerID, err := ownerOf(actor)
	if err != nil {
		return nil, err
	}
	scheduled := StatusScheduled
	return s.repos.Appointments.List(ctx, AppointmentFilter{OwnerID: &ownerID, Status: &scheduled})
}

// AppointmentInput is the data needed to book an appointment.
type AppointmentInput struct {
	AnimalID  int64
	Date      time.Time
	Time      ClockTime
	Reason    string
	Diagnosis string
	Priority  Priority
	VetID     *int64
}

// ScheduleAppointment books an appointment. A veterinarian always books
// for themself; an administrator may name any veterinarian or none.
func (s *Service) ScheduleAppointment(ctx context.Context, actor *auth.Identity, in AppointmentInput) (*Appointment, error) {
	if err := auth.RequireRole(actor, auth.RoleAdmin, auth.RoleVeterinarian); err != nil {
		return nil, err
	}
	if err := ValidateRequired("reason", in.Reason); err != nil {
		return nil, err
	}
	if actor.Role == auth.RoleVeterinarian {
		in.VetID = &actor.AccountID
	} else if in.VetID != nil {
		if err := s.requireVet(ctx, *in.VetID); err != nil {
			return nil, err
		}
	}
	priority := in.Priority
	if priority == "" {
		priority = PriorityNormal
	}

	appt := &Appointment{
		Date:      in.Date,
		Time:      in.Time,
		Reason:    strings.TrimSpace(in.Reason),
		Diagnosis: optional(in.Diagnosis),
		Status:    StatusScheduled,
		Priority:  priority,
		AnimalID:  in.AnimalID,
		VetID:     in.VetID,
	}
	if err := s.repos.Appointments.Create(ctx, appt); err != nil {
		return nil, err
	}
	s.audit(ctx, actor, "appointment_scheduled", "appointment_id", appt.ID, "animal_id", appt.AnimalID)
	return appt, nil
}

func (s *Service) requireVet(ctx context.Context, id int64) error {
	account, err := s.repos.Accounts.GetByID(ctx, id)
	if err != nil {
		return oops.With("operation", "look up veterinarian").With("vet_id", id).Wrap(err)
	}
	if account.Role != auth.RoleVeterinarian {
		return oops.Code(errutil.CodeValidation).
			With("field", "vet_id").
			With("vet_id", id).
			Errorf("account %d is not a veterinarian", id)
	}
	return nil
}

// AppointmentPatch holds optional appointment changes; nil keeps the
// current value and an empty Diagnosis clears it.
type AppointmentPatch struct {
	Diagnosis *string
	Status    *Status
	Priority  *Priority
}

// GetAppointment returns one appointment. Administrators only.
func (s *Service) GetAppointment(ctx context.Context, actor *auth.Identity, id int64) (*Appointment, error) {
	if err := auth.RequireRole(actor, auth.RoleAdmin); err != nil {
		return nil, err
	}
	return s.repos.Appointments.Get(ctx, id)
}

// UpdateAppointment edits diagnosis, status and priority. Status may only
// move forward. Administrators only.
func (s *Service) UpdateAppointment(ctx context.Context, actor *auth.Identity, id int64, patch AppointmentPatch) (*Appointment, error) {
	if err := auth.RequireRole(actor, auth.RoleAdmin); err != nil {
		return nil, err
	}
	appt, err := s.repos.Appointments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Status != nil {
		if !appt.Status.CanBecome(*patch.Status) {
			return nil, oops.Code(errutil.CodeValidation).
				With("field", "status").
				With("from", string(appt.Status)).
				With("to", string(*patch.Status)).
				Errorf("appointment is %s and cannot become %s", appt.Status, *patch.Status)
		}
		appt.Status = *patch.Status
	}
	if patch.Priority != nil {
		appt.Priority = *patch.Priority
	}
	if patch.Diagnosis != nil {
		appt.Diagnosis = optional(*patch.Diagnosis)
	}
	if err := s.repos.Appointments.Update(ctx, appt); err != nil {
		return nil, err
	}
	s.audit(ctx, actor, "appointment_updated", "appointment_id", id, "status", string(appt.Status))
	return appt, nil
}

// DeleteAppointment removes an appointment. Administrators only.
func (s *Service) DeleteAppointment(ctx context.Context, actor *auth.Identity, id int64) error {
	if err := auth.RequireRole(actor, auth.RoleAdmin); err != nil {
		return err
	}
	if err := s.repos.Appointments.Delete(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, "appointment_deleted", "appointment_id", id)
	return nil
}

// CancelAppointment lets a client cancel one of their scheduled
// appointments. The ownership and status checks run in the same statement
// as the update.
func (s *Service) CancelAppointment(ctx context.Context, actor *auth.Identity, id int64) error {
	ownerID, err := ownerOf(actor)
	if err != nil {
		return err
	}
	ok, err := s.repos.Appointments.CancelForOwner(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if !ok {
		return oops.Code(errutil.CodeNotFound).
			With("appointment_id", id).
			With("owner_id", ownerID).
			Errorf("appointment %d is not one of your scheduled appointments", id)
	}
	s.audit(ctx, actor, "appointment_cancelled", "appointment_id", id)
	return nil
}

// SurgeryInput is the data needed to book a surgery.
type SurgeryInput struct {
	AnimalID int64
	Date     time.Time
	Kind     string
	Notes    string
}

// ScheduleSurgery books a surgery. Administrators and veterinarians.
func (s *Service) ScheduleSurgery(ctx context.Context, actor *auth.Identity, in SurgeryInput) (*Surgery, error) {
	if err := auth.RequireRole(actor, auth.RoleAdmin, auth.RoleVeterinarian); err != nil {
		return nil, err
	}
	if err := ValidateRequired("kind", in.Kind); err != nil {
		return nil, err
	}
	surgery := &Surgery{
		Date:     in.Date,
		Kind:     strings.TrimSpace(in.Kind),
		Notes:    optional(in.Notes),
		Status:   StatusScheduled,
		AnimalID: in.AnimalID,
	}
	if err := s.repos.Surgeries.Create(ctx, surgery); err != nil {
		return nil, err
	}
	s.audit(ctx, actor, "surgery_scheduled", "surgery_id", surgery.ID, "animal_id", surgery.AnimalID)
	return surgery, nil
}

// ListSurgeries lists every surgery. Administrators and veterinarians.
func (s *Service) ListSurgeries(ctx context.Context, actor *auth.Identity) ([]*SurgeryListing, error) {
	if err := auth.RequireRole(actor, auth.RoleAdmin, auth.RoleVeterinarian); err != nil {
		return nil, err
	}
	return s.repos.Surgeries.List(ctx)
}

// AnimalsPerOwner is the animals-per-owner report. Administrators only.
func (s *Service) AnimalsPerOwner(ctx context.Context, actor *auth.Identity) ([]OwnerAnimalCount, error) {
	if err := auth.RequireRole(actor, auth.RoleAdmin); err != nil {
		return nil, err
	}
	return s.repos.Owners.AnimalCounts(ctx)
}

// FindOwnerByNationalID returns the owner with nationalID and their
// animals. Administrators only.
func (s *Service) FindOwnerByNationalID(ctx context.Context, actor *auth.Identity, nationalID string) (*OwnerProfile, error) {
	if err := auth.RequireRole(actor, auth.RoleAdmin); err != nil {
		return nil, err
	}
	if err := ValidateNationalID(nationalID); err != nil {
		return nil, err
	}
	owner, err := s.repos.Owners.GetByNationalID(ctx, nationalID)
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, owner)
}

// Profile returns the client's own owner record and animals.
func (s *Service) Profile(ctx context.Context, actor *auth.Identity) (*OwnerProfile, error) {
	ownerID, err := ownerOf(actor)
	if err != nil {
		return nil, err
	}
	owner, err := s.repos.Owners.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, owner)
}

func (s *Service) profile(ctx context.Context, owner *Owner) (*OwnerProfile, error) {
	animals, err := s.repos.Animals.ListByOwner(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	return &OwnerProfile{Owner: owner, Animals: animals}, nil
}

// RegisterAnimal adds an animal to the client's own owner record.
func (s *Service) RegisterAnimal(ctx context.Context, actor *auth.Identity, in AnimalInput) (*Animal, error) {
	ownerID, err := ownerOf(actor)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	animal := in.Animal(ownerID)
	if err := s.repos.Animals.Create(ctx, animal); err != nil {
		return nil, err
	}
	s.audit(ctx, actor, "animal_registered", "animal_id", animal.ID, "owner_id", ownerID)
	return animal, nil
}

// UpdateContact applies patch to the client's own owner record.
func (s *Service) UpdateContact(ctx context.Context, actor *auth.Identity, patch ContactPatch) (*Owner, error) {
	ownerID, err := ownerOf(actor)
	if err != nil {
		return nil, err
	}
	owner, err := s.repos.Owners.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if err := patch.apply(owner); err != nil {
		return nil, err
	}
	if err := s.repos.Owners.Update(ctx, owner); err != nil {
		return nil, err
	}
	s.audit(ctx, actor, "contact_updated", "owner_id", ownerID)
	return owner, nil
}
