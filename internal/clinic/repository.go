// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package clinic

import (
	"context"
)

// OwnerRepository persists owners. Deleting an owner deletes their animals
// and, through them, appointments and surgeries.
type OwnerRepository interface {
	Create(ctx context.Context, o *Owner) error
	Get(ctx context.Context, id int64) (*Owner, error)
	GetByNationalID(ctx context.Context, nationalID string) (*Owner, error)
	List(ctx context.Context) ([]*Owner, error)
	Update(ctx context.Context, o *Owner) error
	Delete(ctx context.Context, id int64) error
	// AnimalCounts reports every owner with their number of animals,
	// largest first and then by name.
	AnimalCounts(ctx context.Context) ([]OwnerAnimalCount, error)
}

// AnimalRepository persists animals.
type AnimalRepository interface {
	Create(ctx context.Context, a *Animal) error
	Get(ctx context.Context, id int64) (*Animal, error)
	List(ctx context.Context) ([]*AnimalListing, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*Animal, error)
	Update(ctx context.Context, a *Animal) error
	Delete(ctx context.Context, id int64) error
}

// AppointmentRepository persists appointments.
type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	Get(ctx context.Context, id int64) (*Appointment, error)
	// List returns matching appointments, newest first.
	List(ctx context.Context, f AppointmentFilter) ([]*AppointmentListing, error)
	// Update writes diagnosis, status and priority.
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id int64) error
	// CancelForOwner cancels appointment id only if it is scheduled and
	// belongs to one of ownerID's animals. It reports whether a row changed.
	CancelForOwner(ctx context.Context, id, ownerID int64) (bool, error)
}

// SurgeryRepository persists surgeries.
type SurgeryRepository interface {
	Create(ctx context.Context, s *Surgery) error
	// List returns every surgery, newest first.
	List(ctx context.Context) ([]*SurgeryListing, error)
}
