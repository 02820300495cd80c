// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package clinic_test

import (
	"context"

	"github.com/samber/oops"

	"github.com/petvida/petvida/internal/auth"
	"github.com/petvida/petvida/internal/clinic"
	"github.com/petvida/petvida/pkg/errutil"
)

func missing(entity string, id int64) error {
	return oops.Code(errutil.CodeNotFound).With("entity", entity).Errorf("%s %d not found", entity, id)
}

// memClinic is an in-memory implementation of every clinic repository.
type memClinic struct {
	owners       map[int64]*clinic.Owner
	animals      map[int64]*clinic.Animal
	appointments map[int64]*clinic.Appointment
	surgeries    []*clinic.Surgery
	accounts     map[int64]*auth.Account
	nextID       int64

	lastFilter clinic.AppointmentFilter
	updates    int
}

func newMemClinic() *memClinic {
	return &memClinic{
		owners:       make(map[int64]*clinic.Owner),
		animals:      make(map[int64]*clinic.Animal),
		appointments: make(map[int64]*clinic.Appointment),
		accounts:     make(map[int64]*auth.Account),
	}
}

func (m *memClinic) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memClinic) repos() clinic.Repositories {
	return clinic.Repositories{
		Owners:       memOwners{m},
		Animals:      memAnimals{m},
		Appointments: memAppointments{m},
		Surgeries:    memSurgeries{m},
		Accounts:     memAccountLookup{m},
	}
}

type memOwners struct{ m *memClinic }

func (r memOwners) Create(_ context.Context, o *clinic.Owner) error {
	o.ID = r.m.id()
	cp := *o
	r.m.owners[o.ID] = &cp
	return nil
}

func (r memOwners) Get(_ context.Context, id int64) (*clinic.Owner, error) {
	o, ok := r.m.owners[id]
	if !ok {
		return nil, missing("owner", id)
	}
	cp := *o
	return &cp, nil
}

func (r memOwners) GetByNationalID(ctx context.Context, nationalID string) (*clinic.Owner, error) {
	for id, o := range r.m.owners {
		if o.NationalID == nationalID {
			return r.Get(ctx, id)
		}
	}
	return nil, missing("owner", 0)
}

func (r memOwners) List(_ context.Context) ([]*clinic.Owner, error) {
	out := make([]*clinic.Owner, 0, len(r.m.owners))
	for _, o := range r.m.owners {
		out = append(out, o)
	}
	return out, nil
}

func (r memOwners) Update(_ context.Context, o *clinic.Owner) error {
	if _, ok := r.m.owners[o.ID]; !ok {
		return missing("owner", o.ID)
	}
	cp := *o
	r.m.owners[o.ID] = &cp
	r.m.updates++
	return nil
}

func (r memOwners) Delete(_ context.Context, id int64) error {
	if _, ok := r.m.owners[id]; !ok {
		return missing("owner", id)
	}
	delete(r.m.owners, id)
	for aid, a := range r.m.animals {
		if a.OwnerID == id {
			delete(r.m.animals, aid)
		}
	}
	return nil
}

func (r memOwners) AnimalCounts(_ context.Context) ([]clinic.OwnerAnimalCount, error) {
	var out []clinic.OwnerAnimalCount
	for _, o := range r.m.owners {
		n := 0
		for _, a := range r.m.animals {
			if a.OwnerID == o.ID {
				n++
			}
		}
		out = append(out, clinic.OwnerAnimalCount{OwnerID: o.ID, Name: o.Name, Animals: n})
	}
	return out, nil
}

type memAnimals struct{ m *memClinic }

func (r memAnimals) Create(_ context.Context, a *clinic.Animal) error {
	if _, ok := r.m.owners[a.OwnerID]; !ok {
		return missing("owner", a.OwnerID)
	}
	a.ID = r.m.id()
	cp := *a
	r.m.animals[a.ID] = &cp
	return nil
}

func (r memAnimals) Get(_ context.Context, id int64) (*clinic.Animal, error) {
	a, ok := r.m.animals[id]
	if !ok {
		return nil, missing("animal", id)
	}
	cp := *a
	return &cp, nil
}

func (r memAnimals) List(_ context.Context) ([]*clinic.AnimalListing, error) {
	var out []*clinic.AnimalListing
	for _, a := range r.m.animals {
		out = append(out, &clinic.AnimalListing{Animal: *a, OwnerName: r.m.owners[a.OwnerID].Name})
	}
	return out, nil
}

func (r memAnimals) ListByOwner(_ context.Context, ownerID int64) ([]*clinic.Animal, error) {
	var out []*clinic.Animal
	for _, a := range r.m.animals {
		if a.OwnerID == ownerID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memAnimals) Update(_ context.Context, a *clinic.Animal) error {
	cp := *a
	r.m.animals[a.ID] = &cp
	r.m.updates++
	return nil
}

func (r memAnimals) Delete(_ context.Context, id int64) error {
	if _, ok := r.m.animals[id]; !ok {
		return missing("animal", id)
	}
	delete(r.m.animals, id)
	return nil
}

type memAppointments struct{ m *memClinic }

func (r memAppointments) Create(_ context.Context, a *clinic.Appointment) error {
	if _, ok := r.m.animals[a.AnimalID]; !ok {
		return missing("animal", a.AnimalID)
	}
	a.ID = r.m.id()
	cp := *a
	r.m.appointments[a.ID] = &cp
	return nil
}

func (r memAppointments) Get(_ context.Context, id int64) (*clinic.Appointment, error) {
	a, ok := r.m.appointments[id]
	if !ok {
		return nil, missing("appointment", id)
	}
	cp := *a
	return &cp, nil
}

func (r memAppointments) List(_ context.Context, f clinic.AppointmentFilter) ([]*clinic.AppointmentListing, error) {
	r.m.lastFilter = f
	var out []*clinic.AppointmentListing
	for _, a := range r.m.appointments {
		out = append(out, &clinic.AppointmentListing{Appointment: *a})
	}
	return out, nil
}

func (r memAppointments) Update(_ context.Context, a *clinic.Appointment) error {
	cp := *a
	r.m.appointments[a.ID] = &cp
	r.m.updates++
	return nil
}

func (r memAppointments) Delete(_ context.Context, id int64) error {
	if _, ok := r.m.appointments[id]; !ok {
		return missing("appointment", id)
	}
	delete(r.m.appointments, id)
	return nil
}

func (r memAppointments) CancelForOwner(_ context.Context, id, ownerID int64) (bool, error) {
	a, ok := r.m.appointments[id]
	if !ok || a.Status != clinic.StatusScheduled {
		return false, nil
	}
	animal, ok := r.m.animals[a.AnimalID]
	if !ok || animal.OwnerID != ownerID {
		return false, nil
	}
	a.Status = clinic.StatusCancelled
	return true, nil
}

type memSurgeries struct{ m *memClinic }

func (r memSurgeries) Create(_ context.Context, s *clinic.Surgery) error {
	s.ID = r.m.id()
	cp := *s
	r.m.surgeries = append(r.m.surgeries, &cp)
	return nil
}

func (r memSurgeries) List(_ context.Context) ([]*clinic.SurgeryListing, error) {
	out := make([]*clinic.SurgeryListing, 0, len(r.m.surgeries))
	for _, s := range r.m.surgeries {
		out = append(out, &clinic.SurgeryListing{Surgery: *s})
	}
	return out, nil
}

type memAccountLookup struct{ m *memClinic }

func (r memAccountLookup) GetByID(_ context.Context, id int64) (*auth.Account, error) {
	a, ok := r.m.accounts[id]
	if !ok {
		return nil, oops.Code(errutil.CodeNotFound).Wrap(auth.ErrNotFound)
	}
	return a, nil
}
