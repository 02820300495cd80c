// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package clinic

import (
	"fmt"
	"time"
)

// Owner is a client of the clinic, responsible for one or more animals.
type Owner struct {
	ID         int64
	Name       string
	NationalID string
	Email      *string
	Address    string
	Phone      string
	Note       *string
	CreatedAt  time.Time
}

// Animal belongs to exactly one owner and is deleted with it.
type Animal struct {
	ID        int64
	Name      string
	Species   string
	Breed     string
	Age       int
	OwnerID   int64
	CreatedAt time.Time
}

// AnimalListing is an animal with its owner's name.
type AnimalListing struct {
	Animal
	OwnerName string
}

// OwnerProfile is an owner with all of their animals.
type OwnerProfile struct {
	Owner   *Owner
	Animals []*Animal
}

// OwnerAnimalCount is one row of the animals-per-owner report.
type OwnerAnimalCount struct {
	OwnerID int64
	Name    string
	Animals int
}

// Status is the lifecycle state of an appointment or surgery.
type Status string

// Statuses.
const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// CanBecome reports whether a record in status s may move to next. Status
// only moves forward: scheduled becomes completed or cancelled and both are
// final.
func (s Status) CanBecome(next Status) bool {
	if s == next {
		return true
	}
	return s == StatusScheduled && (next == StatusCompleted || next == StatusCancelled)
}

// Priority of an appointment.
type Priority string

// Priorities.
const (
	PriorityNormal Priority = "normal"
	PriorityUrgent Priority = "urgent"
)

// ClockTime is a time of day with minute precision.
type ClockTime struct {
	Hour   int
	Minute int
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Microseconds since midnight.
func (c ClockTime) Microseconds() int64 {
	return int64(c.Hour*3600+c.Minute*60) * int64(time.Second/time.Microsecond)
}

// ClockTimeFromMicroseconds converts microseconds since midnight, dropping
// seconds.
func ClockTimeFromMicroseconds(us int64) ClockTime {
	minutes := us / int64(time.Minute/time.Microsecond)
	return ClockTime{Hour: int(minutes / 60), Minute: int(minutes % 60)}
}

// Appointment is a consultation booked for an animal.
type Appointment struct {
	ID        int64
	Date      time.Time
	Time      ClockTime
	Reason    string
	Diagnosis *string
	Status    Status
	Priority  Priority
	AnimalID  int64
	VetID     *int64
	CreatedAt time.Time
}

// AppointmentListing is an appointment with the names needed to display it.
type AppointmentListing struct {
	Appointment
	AnimalName string
	OwnerName  string
}

// AppointmentFilter narrows an appointment listing. Zero fields do not
// filter.
type AppointmentFilter struct {
	VetID   *int64
	OwnerID *int64
	Status  *Status
	Period  *Period
}

// Period is an inclusive date range.
type Period struct {
	From time.Time
	To   time.Time
}

// Surgery is a procedure booked for an animal.
type Surgery struct {
	ID        int64
	Date      time.Time
	Kind      string
	Notes     *string
	Status    Status
	AnimalID  int64
	CreatedAt time.Time
}

// SurgeryListing is a surgery with the names needed to display it.
type SurgeryListing struct {
	Surgery
	AnimalName string
	OwnerName  string
}
