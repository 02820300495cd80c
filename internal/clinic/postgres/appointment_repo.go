// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/petvida/petvida/internal/clinic"
	"github.com/petvida/petvida/internal/store"
)

const appointmentColumns = `ap.id, ap.date, ap.time, ap.reason, ap.diagnosis, ap.status, ap.priority, ap.animal_id, ap.vet_id, ap.created_at`

// AppointmentRepository implements clinic.AppointmentRepository.
type AppointmentRepository struct {
	db store.DB
}

// NewAppointmentRepository creates an AppointmentRepository.
func NewAppointmentRepository(db store.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func clockValue(c clinic.ClockTime) pgtype.Time {
	return pgtype.Time{Microseconds: c.Microseconds(), Valid: true}
}

// Create inserts a and fills in its ID. A missing animal or veterinarian is
// NOT_FOUND.
func (r *AppointmentRepository) Create(ctx context.Context, a *clinic.Appointment) error {
	err := store.Querier(ctx, r.db).QueryRow(ctx, `
		INSERT INTO appointments (date, time, reason, diagnosis, status, priority, animal_id, vet_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, a.Date, clockValue(a.Time), a.Reason, a.Diagnosis, string(a.Status), string(a.Priority), a.AnimalID, a.VetID,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return store.Fail(err).
			With("operation", "insert appointment").
			With("animal_id", a.AnimalID).
			Wrap(err)
	}
	return nil
}

// Get retrieves an appointment by ID.
func (r *AppointmentRepository) Get(ctx context.Context, id int64) (*clinic.Appointment, error) {
	row := store.Querier(ctx, r.db).QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM appointments ap WHERE ap.id = $1`, id)
	var a clinic.Appointment
	err := scanAppointment(row, &a)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.NotFound("appointment", id)
	}
	if err != nil {
		return nil, store.Fail(err).With("operation", "get appointment").With("appointment_id", id).Wrap(err)
	}
	return &a, nil
}

// List returns appointments matching f, newest first.
func (r *AppointmentRepository) List(ctx context.Context, f clinic.AppointmentFilter) ([]*clinic.AppointmentListing, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if f.VetID != nil {
		where = append(where, "ap.vet_id = "+arg(*f.VetID))
	}
	if f.OwnerID != nil {
		where = append(where, "an.owner_id = "+arg(*f.OwnerID))
	}
	if f.Status != nil {
		where = append(where, "ap.status = "+arg(string(*f.Status)))
	}
	if f.Period != nil {
		where = append(where, "ap.date BETWEEN "+arg(f.Period.From)+" AND "+arg(f.Period.To))
	}

	var sql strings.Builder
	sql.WriteString(`SELECT ` + appointmentColumns + `, an.name, o.name
		FROM appointments ap
		JOIN animals an ON an.id = ap.animal_id
		JOIN owners o ON o.id = an.owner_id`)
	if len(where) > 0 {
		sql.WriteString("\n\t\tWHERE " + strings.Join(where, " AND "))
	}
	sql.WriteString("\n\t\tORDER BY ap.date DESC, ap.time DESC, ap.id DESC")

	return collect(ctx, r.db, "list appointments", func(row pgx.Row) (*clinic.AppointmentListing, error) {
		var l clinic.AppointmentListing
		err := scanAppointment(row, &l.Appointment, &l.AnimalName, &l.OwnerName)
		return &l, err
	}, sql.String(), args...)
}

// Update writes diagnosis, status and priority.
func (r *AppointmentRepository) Update(ctx context.Context, a *clinic.Appointment) error {
	return exec(ctx, r.db, "update appointment", "appointment", a.ID, `
		UPDATE appointments SET diagnosis = $2, status = $3, priority = $4 WHERE id = $1
	`, a.ID, a.Diagnosis, string(a.Status), string(a.Priority))
}

// Delete removes an appointment.
func (r *AppointmentRepository) Delete(ctx context.Context, id int64) error {
	return exec(ctx, r.db, "delete appointment", "appointment", id, `DELETE FROM appointments WHERE id = $1`, id)
}

// CancelForOwner cancels a scheduled appointment of one of ownerID's
// animals. Ownership, status and the write are one statement.
func (r *AppointmentRepository) CancelForOwner(ctx context.Context, id, ownerID int64) (bool, error) {
	tag, err := store.Querier(ctx, r.db).Exec(ctx, `
		UPDATE appointments
		SET status = 'cancelled'
		WHERE id = $1
		  AND status = 'scheduled'
		  AND animal_id IN (SELECT id FROM animals WHERE owner_id = $2)
	`, id, ownerID)
	if err != nil {
		return false, store.Fail(err).
			With("operation", "cancel appointment").
			With("appointment_id", id).
			With("owner_id", ownerID).
			Wrap(err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanAppointment(row pgx.Row, a *clinic.Appointment, extra ...any) error {
	var (
		at       pgtype.Time
		status   string
		priority string
	)
	dest := append([]any{
		&a.ID,
		&a.Date,
		&at,
		&a.Reason,
		&a.Diagnosis,
		&status,
		&priority,
		&a.AnimalID,
		&a.VetID,
		&a.CreatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	a.Time = clinic.ClockTimeFromMicroseconds(at.Microseconds)
	a.Status = clinic.Status(status)
	a.Priority = clinic.Priority(priority)
	return nil
}

var _ clinic.AppointmentRepository = (*AppointmentRepository)(nil)
