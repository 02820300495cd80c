// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/petvida/petvida/internal/clinic"
	"github.com/petvida/petvida/internal/store"
)

// SurgeryRepository implements clinic.SurgeryRepository.
type SurgeryRepository struct {
	db store.DB
}

// NewSurgeryRepository creates a SurgeryRepository.
func NewSurgeryRepository(db store.DB) *SurgeryRepository {
	return &SurgeryRepository{db: db}
}

// Create inserts s and fills in its ID.
func (r *SurgeryRepository) Create(ctx context.Context, s *clinic.Surgery) error {
	err := store.Querier(ctx, r.db).QueryRow(ctx, `
		INSERT INTO surgeries (date, kind, notes, status, animal_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, s.Date, s.Kind, s.Notes, string(s.Status), s.AnimalID).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return store.Fail(err).
			With("operation", "insert surgery").
			With("animal_id", s.AnimalID).
			Wrap(err)
	}
	return nil
}

// List returns every surgery, newest first.
func (r *SurgeryRepository) List(ctx context.Context) ([]*clinic.SurgeryListing, error) {
	return collect(ctx, r.db, "list surgeries", func(row pgx.Row) (*clinic.SurgeryListing, error) {
		var (
			l      clinic.SurgeryListing
			status string
		)
		err := row.Scan(
			&l.ID, &l.Date, &l.Kind, &l.Notes, &status, &l.AnimalID, &l.CreatedAt,
			&l.AnimalName, &l.OwnerName,
		)
		l.Status = clinic.Status(status)
		return &l, err
	}, `
		SELECT s.id, s.date, s.kind, s.notes, s.status, s.animal_id, s.created_at, an.name, o.name
		FROM surgeries s
		JOIN animals an ON an.id = s.animal_id
		JOIN owners o ON o.id = an.owner_id
		ORDER BY s.date DESC, s.id DESC
	`)
}

var _ clinic.SurgeryRepository = (*SurgeryRepository)(nil)
