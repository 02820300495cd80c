// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/petvida/petvida/internal/clinic"
	"github.com/petvida/petvida/internal/store"
)

const ownerColumns = `id, name, national_id, email, address, phone, note, created_at`

// OwnerRepository implements clinic.OwnerRepository.
type OwnerRepository struct {
	db store.DB
}

// NewOwnerRepository creates an OwnerRepository.
func NewOwnerRepository(db store.DB) *OwnerRepository {
	return &OwnerRepository{db: db}
}

// Create inserts o and fills in its ID. A taken national ID is
// DUPLICATE_NATIONAL_ID.
func (r *OwnerRepository) Create(ctx context.Context, o *clinic.Owner) error {
	err := store.Querier(ctx, r.db).QueryRow(ctx, `
		INSERT INTO owners (name, national_id, email, address, phone, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, o.Name, o.NationalID, o.Email, o.Address, o.Phone, o.Note).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return store.Fail(err).
			With("operation", "insert owner").
			With("national_id", o.NationalID).
			Wrap(err)
	}
	return nil
}

// Get retrieves an owner by ID.
func (r *OwnerRepository) Get(ctx context.Context, id int64) (*clinic.Owner, error) {
	row := store.Querier(ctx, r.db).QueryRow(ctx, `SELECT `+ownerColumns+` FROM owners WHERE id = $1`, id)
	o, err := scanOwner(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.NotFound("owner", id)
	}
	if err != nil {
		return nil, store.Fail(err).With("operation", "get owner").With("owner_id", id).Wrap(err)
	}
	return o, nil
}

// GetByNationalID retrieves an owner by national ID.
func (r *OwnerRepository) GetByNationalID(ctx context.Context, nationalID string) (*clinic.Owner, error) {
	row := store.Querier(ctx, r.db).QueryRow(ctx,
		`SELECT `+ownerColumns+` FROM owners WHERE national_id = $1`, nationalID)
	o, err := scanOwner(row)
	if err != nil {
		return nil, store.Fail(err).
			With("operation", "get owner by national id").
			With("national_id", nationalID).
			Wrap(err)
	}
	return o, nil
}

// List returns every owner ordered by name.
func (r *OwnerRepository) List(ctx context.Context) ([]*clinic.Owner, error) {
	return collect(ctx, r.db, "list owners", scanOwner,
		`SELECT `+ownerColumns+` FROM owners ORDER BY name, id`)
}

// Update writes every mutable field of o.
func (r *OwnerRepository) Update(ctx context.Context, o *clinic.Owner) error {
	return exec(ctx, r.db, "update owner", "owner", o.ID, `
		UPDATE owners
		SET name = $2, email = $3, address = $4, phone = $5, note = $6
		WHERE id = $1
	`, o.ID, o.Name, o.Email, o.Address, o.Phone, o.Note)
}

// Delete removes an owner. Animals, appointments and surgeries go with it.
func (r *OwnerRepository) Delete(ctx context.Context, id int64) error {
	return exec(ctx, r.db, "delete owner", "owner", id, `DELETE FROM owners WHERE id = $1`, id)
}

// AnimalCounts counts animals per owner, owners without animals included.
func (r *OwnerRepository) AnimalCounts(ctx context.Context) ([]clinic.OwnerAnimalCount, error) {
	return collect(ctx, r.db, "count animals per owner", func(row pgx.Row) (clinic.OwnerAnimalCount, error) {
		var c clinic.OwnerAnimalCount
		err := row.Scan(&c.OwnerID, &c.Name, &c.Animals)
		return c, err
	}, `
		SELECT o.id, o.name, COUNT(a.id)
		FROM owners o
		LEFT JOIN animals a ON a.owner_id = o.id
		GROUP BY o.id, o.name
		ORDER BY COUNT(a.id) DESC, o.name
	`)
}

func scanOwner(row pgx.Row) (*clinic.Owner, error) {
	var o clinic.Owner
	if err := row.Scan(
		&o.ID,
		&o.Name,
		&o.NationalID,
		&o.Email,
		&o.Address,
		&o.Phone,
		&o.Note,
		&o.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}

var _ clinic.OwnerRepository = (*OwnerRepository)(nil)
