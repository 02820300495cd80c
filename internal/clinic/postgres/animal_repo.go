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

const animalColumns = `id, name, species, breed, age, owner_id, created_at`

// AnimalRepository implements clinic.AnimalRepository.
type AnimalRepository struct {
	db store.DB
}

// NewAnimalRepository creates an AnimalRepository.
func NewAnimalRepository(db store.DB) *AnimalRepository {
	return &AnimalRepository{db: db}
}

// Create inserts a and fills in its ID. A missing owner is NOT_FOUND.
func (r *AnimalRepository) Create(ctx context.Context, a *clinic.Animal) error {
	err := store.Querier(ctx, r.db).QueryRow(ctx, `
		INSERT INTO animals (name, species, breed, age, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, a.Name, a.Species, a.Breed, a.Age, a.OwnerID).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return store.Fail(err).
			With("operation", "insert animal").
			With("owner_id", a.OwnerID).
			Wrap(err)
	}
	return nil
}

// Get retrieves an animal by ID.
func (r *AnimalRepository) Get(ctx context.Context, id int64) (*clinic.Animal, error) {
	row := store.Querier(ctx, r.db).QueryRow(ctx, `SELECT `+animalColumns+` FROM animals WHERE id = $1`, id)
	a, err := scanAnimal(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.NotFound("animal", id)
	}
	if err != nil {
		return nil, store.Fail(err).With("operation", "get animal").With("animal_id", id).Wrap(err)
	}
	return a, nil
}

// List returns every animal with its owner's name, ordered by name.
func (r *AnimalRepository) List(ctx context.Context) ([]*clinic.AnimalListing, error) {
	return collect(ctx, r.db, "list animals", func(row pgx.Row) (*clinic.AnimalListing, error) {
		var l clinic.AnimalListing
		err := row.Scan(
			&l.ID, &l.Name, &l.Species, &l.Breed, &l.Age, &l.OwnerID, &l.CreatedAt,
			&l.OwnerName,
		)
		return &l, err
	}, `
		SELECT a.id, a.name, a.species, a.breed, a.age, a.owner_id, a.created_at, o.name
		FROM animals a
		JOIN owners o ON o.id = a.owner_id
		ORDER BY a.name, a.id
	`)
}

// ListByOwner returns an owner's animals ordered by name.
func (r *AnimalRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*clinic.Animal, error) {
	return collect(ctx, r.db, "list animals by owner", scanAnimal,
		`SELECT `+animalColumns+` FROM animals WHERE owner_id = $1 ORDER BY name, id`, ownerID)
}

// Update writes name, species, breed and age.
func (r *AnimalRepository) Update(ctx context.Context, a *clinic.Animal) error {
	return exec(ctx, r.db, "update animal", "animal", a.ID, `
		UPDATE animals SET name = $2, species = $3, breed = $4, age = $5 WHERE id = $1
	`, a.ID, a.Name, a.Species, a.Breed, a.Age)
}

// Delete removes an animal with its appointments and surgeries.
func (r *AnimalRepository) Delete(ctx context.Context, id int64) error {
	return exec(ctx, r.db, "delete animal", "animal", id, `DELETE FROM animals WHERE id = $1`, id)
}

func scanAnimal(row pgx.Row) (*clinic.Animal, error) {
	var a clinic.Animal
	if err := row.Scan(&a.ID, &a.Name, &a.Species, &a.Breed, &a.Age, &a.OwnerID, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

var _ clinic.AnimalRepository = (*AnimalRepository)(nil)
