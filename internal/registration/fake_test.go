// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package registration_test

import (
	"context"
	"maps"
	"strings"

	"github.com/samber/oops"

	"github.com/petvida/petvida/internal/auth"
	"github.com/petvida/petvida/internal/clinic"
	"github.com/petvida/petvida/pkg/errutil"
)

// memDB holds accounts, owners and animals. Its transactor restores the
// previous state when fn fails, like a rolled back transaction.
type memDB struct {
	accounts map[int64]auth.Account
	owners   map[int64]clinic.Owner
	animals  map[int64]clinic.Animal
	nextID   int64

	failAnimal error
	failLink   error
	commits    int
	rollbacks  int
}

func newMemDB() *memDB {
	return &memDB{
		accounts: make(map[int64]auth.Account),
		owners:   make(map[int64]clinic.Owner),
		animals:  make(map[int64]clinic.Animal),
	}
}

func (db *memDB) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	accounts, owners, animals, next := maps.Clone(db.accounts), maps.Clone(db.owners), maps.Clone(db.animals), db.nextID
	if err := fn(ctx); err != nil {
		db.accounts, db.owners, db.animals, db.nextID = accounts, owners, animals, next
		db.rollbacks++
		return err
	}
	db.commits++
	return nil
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

type memAccounts struct{ db *memDB }

func (r memAccounts) GetByHandle(_ context.Context, handle string) (*auth.Account, error) {
	for _, a := range r.db.accounts {
		if a.Handle == handle {
			return &a, nil
		}
	}
	return nil, oops.Code(errutil.CodeNotFound).Wrap(auth.ErrNotFound)
}

func (r memAccounts) GetByID(_ context.Context, id int64) (*auth.Account, error) {
	a, ok := r.db.accounts[id]
	if !ok {
		return nil, oops.Code(errutil.CodeNotFound).Wrap(auth.ErrNotFound)
	}
	return &a, nil
}

func (r memAccounts) Create(ctx context.Context, a *auth.Account) error {
	if _, err := r.GetByHandle(ctx, a.Handle); err == nil {
		return oops.Code(errutil.CodeDuplicateHandle).With("constraint", "accounts_handle_key").Errorf("duplicate key")
	}
	a.ID = r.db.id()
	r.db.accounts[a.ID] = *a
	return nil
}

func (r memAccounts) RecordSuccess(context.Context, int64, string) error { return nil }

func (r memAccounts) RecordFailure(context.Context, int64) (int, error) { return 0, nil }

func (r memAccounts) SetPasswordHash(context.Context, int64, string) error { return nil }

func (r memAccounts) LinkOwner(_ context.Context, id, ownerID int64) error {
	if r.db.failLink != nil {
		return r.db.failLink
	}
	a := r.db.accounts[id]
	a.OwnerID = &ownerID
	r.db.accounts[id] = a
	return nil
}

func (r memAccounts) ExistsWithRole(context.Context, auth.Role) (bool, error) { return false, nil }

func (r memAccounts) Unlock(context.Context, int64) error { return nil }

func (r memAccounts) List(context.Context) ([]*auth.Account, error) { return nil, nil }

func (r memAccounts) ListByRole(context.Context, auth.Role) ([]*auth.Account, error) { return nil, nil }

type memOwners struct{ db *memDB }

func (r memOwners) Create(_ context.Context, o *clinic.Owner) error {
	for _, existing := range r.db.owners {
		if existing.NationalID == o.NationalID {
			return oops.Code(errutil.CodeDuplicateNationalID).With("constraint", "owners_national_id_key").Errorf("duplicate key")
		}
	}
	o.ID = r.db.id()
	r.db.owners[o.ID] = *o
	return nil
}

type memAnimals struct{ db *memDB }

func (r memAnimals) Create(_ context.Context, a *clinic.Animal) error {
	if r.db.failAnimal != nil {
		return r.db.failAnimal
	}
	a.ID = r.db.id()
	r.db.animals[a.ID] = *a
	return nil
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "plain:" + password, nil }

func (plainHasher) Verify(password, digest string) bool { return digest == "plain:"+password }

func (plainHasher) NeedsUpgrade(digest string) bool { return !strings.HasPrefix(digest, "plain:") }

type recorder struct {
	calls []string
}

func (r *recorder) RecordRegistration(role, outcome string) {
	r.calls = append(r.calls, role+"/"+outcome)
}
