// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

// Package registration creates accounts together with the owner and animal
// records a client needs, as one unit of work.
package registration

import (
	"context"
	"log/slog"

	"github.com/samber/oops"

	"github.com/petvida/petvida/internal/auth"
	"github.com/petvida/petvida/internal/clinic"
	"github.com/petvida/petvida/pkg/errutil"
)

// Registration outcomes reported to the Recorder.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder counts registrations by role and outcome.
type Recorder interface {
	RecordRegistration(role, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordRegistration(string, string) {}

// OwnerCreator inserts owners.
type OwnerCreator interface {
	Create(ctx context.Context, o *clinic.Owner) error
}

// AnimalCreator inserts animals.
type AnimalCreator interface {
	Create(ctx context.Context, a *clinic.Animal) error
}

// Deps are the collaborators of a Workflow. Logger and Recorder are
// optional. AdminHandle is the handle reserved for the first-run
// administrator and defaults to auth.DefaultAdminHandle.
type Deps struct {
	Accounts   auth.AccountRepository
	Owners     OwnerCreator
	Animals    AnimalCreator
	Hasher     auth.PasswordHasher
	Transactor auth.Transactor
	Logger     *slog.Logger
	Recorder   Recorder

	AdminHandle string
}

// Result holds the records a registration created. Owner and Animal are nil
// for non-client roles.
type Result struct {
	Account *auth.Account
	Owner   *clinic.Owner
	Animal  *clinic.Animal
}

// Workflow registers accounts.
type Workflow struct {
	accounts auth.AccountRepository
	owners   OwnerCreator
	animals  AnimalCreator
	hasher   auth.PasswordHasher
	tx       auth.Transactor
	logger   *slog.Logger
	metrics  Recorder
	reserved string
}

// NewWorkflow creates a Workflow.
func NewWorkflow(d Deps) (*Workflow, error) {
	switch {
	case d.Accounts == nil:
		return nil, oops.Errorf("account repository is required")
	case d.Owners == nil:
		return nil, oops.Errorf("owner repository is required")
	case d.Animals == nil:
		return nil, oops.Errorf("animal repository is required")
	case d.Hasher == nil:
		return nil, oops.Errorf("password hasher is required")
	case d.Transactor == nil:
		return nil, oops.Errorf("transactor is required")
	}
	w := &Workflow{
		accounts: d.Accounts,
		owners:   d.Owners,
		animals:  d.Animals,
		hasher:   d.Hasher,
		tx:       d.Transactor,
		logger:   d.Logger,
		metrics:  d.Recorder,
		reserved: d.AdminHandle,
	}
	if w.reserved == "" {
		w.reserved = auth.DefaultAdminHandle
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	if w.metrics == nil {
		w.metrics = nopRecorder{}
	}
	return w, nil
}

// SignUp is public self-registration; the role is always client.
func (w *Workflow) SignUp(ctx context.Context, form Form) (*Result, error) {
	form.Role = auth.RoleClient
	return w.Register(ctx, form)
}

// CreateUser lets an administrator register an account of any role.
func (w *Workflow) CreateUser(ctx context.Context, actor *auth.Identity, form Form) (*Result, error) {
	if err := auth.RequireRole(actor, auth.RoleAdmin); err != nil {
		return nil, err
	}
	res, err := w.Register(ctx, form)
	if err == nil {
		w.logger.InfoContext(ctx, "account created by administrator",
			"event", "account_created",
			"account_id", res.Account.ID,
			"actor_id", actor.AccountID,
			"session_id", actor.SessionID.String())
	}
	return res, err
}

// Register validates form and creates the account, and for clients the
// owner and first animal linked to it. Either every record is created or
// none is.
func (w *Workflow) Register(ctx context.Context, form Form) (*Result, error) {
	res, err := w.register(ctx, form)
	if err != nil {
		w.metrics.RecordRegistration(string(form.Role), OutcomeFailure)
		w.logger.WarnContext(ctx, "registration failed",
			"event", "registration_failed",
			"handle", form.Handle,
			"role", string(form.Role),
			"kind", string(errutil.KindOf(err)))
		return nil, err
	}
	w.metrics.RecordRegistration(string(form.Role), OutcomeSuccess)
	attrs := []any{
		"event", "registered",
		"handle", res.Account.Handle,
		"role", string(res.Account.Role),
		"account_id", res.Account.ID,
	}
	if res.Owner != nil {
		attrs = append(attrs, "owner_id", res.Owner.ID, "animal_id", res.Animal.ID)
	}
	w.logger.InfoContext(ctx, "account registered", attrs...)
	return res, nil
}

func (w *Workflow) register(ctx context.Context, form Form) (*Result, error) {
	if err := w.validate(form); err != nil {
		return nil, err
	}
	digest, err := w.hasher.Hash(form.Password)
	if err != nil {
		return nil, oops.With("operation", "hash password").Wrap(err)
	}

	var res *Result
	err = w.tx.InTransaction(ctx, func(ctx context.Context) error {
		r := &Result{Account: &auth.Account{
			Handle:       form.Handle,
			PasswordHash: digest,
			Role:         form.Role,
		}}
		if err := w.accounts.Create(ctx, r.Account); err != nil {
			return oops.With("operation", "create account").With("handle", form.Handle).Wrap(err)
		}
		if form.Role != auth.RoleClient {
			res = r
			return nil
		}

		r.Owner = form.Owner.Owner()
		if err := w.owners.Create(ctx, r.Owner); err != nil {
			return oops.With("operation", "create owner").With("handle", form.Handle).Wrap(err)
		}
		r.Animal = form.Animal.Animal(r.Owner.ID)
		if err := w.animals.Create(ctx, r.Animal); err != nil {
			return oops.With("operation", "create animal").With("owner_id", r.Owner.ID).Wrap(err)
		}
		if err := w.accounts.LinkOwner(ctx, r.Account.ID, r.Owner.ID); err != nil {
			return oops.With("operation", "link owner").
				With("account_id", r.Account.ID).
				With("owner_id", r.Owner.ID).
				Wrap(err)
		}
		r.Account.OwnerID = &r.Owner.ID
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// validate checks form and that a non-admin account does not take the
// reserved administrator handle.
func (w *Workflow) validate(form Form) error {
	if err := form.Validate(); err != nil {
		return err
	}
	return auth.ValidateReservedHandle(form.Handle, form.Role, w.reserved)
}

// HandleAvailable returns a DUPLICATE_HANDLE error when handle is taken.
// The insert still enforces uniqueness; this only lets prompts fail early.
func (w *Workflow) HandleAvailable(ctx context.Context, handle string) error {
	_, err := w.accounts.GetByHandle(ctx, handle)
	switch {
	case err == nil:
		return oops.Code(errutil.CodeDuplicateHandle).
			With("field", "handle").
			With("handle", handle).
			Errorf("handle %q is already taken", handle)
	case errutil.Is(err, errutil.KindNotFound):
		return nil
	}
	return oops.With("operation", "check handle").With("handle", handle).Wrap(err)
}
