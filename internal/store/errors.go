// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/petvida/petvida/pkg/errutil"
)

// Unique constraint names that map to their own failure kind.
const (
	ConstraintAccountHandle    = "accounts_handle_key"
	ConstraintOwnerNationalID  = "owners_national_id_key"
	ConstraintAccountOwnerLink = "accounts_owner_id_key"
)

// ErrorCode maps a database error onto the failure taxonomy:
//
//	pgx.ErrNoRows           NOT_FOUND
//	unique violation        DUPLICATE_HANDLE / DUPLICATE_NATIONAL_ID
//	foreign key violation   NOT_FOUND (the referenced row is gone)
//	check / not-null        VALIDATION_FAILED
//	anything else           PERSISTENCE_FAILURE
func ErrorCode(err error) string {
	if errors.Is(err, pgx.ErrNoRows) {
		return errutil.CodeNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return errutil.CodePersistence
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		switch pgErr.ConstraintName {
		case ConstraintAccountHandle:
			return errutil.CodeDuplicateHandle
		case ConstraintOwnerNationalID:
			return errutil.CodeDuplicateNationalID
		}
		return errutil.CodeValidation
	case pgerrcode.ForeignKeyViolation:
		return errutil.CodeNotFound
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		return errutil.CodeValidation
	}
	return errutil.CodePersistence
}

// Fail starts an oops error coded for err. Callers add context and Wrap:
//
//	return store.Fail(err).With("operation", "insert owner").Wrap(err)
func Fail(err error) oops.OopsErrorBuilder {
	b := oops.Code(ErrorCode(err))
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName != "" {
		b = b.With("constraint", pgErr.ConstraintName)
	}
	return b
}

// NotFound builds a NOT_FOUND error for an update or delete that matched no
// row.
func NotFound(entity string, id int64) error {
	return oops.Code(errutil.CodeNotFound).
		With("entity", entity).
		With("id", id).
		Errorf("%s %d not found", entity, id)
}
