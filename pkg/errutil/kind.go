// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package errutil

import (
	"fmt"

	"github.com/samber/oops"
)

// Kind classifies a failure for callers that need to branch on it.
// Each kind is also the oops code carried by errors of that kind, so the
// code is set once where the failure originates and callers wrap with
// context only.
type Kind string

// Codes carried by oops errors. Untyped so they can be passed straight to
// oops.Code.
const (
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeAccountLocked       = "ACCOUNT_LOCKED"
	CodeRoleMismatch        = "ROLE_MISMATCH"
	CodeDuplicateHandle     = "DUPLICATE_HANDLE"
	CodeDuplicateNationalID = "DUPLICATE_NATIONAL_ID"
	CodeNotFound            = "NOT_FOUND"
	CodeValidation          = "VALIDATION_FAILED"
	CodePersistence         = "PERSISTENCE_FAILURE"
)

// Failure kinds.
const (
	KindInvalidCredentials  Kind = CodeInvalidCredentials
	KindAccountLocked       Kind = CodeAccountLocked
	KindRoleMismatch        Kind = CodeRoleMismatch
	KindDuplicateHandle     Kind = CodeDuplicateHandle
	KindDuplicateNationalID Kind = CodeDuplicateNationalID
	KindNotFound            Kind = CodeNotFound
	KindValidation          Kind = CodeValidation
	KindPersistence         Kind = CodePersistence
)

var knownKinds = map[Kind]struct{}{
	KindInvalidCredentials:  {},
	KindAccountLocked:       {},
	KindRoleMismatch:        {},
	KindDuplicateHandle:     {},
	KindDuplicateNationalID: {},
	KindNotFound:            {},
	KindValidation:          {},
	KindPersistence:         {},
}

// Code returns the oops code of err, or "" if err carries none.
func Code(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	code := oopsErr.Code()
	if code == nil {
		return ""
	}
	if s, ok := code.(string); ok {
		return s
	}
	return fmt.Sprint(code)
}

// KindOf returns the kind of err. Errors without a known code are reported
// as KindPersistence: anything unclassified came from infrastructure.
// KindOf(nil) returns "".
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	k := Kind(Code(err))
	if _, ok := knownKinds[k]; ok {
		return k
	}
	return KindPersistence
}

// Is reports whether err is of kind k.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// Aborts reports whether err should abort the current workflow. Validation
// failures are recovered where the input was read, so they never abort.
func Aborts(err error) bool {
	return err != nil && KindOf(err) != KindValidation
}
