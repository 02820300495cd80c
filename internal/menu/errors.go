// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package menu

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/oops"

	"github.com/petvida/petvida/pkg/errutil"
)

// Describe turns err into one line fit to show the person at the terminal.
// Infrastructure details never reach the screen; they go to the log.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var ctx map[string]any
	if oopsErr, ok := oops.AsOops(err); ok {
		ctx = oopsErr.Context()
	}

	switch errutil.KindOf(err) {
	case errutil.KindInvalidCredentials:
		return "Invalid handle or password."
	case errutil.KindAccountLocked:
		return "This account is locked after too many failed attempts. Ask an administrator to unlock it."
	case errutil.KindRoleMismatch:
		return sentence(err.Error())
	case errutil.KindDuplicateHandle:
		return "That handle is already taken."
	case errutil.KindDuplicateNationalID:
		return "An owner with that national ID is already registered."
	case errutil.KindNotFound:
		if entity, ok := ctx["entity"].(string); ok {
			return fmt.Sprintf("No %s with id %v.", entity, ctx["id"])
		}
		if handle, ok := ctx["handle"].(string); ok {
			return fmt.Sprintf("No account with handle %q.", handle)
		}
		if id, ok := ctx["national_id"].(string); ok {
			return fmt.Sprintf("No owner with national ID %s.", id)
		}
		if _, ok := ctx["constraint"]; ok {
			return "A referenced record does not exist."
		}
		return sentence(err.Error())
	case errutil.KindValidation:
		return sentence(err.Error())
	default:
		return "The operation could not be completed because of a database problem. Try again later."
	}
}

func sentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "Something went wrong. Try again."
	}
	r, size := utf8.DecodeRuneInString(s)
	s = string(unicode.ToUpper(r)) + s[size:]
	if !strings.HasSuffix(s, ".") {
		s += "."
	}
	return s
}
