// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package auth

import "errors"

// ErrNotFound is wrapped by repositories when a requested account does not
// exist.
var ErrNotFound = errors.New("not found")
