// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

// Package auth authenticates clinic staff and clients.
//
// # Domain Types
//
// Account is the persisted credential record. Identity is what a successful
// Login hands to the menu shell: it carries the role every menu checks with
// RequireRole, and a per-login SessionID used only to correlate log lines.
//
// # Services
//
//   - Service - login state machine, password change, administrator unlock
//   - Bootstrapper - guarantees exactly one administrator on first run
//
// Services are created with New* constructors that reject nil dependencies.
// Persistence lives behind AccountRepository; see auth/postgres.
package auth
