// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

// Package clinic holds the clinic records: owners, their animals, and the
// appointments and surgeries booked for those animals.
//
// Service enforces which role may touch which record. Field predicates in
// validation.go are pure and shared with the registration workflow.
package clinic
