// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package auth

// LockoutThreshold is the number of consecutive failed logins that locks an
// account. Locks do not expire; an administrator has to unlock the account.
const LockoutThreshold = 3

// ShouldLock reports whether failures consecutive failures lock an account.
func ShouldLock(failures int) bool {
	return failures >= LockoutThreshold
}

// RemainingAttempts is the number of failures left before lockout.
func RemainingAttempts(failures int) int {
	if failures >= LockoutThreshold {
		return 0
	}
	if failures < 0 {
		return LockoutThreshold
	}
	return LockoutThreshold - failures
}
