// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"

	"github.com/petvida/petvida/pkg/errutil"
)

// OWASP-recommended argon2id parameters.
const (
	argon2Time    = 1         // iterations
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4         // parallelism
	argon2SaltLen = 16        // salt length in bytes
	argon2KeyLen  = 32        // output length in bytes
)

const argon2Prefix = "$argon2id$"

// Upper bounds on parameters read back from a stored digest.
const (
	maxArgon2Memory     = 1 << 22 // KiB
	maxArgon2Iterations = 64
)

// ErrEmptyPassword is returned when attempting to hash an empty password.
var ErrEmptyPassword = oops.Code(errutil.CodeValidation).
	With("field", "password").
	Errorf("password cannot be empty")

// PasswordHasher turns secrets into one-way digests and checks them.
type PasswordHasher interface {
	// Hash produces a digest of password with a fresh salt.
	Hash(password string) (string, error)

	// Verify reports whether password matches digest. A malformed digest
	// never matches.
	Verify(password, digest string) bool

	// NeedsUpgrade reports whether digest uses an older scheme and should be
	// replaced after the next successful login.
	NeedsUpgrade(digest string) bool
}

// Argon2idHasher hashes with argon2id and also verifies bcrypt digests
// carried over from older installations.
type Argon2idHasher struct{}

// NewArgon2idHasher creates a new Argon2idHasher.
func NewArgon2idHasher() *Argon2idHasher {
	return &Argon2idHasher{}
}

// Hash encodes password as $argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>.
func (h *Argon2idHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", oops.Code(errutil.CodePersistence).With("operation", "generate salt").Wrap(err)
	}

	key := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify checks password against an argon2id or bcrypt digest.
func (h *Argon2idHasher) Verify(password, digest string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	if isBcrypt(digest) {
		return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
	}
	ok, err := verifyArgon2id(password, digest)
	return err == nil && ok
}

// NeedsUpgrade returns true for any digest that is not argon2id.
func (h *Argon2idHasher) NeedsUpgrade(digest string) bool {
	return !strings.HasPrefix(digest, argon2Prefix)
}

func isBcrypt(digest string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(digest, prefix) {
			return true
		}
	}
	return false
}

// verifyArgon2id recomputes the key with the parameters stored in digest and
// compares in constant time.
func verifyArgon2id(password, digest string) (bool, error) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 {
		return false, oops.Errorf("invalid hash format")
	}
	if parts[1] != "argon2id" {
		return false, oops.Errorf("unsupported hash algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, oops.Wrap(err)
	}

	var memory, iterations, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false, oops.Wrap(err)
	}
	if threads == 0 || threads > 255 {
		return false, oops.Errorf("threads value %d out of range", threads)
	}
	if iterations == 0 || iterations > maxArgon2Iterations {
		return false, oops.Errorf("iterations value %d out of range", iterations)
	}
	if memory < 8*threads || memory > maxArgon2Memory {
		return false, oops.Errorf("memory value %d out of range", memory)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, oops.Wrap(err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, oops.Wrap(err)
	}
	if len(want) == 0 || len(want) > 1<<10 {
		return false, oops.Errorf("invalid key length: %d", len(want))
	}

	got := argon2.IDKey([]byte(password), salt, iterations, memory, uint8(threads), uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
