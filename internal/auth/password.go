// Package auth implements the credential primitives of the session core:
// one-way password hashing (Argon2id) and signed token issuance and
// verification (JWT).
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	// Hash produces a self-describing, salted hash of password.
	Hash(password string) (string, error)

	// Verify reports whether password matches hash. A malformed hash
	// verifies as false, never as an error.
	Verify(password, hash string) bool
}

// Argon2idParams tune the memory-hard key derivation.
type Argon2idParams struct {
	Memory      uint32 // KiB
	Time        uint32
	Parallelism uint8
	SaltLen     uint32
	KeyLen      uint32
}

// DefaultArgon2idParams are the production parameters: 64 MiB, one pass,
// four lanes.
var DefaultArgon2idParams = Argon2idParams{
	Memory:      64 * 1024,
	Time:        1,
	Parallelism: 4,
	SaltLen:     16,
	KeyLen:      32,
}

// Argon2idHasher hashes passwords into PHC-formatted strings:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<saltB64>$<keyB64>
type Argon2idHasher struct {
	params Argon2idParams
}

func NewArgon2idHasher() *Argon2idHasher {
	return &Argon2idHasher{params: DefaultArgon2idParams}
}

func NewArgon2idHasherWithParams(p Argon2idParams) *Argon2idHasher {
	return &Argon2idHasher{params: p}
}

func (h *Argon2idHasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("error generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.Memory, h.params.Parallelism, h.params.KeyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.Memory, h.params.Time, h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return encoded, nil
}

func (h *Argon2idHasher) Verify(password, hash string) bool {
	params, salt, key, err := decodeHash(hash)
	if err != nil {
		return false
	}

	candidate := argon2.IDKey([]byte(password), salt, params.Time, params.Memory, params.Parallelism, uint32(len(key)))

	return subtle.ConstantTimeCompare(candidate, key) == 1
}

// decodeHash parses a PHC argon2id string back into its parameters,
// salt, and derived key.
func decodeHash(hash string) (Argon2idParams, []byte, []byte, error) {
	var params Argon2idParams

	parts := strings.Split(hash, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return params, nil, nil, fmt.Errorf("malformed hash")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return params, nil, nil, fmt.Errorf("malformed hash version: %w", err)
	}
	if version != argon2.Version {
		return params, nil, nil, fmt.Errorf("unsupported argon2 version: %d", version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Time, &params.Parallelism); err != nil {
		return params, nil, nil, fmt.Errorf("malformed hash parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return params, nil, nil, fmt.Errorf("malformed salt: %w", err)
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return params, nil, nil, fmt.Errorf("malformed key: %w", err)
	}

	return params, salt, key, nil
}
