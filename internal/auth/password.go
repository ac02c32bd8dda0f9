package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. 64 MiB / 3 iterations / 1 lane follows the OWASP
// password storage guidance for interactive logins.
const (
	argonTime    = 3
	argonMemory  = 64 * 1024
	argonThreads = 1
	argonKeyLen  = 32
	argonSaltLen = 16
)

// phcParts is the number of $-delimited fields in an Argon2id PHC string.
const phcParts = 6

// HashPassword hashes a plaintext password with Argon2id, returning a PHC
// string of the form $argon2id$v=19$m=65536,t=3,p=1$<salt>$<hash>.
// The salt is fresh per call, so hashing the same password twice yields
// different strings.
func HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return encoded, nil
}

// VerifyPassword checks a plaintext password against a stored PHC hash.
// The comparison is constant time. Parameters are taken from the stored
// hash, so records hashed under older cost settings still verify.
func VerifyPassword(password, encodedHash string) (bool, error) {
	salt, want, p, err := decodePHC(encodedHash)
	if err != nil {
		return false, err
	}

	got := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, uint32(len(want))) //nolint:gosec // G115: hash length always fits uint32

	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

type argonParams struct {
	time    uint32
	memory  uint32
	threads uint8
}

// decodePHC splits an Argon2id PHC string into salt, hash, and cost
// parameters. Only the argon2id variant is accepted.
func decodePHC(encoded string) (salt, hash []byte, p argonParams, err error) {
	fields := strings.Split(encoded, "$")
	if len(fields) != phcParts {
		return nil, nil, p, fmt.Errorf("invalid PHC hash format")
	}

	if fields[1] != "argon2id" {
		return nil, nil, p, fmt.Errorf("unsupported algorithm: %s", fields[1])
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil { //nolint:govet // shadow: err re-declared in nested scope
		return nil, nil, p, fmt.Errorf("parsing version: %w", err)
	}

	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil { //nolint:govet // shadow: err re-declared in nested scope
		return nil, nil, p, fmt.Errorf("parsing parameters: %w", err)
	}

	if salt, err = base64.RawStdEncoding.DecodeString(fields[4]); err != nil {
		return nil, nil, p, fmt.Errorf("decoding salt: %w", err)
	}

	if hash, err = base64.RawStdEncoding.DecodeString(fields[5]); err != nil {
		return nil, nil, p, fmt.Errorf("decoding hash: %w", err)
	}

	return salt, hash, p, nil
}
