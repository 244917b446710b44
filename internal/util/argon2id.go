package util

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

type Argon2idParams struct {
	Time        uint32
	MemoryKiB   uint32
	Parallelism uint8
	KeyLen      uint32
	SaltLen     int
}

func DefaultArgon2idParams() Argon2idParams {
	return Argon2idParams{
		Time:        1,
		MemoryKiB:   64 * 1024,
		Parallelism: 4,
		KeyLen:      32,
		SaltLen:     16,
	}
}

// HashPassword derives an argon2id key from the password under a fresh
// random salt and returns "salt.key" with both parts base64-encoded.
func HashPassword(password string, params Argon2idParams) (string, error) {
	salt, err := RandomBytes(params.SaltLen)
	if err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, params.Time, params.MemoryKiB, params.Parallelism, params.KeyLen)
	return base64.RawStdEncoding.EncodeToString(salt) + "." + base64.RawStdEncoding.EncodeToString(key), nil
}

// VerifyPassword re-derives the key from the candidate password and the
// stored salt and compares in constant time.
func VerifyPassword(password, encoded string, params Argon2idParams) (bool, error) {
	saltPart, keyPart, ok := strings.Cut(encoded, ".")
	if !ok {
		return false, fmt.Errorf("malformed password hash")
	}
	salt, err := base64.RawStdEncoding.DecodeString(saltPart)
	if err != nil {
		return false, fmt.Errorf("decoding salt: %w", err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(keyPart)
	if err != nil {
		return false, fmt.Errorf("decoding key: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, params.Time, params.MemoryKiB, params.Parallelism, params.KeyLen)
	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}
