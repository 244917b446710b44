package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

var (
	// Ambiguous characters (0/O, 1/I/L) are excluded so codes survive
	// being read aloud or retyped from an email.
	codeChars  = []rune("23456789ABCDEFGHJKLMNPQRSTVWXYZ")
	digitChars = []rune("0123456789")
)

// RandomCode returns an n-character activation or reset code drawn from
// the unambiguous alphabet.
func RandomCode(n int) (string, error) {
	return randomFrom(codeChars, n)
}

// RandomDigits returns an n-character numeric code.
func RandomDigits(n int) (string, error) {
	return randomFrom(digitChars, n)
}

func randomFrom(alphabet []rune, n int) (string, error) {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		idx, err := RandomIntn(len(alphabet))
		if err != nil {
			return "", fmt.Errorf("generating random char index: %w", err)
		}
		sb.WriteRune(alphabet[idx])
	}
	return sb.String(), nil
}

func RandomIntn(max int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, fmt.Errorf("generating random number: %w", err)
	}
	return int(n.Int64()), nil
}

func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("generating random bytes: %w", err)
	}
	return b, nil
}
