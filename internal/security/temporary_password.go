// Package security generates operator-issued secrets.
package security

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

const (
	MinTemporaryPasswordLength = 8
	temporaryPasswordAlphabet  = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
	temporaryPasswordUpper     = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	temporaryPasswordLower     = "abcdefghijkmnopqrstuvwxyz"
	temporaryPasswordDigits    = "23456789"
	maxTemporaryPasswordTries  = 64
)

var (
	errTemporaryPasswordExhausted = errors.New("could not generate a temporary password")
	errEmptyAlphabet              = errors.New("alphabet must not be empty")
)

// TemporaryPassword returns a password of at least MinTemporaryPasswordLength
// characters that contains an upper-case letter, a lower-case letter and a
// digit. Look-alike characters are left out of the alphabet.
func TemporaryPassword(length int) (string, error) {
	if length < MinTemporaryPasswordLength {
		length = MinTemporaryPasswordLength
	}

	for range maxTemporaryPasswordTries {
		candidate, err := randomString(length, temporaryPasswordAlphabet)
		if err != nil {
			return "", err
		}
		if hasRequiredClasses(candidate) {
			return candidate, nil
		}
	}
	return "", errTemporaryPasswordExhausted
}

func hasRequiredClasses(candidate string) bool {
	return strings.ContainsAny(candidate, temporaryPasswordUpper) &&
		strings.ContainsAny(candidate, temporaryPasswordLower) &&
		strings.ContainsAny(candidate, temporaryPasswordDigits)
}

// randomString draws every character uniformly from alphabet using crypto/rand.
func randomString(length int, alphabet string) (string, error) {
	if alphabet == "" {
		return "", errEmptyAlphabet
	}

	var builder strings.Builder
	builder.Grow(length)
	limit := big.NewInt(int64(len(alphabet)))
	for builder.Len() < length {
		position, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		builder.WriteByte(alphabet[position.Int64()])
	}
	return builder.String(), nil
}
