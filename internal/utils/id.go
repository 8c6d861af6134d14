package utils

import (
	"crypto/rand"
	"encoding/base64"
)

const shortCodeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateSecureToken creates a cryptographically secure random token.
func GenerateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateShortCode creates a random URL-safe alphanumeric code of the given
// length, suitable for public share links. Uniqueness is the caller's problem.
func GenerateShortCode(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i, v := range b {
		b[i] = shortCodeAlphabet[int(v)%len(shortCodeAlphabet)]
	}
	return string(b), nil
}
