// Package auth provides password hashing and opaque token generation shared
// by the downstream applications.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// defaultTokenLength is the number of hex characters returned by
// GenerateToken when the caller passes a non-positive length.
const defaultTokenLength = 32

// HashPassword hashes a plaintext password with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plaintext password matches the stored
// bcrypt hash. A mismatch is a boolean false, never an error.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateToken returns a random hex token of length characters. Each byte
// of entropy is rendered as two hex digits, so a 32-character token carries
// 16 bytes of entropy. Non-positive lengths fall back to the default of 32;
// odd lengths are truncated down to the previous even number.
func GenerateToken(length int) (string, error) {
	if length <= 0 {
		length = defaultTokenLength
	}

	b := make([]byte, length/2)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewOpaqueID returns a random UUIDv4 string, suitable for session or
// correlation identifiers where a fixed, recognizable format is preferred
// over raw hex.
func NewOpaqueID() string {
	return uuid.NewString()
}
