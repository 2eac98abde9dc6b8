package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// CheckSecret compares a submitted password with the configured admin
// secret. The secret may be stored as a bcrypt hash; anything else is
// compared in constant time as plain text.
func CheckSecret(configured, submitted string) bool {
	if configured == "" {
		return false
	}
	if IsBcryptHash(configured) {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(submitted)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(configured), []byte(submitted)) == 1
}

func IsBcryptHash(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}

// HashSecret produces a bcrypt hash suitable for ADMIN_PASSWORD.
func HashSecret(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	return string(b), err
}
