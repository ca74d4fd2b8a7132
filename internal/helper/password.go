package helper

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword produces a salted bcrypt digest. Never reversible.
func HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", errors.New("empty password")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.New("failed to hash password")
	}
	return string(hashed), nil
}

// VerifyPassword reports whether plain matches the stored digest. A nil digest
// (federated-only account) verifies false instead of erroring.
func VerifyPassword(plain string, digest *string) bool {
	if digest == nil || *digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*digest), []byte(plain)) == nil
}
