package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plain text password using bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks if a plain text password matches the hashed password
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// MatchPassword is VerifyPassword for accounts that may have no password,
// such as users who only ever signed in with Google.
func MatchPassword(hashedPassword *string, password string) bool {
	if hashedPassword == nil || *hashedPassword == "" {
		return false
	}
	return VerifyPassword(*hashedPassword, password) == nil
}
