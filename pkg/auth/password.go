package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt rejects inputs longer than 72 bytes.
const maxPasswordBytes = 72

// ErrPasswordTooLong is returned when a password exceeds the bcrypt input limit.
var ErrPasswordTooLong = errors.New("password too long")

// HashPassword returns a salted bcrypt hash of the password.
func HashPassword(password string) (string, error) {
	if err := ValidatePassword(password); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword validates a password against a stored bcrypt hash.
func CheckPassword(password, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// ValidatePassword rejects passwords bcrypt cannot process.
func ValidatePassword(password string) error {
	if password == "" {
		return errors.New("password required")
	}
	if len(password) > maxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}
