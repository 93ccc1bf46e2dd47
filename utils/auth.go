package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest password bcrypt accepts, in bytes
const MaxPasswordBytes = 72

// PasswordTooLong reports whether bcrypt would refuse the password
func PasswordTooLong(password string) bool {
	return len(password) > MaxPasswordBytes
}

// HashPassword hashes a password using bcrypt. A cost outside bcrypt's
// range falls back to the default.
func HashPassword(password string, cost int) (string, error) {
	if PasswordTooLong(password) {
		return "", bcrypt.ErrPasswordTooLong
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with its hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
