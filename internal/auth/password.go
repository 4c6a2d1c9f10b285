// Package auth provides password hashing, session token issuance, and the
// bearer middleware for the SADAR API server.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLen is the minimum accepted password length.
const MinPasswordLen = 8

// ErrPasswordTooShort is returned on signup/update with a short password.
var ErrPasswordTooShort = errors.New("password too short")

// ErrInvalidCredentials covers both unknown accounts and wrong passwords,
// so sign-in responses do not reveal which one it was.
var ErrInvalidCredentials = errors.New("invalid credentials")

// HashPassword bcrypt-hashes a password after length validation.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLen {
		return "", ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a stored hash against a candidate password.
func CheckPassword(hash, password string) error {
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}
