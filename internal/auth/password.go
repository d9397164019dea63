package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	PasswordPlain  = "plain"
	PasswordBcrypt = "bcrypt"
)

// Passwords turns a submitted password into its stored form and checks a
// submission against a stored value.
type Passwords interface {
	Hash(password string) (string, error)
	Matches(stored, given string) bool
}

// NewPasswords returns the policy named by mode.
func NewPasswords(mode string) (Passwords, error) {
	switch mode {
	case "", PasswordPlain:
		return PlainPasswords{}, nil
	case PasswordBcrypt:
		return BcryptPasswords{Cost: bcrypt.DefaultCost}, nil
	default:
		return nil, fmt.Errorf("unknown password storage %q", mode)
	}
}

// PlainPasswords stores passwords exactly as submitted. This matches the
// existing user records; switching to bcrypt invalidates them.
type PlainPasswords struct{}

func (PlainPasswords) Hash(password string) (string, error) { return password, nil }

func (PlainPasswords) Matches(stored, given string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

// BcryptPasswords stores bcrypt hashes.
type BcryptPasswords struct {
	Cost int
}

func (b BcryptPasswords) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), b.Cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func (BcryptPasswords) Matches(stored, given string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
}
