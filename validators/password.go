package validators

import (
	"errors"
	"strings"
	"unicode"
)

// Symbols accepted by PasswordValidator. Kept in sync with the
// signup form on the client
const passwordSymbols = "!@#$%^&*()-_=+[]{};:,.<>?"

var (
	ErrPasswordEmpty    = errors.New("no password provided")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong  = errors.New("password is too long")
	ErrPasswordTooWeak  = errors.New("password must contain a lowercase letter, an uppercase letter, a digit and a symbol")
)

func PasswordValidator(p string) error {
	if p == "" {
		return ErrPasswordEmpty
	}

	if len(p) < 8 {
		return ErrPasswordTooShort
	}

	if len(p) > 255 {
		return ErrPasswordTooLong
	}

	var lower, upper, digit, symbol bool

	for _, r := range p {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}

	if !lower || !upper || !digit || !symbol {
		return ErrPasswordTooWeak
	}

	return nil
}
