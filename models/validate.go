package models

import (
	"net/mail"
	"unicode"
)

// validEmail accepts a bare address only, not "Name <addr>" forms.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

const minPasswordLen = 8

// checkPassword enforces the login password policy: length plus one
// lowercase, uppercase, digit and special character each.
func checkPassword(pw string) error {
	if len(pw) < minPasswordLen {
		return Invalid("password", "must be at least 8 characters")
	}
	var lower, upper, digit, special bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	switch {
	case !lower:
		return Invalid("password", "must contain a lowercase letter")
	case !upper:
		return Invalid("password", "must contain an uppercase letter")
	case !digit:
		return Invalid("password", "must contain a digit")
	case !special:
		return Invalid("password", "must contain a special character (e.g. !@#)")
	}
	return nil
}
