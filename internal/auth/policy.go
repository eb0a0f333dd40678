package auth

import (
	"unicode"

	"github.com/devxxclaire/MyFinanceHub/internal/core"
)

// MinPasswordLen is the policy's minimum password length.
const MinPasswordLen = 8

// CheckPasswordPolicy enforces the password policy: at least
// MinPasswordLen characters with one uppercase letter, one lowercase
// letter and one digit. Registration and password change share it.
func CheckPasswordPolicy(password string) error {
	if len(password) < MinPasswordLen {
		return &core.ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper {
		return &core.ValidationError{Field: "password", Reason: "must contain an uppercase letter"}
	}
	if !lower {
		return &core.ValidationError{Field: "password", Reason: "must contain a lowercase letter"}
	}
	if !digit {
		return &core.ValidationError{Field: "password", Reason: "must contain a digit"}
	}
	return nil
}
