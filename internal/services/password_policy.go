package services

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrWeakPassword                 = errors.New("weak password")
	ErrPasswordChangeInvalidInput   = errors.New("password change invalid input")
	ErrPasswordChangeMismatch       = errors.New("password change mismatch")
	ErrPasswordChangeInvalidCurrent = errors.New("password change invalid current password")
	ErrPasswordChangeMustDiffer     = errors.New("password change new password must differ")
)

// ValidatePasswordStrength requires eight runes with upper, lower and digit
// characters.
func ValidatePasswordStrength(password string) error {
	if len([]rune(password)) < 8 {
		return ErrWeakPassword
	}

	var hasUpper, hasLower, hasDigit bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}
	if hasUpper && hasLower && hasDigit {
		return nil
	}
	return ErrWeakPassword
}

func ValidatePasswordChange(passwordHash string, currentPassword string, newPassword string, confirmPassword string) error {
	currentPassword = strings.TrimSpace(currentPassword)
	newPassword = strings.TrimSpace(newPassword)
	confirmPassword = strings.TrimSpace(confirmPassword)

	if currentPassword == "" || newPassword == "" || confirmPassword == "" {
		return ErrPasswordChangeInvalidInput
	}
	if newPassword != confirmPassword {
		return ErrPasswordChangeMismatch
	}
	if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(currentPassword)) != nil {
		return ErrPasswordChangeInvalidCurrent
	}
	if currentPassword == newPassword {
		return ErrPasswordChangeMustDiffer
	}
	return ValidatePasswordStrength(newPassword)
}
