package domain

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

// Field validation errors. Handlers map these straight onto the response
// message, so the text is user-facing.
var (
	ErrNameTooShort        = errors.New("name must be at least 3 characters")
	ErrEmailInvalid        = errors.New("email address is not valid")
	ErrPasswordTooShort    = errors.New("password must be at least 4 characters")
	ErrSecPasswordTooShort = errors.New("secondary password must be at least 4 characters")
	ErrNewPasswordTooShort = errors.New("new password must be at least 6 characters")
)

const (
	minNameLen        = 3
	minPasswordLen    = 4
	minNewPasswordLen = 6
)

// ValidateName checks the admin display name.
func ValidateName(name string) error {
	if len(strings.TrimSpace(name)) < minNameLen {
		return ErrNameTooShort
	}
	return nil
}

// ValidateEmail checks the address parses as a bare RFC 5322 address.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailInvalid
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrEmailInvalid
	}
	return nil
}

// ValidatePassword checks the primary login credential.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLen {
		return ErrPasswordTooShort
	}
	return nil
}

// ValidateSecondaryPassword checks the step-up credential.
func ValidateSecondaryPassword(password string) error {
	if len(password) < minPasswordLen {
		return ErrSecPasswordTooShort
	}
	return nil
}

// ValidateNewPassword applies the stricter minimum used on password reset.
func ValidateNewPassword(password string) error {
	if len(password) < minNewPasswordLen {
		return ErrNewPasswordTooShort
	}
	return nil
}

// ValidateAccountFields runs every per-field check for account creation and
// returns the first failure.
func ValidateAccountFields(name, email, password, secondaryPassword string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ValidateEmail(email); err != nil {
		return fmt.Errorf("%w: %q", ErrEmailInvalid, email)
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}
	return ValidateSecondaryPassword(secondaryPassword)
}
