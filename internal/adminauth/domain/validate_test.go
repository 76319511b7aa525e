package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bastionlabs/adminauth/internal/adminauth/domain"
)

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{"plain address", "admin@example.com", true},
		{"subdomain", "ops@mail.example.co", true},
		{"empty", "", false},
		{"missing domain", "admin@", false},
		{"missing local part", "@example.com", false},
		{"display name form rejected", "Admin <admin@example.com>", false},
		{"spaces", "admin @example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := domain.ValidateEmail(tt.email)
			if tt.valid {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, domain.ErrEmailInvalid)
			}
		})
	}
}

func TestValidateAccountFields(t *testing.T) {
	t.Parallel()

	t.Run("all valid", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, domain.ValidateAccountFields("Admin", "admin@example.com", "pass", "sec1"))
	})

	t.Run("short name", func(t *testing.T) {
		t.Parallel()
		err := domain.ValidateAccountFields("ab", "admin@example.com", "pass", "sec1")
		require.ErrorIs(t, err, domain.ErrNameTooShort)
	})

	t.Run("bad email", func(t *testing.T) {
		t.Parallel()
		err := domain.ValidateAccountFields("Admin", "not-an-email", "pass", "sec1")
		require.ErrorIs(t, err, domain.ErrEmailInvalid)
	})

	t.Run("short password", func(t *testing.T) {
		t.Parallel()
		err := domain.ValidateAccountFields("Admin", "admin@example.com", "abc", "sec1")
		require.ErrorIs(t, err, domain.ErrPasswordTooShort)
	})

	t.Run("short secondary password", func(t *testing.T) {
		t.Parallel()
		err := domain.ValidateAccountFields("Admin", "admin@example.com", "pass", "ab")
		require.ErrorIs(t, err, domain.ErrSecPasswordTooShort)
	})
}

func TestValidateNewPassword(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, domain.ValidateNewPassword("12345"), domain.ErrNewPasswordTooShort)
	require.NoError(t, domain.ValidateNewPassword("123456"))
}
