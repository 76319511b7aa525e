package service_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bastionlabs/adminauth/internal/adminauth/domain"
	"github.com/bastionlabs/adminauth/internal/adminauth/rate"
	"github.com/bastionlabs/adminauth/internal/adminauth/service"
	"github.com/bastionlabs/adminauth/pkg/cryptox"
)

var codePattern = regexp.MustCompile(`<b>(\d{6})</b>`)

func TestLoginSuccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)
	acc := e.seedAccount(t, "admin@example.com", "correct horse", false)

	res, err := e.Guard.Login(ctx, acc.Email, "correct horse")
	require.NoError(t, err)
	require.False(t, res.MFARequired)
	require.NotEmpty(t, res.Token)

	accountID, email, err := e.Sessions.Verify(ctx, res.Token)
	require.NoError(t, err)
	require.Equal(t, acc.ID, accountID)
	require.Equal(t, acc.Email, email)

	// Login recorded in the audit trail
	events, err := e.Audit.Trail(ctx, acc.NameHash, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, domain.AuditLogin, events[0].Action)

	// Counter cleared on success
	n, err := e.Limiter.Attempts(ctx, service.RatePurposeLogin, acc.NameHash)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestLoginLockedAccountRejectsBeforePasswordCheck(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)
	acc := e.seedAccount(t, "admin@example.com", "correct horse", false)
	require.NoError(t, e.Store.Accounts().SetLocked(ctx, acc.ID, true))

	var compared bool
	e.Guard.VerifyPassword = func(hash, password string) error {
		compared = true
		return cryptox.VerifyPassword(hash, password)
	}

	for i := 0; i < 3; i++ {
		_, err := e.Guard.Login(ctx, acc.Email, "correct horse")
		require.ErrorIs(t, err, service.ErrAccountLocked)
	}

	require.False(t, compared, "locked account must reject before any password comparison")

	// Every attempt against a locked account re-notifies the admin
	require.Equal(t, 3, e.Mailer.count())
	require.Equal(t, "Admin Account Locked", e.Mailer.last().Subject)

	// Locked rejects are not rate limited, so the counter stays empty
	n, err := e.Limiter.Attempts(ctx, service.RatePurposeLogin, acc.NameHash)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestLoginWrongPasswordLocksAndNotifies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)
	acc := e.seedAccount(t, "admin@example.com", "correct horse", false)

	_, err := e.Guard.Login(ctx, acc.Email, "wrong password")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	got, err := e.Store.Accounts().GetAccountByID(ctx, acc.ID)
	require.NoError(t, err)
	require.True(t, got.AccountLocked)

	require.Equal(t, 1, e.Mailer.count())
	require.Equal(t, "Admin Account Locked", e.Mailer.last().Subject)

	// The right password no longer helps
	_, err = e.Guard.Login(ctx, acc.Email, "correct horse")
	require.ErrorIs(t, err, service.ErrAccountLocked)
}

func TestLoginFingerprintMismatchLocks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)
	acc := e.seedAccount(t, "admin@example.com", "correct horse", false)

	strange := testFingerprint
	strange.MotherboardSerial = "MB-000"
	e.Guard.Collector = &stubCollector{fp: strange}

	_, err := e.Guard.Login(ctx, acc.Email, "correct horse")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	got, err := e.Store.Accounts().GetAccountByID(ctx, acc.ID)
	require.NoError(t, err)
	require.True(t, got.AccountLocked)
	require.Equal(t, 1, e.Mailer.count())
}

func TestLoginUnknownIdentityRateLimited(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)

	for i := 0; i < 5; i++ {
		_, err := e.Guard.Login(ctx, "ghost@example.com", "whatever")
		require.ErrorIs(t, err, service.ErrInvalidCredentials, "attempt %d", i+1)
	}

	_, err := e.Guard.Login(ctx, "ghost@example.com", "whatever")
	require.ErrorIs(t, err, rate.ErrRateLimited, "sixth attempt must be blocked")
}

func TestLoginWithSecondFactor(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)
	acc := e.seedAccount(t, "admin@example.com", "correct horse", true)

	res, err := e.Guard.Login(ctx, acc.Email, "correct horse")
	require.NoError(t, err)
	require.True(t, res.MFARequired)
	require.NotEmpty(t, res.ChallengeID)
	require.Empty(t, res.Token, "token must be withheld until the code verifies")

	// The code travels by mail only
	require.Equal(t, 1, e.Mailer.count())
	require.Equal(t, "Admin 2FA Code", e.Mailer.last().Subject)
	match := codePattern.FindStringSubmatch(e.Mailer.last().Body)
	require.Len(t, match, 2)
	code := match[1]

	t.Run("wrong code rejected", func(t *testing.T) {
		_, err := e.Guard.CompleteMFA(ctx, res.ChallengeID, "000000")
		require.ErrorIs(t, err, service.ErrChallengeInvalid)
	})

	t.Run("right code releases the token once", func(t *testing.T) {
		token, err := e.Guard.CompleteMFA(ctx, res.ChallengeID, code)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		accountID, _, err := e.Sessions.Verify(ctx, token)
		require.NoError(t, err)
		require.Equal(t, acc.ID, accountID)

		// Challenge is burned
		_, err = e.Guard.CompleteMFA(ctx, res.ChallengeID, code)
		require.ErrorIs(t, err, service.ErrChallengeInvalid)
	})
}

func TestSecondFactorChallengeExpires(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)
	acc := e.seedAccount(t, "admin@example.com", "correct horse", true)

	res, err := e.Guard.Login(ctx, acc.Email, "correct horse")
	require.NoError(t, err)

	match := codePattern.FindStringSubmatch(e.Mailer.last().Body)
	require.Len(t, match, 2)

	e.Redis.FastForward(service.ChallengeTTL)

	_, err = e.Guard.CompleteMFA(ctx, res.ChallengeID, match[1])
	require.ErrorIs(t, err, service.ErrChallengeInvalid)
}
