package service_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bastionlabs/adminauth/internal/adminauth/domain"
	"github.com/bastionlabs/adminauth/internal/adminauth/service"
	"github.com/bastionlabs/adminauth/pkg/tokenx"
)

var unlockLinkPattern = regexp.MustCompile(`/v1/unlock/([A-Za-z0-9_.-]+)`)

func newUnlockService(e *env) *service.UnlockService {
	codec := tokenx.New("unlock-secret", "unlock-account-salt")
	return service.NewUnlockService(e.Store, e.Limiter, codec, e.Mailer, e.Audit, testLogger, "https://admin.example.com")
}

func TestUnlockFlow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)
	acc := e.seedAccount(t, "admin@example.com", "correct horse", false)
	svc := newUnlockService(e)

	// Lock the account the way an attacker would
	_, err := e.Guard.Login(ctx, acc.Email, "wrong password")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	require.NoError(t, svc.Request(ctx, acc.Email))
	require.Equal(t, "Admin Account Unlock", e.Mailer.last().Subject)

	match := unlockLinkPattern.FindStringSubmatch(e.Mailer.last().Body)
	require.Len(t, match, 2)
	token := match[1]

	email, err := svc.Confirm(ctx, token)
	require.NoError(t, err)
	require.Equal(t, acc.Email, email)

	require.NoError(t, svc.Unlock(ctx, token))

	got, err := e.Store.Accounts().GetAccountByID(ctx, acc.ID)
	require.NoError(t, err)
	require.False(t, got.AccountLocked)

	// Login works again immediately; the lock cleared the login counter
	res, err := e.Guard.Login(ctx, acc.Email, "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)

	events, err := e.Audit.Trail(ctx, acc.NameHash, 10)
	require.NoError(t, err)

	var actions []string
	for _, ev := range events {
		actions = append(actions, ev.Action)
	}
	require.Contains(t, actions, domain.AuditUnlockOK)
}

func TestUnlockRequestForUnlockedAccountSendsNothing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)
	acc := e.seedAccount(t, "admin@example.com", "correct horse", false)
	svc := newUnlockService(e)

	require.NoError(t, svc.Request(ctx, acc.Email))
	require.Zero(t, e.Mailer.count())
}

func TestUnlockRejectsCrossPurposeToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)
	e.seedAccount(t, "admin@example.com", "correct horse", false)
	svc := newUnlockService(e)

	other := tokenx.New("unlock-secret", "password-reset-salt").Issue("admin@example.com")
	require.ErrorIs(t, svc.Unlock(ctx, other), tokenx.ErrInvalidToken)
}
