package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bastionlabs/adminauth/internal/adminauth/service"
)

func TestSessionRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)

	token, err := e.Sessions.Create(ctx, "acc-1", "admin@example.com")
	require.NoError(t, err)

	accountID, email, err := e.Sessions.Verify(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "acc-1", accountID)
	require.Equal(t, "admin@example.com", email)
}

func TestSessionRejectsGarbage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)

	_, _, err := e.Sessions.Verify(ctx, "not-a-token")
	require.ErrorIs(t, err, service.ErrSessionInvalid)
}

func TestSessionRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)

	forged := service.NewSessionService(e.Cache, "other-secret")
	token, err := forged.Create(ctx, "acc-1", "admin@example.com")
	require.NoError(t, err)

	_, _, err = e.Sessions.Verify(ctx, token)
	require.ErrorIs(t, err, service.ErrSessionInvalid)
}

func TestSessionExpiresServerSide(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)

	token, err := e.Sessions.Create(ctx, "acc-1", "admin@example.com")
	require.NoError(t, err)

	e.Redis.FastForward(service.SessionTTL)

	_, _, err = e.Sessions.Verify(ctx, token)
	require.ErrorIs(t, err, service.ErrSessionInvalid)
}

func TestSessionDestroyRevokesToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)

	token, err := e.Sessions.Create(ctx, "acc-1", "admin@example.com")
	require.NoError(t, err)

	require.NoError(t, e.Sessions.Destroy(ctx, token))

	_, _, err = e.Sessions.Verify(ctx, token)
	require.ErrorIs(t, err, service.ErrSessionInvalid, "signature alone is not enough once revoked")
}
