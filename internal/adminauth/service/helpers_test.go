package service_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/bastionlabs/adminauth/internal/adminauth/cache"
	"github.com/bastionlabs/adminauth/internal/adminauth/domain"
	"github.com/bastionlabs/adminauth/internal/adminauth/rate"
	"github.com/bastionlabs/adminauth/internal/adminauth/service"
	"github.com/bastionlabs/adminauth/internal/adminauth/store"
	"github.com/bastionlabs/adminauth/internal/adminauth/store/drivers/sqlite"
	"github.com/bastionlabs/adminauth/pkg/cryptox"
	"github.com/bastionlabs/adminauth/pkg/idx"
	"github.com/bastionlabs/adminauth/pkg/sysinfo"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// spyMailer records every delivery instead of sending it.
type spyMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func (m *spyMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return context.DeadlineExceeded
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *spyMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *spyMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

// stubCollector returns a fixed machine fingerprint.
type stubCollector struct {
	fp sysinfo.Fingerprint
}

func (c *stubCollector) Collect(context.Context) sysinfo.Fingerprint { return c.fp }

var testFingerprint = sysinfo.Fingerprint{
	MACAddresses:      []string{"AA:BB:CC:DD:EE:FF"},
	Drives:            []sysinfo.Drive{{Model: "EVO 970", Serial: "S1234"}},
	MotherboardSerial: "MB-777",
	Latitude:          40.7128,
	Longitude:         -74.006,
}

// env bundles everything the service tests need.
type env struct {
	Store    store.Store
	Cache    *cache.Cache
	Redis    *miniredis.Miniredis
	Mailer   *spyMailer
	Limiter  *rate.Limiter
	Sessions *service.SessionService
	Audit    *service.AuditService
	Second   *service.SecondFactorService
	Guard    *service.GuardService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "adminauth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	c := cache.NewFromClient(rdb)

	mailer := &spyMailer{}
	limiter := rate.New(c, 5, 5*time.Minute)
	sessions := service.NewSessionService(c, "test-session-secret")
	audit := service.NewAuditService(st, testLogger)
	second := service.NewSecondFactorService(c, mailer, audit, testLogger)
	guard := service.NewGuardService(st, limiter, sessions, second,
		&stubCollector{fp: testFingerprint}, mailer, audit, testLogger)

	return &env{
		Store:    st,
		Cache:    c,
		Redis:    mr,
		Mailer:   mailer,
		Limiter:  limiter,
		Sessions: sessions,
		Audit:    audit,
		Second:   second,
		Guard:    guard,
	}
}

// seedAccount creates an account with known credentials and trusts the stub
// fingerprint.
func (e *env) seedAccount(t *testing.T, email, password string, twoFactor bool) domain.Account {
	t.Helper()

	ctx := context.Background()

	passwordHash, err := cryptox.HashPassword(password)
	require.NoError(t, err)
	secondaryHash, err := cryptox.HashPassword("secondary-" + password)
	require.NoError(t, err)

	acc := domain.Account{
		ID:                    idx.New().String(),
		Email:                 email,
		NameHash:              cryptox.IdentityHash(email),
		PasswordHash:          passwordHash,
		SecondaryPasswordHash: secondaryHash,
		TwoFactorEnabled:      twoFactor,
	}
	require.NoError(t, e.Store.Accounts().CreateAccount(ctx, acc))
	require.NoError(t, e.Store.Fingerprints().CreateFingerprint(ctx, domain.TrustedFingerprint{
		ID:          idx.New().String(),
		Fingerprint: testFingerprint,
	}))

	return acc
}
