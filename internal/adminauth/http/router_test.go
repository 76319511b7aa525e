package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/bastionlabs/adminauth/internal/adminauth/cache"
	"github.com/bastionlabs/adminauth/internal/adminauth/domain"
	httpapi "github.com/bastionlabs/adminauth/internal/adminauth/http"
	"github.com/bastionlabs/adminauth/internal/adminauth/rate"
	"github.com/bastionlabs/adminauth/internal/adminauth/service"
	"github.com/bastionlabs/adminauth/internal/adminauth/store"
	"github.com/bastionlabs/adminauth/internal/adminauth/store/drivers/sqlite"
	"github.com/bastionlabs/adminauth/pkg/cryptox"
	"github.com/bastionlabs/adminauth/pkg/httpx"
	"github.com/bastionlabs/adminauth/pkg/idx"
	"github.com/bastionlabs/adminauth/pkg/sysinfo"
	"github.com/bastionlabs/adminauth/pkg/tokenx"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var machineFingerprint = sysinfo.Fingerprint{
	MACAddresses:      []string{"AA:BB:CC:DD:EE:FF"},
	MotherboardSerial: "MB-777",
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []string // bodies
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, body)
	return nil
}

func (m *recordingMailer) lastBody() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1]
}

type fixedCollector struct{ fp sysinfo.Fingerprint }

func (c *fixedCollector) Collect(context.Context) sysinfo.Fingerprint { return c.fp }

type testServer struct {
	Server *httptest.Server
	Store  store.Store
	Mailer *recordingMailer
	Redis  *miniredis.Miniredis
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "adminauth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	c := cache.NewFromClient(rdb)

	mailer := &recordingMailer{}
	limiter := rate.New(c, 5, 5*time.Minute)
	audit := service.NewAuditService(st, testLogger)
	sessions := service.NewSessionService(c, "test-session-secret")
	second := service.NewSecondFactorService(c, mailer, audit, testLogger)
	guard := service.NewGuardService(st, limiter, sessions, second,
		&fixedCollector{fp: machineFingerprint}, mailer, audit, testLogger)

	router := httpapi.NewRouter("test", st, c, testLogger)
	router.GuardService = guard
	router.SecondFactor = second
	router.ConfirmService = service.NewConfirmService(
		tokenx.New("confirm-secret", "email-confirm-salt"), mailer, testLogger, "")
	router.ResetService = service.NewResetService(
		st, limiter, tokenx.New("reset-secret", "password-reset-salt"), mailer, audit, testLogger, "")
	router.UnlockService = service.NewUnlockService(
		st, limiter, tokenx.New("unlock-secret", "unlock-account-salt"), mailer, audit, testLogger, "")
	router.SessionService = sessions
	router.MaintenanceService = service.NewMaintenanceService(st, c, testLogger, time.Hour, 24*time.Hour)
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, Store: st, Mailer: mailer, Redis: mr}
}

func (ts *testServer) seedAccount(t *testing.T, email, password string, twoFactor bool) {
	t.Helper()

	ctx := context.Background()
	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	require.NoError(t, ts.Store.Accounts().CreateAccount(ctx, domain.Account{
		ID:                    idx.New().String(),
		Email:                 email,
		NameHash:              cryptox.IdentityHash(email),
		PasswordHash:          hash,
		SecondaryPasswordHash: hash,
		TwoFactorEnabled:      twoFactor,
	}))
	require.NoError(t, ts.Store.Fingerprints().CreateFingerprint(ctx, domain.TrustedFingerprint{
		ID:          idx.New().String(),
		Fingerprint: machineFingerprint,
	}))
}

func postJSON(t *testing.T, url string, body any) (*http.Response, httpx.Result) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	var result httpx.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return resp, result
}

func TestLoginEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	ts.seedAccount(t, "admin@example.com", "correct horse", false)

	t.Run("success returns token", func(t *testing.T) {
		resp, result := postJSON(t, ts.Server.URL+"/v1/login",
			map[string]string{"email": "admin@example.com", "password": "correct horse"})

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.True(t, result.Success)
		require.NotEmpty(t, result.Token)
		require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

		// Token verifies against the session endpoint
		req, err := http.NewRequest(http.MethodGet, ts.Server.URL+"/v1/session", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+result.Token)

		sessResp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer sessResp.Body.Close()
		require.Equal(t, http.StatusOK, sessResp.StatusCode)
	})

	t.Run("wrong password locks the account", func(t *testing.T) {
		resp, result := postJSON(t, ts.Server.URL+"/v1/login",
			map[string]string{"email": "admin@example.com", "password": "nope"})

		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.False(t, result.Success)

		resp, result = postJSON(t, ts.Server.URL+"/v1/login",
			map[string]string{"email": "admin@example.com", "password": "correct horse"})
		require.Equal(t, http.StatusLocked, resp.StatusCode)
		require.Equal(t, "Admin Account Locked", result.Message)
	})
}

func TestLoginMFAEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	ts.seedAccount(t, "admin@example.com", "correct horse", true)

	resp, result := postJSON(t, ts.Server.URL+"/v1/login",
		map[string]string{"email": "admin@example.com", "password": "correct horse"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, result.MFARequired)
	require.NotEmpty(t, result.ChallengeID)
	require.Empty(t, result.Token)

	code := regexp.MustCompile(`<b>(\d{6})</b>`).FindStringSubmatch(ts.Mailer.lastBody())
	require.Len(t, code, 2)

	resp, result = postJSON(t, ts.Server.URL+"/v1/login/mfa",
		map[string]string{"challenge_id": result.ChallengeID, "code": code[1]})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, result.Token)
}

func TestResetEndpoints(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	ts.seedAccount(t, "admin@example.com", "old password", false)

	resp, _ := postJSON(t, ts.Server.URL+"/v1/reset",
		map[string]string{"email": "admin@example.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	match := regexp.MustCompile(`/v1/reset/([A-Za-z0-9_.-]+)`).FindStringSubmatch(ts.Mailer.lastBody())
	require.Len(t, match, 2)
	token := match[1]

	// GET validates the token
	getResp, err := http.Get(ts.Server.URL + "/v1/reset/" + token)
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	// POST stores the new password
	resp, result := postJSON(t, ts.Server.URL+"/v1/reset/"+token,
		map[string]string{"new_password": "brand new password"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, result.Success)

	// Short replacement rejected
	resp, _ = postJSON(t, ts.Server.URL+"/v1/reset/"+token,
		map[string]string{"new_password": "short"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Garbage token rejected
	resp, _ = postJSON(t, ts.Server.URL+"/v1/reset/garbage",
		map[string]string{"new_password": "brand new password"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUnlockEndpoints(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	ts.seedAccount(t, "admin@example.com", "correct horse", false)

	// Lock it
	resp, _ := postJSON(t, ts.Server.URL+"/v1/login",
		map[string]string{"email": "admin@example.com", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = postJSON(t, ts.Server.URL+"/v1/unlock",
		map[string]string{"email": "admin@example.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	match := regexp.MustCompile(`/v1/unlock/([A-Za-z0-9_.-]+)`).FindStringSubmatch(ts.Mailer.lastBody())
	require.Len(t, match, 2)

	resp, result := postJSON(t, ts.Server.URL+"/v1/unlock/"+match[1], map[string]string{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, result.Success)

	// Login works again
	resp, result = postJSON(t, ts.Server.URL+"/v1/login",
		map[string]string{"email": "admin@example.com", "password": "correct horse"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, result.Token)
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	for _, path := range []string{"/livez", "/readyz"} {
		resp, err := http.Get(ts.Server.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}
