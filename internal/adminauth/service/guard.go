package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bastionlabs/adminauth/internal/adminauth/domain"
	"github.com/bastionlabs/adminauth/internal/adminauth/rate"
	"github.com/bastionlabs/adminauth/internal/adminauth/store"
	"github.com/bastionlabs/adminauth/pkg/cryptox"
	"github.com/bastionlabs/adminauth/pkg/mailx"
	"github.com/bastionlabs/adminauth/pkg/sysinfo"
)

var (
	// ErrInvalidCredentials is the generic login failure. Unknown address,
	// wrong password, and machine mismatch all collapse into it.
	ErrInvalidCredentials = errors.New("service: invalid credentials")

	// ErrAccountLocked is returned while the account lock flag is set.
	ErrAccountLocked = errors.New("service: account locked")
)

// RatePurposeLogin keys the login attempt counter.
const RatePurposeLogin = "login"

// notifyTimeout bounds the lock notification mail so a slow relay cannot
// stall the reject path.
const notifyTimeout = 10 * time.Second

// FingerprintCollector provides the current machine identity. Implemented by
// sysinfo.Collector in production and by stubs in tests.
type FingerprintCollector interface {
	Collect(ctx context.Context) sysinfo.Fingerprint
}

// LoginResult is the outcome of a successful credential check. When the
// account has the second factor enabled, Token is withheld until the emailed
// code is verified against ChallengeID.
type LoginResult struct {
	Token       string
	MFARequired bool
	ChallengeID string
}

// GuardService is the account security state machine: it owns the login
// decision, the lock lifecycle, and the fingerprint gate.
type GuardService struct {
	Store        store.Store
	Limiter      *rate.Limiter
	Sessions     *SessionService
	SecondFactor *SecondFactorService
	Collector    FingerprintCollector
	Mailer       mailx.Sender
	Audit        *AuditService
	Logger       *slog.Logger

	// VerifyPassword is swappable so tests can observe whether the
	// comparison ran at all.
	VerifyPassword func(hash, password string) error
}

func NewGuardService(
	st store.Store,
	limiter *rate.Limiter,
	sessions *SessionService,
	secondFactor *SecondFactorService,
	collector FingerprintCollector,
	mailer mailx.Sender,
	audit *AuditService,
	logger *slog.Logger,
) *GuardService {
	return &GuardService{
		Store:          st,
		Limiter:        limiter,
		Sessions:       sessions,
		SecondFactor:   secondFactor,
		Collector:      collector,
		Mailer:         mailer,
		Audit:          audit,
		Logger:         logger,
		VerifyPassword: cryptox.VerifyPassword,
	}
}

// Login runs the full credential check. The order of the gates is part of
// the contract:
//
//  1. A locked account rejects before the rate limiter and before any
//     password comparison, and re-notifies the admin on every attempt.
//  2. The rate limiter counts the attempt per identity hash.
//  3. A wrong password locks the account and notifies the admin.
//  4. A machine that matches no trusted fingerprint locks the account and
//     notifies the admin.
//  5. With the second factor enabled the session token is stashed behind a
//     challenge and only the challenge id goes back to the caller.
func (s *GuardService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if err := domain.ValidateEmail(email); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	identity := cryptox.IdentityHash(email)

	account, err := s.Store.Accounts().GetAccountByNameHash(ctx, identity)
	if err != nil {
		// Unknown identities still consume a rate slot so enumeration
		// costs the same as guessing
		if rlErr := s.Limiter.Allow(ctx, RatePurposeLogin, identity); rlErr != nil {
			return LoginResult{}, rlErr
		}
		return LoginResult{}, ErrInvalidCredentials
	}

	if account.AccountLocked {
		s.notifyLocked(ctx, account)
		return LoginResult{}, ErrAccountLocked
	}

	if err := s.Limiter.Allow(ctx, RatePurposeLogin, identity); err != nil {
		return LoginResult{}, err
	}

	if err := s.VerifyPassword(account.PasswordHash, password); err != nil {
		s.lockAndNotify(ctx, account, "wrong password")
		return LoginResult{}, ErrInvalidCredentials
	}

	current := s.Collector.Collect(ctx)
	history, err := s.Store.Fingerprints().ListFingerprints(ctx)
	if err != nil {
		s.Logger.Error("fingerprint history read failed", "error", err)
		return LoginResult{}, ErrInvalidCredentials
	}
	if !fingerprintTrusted(history, current) {
		s.lockAndNotify(ctx, account, "fingerprint mismatch")
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.Sessions.Create(ctx, account.ID, account.Email)
	if err != nil {
		return LoginResult{}, err
	}

	if account.TwoFactorEnabled {
		challengeID, err := s.SecondFactor.Begin(ctx, identity, account.Email, token)
		if err != nil {
			return LoginResult{}, err
		}
		return LoginResult{MFARequired: true, ChallengeID: challengeID}, nil
	}

	if err := s.Limiter.Clear(ctx, RatePurposeLogin, identity); err != nil {
		s.Logger.Warn("rate counter clear failed", "error", err)
	}
	s.Audit.Record(ctx, identity, domain.AuditLogin, "")

	return LoginResult{Token: token}, nil
}

// CompleteMFA redeems the emailed code and releases the stashed session
// token. The login counter clears only here, once the second factor passes.
func (s *GuardService) CompleteMFA(ctx context.Context, challengeID, code string) (string, error) {
	identity, token, err := s.SecondFactor.Verify(ctx, challengeID, code)
	if err != nil {
		return "", err
	}
	if token == "" {
		// Challenge was standalone code delivery, not a login
		return "", ErrChallengeInvalid
	}

	if err := s.Limiter.Clear(ctx, RatePurposeLogin, identity); err != nil {
		s.Logger.Warn("rate counter clear failed", "error", err)
	}
	s.Audit.Record(ctx, identity, domain.AuditLogin, "second factor verified")

	return token, nil
}

// Lock flips the lock flag and records the event. Used by the login gates
// and by admin tooling.
func (s *GuardService) Lock(ctx context.Context, account domain.Account, reason string) error {
	if err := s.Store.Accounts().SetLocked(ctx, account.ID, true); err != nil {
		return err
	}
	s.Audit.Record(ctx, account.NameHash, domain.AuditAccountLocked, reason)
	return nil
}

func (s *GuardService) lockAndNotify(ctx context.Context, account domain.Account, reason string) {
	if err := s.Lock(ctx, account, reason); err != nil {
		s.Logger.Error("account lock failed", "error", err)
		return
	}
	s.notifyLocked(ctx, account)
}

// notifyLocked mails the admin that the account is locked. Best-effort and
// time-bounded; delivery failure never changes the reject decision.
func (s *GuardService) notifyLocked(ctx context.Context, account domain.Account) {
	mailCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	err := s.Mailer.Send(mailCtx, account.Email,
		"Admin Account Locked",
		"<p>Your admin account has been locked after a failed login attempt. "+
			"Use the account unlock flow to restore access.</p>")
	if err != nil {
		s.Logger.Error("lock notification failed", "error", err)
	}
}

// fingerprintTrusted reports whether the current machine matches any record
// in the trusted history.
func fingerprintTrusted(history []domain.TrustedFingerprint, current sysinfo.Fingerprint) bool {
	fps := make([]sysinfo.Fingerprint, len(history))
	for i, h := range history {
		fps[i] = h.Fingerprint
	}
	return sysinfo.Matches(fps, current)
}
