package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bastionlabs/adminauth/internal/adminauth/cache"
	"github.com/bastionlabs/adminauth/internal/adminauth/domain"
	"github.com/bastionlabs/adminauth/pkg/cryptox"
	"github.com/bastionlabs/adminauth/pkg/idx"
	"github.com/bastionlabs/adminauth/pkg/mailx"
)

// ErrChallengeInvalid is returned for an unknown or expired challenge id, or
// a code that does not match. Callers get the same answer in every case.
var ErrChallengeInvalid = errors.New("service: challenge invalid or expired")

const (
	// ChallengeTTL bounds how long an emailed code stays redeemable.
	ChallengeTTL = 5 * time.Minute

	// challengeMaxAttempts caps wrong-code guesses before the challenge is
	// burned.
	challengeMaxAttempts = 3

	challengeKeyPrefix = "2fa:challenge:"
)

// SecondFactorService implements the email code challenge. The code is
// generated server-side, mailed to the admin, and never leaves the service
// in any response. Callers hold only an opaque challenge id.
type SecondFactorService struct {
	Cache  *cache.Cache
	Mailer mailx.Sender
	Audit  *AuditService
	Logger *slog.Logger
}

func NewSecondFactorService(c *cache.Cache, mailer mailx.Sender, audit *AuditService, logger *slog.Logger) *SecondFactorService {
	return &SecondFactorService{
		Cache:  c,
		Mailer: mailer,
		Audit:  audit,
		Logger: logger,
	}
}

type challengeRecord struct {
	NameHash string `json:"name_hash"`
	Code     string `json:"code"`
	// SessionToken is the token stashed by login, released on Verify.
	SessionToken string `json:"session_token,omitempty"`
	Attempts     int    `json:"attempts"`
}

// Begin generates a code, mails it, and stores the challenge. sessionToken
// may be empty for standalone code delivery. Returns the challenge id.
func (s *SecondFactorService) Begin(ctx context.Context, nameHash, email, sessionToken string) (string, error) {
	code, err := cryptox.GenerateNumericCode(cryptox.NumericCodeLength)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	if err := s.Mailer.Send(ctx, email,
		"Admin 2FA Code",
		fmt.Sprintf("<p>Your verification code is <b>%s</b>. It expires in 5 minutes.</p>", code),
	); err != nil {
		s.Audit.Record(ctx, nameHash, domain.AuditCodeSendFailed, "")
		s.Logger.Error("2fa code delivery failed", "error", err)
		return "", fmt.Errorf("send code: %w", err)
	}

	challengeID := idx.New().String()
	rec := challengeRecord{
		NameHash:     nameHash,
		Code:         code,
		SessionToken: sessionToken,
	}
	if err := s.Cache.SetJSON(ctx, challengeKeyPrefix+challengeID, rec, ChallengeTTL); err != nil {
		return "", fmt.Errorf("store challenge: %w", err)
	}

	s.Audit.Record(ctx, nameHash, domain.AuditCodeSent, "")
	return challengeID, nil
}

// Verify redeems a challenge. A matching code burns the challenge and
// releases any stashed session token along with the identity it belongs to.
// Wrong codes are counted; the challenge is burned after too many guesses.
func (s *SecondFactorService) Verify(ctx context.Context, challengeID, code string) (nameHash, sessionToken string, err error) {
	key := challengeKeyPrefix + challengeID

	var rec challengeRecord
	if err := s.Cache.GetJSON(ctx, key, &rec); err != nil {
		return "", "", ErrChallengeInvalid
	}

	if code != rec.Code {
		rec.Attempts++
		if rec.Attempts >= challengeMaxAttempts {
			_ = s.Cache.Delete(ctx, key)
		} else {
			// Keep the remaining window; do not extend it
			ttl, ttlErr := s.Cache.TTL(ctx, key)
			if ttlErr != nil || ttl <= 0 {
				ttl = time.Second
			}
			_ = s.Cache.SetJSON(ctx, key, rec, ttl)
		}
		return "", "", ErrChallengeInvalid
	}

	// Single use
	if err := s.Cache.Delete(ctx, key); err != nil {
		return "", "", err
	}

	return rec.NameHash, rec.SessionToken, nil
}
