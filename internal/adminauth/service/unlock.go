package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bastionlabs/adminauth/internal/adminauth/domain"
	"github.com/bastionlabs/adminauth/internal/adminauth/rate"
	"github.com/bastionlabs/adminauth/internal/adminauth/store"
	"github.com/bastionlabs/adminauth/pkg/cryptox"
	"github.com/bastionlabs/adminauth/pkg/mailx"
	"github.com/bastionlabs/adminauth/pkg/tokenx"
)

// RatePurposeUnlock keys the unlock attempt counter.
const RatePurposeUnlock = "unlock"

// UnlockMaxAge is the lifetime of an unlock token.
const UnlockMaxAge = 5 * time.Minute

// UnlockService restores access to a locked account via an emailed token.
type UnlockService struct {
	Store   store.Store
	Limiter *rate.Limiter
	Codec   *tokenx.Codec
	Mailer  mailx.Sender
	Audit   *AuditService
	Logger  *slog.Logger
	BaseURL string
}

func NewUnlockService(st store.Store, limiter *rate.Limiter, codec *tokenx.Codec, mailer mailx.Sender, audit *AuditService, logger *slog.Logger, baseURL string) *UnlockService {
	return &UnlockService{
		Store:   st,
		Limiter: limiter,
		Codec:   codec,
		Mailer:  mailer,
		Audit:   audit,
		Logger:  logger,
		BaseURL: baseURL,
	}
}

// Request mails an unlock link. Indistinguishable outcomes for unknown
// addresses and accounts that are not locked.
func (s *UnlockService) Request(ctx context.Context, email string) error {
	if err := domain.ValidateEmail(email); err != nil {
		return err
	}

	identity := cryptox.IdentityHash(email)
	if err := s.Limiter.Allow(ctx, RatePurposeUnlock, identity); err != nil {
		return err
	}

	account, err := s.Store.Accounts().GetAccountByNameHash(ctx, identity)
	if err != nil || !account.AccountLocked {
		return nil
	}

	token := s.Codec.Issue(email)
	err = s.Mailer.Send(ctx, email,
		"Admin Account Unlock",
		fmt.Sprintf("<p>Follow <a href=%q>this link</a> to unlock your admin account. The link expires in 5 minutes.</p>",
			s.BaseURL+"/v1/unlock/"+token))
	if err != nil {
		s.Logger.Error("unlock link delivery failed", "error", err)
		return fmt.Errorf("send unlock link: %w", err)
	}
	return nil
}

// Confirm validates the emailed token when the unlock page opens.
func (s *UnlockService) Confirm(ctx context.Context, token string) (string, error) {
	return s.Codec.Verify(token, UnlockMaxAge)
}

// Unlock verifies the token and clears the lock flag. The login counter is
// cleared too so the admin is not immediately rate limited on their next
// attempt.
func (s *UnlockService) Unlock(ctx context.Context, token string) error {
	email, err := s.Codec.Verify(token, UnlockMaxAge)
	if err != nil {
		return err
	}

	identity := cryptox.IdentityHash(email)

	account, err := s.Store.Accounts().GetAccountByNameHash(ctx, identity)
	if err != nil {
		s.Audit.Record(ctx, identity, domain.AuditUnlockFailed, "unknown account")
		return tokenx.ErrInvalidToken
	}

	if err := s.Store.Accounts().SetLocked(ctx, account.ID, false); err != nil {
		s.Audit.Record(ctx, identity, domain.AuditUnlockFailed, "store update failed")
		return err
	}

	for _, purpose := range []string{RatePurposeLogin, RatePurposeUnlock} {
		if err := s.Limiter.Clear(ctx, purpose, identity); err != nil {
			s.Logger.Warn("rate counter clear failed", "purpose", purpose, "error", err)
		}
	}
	s.Audit.Record(ctx, identity, domain.AuditUnlockOK, "")
	return nil
}
