package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bastionlabs/adminauth/internal/adminauth/domain"
	"github.com/bastionlabs/adminauth/pkg/mailx"
	"github.com/bastionlabs/adminauth/pkg/tokenx"
)

// ConfirmMaxAge is the lifetime of an email confirmation token.
const ConfirmMaxAge = 5 * time.Minute

// ConfirmService handles email address confirmation tokens.
type ConfirmService struct {
	Codec   *tokenx.Codec
	Mailer  mailx.Sender
	Logger  *slog.Logger
	BaseURL string
}

func NewConfirmService(codec *tokenx.Codec, mailer mailx.Sender, logger *slog.Logger, baseURL string) *ConfirmService {
	return &ConfirmService{
		Codec:   codec,
		Mailer:  mailer,
		Logger:  logger,
		BaseURL: baseURL,
	}
}

// SendConfirmation mails a confirmation link for the address.
func (s *ConfirmService) SendConfirmation(ctx context.Context, email string) error {
	if err := domain.ValidateEmail(email); err != nil {
		return err
	}

	token := s.Codec.Issue(email)
	err := s.Mailer.Send(ctx, email,
		"Confirm Your Email",
		fmt.Sprintf("<p>Follow <a href=%q>this link</a> to confirm your email address. The link expires in 5 minutes.</p>",
			s.BaseURL+"/v1/confirm/"+token))
	if err != nil {
		s.Logger.Error("confirmation link delivery failed", "error", err)
		return fmt.Errorf("send confirmation link: %w", err)
	}
	return nil
}

// Confirm validates a confirmation token and returns the confirmed address.
func (s *ConfirmService) Confirm(ctx context.Context, token string) (string, error) {
	return s.Codec.Verify(token, ConfirmMaxAge)
}
