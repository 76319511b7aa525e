package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bastionlabs/adminauth/internal/adminauth/cache"
	"github.com/bastionlabs/adminauth/pkg/idx"
)

// ErrSessionInvalid covers every verification failure: bad signature, expired
// claims, or a session record that no longer exists server-side.
var ErrSessionInvalid = errors.New("service: session invalid or expired")

// SessionTTL bounds both the JWT exp claim and the server-side record. The
// server-side record slides on each verified request; the JWT does not.
const SessionTTL = 15 * time.Minute

const sessionKeyPrefix = "session:"

// SessionClaims is the JWT payload for an authenticated admin session.
type SessionClaims struct {
	Email string `json:"email"`
	SID   string `json:"sid"`
	jwt.RegisteredClaims
}

// SessionService mints and verifies admin session tokens. A session is a
// HS256 JWT plus a server-side Redis record, so tokens can be revoked before
// their exp claim by deleting the record.
type SessionService struct {
	Cache  *cache.Cache
	secret []byte
	now    func() time.Time
}

func NewSessionService(c *cache.Cache, secret string) *SessionService {
	return &SessionService{
		Cache:  c,
		secret: []byte(secret),
		now:    time.Now,
	}
}

type sessionRecord struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
}

// Create mints a session token for the account.
func (s *SessionService) Create(ctx context.Context, accountID, email string) (string, error) {
	sid := idx.New().String()
	now := s.now()

	claims := SessionClaims{
		Email: email,
		SID:   sid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	rec := sessionRecord{AccountID: accountID, Email: email}
	if err := s.Cache.SetJSON(ctx, sessionKeyPrefix+sid, rec, SessionTTL); err != nil {
		return "", fmt.Errorf("store session record: %w", err)
	}

	return token, nil
}

// Verify checks the token signature and claims, confirms the server-side
// record still exists, and slides the record's expiry. It returns the
// account id and email bound to the session.
func (s *SessionService) Verify(ctx context.Context, token string) (accountID, email string, err error) {
	var claims SessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid || claims.SID == "" {
		return "", "", ErrSessionInvalid
	}

	var rec sessionRecord
	if err := s.Cache.GetJSON(ctx, sessionKeyPrefix+claims.SID, &rec); err != nil {
		return "", "", ErrSessionInvalid
	}

	// Sliding expiry: activity keeps the server-side record alive
	_ = s.Cache.Expire(ctx, sessionKeyPrefix+claims.SID, SessionTTL)

	return rec.AccountID, rec.Email, nil
}

// Destroy revokes the session server-side. The JWT keeps its signature but
// will no longer verify.
func (s *SessionService) Destroy(ctx context.Context, token string) error {
	var claims SessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || claims.SID == "" {
		return ErrSessionInvalid
	}
	return s.Cache.Delete(ctx, sessionKeyPrefix+claims.SID)
}
