// Package tokenx issues and verifies salted, signed, time-boxed opaque
// tokens carrying a single payload string. Each codec is bound to one
// purpose via its own secret and salt, so a token minted for one purpose
// can never verify under another.
package tokenx

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"strings"
	"time"
)

// ErrInvalidToken covers every verification failure: bad structure, bad
// signature, wrong purpose, or expiry. Callers get no partial information
// about which check failed.
var ErrInvalidToken = errors.New("tokenx: invalid or expired token")

// Codec signs payloads for exactly one purpose. Configure one codec per
// purpose (confirmation, reset, unlock) with independent secrets so a
// leaked secret cannot forge tokens for the others.
type Codec struct {
	secret []byte
	salt   string

	// now is overridable in tests.
	now func() time.Time
}

// New returns a codec bound to the given secret and purpose salt.
func New(secret, salt string) *Codec {
	return &Codec{
		secret: []byte(secret),
		salt:   salt,
		now:    time.Now,
	}
}

// Issue signs the payload together with the purpose salt and the current
// timestamp. The returned token is URL-safe.
func (c *Codec) Issue(payload string) string {
	return c.issueAt(payload, c.now())
}

func (c *Codec) issueAt(payload string, at time.Time) string {
	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(at.Unix()))

	var b strings.Builder
	b.WriteString(base64.RawURLEncoding.EncodeToString([]byte(payload)))
	b.WriteByte('.')
	b.WriteString(base64.RawURLEncoding.EncodeToString(ts))
	b.WriteByte('.')
	b.WriteString(base64.RawURLEncoding.EncodeToString(c.sign(payload, ts)))
	return b.String()
}

// Verify checks the signature, the purpose binding, and the token age.
// A token is valid while now - issued_at <= maxAge; one second past that
// it is rejected. On any failure the payload is not returned.
func (c *Codec) Verify(token string, maxAge time.Duration) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", ErrInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", ErrInvalidToken
	}
	ts, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil || len(ts) != 8 {
		return "", ErrInvalidToken
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return "", ErrInvalidToken
	}

	if !hmac.Equal(sig, c.sign(string(payload), ts)) {
		return "", ErrInvalidToken
	}

	issued := time.Unix(int64(binary.BigEndian.Uint64(ts)), 0)
	age := c.now().Sub(issued)
	if age < 0 || age > maxAge {
		return "", ErrInvalidToken
	}

	return string(payload), nil
}

func (c *Codec) sign(payload string, ts []byte) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(c.salt))
	mac.Write([]byte{0})
	mac.Write([]byte(payload))
	mac.Write([]byte{0})
	mac.Write(ts)
	return mac.Sum(nil)
}
