package domain

import (
	"time"

	"github.com/bastionlabs/adminauth/pkg/sysinfo"
)

// TrustedFingerprint is one historical machine identity. Login succeeds when
// the current machine matches ANY record in the history, not just the latest.
type TrustedFingerprint struct {
	ID          string
	Fingerprint sysinfo.Fingerprint
	CreatedAt   time.Time
}
