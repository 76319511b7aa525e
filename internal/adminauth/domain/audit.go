package domain

import "time"

// Audit action names. These are stable strings; alerting rules match on them.
const (
	AuditLogin               = "Login"
	AuditCodeSent            = "2FA Code Sent"
	AuditCodeSendFailed      = "2FA Code Sending Failed"
	AuditPasswordResetOK     = "Password reset successfully"
	AuditPasswordResetFailed = "Password reset failed"
	AuditUnlockOK            = "Account unlock successful"
	AuditUnlockFailed        = "Account unlock failed"
	AuditAccountLocked       = "Account locked"
)

// AuditEvent is one row in the security audit trail.
type AuditEvent struct {
	ID        string
	NameHash  string
	Action    string
	Detail    string
	CreatedAt time.Time
}
