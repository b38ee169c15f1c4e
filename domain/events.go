package domain

import "time"

// AuditEvent names an OTP lifecycle event or a registration status change.
type AuditEvent string

const (
	// OTP lifecycle
	AuditOtpIssued       AuditEvent = "issued"
	AuditOtpResend       AuditEvent = "resend"
	AuditOtpVerified     AuditEvent = "verified"
	AuditOtpFailed       AuditEvent = "failed"
	AuditOtpExpired      AuditEvent = "expired"
	AuditOtpRateLimited  AuditEvent = "rate_limited"
	AuditOtpSendFailed   AuditEvent = "send_failed"
	AuditOtpResendFailed AuditEvent = "resend_failed"

	// Registration review
	AuditRegVerified AuditEvent = "registration_verified"
	AuditRegApproved AuditEvent = "registration_approved"
	AuditRegRejected AuditEvent = "registration_rejected"
	AuditRegHidden   AuditEvent = "registration_hidden"
	AuditRegUnhidden AuditEvent = "registration_unhidden"
)

// AuditEntry is one append-only audit record. Entries are never mutated or
// deleted, and writes are best-effort: a failed write must not fail the
// operation that produced it.
type AuditEntry struct {
	IdentityID string
	Phone      string
	Role       string
	Event      AuditEvent
	AtUtc      time.Time
	IP         string
	UserAgent  string
	Success    bool
	CodeMasked string
}

// ClientContext carries request metadata captured into audit entries.
type ClientContext struct {
	IP        string
	UserAgent string
}
