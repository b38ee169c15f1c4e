package domain

import (
	"context"
	"time"
)

// AccountRepository defines identity and profile data access operations.
type AccountRepository interface {
	// FindIdentityByPhone matches any of the given phone representations
	// against the profile store, falling back to the identity phone field.
	FindIdentityByPhone(ctx context.Context, variants []string) (*Identity, error)
	FindIdentityByID(ctx context.Context, id string) (*Identity, error)
	// FindIdentityByQIDAndPhone matches a profile on both the national-id
	// code and the stored 11-digit phone form.
	FindIdentityByQIDAndPhone(ctx context.Context, qid, phone string) (*Identity, error)
	FindProfileByIdentityID(ctx context.Context, identityID string) (*Profile, error)
	// CreateAccount persists an identity together with its profile and role
	// binding atomically.
	CreateAccount(ctx context.Context, identity *Identity, profile *Profile) error
	PhoneExists(ctx context.Context, phone string) (bool, error)
	QIDExists(ctx context.Context, qid string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// RegistrationRepository defines vehicle registration data access operations.
type RegistrationRepository interface {
	Create(ctx context.Context, v *VehicleRegistration) error
	FindByID(ctx context.Context, id uint) (*VehicleRegistration, error)
	FindByToken(ctx context.Context, token string) (*VehicleRegistration, error)
	List(ctx context.Context) ([]*VehicleRegistration, error)
	Save(ctx context.Context, v *VehicleRegistration) error
	TokenExists(ctx context.Context, token string) (bool, error)
	// AllocateRefToken atomically reserves the next REF token in sequence.
	// Numbers are never reused, even across approve/reject/approve cycles.
	AllocateRefToken(ctx context.Context) (string, error)
}

// ChallengeStore holds at most one OTP challenge per session token.
type ChallengeStore interface {
	Save(ctx context.Context, sessionID string, ch *OtpChallenge) error
	Find(ctx context.Context, sessionID string) (*OtpChallenge, error)
	Delete(ctx context.Context, sessionID string) error
}

// RateLimitStore persists per-session issuance counters.
type RateLimitStore interface {
	Counters(ctx context.Context, sessionID string) (issued int, last time.Time, err error)
	NoteIssued(ctx context.Context, sessionID string, at time.Time) error
}

// SessionRepository defines signed-in session data access operations.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}

// VerificationProvider is the boundary to the external SMS/OTP service.
// The provider owns the code; it is never stored or returned by callers.
type VerificationProvider interface {
	Send(ctx context.Context, phoneE164 string) error
	Check(ctx context.Context, phoneE164, code string) (bool, error)
}

// AuditSink appends audit entries. Implementations swallow their own
// failures; Append never propagates an error to the caller.
type AuditSink interface {
	Append(ctx context.Context, entry *AuditEntry)
}

// TokenService defines sign-in token operations.
type TokenService interface {
	GenerateAccessToken(identityID string, role Role, sessionID string) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
}

// PasswordService defines password hash operations for provisioned accounts.
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenClaims represents JWT token claims.
type TokenClaims struct {
	IdentityID string `json:"identity_id"`
	Role       Role   `json:"role"`
	SessionID  string `json:"session_id,omitempty"`
	IssuedAt   int64  `json:"iat"`
	ExpiresAt  int64  `json:"exp"`
}
