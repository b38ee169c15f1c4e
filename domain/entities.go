package domain

import "time"

// Role is the closed set of account roles recognized by the system.
type Role string

const (
	RoleSuperAdmin       Role = "SuperAdmin"
	RoleAdmin            Role = "Admin"
	RoleFinalApprover    Role = "FinalApprover"
	RoleDocumentVerifier Role = "DocumentVerifier"
	RoleMinistryOfficer  Role = "MinistryOfficer"
	RoleOwner            Role = "Owner"
	RoleVehicleOwner     Role = "VehicleOwner"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleFinalApprover, RoleDocumentVerifier,
		RoleMinistryOfficer, RoleOwner, RoleVehicleOwner:
		return true
	}
	return false
}

// Identity represents an account in the system. Identities are never
// deleted; IsActive is flipped off instead.
type Identity struct {
	ID           string
	Phone        string
	PasswordHash string
	Roles        []Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole reports whether the identity carries the given role.
func (i *Identity) HasRole(role Role) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Profile holds the denormalized attributes linked 1:1 to an Identity.
// Phone, Email and QID are unique when non-empty.
type Profile struct {
	ID         uint
	IdentityID string
	Name       string
	Email      string
	Phone      string
	QID        string
	RoleID     string
	Username   string
	IsActive   bool
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedBy  string
	UpdatedAt  time.Time
}

// OtpFlow tags which login/signup flow a challenge belongs to.
type OtpFlow string

const (
	FlowOwnerLogin         OtpFlow = "OwnerLogin"
	FlowMinistryLogin      OtpFlow = "MinistryLogin"
	FlowVehicleOwnerSignup OtpFlow = "VehicleOwnerSignup"
	FlowVehicleOwnerLogin  OtpFlow = "VehicleOwnerLogin"
)

// RequiredRole returns the role an identity must hold to pass the flow.
// Signup has no pre-existing identity; the role is assigned at creation.
func (f OtpFlow) RequiredRole() Role {
	switch f {
	case FlowOwnerLogin:
		return RoleOwner
	case FlowMinistryLogin:
		return RoleMinistryOfficer
	default:
		return RoleVehicleOwner
	}
}

// OtpChallenge is the ephemeral per-session record of an outstanding OTP.
// At most one challenge exists per session; a resend overwrites it.
type OtpChallenge struct {
	TargetIdentityID string    `json:"target_identity_id"`
	Flow             OtpFlow   `json:"flow"`
	Phone            string    `json:"phone"`
	IssuedAt         time.Time `json:"issued_at"`
	ExpiresAt        time.Time `json:"expires_at"`

	// Signup-only fields carried until the account is created.
	SignupName string `json:"signup_name,omitempty"`
	SignupQID  string `json:"signup_qid,omitempty"`
}

// Expired reports whether the challenge is past its TTL at the given time.
func (c *OtpChallenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Session represents a signed-in session.
type Session struct {
	ID         string    `json:"id"`
	IdentityID string    `json:"identity_id"`
	Role       Role      `json:"role"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// AuthResult represents a successful sign-in.
type AuthResult struct {
	Identity    *Identity
	AccessToken string
	SessionID   string
	ExpiresIn   int64
}
