package domain

import (
	"fmt"
	"time"
)

// RegistrationStatus is the closed set of review states.
type RegistrationStatus string

const (
	StatusPending     RegistrationStatus = "Pending"
	StatusUnderReview RegistrationStatus = "Under Review"
	StatusApproved    RegistrationStatus = "Approved"
	StatusRejected    RegistrationStatus = "Rejected"
	StatusHidden      RegistrationStatus = "Hidden"
)

// Valid reports whether s is one of the known statuses.
func (s RegistrationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusApproved, StatusRejected, StatusHidden:
		return true
	}
	return false
}

// VehicleType distinguishes the two registration kinds.
type VehicleType string

const (
	VehicleTruck VehicleType = "truck"
	VehicleTank  VehicleType = "tank"
)

// Actor identifies who is driving a review action.
type Actor struct {
	IdentityID string
	Name       string
	Role       Role
}

// ApprovalAudit records who approved a registration and when.
type ApprovalAudit struct {
	Comment string
	ByID    string
	ByName  string
	ByRole  Role
	At      time.Time
}

// RejectionAudit records who rejected a registration and why.
type RejectionAudit struct {
	Reason string
	ByID   string
	ByName string
	ByRole Role
	At     time.Time
}

// VehicleRegistration is a truck or tanker registration moving through the
// review pipeline. UniqueToken is the public lookup key assigned once at
// creation; approval replaces it with the next REF token in sequence.
type VehicleRegistration struct {
	ID             uint
	VehicleType    VehicleType
	OwnerPhone     string
	OwnerName      string
	DriverPhone    string
	DriverName     string
	VehicleNumber  string
	Documents      map[string]string
	Status         RegistrationStatus
	SubmittedAt    time.Time
	ClientIP       string
	Approval       *ApprovalAudit
	Rejection      *RejectionAudit
	PreviousStatus RegistrationStatus
	UniqueToken    string
}

// RefToken formats the n-th reference token, e.g. RefToken(1) == "REF000001".
func RefToken(n int64) string {
	return fmt.Sprintf("REF%06d", n)
}

// verifyRoles, approveRoles, rejectRoles gate the review actions.
var (
	verifyRoles = map[Role]bool{RoleDocumentVerifier: true}
	approveRoles = map[Role]bool{
		RoleAdmin: true, RoleSuperAdmin: true, RoleFinalApprover: true,
	}
	rejectRoles = map[Role]bool{
		RoleAdmin: true, RoleSuperAdmin: true,
		RoleFinalApprover: true, RoleDocumentVerifier: true,
	}
)

// ApplyVerify moves a Pending registration to Under Review. Re-applying to a
// record already under review (or approved) is a successful no-op.
func (v *VehicleRegistration) ApplyVerify(actor Actor) (changed bool, err error) {
	if !verifyRoles[actor.Role] {
		return false, ErrInvalidTransition
	}
	if v.Status == StatusHidden {
		return false, ErrRecordHidden
	}
	if v.Status == StatusApproved || v.Status == StatusUnderReview {
		return false, nil
	}
	v.Status = StatusUnderReview
	return true, nil
}

// ApplyApprove approves a registration and stamps the approval audit.
// FinalApprover may not approve a Pending record; it must be verified first.
// Approving an already-approved record is a successful no-op and the
// existing reference token is kept.
func (v *VehicleRegistration) ApplyApprove(actor Actor, comment, refToken string, now time.Time) (changed bool, err error) {
	if !approveRoles[actor.Role] {
		return false, ErrInvalidTransition
	}
	if v.Status == StatusHidden {
		return false, ErrRecordHidden
	}
	if actor.Role == RoleFinalApprover && v.Status == StatusPending {
		return false, ErrInvalidTransition
	}
	if v.Status == StatusApproved {
		return false, nil
	}
	v.Status = StatusApproved
	v.UniqueToken = refToken
	v.Approval = &ApprovalAudit{
		Comment: comment,
		ByID:    actor.IdentityID,
		ByName:  actor.Name,
		ByRole:  actor.Role,
		At:      now,
	}
	return true, nil
}

// ApplyReject rejects a registration with a mandatory reason.
func (v *VehicleRegistration) ApplyReject(actor Actor, reason string, now time.Time) (changed bool, err error) {
	if !rejectRoles[actor.Role] {
		return false, ErrInvalidTransition
	}
	if v.Status == StatusHidden {
		return false, ErrRecordHidden
	}
	if reason == "" {
		return false, ErrReasonRequired
	}
	v.Status = StatusRejected
	v.Rejection = &RejectionAudit{
		Reason: reason,
		ByID:   actor.IdentityID,
		ByName: actor.Name,
		ByRole: actor.Role,
		At:     now,
	}
	return true, nil
}

// ApplyHide hides a registration, remembering its status for restore.
// Hiding an already-hidden record is a successful no-op.
func (v *VehicleRegistration) ApplyHide(actor Actor) (changed bool, err error) {
	if actor.Role != RoleSuperAdmin {
		return false, ErrInvalidTransition
	}
	if v.Status == StatusHidden {
		return false, nil
	}
	v.PreviousStatus = v.Status
	v.Status = StatusHidden
	return true, nil
}

// ApplyUnhide restores a hidden registration to its pre-hide status, or
// Pending when none was recorded. Unhiding a visible record is a no-op.
func (v *VehicleRegistration) ApplyUnhide(actor Actor) (changed bool, err error) {
	if actor.Role != RoleSuperAdmin {
		return false, ErrInvalidTransition
	}
	if v.Status != StatusHidden {
		return false, nil
	}
	if v.PreviousStatus == "" {
		v.Status = StatusPending
	} else {
		v.Status = v.PreviousStatus
	}
	v.PreviousStatus = ""
	return true, nil
}

// VisibleTo reports whether the registration may be read by the given actor.
// Hidden records are visible to SuperAdmin only. VehicleOwner-role actors see
// only registrations whose owner phone matches one of their phone variants.
func (v *VehicleRegistration) VisibleTo(role Role, actorPhone string) bool {
	if v.Status == StatusHidden && role != RoleSuperAdmin {
		return false
	}
	if role == RoleVehicleOwner {
		for _, variant := range PhoneVariants(actorPhone) {
			if variant != "" && samePhone(v.OwnerPhone, variant) {
				return true
			}
		}
		return false
	}
	return true
}

func samePhone(stored, candidate string) bool {
	if stored == candidate {
		return true
	}
	for _, sv := range PhoneVariants(stored) {
		if sv != "" && sv == candidate {
			return true
		}
	}
	return false
}
