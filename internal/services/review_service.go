package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/Veerendratanneru7/transport/domain"
)

// tokenAlphabet excludes look-alike characters so tokens survive being read
// over the phone.
const (
	tokenAlphabet = "abcdefghjklmnpqrstuvwxyz23456789"
	tokenLength   = 12
	tokenRetries  = 5
)

// IntakeRequest is a new registration submission.
type IntakeRequest struct {
	VehicleType   domain.VehicleType
	OwnerPhone    string
	OwnerName     string
	DriverPhone   string
	DriverName    string
	VehicleNumber string
	Documents     map[string]string
	ClientIP      string
}

// ReviewServiceImpl owns the registration lifecycle: intake, the review
// transitions, and visibility-filtered reads.
type ReviewServiceImpl struct {
	registrations domain.RegistrationRepository
	audit         domain.AuditSink
	now           func() time.Time
}

// NewReviewService creates a new review service
func NewReviewService(registrations domain.RegistrationRepository, audit domain.AuditSink) *ReviewServiceImpl {
	return &ReviewServiceImpl{
		registrations: registrations,
		audit:         audit,
		now:           time.Now,
	}
}

// Create files a new Pending registration with a fresh public lookup token.
func (s *ReviewServiceImpl) Create(ctx context.Context, req IntakeRequest) (*domain.VehicleRegistration, error) {
	ownerPhone, err := domain.NormalizePhone(req.OwnerPhone)
	if err != nil {
		return nil, err
	}
	driverPhone := ""
	if req.DriverPhone != "" {
		p, err := domain.NormalizePhone(req.DriverPhone)
		if err != nil {
			return nil, err
		}
		driverPhone = p.Local11()
	}

	token, err := s.newPublicToken(ctx)
	if err != nil {
		return nil, err
	}

	reg := &domain.VehicleRegistration{
		VehicleType:   req.VehicleType,
		OwnerPhone:    ownerPhone.Local11(),
		OwnerName:     req.OwnerName,
		DriverPhone:   driverPhone,
		DriverName:    req.DriverName,
		VehicleNumber: req.VehicleNumber,
		Documents:     req.Documents,
		Status:        domain.StatusPending,
		SubmittedAt:   s.now().UTC(),
		ClientIP:      req.ClientIP,
		UniqueToken:   token,
	}
	if err := s.registrations.Create(ctx, reg); err != nil {
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}
	return reg, nil
}

// List returns every registration the actor may see, newest first.
func (s *ReviewServiceImpl) List(ctx context.Context, role domain.Role, actorPhone string) ([]*domain.VehicleRegistration, error) {
	all, err := s.registrations.List(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]*domain.VehicleRegistration, 0, len(all))
	for _, reg := range all {
		if reg.VisibleTo(role, actorPhone) {
			visible = append(visible, reg)
		}
	}
	return visible, nil
}

// FindByToken looks a registration up by its public token. Hidden records
// stay invisible to everyone but SuperAdmin.
func (s *ReviewServiceImpl) FindByToken(ctx context.Context, token string, role domain.Role) (*domain.VehicleRegistration, error) {
	reg, err := s.registrations.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if reg.Status == domain.StatusHidden && role != domain.RoleSuperAdmin {
		return nil, domain.ErrRegistrationNotFound
	}
	return reg, nil
}

// Verify moves a Pending registration to Under Review.
func (s *ReviewServiceImpl) Verify(ctx context.Context, id uint, actor domain.Actor, client domain.ClientContext) (*domain.VehicleRegistration, bool, error) {
	reg, err := s.registrations.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	changed, err := reg.ApplyVerify(actor)
	if err != nil {
		return nil, false, err
	}
	if changed {
		if err := s.registrations.Save(ctx, reg); err != nil {
			return nil, false, err
		}
		s.auditAction(ctx, actor, domain.AuditRegVerified, client)
	}
	return reg, changed, nil
}

// Approve approves a registration, assigning the next REF token in sequence.
// Re-approving an approved record changes nothing and consumes no number.
func (s *ReviewServiceImpl) Approve(ctx context.Context, id uint, actor domain.Actor, comment string, client domain.ClientContext) (*domain.VehicleRegistration, bool, error) {
	reg, err := s.registrations.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	// Dry-run the transition on a copy so a rejected or no-op approve never
	// consumes a sequence number.
	probe := *reg
	changed, err := probe.ApplyApprove(actor, comment, "", s.now().UTC())
	if err != nil {
		return nil, false, err
	}
	if !changed {
		return reg, false, nil
	}

	refToken, err := s.registrations.AllocateRefToken(ctx)
	if err != nil {
		return nil, false, err
	}
	if _, err := reg.ApplyApprove(actor, comment, refToken, s.now().UTC()); err != nil {
		return nil, false, err
	}
	if err := s.registrations.Save(ctx, reg); err != nil {
		return nil, false, err
	}
	s.auditAction(ctx, actor, domain.AuditRegApproved, client)
	return reg, true, nil
}

// Reject rejects a registration; the reason is mandatory.
func (s *ReviewServiceImpl) Reject(ctx context.Context, id uint, actor domain.Actor, reason string, client domain.ClientContext) (*domain.VehicleRegistration, bool, error) {
	reg, err := s.registrations.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	changed, err := reg.ApplyReject(actor, reason, s.now().UTC())
	if err != nil {
		return nil, false, err
	}
	if changed {
		if err := s.registrations.Save(ctx, reg); err != nil {
			return nil, false, err
		}
		s.auditAction(ctx, actor, domain.AuditRegRejected, client)
	}
	return reg, changed, nil
}

// Hide removes a registration from every non-SuperAdmin view.
func (s *ReviewServiceImpl) Hide(ctx context.Context, id uint, actor domain.Actor, client domain.ClientContext) (*domain.VehicleRegistration, bool, error) {
	reg, err := s.registrations.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	changed, err := reg.ApplyHide(actor)
	if err != nil {
		return nil, false, err
	}
	if changed {
		if err := s.registrations.Save(ctx, reg); err != nil {
			return nil, false, err
		}
		s.auditAction(ctx, actor, domain.AuditRegHidden, client)
	}
	return reg, changed, nil
}

// Unhide restores a hidden registration to its pre-hide status.
func (s *ReviewServiceImpl) Unhide(ctx context.Context, id uint, actor domain.Actor, client domain.ClientContext) (*domain.VehicleRegistration, bool, error) {
	reg, err := s.registrations.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	changed, err := reg.ApplyUnhide(actor)
	if err != nil {
		return nil, false, err
	}
	if changed {
		if err := s.registrations.Save(ctx, reg); err != nil {
			return nil, false, err
		}
		s.auditAction(ctx, actor, domain.AuditRegUnhidden, client)
	}
	return reg, changed, nil
}

func (s *ReviewServiceImpl) newPublicToken(ctx context.Context) (string, error) {
	for i := 0; i < tokenRetries; i++ {
		token, err := randomToken()
		if err != nil {
			return "", err
		}
		exists, err := s.registrations.TokenExists(ctx, token)
		if err != nil {
			return "", err
		}
		if !exists {
			return token, nil
		}
	}
	return "", fmt.Errorf("failed to allocate a unique public token")
}

func randomToken() (string, error) {
	buf := make([]byte, tokenLength)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate token: %w", err)
		}
		buf[i] = tokenAlphabet[n.Int64()]
	}
	return string(buf), nil
}

func (s *ReviewServiceImpl) auditAction(ctx context.Context, actor domain.Actor, event domain.AuditEvent, client domain.ClientContext) {
	s.audit.Append(ctx, &domain.AuditEntry{
		IdentityID: actor.IdentityID,
		Role:       string(actor.Role),
		Event:      event,
		AtUtc:      s.now().UTC(),
		IP:         client.IP,
		UserAgent:  client.UserAgent,
		Success:    true,
	})
}
