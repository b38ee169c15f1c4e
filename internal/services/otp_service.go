package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Veerendratanneru7/transport/domain"
)

const maskedCode = "******"

// AccountResolver resolves phone numbers to identities for a flow.
type AccountResolver interface {
	Resolve(ctx context.Context, rawPhone string, requiredRole domain.Role) (*domain.Identity, error)
	ResolveByQIDAndPhone(ctx context.Context, qid, rawPhone string) (*domain.Identity, error)
}

// RateLimiter gates OTP issuance per session.
type RateLimiter interface {
	Allow(ctx context.Context, sessionID string, enforceCooldown bool) error
	Note(ctx context.Context, sessionID string) error
}

// OtpConfig carries the orchestrator timing knobs.
type OtpConfig struct {
	OTPTTL     time.Duration
	SessionTTL time.Duration
	AccessTTL  time.Duration
}

// IssueRequest asks for a code to be sent for one of the login/signup flows.
// SessionID is empty on the first request of a browsing session; the
// orchestrator mints one and the caller carries it on every later request.
type IssueRequest struct {
	SessionID string
	Flow      domain.OtpFlow
	Phone     string

	// Signup flow only
	Name string
	QID  string

	Client domain.ClientContext
}

// IssueResult reports a sent code.
type IssueResult struct {
	SessionID string
	ExpiresAt time.Time
}

// OtpOrchestratorImpl drives the four OTP flows end to end: resolve the
// account, rate limit, send through the provider, track the challenge, and
// turn a verified code into a signed-in session.
type OtpOrchestratorImpl struct {
	resolver   AccountResolver
	accounts   domain.AccountRepository
	provider   domain.VerificationProvider
	challenges domain.ChallengeStore
	limiter    RateLimiter
	sessions   domain.SessionRepository
	tokenSvc   domain.TokenService
	audit      domain.AuditSink
	config     OtpConfig
	now        func() time.Time
}

// NewOtpOrchestrator creates a new OTP orchestrator
func NewOtpOrchestrator(
	resolver AccountResolver,
	accounts domain.AccountRepository,
	provider domain.VerificationProvider,
	challenges domain.ChallengeStore,
	limiter RateLimiter,
	sessions domain.SessionRepository,
	tokenSvc domain.TokenService,
	audit domain.AuditSink,
	config OtpConfig,
) *OtpOrchestratorImpl {
	return &OtpOrchestratorImpl{
		resolver:   resolver,
		accounts:   accounts,
		provider:   provider,
		challenges: challenges,
		limiter:    limiter,
		sessions:   sessions,
		tokenSvc:   tokenSvc,
		audit:      audit,
		config:     config,
		now:        time.Now,
	}
}

// Issue sends the first code of a flow. Signup flows have no account yet, so
// resolution is replaced by uniqueness prechecks on phone, QID and the
// derived email.
func (s *OtpOrchestratorImpl) Issue(ctx context.Context, req IssueRequest) (*IssueResult, error) {
	phone, err := domain.NormalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}

	var identityID string
	role := req.Flow.RequiredRole()
	switch req.Flow {
	case domain.FlowVehicleOwnerSignup:
		if err := s.precheckSignup(ctx, req.QID, phone); err != nil {
			return nil, err
		}
	case domain.FlowVehicleOwnerLogin:
		identity, err := s.resolver.ResolveByQIDAndPhone(ctx, req.QID, req.Phone)
		if err != nil {
			return nil, err
		}
		identityID = identity.ID
	default:
		identity, err := s.resolver.Resolve(ctx, req.Phone, req.Flow.RequiredRole())
		if err != nil {
			return nil, err
		}
		identityID = identity.ID
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	if err := s.limiter.Allow(ctx, sessionID, false); err != nil {
		s.auditEvent(ctx, identityID, phone.E164(), role, domain.AuditOtpRateLimited, req.Client, false, "")
		return nil, err
	}

	if err := s.provider.Send(ctx, phone.E164()); err != nil {
		s.auditEvent(ctx, identityID, phone.E164(), role, domain.AuditOtpSendFailed, req.Client, false, "")
		return nil, err
	}

	now := s.now().UTC()
	ch := &domain.OtpChallenge{
		TargetIdentityID: identityID,
		Flow:             req.Flow,
		Phone:            phone.E164(),
		IssuedAt:         now,
		ExpiresAt:        now.Add(s.config.OTPTTL),
		SignupName:       req.Name,
		SignupQID:        req.QID,
	}
	if err := s.challenges.Save(ctx, sessionID, ch); err != nil {
		return nil, fmt.Errorf("failed to store challenge: %w", err)
	}
	if err := s.limiter.Note(ctx, sessionID); err != nil {
		return nil, err
	}

	s.auditEvent(ctx, identityID, phone.E164(), role, domain.AuditOtpIssued, req.Client, true, maskedCode)
	return &IssueResult{SessionID: sessionID, ExpiresAt: ch.ExpiresAt}, nil
}

// Resend re-sends a code for an outstanding challenge. Unlike Issue, the
// cooldown applies. The challenge is replaced with a fresh expiry.
func (s *OtpOrchestratorImpl) Resend(ctx context.Context, sessionID string, flow domain.OtpFlow, client domain.ClientContext) (*IssueResult, error) {
	ch, err := s.challenges.Find(ctx, sessionID)
	if err != nil || ch.Flow != flow {
		return nil, domain.ErrSessionExpired
	}

	role := flowRole(flow)
	if err := s.limiter.Allow(ctx, sessionID, true); err != nil {
		if err == domain.ErrTooManyRequests {
			s.auditEvent(ctx, ch.TargetIdentityID, ch.Phone, role, domain.AuditOtpRateLimited, client, false, "")
		}
		return nil, err
	}

	if err := s.provider.Send(ctx, ch.Phone); err != nil {
		s.auditEvent(ctx, ch.TargetIdentityID, ch.Phone, role, domain.AuditOtpResendFailed, client, false, "")
		return nil, err
	}

	now := s.now().UTC()
	ch.IssuedAt = now
	ch.ExpiresAt = now.Add(s.config.OTPTTL)
	if err := s.challenges.Save(ctx, sessionID, ch); err != nil {
		return nil, fmt.Errorf("failed to store challenge: %w", err)
	}
	if err := s.limiter.Note(ctx, sessionID); err != nil {
		return nil, err
	}

	s.auditEvent(ctx, ch.TargetIdentityID, ch.Phone, role, domain.AuditOtpResend, client, true, maskedCode)
	return &IssueResult{SessionID: sessionID, ExpiresAt: ch.ExpiresAt}, nil
}

// Verify checks a submitted code and completes the flow: login flows sign
// the resolved identity in; the signup flow first creates the account. A
// wrong code keeps the challenge so the caller may retry within the provider
// attempt cap.
func (s *OtpOrchestratorImpl) Verify(ctx context.Context, sessionID string, flow domain.OtpFlow, code string, client domain.ClientContext) (*domain.AuthResult, error) {
	ch, err := s.challenges.Find(ctx, sessionID)
	if err != nil || ch.Flow != flow {
		return nil, domain.ErrSessionExpired
	}

	role := flowRole(flow)
	now := s.now().UTC()
	if ch.Expired(now) {
		s.auditEvent(ctx, ch.TargetIdentityID, ch.Phone, role, domain.AuditOtpExpired, client, false, maskedCode)
		s.challenges.Delete(ctx, sessionID)
		return nil, domain.ErrOtpExpired
	}

	ok, err := s.provider.Check(ctx, ch.Phone, code)
	if err != nil || !ok {
		s.auditEvent(ctx, ch.TargetIdentityID, ch.Phone, role, domain.AuditOtpFailed, client, false, maskedCode)
		return nil, domain.ErrProviderVerifyFailed
	}

	identity, err := s.completeFlow(ctx, sessionID, ch)
	if err != nil {
		return nil, err
	}

	result, err := s.signIn(ctx, identity, role)
	if err != nil {
		return nil, err
	}

	s.auditEvent(ctx, identity.ID, ch.Phone, role, domain.AuditOtpVerified, client, true, maskedCode)
	s.challenges.Delete(ctx, sessionID)
	return result, nil
}

func (s *OtpOrchestratorImpl) completeFlow(ctx context.Context, sessionID string, ch *domain.OtpChallenge) (*domain.Identity, error) {
	if ch.Flow != domain.FlowVehicleOwnerSignup {
		return s.accounts.FindIdentityByID(ctx, ch.TargetIdentityID)
	}

	phone, err := domain.NormalizePhone(ch.Phone)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	identity := &domain.Identity{
		ID:        uuid.New().String(),
		Phone:     phone.Local11(),
		Roles:     []domain.Role{domain.RoleVehicleOwner},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	profile := &domain.Profile{
		IdentityID: identity.ID,
		Name:       ch.SignupName,
		Email:      signupEmail(ch.SignupQID),
		Phone:      phone.Local11(),
		QID:        ch.SignupQID,
		Username:   ch.SignupQID,
		IsActive:   true,
		CreatedBy:  "signup",
		CreatedAt:  now,
	}
	if err := s.accounts.CreateAccount(ctx, identity, profile); err != nil {
		// A verified code must not be replayable against a failed signup.
		s.challenges.Delete(ctx, sessionID)
		return nil, err
	}
	return identity, nil
}

func (s *OtpOrchestratorImpl) signIn(ctx context.Context, identity *domain.Identity, role domain.Role) (*domain.AuthResult, error) {
	now := s.now().UTC()
	session := &domain.Session{
		ID:         uuid.New().String(),
		IdentityID: identity.ID,
		Role:       role,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.config.SessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	accessToken, err := s.tokenSvc.GenerateAccessToken(identity.ID, role, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &domain.AuthResult{
		Identity:    identity,
		AccessToken: accessToken,
		SessionID:   session.ID,
		ExpiresIn:   int64(s.config.AccessTTL.Seconds()),
	}, nil
}

func (s *OtpOrchestratorImpl) precheckSignup(ctx context.Context, qid string, phone domain.Phone) (err error) {
	exists, err := s.accounts.PhoneExists(ctx, phone.Local11())
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrDuplicatePhone
	}

	exists, err = s.accounts.QIDExists(ctx, qid)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrDuplicateQID
	}

	exists, err = s.accounts.EmailExists(ctx, signupEmail(qid))
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrDuplicateEmail
	}
	return nil
}

func (s *OtpOrchestratorImpl) auditEvent(ctx context.Context, identityID, phone string, role domain.Role, event domain.AuditEvent, client domain.ClientContext, success bool, masked string) {
	s.audit.Append(ctx, &domain.AuditEntry{
		IdentityID: identityID,
		Phone:      phone,
		Role:       string(role),
		Event:      event,
		AtUtc:      s.now().UTC(),
		IP:         client.IP,
		UserAgent:  client.UserAgent,
		Success:    success,
		CodeMasked: masked,
	})
}

// flowRole is the session role granted when the flow completes. Signup has
// no account during the challenge, but the created account is a VehicleOwner.
func flowRole(flow domain.OtpFlow) domain.Role {
	return flow.RequiredRole()
}

func signupEmail(qid string) string {
	return qid + "@gmail.com"
}
