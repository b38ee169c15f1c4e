package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Veerendratanneru7/transport/domain"
	"github.com/Veerendratanneru7/transport/internal/services"
)

// sessionTokenHeader carries the browsing-session token across the OTP
// request/verify round trips.
const sessionTokenHeader = "X-Session-Token"

// phoneNotFoundMsg is returned for both unknown phones and wrong-role
// accounts so callers cannot probe which numbers are registered.
const phoneNotFoundMsg = "Phone number not found. Please contact the administrator."

// OtpOrchestrator drives the OTP login and signup flows.
type OtpOrchestrator interface {
	Issue(ctx context.Context, req services.IssueRequest) (*services.IssueResult, error)
	Resend(ctx context.Context, sessionID string, flow domain.OtpFlow, client domain.ClientContext) (*services.IssueResult, error)
	Verify(ctx context.Context, sessionID string, flow domain.OtpFlow, code string, client domain.ClientContext) (*domain.AuthResult, error)
}

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	otpSvc   OtpOrchestrator
	accounts domain.AccountRepository
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(otpSvc OtpOrchestrator, accounts domain.AccountRepository) *AuthHandlers {
	return &AuthHandlers{
		otpSvc:   otpSvc,
		accounts: accounts,
	}
}

// PhoneLoginRequest starts an Owner or MinistryOfficer login
type PhoneLoginRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// SignupRequest starts a VehicleOwner signup
type SignupRequest struct {
	Name  string `json:"name" binding:"required"`
	QID   string `json:"qid" binding:"required,len=11,numeric"`
	Phone string `json:"phone" binding:"required"`
}

// UserLoginRequest starts a VehicleOwner login
type UserLoginRequest struct {
	QID   string `json:"qid" binding:"required,len=11,numeric"`
	Phone string `json:"phone" binding:"required"`
}

// VerifyRequest submits a received code
type VerifyRequest struct {
	Code string `json:"code" binding:"required"`
}

func clientContext(c *gin.Context) domain.ClientContext {
	return domain.ClientContext{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// OwnerLogin handles POST /auth/owner/login
func (h *AuthHandlers) OwnerLogin(c *gin.Context) {
	h.issuePhoneLogin(c, domain.FlowOwnerLogin)
}

// MinistryLogin handles POST /auth/ministry/login
func (h *AuthHandlers) MinistryLogin(c *gin.Context) {
	h.issuePhoneLogin(c, domain.FlowMinistryLogin)
}

func (h *AuthHandlers) issuePhoneLogin(c *gin.Context, flow domain.OtpFlow) {
	var req PhoneLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.otpSvc.Issue(c.Request.Context(), services.IssueRequest{
		SessionID: c.GetHeader(sessionTokenHeader),
		Flow:      flow,
		Phone:     req.Phone,
		Client:    clientContext(c),
	})
	if err != nil {
		h.handleAuthError(c, err)
		return
	}
	respondIssued(c, result)
}

// Signup handles POST /auth/user/signup
func (h *AuthHandlers) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.otpSvc.Issue(c.Request.Context(), services.IssueRequest{
		SessionID: c.GetHeader(sessionTokenHeader),
		Flow:      domain.FlowVehicleOwnerSignup,
		Phone:     req.Phone,
		Name:      req.Name,
		QID:       req.QID,
		Client:    clientContext(c),
	})
	if err != nil {
		h.handleAuthError(c, err)
		return
	}
	respondIssued(c, result)
}

// UserLogin handles POST /auth/user/login
func (h *AuthHandlers) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.otpSvc.Issue(c.Request.Context(), services.IssueRequest{
		SessionID: c.GetHeader(sessionTokenHeader),
		Flow:      domain.FlowVehicleOwnerLogin,
		Phone:     req.Phone,
		QID:       req.QID,
		Client:    clientContext(c),
	})
	if err != nil {
		h.handleAuthError(c, err)
		return
	}
	respondIssued(c, result)
}

// OwnerResend handles POST /auth/owner/resend
func (h *AuthHandlers) OwnerResend(c *gin.Context) { h.resend(c, domain.FlowOwnerLogin) }

// MinistryResend handles POST /auth/ministry/resend
func (h *AuthHandlers) MinistryResend(c *gin.Context) { h.resend(c, domain.FlowMinistryLogin) }

// SignupResend handles POST /auth/user/resend
func (h *AuthHandlers) SignupResend(c *gin.Context) { h.resend(c, domain.FlowVehicleOwnerSignup) }

// UserLoginResend handles POST /auth/user/login-resend
func (h *AuthHandlers) UserLoginResend(c *gin.Context) { h.resend(c, domain.FlowVehicleOwnerLogin) }

func (h *AuthHandlers) resend(c *gin.Context, flow domain.OtpFlow) {
	sessionID := c.GetHeader(sessionTokenHeader)
	if sessionID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session token required"})
		return
	}

	result, err := h.otpSvc.Resend(c.Request.Context(), sessionID, flow, clientContext(c))
	if err != nil {
		h.handleAuthError(c, err)
		return
	}
	respondIssued(c, result)
}

// OwnerVerify handles POST /auth/owner/otp
func (h *AuthHandlers) OwnerVerify(c *gin.Context) { h.verify(c, domain.FlowOwnerLogin) }

// MinistryVerify handles POST /auth/ministry/otp
func (h *AuthHandlers) MinistryVerify(c *gin.Context) { h.verify(c, domain.FlowMinistryLogin) }

// SignupVerify handles POST /auth/user/otp
func (h *AuthHandlers) SignupVerify(c *gin.Context) { h.verify(c, domain.FlowVehicleOwnerSignup) }

// UserLoginVerify handles POST /auth/user/login-otp
func (h *AuthHandlers) UserLoginVerify(c *gin.Context) { h.verify(c, domain.FlowVehicleOwnerLogin) }

func (h *AuthHandlers) verify(c *gin.Context, flow domain.OtpFlow) {
	sessionID := c.GetHeader(sessionTokenHeader)
	if sessionID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session token required"})
		return
	}

	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.otpSvc.Verify(c.Request.Context(), sessionID, flow, req.Code, clientContext(c))
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	role := ""
	if len(result.Identity.Roles) > 0 {
		role = string(result.Identity.Roles[0])
	}
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"access_token": result.AccessToken,
			"token_type":   "Bearer",
			"expires_in":   result.ExpiresIn,
			"session_id":   result.SessionID,
			"identity_id":  result.Identity.ID,
			"role":         role,
		},
	})
}

// CheckPhone handles GET /auth/check-phone
func (h *AuthHandlers) CheckPhone(c *gin.Context) {
	phone, err := domain.NormalizePhone(c.Query("phone"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phone number"})
		return
	}

	exists, err := h.accounts.PhoneExists(c.Request.Context(), phone.Local11())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

// CheckQID handles GET /auth/check-qid
func (h *AuthHandlers) CheckQID(c *gin.Context) {
	qid := c.Query("qid")
	if len(qid) != 11 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid QID"})
		return
	}

	exists, err := h.accounts.QIDExists(c.Request.Context(), qid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

func respondIssued(c *gin.Context, result *services.IssueResult) {
	c.Header(sessionTokenHeader, result.SessionID)
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message":       "Verification code sent",
			"session_token": result.SessionID,
			"expires_at":    result.ExpiresAt,
		},
	})
}

// handleAuthError maps sentinel errors to responses. Sentinels may arrive
// wrapped, so matching goes through errors.Is.
func (h *AuthHandlers) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidPhoneFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phone number"})
	case errors.Is(err, domain.ErrAccountNotFound), errors.Is(err, domain.ErrRoleMismatch):
		c.JSON(http.StatusNotFound, gin.H{"error": phoneNotFoundMsg})
	case errors.Is(err, domain.ErrDuplicatePhone):
		c.JSON(http.StatusConflict, gin.H{"error": "Phone number already registered"})
	case errors.Is(err, domain.ErrDuplicateQID):
		c.JSON(http.StatusConflict, gin.H{"error": "QID already registered"})
	case errors.Is(err, domain.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
	case errors.Is(err, domain.ErrTooManyRequests):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many verification attempts. Please try again later."})
	case errors.Is(err, domain.ErrCooldown):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Please wait before requesting another code"})
	case errors.Is(err, domain.ErrSessionExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired. Please start over."})
	case errors.Is(err, domain.ErrOtpExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Verification code expired"})
	case errors.Is(err, domain.ErrProviderVerifyFailed):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid verification code"})
	case errors.Is(err, domain.ErrProviderSendFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send verification code"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Request failed"})
	}
}
