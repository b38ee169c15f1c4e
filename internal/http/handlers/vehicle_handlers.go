package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Veerendratanneru7/transport/domain"
	"github.com/Veerendratanneru7/transport/internal/services"
)

// ReviewService owns the vehicle registration lifecycle.
type ReviewService interface {
	Create(ctx context.Context, req services.IntakeRequest) (*domain.VehicleRegistration, error)
	List(ctx context.Context, role domain.Role, actorPhone string) ([]*domain.VehicleRegistration, error)
	FindByToken(ctx context.Context, token string, role domain.Role) (*domain.VehicleRegistration, error)
	Verify(ctx context.Context, id uint, actor domain.Actor, client domain.ClientContext) (*domain.VehicleRegistration, bool, error)
	Approve(ctx context.Context, id uint, actor domain.Actor, comment string, client domain.ClientContext) (*domain.VehicleRegistration, bool, error)
	Reject(ctx context.Context, id uint, actor domain.Actor, reason string, client domain.ClientContext) (*domain.VehicleRegistration, bool, error)
	Hide(ctx context.Context, id uint, actor domain.Actor, client domain.ClientContext) (*domain.VehicleRegistration, bool, error)
	Unhide(ctx context.Context, id uint, actor domain.Actor, client domain.ClientContext) (*domain.VehicleRegistration, bool, error)
}

// VehicleHandlers handles vehicle registration HTTP requests
type VehicleHandlers struct {
	reviewSvc ReviewService
	accounts  domain.AccountRepository
}

// NewVehicleHandlers creates new vehicle handlers
func NewVehicleHandlers(reviewSvc ReviewService, accounts domain.AccountRepository) *VehicleHandlers {
	return &VehicleHandlers{
		reviewSvc: reviewSvc,
		accounts:  accounts,
	}
}

// CreateVehicleRequest files a new registration
type CreateVehicleRequest struct {
	VehicleType   string            `json:"vehicle_type" binding:"required,oneof=truck tank"`
	OwnerPhone    string            `json:"owner_phone" binding:"required"`
	OwnerName     string            `json:"owner_name" binding:"required"`
	DriverPhone   string            `json:"driver_phone"`
	DriverName    string            `json:"driver_name"`
	VehicleNumber string            `json:"vehicle_number" binding:"required"`
	Documents     map[string]string `json:"documents"`
}

// ApproveRequest carries the optional approval comment
type ApproveRequest struct {
	Comment string `json:"comment"`
}

// RejectRequest carries the mandatory rejection reason
type RejectRequest struct {
	Reason string `json:"reason"`
}

// Create handles POST /vehicles
func (h *VehicleHandlers) Create(c *gin.Context) {
	var req CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reg, err := h.reviewSvc.Create(c.Request.Context(), services.IntakeRequest{
		VehicleType:   domain.VehicleType(req.VehicleType),
		OwnerPhone:    req.OwnerPhone,
		OwnerName:     req.OwnerName,
		DriverPhone:   req.DriverPhone,
		DriverName:    req.DriverName,
		VehicleNumber: req.VehicleNumber,
		Documents:     req.Documents,
		ClientIP:      c.ClientIP(),
	})
	if err != nil {
		h.handleReviewError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"message": "Registration submitted",
			"id":      reg.ID,
			"token":   reg.UniqueToken,
			"status":  reg.Status,
		},
	})
}

// List handles GET /vehicles
func (h *VehicleHandlers) List(c *gin.Context) {
	role := h.callerRole(c)
	phone := ""
	if role == domain.RoleVehicleOwner {
		if profile, err := h.accounts.FindProfileByIdentityID(c.Request.Context(), c.GetString("identity_id")); err == nil {
			phone = profile.Phone
		}
	}

	regs, err := h.reviewSvc.List(c.Request.Context(), role, phone)
	if err != nil {
		h.handleReviewError(c, err)
		return
	}

	out := make([]gin.H, 0, len(regs))
	for _, reg := range regs {
		out = append(out, registrationResponse(reg))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// GetByToken handles GET /vehicles/token/:token. The route is public; hidden
// records read as missing unless the caller authenticated as SuperAdmin.
func (h *VehicleHandlers) GetByToken(c *gin.Context) {
	reg, err := h.reviewSvc.FindByToken(c.Request.Context(), c.Param("token"), h.callerRole(c))
	if err != nil {
		h.handleReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": registrationResponse(reg)})
}

// Verify handles POST /vehicles/:id/verify
func (h *VehicleHandlers) Verify(c *gin.Context) {
	id, actor, ok := h.action(c)
	if !ok {
		return
	}

	reg, changed, err := h.reviewSvc.Verify(c.Request.Context(), id, actor, clientContext(c))
	if err != nil {
		h.handleReviewError(c, err)
		return
	}

	message := "Vehicle verified"
	if !changed {
		if reg.Status == domain.StatusApproved {
			message = "Vehicle already approved"
		} else {
			message = "Vehicle already under review"
		}
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": message, "status": reg.Status}})
}

// Approve handles POST /vehicles/:id/approve
func (h *VehicleHandlers) Approve(c *gin.Context) {
	id, actor, ok := h.action(c)
	if !ok {
		return
	}

	var req ApproveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	reg, changed, err := h.reviewSvc.Approve(c.Request.Context(), id, actor, req.Comment, clientContext(c))
	if err != nil {
		h.handleReviewError(c, err)
		return
	}

	message := "Vehicle approved"
	if !changed {
		message = "Vehicle already approved"
	}
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message":   message,
			"status":    reg.Status,
			"ref_token": reg.UniqueToken,
		},
	})
}

// Reject handles POST /vehicles/:id/reject
func (h *VehicleHandlers) Reject(c *gin.Context) {
	id, actor, ok := h.action(c)
	if !ok {
		return
	}

	var req RejectRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	reg, _, err := h.reviewSvc.Reject(c.Request.Context(), id, actor, req.Reason, clientContext(c))
	if err != nil {
		h.handleReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "Vehicle rejected", "status": reg.Status}})
}

// Hide handles POST /vehicles/:id/hide
func (h *VehicleHandlers) Hide(c *gin.Context) {
	id, actor, ok := h.action(c)
	if !ok {
		return
	}

	reg, _, err := h.reviewSvc.Hide(c.Request.Context(), id, actor, clientContext(c))
	if err != nil {
		h.handleReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "Vehicle hidden", "status": reg.Status}})
}

// Unhide handles POST /vehicles/:id/unhide
func (h *VehicleHandlers) Unhide(c *gin.Context) {
	id, actor, ok := h.action(c)
	if !ok {
		return
	}

	reg, _, err := h.reviewSvc.Unhide(c.Request.Context(), id, actor, clientContext(c))
	if err != nil {
		h.handleReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "Vehicle restored", "status": reg.Status}})
}

func (h *VehicleHandlers) callerRole(c *gin.Context) domain.Role {
	return domain.Role(c.GetString("user_role"))
}

// action parses the :id parameter and builds the acting identity, including
// the profile display name stamped into approval and rejection audits.
func (h *VehicleHandlers) action(c *gin.Context) (uint, domain.Actor, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration id"})
		return 0, domain.Actor{}, false
	}

	actor := domain.Actor{
		IdentityID: c.GetString("identity_id"),
		Role:       h.callerRole(c),
	}
	if profile, err := h.accounts.FindProfileByIdentityID(c.Request.Context(), actor.IdentityID); err == nil {
		actor.Name = profile.Name
	}
	return uint(id), actor, true
}

func registrationResponse(reg *domain.VehicleRegistration) gin.H {
	resp := gin.H{
		"id":             reg.ID,
		"vehicle_type":   reg.VehicleType,
		"owner_phone":    reg.OwnerPhone,
		"owner_name":     reg.OwnerName,
		"driver_phone":   reg.DriverPhone,
		"driver_name":    reg.DriverName,
		"vehicle_number": reg.VehicleNumber,
		"documents":      reg.Documents,
		"status":         reg.Status,
		"submitted_at":   reg.SubmittedAt,
		"token":          reg.UniqueToken,
	}
	if reg.Approval != nil {
		resp["approved_by"] = reg.Approval.ByName
		resp["approved_at"] = reg.Approval.At
		resp["approve_comment"] = reg.Approval.Comment
	}
	if reg.Rejection != nil {
		resp["rejected_by"] = reg.Rejection.ByName
		resp["rejected_at"] = reg.Rejection.At
		resp["reject_reason"] = reg.Rejection.Reason
	}
	return resp
}

// handleReviewError maps sentinel errors to responses. Sentinels may arrive
// wrapped, so matching goes through errors.Is.
func (h *VehicleHandlers) handleReviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrRegistrationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Registration not found"})
	case errors.Is(err, domain.ErrRecordHidden):
		c.JSON(http.StatusConflict, gin.H{"error": "Registration is hidden"})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusForbidden, gin.H{"error": "Action not allowed"})
	case errors.Is(err, domain.ErrReasonRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rejection reason is required"})
	case errors.Is(err, domain.ErrInvalidPhoneFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phone number"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Request failed"})
	}
}
