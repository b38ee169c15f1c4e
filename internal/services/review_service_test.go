package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Veerendratanneru7/transport/domain"
	"github.com/Veerendratanneru7/transport/internal/mocks"
)

func reviewFixture() (*ReviewServiceImpl, *mocks.MockRegistrationRepository, *mocks.MockAuditSink) {
	repo := mocks.NewMockRegistrationRepository()
	audit := mocks.NewMockAuditSink()
	svc := NewReviewService(repo, audit)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, repo, audit
}

func pendingRegistration() *domain.VehicleRegistration {
	return &domain.VehicleRegistration{
		ID:          7,
		VehicleType: domain.VehicleTruck,
		OwnerPhone:  "97412345678",
		OwnerName:   "Ahmed Ali",
		Status:      domain.StatusPending,
		UniqueToken: "abcdefgh2345",
	}
}

func TestReviewServiceImpl_Create(t *testing.T) {
	svc, repo, _ := reviewFixture()

	var created *domain.VehicleRegistration
	repo.CreateFunc = func(ctx context.Context, v *domain.VehicleRegistration) error {
		v.ID = 42
		created = v
		return nil
	}

	reg, err := svc.Create(context.Background(), IntakeRequest{
		VehicleType:   domain.VehicleTank,
		OwnerPhone:    "+974 1234 5678",
		OwnerName:     "Ahmed Ali",
		DriverPhone:   "87654321",
		DriverName:    "Yousef Hassan",
		VehicleNumber: "445566",
		Documents:     map[string]string{"istimara": "uploads/a.pdf"},
		ClientIP:      "10.0.0.9",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reg.ID != 42 {
		t.Errorf("expected assigned id 42, got %d", reg.ID)
	}
	if created.OwnerPhone != "97412345678" {
		t.Errorf("expected normalized owner phone, got %q", created.OwnerPhone)
	}
	if created.DriverPhone != "97487654321" {
		t.Errorf("expected normalized driver phone, got %q", created.DriverPhone)
	}
	if created.Status != domain.StatusPending {
		t.Errorf("expected Pending, got %s", created.Status)
	}
	if len(created.UniqueToken) != tokenLength {
		t.Fatalf("expected a %d-char public token, got %q", tokenLength, created.UniqueToken)
	}
	for _, c := range created.UniqueToken {
		if !strings.ContainsRune(tokenAlphabet, c) {
			t.Errorf("token %q contains %q outside the alphabet", created.UniqueToken, c)
		}
	}
}

func TestReviewServiceImpl_Create_InvalidOwnerPhone(t *testing.T) {
	svc, _, _ := reviewFixture()

	_, err := svc.Create(context.Background(), IntakeRequest{
		VehicleType: domain.VehicleTruck,
		OwnerPhone:  "12",
	})
	if err != domain.ErrInvalidPhoneFormat {
		t.Fatalf("expected ErrInvalidPhoneFormat, got %v", err)
	}
}

func TestReviewServiceImpl_Create_TokenCollisionRetries(t *testing.T) {
	svc, repo, _ := reviewFixture()

	calls := 0
	repo.TokenExistsFunc = func(ctx context.Context, token string) (bool, error) {
		calls++
		return calls == 1, nil
	}

	reg, err := svc.Create(context.Background(), IntakeRequest{
		VehicleType: domain.VehicleTruck,
		OwnerPhone:  "12345678",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected a retry after the collision, got %d checks", calls)
	}
	if reg.UniqueToken == "" {
		t.Error("expected a token to be assigned")
	}
}

func TestReviewServiceImpl_Approve(t *testing.T) {
	svc, repo, audit := reviewFixture()

	reg := pendingRegistration()
	reg.Status = domain.StatusUnderReview
	repo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.VehicleRegistration, error) {
		return reg, nil
	}
	allocations := 0
	repo.AllocateRefTokenFunc = func(ctx context.Context) (string, error) {
		allocations++
		return "REF000005", nil
	}
	var saved *domain.VehicleRegistration
	repo.SaveFunc = func(ctx context.Context, v *domain.VehicleRegistration) error {
		saved = v
		return nil
	}

	actor := domain.Actor{IdentityID: "fa-1", Name: "Final Approver", Role: domain.RoleFinalApprover}
	result, changed, err := svc.Approve(context.Background(), 7, actor, "all good", domain.ClientContext{IP: "10.0.0.1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !changed {
		t.Fatal("expected the approve to change the record")
	}
	if result.Status != domain.StatusApproved {
		t.Errorf("expected Approved, got %s", result.Status)
	}
	if result.UniqueToken != "REF000005" {
		t.Errorf("expected REF000005, got %q", result.UniqueToken)
	}
	if result.Approval == nil || result.Approval.ByID != "fa-1" {
		t.Errorf("unexpected approval audit: %+v", result.Approval)
	}
	if allocations != 1 {
		t.Errorf("expected exactly one allocation, got %d", allocations)
	}
	if saved == nil {
		t.Error("expected the record to be saved")
	}
	events := audit.Events()
	if len(events) != 1 || events[0] != domain.AuditRegApproved {
		t.Errorf("expected a registration_approved audit, got %v", events)
	}
}

func TestReviewServiceImpl_Approve_IdempotentConsumesNoToken(t *testing.T) {
	svc, repo, audit := reviewFixture()

	reg := pendingRegistration()
	reg.Status = domain.StatusApproved
	reg.UniqueToken = "REF000003"
	repo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.VehicleRegistration, error) {
		return reg, nil
	}
	repo.AllocateRefTokenFunc = func(ctx context.Context) (string, error) {
		t.Fatal("no token must be allocated for a no-op approve")
		return "", nil
	}

	actor := domain.Actor{IdentityID: "a-1", Role: domain.RoleAdmin}
	result, changed, err := svc.Approve(context.Background(), 7, actor, "", domain.ClientContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if changed {
		t.Error("expected a no-op")
	}
	if result.UniqueToken != "REF000003" {
		t.Errorf("expected the existing token to be kept, got %q", result.UniqueToken)
	}
	if len(audit.Events()) != 0 {
		t.Errorf("expected no audit entry for a no-op, got %v", audit.Events())
	}
}

func TestReviewServiceImpl_Approve_FinalApproverNeedsVerifiedRecord(t *testing.T) {
	svc, repo, _ := reviewFixture()

	repo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.VehicleRegistration, error) {
		return pendingRegistration(), nil
	}
	repo.AllocateRefTokenFunc = func(ctx context.Context) (string, error) {
		t.Fatal("no token must be allocated for a rejected approve")
		return "", nil
	}

	actor := domain.Actor{IdentityID: "fa-1", Role: domain.RoleFinalApprover}
	_, _, err := svc.Approve(context.Background(), 7, actor, "", domain.ClientContext{})
	if err != domain.ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestReviewServiceImpl_Reject_RequiresReason(t *testing.T) {
	svc, repo, _ := reviewFixture()

	repo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.VehicleRegistration, error) {
		return pendingRegistration(), nil
	}

	actor := domain.Actor{IdentityID: "a-1", Role: domain.RoleAdmin}
	_, _, err := svc.Reject(context.Background(), 7, actor, "", domain.ClientContext{})
	if err != domain.ErrReasonRequired {
		t.Fatalf("expected ErrReasonRequired, got %v", err)
	}
}

func TestReviewServiceImpl_Verify(t *testing.T) {
	svc, repo, audit := reviewFixture()

	repo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.VehicleRegistration, error) {
		return pendingRegistration(), nil
	}

	actor := domain.Actor{IdentityID: "dv-1", Role: domain.RoleDocumentVerifier}
	result, changed, err := svc.Verify(context.Background(), 7, actor, domain.ClientContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !changed || result.Status != domain.StatusUnderReview {
		t.Errorf("expected Under Review, got changed=%v status=%s", changed, result.Status)
	}
	events := audit.Events()
	if len(events) != 1 || events[0] != domain.AuditRegVerified {
		t.Errorf("expected a registration_verified audit, got %v", events)
	}
}

func TestReviewServiceImpl_HideUnhide(t *testing.T) {
	svc, repo, _ := reviewFixture()

	reg := pendingRegistration()
	reg.Status = domain.StatusUnderReview
	repo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.VehicleRegistration, error) {
		return reg, nil
	}

	super := domain.Actor{IdentityID: "sa-1", Role: domain.RoleSuperAdmin}
	result, changed, err := svc.Hide(context.Background(), 7, super, domain.ClientContext{})
	if err != nil || !changed {
		t.Fatalf("expected hide to succeed, got changed=%v err=%v", changed, err)
	}
	if result.Status != domain.StatusHidden || result.PreviousStatus != domain.StatusUnderReview {
		t.Errorf("unexpected state after hide: %+v", result)
	}

	result, changed, err = svc.Unhide(context.Background(), 7, super, domain.ClientContext{})
	if err != nil || !changed {
		t.Fatalf("expected unhide to succeed, got changed=%v err=%v", changed, err)
	}
	if result.Status != domain.StatusUnderReview {
		t.Errorf("expected restore to Under Review, got %s", result.Status)
	}
}

func TestReviewServiceImpl_List_FiltersByVisibility(t *testing.T) {
	svc, repo, _ := reviewFixture()

	hidden := pendingRegistration()
	hidden.ID = 1
	hidden.Status = domain.StatusHidden
	own := pendingRegistration()
	own.ID = 2
	foreign := pendingRegistration()
	foreign.ID = 3
	foreign.OwnerPhone = "97499998888"

	repo.ListFunc = func(ctx context.Context) ([]*domain.VehicleRegistration, error) {
		return []*domain.VehicleRegistration{hidden, own, foreign}, nil
	}

	asOwner, err := svc.List(context.Background(), domain.RoleVehicleOwner, "12345678")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(asOwner) != 1 || asOwner[0].ID != 2 {
		t.Errorf("expected only the owner's own record, got %v", asOwner)
	}

	asSuper, err := svc.List(context.Background(), domain.RoleSuperAdmin, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(asSuper) != 3 {
		t.Errorf("expected SuperAdmin to see all records, got %d", len(asSuper))
	}

	asAdmin, err := svc.List(context.Background(), domain.RoleAdmin, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(asAdmin) != 2 {
		t.Errorf("expected hidden records to be filtered for Admin, got %d", len(asAdmin))
	}
}

func TestReviewServiceImpl_FindByToken_HiddenOnlyForSuperAdmin(t *testing.T) {
	svc, repo, _ := reviewFixture()

	hidden := pendingRegistration()
	hidden.Status = domain.StatusHidden
	repo.FindByTokenFunc = func(ctx context.Context, token string) (*domain.VehicleRegistration, error) {
		return hidden, nil
	}

	if _, err := svc.FindByToken(context.Background(), "abcdefgh2345", domain.RoleAdmin); err != domain.ErrRegistrationNotFound {
		t.Errorf("expected hidden record to read as missing for Admin, got %v", err)
	}

	reg, err := svc.FindByToken(context.Background(), "abcdefgh2345", domain.RoleSuperAdmin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reg.Status != domain.StatusHidden {
		t.Errorf("expected SuperAdmin to see the hidden record, got %s", reg.Status)
	}
}
