package domain

import (
	"testing"
	"time"
)

func newPendingRegistration() *VehicleRegistration {
	return &VehicleRegistration{
		ID:          1,
		VehicleType: VehicleTruck,
		OwnerPhone:  "97451270700",
		OwnerName:   "Owner One",
		Status:      StatusPending,
		SubmittedAt: time.Now().UTC(),
		UniqueToken: "abcd2345efgh",
	}
}

func TestApplyVerify(t *testing.T) {
	verifier := Actor{IdentityID: "u1", Name: "DV", Role: RoleDocumentVerifier}

	tests := []struct {
		name        string
		actor       Actor
		status      RegistrationStatus
		wantChanged bool
		wantStatus  RegistrationStatus
		wantErr     error
	}{
		{name: "pending moves to under review", actor: verifier, status: StatusPending, wantChanged: true, wantStatus: StatusUnderReview},
		{name: "already under review is a no-op", actor: verifier, status: StatusUnderReview, wantStatus: StatusUnderReview},
		{name: "already approved is a no-op", actor: verifier, status: StatusApproved, wantStatus: StatusApproved},
		{name: "hidden is rejected", actor: verifier, status: StatusHidden, wantStatus: StatusHidden, wantErr: ErrRecordHidden},
		{name: "admin may not verify", actor: Actor{Role: RoleAdmin}, status: StatusPending, wantStatus: StatusPending, wantErr: ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newPendingRegistration()
			v.Status = tt.status
			changed, err := v.ApplyVerify(tt.actor)
			if err != tt.wantErr {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
			if v.Status != tt.wantStatus {
				t.Errorf("status = %v, want %v", v.Status, tt.wantStatus)
			}
		})
	}
}

func TestApplyApprove(t *testing.T) {
	now := time.Now().UTC()

	t.Run("admin approves pending directly", func(t *testing.T) {
		v := newPendingRegistration()
		changed, err := v.ApplyApprove(Actor{IdentityID: "a1", Name: "Admin", Role: RoleAdmin}, "ok", "REF000001", now)
		if err != nil || !changed {
			t.Fatalf("changed=%v err=%v", changed, err)
		}
		if v.Status != StatusApproved || v.UniqueToken != "REF000001" {
			t.Errorf("status=%v token=%q", v.Status, v.UniqueToken)
		}
		if v.Approval == nil || v.Approval.ByRole != RoleAdmin || v.Approval.At != now {
			t.Errorf("approval audit not stamped: %+v", v.Approval)
		}
	})

	t.Run("final approver needs verified record", func(t *testing.T) {
		v := newPendingRegistration()
		if _, err := v.ApplyApprove(Actor{Role: RoleFinalApprover}, "", "REF000001", now); err != ErrInvalidTransition {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
		if v.Status != StatusPending {
			t.Errorf("status mutated to %v", v.Status)
		}
	})

	t.Run("final approver approves under review", func(t *testing.T) {
		v := newPendingRegistration()
		v.Status = StatusUnderReview
		changed, err := v.ApplyApprove(Actor{Role: RoleFinalApprover}, "", "REF000002", now)
		if err != nil || !changed {
			t.Fatalf("changed=%v err=%v", changed, err)
		}
		if v.Status != StatusApproved {
			t.Errorf("status = %v", v.Status)
		}
	})

	t.Run("approve is idempotent and keeps the token", func(t *testing.T) {
		v := newPendingRegistration()
		if _, err := v.ApplyApprove(Actor{Role: RoleAdmin}, "", "REF000003", now); err != nil {
			t.Fatal(err)
		}
		changed, err := v.ApplyApprove(Actor{Role: RoleAdmin}, "", "REF000099", now)
		if err != nil {
			t.Fatal(err)
		}
		if changed {
			t.Error("second approve should be a no-op")
		}
		if v.UniqueToken != "REF000003" {
			t.Errorf("token rewritten to %q", v.UniqueToken)
		}
	})

	t.Run("hidden record cannot be approved", func(t *testing.T) {
		v := newPendingRegistration()
		v.Status = StatusHidden
		if _, err := v.ApplyApprove(Actor{Role: RoleSuperAdmin}, "", "REF000004", now); err != ErrRecordHidden {
			t.Fatalf("expected ErrRecordHidden, got %v", err)
		}
	})

	t.Run("unprivileged role cannot approve", func(t *testing.T) {
		v := newPendingRegistration()
		if _, err := v.ApplyApprove(Actor{Role: RoleMinistryOfficer}, "", "REF000005", now); err != ErrInvalidTransition {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})
}

func TestApplyReject(t *testing.T) {
	now := time.Now().UTC()

	t.Run("reject requires a reason", func(t *testing.T) {
		v := newPendingRegistration()
		if _, err := v.ApplyReject(Actor{Role: RoleAdmin}, "", now); err != ErrReasonRequired {
			t.Fatalf("expected ErrReasonRequired, got %v", err)
		}
		if v.Status != StatusPending {
			t.Errorf("status mutated to %v", v.Status)
		}
	})

	t.Run("reject stamps the audit", func(t *testing.T) {
		v := newPendingRegistration()
		v.Status = StatusUnderReview
		changed, err := v.ApplyReject(Actor{IdentityID: "f1", Name: "FA", Role: RoleFinalApprover}, "missing documents", now)
		if err != nil || !changed {
			t.Fatalf("changed=%v err=%v", changed, err)
		}
		if v.Status != StatusRejected {
			t.Errorf("status = %v", v.Status)
		}
		if v.Rejection == nil || v.Rejection.Reason != "missing documents" || v.Rejection.ByRole != RoleFinalApprover {
			t.Errorf("rejection audit not stamped: %+v", v.Rejection)
		}
	})

	t.Run("hidden record cannot be rejected", func(t *testing.T) {
		v := newPendingRegistration()
		v.Status = StatusHidden
		if _, err := v.ApplyReject(Actor{Role: RoleAdmin}, "reason", now); err != ErrRecordHidden {
			t.Fatalf("expected ErrRecordHidden, got %v", err)
		}
	})
}

func TestHideUnhideRoundTrip(t *testing.T) {
	super := Actor{Role: RoleSuperAdmin}

	for _, start := range []RegistrationStatus{StatusPending, StatusUnderReview, StatusApproved, StatusRejected} {
		v := newPendingRegistration()
		v.Status = start

		if changed, err := v.ApplyHide(super); err != nil || !changed {
			t.Fatalf("hide from %v: changed=%v err=%v", start, changed, err)
		}
		if v.Status != StatusHidden || v.PreviousStatus != start {
			t.Fatalf("after hide: status=%v previous=%v", v.Status, v.PreviousStatus)
		}

		if changed, err := v.ApplyUnhide(super); err != nil || !changed {
			t.Fatalf("unhide: changed=%v err=%v", changed, err)
		}
		if v.Status != start {
			t.Errorf("unhide restored %v, want %v", v.Status, start)
		}
		if v.PreviousStatus != "" {
			t.Errorf("previous status not cleared: %v", v.PreviousStatus)
		}
	}
}

func TestUnhideWithoutPreviousStatus(t *testing.T) {
	v := newPendingRegistration()
	v.Status = StatusHidden
	v.PreviousStatus = ""
	if _, err := v.ApplyUnhide(Actor{Role: RoleSuperAdmin}); err != nil {
		t.Fatal(err)
	}
	if v.Status != StatusPending {
		t.Errorf("status = %v, want Pending fallback", v.Status)
	}
}

func TestHideRequiresSuperAdmin(t *testing.T) {
	v := newPendingRegistration()
	if _, err := v.ApplyHide(Actor{Role: RoleAdmin}); err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestVisibleTo(t *testing.T) {
	v := newPendingRegistration()
	v.OwnerPhone = "97451270700"

	tests := []struct {
		name  string
		role  Role
		phone string
		want  bool
	}{
		{name: "ministry sees visible record", role: RoleMinistryOfficer, want: true},
		{name: "owner of record sees it via core form", role: RoleVehicleOwner, phone: "51270700", want: true},
		{name: "owner of record sees it via e164 form", role: RoleVehicleOwner, phone: "+97451270700", want: true},
		{name: "other vehicle owner cannot see it", role: RoleVehicleOwner, phone: "97455554444", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.VisibleTo(tt.role, tt.phone); got != tt.want {
				t.Errorf("VisibleTo(%v, %q) = %v, want %v", tt.role, tt.phone, got, tt.want)
			}
		})
	}

	t.Run("hidden record visible to superadmin only", func(t *testing.T) {
		v := newPendingRegistration()
		v.Status = StatusHidden
		if v.VisibleTo(RoleAdmin, "") {
			t.Error("admin should not see hidden record")
		}
		if !v.VisibleTo(RoleSuperAdmin, "") {
			t.Error("superadmin should see hidden record")
		}
	})
}

func TestRefToken(t *testing.T) {
	if got := RefToken(1); got != "REF000001" {
		t.Errorf("RefToken(1) = %q", got)
	}
	if got := RefToken(123456); got != "REF123456" {
		t.Errorf("RefToken(123456) = %q", got)
	}
}
