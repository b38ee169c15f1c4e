package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/Veerendratanneru7/transport/domain"
)

func TestChallengeStoreImpl_SaveReplacesExisting(t *testing.T) {
	client := setupTestRedis(t)
	store := NewChallengeStore(client, 30*time.Minute)
	ctx := context.Background()

	first := &domain.OtpChallenge{
		TargetIdentityID: "identity-1",
		Flow:             domain.FlowOwnerLogin,
		Phone:            "+97412345678",
		IssuedAt:         time.Now().UTC(),
		ExpiresAt:        time.Now().UTC().Add(5 * time.Minute),
	}
	if err := store.Save(ctx, "sess-1", first); err != nil {
		t.Fatalf("unexpected error saving challenge: %v", err)
	}

	second := &domain.OtpChallenge{
		TargetIdentityID: "identity-2",
		Flow:             domain.FlowVehicleOwnerLogin,
		Phone:            "+97487654321",
		IssuedAt:         time.Now().UTC(),
		ExpiresAt:        time.Now().UTC().Add(5 * time.Minute),
	}
	if err := store.Save(ctx, "sess-1", second); err != nil {
		t.Fatalf("unexpected error replacing challenge: %v", err)
	}

	found, err := store.Find(ctx, "sess-1")
	if err != nil {
		t.Fatalf("unexpected error finding challenge: %v", err)
	}
	if found.TargetIdentityID != "identity-2" {
		t.Errorf("expected the later challenge to win, got identity %q", found.TargetIdentityID)
	}
	if found.Flow != domain.FlowVehicleOwnerLogin {
		t.Errorf("expected flow %q, got %q", domain.FlowVehicleOwnerLogin, found.Flow)
	}
}

func TestChallengeStoreImpl_FindMissing(t *testing.T) {
	client := setupTestRedis(t)
	store := NewChallengeStore(client, 30*time.Minute)

	_, err := store.Find(context.Background(), "nope")
	if err != domain.ErrChallengeNotFound {
		t.Errorf("expected ErrChallengeNotFound, got %v", err)
	}
}

func TestChallengeStoreImpl_SignupFieldsRoundTrip(t *testing.T) {
	client := setupTestRedis(t)
	store := NewChallengeStore(client, 30*time.Minute)
	ctx := context.Background()

	ch := &domain.OtpChallenge{
		Flow:       domain.FlowVehicleOwnerSignup,
		Phone:      "+97455501234",
		IssuedAt:   time.Now().UTC(),
		ExpiresAt:  time.Now().UTC().Add(5 * time.Minute),
		SignupName: "Ahmed Ali",
		SignupQID:  "28512345678",
	}
	if err := store.Save(ctx, "sess-signup", ch); err != nil {
		t.Fatalf("unexpected error saving signup challenge: %v", err)
	}

	found, err := store.Find(ctx, "sess-signup")
	if err != nil {
		t.Fatalf("unexpected error finding signup challenge: %v", err)
	}
	if found.SignupName != "Ahmed Ali" || found.SignupQID != "28512345678" {
		t.Errorf("signup fields did not survive the round trip: %+v", found)
	}
}

func TestChallengeStoreImpl_Delete(t *testing.T) {
	client := setupTestRedis(t)
	store := NewChallengeStore(client, 30*time.Minute)
	ctx := context.Background()

	ch := &domain.OtpChallenge{
		Flow:      domain.FlowMinistryLogin,
		Phone:     "+97411112222",
		IssuedAt:  time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(5 * time.Minute),
	}
	if err := store.Save(ctx, "sess-del", ch); err != nil {
		t.Fatalf("unexpected error saving challenge: %v", err)
	}
	if err := store.Delete(ctx, "sess-del"); err != nil {
		t.Fatalf("unexpected error deleting challenge: %v", err)
	}
	if _, err := store.Find(ctx, "sess-del"); err != domain.ErrChallengeNotFound {
		t.Errorf("expected ErrChallengeNotFound after delete, got %v", err)
	}
}
