package mocks

import (
	"context"

	"github.com/Veerendratanneru7/transport/domain"
)

// MockChallengeStore implements domain.ChallengeStore interface for testing
type MockChallengeStore struct {
	SaveFunc   func(ctx context.Context, sessionID string, ch *domain.OtpChallenge) error
	FindFunc   func(ctx context.Context, sessionID string) (*domain.OtpChallenge, error)
	DeleteFunc func(ctx context.Context, sessionID string) error
}

// NewMockChallengeStore creates a new MockChallengeStore with default behaviors
func NewMockChallengeStore() *MockChallengeStore {
	return &MockChallengeStore{}
}

// Save stores a challenge
func (m *MockChallengeStore) Save(ctx context.Context, sessionID string, ch *domain.OtpChallenge) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, sessionID, ch)
	}
	// Default behavior: success
	return nil
}

// Find retrieves a challenge
func (m *MockChallengeStore) Find(ctx context.Context, sessionID string) (*domain.OtpChallenge, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, sessionID)
	}
	// Default behavior: not found
	return nil, domain.ErrChallengeNotFound
}

// Delete removes a challenge
func (m *MockChallengeStore) Delete(ctx context.Context, sessionID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, sessionID)
	}
	// Default behavior: success
	return nil
}

// Ensure MockChallengeStore implements the interface
var _ domain.ChallengeStore = (*MockChallengeStore)(nil)
