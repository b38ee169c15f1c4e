package mocks

import (
	"context"
	"time"

	"github.com/Veerendratanneru7/transport/domain"
)

// MockRateLimitStore implements domain.RateLimitStore interface for testing
type MockRateLimitStore struct {
	CountersFunc   func(ctx context.Context, sessionID string) (int, time.Time, error)
	NoteIssuedFunc func(ctx context.Context, sessionID string, at time.Time) error
}

// NewMockRateLimitStore creates a new MockRateLimitStore with default behaviors
func NewMockRateLimitStore() *MockRateLimitStore {
	return &MockRateLimitStore{}
}

// Counters returns the issuance counters for a session
func (m *MockRateLimitStore) Counters(ctx context.Context, sessionID string) (int, time.Time, error) {
	if m.CountersFunc != nil {
		return m.CountersFunc(ctx, sessionID)
	}
	// Default behavior: no issuances recorded
	return 0, time.Time{}, nil
}

// NoteIssued records an issuance
func (m *MockRateLimitStore) NoteIssued(ctx context.Context, sessionID string, at time.Time) error {
	if m.NoteIssuedFunc != nil {
		return m.NoteIssuedFunc(ctx, sessionID, at)
	}
	// Default behavior: success
	return nil
}

// Ensure MockRateLimitStore implements the interface
var _ domain.RateLimitStore = (*MockRateLimitStore)(nil)
