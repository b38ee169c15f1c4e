package mocks

import (
	"context"

	"github.com/Veerendratanneru7/transport/domain"
)

// MockVerificationProvider implements domain.VerificationProvider interface for testing
type MockVerificationProvider struct {
	SendFunc  func(ctx context.Context, phoneE164 string) error
	CheckFunc func(ctx context.Context, phoneE164, code string) (bool, error)

	// SentTo records every Send target for assertions
	SentTo []string
}

// NewMockVerificationProvider creates a new MockVerificationProvider with default behaviors
func NewMockVerificationProvider() *MockVerificationProvider {
	return &MockVerificationProvider{}
}

// Send delivers a code to the phone
func (m *MockVerificationProvider) Send(ctx context.Context, phoneE164 string) error {
	m.SentTo = append(m.SentTo, phoneE164)
	if m.SendFunc != nil {
		return m.SendFunc(ctx, phoneE164)
	}
	// Default behavior: success
	return nil
}

// Check verifies a submitted code
func (m *MockVerificationProvider) Check(ctx context.Context, phoneE164, code string) (bool, error) {
	if m.CheckFunc != nil {
		return m.CheckFunc(ctx, phoneE164, code)
	}
	// Default behavior: accept
	return true, nil
}

// Ensure MockVerificationProvider implements the interface
var _ domain.VerificationProvider = (*MockVerificationProvider)(nil)
