package mocks

import (
	"context"

	"github.com/Veerendratanneru7/transport/domain"
)

// MockRegistrationRepository implements domain.RegistrationRepository interface for testing
type MockRegistrationRepository struct {
	CreateFunc           func(ctx context.Context, v *domain.VehicleRegistration) error
	FindByIDFunc         func(ctx context.Context, id uint) (*domain.VehicleRegistration, error)
	FindByTokenFunc      func(ctx context.Context, token string) (*domain.VehicleRegistration, error)
	ListFunc             func(ctx context.Context) ([]*domain.VehicleRegistration, error)
	SaveFunc             func(ctx context.Context, v *domain.VehicleRegistration) error
	TokenExistsFunc      func(ctx context.Context, token string) (bool, error)
	AllocateRefTokenFunc func(ctx context.Context) (string, error)
}

// NewMockRegistrationRepository creates a new MockRegistrationRepository with default behaviors
func NewMockRegistrationRepository() *MockRegistrationRepository {
	return &MockRegistrationRepository{}
}

// Create creates a new registration
func (m *MockRegistrationRepository) Create(ctx context.Context, v *domain.VehicleRegistration) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, v)
	}
	// Default behavior: success
	return nil
}

// FindByID finds a registration by ID
func (m *MockRegistrationRepository) FindByID(ctx context.Context, id uint) (*domain.VehicleRegistration, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	// Default behavior: not found
	return nil, domain.ErrRegistrationNotFound
}

// FindByToken finds a registration by its public token
func (m *MockRegistrationRepository) FindByToken(ctx context.Context, token string) (*domain.VehicleRegistration, error) {
	if m.FindByTokenFunc != nil {
		return m.FindByTokenFunc(ctx, token)
	}
	// Default behavior: not found
	return nil, domain.ErrRegistrationNotFound
}

// List returns all registrations
func (m *MockRegistrationRepository) List(ctx context.Context) ([]*domain.VehicleRegistration, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	// Default behavior: empty
	return nil, nil
}

// Save persists a registration
func (m *MockRegistrationRepository) Save(ctx context.Context, v *domain.VehicleRegistration) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, v)
	}
	// Default behavior: success
	return nil
}

// TokenExists reports whether a public token is taken
func (m *MockRegistrationRepository) TokenExists(ctx context.Context, token string) (bool, error) {
	if m.TokenExistsFunc != nil {
		return m.TokenExistsFunc(ctx, token)
	}
	// Default behavior: available
	return false, nil
}

// AllocateRefToken reserves the next reference token
func (m *MockRegistrationRepository) AllocateRefToken(ctx context.Context) (string, error) {
	if m.AllocateRefTokenFunc != nil {
		return m.AllocateRefTokenFunc(ctx)
	}
	// Default behavior: first token
	return "REF000001", nil
}

// Ensure MockRegistrationRepository implements the interface
var _ domain.RegistrationRepository = (*MockRegistrationRepository)(nil)
