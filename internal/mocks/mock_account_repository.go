package mocks

import (
	"context"

	"github.com/Veerendratanneru7/transport/domain"
)

// MockAccountRepository implements domain.AccountRepository interface for testing
type MockAccountRepository struct {
	FindIdentityByPhoneFunc       func(ctx context.Context, variants []string) (*domain.Identity, error)
	FindIdentityByIDFunc          func(ctx context.Context, id string) (*domain.Identity, error)
	FindIdentityByQIDAndPhoneFunc func(ctx context.Context, qid, phone string) (*domain.Identity, error)
	FindProfileByIdentityIDFunc   func(ctx context.Context, identityID string) (*domain.Profile, error)
	CreateAccountFunc             func(ctx context.Context, identity *domain.Identity, profile *domain.Profile) error
	PhoneExistsFunc               func(ctx context.Context, phone string) (bool, error)
	QIDExistsFunc                 func(ctx context.Context, qid string) (bool, error)
	EmailExistsFunc               func(ctx context.Context, email string) (bool, error)
}

// NewMockAccountRepository creates a new MockAccountRepository with default behaviors
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{}
}

// FindIdentityByPhone finds an identity by any phone representation
func (m *MockAccountRepository) FindIdentityByPhone(ctx context.Context, variants []string) (*domain.Identity, error) {
	if m.FindIdentityByPhoneFunc != nil {
		return m.FindIdentityByPhoneFunc(ctx, variants)
	}
	// Default behavior: not found
	return nil, domain.ErrAccountNotFound
}

// FindIdentityByID finds an identity by ID
func (m *MockAccountRepository) FindIdentityByID(ctx context.Context, id string) (*domain.Identity, error) {
	if m.FindIdentityByIDFunc != nil {
		return m.FindIdentityByIDFunc(ctx, id)
	}
	// Default behavior: not found
	return nil, domain.ErrAccountNotFound
}

// FindIdentityByQIDAndPhone finds an identity matching both QID and phone
func (m *MockAccountRepository) FindIdentityByQIDAndPhone(ctx context.Context, qid, phone string) (*domain.Identity, error) {
	if m.FindIdentityByQIDAndPhoneFunc != nil {
		return m.FindIdentityByQIDAndPhoneFunc(ctx, qid, phone)
	}
	// Default behavior: not found
	return nil, domain.ErrAccountNotFound
}

// FindProfileByIdentityID finds a profile by its identity ID
func (m *MockAccountRepository) FindProfileByIdentityID(ctx context.Context, identityID string) (*domain.Profile, error) {
	if m.FindProfileByIdentityIDFunc != nil {
		return m.FindProfileByIdentityIDFunc(ctx, identityID)
	}
	// Default behavior: not found
	return nil, domain.ErrAccountNotFound
}

// CreateAccount persists an identity with its profile
func (m *MockAccountRepository) CreateAccount(ctx context.Context, identity *domain.Identity, profile *domain.Profile) error {
	if m.CreateAccountFunc != nil {
		return m.CreateAccountFunc(ctx, identity, profile)
	}
	// Default behavior: success
	return nil
}

// PhoneExists reports whether a phone is taken
func (m *MockAccountRepository) PhoneExists(ctx context.Context, phone string) (bool, error) {
	if m.PhoneExistsFunc != nil {
		return m.PhoneExistsFunc(ctx, phone)
	}
	// Default behavior: available
	return false, nil
}

// QIDExists reports whether a QID is taken
func (m *MockAccountRepository) QIDExists(ctx context.Context, qid string) (bool, error) {
	if m.QIDExistsFunc != nil {
		return m.QIDExistsFunc(ctx, qid)
	}
	// Default behavior: available
	return false, nil
}

// EmailExists reports whether an email is taken
func (m *MockAccountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	if m.EmailExistsFunc != nil {
		return m.EmailExistsFunc(ctx, email)
	}
	// Default behavior: available
	return false, nil
}

// Ensure MockAccountRepository implements the interface
var _ domain.AccountRepository = (*MockAccountRepository)(nil)
