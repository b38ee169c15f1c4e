package services

import (
	"context"
	"testing"

	"github.com/Veerendratanneru7/transport/domain"
	"github.com/Veerendratanneru7/transport/internal/mocks"
)

func ownerIdentity() *domain.Identity {
	return &domain.Identity{
		ID:       "identity-1",
		Phone:    "97412345678",
		Roles:    []domain.Role{domain.RoleOwner},
		IsActive: true,
	}
}

func TestAccountResolverImpl_Resolve(t *testing.T) {
	tests := []struct {
		name          string
		phone         string
		requiredRole  domain.Role
		setupMocks    func(*mocks.MockAccountRepository)
		expectedError error
		expectedID    string
	}{
		{
			name:         "successful resolve with local number",
			phone:        "12345678",
			requiredRole: domain.RoleOwner,
			setupMocks: func(repo *mocks.MockAccountRepository) {
				repo.FindIdentityByPhoneFunc = func(ctx context.Context, variants []string) (*domain.Identity, error) {
					if len(variants) != 3 {
						t.Errorf("expected 3 phone variants, got %v", variants)
					}
					return ownerIdentity(), nil
				}
			},
			expectedID: "identity-1",
		},
		{
			name:          "invalid phone format",
			phone:         "12345",
			requiredRole:  domain.RoleOwner,
			setupMocks:    func(repo *mocks.MockAccountRepository) {},
			expectedError: domain.ErrInvalidPhoneFormat,
		},
		{
			name:          "account not found",
			phone:         "12345678",
			requiredRole:  domain.RoleOwner,
			setupMocks:    func(repo *mocks.MockAccountRepository) {},
			expectedError: domain.ErrAccountNotFound,
		},
		{
			name:         "role mismatch",
			phone:        "12345678",
			requiredRole: domain.RoleMinistryOfficer,
			setupMocks: func(repo *mocks.MockAccountRepository) {
				repo.FindIdentityByPhoneFunc = func(ctx context.Context, variants []string) (*domain.Identity, error) {
					return ownerIdentity(), nil
				}
			},
			expectedError: domain.ErrRoleMismatch,
		},
		{
			name:         "inactive account treated as missing",
			phone:        "12345678",
			requiredRole: domain.RoleOwner,
			setupMocks: func(repo *mocks.MockAccountRepository) {
				repo.FindIdentityByPhoneFunc = func(ctx context.Context, variants []string) (*domain.Identity, error) {
					id := ownerIdentity()
					id.IsActive = false
					return id, nil
				}
			},
			expectedError: domain.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockAccountRepository()
			tt.setupMocks(repo)
			resolver := NewAccountResolver(repo)

			identity, err := resolver.Resolve(context.Background(), tt.phone, tt.requiredRole)
			if err != tt.expectedError {
				t.Fatalf("expected error %v, got %v", tt.expectedError, err)
			}
			if tt.expectedError == nil && identity.ID != tt.expectedID {
				t.Errorf("expected identity %q, got %q", tt.expectedID, identity.ID)
			}
		})
	}
}

func TestAccountResolverImpl_ResolveByQIDAndPhone(t *testing.T) {
	repo := mocks.NewMockAccountRepository()
	repo.FindIdentityByQIDAndPhoneFunc = func(ctx context.Context, qid, phone string) (*domain.Identity, error) {
		if qid != "28512345678" {
			t.Errorf("unexpected qid %q", qid)
		}
		if phone != "97412345678" {
			t.Errorf("expected the stored 11-digit form, got %q", phone)
		}
		return &domain.Identity{
			ID:       "identity-2",
			Roles:    []domain.Role{domain.RoleVehicleOwner},
			IsActive: true,
		}, nil
	}
	resolver := NewAccountResolver(repo)

	identity, err := resolver.ResolveByQIDAndPhone(context.Background(), "28512345678", "+974 1234 5678")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if identity.ID != "identity-2" {
		t.Errorf("expected identity-2, got %q", identity.ID)
	}
}

func TestAccountResolverImpl_ResolveByQIDAndPhone_WrongRole(t *testing.T) {
	repo := mocks.NewMockAccountRepository()
	repo.FindIdentityByQIDAndPhoneFunc = func(ctx context.Context, qid, phone string) (*domain.Identity, error) {
		return &domain.Identity{
			ID:       "identity-3",
			Roles:    []domain.Role{domain.RoleMinistryOfficer},
			IsActive: true,
		}, nil
	}
	resolver := NewAccountResolver(repo)

	_, err := resolver.ResolveByQIDAndPhone(context.Background(), "28512345678", "12345678")
	if err != domain.ErrRoleMismatch {
		t.Errorf("expected ErrRoleMismatch, got %v", err)
	}
}
