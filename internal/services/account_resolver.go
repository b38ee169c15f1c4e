package services

import (
	"context"

	"github.com/Veerendratanneru7/transport/domain"
)

// AccountResolverImpl maps a caller-supplied phone number to an identity and
// checks it carries the role the requested flow demands.
type AccountResolverImpl struct {
	accounts domain.AccountRepository
}

// NewAccountResolver creates a new account resolver
func NewAccountResolver(accounts domain.AccountRepository) *AccountResolverImpl {
	return &AccountResolverImpl{accounts: accounts}
}

// Resolve normalizes the raw phone, looks the identity up across the stored
// phone representations and enforces the required role. Callers surface
// ErrAccountNotFound and ErrRoleMismatch with the same message so a probe
// cannot distinguish an unknown phone from a wrong-role one.
func (s *AccountResolverImpl) Resolve(ctx context.Context, rawPhone string, requiredRole domain.Role) (*domain.Identity, error) {
	phone, err := domain.NormalizePhone(rawPhone)
	if err != nil {
		return nil, err
	}

	identity, err := s.accounts.FindIdentityByPhone(ctx, []string{phone.E164(), phone.Local11(), phone.Core()})
	if err != nil {
		return nil, err
	}
	if !identity.IsActive {
		return nil, domain.ErrAccountNotFound
	}
	if requiredRole != "" && !identity.HasRole(requiredRole) {
		return nil, domain.ErrRoleMismatch
	}
	return identity, nil
}

// ResolveByQIDAndPhone matches a vehicle owner by national id plus phone.
// Both must belong to the same profile; role must be VehicleOwner or Owner.
func (s *AccountResolverImpl) ResolveByQIDAndPhone(ctx context.Context, qid, rawPhone string) (*domain.Identity, error) {
	phone, err := domain.NormalizePhone(rawPhone)
	if err != nil {
		return nil, err
	}

	identity, err := s.accounts.FindIdentityByQIDAndPhone(ctx, qid, phone.Local11())
	if err != nil {
		return nil, err
	}
	if !identity.IsActive {
		return nil, domain.ErrAccountNotFound
	}
	if !identity.HasRole(domain.RoleVehicleOwner) && !identity.HasRole(domain.RoleOwner) {
		return nil, domain.ErrRoleMismatch
	}
	return identity, nil
}
