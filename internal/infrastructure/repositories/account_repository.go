package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Veerendratanneru7/transport/domain"
)

// AccountRepositoryImpl implements domain.AccountRepository using GORM
type AccountRepositoryImpl struct {
	db *gorm.DB
}

// DBIdentity represents the database model for Identity
type DBIdentity struct {
	ID           string `gorm:"primaryKey;size:36"`
	Phone        string `gorm:"index;size:32"`
	PasswordHash string `gorm:"column:password"`
	IsActive     bool   `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (DBIdentity) TableName() string { return "identities" }

// DBIdentityRole binds a role to an identity
type DBIdentityRole struct {
	ID         uint   `gorm:"primaryKey"`
	IdentityID string `gorm:"uniqueIndex:idx_identity_role;size:36"`
	Role       string `gorm:"uniqueIndex:idx_identity_role;size:64"`
}

func (DBIdentityRole) TableName() string { return "identity_roles" }

// DBProfile represents the database model for Profile. Phone, email and QID
// are unique when present.
type DBProfile struct {
	ID         uint    `gorm:"primaryKey"`
	IdentityID string  `gorm:"uniqueIndex;size:36"`
	Name       string  `gorm:"size:150"`
	Email      *string `gorm:"uniqueIndex;size:256"`
	Phone      *string `gorm:"uniqueIndex;size:11"`
	QID        *string `gorm:"column:qid;uniqueIndex;size:50"`
	RoleID     string  `gorm:"size:64"`
	Username   string  `gorm:"size:256"`
	IsActive   bool
	CreatedBy  string `gorm:"size:150"`
	CreatedAt  time.Time
	UpdatedBy  string `gorm:"size:150"`
	UpdatedAt  time.Time
}

func (DBProfile) TableName() string { return "user_profiles" }

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) domain.AccountRepository {
	return &AccountRepositoryImpl{db: db}
}

// FindIdentityByPhone implements domain.AccountRepository. Profile phones are
// consulted first, then the raw identity phone field, matching any variant.
func (r *AccountRepositoryImpl) FindIdentityByPhone(ctx context.Context, variants []string) (*domain.Identity, error) {
	variants = nonEmpty(variants)
	if len(variants) == 0 {
		return nil, domain.ErrAccountNotFound
	}

	var profile DBProfile
	err := r.db.WithContext(ctx).Where("phone IN ?", variants).First(&profile).Error
	if err == nil {
		return r.loadIdentity(ctx, profile.IdentityID)
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	var identity DBIdentity
	err = r.db.WithContext(ctx).Where("phone IN ?", variants).First(&identity).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return r.toDomain(ctx, &identity)
}

// FindIdentityByID implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindIdentityByID(ctx context.Context, id string) (*domain.Identity, error) {
	return r.loadIdentity(ctx, id)
}

// FindIdentityByQIDAndPhone implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindIdentityByQIDAndPhone(ctx context.Context, qid, phone string) (*domain.Identity, error) {
	var profile DBProfile
	err := r.db.WithContext(ctx).Where("qid = ? AND phone = ?", qid, phone).First(&profile).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return r.loadIdentity(ctx, profile.IdentityID)
}

// FindProfileByIdentityID implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindProfileByIdentityID(ctx context.Context, identityID string) (*domain.Profile, error) {
	var profile DBProfile
	err := r.db.WithContext(ctx).Where("identity_id = ?", identityID).First(&profile).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return profileToDomain(&profile), nil
}

// CreateAccount implements domain.AccountRepository. Identity, role bindings
// and profile are written in one transaction.
func (r *AccountRepositoryImpl) CreateAccount(ctx context.Context, identity *domain.Identity, profile *domain.Profile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbIdentity := &DBIdentity{
			ID:           identity.ID,
			Phone:        identity.Phone,
			PasswordHash: identity.PasswordHash,
			IsActive:     identity.IsActive,
		}
		if err := tx.Create(dbIdentity).Error; err != nil {
			return err
		}
		for _, role := range identity.Roles {
			if err := tx.Create(&DBIdentityRole{IdentityID: identity.ID, Role: string(role)}).Error; err != nil {
				return err
			}
		}
		dbProfile := profileToDB(profile)
		dbProfile.IdentityID = identity.ID
		if err := tx.Create(dbProfile).Error; err != nil {
			return err
		}
		profile.ID = dbProfile.ID
		return nil
	})
}

// PhoneExists implements domain.AccountRepository
func (r *AccountRepositoryImpl) PhoneExists(ctx context.Context, phone string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&DBProfile{}).Where("phone = ?", phone).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := r.db.WithContext(ctx).Model(&DBIdentity{}).Where("phone = ?", phone).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// QIDExists implements domain.AccountRepository
func (r *AccountRepositoryImpl) QIDExists(ctx context.Context, qid string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBProfile{}).Where("qid = ?", qid).Count(&count).Error
	return count > 0, err
}

// EmailExists implements domain.AccountRepository
func (r *AccountRepositoryImpl) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBProfile{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *AccountRepositoryImpl) loadIdentity(ctx context.Context, id string) (*domain.Identity, error) {
	var identity DBIdentity
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&identity).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return r.toDomain(ctx, &identity)
}

func (r *AccountRepositoryImpl) toDomain(ctx context.Context, dbIdentity *DBIdentity) (*domain.Identity, error) {
	var bindings []DBIdentityRole
	if err := r.db.WithContext(ctx).Where("identity_id = ?", dbIdentity.ID).Find(&bindings).Error; err != nil {
		return nil, err
	}
	roles := make([]domain.Role, 0, len(bindings))
	for _, b := range bindings {
		roles = append(roles, domain.Role(b.Role))
	}
	return &domain.Identity{
		ID:           dbIdentity.ID,
		Phone:        dbIdentity.Phone,
		PasswordHash: dbIdentity.PasswordHash,
		Roles:        roles,
		IsActive:     dbIdentity.IsActive,
		CreatedAt:    dbIdentity.CreatedAt,
		UpdatedAt:    dbIdentity.UpdatedAt,
	}, nil
}

func profileToDomain(p *DBProfile) *domain.Profile {
	return &domain.Profile{
		ID:         p.ID,
		IdentityID: p.IdentityID,
		Name:       p.Name,
		Email:      deref(p.Email),
		Phone:      deref(p.Phone),
		QID:        deref(p.QID),
		RoleID:     p.RoleID,
		Username:   p.Username,
		IsActive:   p.IsActive,
		CreatedBy:  p.CreatedBy,
		CreatedAt:  p.CreatedAt,
		UpdatedBy:  p.UpdatedBy,
		UpdatedAt:  p.UpdatedAt,
	}
}

func profileToDB(p *domain.Profile) *DBProfile {
	return &DBProfile{
		ID:         p.ID,
		IdentityID: p.IdentityID,
		Name:       p.Name,
		Email:      optional(p.Email),
		Phone:      optional(p.Phone),
		QID:        optional(p.QID),
		RoleID:     p.RoleID,
		Username:   p.Username,
		IsActive:   p.IsActive,
		CreatedBy:  p.CreatedBy,
		UpdatedBy:  p.UpdatedBy,
	}
}

func nonEmpty(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
