package repositories

import (
	"context"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Veerendratanneru7/transport/domain"
)

// RegistrationRepositoryImpl implements domain.RegistrationRepository using GORM
type RegistrationRepositoryImpl struct {
	db *gorm.DB
}

// DBVehicleRegistration represents the database model for VehicleRegistration
type DBVehicleRegistration struct {
	ID             uint   `gorm:"primaryKey"`
	VehicleType    string `gorm:"size:20;index"`
	OwnerPhone     string `gorm:"size:50;index"`
	OwnerName      string `gorm:"size:150"`
	DriverPhone    string `gorm:"size:50"`
	DriverName     string `gorm:"size:150"`
	VehicleNumber  string `gorm:"size:20"`
	Documents      map[string]string `gorm:"serializer:json"`
	Status         string `gorm:"size:30;index"`
	SubmittedAt    time.Time
	ClientIP       string `gorm:"size:50"`
	ApproveComment *string `gorm:"size:1000"`
	ApprovedByID   *string `gorm:"size:450"`
	ApprovedByName *string `gorm:"size:256"`
	ApprovedByRole *string `gorm:"size:100"`
	ApprovedAt     *time.Time
	RejectReason   *string `gorm:"size:1000"`
	RejectedByID   *string `gorm:"size:450"`
	RejectedByName *string `gorm:"size:256"`
	RejectedByRole *string `gorm:"size:100"`
	RejectedAt     *time.Time
	PreviousStatus string  `gorm:"size:30"`
	UniqueToken    *string `gorm:"uniqueIndex;size:20"`
}

func (DBVehicleRegistration) TableName() string { return "vehicle_registrations" }

// DBRefSequence is the single-row counter backing reference token assignment.
type DBRefSequence struct {
	ID    uint `gorm:"primaryKey"`
	Value int64
}

func (DBRefSequence) TableName() string { return "ref_sequences" }

// NewRegistrationRepository creates a new registration repository
func NewRegistrationRepository(db *gorm.DB) domain.RegistrationRepository {
	return &RegistrationRepositoryImpl{db: db}
}

// Create implements domain.RegistrationRepository
func (r *RegistrationRepositoryImpl) Create(ctx context.Context, v *domain.VehicleRegistration) error {
	dbReg := registrationToDB(v)
	if err := r.db.WithContext(ctx).Create(dbReg).Error; err != nil {
		return err
	}
	v.ID = dbReg.ID
	return nil
}

// FindByID implements domain.RegistrationRepository
func (r *RegistrationRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.VehicleRegistration, error) {
	var dbReg DBVehicleRegistration
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbReg).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, err
	}
	return registrationToDomain(&dbReg), nil
}

// FindByToken implements domain.RegistrationRepository
func (r *RegistrationRepositoryImpl) FindByToken(ctx context.Context, token string) (*domain.VehicleRegistration, error) {
	var dbReg DBVehicleRegistration
	err := r.db.WithContext(ctx).Where("unique_token = ?", token).First(&dbReg).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, err
	}
	return registrationToDomain(&dbReg), nil
}

// List implements domain.RegistrationRepository. Visibility filtering is the
// caller's concern.
func (r *RegistrationRepositoryImpl) List(ctx context.Context) ([]*domain.VehicleRegistration, error) {
	var dbRegs []DBVehicleRegistration
	if err := r.db.WithContext(ctx).Order("submitted_at DESC").Find(&dbRegs).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.VehicleRegistration, 0, len(dbRegs))
	for i := range dbRegs {
		out = append(out, registrationToDomain(&dbRegs[i]))
	}
	return out, nil
}

// Save implements domain.RegistrationRepository
func (r *RegistrationRepositoryImpl) Save(ctx context.Context, v *domain.VehicleRegistration) error {
	return r.db.WithContext(ctx).Save(registrationToDB(v)).Error
}

// TokenExists implements domain.RegistrationRepository
func (r *RegistrationRepositoryImpl) TokenExists(ctx context.Context, token string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBVehicleRegistration{}).Where("unique_token = ?", token).Count(&count).Error
	return count > 0, err
}

// AllocateRefToken implements domain.RegistrationRepository. The counter is
// seeded once from the highest existing REF token, then advanced with an
// atomic in-place increment so concurrent approvals never share a number.
func (r *RegistrationRepositoryImpl) AllocateRefToken(ctx context.Context) (string, error) {
	var next int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq DBRefSequence
		err := tx.Where("id = ?", 1).First(&seq).Error
		if err == gorm.ErrRecordNotFound {
			seed, seedErr := r.seedFromExistingTokens(tx)
			if seedErr != nil {
				return seedErr
			}
			seq = DBRefSequence{ID: 1, Value: seed}
			if createErr := tx.Create(&seq).Error; createErr != nil {
				return createErr
			}
		} else if err != nil {
			return err
		}

		if err := tx.Model(&DBRefSequence{}).Where("id = ?", 1).
			Update("value", gorm.Expr("value + ?", 1)).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", 1).First(&seq).Error; err != nil {
			return err
		}
		next = seq.Value
		return nil
	})
	if err != nil {
		return "", err
	}
	return domain.RefToken(next), nil
}

func (r *RegistrationRepositoryImpl) seedFromExistingTokens(tx *gorm.DB) (int64, error) {
	var tokens []string
	err := tx.Model(&DBVehicleRegistration{}).
		Where("unique_token LIKE ?", "REF%").
		Order("unique_token DESC").
		Limit(1).
		Pluck("unique_token", &tokens).Error
	if err != nil || len(tokens) == 0 {
		return 0, err
	}
	num, convErr := strconv.ParseInt(strings.TrimPrefix(tokens[0], "REF"), 10, 64)
	if convErr != nil {
		return 0, nil
	}
	return num, nil
}

func registrationToDB(v *domain.VehicleRegistration) *DBVehicleRegistration {
	dbReg := &DBVehicleRegistration{
		ID:             v.ID,
		VehicleType:    string(v.VehicleType),
		OwnerPhone:     v.OwnerPhone,
		OwnerName:      v.OwnerName,
		DriverPhone:    v.DriverPhone,
		DriverName:     v.DriverName,
		VehicleNumber:  v.VehicleNumber,
		Documents:      v.Documents,
		Status:         string(v.Status),
		SubmittedAt:    v.SubmittedAt,
		ClientIP:       v.ClientIP,
		PreviousStatus: string(v.PreviousStatus),
		UniqueToken:    optional(v.UniqueToken),
	}
	if v.Approval != nil {
		dbReg.ApproveComment = optional(v.Approval.Comment)
		dbReg.ApprovedByID = optional(v.Approval.ByID)
		dbReg.ApprovedByName = optional(v.Approval.ByName)
		dbReg.ApprovedByRole = optional(string(v.Approval.ByRole))
		at := v.Approval.At
		dbReg.ApprovedAt = &at
	}
	if v.Rejection != nil {
		dbReg.RejectReason = optional(v.Rejection.Reason)
		dbReg.RejectedByID = optional(v.Rejection.ByID)
		dbReg.RejectedByName = optional(v.Rejection.ByName)
		dbReg.RejectedByRole = optional(string(v.Rejection.ByRole))
		at := v.Rejection.At
		dbReg.RejectedAt = &at
	}
	return dbReg
}

func registrationToDomain(dbReg *DBVehicleRegistration) *domain.VehicleRegistration {
	v := &domain.VehicleRegistration{
		ID:             dbReg.ID,
		VehicleType:    domain.VehicleType(dbReg.VehicleType),
		OwnerPhone:     dbReg.OwnerPhone,
		OwnerName:      dbReg.OwnerName,
		DriverPhone:    dbReg.DriverPhone,
		DriverName:     dbReg.DriverName,
		VehicleNumber:  dbReg.VehicleNumber,
		Documents:      dbReg.Documents,
		Status:         domain.RegistrationStatus(dbReg.Status),
		SubmittedAt:    dbReg.SubmittedAt,
		ClientIP:       dbReg.ClientIP,
		PreviousStatus: domain.RegistrationStatus(dbReg.PreviousStatus),
		UniqueToken:    deref(dbReg.UniqueToken),
	}
	if dbReg.ApprovedAt != nil {
		v.Approval = &domain.ApprovalAudit{
			Comment: deref(dbReg.ApproveComment),
			ByID:    deref(dbReg.ApprovedByID),
			ByName:  deref(dbReg.ApprovedByName),
			ByRole:  domain.Role(deref(dbReg.ApprovedByRole)),
			At:      *dbReg.ApprovedAt,
		}
	}
	if dbReg.RejectedAt != nil {
		v.Rejection = &domain.RejectionAudit{
			Reason: deref(dbReg.RejectReason),
			ByID:   deref(dbReg.RejectedByID),
			ByName: deref(dbReg.RejectedByName),
			ByRole: domain.Role(deref(dbReg.RejectedByRole)),
			At:     *dbReg.RejectedAt,
		}
	}
	return v
}
