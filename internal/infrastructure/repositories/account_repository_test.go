package repositories

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Veerendratanneru7/transport/domain"
)

func setupAccountDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(&DBIdentity{}, &DBIdentityRole{}, &DBProfile{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

func seedAccount(t *testing.T, repo domain.AccountRepository) *domain.Identity {
	t.Helper()

	identity := &domain.Identity{
		ID:       "id-1",
		Phone:    "97412345678",
		Roles:    []domain.Role{domain.RoleVehicleOwner},
		IsActive: true,
	}
	profile := &domain.Profile{
		IdentityID: "id-1",
		Name:       "Ahmed Ali",
		Email:      "28512345678@gmail.com",
		Phone:      "97412345678",
		QID:        "28512345678",
		Username:   "28512345678",
		IsActive:   true,
	}
	if err := repo.CreateAccount(context.Background(), identity, profile); err != nil {
		t.Fatalf("failed to seed account: %v", err)
	}
	return identity
}

func TestAccountRepositoryImpl_CreateAndFindByPhone(t *testing.T) {
	repo := NewAccountRepository(setupAccountDB(t))
	seedAccount(t, repo)
	ctx := context.Background()

	tests := []struct {
		name     string
		variants []string
		found    bool
	}{
		{"stored 11-digit form", []string{"97412345678"}, true},
		{"any matching variant wins", []string{"+97412345678", "97412345678", "12345678"}, true},
		{"unknown number", []string{"97499990000"}, false},
		{"empty variants", []string{"", ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := repo.FindIdentityByPhone(ctx, tt.variants)
			if tt.found {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if identity.ID != "id-1" {
					t.Errorf("expected id-1, got %q", identity.ID)
				}
				if !identity.HasRole(domain.RoleVehicleOwner) {
					t.Errorf("expected the role binding to load, got %v", identity.Roles)
				}
			} else if err != domain.ErrAccountNotFound {
				t.Errorf("expected ErrAccountNotFound, got %v", err)
			}
		})
	}
}

func TestAccountRepositoryImpl_FindIdentityByQIDAndPhone(t *testing.T) {
	repo := NewAccountRepository(setupAccountDB(t))
	seedAccount(t, repo)
	ctx := context.Background()

	identity, err := repo.FindIdentityByQIDAndPhone(ctx, "28512345678", "97412345678")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if identity.ID != "id-1" {
		t.Errorf("expected id-1, got %q", identity.ID)
	}

	// Right QID, wrong phone must not match.
	if _, err := repo.FindIdentityByQIDAndPhone(ctx, "28512345678", "97400000000"); err != domain.ErrAccountNotFound {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountRepositoryImpl_ExistenceChecks(t *testing.T) {
	repo := NewAccountRepository(setupAccountDB(t))
	seedAccount(t, repo)
	ctx := context.Background()

	cases := []struct {
		name  string
		check func() (bool, error)
		want  bool
	}{
		{"phone taken", func() (bool, error) { return repo.PhoneExists(ctx, "97412345678") }, true},
		{"phone free", func() (bool, error) { return repo.PhoneExists(ctx, "97499990000") }, false},
		{"qid taken", func() (bool, error) { return repo.QIDExists(ctx, "28512345678") }, true},
		{"qid free", func() (bool, error) { return repo.QIDExists(ctx, "29900000000") }, false},
		{"email taken", func() (bool, error) { return repo.EmailExists(ctx, "28512345678@gmail.com") }, true},
		{"email free", func() (bool, error) { return repo.EmailExists(ctx, "none@gmail.com") }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.check()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestAccountRepositoryImpl_FindProfileByIdentityID(t *testing.T) {
	repo := NewAccountRepository(setupAccountDB(t))
	seedAccount(t, repo)

	profile, err := repo.FindProfileByIdentityID(context.Background(), "id-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Name != "Ahmed Ali" || profile.QID != "28512345678" {
		t.Errorf("unexpected profile: %+v", profile)
	}

	if _, err := repo.FindProfileByIdentityID(context.Background(), "missing"); err != domain.ErrAccountNotFound {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountRepositoryImpl_DuplicatePhoneRejected(t *testing.T) {
	repo := NewAccountRepository(setupAccountDB(t))
	seedAccount(t, repo)

	err := repo.CreateAccount(context.Background(), &domain.Identity{
		ID:       "id-2",
		Phone:    "97412345678",
		Roles:    []domain.Role{domain.RoleVehicleOwner},
		IsActive: true,
	}, &domain.Profile{
		IdentityID: "id-2",
		Phone:      "97412345678",
		QID:        "29900000000",
	})
	if err == nil {
		t.Fatal("expected the unique phone constraint to reject the duplicate")
	}
}
