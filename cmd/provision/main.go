package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/Veerendratanneru7/transport/domain"
	"github.com/Veerendratanneru7/transport/internal/app"
	"github.com/Veerendratanneru7/transport/internal/config"
)

// Provisions a review-side account (SuperAdmin, Admin, FinalApprover,
// DocumentVerifier, MinistryOfficer or Owner). Vehicle owners self-register
// through the signup flow and never pass through here.
func main() {
	name := flag.String("name", "", "display name")
	phone := flag.String("phone", "", "Qatar phone number")
	email := flag.String("email", "", "email address")
	username := flag.String("username", "", "login username")
	role := flag.String("role", "", "account role")
	password := flag.String("password", "", "initial password")
	flag.Parse()

	if *name == "" || *phone == "" || *role == "" || *password == "" {
		flag.Usage()
		log.Fatal("name, phone, role and password are required")
	}
	r := domain.Role(*role)
	if !r.Valid() || r == domain.RoleVehicleOwner {
		log.Fatalf("role %q cannot be provisioned", *role)
	}
	normalized, err := domain.NormalizePhone(*phone)
	if err != nil {
		log.Fatalf("phone: %v", err)
	}

	// Local development overrides; absent in production.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	c, err := app.NewContainer(cfg)
	if err != nil {
		log.Fatalf("container: %v", err)
	}

	hash, err := c.PasswordSvc.Hash(*password)
	if err != nil {
		log.Fatalf("password: %v", err)
	}

	identity := &domain.Identity{
		ID:           uuid.New().String(),
		Phone:        normalized.Local11(),
		PasswordHash: hash,
		Roles:        []domain.Role{r},
		IsActive:     true,
	}
	profile := &domain.Profile{
		IdentityID: identity.ID,
		Name:       *name,
		Email:      *email,
		Phone:      normalized.Local11(),
		Username:   *username,
		RoleID:     string(r),
		IsActive:   true,
		CreatedBy:  "provision",
	}

	if err := c.AccountRepo.CreateAccount(context.Background(), identity, profile); err != nil {
		log.Fatalf("create account: %v", err)
	}

	fmt.Printf("provisioned %s account %s (%s)\n", r, identity.ID, normalized.Local11())
}
