package app

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Veerendratanneru7/transport/internal/config"
	httpx "github.com/Veerendratanneru7/transport/internal/http"
	"github.com/Veerendratanneru7/transport/internal/http/handlers"
	"github.com/Veerendratanneru7/transport/internal/http/middleware"
	"github.com/Veerendratanneru7/transport/internal/infrastructure/auth"
	"github.com/Veerendratanneru7/transport/internal/infrastructure/database"
	"github.com/Veerendratanneru7/transport/internal/infrastructure/notifications"
	"github.com/Veerendratanneru7/transport/internal/infrastructure/repositories"
	"github.com/Veerendratanneru7/transport/internal/services"
)

func Run(cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	gdb, err := database.Open(cfg.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(gdb); err != nil {
		return err
	}
	cas, err := auth.NewCasbinService(gdb, cfg.CasbinModel)
	if err != nil {
		return err
	}
	rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB).Client
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return err
	}

	tokenSvc := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTTL)
	provider := notifications.NewTwilioProvider(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom, rdb, notifications.ProviderConfig{
		CodeLength:     cfg.OTPLength,
		TTL:            cfg.OTPTTL,
		MaxAttempts:    5,
		DevFallback:    cfg.DevFallback,
		DevFallbackOTP: cfg.DevFallbackOTP,
	})

	accountRepo := repositories.NewAccountRepository(gdb)
	registrationRepo := repositories.NewRegistrationRepository(gdb)
	sessionRepo := repositories.NewSessionRepository(rdb, cfg.SessionTTL)
	challengeStore := repositories.NewChallengeStore(rdb, cfg.SessionTTL)
	rateLimitStore := repositories.NewRateLimitStore(rdb, cfg.SessionTTL)
	auditRepo := repositories.NewAuditRepository(gdb)

	resolver := services.NewAccountResolver(accountRepo)
	limiter := services.NewRateLimiter(rateLimitStore, cfg.OTPMaxIssued, cfg.OTPCooldown)
	otpSvc := services.NewOtpOrchestrator(
		resolver,
		accountRepo,
		provider,
		challengeStore,
		limiter,
		sessionRepo,
		tokenSvc,
		auditRepo,
		services.OtpConfig{
			OTPTTL:     cfg.OTPTTL,
			SessionTTL: cfg.SessionTTL,
			AccessTTL:  cfg.AccessTTL,
		},
	)
	reviewSvc := services.NewReviewService(registrationRepo, auditRepo)

	authH := handlers.NewAuthHandlers(otpSvc, accountRepo)
	vehicleH := handlers.NewVehicleHandlers(reviewSvc, accountRepo)

	jwtMW := middleware.NewAuthMW(tokenSvc, sessionRepo)
	casbinMW := middleware.NewRoleCasbinMW(cas.E)

	r := httpx.BuildRouter(authH, vehicleH, jwtMW, casbinMW)

	policies, _ := cas.E.GetPolicy()
	if len(policies) == 0 {
		seedPolicies(cas)
		log.Println("casbin: seeded default policies")
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, r)
}

func seedPolicies(cas *auth.CasbinService) {
	reviewRoles := []string{"role_SuperAdmin", "role_Admin", "role_FinalApprover", "role_DocumentVerifier", "role_MinistryOfficer"}
	for _, role := range reviewRoles {
		cas.E.AddPolicy(role, "/vehicles", "GET")
	}
	for _, role := range []string{"role_SuperAdmin", "role_Admin", "role_FinalApprover", "role_DocumentVerifier"} {
		cas.E.AddPolicy(role, "/vehicles/:id/verify", "POST")
		cas.E.AddPolicy(role, "/vehicles/:id/approve", "POST")
		cas.E.AddPolicy(role, "/vehicles/:id/reject", "POST")
	}
	cas.E.AddPolicy("role_SuperAdmin", "/vehicles/:id/hide", "POST")
	cas.E.AddPolicy("role_SuperAdmin", "/vehicles/:id/unhide", "POST")
	for _, role := range []string{"role_Owner", "role_VehicleOwner"} {
		cas.E.AddPolicy(role, "/vehicles", "POST")
		cas.E.AddPolicy(role, "/vehicles", "GET")
	}
	_ = cas.E.SavePolicy()
}
