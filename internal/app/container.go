package app

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Veerendratanneru7/transport/domain"
	"github.com/Veerendratanneru7/transport/internal/config"
	"github.com/Veerendratanneru7/transport/internal/infrastructure/auth"
	"github.com/Veerendratanneru7/transport/internal/infrastructure/database"
	"github.com/Veerendratanneru7/transport/internal/infrastructure/notifications"
	"github.com/Veerendratanneru7/transport/internal/infrastructure/repositories"
	"github.com/Veerendratanneru7/transport/internal/services"
)

// Container holds all dependencies. It exists for wiring in tests and tools;
// the HTTP server itself is assembled in Run.
type Container struct {
	Config *config.Config

	DB          *gorm.DB
	RedisClient *redis.Client

	AccountRepo      domain.AccountRepository
	RegistrationRepo domain.RegistrationRepository
	SessionRepo      domain.SessionRepository
	ChallengeStore   domain.ChallengeStore
	RateLimitStore   domain.RateLimitStore
	AuditSink        domain.AuditSink

	TokenSvc    domain.TokenService
	PasswordSvc domain.PasswordService
	Provider    domain.VerificationProvider
	OtpSvc      *services.OtpOrchestratorImpl
	ReviewSvc   *services.ReviewServiceImpl
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	gdb, err := database.Open(cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(gdb); err != nil {
		return nil, err
	}
	c.DB = gdb
	c.RedisClient = database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB).Client

	c.AccountRepo = repositories.NewAccountRepository(gdb)
	c.RegistrationRepo = repositories.NewRegistrationRepository(gdb)
	c.SessionRepo = repositories.NewSessionRepository(c.RedisClient, cfg.SessionTTL)
	c.ChallengeStore = repositories.NewChallengeStore(c.RedisClient, cfg.SessionTTL)
	c.RateLimitStore = repositories.NewRateLimitStore(c.RedisClient, cfg.SessionTTL)
	c.AuditSink = repositories.NewAuditRepository(gdb)

	c.TokenSvc = auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTTL)
	// Review-side accounts are provisioned out of band; provisioning tools
	// reach the hasher through the container.
	c.PasswordSvc = auth.NewPasswordService()
	c.Provider = notifications.NewTwilioProvider(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom, c.RedisClient, notifications.ProviderConfig{
		CodeLength:     cfg.OTPLength,
		TTL:            cfg.OTPTTL,
		MaxAttempts:    5,
		DevFallback:    cfg.DevFallback,
		DevFallbackOTP: cfg.DevFallbackOTP,
	})

	c.OtpSvc = services.NewOtpOrchestrator(
		services.NewAccountResolver(c.AccountRepo),
		c.AccountRepo,
		c.Provider,
		c.ChallengeStore,
		services.NewRateLimiter(c.RateLimitStore, cfg.OTPMaxIssued, cfg.OTPCooldown),
		c.SessionRepo,
		c.TokenSvc,
		c.AuditSink,
		services.OtpConfig{
			OTPTTL:     cfg.OTPTTL,
			SessionTTL: cfg.SessionTTL,
			AccessTTL:  cfg.AccessTTL,
		},
	)
	c.ReviewSvc = services.NewReviewService(c.RegistrationRepo, c.AuditSink)

	return c, nil
}
