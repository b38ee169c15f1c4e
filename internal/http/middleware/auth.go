package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Veerendratanneru7/transport/domain"
)

// AuthMW wraps the token service and session repository for middleware
type AuthMW struct {
	tokenSvc    domain.TokenService
	sessionRepo domain.SessionRepository
}

// NewAuthMW creates new auth middleware wrapper
func NewAuthMW(tokenSvc domain.TokenService, sessionRepo domain.SessionRepository) *AuthMW {
	return &AuthMW{
		tokenSvc:    tokenSvc,
		sessionRepo: sessionRepo,
	}
}

// WithJWT returns the JWT middleware function
func (mw *AuthMW) WithJWT() gin.HandlerFunc {
	return AuthMiddleware(mw.tokenSvc, mw.sessionRepo)
}

// WithOptionalJWT populates the caller identity when a valid token is
// presented but never rejects the request. Public routes use it so an
// authenticated SuperAdmin keeps their elevated visibility.
func (mw *AuthMW) WithOptionalJWT() gin.HandlerFunc {
	authenticate := AuthMiddleware(mw.tokenSvc, mw.sessionRepo)
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		authenticate(c)
	}
}
