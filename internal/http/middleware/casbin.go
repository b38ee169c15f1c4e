package middleware

import (
	"net/http"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
)

// CasbinMiddleware defines the interface for Casbin authorization middleware
type CasbinMiddleware interface {
	Enforce() gin.HandlerFunc
}

// RoleCasbinMW authorizes requests against the policy table using the
// caller's role from the validated token. Policies are keyed
// "role_<Role>", path, method.
type RoleCasbinMW struct {
	enforcer *casbin.Enforcer
}

// NewRoleCasbinMW creates a new RoleCasbinMW instance
func NewRoleCasbinMW(enforcer *casbin.Enforcer) *RoleCasbinMW {
	return &RoleCasbinMW{enforcer: enforcer}
}

// Enforce returns the Casbin authorization middleware
func (mw *RoleCasbinMW) Enforce() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		userRole, roleExists := c.Get("user_role")
		if !roleExists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Role not found in token"})
			c.Abort()
			return
		}

		// Parameterized route so :id style paths match keyMatch policies.
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		allowed, err := mw.enforcer.Enforce("role_"+userRole.(string), path, c.Request.Method)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Authorization check failed"})
			c.Abort()
			return
		}
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}

		c.Next()
	})
}

var _ CasbinMiddleware = (*RoleCasbinMW)(nil)
