package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/Veerendratanneru7/transport/internal/http/handlers"
	"github.com/Veerendratanneru7/transport/internal/http/middleware"
)

func BuildRouter(ah *handlers.AuthHandlers, vh *handlers.VehicleHandlers, jwtmw *middleware.AuthMW, cb middleware.CasbinMiddleware) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/owner/login", ah.OwnerLogin)
	auth.POST("/owner/otp", ah.OwnerVerify)
	auth.POST("/owner/resend", ah.OwnerResend)
	auth.POST("/ministry/login", ah.MinistryLogin)
	auth.POST("/ministry/otp", ah.MinistryVerify)
	auth.POST("/ministry/resend", ah.MinistryResend)
	auth.POST("/user/signup", ah.Signup)
	auth.POST("/user/otp", ah.SignupVerify)
	auth.POST("/user/resend", ah.SignupResend)
	auth.POST("/user/login", ah.UserLogin)
	auth.POST("/user/login-otp", ah.UserLoginVerify)
	auth.POST("/user/login-resend", ah.UserLoginResend)
	auth.GET("/check-phone", ah.CheckPhone)
	auth.GET("/check-qid", ah.CheckQID)

	// Public status lookup; SuperAdmin visibility kicks in when a token is
	// presented.
	r.GET("/vehicles/token/:token", jwtmw.WithOptionalJWT(), vh.GetByToken)

	v := r.Group("/vehicles").Use(jwtmw.WithJWT(), cb.Enforce())
	v.POST("", vh.Create)
	v.GET("", vh.List)
	v.POST("/:id/verify", vh.Verify)
	v.POST("/:id/approve", vh.Approve)
	v.POST("/:id/reject", vh.Reject)
	v.POST("/:id/hide", vh.Hide)
	v.POST("/:id/unhide", vh.Unhide)

	return r
}
