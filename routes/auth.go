package routes

import (
	"github.com/Vznu7/one-piece-web-application/auth"
	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, d *Deps) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", auth.Login(d.Store, d.Issuer))
		authGroup.POST("/register", auth.Register(d.Store, d.Issuer))
	}
}
