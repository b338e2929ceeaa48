package routes

import (
	addressControllers "github.com/Vznu7/one-piece-web-application/controllers/address"
	userControllers "github.com/Vznu7/one-piece-web-application/controllers/user"
	"github.com/gin-gonic/gin"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires a token.
func SetupUserRoutes(r *gin.Engine, d *Deps) {
	userGroup := r.Group("/user")
	userGroup.Use(d.authenticate())
	{
		userGroup.GET("/me", userControllers.GetUser(d.Store))

		// ──────────────── Address Book ────────────────
		addresses := userGroup.Group("/addresses")
		{
			addresses.GET("", addressControllers.ListAddresses(d.Store))
			addresses.POST("", addressControllers.CreateAddress(d.Store))
			addresses.PUT("/:id", addressControllers.UpdateAddress(d.Store))
			addresses.PUT("/:id/default", addressControllers.SetDefaultAddress(d.Store))
			addresses.DELETE("/:id", addressControllers.DeleteAddress(d.Store))
		}
	}
}
