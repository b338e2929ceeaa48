package routes

import (
	"net/http"

	"github.com/Vznu7/one-piece-web-application/auth"
	cartControllers "github.com/Vznu7/one-piece-web-application/controllers/cart"
	orderControllers "github.com/Vznu7/one-piece-web-application/controllers/order"
	paymentControllers "github.com/Vznu7/one-piece-web-application/controllers/payment"
	productcontroller "github.com/Vznu7/one-piece-web-application/controllers/product"
	"github.com/Vznu7/one-piece-web-application/events"
	"github.com/Vznu7/one-piece-web-application/middleware"
	"github.com/Vznu7/one-piece-web-application/store"
	"github.com/gin-gonic/gin"
)

// Deps is everything the route groups hand to their controllers.
type Deps struct {
	Store       store.Store
	Issuer      *auth.Issuer
	AdminAPIKey string
	Hub         *events.Hub

	Products *productcontroller.Deps
	Cart     *cartControllers.Deps
	Orders   *orderControllers.Deps
	Payments *paymentControllers.Deps
}

func (d *Deps) authenticate() gin.HandlerFunc {
	return middleware.Authenticate(d.Issuer, d.AdminAPIKey)
}

// SetupRoutes is the single entry-point that wires up every route group.
func SetupRoutes(r *gin.Engine, d *Deps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 1️⃣ Public auth routes
	SetupAuthRoutes(r, d)

	// 2️⃣ Catalogue and session shopping routes
	SetupShopRoutes(r, d)

	// 3️⃣ Signed-in user routes
	SetupUserRoutes(r, d)

	// 4️⃣ Orders and payment
	SetupOrderRoutes(r, d)

	// 5️⃣ Back-office
	SetupAdminRoutes(r, d)
}
