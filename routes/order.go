package routes

import (
	orderControllers "github.com/Vznu7/one-piece-web-application/controllers/order"
	paymentControllers "github.com/Vznu7/one-piece-web-application/controllers/payment"
	"github.com/gin-gonic/gin"
)

func SetupOrderRoutes(r *gin.Engine, d *Deps) {
	orders := r.Group("/orders")
	orders.Use(d.authenticate())
	{
		// Place an order (Idempotency-Key optional)
		orders.POST("", orderControllers.PlaceOrderHandler(d.Orders))

		// The caller's own orders
		orders.GET("", orderControllers.GetUserOrdersHandler(d.Store))

		// Fetch by id or ORD- number
		orders.GET("/:id", orderControllers.GetOrderHandler(d.Store))

		// Cancel (customer) or update status, payment status, tracking (admin)
		orders.PATCH("/:id", orderControllers.UpdateOrderHandler(d.Orders))
	}

	pay := r.Group("/payment")
	pay.Use(d.authenticate())
	{
		pay.POST("/create-order", paymentControllers.CreateIntentHandler(d.Payments))
		pay.POST("/verify", paymentControllers.VerifyPaymentHandler(d.Payments))
	}
}
