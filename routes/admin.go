package routes

import (
	orderControllers "github.com/Vznu7/one-piece-web-application/controllers/order"
	productcontroller "github.com/Vznu7/one-piece-web-application/controllers/product"
	"github.com/Vznu7/one-piece-web-application/middleware"
	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires an admin
// token or the API key.
func SetupAdminRoutes(r *gin.Engine, d *Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(d.authenticate(), middleware.RequireAdmin)
	{
		// ─────────── Order Management ───────────
		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.GetAllOrdersHandler(d.Store))
			orderAdmin.GET("/export", orderControllers.ExportOrdersToExcel(d.Store))
			orderAdmin.GET("/ws", d.Hub.Handler)
		}

		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productcontroller.CreateProduct(d.Products))
			productAdmin.PUT("/:id/price", productcontroller.UpdatePrice(d.Products))
			productAdmin.POST("/import-excel", productcontroller.ImportProductsFromExcel(d.Products))
			productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(d.Products))
		}
	}
}
