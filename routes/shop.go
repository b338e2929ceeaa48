package routes

import (
	cartControllers "github.com/Vznu7/one-piece-web-application/controllers/cart"
	productcontroller "github.com/Vznu7/one-piece-web-application/controllers/product"
	"github.com/Vznu7/one-piece-web-application/middleware"
	"github.com/gin-gonic/gin"
)

// SetupShopRoutes registers the catalogue and the anonymous session routes.
// Sessions are keyed by the X-Session-ID header.
func SetupShopRoutes(r *gin.Engine, d *Deps) {
	shop := r.Group("/")
	shop.Use(middleware.Session())
	{
		shop.GET("/products", productcontroller.GetProducts(d.Products))
		shop.GET("/products/:id", productcontroller.GetProduct(d.Products))

		cart := shop.Group("/cart")
		{
			cart.GET("", cartControllers.GetCart(d.Cart))
			cart.DELETE("", cartControllers.ClearCart(d.Cart))
			cart.GET("/quote", cartControllers.GetQuote(d.Cart))
			cart.POST("/items", cartControllers.AddCartItem(d.Cart))
			cart.PUT("/items", cartControllers.UpdateCartItem(d.Cart))
			cart.DELETE("/items/:productId", cartControllers.RemoveCartItem(d.Cart))
		}

		wishlist := shop.Group("/wishlist")
		{
			wishlist.GET("", cartControllers.GetWishlist(d.Cart))
			wishlist.POST("", cartControllers.AddToWishlist(d.Cart))
			wishlist.DELETE("/:productId", cartControllers.RemoveFromWishlist(d.Cart))
		}

		shop.GET("/recently-viewed", cartControllers.GetRecentlyViewed(d.Cart))
		shop.POST("/recently-viewed", cartControllers.AddRecentlyViewed(d.Cart))
	}
}
