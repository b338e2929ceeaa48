package productcontroller

import (
	"log"
	"net/http"

	"github.com/Vznu7/one-piece-web-application/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PriceRequest struct {
	Price decimal.Decimal `json:"price"`
}

// UpdatePrice changes the live price. Orders already placed keep the unit
// price they were created with.
func UpdatePrice(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PriceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if !req.Price.IsPositive() {
			apperrors.Respond(c, apperrors.Invalid("price", "price must be positive"))
			return
		}

		ctx := c.Request.Context()
		current, err := d.Store.GetProduct(ctx, c.Param("id"))
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		product, err := d.Store.UpdateProductPrice(ctx, current.ID, req.Price)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		log.Printf("💲 Price of %s changed from %s to %s", product.Slug, current.Price, product.Price)
		c.JSON(http.StatusOK, product)
	}
}
