package productcontroller

import (
	"log"
	"net/http"

	"github.com/Vznu7/one-piece-web-application/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateProduct adds a product to the catalogue. A slug already in use is
// rejected.
func CreateProduct(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		product, err := input.Product()
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		id := uuid.NewString()
		product.ID = id
		if err := d.Store.UpsertProduct(c.Request.Context(), &product); err != nil {
			apperrors.Respond(c, err)
			return
		}
		if product.ID != id {
			apperrors.Respond(c, apperrors.Invalid("slug", "slug %q is already in use", product.Slug))
			return
		}
		log.Printf("✅ Product created: %s", product.Slug)
		c.JSON(http.StatusCreated, product)
	}
}
