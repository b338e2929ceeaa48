package productcontroller

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Vznu7/one-piece-web-application/apperrors"
	"github.com/Vznu7/one-piece-web-application/middleware"
	"github.com/Vznu7/one-piece-web-application/models"
	"github.com/gin-gonic/gin"
)

// GetProduct returns a single product by id or slug.
// URL param: /products/:id
func GetProduct(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := d.Store.GetProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		if id := middleware.SessionID(c); id != "" && d.Sessions != nil {
			d.recordView(context.WithoutCancel(c.Request.Context()), id, *product)
		}
		c.JSON(http.StatusOK, product)
	}
}

func (d *Deps) recordView(ctx context.Context, sessionID string, p models.Product) {
	s, err := d.Sessions.Load(ctx, sessionID)
	if err != nil {
		log.Printf("⚠️ Failed to load session %s: %v", sessionID, err)
		return
	}
	s.Recent.Add(p, time.Now().UTC())
	if err := d.Sessions.Save(ctx, s); err != nil {
		log.Printf("⚠️ Failed to record view of %s: %v", p.Slug, err)
	}
}

// GetProducts lists the catalogue, featured first. Optional ?category= and
// ?featured=true narrow the list.
func GetProducts(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := d.Store.ListProducts(c.Request.Context())
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		category := strings.ToLower(strings.TrimSpace(c.Query("category")))
		featuredOnly, _ := strconv.ParseBool(c.Query("featured"))

		out := make([]models.Product, 0, len(products))
		for _, p := range products {
			if category != "" && p.Category != category {
				continue
			}
			if featuredOnly && !p.Featured {
				continue
			}
			out = append(out, p)
		}
		c.JSON(http.StatusOK, out)
	}
}
