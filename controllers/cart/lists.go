package cartControllers

import (
	"net/http"

	"github.com/Vznu7/one-piece-web-application/apperrors"
	"github.com/Vznu7/one-piece-web-application/cart"
	"github.com/gin-gonic/gin"
)

type ProductRef struct {
	ProductID string `json:"productId" binding:"required"`
}

func cards(items []cart.ProductCard) []cart.ProductCard {
	if items == nil {
		return []cart.ProductCard{}
	}
	return items
}

// GET /wishlist
func GetWishlist(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := withSession(c, d, func(*cart.Session) (bool, error) { return false, nil })
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": cards(s.Wishlist.Items)})
	}
}

// POST /wishlist
func AddToWishlist(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductRef
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		p, err := d.Store.GetProduct(c.Request.Context(), input.ProductID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		s, ok := withSession(c, d, func(s *cart.Session) (bool, error) {
			if s.Wishlist.Contains(p.ID) {
				return false, nil
			}
			s.Wishlist.Add(*p, now())
			return true, nil
		})
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": cards(s.Wishlist.Items)})
	}
}

// DELETE /wishlist/:productId
func RemoveFromWishlist(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := withSession(c, d, func(s *cart.Session) (bool, error) {
			return s.Wishlist.Remove(c.Param("productId")), nil
		})
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": cards(s.Wishlist.Items)})
	}
}

// GET /recently-viewed
func GetRecentlyViewed(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := withSession(c, d, func(*cart.Session) (bool, error) { return false, nil })
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": cards(s.Recent.Items)})
	}
}

// POST /recently-viewed
func AddRecentlyViewed(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductRef
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		p, err := d.Store.GetProduct(c.Request.Context(), input.ProductID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		s, ok := withSession(c, d, func(s *cart.Session) (bool, error) {
			s.Recent.Add(*p, now())
			return true, nil
		})
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": cards(s.Recent.Items)})
	}
}
