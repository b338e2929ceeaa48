package cartControllers

import (
	"net/http"
	"time"

	"github.com/Vznu7/one-piece-web-application/apperrors"
	"github.com/Vznu7/one-piece-web-application/cart"
	"github.com/Vznu7/one-piece-web-application/middleware"
	"github.com/Vznu7/one-piece-web-application/models"
	"github.com/Vznu7/one-piece-web-application/store"
	"github.com/gin-gonic/gin"
)

// Deps are shared by the session-scoped handlers.
type Deps struct {
	Store    store.Store
	Sessions cart.Persister
	Shipping cart.ShippingPolicy
}

type CartItemInput struct {
	ProductID string `json:"productId" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type cartResponse struct {
	Items []cart.Line `json:"items"`
	cart.Quote
}

func respondCart(c *gin.Context, status int, d *Deps, s *cart.Session) {
	items := s.Cart.Lines
	if items == nil {
		items = []cart.Line{}
	}
	c.JSON(status, cartResponse{Items: items, Quote: s.Cart.Quote(d.Shipping)})
}

// withSession loads the caller's session, runs fn and saves the session when
// fn reports a change.
func withSession(c *gin.Context, d *Deps, fn func(s *cart.Session) (bool, error)) (*cart.Session, bool) {
	ctx := c.Request.Context()
	s, err := d.Sessions.Load(ctx, middleware.SessionID(c))
	if err != nil {
		apperrors.Respond(c, err)
		return nil, false
	}
	changed, err := fn(s)
	if err != nil {
		apperrors.Respond(c, err)
		return nil, false
	}
	if changed {
		if err := d.Sessions.Save(ctx, s); err != nil {
			apperrors.Respond(c, err)
			return nil, false
		}
	}
	return s, true
}

// purchasable loads the product and checks it can be bought in size.
func purchasable(c *gin.Context, d *Deps, productID, rawSize string) (*models.Product, models.Size, error) {
	size, err := models.ParseSize(rawSize)
	if err != nil {
		return nil, "", apperrors.Invalid("size", "unknown size %q", rawSize)
	}
	p, err := d.Store.GetProduct(c.Request.Context(), productID)
	if err != nil {
		return nil, "", err
	}
	if !p.InStock {
		return nil, "", apperrors.Invalid("productId", "%s is out of stock", p.Name)
	}
	if !p.OffersSize(size) {
		return nil, "", apperrors.Invalid("size", "%s is not available in size %s", p.Name, size)
	}
	return p, size, nil
}

// GET /cart
func GetCart(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := withSession(c, d, func(*cart.Session) (bool, error) { return false, nil })
		if !ok {
			return
		}
		respondCart(c, http.StatusOK, d, s)
	}
}

// GET /cart/quote
func GetQuote(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := withSession(c, d, func(*cart.Session) (bool, error) { return false, nil })
		if !ok {
			return
		}
		c.JSON(http.StatusOK, s.Cart.Quote(d.Shipping))
	}
}

// POST /cart/items
func AddCartItem(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		p, size, err := purchasable(c, d, input.ProductID, input.Size)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		s, ok := withSession(c, d, func(s *cart.Session) (bool, error) {
			s.Cart.AddItem(*p, size, input.Quantity)
			return true, nil
		})
		if !ok {
			return
		}
		respondCart(c, http.StatusOK, d, s)
	}
}

// PUT /cart/items
func UpdateCartItem(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		size, err := models.ParseSize(input.Size)
		if err != nil {
			apperrors.Respond(c, apperrors.Invalid("size", "unknown size %q", input.Size))
			return
		}
		s, ok := withSession(c, d, func(s *cart.Session) (bool, error) {
			if !s.Cart.UpdateQuantity(input.ProductID, size, input.Quantity) {
				return false, apperrors.NotFound("cart item")
			}
			return true, nil
		})
		if !ok {
			return
		}
		respondCart(c, http.StatusOK, d, s)
	}
}

// DELETE /cart/items/:productId?size=M
func RemoveCartItem(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		size, err := models.ParseSize(c.Query("size"))
		if err != nil {
			apperrors.Respond(c, apperrors.Invalid("size", "unknown size %q", c.Query("size")))
			return
		}
		s, ok := withSession(c, d, func(s *cart.Session) (bool, error) {
			return s.Cart.RemoveItem(c.Param("productId"), size), nil
		})
		if !ok {
			return
		}
		respondCart(c, http.StatusOK, d, s)
	}
}

// DELETE /cart
func ClearCart(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := withSession(c, d, func(s *cart.Session) (bool, error) {
			s.Cart.Clear()
			return true, nil
		})
		if !ok {
			return
		}
		respondCart(c, http.StatusOK, d, s)
	}
}

func now() time.Time { return time.Now().UTC() }
