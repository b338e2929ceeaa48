package orderControllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Vznu7/one-piece-web-application/apperrors"
	"github.com/Vznu7/one-piece-web-application/auth"
	"github.com/Vznu7/one-piece-web-application/cache"
	"github.com/Vznu7/one-piece-web-application/cart"
	addressControllers "github.com/Vznu7/one-piece-web-application/controllers/address"
	"github.com/Vznu7/one-piece-web-application/events"
	"github.com/Vznu7/one-piece-web-application/models"
	"github.com/Vznu7/one-piece-web-application/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const IdempotencyHeader = "Idempotency-Key"

// Deps are the collaborators shared by the order handlers.
type Deps struct {
	Store             store.Store
	Cache             cache.Store
	Events            events.Publisher
	Shipping          cart.ShippingPolicy
	StrictTransitions bool
	IdempotencyTTL    time.Duration
	Now               func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d *Deps) publish(ctx context.Context, t events.Type, o *models.Order) {
	if d.Events == nil {
		return
	}
	if err := d.Events.Publish(context.WithoutCancel(ctx), events.NewEvent(t, *o)); err != nil {
		log.Printf("⚠️ Failed to publish %s for %s: %v", t, o.OrderNumber, err)
	}
}

// -------- Request Structs --------

type LineRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
}

type PlaceOrderRequest struct {
	Items         []LineRequest                    `json:"items"`
	AddressID     string                           `json:"addressId"`
	Address       *addressControllers.AddressInput `json:"address"`
	PaymentMethod string                           `json:"paymentMethod"`
	Subtotal      decimal.Decimal                  `json:"subtotal"`
	Shipping      decimal.Decimal                  `json:"shipping"`
	Total         decimal.Decimal                  `json:"total"`
}

// -------- Helpers --------

// newOrderNumber returns ORD-YYYYMMDD-XXXXXXXX.
func newOrderNumber(at time.Time) string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return models.OrderNumberPrefix + at.UTC().Format("20060102") + "-" + token
}

func lineField(i int, name string) string {
	return fmt.Sprintf("items[%d].%s", i, name)
}

// -------- Core Logic --------

// PlaceOrder validates req against the live catalogue and persists one
// pending order for userID. Unit prices are copied from the products at this
// moment and never change afterwards.
func PlaceOrder(ctx context.Context, d *Deps, userID string, req PlaceOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.Invalid("items", "at least one item is required")
	}
	method, ok := models.ParsePaymentMethod(req.PaymentMethod)
	if !ok {
		return nil, apperrors.Invalid("paymentMethod", "payment method must be upi, card or cod")
	}

	shipTo, err := addressControllers.Resolve(ctx, d.Store, userID, req.AddressID, req.Address)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(req.Items))
	for _, l := range req.Items {
		ids = append(ids, l.ProductID)
	}
	products, err := d.Store.GetProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	subtotal := decimal.Zero
	for i, l := range req.Items {
		if l.Quantity < 1 {
			return nil, apperrors.Invalid(lineField(i, "quantity"), "quantity must be at least 1")
		}
		size, err := models.ParseSize(l.Size)
		if err != nil {
			return nil, apperrors.Invalid(lineField(i, "size"), "unknown size %q", l.Size)
		}
		p, ok := products[l.ProductID]
		if !ok {
			return nil, apperrors.Invalid(lineField(i, "productId"), "product %s does not exist", l.ProductID)
		}
		if !p.InStock {
			return nil, apperrors.Invalid(lineField(i, "productId"), "%s is out of stock", p.Name)
		}
		if !p.OffersSize(size) {
			return nil, apperrors.Invalid(lineField(i, "size"), "%s is not available in size %s", p.Name, size)
		}

		item := models.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    l.Quantity,
			Size:        size,
			UnitPrice:   p.Price,
		}
		subtotal = subtotal.Add(item.LineTotal())
		items = append(items, item)
	}

	if !req.Total.Equal(req.Subtotal.Add(req.Shipping)) {
		return nil, apperrors.Invalid("total", "total %s does not equal subtotal %s plus shipping %s", req.Total, req.Subtotal, req.Shipping)
	}
	quote := d.Shipping.Quote(subtotal)
	if !req.Subtotal.Equal(quote.Subtotal) {
		return nil, apperrors.Invalid("subtotal", "subtotal %s does not match current prices (%s)", req.Subtotal, quote.Subtotal)
	}
	if !req.Shipping.Equal(quote.Shipping) {
		return nil, apperrors.Invalid("shipping", "shipping %s does not match the shipping fee (%s)", req.Shipping, quote.Shipping)
	}

	order := &models.Order{
		OrderNumber:     newOrderNumber(d.now()),
		UserID:          userID,
		Items:           items,
		ShippingAddress: shipTo,
		Subtotal:        quote.Subtotal,
		Shipping:        quote.Shipping,
		Total:           quote.Total,
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		PaymentMethod:   method,
	}
	if err := d.Store.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	log.Printf("🧾 Order %s placed by %s for %s", order.OrderNumber, userID, order.Total)
	return order, nil
}

// -------- Handlers --------

// POST /orders
func PlaceOrderHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := auth.PrincipalFrom(c)
		if !ok {
			apperrors.Respond(c, apperrors.ErrUnauthorized)
			return
		}
		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		ctx := c.Request.Context()

		key := strings.TrimSpace(c.GetHeader(IdempotencyHeader))
		if key == "" || d.Cache == nil {
			order, err := PlaceOrder(ctx, d, p.UserID, req)
			if err != nil {
				apperrors.Respond(c, err)
				return
			}
			d.publish(ctx, events.OrderCreated, order)
			c.JSON(http.StatusCreated, order)
			return
		}

		cacheKey := "idempotency:" + p.UserID + ":" + key
		won, err := d.Cache.SetNX(ctx, cacheKey, "", d.IdempotencyTTL)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		if !won {
			replayOrder(c, d, cacheKey)
			return
		}

		order, err := PlaceOrder(ctx, d, p.UserID, req)
		if err != nil {
			_ = d.Cache.Del(context.WithoutCancel(ctx), cacheKey)
			apperrors.Respond(c, err)
			return
		}
		if err := d.Cache.Set(context.WithoutCancel(ctx), cacheKey, order.ID, d.IdempotencyTTL); err != nil {
			// An empty placeholder would answer 409 until it expires.
			log.Printf("⚠️ Failed to record idempotency key for %s, releasing it: %v", order.OrderNumber, err)
			_ = d.Cache.Del(context.WithoutCancel(ctx), cacheKey)
		}
		d.publish(ctx, events.OrderCreated, order)
		c.JSON(http.StatusCreated, order)
	}
}

// replayOrder answers a repeated submission with the order the first one
// created.
func replayOrder(c *gin.Context, d *Deps, cacheKey string) {
	ctx := c.Request.Context()
	orderID, found, err := d.Cache.Get(ctx, cacheKey)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	if !found || orderID == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "A request with this Idempotency-Key is still in progress"})
		return
	}
	order, err := d.Store.GetOrder(ctx, orderID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.Header("Idempotent-Replayed", "true")
	c.JSON(http.StatusOK, order)
}

// Lookup fetches id (internal id or ORD- number) on behalf of p. Orders the
// caller may not see are reported as not found.
func Lookup(ctx context.Context, s store.Store, p auth.Principal, id string) (*models.Order, error) {
	var (
		order *models.Order
		err   error
	)
	if strings.HasPrefix(id, models.OrderNumberPrefix) {
		order, err = s.GetOrderByNumber(ctx, id)
	} else {
		order, err = s.GetOrder(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	if !p.Admin() && !p.Owns(order.UserID) {
		return nil, apperrors.NotFound("order")
	}
	return order, nil
}

// GET /orders/:id
func GetOrderHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := auth.PrincipalFrom(c)
		if !ok {
			apperrors.Respond(c, apperrors.ErrUnauthorized)
			return
		}
		order, err := Lookup(c.Request.Context(), s, p, c.Param("id"))
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GET /orders
func GetUserOrdersHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := auth.PrincipalFrom(c)
		if !ok {
			apperrors.Respond(c, apperrors.ErrUnauthorized)
			return
		}
		orders, err := s.ListOrders(c.Request.Context(), models.OrderFilter{UserID: p.UserID})
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		if orders == nil {
			orders = []models.Order{}
		}
		c.JSON(http.StatusOK, orders)
	}
}
