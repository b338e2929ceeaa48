package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Vznu7/one-piece-web-application/auth"
	"github.com/Vznu7/one-piece-web-application/cache"
	"github.com/Vznu7/one-piece-web-application/cart"
	addressControllers "github.com/Vznu7/one-piece-web-application/controllers/address"
	cartControllers "github.com/Vznu7/one-piece-web-application/controllers/cart"
	orderControllers "github.com/Vznu7/one-piece-web-application/controllers/order"
	paymentControllers "github.com/Vznu7/one-piece-web-application/controllers/payment"
	productcontroller "github.com/Vznu7/one-piece-web-application/controllers/product"
	"github.com/Vznu7/one-piece-web-application/events"
	"github.com/Vznu7/one-piece-web-application/middleware"
	"github.com/Vznu7/one-piece-web-application/models"
	"github.com/Vznu7/one-piece-web-application/payment"
	"github.com/Vznu7/one-piece-web-application/store"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	keySecret = "rzp_test_secret"
	apiKey    = "back-office-key"
)

type stubGateway struct{}

func (stubGateway) CreateIntent(_ context.Context, amount decimal.Decimal, receipt string) (payment.Intent, error) {
	return payment.Intent{
		ProviderOrderID: "order_" + receipt,
		Amount:          payment.ToMinorUnits(amount),
		Currency:        "INR",
		Receipt:         receipt,
		KeyID:           "rzp_test_key",
	}, nil
}

func (stubGateway) Resume(providerOrderID string, amount decimal.Decimal, receipt string) payment.Intent {
	return payment.Intent{
		ProviderOrderID: providerOrderID,
		Amount:          payment.ToMinorUnits(amount),
		Currency:        "INR",
		Receipt:         receipt,
		KeyID:           "rzp_test_key",
	}
}

func newServer(t *testing.T) (*httptest.Server, *Deps) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s := store.NewMemoryStore()
	require.NoError(t, store.Seed(context.Background(), s))

	c := cache.NewMemoryStore()
	sessions := cart.NewMemoryPersister()
	hub := events.NewHub()
	t.Cleanup(hub.Close)
	shipping := cart.NewShippingPolicy(99, 2500)

	d := &Deps{
		Store:       s,
		Issuer:      auth.NewIssuer("jwt-secret", time.Hour),
		AdminAPIKey: apiKey,
		Hub:         hub,
		Products:    &productcontroller.Deps{Store: s, Sessions: sessions},
		Cart:        &cartControllers.Deps{Store: s, Sessions: sessions, Shipping: shipping},
		Orders:      &orderControllers.Deps{Store: s, Cache: c, Events: hub, Shipping: shipping, IdempotencyTTL: time.Hour},
		Payments:    &paymentControllers.Deps{Store: s, Cache: c, Gateway: stubGateway{}, Events: hub, KeySecret: keySecret, IntentLockTTL: time.Second},
	}
	r := gin.New()
	SetupRoutes(r, d)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, d
}

type client struct {
	t       *testing.T
	base    string
	headers map[string]string
}

func (c *client) call(method, path string, body any, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	if id := resp.Header.Get(middleware.SessionHeader); id != "" {
		c.headers[middleware.SessionHeader] = id
	}
	if out != nil && resp.StatusCode < 300 {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv, _ := newServer(t)
	c := &client{t: t, base: srv.URL, headers: map[string]string{}}
	assert.Equal(t, http.StatusOK, c.call(http.MethodGet, "/health", nil, nil))
}

func TestCheckoutFlow(t *testing.T) {
	srv, d := newServer(t)
	shopper := &client{t: t, base: srv.URL, headers: map[string]string{}}
	backOffice := &client{t: t, base: srv.URL, headers: map[string]string{"X-API-KEY": apiKey}}

	var login struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.Equal(t, http.StatusOK, shopper.call(http.MethodPost, "/auth/login",
		auth.LoginRequest{Email: "demo@example.com", Password: "demo123"}, &login))

	// browse and fill the session cart
	var shirt models.Product
	require.Equal(t, http.StatusOK, shopper.call(http.MethodGet, "/products/midnight-crew-shirt", nil, &shirt))
	require.NotEmpty(t, shopper.headers[middleware.SessionHeader])
	require.Equal(t, http.StatusOK, shopper.call(http.MethodPost, "/cart/items",
		cartControllers.CartItemInput{ProductID: shirt.ID, Size: "M", Quantity: 2}, nil))

	var quote cart.Quote
	require.Equal(t, http.StatusOK, shopper.call(http.MethodGet, "/cart/quote", nil, &quote))
	assert.True(t, quote.Total.Equal(decimal.NewFromInt(4998)))

	var recent struct {
		Items []cart.ProductCard `json:"items"`
	}
	require.Equal(t, http.StatusOK, shopper.call(http.MethodGet, "/recently-viewed", nil, &recent))
	assert.Len(t, recent.Items, 1)

	// orders need a token
	req := orderControllers.PlaceOrderRequest{
		Items: []orderControllers.LineRequest{{ProductID: shirt.ID, Quantity: 2, Size: "M"}},
		Address: &addressControllers.AddressInput{
			FullName: "Demo Customer", Phone: "9876543210", AddressLine1: "12 MG Road",
			City: "Bengaluru", State: "KA", Pincode: "560001",
		},
		PaymentMethod: "upi",
		Subtotal:      quote.Subtotal, Shipping: quote.Shipping, Total: quote.Total,
	}
	assert.Equal(t, http.StatusUnauthorized, shopper.call(http.MethodPost, "/orders", req, nil))
	shopper.headers["Authorization"] = "Bearer " + login.Token

	var order models.Order
	require.Equal(t, http.StatusCreated, shopper.call(http.MethodPost, "/orders", req, &order))

	var intent payment.Intent
	require.Equal(t, http.StatusOK, shopper.call(http.MethodPost, "/payment/create-order",
		paymentControllers.CreateIntentRequest{Receipt: order.OrderNumber}, &intent))
	assert.Equal(t, int64(499800), intent.Amount)

	var verified struct {
		Success bool         `json:"success"`
		Order   models.Order `json:"order"`
	}
	require.Equal(t, http.StatusOK, shopper.call(http.MethodPost, "/payment/verify", paymentControllers.VerifyRequest{
		ProviderOrderID:   intent.ProviderOrderID,
		ProviderPaymentID: "pay_1",
		Signature:         payment.Sign(keySecret, intent.ProviderOrderID, "pay_1"),
		OrderID:           order.OrderNumber,
	}, &verified))
	assert.Equal(t, models.PaymentStatusPaid, verified.Order.PaymentStatus)

	// customers are kept out of the back-office
	assert.Equal(t, http.StatusForbidden, shopper.call(http.MethodGet, "/admin/orders", nil, nil))

	var paid []models.Order
	require.Equal(t, http.StatusOK, backOffice.call(http.MethodGet, "/admin/orders", nil, &paid))
	require.Len(t, paid, 1)
	assert.Equal(t, order.ID, paid[0].ID)

	require.Equal(t, http.StatusOK, backOffice.call(http.MethodPut, "/admin/products/"+shirt.ID+"/price",
		productcontroller.PriceRequest{Price: decimal.NewFromInt(2999)}, nil))
	var again models.Order
	require.Equal(t, http.StatusOK, shopper.call(http.MethodGet, "/orders/"+order.ID, nil, &again))
	assert.True(t, again.Items[0].UnitPrice.Equal(decimal.NewFromInt(2499)))

	stored, err := d.Store.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, stored.Status)
}

func TestAdminFeedRequiresAdmin(t *testing.T) {
	srv, d := newServer(t)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/admin/orders/ws"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, _, err := d.Issuer.Issue(&models.User{ID: "a1", Role: models.RoleAdmin})
	require.NoError(t, err)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+token, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return d.Hub.Clients() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, d.Hub.Publish(context.Background(), events.NewEvent(events.OrderPaid, models.Order{OrderNumber: "ORD-20260101-ABCDEF12"})))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev events.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, events.OrderPaid, ev.Type)
	assert.Equal(t, "ORD-20260101-ABCDEF12", ev.Order.OrderNumber)
}
