package paymentControllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Vznu7/one-piece-web-application/apperrors"
	"github.com/Vznu7/one-piece-web-application/auth"
	"github.com/Vznu7/one-piece-web-application/cache"
	orderControllers "github.com/Vznu7/one-piece-web-application/controllers/order"
	"github.com/Vznu7/one-piece-web-application/events"
	"github.com/Vznu7/one-piece-web-application/models"
	"github.com/Vznu7/one-piece-web-application/payment"
	"github.com/Vznu7/one-piece-web-application/store"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type Deps struct {
	Store     store.Store
	Cache     cache.Store
	Gateway   payment.Gateway
	Events    events.Publisher
	KeySecret string

	// IntentLockTTL bounds how long one request may hold the right to open
	// a provider order for a receipt.
	IntentLockTTL time.Duration
}

type CreateIntentRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	Receipt string          `json:"receipt"`
}

type VerifyRequest struct {
	ProviderOrderID   string `json:"razorpay_order_id"`
	ProviderPaymentID string `json:"razorpay_payment_id"`
	Signature         string `json:"razorpay_signature"`
	OrderID           string `json:"orderId"`
}

const lockPoll = 25 * time.Millisecond

func intentLockKey(receipt string) string { return "payment-intent-lock:" + receipt }

func awaitingPayment(o *models.Order) bool {
	return o.PaymentStatus == models.PaymentStatusPending && o.Status != models.OrderStatusCancelled
}

func (d *Deps) resume(o *models.Order) payment.Intent {
	return d.Gateway.Resume(o.ProviderOrderID, o.Total, o.OrderNumber)
}

// lockIntent waits until this request holds the intent lock for receipt.
// Without a cache, or when the cache fails, it returns an unlocked no-op and
// the conditional write in openIntent decides the winner.
func (d *Deps) lockIntent(ctx context.Context, receipt string) (func(), error) {
	unlocked := func() {}
	if d.Cache == nil {
		return unlocked, nil
	}
	key := intentLockKey(receipt)
	deadline := time.Now().Add(d.IntentLockTTL)
	for {
		ok, err := d.Cache.SetNX(ctx, key, receipt, d.IntentLockTTL)
		if err != nil {
			log.Printf("⚠️ Intent lock unavailable for %s: %v", receipt, err)
			return unlocked, nil
		}
		if ok {
			return func() {
				if err := d.Cache.Del(context.WithoutCancel(ctx), key); err != nil {
					log.Printf("⚠️ Failed to release intent lock for %s: %v", receipt, err)
				}
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, apperrors.Invalid("receipt", "payment for order %s is still being opened, retry shortly", receipt)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockPoll):
		}
	}
}

// openIntent calls the gateway at most once per order. Whoever binds a
// provider order id first wins; later callers resume that intent.
func (d *Deps) openIntent(ctx context.Context, order *models.Order) (payment.Intent, error) {
	release, err := d.lockIntent(ctx, order.OrderNumber)
	if err != nil {
		return payment.Intent{}, err
	}
	defer release()

	current, err := d.Store.GetOrder(ctx, order.ID)
	if err != nil {
		return payment.Intent{}, err
	}
	if !awaitingPayment(current) {
		return payment.Intent{}, apperrors.Invalid("receipt", "order %s is not awaiting payment", current.OrderNumber)
	}
	if current.ProviderOrderID != "" {
		return d.resume(current), nil
	}

	intent, err := d.Gateway.CreateIntent(ctx, current.Total, current.OrderNumber)
	if err != nil {
		return payment.Intent{}, err
	}

	bound, err := d.Store.UpdateOrder(ctx, current.ID, func(o *models.Order) error {
		if !awaitingPayment(o) {
			return apperrors.Invalid("receipt", "order %s is not awaiting payment", o.OrderNumber)
		}
		if o.ProviderOrderID == "" {
			o.ProviderOrderID = intent.ProviderOrderID
		}
		return nil
	})
	if err != nil {
		return payment.Intent{}, err
	}
	if bound.ProviderOrderID != intent.ProviderOrderID {
		log.Printf("⚠️ Dropping provider order %s for %s, %s was bound first",
			intent.ProviderOrderID, bound.OrderNumber, bound.ProviderOrderID)
		return d.resume(bound), nil
	}
	return intent, nil
}

// CreateIntent opens a provider payment for the order named by
// req.Receipt. An order holds one provider order for its whole life, so
// repeat calls return the intent already bound to it.
func CreateIntent(ctx context.Context, d *Deps, p auth.Principal, req CreateIntentRequest) (payment.Intent, error) {
	receipt := strings.TrimSpace(req.Receipt)
	if receipt == "" {
		return payment.Intent{}, apperrors.Invalid("receipt", "receipt is required")
	}
	order, err := orderControllers.Lookup(ctx, d.Store, p, receipt)
	if err != nil {
		return payment.Intent{}, err
	}
	if !awaitingPayment(order) {
		return payment.Intent{}, apperrors.Invalid("receipt", "order %s is not awaiting payment", order.OrderNumber)
	}
	if !req.Amount.IsZero() && !req.Amount.Equal(order.Total) {
		return payment.Intent{}, apperrors.Invalid("amount", "amount %s does not match the order total %s", req.Amount, order.Total)
	}
	if order.ProviderOrderID != "" {
		return d.resume(order), nil
	}
	return d.openIntent(ctx, order)
}

// VerifyPayment checks the provider callback and marks the order paid. It
// reports whether this call changed the order.
func VerifyPayment(ctx context.Context, d *Deps, p auth.Principal, req VerifyRequest) (*models.Order, bool, error) {
	switch {
	case req.ProviderOrderID == "":
		return nil, false, apperrors.Invalid("razorpay_order_id", "razorpay_order_id is required")
	case req.ProviderPaymentID == "":
		return nil, false, apperrors.Invalid("razorpay_payment_id", "razorpay_payment_id is required")
	case req.Signature == "":
		return nil, false, apperrors.Invalid("razorpay_signature", "razorpay_signature is required")
	case req.OrderID == "":
		return nil, false, apperrors.Invalid("orderId", "orderId is required")
	}

	if err := payment.VerifySignature(d.KeySecret, req.ProviderOrderID, req.ProviderPaymentID, req.Signature); err != nil {
		log.Printf("🚨 Payment signature mismatch for order %s (provider order %s, payment %s, user %s)",
			req.OrderID, req.ProviderOrderID, req.ProviderPaymentID, p.UserID)
		return nil, false, err
	}

	order, err := orderControllers.Lookup(ctx, d.Store, p, req.OrderID)
	if err != nil {
		return nil, false, err
	}
	if order.ProviderOrderID != req.ProviderOrderID {
		log.Printf("🚨 Provider order %s presented for order %s which expects %q",
			req.ProviderOrderID, order.OrderNumber, order.ProviderOrderID)
		return nil, false, apperrors.Invalid("razorpay_order_id", "payment does not belong to order %s", order.OrderNumber)
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return order, false, nil
	}

	paid, err := d.Store.MarkPaid(ctx, order.ID, req.ProviderOrderID, req.ProviderPaymentID)
	if err != nil {
		if errors.Is(err, store.ErrNotPayable) {
			return nil, false, apperrors.Invalid("orderId", "order %s is not awaiting payment", order.OrderNumber)
		}
		return nil, false, err
	}
	changed := paid.ProviderPaymentID == req.ProviderPaymentID && order.PaymentStatus != models.PaymentStatusPaid
	if changed {
		log.Printf("✅ Payment %s verified for order %s", req.ProviderPaymentID, paid.OrderNumber)
	}
	return paid, changed, nil
}

// POST /payment/create-order
func CreateIntentHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := auth.PrincipalFrom(c)
		if !ok {
			apperrors.Respond(c, apperrors.ErrUnauthorized)
			return
		}
		var req CreateIntentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		intent, err := CreateIntent(c.Request.Context(), d, p, req)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, intent)
	}
}

// POST /payment/verify
func VerifyPaymentHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := auth.PrincipalFrom(c)
		if !ok {
			apperrors.Respond(c, apperrors.ErrUnauthorized)
			return
		}
		var req VerifyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		order, changed, err := VerifyPayment(c.Request.Context(), d, p, req)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		if changed && d.Events != nil {
			if err := d.Events.Publish(context.WithoutCancel(c.Request.Context()), events.NewEvent(events.OrderPaid, *order)); err != nil {
				log.Printf("⚠️ Failed to publish %s for %s: %v", events.OrderPaid, order.OrderNumber, err)
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Payment verified successfully",
			"order":   order,
		})
	}
}
