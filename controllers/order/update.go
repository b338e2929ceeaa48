package orderControllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/Vznu7/one-piece-web-application/apperrors"
	"github.com/Vznu7/one-piece-web-application/auth"
	"github.com/Vznu7/one-piece-web-application/events"
	"github.com/Vznu7/one-piece-web-application/models"
	"github.com/gin-gonic/gin"
)

type UpdateOrderRequest struct {
	Status         *string `json:"status"`
	PaymentStatus  *string `json:"paymentStatus"`
	TrackingNumber *string `json:"trackingNumber"`
}

// parse turns the request into a typed partial update.
func (r UpdateOrderRequest) parse() (models.OrderUpdate, error) {
	var u models.OrderUpdate
	if r.Status != nil {
		s, err := models.ParseOrderStatus(*r.Status)
		if err != nil {
			return u, apperrors.Invalid("status", "%v", err)
		}
		u.Status = &s
	}
	if r.PaymentStatus != nil {
		s, err := models.ParsePaymentStatus(*r.PaymentStatus)
		if err != nil {
			return u, apperrors.Invalid("paymentStatus", "%v", err)
		}
		u.PaymentStatus = &s
	}
	if r.TrackingNumber != nil {
		t := strings.TrimSpace(*r.TrackingNumber)
		u.TrackingNumber = &t
	}
	if u.Empty() {
		return u, apperrors.Invalid("status", "nothing to update")
	}
	return u, nil
}

// applyCustomer lets an owner cancel an order that has not shipped.
func applyCustomer(o *models.Order, u models.OrderUpdate) error {
	if u.PaymentStatus != nil || u.TrackingNumber != nil {
		return apperrors.ErrForbidden
	}
	if *u.Status != models.OrderStatusCancelled {
		return apperrors.ErrForbidden
	}
	if !models.CanTransitionOrder(o.Status, models.OrderStatusCancelled) {
		return apperrors.Invalid("status", "a %s order can no longer be cancelled", o.Status)
	}
	o.Status = models.OrderStatusCancelled
	return nil
}

// applyAdmin sets any supplied field. The payment axis always follows the
// transition graph and may never reach paid here; the order axis follows it
// only in strict mode.
func applyAdmin(o *models.Order, u models.OrderUpdate, strict bool) error {
	if u.Status != nil {
		if strict && !models.CanTransitionOrder(o.Status, *u.Status) {
			return apperrors.Invalid("status", "cannot move order from %s to %s", o.Status, *u.Status)
		}
		o.Status = *u.Status
	}
	if u.PaymentStatus != nil {
		to := *u.PaymentStatus
		if to == models.PaymentStatusPaid && o.PaymentStatus != models.PaymentStatusPaid {
			return apperrors.Invalid("paymentStatus", "paid can only be set by payment verification")
		}
		if !models.CanTransitionPayment(o.PaymentStatus, to) {
			return apperrors.Invalid("paymentStatus", "cannot move payment from %s to %s", o.PaymentStatus, to)
		}
		o.PaymentStatus = to
	}
	if u.TrackingNumber != nil {
		o.TrackingNumber = *u.TrackingNumber
	}
	return nil
}

// UpdateOrder applies u to the order with id on behalf of p.
func UpdateOrder(ctx context.Context, d *Deps, p auth.Principal, id string, u models.OrderUpdate) (*models.Order, error) {
	current, err := Lookup(ctx, d.Store, p, id)
	if err != nil {
		return nil, err
	}
	return d.Store.UpdateOrder(ctx, current.ID, func(o *models.Order) error {
		switch p.Role {
		case models.RoleAdmin:
			return applyAdmin(o, u, d.StrictTransitions)
		case models.RoleCustomer:
			if !p.Owns(o.UserID) {
				return apperrors.NotFound("order")
			}
			return applyCustomer(o, u)
		default:
			return apperrors.ErrForbidden
		}
	})
}

// PATCH /orders/:id
func UpdateOrderHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := auth.PrincipalFrom(c)
		if !ok {
			apperrors.Respond(c, apperrors.ErrUnauthorized)
			return
		}
		var req UpdateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		u, err := req.parse()
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		order, err := UpdateOrder(c.Request.Context(), d, p, c.Param("id"), u)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		d.publish(c.Request.Context(), events.OrderUpdated, order)
		c.JSON(http.StatusOK, order)
	}
}
