package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string
type PaymentStatus string
type PaymentMethod string

const (
	// Order statuses
	OrderStatusPending    OrderStatus = "pending"    // Order placed, awaiting payment
	OrderStatusProcessing OrderStatus = "processing" // Paid, being packed
	OrderStatusShipped    OrderStatus = "shipped"    // Out for delivery
	OrderStatusDelivered  OrderStatus = "delivered"  // Customer received the items
	OrderStatusCancelled  OrderStatus = "cancelled"  // Cancelled before shipping

	// Payment statuses
	PaymentStatusPending  PaymentStatus = "pending"  // Payment not completed yet
	PaymentStatusPaid     PaymentStatus = "paid"     // Signature verified
	PaymentStatusFailed   PaymentStatus = "failed"   // Payment attempt failed
	PaymentStatusRefunded PaymentStatus = "refunded" // Money returned to customer

	PaymentMethodUPI  PaymentMethod = "upi"
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodCOD  PaymentMethod = "cod"
)

// OrderNumberPrefix marks public order numbers so they can be told apart from ids.
const OrderNumberPrefix = "ORD-"

type Order struct {
	ID                string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderNumber       string          `gorm:"uniqueIndex;not null" json:"orderNumber"`
	UserID            string          `gorm:"index;not null" json:"userId"`
	Items             []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:RESTRICT" json:"items"`
	ShippingAddress   ShippingAddress `gorm:"embedded;embeddedPrefix:ship_" json:"shippingAddress"`
	Subtotal          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	Shipping          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"shipping"`
	Total             decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	Status            OrderStatus     `gorm:"type:VARCHAR(20);default:'pending';index" json:"status"`
	PaymentStatus     PaymentStatus   `gorm:"type:VARCHAR(20);default:'pending';index" json:"paymentStatus"`
	PaymentMethod     PaymentMethod   `gorm:"type:VARCHAR(10)" json:"paymentMethod"`
	TrackingNumber    string          `json:"trackingNumber,omitempty"`
	ProviderOrderID   string          `json:"providerOrderId,omitempty"`
	ProviderPaymentID string          `json:"providerPaymentId,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// OrderItem is a point-in-time copy of a cart line. UnitPrice never follows
// later product price changes.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderID     string          `gorm:"index;type:varchar(36)" json:"orderId"`
	ProductID   string          `gorm:"type:varchar(36);not null" json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Size        Size            `gorm:"type:VARCHAR(8)" json:"size"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unitPrice"`
}

// LineTotal is UnitPrice × Quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderFilter selects orders. Empty fields match all.
type OrderFilter struct {
	UserID        string
	Status        OrderStatus
	PaymentStatus PaymentStatus
}

// OrderUpdate carries the supplied fields of a partial update.
type OrderUpdate struct {
	Status         *OrderStatus
	PaymentStatus  *PaymentStatus
	TrackingNumber *string
}

// Empty reports whether no field was supplied.
func (u OrderUpdate) Empty() bool {
	return u.Status == nil && u.PaymentStatus == nil && u.TrackingNumber == nil
}

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(s) {
	case PaymentMethodUPI, PaymentMethodCard, PaymentMethodCOD:
		return PaymentMethod(s), true
	default:
		return "", false
	}
}
