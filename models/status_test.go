package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	s, err := ParseOrderStatus(" Shipped ")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusShipped, s)

	_, err = ParseOrderStatus("ready_to_ship")
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)
}

func TestParsePaymentStatus(t *testing.T) {
	s, err := ParsePaymentStatus("REFUNDED")
	require.NoError(t, err)
	assert.Equal(t, PaymentStatusRefunded, s)

	_, err = ParsePaymentStatus("completed")
	assert.ErrorIs(t, err, ErrInvalidPaymentStatus)
}

func TestCanTransitionOrder(t *testing.T) {
	assert.True(t, CanTransitionOrder(OrderStatusPending, OrderStatusProcessing))
	assert.True(t, CanTransitionOrder(OrderStatusProcessing, OrderStatusShipped))
	assert.True(t, CanTransitionOrder(OrderStatusShipped, OrderStatusDelivered))
	assert.True(t, CanTransitionOrder(OrderStatusPending, OrderStatusCancelled))
	assert.True(t, CanTransitionOrder(OrderStatusProcessing, OrderStatusCancelled))
	assert.True(t, CanTransitionOrder(OrderStatusShipped, OrderStatusShipped))

	assert.False(t, CanTransitionOrder(OrderStatusShipped, OrderStatusCancelled))
	assert.False(t, CanTransitionOrder(OrderStatusPending, OrderStatusDelivered))
	assert.False(t, CanTransitionOrder(OrderStatusDelivered, OrderStatusPending))
	assert.False(t, CanTransitionOrder(OrderStatusCancelled, OrderStatusProcessing))
}

func TestCanTransitionPayment(t *testing.T) {
	assert.True(t, CanTransitionPayment(PaymentStatusPending, PaymentStatusPaid))
	assert.True(t, CanTransitionPayment(PaymentStatusPending, PaymentStatusFailed))
	assert.True(t, CanTransitionPayment(PaymentStatusPaid, PaymentStatusRefunded))

	assert.False(t, CanTransitionPayment(PaymentStatusFailed, PaymentStatusPaid))
	assert.False(t, CanTransitionPayment(PaymentStatusRefunded, PaymentStatusPaid))
	assert.False(t, CanTransitionPayment(PaymentStatusPending, PaymentStatusRefunded))
}

func TestTerminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.Terminal())
	assert.True(t, OrderStatusCancelled.Terminal())
	assert.False(t, OrderStatusShipped.Terminal())
}

func TestParseSize(t *testing.T) {
	s, err := ParseSize("xl")
	require.NoError(t, err)
	assert.Equal(t, SizeXL, s)

	s, err = ParseSize("32")
	require.NoError(t, err)
	assert.Equal(t, Size32, s)

	_, err = ParseSize("XXXL")
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)
	assert.True(t, r.Elevated())

	r, err = ParseRole("user")
	require.NoError(t, err)
	assert.Equal(t, RoleCustomer, r)
	assert.False(t, r.Elevated())

	_, err = ParseRole("Admin ")
	assert.ErrorIs(t, err, ErrInvalidRole)
}
