package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Vznu7/one-piece-web-application/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "rzp_test_secret"

func TestVerifySignatureRoundTrip(t *testing.T) {
	sig := Sign(secret, "order_N1", "pay_P1")
	assert.NoError(t, VerifySignature(secret, "order_N1", "pay_P1", sig))
}

func TestVerifySignatureRejectsEveryFlippedCharacter(t *testing.T) {
	sig := Sign(secret, "order_N1", "pay_P1")
	for i := range sig {
		b := []byte(sig)
		if b[i] == 'a' {
			b[i] = 'b'
		} else {
			b[i] = 'a'
		}
		err := VerifySignature(secret, "order_N1", "pay_P1", string(b))
		assert.ErrorIs(t, err, apperrors.ErrSignatureInvalid, "position %d", i)
	}
}

func TestVerifySignatureBindsBothIDs(t *testing.T) {
	sig := Sign(secret, "order_N1", "pay_P1")
	assert.Error(t, VerifySignature(secret, "order_N2", "pay_P1", sig))
	assert.Error(t, VerifySignature(secret, "order_N1", "pay_P2", sig))
	assert.Error(t, VerifySignature("other", "order_N1", "pay_P1", sig))
	assert.Error(t, VerifySignature(secret, "order_N1", "pay_P1", ""))
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(109800), ToMinorUnits(decimal.NewFromInt(1098)))
	assert.Equal(t, int64(49950), ToMinorUnits(decimal.RequireFromString("499.50")))
	assert.Equal(t, int64(1), ToMinorUnits(decimal.RequireFromString("0.005")))
}

func TestRazorpayCreateIntent(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, secret, pass)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_N1","entity":"order","amount":109800,"currency":"INR","receipt":"ORD-1","status":"created"}`))
	}))
	defer srv.Close()

	client := NewRazorpayClient(RazorpayConfig{
		KeyID:       "rzp_test_key",
		KeySecret:   secret,
		PublicKeyID: "rzp_public",
		BaseURL:     srv.URL + "/",
	})

	intent, err := client.CreateIntent(context.Background(), decimal.NewFromInt(1098), "ORD-1")
	require.NoError(t, err)

	assert.Equal(t, "order_N1", intent.ProviderOrderID)
	assert.Equal(t, int64(109800), intent.Amount)
	assert.Equal(t, "INR", intent.Currency)
	assert.Equal(t, "rzp_public", intent.KeyID)

	assert.Equal(t, float64(109800), got["amount"])
	assert.Equal(t, "ORD-1", got["receipt"])
	assert.Equal(t, true, got["payment_capture"])
}

func TestRazorpayCreateIntentProviderRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"Authentication failed"}}`))
	}))
	defer srv.Close()

	client := NewRazorpayClient(RazorpayConfig{KeyID: "k", KeySecret: "s", BaseURL: srv.URL})
	_, err := client.CreateIntent(context.Background(), decimal.NewFromInt(10), "ORD-1")

	var pe *apperrors.PaymentProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusUnauthorized, pe.StatusCode)
	assert.Equal(t, "Authentication failed", pe.Message)
}

func TestRazorpayCreateIntentRejectsNonPositiveAmount(t *testing.T) {
	client := NewRazorpayClient(RazorpayConfig{KeyID: "k", KeySecret: "s", BaseURL: "http://127.0.0.1:1"})
	_, err := client.CreateIntent(context.Background(), decimal.Zero, "ORD-1")

	var pe *apperrors.PaymentProviderError
	assert.True(t, errors.As(err, &pe))
}

func TestRazorpayCreateIntentNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewRazorpayClient(RazorpayConfig{KeyID: "k", KeySecret: "s", BaseURL: url})
	_, err := client.CreateIntent(context.Background(), decimal.NewFromInt(10), "ORD-1")

	var pe *apperrors.PaymentProviderError
	assert.True(t, errors.As(err, &pe))
}

func TestRazorpayResume(t *testing.T) {
	client := NewRazorpayClient(RazorpayConfig{KeyID: "rzp_test_key", KeySecret: secret, PublicKeyID: "rzp_public"})

	in := client.Resume("order_N1", decimal.NewFromInt(1098), "ORD-1")
	assert.Equal(t, Intent{ProviderOrderID: "order_N1", Amount: 109800, Currency: "INR", Receipt: "ORD-1", KeyID: "rzp_public"}, in)
}
