package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Vznu7/one-piece-web-application/apperrors"
	"github.com/shopspring/decimal"
)

type RazorpayConfig struct {
	KeyID       string
	KeySecret   string
	PublicKeyID string // handed to the checkout widget
	BaseURL     string
	Currency    string
	Timeout     time.Duration
}

// RazorpayClient talks to the Razorpay Orders API.
type RazorpayClient struct {
	cfg  RazorpayConfig
	http *http.Client
}

func NewRazorpayClient(cfg RazorpayConfig) *RazorpayClient {
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	if cfg.PublicKeyID == "" {
		cfg.PublicKeyID = cfg.KeyID
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &RazorpayClient{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type razorpayOrder struct {
	ID       string `json:"id"`
	Entity   string `json:"entity"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type razorpayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateIntent creates a Razorpay order for amount (major units) keyed by
// receipt. Failures are not retried.
func (c *RazorpayClient) CreateIntent(ctx context.Context, amount decimal.Decimal, receipt string) (Intent, error) {
	minor := ToMinorUnits(amount)
	if minor <= 0 {
		return Intent{}, &apperrors.PaymentProviderError{Message: "amount must be positive"}
	}

	payload := map[string]interface{}{
		"amount":          minor,
		"currency":        c.cfg.Currency,
		"receipt":         receipt,
		"payment_capture": true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Intent{}, &apperrors.PaymentProviderError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return Intent{}, &apperrors.PaymentProviderError{Err: err}
	}
	req.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Intent{}, &apperrors.PaymentProviderError{Message: "failed to reach Razorpay", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Intent{}, &apperrors.PaymentProviderError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var rerr razorpayError
		_ = json.Unmarshal(raw, &rerr)
		log.Printf("❌ Razorpay rejected order for receipt %s: %d %s", receipt, resp.StatusCode, rerr.Error.Description)
		return Intent{}, &apperrors.PaymentProviderError{
			StatusCode: resp.StatusCode,
			Code:       rerr.Error.Code,
			Message:    rerr.Error.Description,
		}
	}

	var order razorpayOrder
	if err := json.Unmarshal(raw, &order); err != nil {
		return Intent{}, &apperrors.PaymentProviderError{StatusCode: resp.StatusCode, Message: "malformed response", Err: err}
	}
	if order.ID == "" {
		return Intent{}, &apperrors.PaymentProviderError{StatusCode: resp.StatusCode, Err: errors.New("razorpay returned empty order id")}
	}

	log.Printf("💳 Razorpay order %s created for receipt %s (%d %s)", order.ID, receipt, order.Amount, order.Currency)

	return Intent{
		ProviderOrderID: order.ID,
		Amount:          order.Amount,
		Currency:        order.Currency,
		Receipt:         receipt,
		KeyID:           c.cfg.PublicKeyID,
	}, nil
}

// Resume returns the widget payload for an existing Razorpay order.
func (c *RazorpayClient) Resume(providerOrderID string, amount decimal.Decimal, receipt string) Intent {
	return Intent{
		ProviderOrderID: providerOrderID,
		Amount:          ToMinorUnits(amount),
		Currency:        c.cfg.Currency,
		Receipt:         receipt,
		KeyID:           c.cfg.PublicKeyID,
	}
}

func (c *RazorpayClient) String() string {
	return fmt.Sprintf("razorpay(%s)", c.cfg.BaseURL)
}
