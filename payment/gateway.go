package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

// Intent is the provider-side order the client widget pays against.
type Intent struct {
	ProviderOrderID string `json:"orderId"`
	Amount          int64  `json:"amount"` // minor units
	Currency        string `json:"currency"`
	Receipt         string `json:"receipt"`
	KeyID           string `json:"keyId"`
}

// Gateway creates payment intents. Implementations return
// *apperrors.PaymentProviderError on any upstream failure.
type Gateway interface {
	CreateIntent(ctx context.Context, amount decimal.Decimal, receipt string) (Intent, error)
	// Resume rebuilds the intent for a provider order created earlier
	// without contacting the provider.
	Resume(providerOrderID string, amount decimal.Decimal, receipt string) Intent
}

// ToMinorUnits converts a major-unit amount (rupees) to minor units (paise),
// rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
