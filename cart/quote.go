package cart

import "github.com/shopspring/decimal"

// ShippingPolicy charges FlatFee unless the subtotal reaches FreeThreshold.
type ShippingPolicy struct {
	FlatFee       decimal.Decimal
	FreeThreshold decimal.Decimal
}

func NewShippingPolicy(flatFee, freeThreshold int64) ShippingPolicy {
	return ShippingPolicy{
		FlatFee:       decimal.NewFromInt(flatFee),
		FreeThreshold: decimal.NewFromInt(freeThreshold),
	}
}

func (p ShippingPolicy) Fee(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(p.FreeThreshold) {
		return decimal.Zero
	}
	return p.FlatFee
}

// Quote returns subtotal, shipping and total = subtotal + shipping.
func (p ShippingPolicy) Quote(subtotal decimal.Decimal) Quote {
	shipping := p.Fee(subtotal)
	return Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal.Add(shipping),
	}
}

type Quote struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Shipping  decimal.Decimal `json:"shipping"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}
