package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// DiscountCode is a promotion returned by the discount endpoint.
// Exactly one of DiscountPercent or DiscountAmount is normally set.
type DiscountCode struct {
	Code            string           `json:"code"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
	DiscountAmount  *decimal.Decimal `json:"discount_amount,omitempty"`
}

// Apply returns the discount for the given subtotal, never more than the
// subtotal itself, rounded to cents.
func (d DiscountCode) Apply(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch {
	case d.DiscountPercent != nil && d.DiscountPercent.IsPositive():
		discount = subtotal.Mul(*d.DiscountPercent).Div(hundred)
	case d.DiscountAmount != nil && d.DiscountAmount.IsPositive():
		discount = decimal.Min(*d.DiscountAmount, subtotal)
	default:
		return decimal.Zero
	}

	return decimal.Min(discount, subtotal).Round(2)
}

// Quote is a priced cart.
type Quote struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
	Code     string
}
