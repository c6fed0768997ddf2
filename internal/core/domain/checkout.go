package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ContactDetails is the contact and shipping form filled at checkout.
type ContactDetails struct {
	FirstName string `json:"firstName" validate:"required,person_name"`
	LastName  string `json:"lastName" validate:"required,person_name"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,phone"`
	Street    string `json:"street" validate:"required,street"`
	Region    string `json:"region" validate:"required,place"`
	State     string `json:"state" validate:"required,place"`
	Zip       string `json:"zip" validate:"required,zip"`
	Country   string `json:"country" validate:"required"`

	Apartment string `json:"apartment,omitempty"`
	Company   string `json:"company,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// PaymentDetails is the card form. It is validated locally and never sent
// to the order endpoint.
type PaymentDetails struct {
	CardName   string `json:"cardName" validate:"required,card_name"`
	CardNumber string `json:"cardNumber" validate:"required,card_number"`
	Expiry     string `json:"expiry" validate:"required,card_expiry"`
	CVV        string `json:"cvv" validate:"required,cvv"`
	Agreed     bool   `json:"agreed" validate:"required"`
}

// CheckoutRequest is everything needed to place one order.
type CheckoutRequest struct {
	Contact  ContactDetails
	Payment  PaymentDetails
	Items    []LineItem
	Subtotal decimal.Decimal
	// DiscountCode is optional.
	DiscountCode string
	// BasketID is a previously known basket, or zero.
	BasketID int64
}

// NormalizePhone reduces a phone number to +<country code><subscriber>.
// Non-digits are stripped along with a leading 00 international prefix,
// a single trunk zero is dropped, and the country code is prepended when
// missing. Normalizing a normalized number is a no-op.
func NormalizePhone(raw, countryCode string) string {
	digits := strings.TrimPrefix(onlyDigits(raw), "00")
	if digits == "" {
		return ""
	}
	code := onlyDigits(countryCode)
	if code == "" || strings.HasPrefix(digits, code) {
		return "+" + digits
	}
	digits = strings.TrimPrefix(digits, "0")
	return "+" + code + digits
}

func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
