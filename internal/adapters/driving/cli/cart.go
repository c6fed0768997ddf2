package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

// cartFile is the on-disk cart the CLI checks out from.
//
//	{
//	  "items": [
//	    {"product": {"id": 10, "selected_supply_id": 20}, "quantity": 2},
//	    {"product": {"id": 7, "is_accessory": true}, "quantity": 1}
//	  ],
//	  "subtotal": "300.00",
//	  "basket_id": 0
//	}
type cartFile struct {
	Items        []domain.LineItem `json:"items"`
	Subtotal     decimal.Decimal   `json:"subtotal"`
	DiscountCode string            `json:"discount_code,omitempty"`
	BasketID     int64             `json:"basket_id,omitempty"`
}

// formFile holds the contact and payment forms.
type formFile struct {
	Contact domain.ContactDetails `json:"contact"`
	Payment domain.PaymentDetails `json:"payment"`
}

func readCart(path string) (*cartFile, error) {
	var cart cartFile
	if err := readJSON(path, &cart); err != nil {
		return nil, err
	}
	// Keys are derived, never trusted from the file.
	for i, item := range cart.Items {
		cart.Items[i] = domain.NewLineItem(item.Product, item.Quantity)
	}
	return &cart, nil
}

// clearCart empties the cart file after a successful order.
func clearCart(path string) error {
	data, err := json.MarshalIndent(cartFile{Items: []domain.LineItem{}}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0600)
}

func readForm(path string) (*formFile, error) {
	var form formFile
	if err := readJSON(path, &form); err != nil {
		return nil, err
	}
	return &form, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
