package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BillingDetails is the billing block of an order. Optional fields are
// omitted when empty rather than sent as blank strings.
type BillingDetails struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Country         string `json:"country"`
	PhoneNumber     string `json:"phone_number,omitempty"`
	StreetName      string `json:"street_name,omitempty"`
	Region          string `json:"region,omitempty"`
	State           string `json:"state,omitempty"`
	ZipCode         string `json:"zip_code,omitempty"`
	ApartmentNumber string `json:"apartment_number,omitempty"`
	CompanyName     string `json:"company_name,omitempty"`
	// CreatedAt is only populated on orders read back from the backend.
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// CustomerData carries the contact email.
type CustomerData struct {
	Email string `json:"email,omitempty"`
}

// Position is one order line: either {accessory_id, quantity} or
// {product_id, supply_id, quantity}.
type Position struct {
	ProductID   *int64 `json:"product_id,omitempty"`
	SupplyID    *int64 `json:"supply_id,omitempty"`
	AccessoryID *int64 `json:"accessory_id,omitempty"`
	Quantity    int    `json:"quantity"`
}

// IsAccessory returns true for accessory positions.
func (p Position) IsAccessory() bool {
	return p.AccessoryID != nil
}

// OrderPayload is the body of an order creation call.
type OrderPayload struct {
	BillingDetails BillingDetails `json:"billing_details"`
	Positions      []Position     `json:"positions"`
	CustomerData   *CustomerData  `json:"customer_data,omitempty"`
	BasketID       int64          `json:"basket_id"`
	OrderNotes     string         `json:"order_notes,omitempty"`
}

// OrderedItem is the product or accessory echoed back on an order position.
type OrderedItem struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name,omitempty"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// OrderPosition is a position as returned by the backend.
type OrderPosition struct {
	Product   *OrderedItem `json:"product,omitempty"`
	Accessory *OrderedItem `json:"accessory,omitempty"`
	Quantity  int          `json:"quantity"`
}

// Item returns whichever of product or accessory is set.
func (p OrderPosition) Item() *OrderedItem {
	if p.Product != nil {
		return p.Product
	}
	return p.Accessory
}

// Order is a server-assigned order. Immutable once created.
type Order struct {
	ID             int64           `json:"id"`
	Status         string          `json:"status"`
	BillingDetails *BillingDetails `json:"billing_details,omitempty"`
	Positions      []OrderPosition `json:"positions,omitempty"`
	BasketID       int64           `json:"basket_id,omitempty"`
}

// Total sums the position prices. Orders do not carry a root total.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range o.Positions {
		if item := p.Item(); item != nil {
			total = total.Add(item.TotalPrice)
		}
	}
	return total
}

// OrderPage is one page of the order history.
//
// The list endpoint answers with one of two known shapes: a paginated object
// {"results": [...], "total_items", "total_pages", "current_page"} or a bare
// array of orders. Both decode into OrderPage.
type OrderPage struct {
	Results     []Order `json:"results"`
	TotalItems  int     `json:"total_items"`
	TotalPages  int     `json:"total_pages"`
	CurrentPage int     `json:"current_page"`
}

// UnmarshalJSON implements json.Unmarshaler for the two list shapes.
func (p *OrderPage) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*p = OrderPage{}
		return nil
	}

	switch trimmed[0] {
	case '[':
		var orders []Order
		if err := json.Unmarshal(trimmed, &orders); err != nil {
			return fmt.Errorf("decoding order array: %w", err)
		}
		*p = OrderPage{
			Results:     orders,
			TotalItems:  len(orders),
			TotalPages:  1,
			CurrentPage: 1,
		}
		return nil
	case '{':
		type paginated OrderPage
		var page paginated
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return fmt.Errorf("decoding order page: %w", err)
		}
		if page.Results == nil {
			page.Results = []Order{}
		}
		if page.TotalItems == 0 {
			page.TotalItems = len(page.Results)
		}
		*p = OrderPage(page)
		return nil
	default:
		return fmt.Errorf("unexpected order list shape: %w", ErrInvalidInput)
	}
}

// OrderResult is returned by a successful checkout.
type OrderResult struct {
	Order    Order
	BasketID int64
	// Total is the discount-adjusted total the customer was shown.
	Total    decimal.Decimal
	Discount decimal.Decimal
	// ItemWarnings lists line items the basket could not take.
	ItemWarnings []BasketItemError
}
