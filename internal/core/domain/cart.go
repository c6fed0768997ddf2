package domain

import "fmt"

// Product is the subset of catalog data a cart slot needs.
type Product struct {
	// ID is the product id for catalog goods, or the accessory id.
	ID int64 `json:"id"`
	// IsAccessory marks accessories, which are ordered by accessory_id.
	IsAccessory bool `json:"is_accessory,omitempty"`
	// SelectedSupplyID is the chosen supply (package size) for catalog goods.
	SelectedSupplyID int64 `json:"selected_supply_id,omitempty"`
}

// LineItem is one cart slot.
type LineItem struct {
	Key      string  `json:"key"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// NewLineItem builds a line item with its canonical key.
func NewLineItem(product Product, quantity int) LineItem {
	return LineItem{
		Key:      LineItemKey(product),
		Product:  product,
		Quantity: quantity,
	}
}

// LineItemKey returns the cart slot key: product+supply for catalog goods,
// the id alone for accessories.
func LineItemKey(p Product) string {
	if p.IsAccessory {
		return fmt.Sprintf("accessory:%d", p.ID)
	}
	return fmt.Sprintf("product:%d:%d", p.ID, p.SelectedSupplyID)
}

// EffectiveQuantity returns the quantity, treating anything below one as one.
func (li LineItem) EffectiveQuantity() int {
	if li.Quantity < 1 {
		return 1
	}
	return li.Quantity
}

// BasketItem is the body of a basket add call. Unset identifiers are omitted.
type BasketItem struct {
	ProductID   *int64 `json:"product_id,omitempty"`
	AccessoryID *int64 `json:"accessory_id,omitempty"`
	SupplyID    *int64 `json:"supply_id,omitempty"`
	Quantity    int    `json:"quantity"`
}

// BasketItem maps the line item to its add-to-basket body.
func (li LineItem) BasketItem() BasketItem {
	item := BasketItem{Quantity: li.EffectiveQuantity()}
	if li.Product.IsAccessory {
		item.AccessoryID = optionalID(li.Product.ID)
		return item
	}
	item.ProductID = optionalID(li.Product.ID)
	item.SupplyID = optionalID(li.Product.SelectedSupplyID)
	return item
}

// Position maps the line item to its order position.
// Accessory and catalog shapes are mutually exclusive.
func (li LineItem) Position() Position {
	pos := Position{Quantity: li.EffectiveQuantity()}
	if li.Product.IsAccessory {
		pos.AccessoryID = optionalID(li.Product.ID)
		return pos
	}
	pos.ProductID = optionalID(li.Product.ID)
	pos.SupplyID = optionalID(li.Product.SelectedSupplyID)
	return pos
}

// Basket is the server-side staging resource mirrored from the cart.
type Basket struct {
	ID int64 `json:"id"`
}

func optionalID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
