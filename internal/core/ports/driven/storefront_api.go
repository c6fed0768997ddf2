package driven

import (
	"context"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

// BasketAPI is the backend's basket surface. Calls go through the
// authenticating transport.
type BasketAPI interface {
	// ActiveBasket returns the current basket, or nil when none exists.
	ActiveBasket(ctx context.Context) (*domain.Basket, error)

	// AddItem adds one item to the active basket, creating it if needed.
	AddItem(ctx context.Context, item domain.BasketItem) error
}

// OrderAPI is the backend's order surface.
type OrderAPI interface {
	// CreateOrder submits an order.
	CreateOrder(ctx context.Context, payload domain.OrderPayload) (*domain.Order, error)

	// ListOrders returns one page of the order history.
	ListOrders(ctx context.Context, page, size int) (*domain.OrderPage, error)

	// OrderDetails returns a single order.
	OrderDetails(ctx context.Context, id int64) (*domain.Order, error)
}

// DiscountAPI resolves discount codes.
type DiscountAPI interface {
	// DiscountCode looks up a code. Returns domain.ErrDiscountInvalid when
	// the code is unknown or expired.
	DiscountCode(ctx context.Context, code string) (*domain.DiscountCode, error)
}

// ProfileAPI reads the authenticated user's account.
type ProfileAPI interface {
	// Profile returns the account behind the current token.
	Profile(ctx context.Context) (*domain.Profile, error)
}
