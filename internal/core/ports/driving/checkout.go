package driving

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

// CheckoutService places orders from a cart.
type CheckoutService interface {
	// PlaceOrder validates the form, reconciles the basket and submits the
	// order. The caller owns clearing the cart on success.
	PlaceOrder(ctx context.Context, req domain.CheckoutRequest) (*domain.OrderResult, error)
}

// PricingService prices a cart.
type PricingService interface {
	// Quote applies an optional discount code to the subtotal.
	Quote(ctx context.Context, subtotal decimal.Decimal, code string) (*domain.Quote, error)
}

// BasketService exposes basket reconciliation on its own.
type BasketService interface {
	// Reconcile aligns the server-side basket with the cart and returns its id.
	Reconcile(ctx context.Context, items []domain.LineItem, knownBasketID int64) (*ReconcileResult, error)

	// Active returns the active basket, or nil.
	Active(ctx context.Context) (*domain.Basket, error)
}

// ReconcileResult is the outcome of a basket reconciliation.
type ReconcileResult struct {
	BasketID int64
	// Adds counts first-attempt add calls.
	Adds int
	// Retries counts stale-basket retries.
	Retries int
	// ItemErrors lists items that failed after their retry.
	ItemErrors []domain.BasketItemError
}
