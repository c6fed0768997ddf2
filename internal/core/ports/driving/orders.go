package driving

import (
	"context"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

// OrderService reads the order history.
type OrderService interface {
	// List returns one page of orders. Zero page or size use defaults.
	List(ctx context.Context, page, size int) (*domain.OrderPage, error)

	// Details returns a single order.
	Details(ctx context.Context, id int64) (*domain.Order, error)
}
