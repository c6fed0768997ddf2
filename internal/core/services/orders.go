package services

import (
	"context"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driven"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driving"
)

// Ensure OrderService implements the interface.
var _ driving.OrderService = (*OrderService)(nil)

// OrderService reads the order history.
type OrderService struct {
	api driven.OrderAPI
}

// NewOrderService creates a new order service.
func NewOrderService(api driven.OrderAPI) *OrderService {
	return &OrderService{api: api}
}

// List returns one page of orders, defaulting to page 1 of 10.
func (s *OrderService) List(ctx context.Context, page, size int) (*domain.OrderPage, error) {
	if s.api == nil {
		return nil, domain.ErrNotImplemented
	}
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = domain.DefaultOrdersPageSize
	}
	return s.api.ListOrders(ctx, page, size)
}

// Details returns a single order.
func (s *OrderService) Details(ctx context.Context, id int64) (*domain.Order, error) {
	if s.api == nil {
		return nil, domain.ErrNotImplemented
	}
	if id <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return s.api.OrderDetails(ctx, id)
}
