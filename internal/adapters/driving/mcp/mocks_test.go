package mcp

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driving"
)

// mockOrderService is a mock implementation of driving.OrderService.
type mockOrderService struct {
	page     *domain.OrderPage
	order    *domain.Order
	err      error
	lastPage int
	lastSize int
}

func (m *mockOrderService) List(_ context.Context, page, size int) (*domain.OrderPage, error) {
	m.lastPage, m.lastSize = page, size
	return m.page, m.err
}

func (m *mockOrderService) Details(_ context.Context, _ int64) (*domain.Order, error) {
	return m.order, m.err
}

// mockSessionService is a mock implementation of driving.SessionService.
type mockSessionService struct {
	status *driving.SessionStatus
	err    error
}

func (m *mockSessionService) Login(_ context.Context, _, _ string) error { return m.err }

func (m *mockSessionService) Logout(_ context.Context) error { return m.err }

func (m *mockSessionService) Profile(_ context.Context) (*domain.Profile, error) {
	if m.status == nil {
		return nil, m.err
	}
	return m.status.Profile, m.err
}

func (m *mockSessionService) Status(_ context.Context) (*driving.SessionStatus, error) {
	return m.status, m.err
}

// mockPricingService is a mock implementation of driving.PricingService.
type mockPricingService struct {
	quote *domain.Quote
	err   error
}

func (m *mockPricingService) Quote(_ context.Context, _ decimal.Decimal, _ string) (*domain.Quote, error) {
	return m.quote, m.err
}
