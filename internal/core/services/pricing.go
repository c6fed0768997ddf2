package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driven"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driving"
)

// Ensure PricingService implements the interface.
var _ driving.PricingService = (*PricingService)(nil)

// PricingService applies discount codes to cart subtotals.
type PricingService struct {
	discounts driven.DiscountAPI
}

// NewPricingService creates a new pricing service.
func NewPricingService(discounts driven.DiscountAPI) *PricingService {
	return &PricingService{discounts: discounts}
}

// Quote prices the subtotal, applying code when it is non-empty.
func (s *PricingService) Quote(ctx context.Context, subtotal decimal.Decimal, code string) (*domain.Quote, error) {
	quote := &domain.Quote{
		Subtotal: subtotal,
		Discount: decimal.Zero,
		Total:    subtotal,
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return quote, nil
	}
	if s.discounts == nil {
		return nil, domain.ErrNotImplemented
	}

	dc, err := s.discounts.DiscountCode(ctx, code)
	if err != nil {
		return nil, err
	}

	quote.Code = code
	quote.Discount = dc.Apply(subtotal)
	quote.Total = subtotal.Sub(quote.Discount)
	return quote, nil
}
