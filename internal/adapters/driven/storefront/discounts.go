package storefront

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

// DiscountPath is the discount code lookup, relative to the API root.
const DiscountPath = "/discount-codes/%s/"

// DiscountCode looks up a discount code.
func (c *Client) DiscountCode(ctx context.Context, code string) (*domain.DiscountCode, error) {
	var dc domain.DiscountCode
	path := fmt.Sprintf(DiscountPath, url.PathEscape(code))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &dc, nil); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) {
			return nil, fmt.Errorf("%q: %w", code, domain.ErrDiscountInvalid)
		}
		return nil, err
	}
	if dc.DiscountPercent == nil && dc.DiscountAmount == nil {
		return nil, fmt.Errorf("%q has no discount value: %w", code, domain.ErrDiscountInvalid)
	}
	if dc.Code == "" {
		dc.Code = code
	}
	return &dc, nil
}
