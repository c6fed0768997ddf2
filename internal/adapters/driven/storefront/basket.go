package storefront

import (
	"context"
	"net/http"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

// Basket endpoints, relative to the API root.
const (
	BasketPath    = "/basket"
	BasketAddPath = "/basket/add/"
)

// ActiveBasket returns the active basket, or nil when none exists.
func (c *Client) ActiveBasket(ctx context.Context) (*domain.Basket, error) {
	var basket domain.Basket
	if err := c.do(ctx, http.MethodGet, BasketPath, nil, nil, &basket, nil); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if basket.ID == 0 {
		return nil, nil
	}
	return &basket, nil
}

// AddItem adds one item to the active basket.
func (c *Client) AddItem(ctx context.Context, item domain.BasketItem) error {
	return c.do(ctx, http.MethodPost, BasketAddPath, nil, item, nil, nil)
}
