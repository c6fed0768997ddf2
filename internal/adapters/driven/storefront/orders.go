package storefront

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

// Order endpoints, relative to the API root.
const (
	OrderCreatePath  = "/orders/create"
	OrderListPath    = "/orders/list"
	OrderDetailsPath = "/orders/details/%d/"
)

// basketErrorCodes are error codes that reject the basket reference itself.
var basketErrorCodes = map[string]bool{
	"basket_not_found": true,
	"invalid_basket":   true,
	"basket_invalid":   true,
	"basket_empty":     true,
}

// CreateOrder submits an order. Rejections come back as
// *domain.OrderRejectedError; a rejected basket reference additionally
// matches domain.ErrBasketReferenceInvalid.
func (c *Client) CreateOrder(ctx context.Context, payload domain.OrderPayload) (*domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, http.MethodPost, OrderCreatePath, nil, payload, &order, nil); err != nil {
		return nil, classifyOrderError(err)
	}
	if order.BasketID == 0 {
		order.BasketID = payload.BasketID
	}
	return &order, nil
}

// ListOrders returns one page of the order history.
func (c *Client) ListOrders(ctx context.Context, page, size int) (*domain.OrderPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	var result domain.OrderPage
	if err := c.do(ctx, http.MethodGet, OrderListPath, query, nil, &result, nil); err != nil {
		return nil, err
	}
	if result.CurrentPage == 0 {
		result.CurrentPage = page
	}
	return &result, nil
}

// OrderDetails returns a single order.
func (c *Client) OrderDetails(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf(OrderDetailsPath, id), nil, nil, &order, nil); err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return &order, nil
}

func classifyOrderError(err error) error {
	if domain.IsTerminalAuth(err) {
		return err
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %w", domain.ErrOrderFailed, err)
	}
	switch {
	case apiErr.StatusCode >= 500,
		apiErr.StatusCode == http.StatusUnauthorized,
		apiErr.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", domain.ErrOrderFailed, err)
	}

	rejected := &domain.OrderRejectedError{
		Status:  apiErr.StatusCode,
		Message: apiErr.Detail,
		Fields:  apiErr.Fields,
	}
	if isBasketReferenceError(apiErr) {
		return fmt.Errorf("%w: %w", domain.ErrBasketReferenceInvalid, rejected)
	}
	return rejected
}

func isBasketReferenceError(apiErr *APIError) bool {
	if basketErrorCodes[strings.ToLower(apiErr.Code)] {
		return true
	}
	for field := range apiErr.Fields {
		if field == "basket_id" || field == "basket" || strings.HasPrefix(field, "basket_id.") {
			return true
		}
	}
	return apiErr.StatusCode == http.StatusNotFound &&
		strings.Contains(strings.ToLower(apiErr.Detail), "basket")
}
