package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates a collaborator was not wired.
	ErrNotImplemented = errors.New("not implemented")

	// Authentication Errors.

	// ErrAuthRequired indicates no credentials are stored.
	ErrAuthRequired = errors.New("authentication required")

	// ErrUnauthorized indicates the backend rejected the bearer token.
	// It is recoverable through a token refresh.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSessionExpired indicates the refresh itself failed or no refresh
	// token exists. The stored session has been cleared and the user must
	// log in again.
	ErrSessionExpired = errors.New("session expired, please log in again")

	// Basket Errors.

	// ErrBasketStale indicates the held basket id no longer matches the server.
	ErrBasketStale = errors.New("basket is stale")

	// ErrBasketUnavailable indicates no basket id could be obtained at all.
	ErrBasketUnavailable = errors.New("could not get or create basket")

	// ErrBasketReferenceInvalid indicates the order endpoint rejected the basket id.
	ErrBasketReferenceInvalid = errors.New("basket reference invalid")

	// Order Errors.

	// ErrEmptyCart indicates checkout was attempted with no line items.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrOrderFailed indicates order creation failed for a network or unknown reason.
	ErrOrderFailed = errors.New("failed to create order")

	// ErrDiscountInvalid indicates the discount code is unknown or expired.
	ErrDiscountInvalid = errors.New("invalid or expired discount code")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// ValidationError reports per-field problems detected before any network call.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + formatFields(e.Fields)
}

// Unwrap lets callers match ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// OrderRejectedError is a business rejection returned by the order endpoint.
// Fields maps a field path (e.g. "billing_details.phone_number") to the
// backend's message.
type OrderRejectedError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *OrderRejectedError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("order rejected (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("order rejected (%d): %s", e.Status, formatFields(e.Fields))
}

// BasketItemError records a line item that could not be added to the basket
// even after the single stale-basket recovery.
type BasketItemError struct {
	Key string
	Err error
}

func (e *BasketItemError) Error() string {
	return fmt.Sprintf("basket item %s: %v", e.Key, e.Err)
}

func (e *BasketItemError) Unwrap() error {
	return e.Err
}

// IsTerminalAuth reports whether err requires the user to re-authenticate.
func IsTerminalAuth(err error) bool {
	return errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrAuthRequired)
}

func formatFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fields[k])
	}
	return strings.Join(parts, "; ")
}
