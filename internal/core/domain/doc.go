// Package domain defines the core business entities for the storefront client.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types:
//
//   - Credentials: The access/refresh token pair of a session
//   - LineItem: A cart slot and its basket/order mappings
//   - OrderPayload, Order, OrderPage: Order creation and history
//   - DiscountCode, Quote: Cart pricing
//   - Settings: Application configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library, github.com/shopspring/decimal for money
//   - Cannot Import: Any internal/ package, any transport or storage dependency
package domain
