package mcp

import (
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server exposes.
type Ports struct {
	// Orders reads the order history.
	Orders driving.OrderService

	// Session reports authentication state. Optional.
	Session driving.SessionService

	// Pricing quotes discount codes. Optional.
	Pricing driving.PricingService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Orders == nil {
		return ErrMissingOrderService
	}
	return nil
}
