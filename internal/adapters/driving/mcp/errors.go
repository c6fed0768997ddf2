// Package mcp provides an MCP (Model Context Protocol) server adapter for the
// storefront client. It lets AI assistants browse order history and check
// the session without placing orders.
package mcp

import "errors"

// ErrMissingOrderService is returned when the order service is not provided.
var ErrMissingOrderService = errors.New("mcp: order service is required")
