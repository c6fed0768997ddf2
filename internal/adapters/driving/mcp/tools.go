package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/shopspring/decimal"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

// ListOrdersInput is the input schema for the list_orders tool.
type ListOrdersInput struct {
	Page int `json:"page,omitempty" jsonschema:"page number, starting at 1"`
	Size int `json:"size,omitempty" jsonschema:"orders per page (default 10)"`
}

// OrderSummary is one order in tool output.
type OrderSummary struct {
	ID        int64  `json:"id"`
	Status    string `json:"status"`
	Total     string `json:"total"`
	Positions int    `json:"positions"`
}

// ListOrdersOutput is the output schema for the list_orders tool.
type ListOrdersOutput struct {
	Orders      []OrderSummary `json:"orders"`
	TotalItems  int            `json:"total_items"`
	TotalPages  int            `json:"total_pages"`
	CurrentPage int            `json:"current_page"`
}

// GetOrderInput is the input schema for the get_order tool.
type GetOrderInput struct {
	ID int64 `json:"id" jsonschema:"the order id"`
}

// OrderLine is one position in get_order output.
type OrderLine struct {
	Kind     string `json:"kind"`
	ItemID   int64  `json:"item_id"`
	Name     string `json:"name,omitempty"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

// GetOrderOutput is the output schema for the get_order tool.
type GetOrderOutput struct {
	ID     int64       `json:"id"`
	Status string      `json:"status"`
	Total  string      `json:"total"`
	Lines  []OrderLine `json:"lines"`
}

// QuoteInput is the input schema for the quote_discount tool.
type QuoteInput struct {
	Subtotal string `json:"subtotal" jsonschema:"cart subtotal, e.g. 249.90"`
	Code     string `json:"code" jsonschema:"discount code to apply"`
}

// QuoteOutput is the output schema for the quote_discount tool.
type QuoteOutput struct {
	Valid    bool   `json:"valid"`
	Discount string `json:"discount"`
	Total    string `json:"total"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_orders",
		Description: "List the signed-in customer's orders, newest first",
	}, s.handleListOrders)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_order",
		Description: "Show one order with its positions and total",
	}, s.handleGetOrder)

	if s.ports.Pricing != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "quote_discount",
			Description: "Price a cart subtotal with a discount code",
		}, s.handleQuote)
	}
}

func (s *Server) handleListOrders(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListOrdersInput,
) (*mcp.CallToolResult, ListOrdersOutput, error) {
	page, err := s.ports.Orders.List(ctx, input.Page, input.Size)
	if err != nil {
		return nil, ListOrdersOutput{}, err
	}

	output := ListOrdersOutput{
		Orders:      make([]OrderSummary, len(page.Results)),
		TotalItems:  page.TotalItems,
		TotalPages:  page.TotalPages,
		CurrentPage: page.CurrentPage,
	}
	for i, o := range page.Results {
		output.Orders[i] = OrderSummary{
			ID:        o.ID,
			Status:    o.Status,
			Total:     o.Total().StringFixed(2),
			Positions: len(o.Positions),
		}
	}
	return nil, output, nil
}

func (s *Server) handleGetOrder(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetOrderInput,
) (*mcp.CallToolResult, GetOrderOutput, error) {
	order, err := s.ports.Orders.Details(ctx, input.ID)
	if err != nil {
		return nil, GetOrderOutput{}, err
	}

	output := GetOrderOutput{
		ID:     order.ID,
		Status: order.Status,
		Total:  order.Total().StringFixed(2),
		Lines:  make([]OrderLine, 0, len(order.Positions)),
	}
	for _, p := range order.Positions {
		line := OrderLine{Kind: "product", Quantity: p.Quantity}
		if p.Accessory != nil {
			line.Kind = "accessory"
		}
		if item := p.Item(); item != nil {
			line.ItemID = item.ID
			line.Name = item.Name
			line.Price = item.TotalPrice.StringFixed(2)
		}
		output.Lines = append(output.Lines, line)
	}
	return nil, output, nil
}

func (s *Server) handleQuote(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QuoteInput,
) (*mcp.CallToolResult, QuoteOutput, error) {
	subtotal, err := decimal.NewFromString(input.Subtotal)
	if err != nil {
		return nil, QuoteOutput{}, fmt.Errorf("subtotal %q: %w", input.Subtotal, domain.ErrInvalidInput)
	}

	quote, err := s.ports.Pricing.Quote(ctx, subtotal, input.Code)
	if errors.Is(err, domain.ErrDiscountInvalid) {
		return nil, QuoteOutput{Valid: false, Discount: "0.00", Total: subtotal.StringFixed(2)}, nil
	}
	if err != nil {
		return nil, QuoteOutput{}, err
	}

	return nil, QuoteOutput{
		Valid:    quote.Code != "",
		Discount: quote.Discount.StringFixed(2),
		Total:    quote.Total.StringFixed(2),
	}, nil
}
