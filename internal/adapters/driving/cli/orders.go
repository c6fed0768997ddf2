package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Browse order history",
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your orders",
	RunE:  runOrdersList,
}

var ordersShowCmd = &cobra.Command{
	Use:   "show [order-id]",
	Short: "Show one order",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrdersShow,
}

// Flags for orders list.
var (
	ordersPage int
	ordersSize int
)

func init() {
	ordersListCmd.Flags().IntVarP(&ordersPage, "page", "p", 1, "Page number")
	ordersListCmd.Flags().IntVarP(&ordersSize, "size", "n", domain.DefaultOrdersPageSize, "Orders per page")

	ordersCmd.AddCommand(ordersListCmd)
	ordersCmd.AddCommand(ordersShowCmd)
	rootCmd.AddCommand(ordersCmd)
}

func runOrdersList(cmd *cobra.Command, _ []string) error {
	if orderService == nil {
		return errors.New("order service not configured")
	}

	page, err := orderService.List(cmd.Context(), ordersPage, ordersSize)
	if err != nil {
		return fmt.Errorf("failed to list orders: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(page.Results) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("No orders yet."))
		return nil
	}

	printTitle(out, fmt.Sprintf("Orders (page %d of %d, %d total)", page.CurrentPage, page.TotalPages, page.TotalItems))
	for _, o := range page.Results {
		fmt.Fprintf(out, "  #%-8d %-12s %10s  %d item(s)\n", o.ID, o.Status, o.Total().StringFixed(2), len(o.Positions))
	}
	return nil
}

func runOrdersShow(cmd *cobra.Command, args []string) error {
	if orderService == nil {
		return errors.New("order service not configured")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid order id %q", args[0])
	}

	order, err := orderService.Details(cmd.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("order %d not found", id)
	}
	if err != nil {
		return fmt.Errorf("failed to get order: %w", err)
	}

	out := cmd.OutOrStdout()
	printTitle(out, fmt.Sprintf("Order #%d", order.ID))
	printRow(out, "Status", order.Status)
	if b := order.BillingDetails; b != nil {
		printRow(out, "Name", b.FirstName+" "+b.LastName)
		printRow(out, "Country", b.Country)
		if b.CreatedAt != nil {
			printRow(out, "Placed", b.CreatedAt.Format("2006-01-02 15:04"))
		}
	}
	fmt.Fprintln(out)
	for _, p := range order.Positions {
		item := p.Item()
		if item == nil {
			continue
		}
		kind := "product"
		if p.Accessory != nil {
			kind = "accessory"
		}
		fmt.Fprintf(out, "  %-10s %-30s x%-3d %10s\n", kind, item.Name, p.Quantity, item.TotalPrice.StringFixed(2))
	}
	printRow(out, "Total", order.Total().StringFixed(2))
	return nil
}
