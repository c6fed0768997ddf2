package cli

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

var discountCmd = &cobra.Command{
	Use:   "discount",
	Short: "Work with discount codes",
}

var discountCheckCmd = &cobra.Command{
	Use:   "check [code]",
	Short: "Check a discount code against a subtotal",
	Args:  cobra.ExactArgs(1),
	RunE:  runDiscountCheck,
}

var discountSubtotal string

func init() {
	discountCheckCmd.Flags().StringVarP(&discountSubtotal, "subtotal", "s", "100", "Cart subtotal")

	discountCmd.AddCommand(discountCheckCmd)
	rootCmd.AddCommand(discountCmd)
}

func runDiscountCheck(cmd *cobra.Command, args []string) error {
	if pricingService == nil {
		return errors.New("pricing service not configured")
	}

	subtotal, err := decimal.NewFromString(discountSubtotal)
	if err != nil {
		return fmt.Errorf("invalid subtotal %q", discountSubtotal)
	}

	quote, err := pricingService.Quote(cmd.Context(), subtotal, args[0])
	if errors.Is(err, domain.ErrDiscountInvalid) {
		fmt.Fprintln(cmd.OutOrStdout(), errorStyle.Render(domain.ErrDiscountInvalid.Error()))
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to check discount: %w", err)
	}

	out := cmd.OutOrStdout()
	printTitle(out, "Discount "+quote.Code)
	printRow(out, "Subtotal", quote.Subtotal.StringFixed(2))
	printRow(out, "Discount", quote.Discount.StringFixed(2))
	printRow(out, "Total", quote.Total.StringFixed(2))
	return nil
}
