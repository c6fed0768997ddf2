package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Place an order from a cart file",
	Long: `Place an order from a cart file and a contact/payment form.

The server-side basket is rebuilt from the cart before the order is
submitted. If the basket expires midway it is recovered automatically.
On success the cart file is emptied.

Examples:
  storefront checkout --cart cart.json --form form.json --agree
  storefront checkout --cart cart.json --form form.json --agree --discount TEA10`,
	RunE: runCheckout,
}

// Flags for checkout.
var (
	checkoutCart     string
	checkoutForm     string
	checkoutDiscount string
	checkoutAgree    bool
	checkoutKeepCart bool
)

func init() {
	checkoutCmd.Flags().StringVar(&checkoutCart, "cart", "cart.json", "Cart file")
	checkoutCmd.Flags().StringVar(&checkoutForm, "form", "", "Contact and payment form file")
	checkoutCmd.Flags().StringVar(&checkoutDiscount, "discount", "", "Discount code (overrides the cart file)")
	checkoutCmd.Flags().BoolVar(&checkoutAgree, "agree", false, "Agree to the Privacy Policy and Terms of Use")
	checkoutCmd.Flags().BoolVar(&checkoutKeepCart, "keep-cart", false, "Do not empty the cart file after the order")
	_ = checkoutCmd.MarkFlagRequired("form")
	rootCmd.AddCommand(checkoutCmd)
}

func runCheckout(cmd *cobra.Command, _ []string) error {
	if checkoutService == nil {
		return errors.New("checkout service not configured")
	}

	cart, err := readCart(checkoutCart)
	if err != nil {
		return err
	}
	form, err := readForm(checkoutForm)
	if err != nil {
		return err
	}

	req := domain.CheckoutRequest{
		Contact:      form.Contact,
		Payment:      form.Payment,
		Items:        cart.Items,
		Subtotal:     cart.Subtotal,
		DiscountCode: cart.DiscountCode,
		BasketID:     cart.BasketID,
	}
	if checkoutDiscount != "" {
		req.DiscountCode = checkoutDiscount
	}
	if checkoutAgree {
		req.Payment.Agreed = true
	}

	result, err := checkoutService.PlaceOrder(cmd.Context(), req)
	if err != nil {
		return reportCheckoutError(cmd, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("Order #%d placed", result.Order.ID)))
	printRow(out, "Status", result.Order.Status)
	printRow(out, "Basket", result.BasketID)
	if result.Discount.IsPositive() {
		printRow(out, "Discount", result.Discount.StringFixed(2))
	}
	printRow(out, "Total", result.Total.StringFixed(2))
	for _, w := range result.ItemWarnings {
		fmt.Fprintln(out, warningStyle.Render(fmt.Sprintf("  not added: %s (%v)", w.Key, w.Err)))
	}

	if checkoutKeepCart {
		return nil
	}
	if err := clearCart(checkoutCart); err != nil {
		return fmt.Errorf("order placed but the cart could not be cleared: %w", err)
	}
	return nil
}

// reportCheckoutError prints field details for form and business errors.
func reportCheckoutError(cmd *cobra.Command, err error) error {
	errOut := cmd.ErrOrStderr()

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintln(errOut, errorStyle.Render("Please fix the form:"))
		printFields(errOut, verr.Fields)
		return err
	}

	var rejected *domain.OrderRejectedError
	if errors.As(err, &rejected) {
		fmt.Fprintln(errOut, errorStyle.Render("The store rejected the order:"))
		if len(rejected.Fields) > 0 {
			printFields(errOut, rejected.Fields)
		} else {
			fmt.Fprintln(errOut, "  "+rejected.Message)
		}
		return err
	}

	if domain.IsTerminalAuth(err) {
		return fmt.Errorf("%w (run 'storefront auth login')", err)
	}
	return err
}
