package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var basketCmd = &cobra.Command{
	Use:   "basket",
	Short: "Inspect the server-side basket",
}

var basketShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active basket id",
	RunE:  runBasketShow,
}

var basketSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Rebuild the server-side basket from the cart file",
	RunE:  runBasketSync,
}

var basketSyncCart string

func init() {
	basketSyncCmd.Flags().StringVar(&basketSyncCart, "cart", "cart.json", "Cart file")

	basketCmd.AddCommand(basketShowCmd)
	basketCmd.AddCommand(basketSyncCmd)
	rootCmd.AddCommand(basketCmd)
}

func runBasketShow(cmd *cobra.Command, _ []string) error {
	if basketService == nil {
		return errors.New("basket service not configured")
	}

	basket, err := basketService.Active(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get basket: %w", err)
	}
	if basket == nil {
		cmd.Println("No active basket")
		return nil
	}
	cmd.Printf("Active basket: %d\n", basket.ID)
	return nil
}

func runBasketSync(cmd *cobra.Command, _ []string) error {
	if basketService == nil {
		return errors.New("basket service not configured")
	}

	cart, err := readCart(basketSyncCart)
	if err != nil {
		return err
	}

	result, err := basketService.Reconcile(cmd.Context(), cart.Items, cart.BasketID)
	if err != nil {
		return fmt.Errorf("failed to sync basket: %w", err)
	}

	out := cmd.OutOrStdout()
	printTitle(out, fmt.Sprintf("Basket %d", result.BasketID))
	printRow(out, "Items added", result.Adds-len(result.ItemErrors))
	printRow(out, "Retries", result.Retries)
	for _, e := range result.ItemErrors {
		fmt.Fprintln(out, warningStyle.Render(fmt.Sprintf("  not added: %s (%v)", e.Key, e.Err)))
	}
	return nil
}
