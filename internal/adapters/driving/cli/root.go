// Package cli provides the storefront command-line interface built on cobra.
package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/storefront-cli/internal/core/ports/driving"
	"github.com/custodia-labs/storefront-cli/internal/logger"
	"github.com/custodia-labs/storefront-cli/internal/metrics"
)

// version is set at build time via SetVersion.
var version = "dev"

// Services wired by main. Commands report "not configured" when nil.
var (
	sessionService  driving.SessionService
	checkoutService driving.CheckoutService
	basketService   driving.BasketService
	orderService    driving.OrderService
	pricingService  driving.PricingService
	settingsService driving.SettingsService
	metricsGatherer prometheus.Gatherer
)

// Global flags.
var (
	verbose     bool
	showMetrics bool
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront client",
	Long: `storefront signs in to the online store, places orders from a cart file
and browses order history.

Sessions persist between runs. Expired access tokens are refreshed
transparently; when the refresh itself fails you are asked to log in again.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
		if !showMetrics || metricsGatherer == nil {
			return nil
		}
		return metrics.Dump(cmd.ErrOrStderr(), metricsGatherer)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug logs")
	rootCmd.PersistentFlags().BoolVar(&showMetrics, "metrics", false, "Dump client metrics after the command")
}

// Services groups the driving ports the commands use.
type Services struct {
	Session  driving.SessionService
	Checkout driving.CheckoutService
	Basket   driving.BasketService
	Orders   driving.OrderService
	Pricing  driving.PricingService
	Settings driving.SettingsService
	Metrics  prometheus.Gatherer
}

// SetServices installs the services used by every command.
func SetServices(s Services) {
	sessionService = s.Session
	checkoutService = s.Checkout
	basketService = s.Basket
	orderService = s.Orders
	pricingService = s.Pricing
	settingsService = s.Settings
	metricsGatherer = s.Metrics
}

// SetVersion sets the version reported by "storefront version".
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
