package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage client settings",
	Long: `View and change client settings.

Settings live in ~/.storefront/config.toml. Any value can be overridden
with an environment variable, e.g. STOREFRONT_API_BASE_URL. Overrides
active while running 'config set' are written to the file as well.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	out := cmd.OutOrStdout()
	printTitle(out, "Current Settings")
	if path := settingsService.Path(); path != "" {
		fmt.Fprintln(out, mutedStyle.Render("  "+path))
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "[api]")
	printRow(out, "base_url", settings.API.BaseURL)
	printRow(out, "timeout", settings.API.Timeout)
	printRow(out, "rate_per_second", settings.API.RatePerSecond)
	printRow(out, "burst", settings.API.Burst)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "[checkout]")
	printRow(out, "country_code", settings.Checkout.CountryCode)
	printRow(out, "default_country", settings.Checkout.DefaultCountry)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "[storage]")
	dataDir := settings.Storage.DataDir
	if dataDir == "" {
		dataDir = "(default)"
	}
	printRow(out, "data_dir", dataDir)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w (keys: %s)", key, err, strings.Join(settingsService.Keys(), ", "))
	}

	cmd.Printf("%s = %s\n", key, value)
	return nil
}
