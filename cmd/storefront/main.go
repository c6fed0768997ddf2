// Command storefront is the storefront command-line client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/custodia-labs/storefront-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/storefront-cli/internal/adapters/driven/events"
	"github.com/custodia-labs/storefront-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/storefront-cli/internal/adapters/driven/storefront"
	"github.com/custodia-labs/storefront-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/storefront-cli/internal/core/services"
	"github.com/custodia-labs/storefront-cli/internal/logger"
	"github.com/custodia-labs/storefront-cli/internal/metrics"
)

// version is overridden with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env is normal.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cleanup, err := wire(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "storefront:", err)
		os.Exit(1)
	}
	defer cleanup()

	cli.SetVersion(version)
	if err := cli.Execute(ctx); err != nil {
		cleanup()
		os.Exit(1)
	}
}

// wire builds the adapters and services and hands them to the CLI.
func wire(ctx context.Context) (func(), error) {
	settingsStore, err := file.NewSettingsStore("")
	if err != nil {
		return nil, fmt.Errorf("opening settings: %w", err)
	}
	settingsService := services.NewSettingsService(settingsStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	db, err := sqlite.NewStore(settings.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening credentials database: %w", err)
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	broadcaster := events.NewBroadcaster()
	sessionEvents, unsubscribe := broadcaster.Subscribe()
	go func() {
		for {
			select {
			case ev, ok := <-sessionEvents:
				if !ok {
					return
				}
				logger.Debug("session %s", ev.Kind)
			case <-ctx.Done():
				return
			}
		}
	}()

	limiter := storefront.NewRateLimiter(settings.API.RatePerSecond, settings.API.Burst)
	credentials := services.NewCredentialsService(db.CredentialsStore(), broadcaster)
	authClient := storefront.NewAuthClient(settings.API, storefront.WithRateLimiter(limiter))
	coordinator := services.NewRefreshCoordinator(credentials, authClient, m)
	client := storefront.NewClient(settings.API, coordinator,
		storefront.WithMetrics(m),
		storefront.WithRateLimiter(limiter),
	)

	pricing := services.NewPricingService(client)
	baskets := services.NewBasketReconciler(client, m)
	checkout := services.NewCheckoutService(baskets, client,
		services.WithPricing(pricing),
		services.WithCheckoutSettings(settings.Checkout),
		services.WithCheckoutMetrics(m),
	)

	cli.SetServices(cli.Services{
		Session:  services.NewSessionService(credentials, authClient, client),
		Checkout: checkout,
		Basket:   baskets,
		Orders:   services.NewOrderService(client),
		Pricing:  pricing,
		Settings: settingsService,
		Metrics:  registry,
	})

	var closed bool
	return func() {
		if closed {
			return
		}
		closed = true
		unsubscribe()
		if err := db.Close(); err != nil {
			logger.Warn("closing credentials database: %v", err)
		}
	}, nil
}
