package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driving"
)

type mockSessionService struct {
	status    *driving.SessionStatus
	err       error
	loggedIn  string
	password  string
	loggedOut bool
}

func (m *mockSessionService) Login(_ context.Context, email, password string) error {
	m.loggedIn, m.password = email, password
	return m.err
}

func (m *mockSessionService) Logout(_ context.Context) error {
	m.loggedOut = true
	return m.err
}

func (m *mockSessionService) Profile(_ context.Context) (*domain.Profile, error) {
	return nil, m.err
}

func (m *mockSessionService) Status(_ context.Context) (*driving.SessionStatus, error) {
	return m.status, m.err
}

type mockCheckoutService struct {
	result *domain.OrderResult
	err    error
	req    domain.CheckoutRequest
}

func (m *mockCheckoutService) PlaceOrder(_ context.Context, req domain.CheckoutRequest) (*domain.OrderResult, error) {
	m.req = req
	return m.result, m.err
}

type mockBasketService struct {
	basket *domain.Basket
	result *driving.ReconcileResult
	err    error
}

func (m *mockBasketService) Reconcile(_ context.Context, _ []domain.LineItem, _ int64) (*driving.ReconcileResult, error) {
	return m.result, m.err
}

func (m *mockBasketService) Active(_ context.Context) (*domain.Basket, error) {
	return m.basket, m.err
}

type mockOrderService struct {
	page  *domain.OrderPage
	order *domain.Order
	err   error
}

func (m *mockOrderService) List(_ context.Context, _, _ int) (*domain.OrderPage, error) {
	return m.page, m.err
}

func (m *mockOrderService) Details(_ context.Context, _ int64) (*domain.Order, error) {
	return m.order, m.err
}

type mockPricingService struct {
	quote *domain.Quote
	err   error
}

func (m *mockPricingService) Quote(_ context.Context, _ decimal.Decimal, _ string) (*domain.Quote, error) {
	return m.quote, m.err
}

type mockSettingsService struct {
	settings domain.Settings
	setKey   string
	setValue string
	err      error
}

func (m *mockSettingsService) Get() (domain.Settings, error) { return m.settings, m.err }

func (m *mockSettingsService) Set(key, value string) error {
	m.setKey, m.setValue = key, value
	return m.err
}

func (m *mockSettingsService) Keys() []string { return []string{"api.base_url", "api.timeout"} }

func (m *mockSettingsService) Path() string { return "/home/test/.storefront/config.toml" }

// withServices installs s for the duration of the test.
func withServices(t *testing.T, s Services) {
	t.Helper()
	prev := Services{
		Session:  sessionService,
		Checkout: checkoutService,
		Basket:   basketService,
		Orders:   orderService,
		Pricing:  pricingService,
		Settings: settingsService,
		Metrics:  metricsGatherer,
	}
	SetServices(s)
	t.Cleanup(func() { SetServices(prev) })
}

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	clearChangedFlags(rootCmd)

	err := rootCmd.Execute()
	return buf.String(), err
}

// clearChangedFlags forgets which flags earlier runs set, so required-flag
// checks behave the same on every execution.
func clearChangedFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	for _, sub := range cmd.Commands() {
		clearChangedFlags(sub)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}
