package domain

import (
	"fmt"
	"net/url"
	"time"
)

// Default setting values.
const (
	DefaultBaseURL        = "https://onlinestore-928b.onrender.com/api"
	DefaultTimeout        = 30 * time.Second
	DefaultRatePerSecond  = 5.0
	DefaultBurst          = 5
	DefaultCountryCode    = "380"
	DefaultCountry        = "Ukraine"
	DefaultOrdersPageSize = 10
)

// APISettings configures the backend connection.
type APISettings struct {
	// BaseURL is the REST API root, without a trailing slash.
	BaseURL string `toml:"base_url" envconfig:"BASE_URL"`
	// Timeout bounds every HTTP round trip.
	Timeout time.Duration `toml:"timeout" envconfig:"TIMEOUT"`
	// RatePerSecond is the proactive client-side throttle.
	RatePerSecond float64 `toml:"rate_per_second" envconfig:"RATE_PER_SECOND"`
	// Burst is the throttle bucket size.
	Burst int `toml:"burst" envconfig:"BURST"`
}

// CheckoutSettings configures order submission.
type CheckoutSettings struct {
	// CountryCode is the international dialing prefix, digits only.
	CountryCode string `toml:"country_code" envconfig:"COUNTRY_CODE"`
	// DefaultCountry fills billing_details.country when the form has none.
	DefaultCountry string `toml:"default_country" envconfig:"DEFAULT_COUNTRY"`
}

// StorageSettings configures local persistence.
type StorageSettings struct {
	// DataDir holds the credentials database. Empty means ~/.storefront/data.
	DataDir string `toml:"data_dir" envconfig:"DATA_DIR"`
}

// Settings holds all application settings.
type Settings struct {
	API      APISettings      `toml:"api" envconfig:"API"`
	Checkout CheckoutSettings `toml:"checkout" envconfig:"CHECKOUT"`
	Storage  StorageSettings  `toml:"storage" envconfig:"STORAGE"`
}

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		API: APISettings{
			BaseURL:       DefaultBaseURL,
			Timeout:       DefaultTimeout,
			RatePerSecond: DefaultRatePerSecond,
			Burst:         DefaultBurst,
		},
		Checkout: CheckoutSettings{
			CountryCode:    DefaultCountryCode,
			DefaultCountry: DefaultCountry,
		},
	}
}

// WithDefaults fills zero values from DefaultSettings.
func (s Settings) WithDefaults() Settings {
	d := DefaultSettings()
	if s.API.BaseURL == "" {
		s.API.BaseURL = d.API.BaseURL
	}
	if s.API.Timeout <= 0 {
		s.API.Timeout = d.API.Timeout
	}
	if s.API.RatePerSecond <= 0 {
		s.API.RatePerSecond = d.API.RatePerSecond
	}
	if s.API.Burst <= 0 {
		s.API.Burst = d.API.Burst
	}
	if s.Checkout.CountryCode == "" {
		s.Checkout.CountryCode = d.Checkout.CountryCode
	}
	if s.Checkout.DefaultCountry == "" {
		s.Checkout.DefaultCountry = d.Checkout.DefaultCountry
	}
	return s
}

// Validate checks the settings are usable.
func (s Settings) Validate() error {
	u, err := url.Parse(s.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url %q: %w", s.API.BaseURL, ErrInvalidInput)
	}
	if onlyDigits(s.Checkout.CountryCode) != s.Checkout.CountryCode {
		return fmt.Errorf("checkout.country_code must be digits only: %w", ErrInvalidInput)
	}
	return nil
}
