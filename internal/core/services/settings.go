package services

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driven"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys accepted by Set.
const (
	keyAPIBaseURL     = "api.base_url"
	keyAPITimeout     = "api.timeout"
	keyAPIRate        = "api.rate_per_second"
	keyAPIBurst       = "api.burst"
	keyCountryCode    = "checkout.country_code"
	keyDefaultCountry = "checkout.default_country"
	keyStorageDataDir = "storage.data_dir"
)

// settingSetters apply one string value to its field.
var settingSetters = map[string]func(*domain.Settings, string) error{
	keyAPIBaseURL: func(s *domain.Settings, v string) error {
		s.API.BaseURL = v
		return nil
	},
	keyAPITimeout: func(s *domain.Settings, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return fmt.Errorf("%s must be a positive duration: %w", keyAPITimeout, domain.ErrInvalidInput)
		}
		s.API.Timeout = d
		return nil
	},
	keyAPIRate: func(s *domain.Settings, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%s must be a positive number: %w", keyAPIRate, domain.ErrInvalidInput)
		}
		s.API.RatePerSecond = f
		return nil
	},
	keyAPIBurst: func(s *domain.Settings, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive integer: %w", keyAPIBurst, domain.ErrInvalidInput)
		}
		s.API.Burst = n
		return nil
	},
	keyCountryCode: func(s *domain.Settings, v string) error {
		s.Checkout.CountryCode = v
		return nil
	},
	keyDefaultCountry: func(s *domain.Settings, v string) error {
		s.Checkout.DefaultCountry = v
		return nil
	},
	keyStorageDataDir: func(s *domain.Settings, v string) error {
		s.Storage.DataDir = v
		return nil
	},
}

// SettingsService manages application settings.
type SettingsService struct {
	store driven.SettingsStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(store driven.SettingsStore) *SettingsService {
	return &SettingsService{store: store}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (domain.Settings, error) {
	if s.store == nil {
		return domain.DefaultSettings(), nil
	}
	settings, err := s.store.Load()
	if err != nil {
		return domain.Settings{}, err
	}
	return settings.WithDefaults(), nil
}

// Set updates a single setting and persists it. The result must validate.
func (s *SettingsService) Set(key, value string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	set, ok := settingSetters[key]
	if !ok {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	if err := set(&settings, value); err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	return s.store.Save(settings)
}

// Keys lists the settable keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingSetters))
	for k := range settingSetters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Path returns the location of the settings file.
func (s *SettingsService) Path() string {
	if s.store == nil {
		return ""
	}
	return s.store.Path()
}
