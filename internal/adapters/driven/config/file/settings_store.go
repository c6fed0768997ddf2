package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driven"
)

// EnvPrefix prefixes every environment override, e.g. STOREFRONT_API_BASE_URL.
const EnvPrefix = "STOREFRONT"

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

// SettingsStore keeps settings in a TOML file within the storefront config
// directory. Environment variables override file values on Load and are
// never written back.
type SettingsStore struct {
	mu       sync.Mutex
	filePath string
}

// fileSettings is the on-disk shape. Durations are written as strings
// such as "30s".
type fileSettings struct {
	API      fileAPISettings         `toml:"api"`
	Checkout domain.CheckoutSettings `toml:"checkout"`
	Storage  domain.StorageSettings  `toml:"storage"`
}

type fileAPISettings struct {
	BaseURL       string  `toml:"base_url,omitempty"`
	Timeout       string  `toml:"timeout,omitempty"`
	RatePerSecond float64 `toml:"rate_per_second,omitempty"`
	Burst         int     `toml:"burst,omitempty"`
}

// NewSettingsStore creates a TOML-backed settings store.
// If configDir is empty, defaults to ~/.storefront/config.toml.
func NewSettingsStore(configDir string) (*SettingsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".storefront")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	return &SettingsStore{filePath: filepath.Join(configDir, "config.toml")}, nil
}

// Load reads the file, applies STOREFRONT_* overrides and fills defaults.
// A missing file yields the defaults.
func (s *SettingsStore) Load() (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.read()
	if err != nil {
		return domain.Settings{}, err
	}

	if err := envconfig.Process(EnvPrefix, &settings); err != nil {
		return domain.Settings{}, fmt.Errorf("parsing environment overrides: %w", err)
	}

	return settings.WithDefaults(), nil
}

// Save writes the settings to disk, readable only by the owner.
func (s *SettingsStore) Save(settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fs := fileSettings{
		API: fileAPISettings{
			BaseURL:       settings.API.BaseURL,
			RatePerSecond: settings.API.RatePerSecond,
			Burst:         settings.API.Burst,
		},
		Checkout: settings.Checkout,
		Storage:  settings.Storage,
	}
	if settings.API.Timeout > 0 {
		fs.API.Timeout = settings.API.Timeout.String()
	}

	data, err := toml.Marshal(fs)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", s.filePath, err)
	}
	return nil
}

// Path returns the configuration file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}

// read decodes the file without defaults (caller must hold lock).
func (s *SettingsStore) read() (domain.Settings, error) {
	data, err := os.ReadFile(s.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return domain.Settings{}, nil
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("reading %s: %w", s.filePath, err)
	}

	var fs fileSettings
	if err := toml.Unmarshal(data, &fs); err != nil {
		return domain.Settings{}, fmt.Errorf("decoding %s: %w", s.filePath, err)
	}

	settings := domain.Settings{
		API: domain.APISettings{
			BaseURL:       fs.API.BaseURL,
			RatePerSecond: fs.API.RatePerSecond,
			Burst:         fs.API.Burst,
		},
		Checkout: fs.Checkout,
		Storage:  fs.Storage,
	}
	if fs.API.Timeout != "" {
		timeout, err := time.ParseDuration(fs.API.Timeout)
		if err != nil {
			return domain.Settings{}, fmt.Errorf("api.timeout %q: %w", fs.API.Timeout, domain.ErrInvalidInput)
		}
		settings.API.Timeout = timeout
	}
	return settings, nil
}
