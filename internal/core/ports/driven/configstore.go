package driven

import "github.com/custodia-labs/storefront-cli/internal/core/domain"

// SettingsStore loads and persists application settings.
type SettingsStore interface {
	// Load returns the stored settings with environment overrides applied
	// and defaults filled in.
	Load() (domain.Settings, error)

	// Save persists settings to the backing file.
	Save(settings domain.Settings) error

	// Path returns the location of the backing file.
	Path() string
}
