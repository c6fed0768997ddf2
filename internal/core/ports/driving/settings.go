package driving

import "github.com/custodia-labs/storefront-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (domain.Settings, error)

	// Set updates a single setting by its dotted key and persists it.
	Set(key, value string) error

	// Keys lists the settable keys.
	Keys() []string

	// Path returns the location of the settings file.
	Path() string
}
