package driving

import "github.com/custodia-labs/quotechain/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.Settings, error)

	// Save persists application settings.
	Save(settings *domain.Settings) error

	// Set parses and stores a single setting by its config key.
	Set(key, value string) error

	// Keys lists the supported config keys.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings
}
