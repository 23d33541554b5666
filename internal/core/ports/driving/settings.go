package driving

import "github.com/custodia-labs/tramtid/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings: defaults, overlaid by the config file,
	// overlaid by environment variables.
	Get() (*domain.AppSettings, error)

	// Set validates and persists a single setting.
	Set(key, value string) error

	// Unset removes a setting so its default applies again.
	Unset(key string) error

	// Keys lists the settings that can be configured.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ConfigPath returns the configuration file location.
	ConfigPath() string
}
