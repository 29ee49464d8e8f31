package driving

import "github.com/custodia-labs/heritage-atlas/internal/core/domain"

// SettingsService resolves application settings from configuration.
type SettingsService interface {
	// Get returns the effective settings: defaults overlaid with config.
	Get() domain.AppSettings

	// Set writes one configuration key and persists it.
	Set(key, value string) error

	// Keys returns the supported configuration keys.
	Keys() []string
}
