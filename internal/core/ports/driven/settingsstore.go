package driven

import "github.com/grantlight/enrich/internal/core/domain"

// SettingsStore loads and saves pipeline settings.
type SettingsStore interface {
	// Load returns the persisted settings, or defaults when none exist.
	Load() (domain.Settings, error)

	// Save persists the settings.
	Save(settings domain.Settings) error
}
