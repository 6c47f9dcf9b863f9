package driven

import "github.com/tessellate-labs/quill-cli/internal/core/domain"

// SettingsStore persists application configuration.
type SettingsStore interface {
	// Load reads the current settings. A missing configuration file yields
	// domain.DefaultSettings, not an error.
	Load() (domain.Settings, error)

	// Save writes the settings, creating the configuration file if needed.
	Save(settings domain.Settings) error

	// Path returns the location of the backing configuration file.
	Path() string
}
