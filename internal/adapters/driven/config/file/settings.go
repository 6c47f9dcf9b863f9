package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/tessellate-labs/quill-cli/internal/core/domain"
	"github.com/tessellate-labs/quill-cli/internal/core/ports/driven"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

// SettingsStore is a file-based implementation of driven.SettingsStore using TOML.
// Settings are stored in a TOML file within the quill config directory.
type SettingsStore struct {
	mu       sync.RWMutex
	filePath string
	validate *validator.Validate
}

// NewSettingsStore creates a new TOML-based settings store.
// If configDir is empty, defaults to ~/.quill/config.toml.
func NewSettingsStore(configDir string) (*SettingsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".quill")
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	return &SettingsStore{
		filePath: filepath.Join(configDir, "config.toml"),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

// Load reads settings from the TOML file.
// A missing file yields defaults so first runs work without setup.
// Fields the file omits keep their default values.
func (s *SettingsStore) Load() (domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings := domain.DefaultSettings()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return domain.Settings{}, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &settings); err != nil {
		return domain.Settings{}, fmt.Errorf("parse config %s: %w", s.filePath, err)
	}

	if err := s.validate.Struct(settings); err != nil {
		return domain.Settings{}, fmt.Errorf("invalid config %s: %w", s.filePath, err)
	}

	return settings, nil
}

// Save writes settings to the TOML file with restricted permissions.
// API keys may be present, so the file is not world-readable.
func (s *SettingsStore) Save(settings domain.Settings) error {
	if err := s.validate.Struct(settings); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return os.WriteFile(s.filePath, data, 0600)
}

// Path returns the configuration file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}
