package project

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/piwi3910/ScatterBrush/internal/model"
)

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.toml")
}

// SaveAppConfig persists an AppConfig to the given path, as TOML or JSON
// depending on the extension. It creates any missing parent directories.
func SaveAppConfig(path string, config model.AppConfig) error {
	return WriteFile(path, config)
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
func LoadAppConfig(path string) (model.AppConfig, error) {
	config := model.DefaultAppConfig()
	if err := ReadFile(path, &config); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, err
	}
	// Ensure RecentCollections is never nil
	if config.RecentCollections == nil {
		config.RecentCollections = []string{}
	}
	return config, nil
}
