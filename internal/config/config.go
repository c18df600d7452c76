// Package config loads and persists the application configuration.
// Configuration is loaded once at process start and passed into component
// constructors; there is no package-level state.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileName is the configuration file kept in the user's home directory.
const FileName = ".streak-keeper.ini"

// ErrMissingToken indicates no GitHub token was found in the environment
// or the configuration file.
var ErrMissingToken = errors.New("no GitHub token configured")

// Config holds all configuration settings.
type Config struct {
	// Token is the GitHub Personal Access Token used for all API calls.
	Token string

	// Path is where the configuration was loaded from and will be saved to.
	Path string
}

// DefaultPath returns the configuration file path in the user's home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, FileName), nil
}

// Load reads the configuration from path (or the default location when path
// is empty). A .env file and the GITHUB_TOKEN environment variable take
// precedence over the file. A missing file is not an error; callers check
// Token and react to ErrMissingToken from Validate.
func Load(path string) (Config, error) {
	// Best effort; a missing .env file is the normal case.
	_ = godotenv.Load()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return Config{}, err
		}
	}

	cfg := Config{Path: path}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")
	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		}
	} else {
		cfg.Token = v.GetString("github.token")
	}

	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.Token = token
	}
	return cfg, nil
}

// Validate returns ErrMissingToken when no credential is configured.
func (c Config) Validate() error {
	if c.Token == "" {
		return ErrMissingToken
	}
	return nil
}

// Save writes the configuration file, creating it when absent. The file
// holds a credential, so it is written with owner-only permissions.
func (c Config) Save() error {
	v := viper.New()
	v.SetConfigFile(c.Path)
	v.SetConfigType("ini")
	v.Set("github.token", c.Token)
	if err := v.WriteConfigAs(c.Path); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", c.Path, err)
	}
	if err := os.Chmod(c.Path, 0o600); err != nil {
		return fmt.Errorf("failed to restrict config file permissions: %w", err)
	}
	return nil
}
