package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

const (
	ModelGPT35Turbo = "gpt-3.5-turbo"
	ModelGPT4       = "gpt-4"
	ModelGPT4Turbo  = "gpt-4-turbo"
)

const (
	// DefaultBaseURL is the backend base path, matching the service's
	// /openai mount.
	DefaultBaseURL = "http://localhost:8000/openai"

	// DefaultStorePath is the local SQLite store for identity and the
	// analytics snapshot.
	DefaultStorePath = "aironrush.db"

	// DefaultHistoryLimit caps how many messages are loaded per session.
	DefaultHistoryLimit = 50
)

// Models lists the selectable chat models.
var Models = []string{ModelGPT35Turbo, ModelGPT4, ModelGPT4Turbo}

// Config holds application configuration
type Config struct {
	BaseURL       string `toml:"base_url"`
	Model         string `toml:"model"`
	SessionID     string `toml:"session_id"`
	StorePath     string `toml:"store_path"`
	DashboardAddr string `toml:"dashboard_addr"`
	Debug         bool   `toml:"debug"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		Model:     ModelGPT35Turbo,
		StorePath: DefaultStorePath,
	}
}

// Load reads a TOML config file over the defaults. A missing file is not an
// error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// ValidModel reports whether m is a selectable model.
func ValidModel(m string) bool {
	for _, known := range Models {
		if known == m {
			return true
		}
	}
	return false
}
