// Package config provides configuration management functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/aristath/degiro/internal/export"
	"github.com/aristath/degiro/pkg/degiro"
)

// Config holds the settings of the degiro command
type Config struct {
	Username     string
	Password     string
	BaseURL      string
	LogLevel     string
	LogPretty    bool
	OutputFormat export.Format
}

// Load reads configuration from a .env file, if present, and the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	format, err := export.ParseFormat(getEnv("OUTPUT_FORMAT", string(export.FormatJSON)))
	if err != nil {
		return nil, fmt.Errorf("OUTPUT_FORMAT: %w", err)
	}

	cfg := &Config{
		Username:     getEnv("DEGIRO_USERNAME", ""),
		Password:     getEnv("DEGIRO_PASSWORD", ""),
		BaseURL:      getEnv("DEGIRO_BASE_URL", degiro.DefaultBaseURL),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogPretty:    getEnvAsBool("LOG_PRETTY", true),
		OutputFormat: format,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Username == "" || c.Password == "" {
		return errors.New("DEGIRO_USERNAME and DEGIRO_PASSWORD are required")
	}
	if c.BaseURL == "" {
		return errors.New("DEGIRO_BASE_URL must not be empty")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
