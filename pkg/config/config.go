// Package config provides configuration management for payview.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	Ledger   LedgerConfig
	Storage  StorageConfig
	Emulator EmulatorConfig
	Debug    bool
}

// LedgerConfig represents ledger service configuration.
type LedgerConfig struct {
	APIURL  string
	Timeout time.Duration
}

// StorageConfig represents local storage configuration.
type StorageConfig struct {
	Root         string
	DBPath       string
	IdentityFile string
	IdentityKey  string
}

// EmulatorConfig represents ledger emulator configuration.
type EmulatorConfig struct {
	Port     string
	DBPath   string
	SeedFile string
}

// Load loads configuration from environment variables.
// It automatically loads .env file from the current directory if available.
// You can optionally specify a custom .env file path.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	timeout, err := parseDurationEnv("LEDGER_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid LEDGER_TIMEOUT: %w", err)
	}

	debug, err := parseBoolEnv("DEBUG", false)
	if err != nil {
		return nil, fmt.Errorf("invalid DEBUG: %w", err)
	}

	config := &Config{
		Ledger: LedgerConfig{
			APIURL:  getEnvOrDefault("LEDGER_API_URL", "http://localhost:5000"),
			Timeout: timeout,
		},
		Storage: StorageConfig{
			Root:         getEnvOrDefault("PAYVIEW_ROOT", "./.payview"),
			DBPath:       os.Getenv("PAYVIEW_DB_PATH"),
			IdentityFile: os.Getenv("PAYVIEW_IDENTITY_FILE"),
			IdentityKey:  getEnvOrDefault("PAYVIEW_IDENTITY_KEY", "user"),
		},
		Emulator: EmulatorConfig{
			Port:     getEnvOrDefault("EMULATOR_PORT", "5000"),
			DBPath:   os.Getenv("EMULATOR_DB_PATH"),
			SeedFile: os.Getenv("EMULATOR_SEED_FILE"),
		},
		Debug: debug,
	}

	return config, nil
}

// Validate validates the configuration.
// It checks if all required fields are set.
func (c *Config) Validate(required ...[]string) error {
	var missing []string

	for _, path := range required {
		if len(path) < 2 {
			continue
		}

		var value string
		switch path[0] {
		case "ledger":
			switch path[1] {
			case "apiUrl":
				value = c.Ledger.APIURL
			case "timeout":
				if c.Ledger.Timeout > 0 {
					value = "set"
				}
			}
		case "storage":
			switch path[1] {
			case "root":
				value = c.Storage.Root
			case "dbPath":
				value = c.Storage.DBPath
			case "identityFile":
				value = c.Storage.IdentityFile
			case "identityKey":
				value = c.Storage.IdentityKey
			}
		case "emulator":
			switch path[1] {
			case "port":
				value = c.Emulator.Port
			case "dbPath":
				value = c.Emulator.DBPath
			case "seedFile":
				value = c.Emulator.SeedFile
			}
		}

		if value == "" {
			missing = append(missing, strings.Join(path, "."))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v\nPlease check your .env file or environment variables", missing)
	}

	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDurationEnv parses a duration such as "15s" from an environment variable.
// Returns defaultValue if the environment variable is not set.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration value for %s: %s", key, value)
	}

	return parsed, nil
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean value for %s: %s", key, value)
	}

	return parsed, nil
}
