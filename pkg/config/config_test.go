package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var configKeys = []string{
	"LEDGER_API_URL", "LEDGER_TIMEOUT", "PAYVIEW_ROOT", "PAYVIEW_DB_PATH",
	"PAYVIEW_IDENTITY_FILE", "PAYVIEW_IDENTITY_KEY", "EMULATOR_PORT",
	"EMULATOR_DB_PATH", "EMULATOR_SEED_FILE", "DEBUG",
}

// clearEnv blanks every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir(%q) error = %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("Chdir(%q) error = %v", prev, err)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir()) // no .env here

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Ledger.APIURL != "http://localhost:5000" {
		t.Errorf("APIURL = %q", cfg.Ledger.APIURL)
	}
	if cfg.Ledger.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", cfg.Ledger.Timeout)
	}
	if cfg.Storage.Root != "./.payview" || cfg.Storage.IdentityKey != "user" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Emulator.Port != "5000" {
		t.Errorf("Emulator.Port = %q", cfg.Emulator.Port)
	}
	if cfg.Debug {
		t.Error("Debug = true, expected false")
	}
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)

	envFile := filepath.Join(t.TempDir(), "test.env")
	content := strings.Join([]string{
		"LEDGER_API_URL=http://ledger.internal:8080",
		"LEDGER_TIMEOUT=5s",
		"PAYVIEW_ROOT=/var/lib/payview",
		"PAYVIEW_IDENTITY_FILE=/etc/payview/user.json",
		"DEBUG=true",
	}, "\n")
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	// godotenv does not override variables that are already set, even empty ones
	for _, key := range []string{"LEDGER_API_URL", "LEDGER_TIMEOUT", "PAYVIEW_ROOT", "PAYVIEW_IDENTITY_FILE", "DEBUG"} {
		os.Unsetenv(key)
	}

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Ledger.APIURL != "http://ledger.internal:8080" {
		t.Errorf("APIURL = %q", cfg.Ledger.APIURL)
	}
	if cfg.Ledger.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v", cfg.Ledger.Timeout)
	}
	if cfg.Storage.Root != "/var/lib/payview" || cfg.Storage.IdentityFile != "/etc/payview/user.json" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if !cfg.Debug {
		t.Error("Debug = false, expected true")
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	clearEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("Load() expected error for missing explicit .env file")
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"LEDGER_TIMEOUT", "soon"},
		{"DEBUG", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			chdir(t, t.TempDir())
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load() expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Ledger:  LedgerConfig{APIURL: "http://localhost:5000", Timeout: time.Second},
		Storage: StorageConfig{Root: "./data"},
	}

	if err := cfg.Validate([]string{"ledger", "apiUrl"}, []string{"storage", "root"}); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	err := cfg.Validate([]string{"storage", "identityFile"}, []string{"emulator", "seedFile"})
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	if !strings.Contains(err.Error(), "storage.identityFile") || !strings.Contains(err.Error(), "emulator.seedFile") {
		t.Errorf("Validate() error = %v, expected both missing keys", err)
	}
}
