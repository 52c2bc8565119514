// Package pathutil provides centralized path management for the local data directory.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PathResolver manages paths for local storage, the emulator database and exports.
type PathResolver struct {
	root           string
	databasePath   string
	emulatorDBPath string
	exportsDir     string
}

// Config represents the configuration for PathResolver.
type Config struct {
	// Root is the local data directory (e.g., ~/.payview)
	Root string
	// DatabasePath is the path to the SQLite local storage file
	DatabasePath string
	// EmulatorDBPath is the path to the ledger emulator bbolt file
	EmulatorDBPath string
}

// New creates a new PathResolver with the given configuration.
// If DatabasePath is empty, it defaults to {Root}/storage.db
// If EmulatorDBPath is empty, it defaults to {Root}/ledger.db
func New(config Config) *PathResolver {
	dbPath := config.DatabasePath
	if dbPath == "" {
		dbPath = filepath.Join(config.Root, "storage.db")
	}

	emulatorDBPath := config.EmulatorDBPath
	if emulatorDBPath == "" {
		emulatorDBPath = filepath.Join(config.Root, "ledger.db")
	}

	return &PathResolver{
		root:           config.Root,
		databasePath:   dbPath,
		emulatorDBPath: emulatorDBPath,
		exportsDir:     filepath.Join(config.Root, "exports"),
	}
}

// GetRoot returns the local data directory.
func (p *PathResolver) GetRoot() string {
	return p.root
}

// GetDatabasePath returns the local storage file path.
func (p *PathResolver) GetDatabasePath() string {
	return p.databasePath
}

// GetEmulatorDBPath returns the emulator database file path.
func (p *PathResolver) GetEmulatorDBPath() string {
	return p.emulatorDBPath
}

// GetExportPath returns the snapshot export path for a handle and day.
// Example: ~/.payview/exports/alice_pay-2024-01-31.yaml
func (p *PathResolver) GetExportPath(handle string, day time.Time, ext string) (string, error) {
	name := sanitizeHandle(handle)
	if name == "" {
		return "", fmt.Errorf("invalid handle for export: %q", handle)
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return "", fmt.Errorf("missing export extension")
	}

	filename := fmt.Sprintf("%s-%s.%s", name, day.Format("2006-01-02"), ext)
	return filepath.Join(p.exportsDir, filename), nil
}

// EnsureParentDir ensures the parent directory of a file exists.
func (p *PathResolver) EnsureParentDir(filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// FileExists checks if a file exists.
func (p *PathResolver) FileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil
}

// sanitizeHandle makes a payment handle safe to use in a file name.
func sanitizeHandle(handle string) string {
	handle = strings.TrimSpace(handle)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, handle)
}
