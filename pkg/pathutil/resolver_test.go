package pathutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	p := New(Config{Root: "/data"})

	if got := p.GetDatabasePath(); got != filepath.Join("/data", "storage.db") {
		t.Errorf("GetDatabasePath() = %q", got)
	}
	if got := p.GetEmulatorDBPath(); got != filepath.Join("/data", "ledger.db") {
		t.Errorf("GetEmulatorDBPath() = %q", got)
	}

	p = New(Config{Root: "/data", DatabasePath: "/tmp/s.db", EmulatorDBPath: "/tmp/l.db"})
	if p.GetDatabasePath() != "/tmp/s.db" || p.GetEmulatorDBPath() != "/tmp/l.db" {
		t.Errorf("explicit paths not kept: %q %q", p.GetDatabasePath(), p.GetEmulatorDBPath())
	}
}

func TestGetExportPath(t *testing.T) {
	p := New(Config{Root: "/data"})
	day := time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC)

	tests := []struct {
		handle   string
		ext      string
		expected string
		wantErr  bool
	}{
		{"alice@pay", "yaml", filepath.Join("/data", "exports", "alice_pay-2024-01-31.yaml"), false},
		{"bob.smith@pay", ".json", filepath.Join("/data", "exports", "bob.smith_pay-2024-01-31.json"), false},
		{"../etc/passwd", "json", filepath.Join("/data", "exports", ".._etc_passwd-2024-01-31.json"), false},
		{"  ", "json", "", true},
		{"alice@pay", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.handle+tt.ext, func(t *testing.T) {
			got, err := p.GetExportPath(tt.handle, day, tt.ext)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetExportPath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("GetExportPath() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestEnsureParentDir(t *testing.T) {
	root := t.TempDir()
	p := New(Config{Root: root})

	file := filepath.Join(root, "a", "b", "c.json")
	if err := p.EnsureParentDir(file); err != nil {
		t.Fatalf("EnsureParentDir() error = %v", err)
	}
	if !p.FileExists(filepath.Dir(file)) {
		t.Error("parent directory not created")
	}
	if p.FileExists(file) {
		t.Error("file should not exist yet")
	}
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if !p.FileExists(file) {
		t.Error("FileExists() = false after write")
	}
}
