package db

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStorage(t *testing.T) *LocalStorage {
	t.Helper()

	conn, err := Open(filepath.Join(t.TempDir(), "nested", "storage.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})

	return NewLocalStorage(conn)
}

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := openTestStorage(t)

	if _, ok, err := storage.GetItem(ctx, "user"); err != nil || ok {
		t.Fatalf("GetItem() on empty storage = ok %v, err %v", ok, err)
	}

	if err := storage.SetItem(ctx, "user", `{"upi_id":"alice@pay"}`); err != nil {
		t.Fatalf("SetItem() error = %v", err)
	}
	if err := storage.SetItem(ctx, "user", `{"upi_id":"bob@pay"}`); err != nil {
		t.Fatalf("SetItem() overwrite error = %v", err)
	}

	value, ok, err := storage.GetItem(ctx, "user")
	if err != nil || !ok {
		t.Fatalf("GetItem() = ok %v, err %v", ok, err)
	}
	if value != `{"upi_id":"bob@pay"}` {
		t.Errorf("GetItem() = %s, expected overwritten value", value)
	}
}

func TestLocalStorageKeysAndRemove(t *testing.T) {
	ctx := context.Background()
	storage := openTestStorage(t)

	for _, key := range []string{"user", "theme", "draft"} {
		if err := storage.SetItem(ctx, key, "{}"); err != nil {
			t.Fatalf("SetItem(%q) error = %v", key, err)
		}
	}

	keys, err := storage.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	expected := []string{"draft", "theme", "user"}
	if len(keys) != len(expected) {
		t.Fatalf("Keys() = %v, expected %v", keys, expected)
	}
	for i := range expected {
		if keys[i] != expected[i] {
			t.Errorf("Keys()[%d] = %q, expected %q", i, keys[i], expected[i])
		}
	}

	removed, err := storage.RemoveItem(ctx, "theme")
	if err != nil || !removed {
		t.Fatalf("RemoveItem() = %v, %v", removed, err)
	}
	removed, err = storage.RemoveItem(ctx, "theme")
	if err != nil || removed {
		t.Errorf("second RemoveItem() = %v, %v, expected false", removed, err)
	}
}
