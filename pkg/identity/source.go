// Package identity loads the previously persisted account identity.
//
// The identity blob is written by a separate login flow. Sources here only
// read it; Import exists for the CLI, which stands in for that flow.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shunichi-ikebuchi/payview/pkg/db"
	"github.com/shunichi-ikebuchi/payview/pkg/ledger"
)

// DefaultKey is the well-known local storage key of the identity blob.
const DefaultKey = "user"

// ErrMissingHandle is returned when a stored blob has no payment handle.
var ErrMissingHandle = errors.New("identity has no upi_id")

// Source provides the persisted identity.
// Load returns nil, nil when no identity has been persisted.
type Source interface {
	Load(ctx context.Context) (*ledger.Account, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (*ledger.Account, error)

// Load calls f(ctx).
func (f SourceFunc) Load(ctx context.Context) (*ledger.Account, error) {
	return f(ctx)
}

// FileSource reads the identity blob from a JSON file.
type FileSource struct {
	Path string
}

// Load reads and decodes the file. A missing file means no identity.
func (s FileSource) Load(ctx context.Context) (*ledger.Account, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read identity file: %w", err)
	}

	return Decode(data)
}

// StorageSource reads the identity blob from local storage.
type StorageSource struct {
	Storage *db.LocalStorage
	Key     string // Default: DefaultKey
}

// Load reads and decodes the stored blob. A missing key means no identity.
func (s StorageSource) Load(ctx context.Context) (*ledger.Account, error) {
	value, ok, err := s.Storage.GetItem(ctx, s.key())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	return Decode([]byte(value))
}

func (s StorageSource) key() string {
	if s.Key == "" {
		return DefaultKey
	}
	return s.Key
}

// Decode parses an identity blob. Unknown fields are ignored; a JSON null
// decodes to no identity.
func Decode(data []byte) (*ledger.Account, error) {
	var account *ledger.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, fmt.Errorf("failed to parse identity: %w", err)
	}
	if account == nil {
		return nil, nil
	}

	account.Handle = strings.TrimSpace(account.Handle)
	if account.Handle == "" {
		return nil, ErrMissingHandle
	}

	return account, nil
}

// Import validates data as an identity blob and writes it under key.
func Import(ctx context.Context, storage *db.LocalStorage, key string, data []byte) (*ledger.Account, error) {
	account, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("identity blob is empty")
	}

	if key == "" {
		key = DefaultKey
	}
	if err := storage.SetItem(ctx, key, string(data)); err != nil {
		return nil, err
	}

	return account, nil
}
