package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shunichi-ikebuchi/payview/pkg/account"
	"github.com/shunichi-ikebuchi/payview/pkg/config"
	"github.com/shunichi-ikebuchi/payview/pkg/db"
	"github.com/shunichi-ikebuchi/payview/pkg/identity"
	"github.com/shunichi-ikebuchi/payview/pkg/ledger"
	"github.com/shunichi-ikebuchi/payview/pkg/pathutil"
)

// session holds everything a command needs to drive an account view.
type session struct {
	cfg     *config.Config
	paths   *pathutil.PathResolver
	conn    *db.Connection
	storage *db.LocalStorage
	source  identity.Source
	client  *ledger.Client
}

// openSession loads configuration, opens local storage and builds the
// identity source and ledger client.
func openSession() (*session, error) {
	cfg, err := config.Load(getConfigFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Debug && !debug {
		setupLogging(true)
	}

	if err := cfg.Validate(
		[]string{"ledger", "apiUrl"},
		[]string{"storage", "root"},
	); err != nil {
		return nil, err
	}

	paths := pathutil.New(pathutil.Config{
		Root:         cfg.Storage.Root,
		DatabasePath: cfg.Storage.DBPath,
	})

	dbPath := paths.GetDatabasePath()
	slog.Debug("Opening local storage", "path", dbPath)
	conn, err := db.Open(dbPath)
	if err != nil {
		return nil, err
	}
	storage := db.NewLocalStorage(conn)

	var source identity.Source = identity.StorageSource{Storage: storage, Key: cfg.Storage.IdentityKey}
	if cfg.Storage.IdentityFile != "" {
		slog.Debug("Reading identity from file", "path", cfg.Storage.IdentityFile)
		source = identity.FileSource{Path: cfg.Storage.IdentityFile}
	}

	client := ledger.NewClient(ledger.ClientConfig{
		APIURL:  cfg.Ledger.APIURL,
		Timeout: cfg.Ledger.Timeout,
	})

	return &session{
		cfg:     cfg,
		paths:   paths,
		conn:    conn,
		storage: storage,
		source:  source,
		client:  client,
	}, nil
}

func (s *session) newView(opts ...account.Option) *account.View {
	opts = append([]account.Option{account.WithLogger(slog.Default())}, opts...)
	return account.New(s.client, s.source, opts...)
}

func (s *session) Close() {
	if err := s.conn.Close(); err != nil {
		slog.Warn("Failed to close local storage", "error", err)
	}
}
