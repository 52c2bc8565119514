// Package main runs a local ledger service emulator for payview.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shunichi-ikebuchi/payview/pkg/config"
	"github.com/shunichi-ikebuchi/payview/pkg/emulator"
	"github.com/shunichi-ikebuchi/payview/pkg/pathutil"
)

func main() {
	// Setup structured JSON logging.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate([]string{"emulator", "port"}); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	paths := pathutil.New(pathutil.Config{
		Root:           cfg.Storage.Root,
		EmulatorDBPath: cfg.Emulator.DBPath,
	})
	dbPath := paths.GetEmulatorDBPath()
	if err := paths.EnsureParentDir(dbPath); err != nil {
		slog.Error("failed to prepare data directory", "error", err)
		os.Exit(1)
	}

	// Initialize store.
	st, err := emulator.New(dbPath)
	if err != nil {
		slog.Error("failed to initialize store", "error", err, "db_path", dbPath)
		os.Exit(1)
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}()

	slog.Info("database initialized", "db_path", dbPath)

	if cfg.Emulator.SeedFile != "" {
		seed, err := emulator.LoadSeed(cfg.Emulator.SeedFile)
		if err != nil {
			slog.Error("failed to load seed", "error", err, "seed_file", cfg.Emulator.SeedFile)
			os.Exit(1)
		}
		created, err := st.Apply(seed)
		if err != nil {
			slog.Error("failed to apply seed", "error", err)
			os.Exit(1)
		}
		slog.Info("seed applied", "seed_file", cfg.Emulator.SeedFile, "accounts_created", created)
	}

	addr := fmt.Sprintf(":%s", cfg.Emulator.Port)
	slog.Info("starting ledger emulator", "addr", addr, "port", cfg.Emulator.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      emulator.NewRouter(st, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		slog.Info("shutting down server")
		if err := server.Close(); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
