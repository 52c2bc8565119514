package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shunichi-ikebuchi/payview/pkg/account"
	"github.com/shunichi-ikebuchi/payview/pkg/render"
	"github.com/spf13/cobra"
)

var (
	outputFormat      string
	saveSnapshot      bool
	watchInterval     time.Duration
	showRefreshErrors bool
)

// showCmd represents the show command.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the account, its history and chart",
	Long: `Show the signed-in account.

This command:
1. Loads the persisted identity
2. Fetches the current balance and transaction history concurrently
3. Prints the user info, the history table and the per-day chart series

With --watch the account is re-fetched every interval until interrupted.

Example:
  payview show
  payview show --output json --save
  payview show --watch 30s`,
	Run: runShow,
}

func init() {
	showCmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "Output format (text, json, yaml)")
	showCmd.Flags().BoolVar(&saveSnapshot, "save", false, "Also save the snapshot under the exports directory")
	showCmd.Flags().DurationVar(&watchInterval, "watch", 0, "Refresh periodically at this interval (e.g. 30s)")
	showCmd.Flags().BoolVar(&showRefreshErrors, "show-refresh-errors", false, "Report failed refreshes in the status line")
}

func runShow(cmd *cobra.Command, args []string) {
	format, err := render.ParseFormat(outputFormat)
	exitOnError(err, "invalid output format")

	s, err := openSession()
	exitOnError(err, "failed to open session")
	defer s.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	view := s.newView(account.WithRefreshStatus(showRefreshErrors))
	defer view.Close()

	if err := view.Initialize(ctx); err != nil {
		slog.Warn("Failed to load identity", "error", err)
	}
	exitOnError(emit(s, view.Snapshot(), format), "failed to write output")

	if watchInterval <= 0 {
		return
	}

	slog.Info("Watching account", "interval", watchInterval)
	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopped watching")
			return
		case <-ticker.C:
			refresh(ctx, view)
			exitOnError(emit(s, view.Snapshot(), format), "failed to write output")
		}
	}
}

// refresh re-fetches the account. Without an identity yet, the identity
// source is read again so a login that happened meanwhile is picked up.
func refresh(ctx context.Context, view *account.View) {
	state := view.Snapshot()
	if state.Identity == nil {
		if err := view.Initialize(ctx); err != nil {
			slog.Warn("Failed to load identity", "error", err)
		}
		return
	}
	if err := view.Refresh(ctx, state.Identity.Handle); err != nil {
		slog.Debug("Refresh incomplete", "error", err)
	}
}

// emit prints state to stdout and, with --save, to the export file.
func emit(s *session, state account.State, format render.Format) error {
	if err := render.Write(os.Stdout, format, state); err != nil {
		return err
	}
	if !saveSnapshot {
		return nil
	}
	if state.Identity == nil {
		slog.Warn("Nothing to save: no identity loaded")
		return nil
	}

	path, err := s.paths.GetExportPath(state.Identity.Handle, time.Now(), format.Ext())
	if err != nil {
		return err
	}
	if err := s.paths.EnsureParentDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := render.Write(f, format, state); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}

	slog.Info("Snapshot saved", "path", path)
	return nil
}
