// Package cmd provides CLI commands for payview.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "payview",
	Short: "View a payment account and send transfers",
	Long: `payview shows the signed-in account of a peer-to-peer payment
service: its balance, transaction history and a per-day amount chart.

It supports:
- Showing the account as text, JSON or YAML
- Watching the account with periodic refresh
- Sending transfers to another UPI handle
- Importing the identity produced by the login flow

Example:
  payview identity import --file user.json
  payview show --watch 30s
  payview send --to bob@pay --amount 250`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(debug)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(identityCmd)
}

func setupLogging(debug bool) {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
}

// Helper function to get config file path.
func getConfigFile() string {
	return cfgFile
}

// Helper function to handle errors and exit.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}
