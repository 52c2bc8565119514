package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/shunichi-ikebuchi/payview/pkg/account"
	"github.com/shunichi-ikebuchi/payview/pkg/render"
	"github.com/spf13/cobra"
)

var (
	sendTo     string
	sendAmount string
)

// sendCmd represents the send command.
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send money to another handle",
	Long: `Send a transfer from the signed-in account.

The balance and history are re-fetched after a successful transfer and the
refreshed account is printed.

Example:
  payview send --to bob@pay --amount 250
  payview send --to bob@pay --amount 99.50`,
	Run: runSend,
}

func init() {
	sendCmd.Flags().StringVar(&sendTo, "to", "", "Receiver UPI handle (required)")
	sendCmd.Flags().StringVar(&sendAmount, "amount", "", "Amount to send (required)")

	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("amount")
}

func runSend(cmd *cobra.Command, args []string) {
	s, err := openSession()
	exitOnError(err, "failed to open session")
	defer s.Close()

	ctx := cmd.Context()

	view := s.newView()
	defer view.Close()

	exitOnError(view.Initialize(ctx), "failed to load identity")
	if view.Snapshot().Identity == nil {
		exitOnError(errors.New("no identity found, run 'payview identity import' first"), "not signed in")
	}

	view.SetDraft(account.Draft{Receiver: sendTo, Amount: sendAmount})
	err = view.SubmitTransfer(ctx)
	fmt.Println(view.Status())
	if err != nil {
		slog.Debug("Transfer not completed", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	exitOnError(render.Text(os.Stdout, view.Snapshot()), "failed to write output")
}
