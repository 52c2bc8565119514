package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/shunichi-ikebuchi/payview/pkg/identity"
	"github.com/shunichi-ikebuchi/payview/pkg/render"
	"github.com/spf13/cobra"
)

var identityFile string

// identityCmd groups identity management commands.
var identityCmd = &cobra.Command{
	Use:   "identity",
	Short: "Manage the persisted identity",
}

// identityImportCmd stores an identity blob produced by the login flow.
var identityImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the identity produced by the login flow",
	Long: `Import a JSON identity blob into local storage.

The blob has the shape returned by the login flow:
  {"email": "alice@example.com", "upi_id": "alice@pay", "balance": 500}

Use --file - to read from standard input.

Example:
  payview identity import --file user.json`,
	Run: runIdentityImport,
}

// identityShowCmd prints the persisted identity without contacting the service.
var identityShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the persisted identity",
	Run:   runIdentityShow,
}

func init() {
	identityImportCmd.Flags().StringVar(&identityFile, "file", "", "Identity JSON file, or - for stdin (required)")
	identityImportCmd.MarkFlagRequired("file")

	identityCmd.AddCommand(identityImportCmd)
	identityCmd.AddCommand(identityShowCmd)
}

func runIdentityImport(cmd *cobra.Command, args []string) {
	s, err := openSession()
	exitOnError(err, "failed to open session")
	defer s.Close()

	var data []byte
	if identityFile == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(identityFile)
	}
	exitOnError(err, "failed to read identity")

	acct, err := identity.Import(cmd.Context(), s.storage, s.cfg.Storage.IdentityKey, data)
	exitOnError(err, "failed to import identity")

	if s.cfg.Storage.IdentityFile != "" {
		slog.Warn("PAYVIEW_IDENTITY_FILE is set and takes precedence over the imported identity",
			"path", s.cfg.Storage.IdentityFile)
	}

	fmt.Printf("Imported identity %s (%s)\n", acct.Handle, acct.Email)
}

func runIdentityShow(cmd *cobra.Command, args []string) {
	s, err := openSession()
	exitOnError(err, "failed to open session")
	defer s.Close()

	acct, err := s.source.Load(cmd.Context())
	exitOnError(err, "failed to load identity")
	if acct == nil {
		exitOnError(errors.New("no identity found"), "not signed in")
	}

	fmt.Printf("Email:   %s\n", acct.Email)
	fmt.Printf("UPI ID:  %s\n", acct.Handle)
	fmt.Printf("Balance: %s (as stored)\n", render.Amount(acct.Balance))
}
