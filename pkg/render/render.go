// Package render turns an account view state into text, JSON or YAML output.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/shunichi-ikebuchi/payview/pkg/account"
	"github.com/shunichi-ikebuchi/payview/pkg/ledger"
)

// Currency is the display currency of every amount.
const Currency = money.INR

// Format is an output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// Ext returns the file extension used when saving in this format.
func (f Format) Ext() string {
	if f == FormatText {
		return "txt"
	}
	return string(f)
}

// Snapshot is the serialisable form of a view state.
type Snapshot struct {
	Loading      bool                 `json:"loading" yaml:"loading"`
	Email        string               `json:"email,omitempty" yaml:"email,omitempty"`
	Handle       string               `json:"upi_id,omitempty" yaml:"upi_id,omitempty"`
	Balance      string               `json:"balance,omitempty" yaml:"balance,omitempty"`
	Status       string               `json:"status,omitempty" yaml:"status,omitempty"`
	Transactions []Row                `json:"transactions" yaml:"transactions"`
	Chart        []account.ChartPoint `json:"chart" yaml:"chart"`
}

// Row is one line of the transaction table.
type Row struct {
	ID        string    `json:"id" yaml:"id"`
	Type      string    `json:"type" yaml:"type"`
	Sender    string    `json:"sender" yaml:"sender"`
	Receiver  string    `json:"receiver" yaml:"receiver"`
	Amount    string    `json:"amount" yaml:"amount"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// NewSnapshot builds a Snapshot from a view state.
func NewSnapshot(state account.State) Snapshot {
	snap := Snapshot{
		Loading:      state.Identity == nil,
		Status:       state.Status,
		Transactions: make([]Row, 0, len(state.History)),
		Chart:        account.ChartSeries(state.History),
	}

	handle := ""
	if state.Identity != nil {
		handle = state.Identity.Handle
		snap.Email = state.Identity.Email
		snap.Handle = handle
		snap.Balance = state.Identity.Balance.String()
	}

	for _, txn := range state.History {
		snap.Transactions = append(snap.Transactions, Row{
			ID:        txn.ID,
			Type:      typeLabel(txn, handle),
			Sender:    txn.SenderHandle,
			Receiver:  txn.ReceiverHandle,
			Amount:    txn.Amount.String(),
			Timestamp: txn.Timestamp,
		})
	}

	return snap
}

// Write renders state to w in the given format.
func Write(w io.Writer, format Format, state account.State) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewSnapshot(state))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewSnapshot(state)); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return Text(w, state)
	}
}

// Text renders the user info card, status, transaction table and chart series.
func Text(w io.Writer, state account.State) error {
	var sb strings.Builder

	sb.WriteString("User Info\n")
	handle := ""
	if state.Identity == nil {
		sb.WriteString("  Loading user...\n")
	} else {
		handle = state.Identity.Handle
		fmt.Fprintf(&sb, "  Email:   %s\n", state.Identity.Email)
		fmt.Fprintf(&sb, "  UPI ID:  %s\n", state.Identity.Handle)
		fmt.Fprintf(&sb, "  Balance: %s\n", Amount(state.Identity.Balance))
	}

	if state.Status != "" {
		fmt.Fprintf(&sb, "\n%s\n", state.Status)
	}

	sb.WriteString("\nTransaction History\n")
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  Type\tSender\tReceiver\tAmount\tTime")
	for _, txn := range state.History {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n",
			typeLabel(txn, handle),
			txn.SenderHandle,
			txn.ReceiverHandle,
			Amount(txn.Amount),
			txn.Timestamp.Local().Format("2006-01-02 15:04:05"),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	sb.WriteString("\nTransaction Graph\n")
	for _, p := range account.ChartSeries(state.History) {
		fmt.Fprintf(&sb, "  %s  %s\n", p.X, Amount(p.Y))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// Amount formats a decimal amount in the display currency, e.g. ₹1,234.50.
func Amount(d decimal.Decimal) string {
	cur := money.New(0, Currency).Currency()
	minor := d.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, Currency).Display()
}

func typeLabel(txn ledger.Transaction, handle string) string {
	if handle == "" {
		return "-"
	}
	return txn.Direction(handle)
}
