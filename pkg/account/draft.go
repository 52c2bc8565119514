package account

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Draft is the unsent transfer input, kept exactly as entered.
type Draft struct {
	Receiver string
	Amount   string
}

// IsEmpty reports whether both fields are blank.
func (d Draft) IsEmpty() bool {
	return d.Receiver == "" && d.Amount == ""
}

// Validate checks the draft and returns the trimmed receiver handle and the
// parsed amount. The amount must be a positive decimal.
func (d Draft) Validate() (string, decimal.Decimal, error) {
	receiver := strings.TrimSpace(d.Receiver)
	raw := strings.TrimSpace(d.Amount)
	if receiver == "" || raw == "" {
		return "", decimal.Zero, ErrInvalidDraft
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil || !amount.IsPositive() {
		return "", decimal.Zero, ErrInvalidDraft
	}

	return receiver, amount, nil
}
