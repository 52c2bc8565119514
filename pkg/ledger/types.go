// Package ledger provides the ledger service API client and wire types.
package ledger

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Account represents an account as returned by GET /api/user/{upi_id}.
// The same shape is used for the persisted identity blob.
type Account struct {
	Email   string          `json:"email"`
	Handle  string          `json:"upi_id"`
	Balance decimal.Decimal `json:"balance"`
}

// MarshalJSON encodes the balance as a JSON number.
func (a Account) MarshalJSON() ([]byte, error) {
	type alias Account
	return json.Marshal(struct {
		alias
		Balance json.Number `json:"balance"`
	}{
		alias:   alias(a),
		Balance: json.Number(a.Balance.String()),
	})
}

// Transaction represents a transfer between two accounts.
type Transaction struct {
	ID             string          `json:"_id"`
	SenderHandle   string          `json:"sender_upi_id"`
	ReceiverHandle string          `json:"receiver_upi_id"`
	Amount         decimal.Decimal `json:"amount"`
	Timestamp      time.Time       `json:"timestamp"`
}

// MarshalJSON encodes the amount as a JSON number.
func (t Transaction) MarshalJSON() ([]byte, error) {
	type alias Transaction
	return json.Marshal(struct {
		alias
		Amount json.Number `json:"amount"`
	}{
		alias:  alias(t),
		Amount: json.Number(t.Amount.String()),
	})
}

// Direction reports whether the transaction was sent or received by handle.
func (t Transaction) Direction(handle string) string {
	if t.SenderHandle == handle {
		return DirectionSent
	}
	return DirectionReceived
}

const (
	DirectionSent     = "Sent"
	DirectionReceived = "Received"
)

// TransferRequest represents the body of POST /api/transaction.
type TransferRequest struct {
	SenderHandle   string          `json:"sender_upi_id"`
	ReceiverHandle string          `json:"receiver_upi_id"`
	Amount         decimal.Decimal `json:"amount"`
}

// MarshalJSON encodes the amount as a JSON number, which the service expects.
func (r TransferRequest) MarshalJSON() ([]byte, error) {
	type alias TransferRequest
	return json.Marshal(struct {
		alias
		Amount json.Number `json:"amount"`
	}{
		alias:  alias(r),
		Amount: json.Number(r.Amount.String()),
	})
}

// TransferResponse represents a successful transfer response.
type TransferResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error body from the ledger service.
type ErrorResponse struct {
	Message string `json:"message"`
}
