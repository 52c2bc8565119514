package account

import (
	"errors"
	"fmt"
)

// Status messages shown to the user.
const (
	StatusEnterBothFields = "Please enter both Receiver UPI and Amount."
	StatusTransferFailed  = "Transaction failed."
)

var (
	// ErrInvalidDraft is returned when the draft fails local validation.
	ErrInvalidDraft = errors.New("receiver and a positive amount are required")

	// ErrNoIdentity is returned when a transfer is attempted before an identity is known.
	ErrNoIdentity = errors.New("no identity loaded")

	// ErrEmptyHandle is returned when a refresh is requested for an empty handle.
	ErrEmptyHandle = errors.New("empty payment handle")

	// ErrClosed is returned when an operation runs on a closed view.
	ErrClosed = errors.New("view closed")
)

// Slot names the piece of state a refresh replaces.
type Slot string

const (
	SlotBalance Slot = "balance"
	SlotHistory Slot = "history"
)

// RefreshError reports a failed refresh. The previous state is kept.
type RefreshError struct {
	Slot   Slot
	Handle string
	Err    error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("failed to refresh %s for %s: %v", e.Slot, e.Handle, e.Err)
}

func (e *RefreshError) Unwrap() error { return e.Err }

// TransferError reports a transfer the ledger service did not accept.
type TransferError struct {
	Status string // message placed in the status slot
	Err    error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer failed: %v", e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }
