// Package account implements the account view controller: it keeps a local
// snapshot of remote account state consistent across transfers and refreshes.
//
// The ledger service is the only source of truth. Balances are never computed
// locally; every successful transfer is followed by a full re-fetch.
package account

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/shunichi-ikebuchi/payview/pkg/identity"
	"github.com/shunichi-ikebuchi/payview/pkg/ledger"
)

// Ledger is the subset of the ledger service the view depends on.
type Ledger interface {
	GetAccount(ctx context.Context, handle string) (*ledger.Account, error)
	ListTransactions(ctx context.Context, handle string) ([]ledger.Transaction, error)
	Transfer(ctx context.Context, req ledger.TransferRequest) (*ledger.TransferResponse, error)
}

// State is a point-in-time copy of the view state.
type State struct {
	Identity *ledger.Account // nil while loading
	History  []ledger.Transaction
	Draft    Draft
	Status   string
}

// Option configures a View.
type Option func(*View)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(v *View) {
		v.logger = logger
	}
}

// WithRefreshStatus controls whether refresh failures are written to the
// status slot. By default they are only logged.
func WithRefreshStatus(enabled bool) Option {
	return func(v *View) {
		v.refreshStatus = enabled
	}
}

// View is the account view controller.
type View struct {
	client        Ledger
	source        identity.Source
	logger        *slog.Logger
	refreshStatus bool

	life context.Context
	stop context.CancelFunc

	mu       sync.Mutex
	closed   bool
	identity *ledger.Account
	history  []ledger.Transaction
	draft    Draft
	status   string

	// issued/applied request sequence per slot; older completions are dropped
	balanceIssued, balanceApplied uint64
	historyIssued, historyApplied uint64
}

// New creates a view in its initial state: no identity, empty history,
// empty draft and no status.
func New(client Ledger, source identity.Source, opts ...Option) *View {
	life, stop := context.WithCancel(context.Background())

	v := &View{
		client:  client,
		source:  source,
		logger:  slog.Default(),
		life:    life,
		stop:    stop,
		history: []ledger.Transaction{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Close tears the view down. In-flight requests are cancelled and any result
// arriving afterwards is discarded.
func (v *View) Close() {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()

	v.stop()
}

// bind derives a context that is also cancelled when the view closes.
func (v *View) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	release := context.AfterFunc(v.life, cancel)
	return ctx, func() {
		release()
		cancel()
	}
}

// Initialize loads the persisted identity and, when present, refreshes the
// balance and history concurrently. An absent identity is not an error: the
// view simply stays in its loading state.
func (v *View) Initialize(ctx context.Context) error {
	ctx, cancel := v.bind(ctx)
	defer cancel()

	stored, err := v.source.Load(ctx)
	if err != nil {
		v.logger.Warn("failed to load persisted identity", "error", err)
		return err
	}
	if stored == nil {
		v.logger.Debug("no persisted identity, waiting for login")
		return nil
	}

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	v.identity = cloneAccount(stored)
	v.mu.Unlock()

	v.logger.Debug("identity loaded", "handle", stored.Handle)

	// Refresh failures are logged and kept out of the return value.
	_ = v.Refresh(ctx, stored.Handle)
	return nil
}

// Refresh re-fetches balance and history for handle concurrently. The two
// requests are independent: one failing does not cancel the other. The first
// failure is returned for diagnostics only.
func (v *View) Refresh(ctx context.Context, handle string) error {
	var g errgroup.Group
	g.Go(func() error { return v.RefreshBalance(ctx, handle) })
	g.Go(func() error { return v.RefreshHistory(ctx, handle) })
	return g.Wait()
}

// RefreshBalance replaces the identity with the account state returned by
// the service. On failure the current identity is kept.
func (v *View) RefreshBalance(ctx context.Context, handle string) error {
	if strings.TrimSpace(handle) == "" {
		return ErrEmptyHandle
	}

	ctx, cancel := v.bind(ctx)
	defer cancel()

	v.mu.Lock()
	v.balanceIssued++
	seq := v.balanceIssued
	v.mu.Unlock()

	account, err := v.client.GetAccount(ctx, handle)
	if err != nil {
		return v.refreshFailed(SlotBalance, handle, err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		v.logger.Debug("discarding balance after close", "handle", handle)
		return ErrClosed
	}
	if seq < v.balanceApplied {
		v.logger.Debug("discarding stale balance", "handle", handle, "seq", seq)
		return nil
	}

	v.balanceApplied = seq
	v.identity = cloneAccount(account)
	return nil
}

// RefreshHistory replaces the transaction history with the list returned by
// the service. The old list is discarded, never merged. On failure the
// current history is kept.
func (v *View) RefreshHistory(ctx context.Context, handle string) error {
	if strings.TrimSpace(handle) == "" {
		return ErrEmptyHandle
	}

	ctx, cancel := v.bind(ctx)
	defer cancel()

	v.mu.Lock()
	v.historyIssued++
	seq := v.historyIssued
	v.mu.Unlock()

	history, err := v.client.ListTransactions(ctx, handle)
	if err != nil {
		return v.refreshFailed(SlotHistory, handle, err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		v.logger.Debug("discarding history after close", "handle", handle)
		return ErrClosed
	}
	if seq < v.historyApplied {
		v.logger.Debug("discarding stale history", "handle", handle, "seq", seq)
		return nil
	}

	v.historyApplied = seq
	v.history = slices.Clone(history)
	if v.history == nil {
		v.history = []ledger.Transaction{}
	}
	return nil
}

func (v *View) refreshFailed(slot Slot, handle string, err error) error {
	refreshErr := &RefreshError{Slot: slot, Handle: handle, Err: err}
	v.logger.Error("refresh failed", "slot", string(slot), "handle", handle, "error", err)

	if v.refreshStatus {
		v.mu.Lock()
		if !v.closed {
			v.status = refreshErr.Error()
		}
		v.mu.Unlock()
	}

	return refreshErr
}

// SetDraft replaces the transfer draft.
func (v *View) SetDraft(d Draft) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.draft = d
}

// Draft returns the current transfer draft.
func (v *View) Draft() Draft {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.draft
}

// Status returns the last status message, or "" if none.
func (v *View) Status() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

// SubmitTransfer validates the current draft and sends it to the service.
//
// Invalid input sets the fill-in prompt and issues no request. On success the
// status is the service's message, the draft is cleared and both balance and
// history are re-fetched for the sender. On failure the status is the
// service's message (or a generic one) and the draft is left as entered.
func (v *View) SubmitTransfer(ctx context.Context) error {
	ctx, cancel := v.bind(ctx)
	defer cancel()

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	receiver, amount, err := v.draft.Validate()
	if err != nil {
		v.status = StatusEnterBothFields
		v.mu.Unlock()
		return err
	}
	if v.identity == nil {
		v.status = StatusTransferFailed
		v.mu.Unlock()
		return ErrNoIdentity
	}
	sender := v.identity.Handle
	v.mu.Unlock()

	v.logger.Info("submitting transfer", "sender", sender, "receiver", receiver, "amount", amount.String())

	resp, err := v.client.Transfer(ctx, ledger.TransferRequest{
		SenderHandle:   sender,
		ReceiverHandle: receiver,
		Amount:         amount,
	})
	if err != nil {
		status := ledger.ErrorMessage(err)
		if status == "" {
			status = StatusTransferFailed
		}
		v.logger.Error("transfer failed", "sender", sender, "receiver", receiver, "error", err)

		v.mu.Lock()
		if !v.closed {
			v.status = status
		}
		v.mu.Unlock()

		return &TransferError{Status: status, Err: err}
	}

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	v.status = resp.Message
	v.draft = Draft{}
	v.mu.Unlock()

	// Pull the authoritative post-transfer state instead of applying the delta.
	_ = v.Refresh(ctx, sender)
	return nil
}

// Snapshot returns a copy of the current state.
func (v *View) Snapshot() State {
	v.mu.Lock()
	defer v.mu.Unlock()

	return State{
		Identity: cloneAccount(v.identity),
		History:  slices.Clone(v.history),
		Draft:    v.draft,
		Status:   v.status,
	}
}

// Chart derives the chart series from the current history.
func (v *View) Chart() []ChartPoint {
	v.mu.Lock()
	history := slices.Clone(v.history)
	v.mu.Unlock()

	return ChartSeries(history)
}

func cloneAccount(a *ledger.Account) *ledger.Account {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}
