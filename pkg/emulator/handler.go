package emulator

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/payview/pkg/ledger"
)

// Handler serves the ledger service endpoints.
type Handler struct {
	store  *Store
	logger *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(s *Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{store: s, logger: logger}
}

// GetAccount handles GET /api/user/{upi_id}.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "upi_id")

	account, err := h.store.GetAccount(handle)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("failed to get account", "upi_id", handle, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to get user")
		return
	}

	writeJSON(w, http.StatusOK, account)
}

// CreateAccount handles POST /api/user.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req ledger.Account
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	account, err := h.store.CreateAccount(req)
	if err != nil {
		switch {
		case errors.Is(err, ErrExists):
			writeJSONError(w, http.StatusConflict, "User already exists")
		case errors.Is(err, ErrInvalidTransfer):
			writeJSONError(w, http.StatusBadRequest, "Invalid user details")
		default:
			h.logger.Error("failed to create account", "upi_id", req.Handle, "error", err)
			writeJSONError(w, http.StatusInternalServerError, "Failed to create user")
		}
		return
	}

	writeJSON(w, http.StatusCreated, account)
}

// ListTransactions handles GET /api/transactions/{upi_id}.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "upi_id")

	txns, err := h.store.ListTransactions(handle)
	if err != nil {
		h.logger.Error("failed to list transactions", "upi_id", handle, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}

	writeJSON(w, http.StatusOK, txns)
}

// transferRequest mirrors ledger.TransferRequest but keeps the amount as a
// pointer so a missing field can be told apart from zero.
type transferRequest struct {
	SenderHandle   string           `json:"sender_upi_id"`
	ReceiverHandle string           `json:"receiver_upi_id"`
	Amount         *decimal.Decimal `json:"amount"`
}

// Transfer handles POST /api/transaction.
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}
	if req.Amount == nil {
		writeJSONError(w, http.StatusBadRequest, "Missing amount")
		return
	}

	txn, err := h.store.Transfer(req.SenderHandle, req.ReceiverHandle, *req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			writeJSONError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, ErrInsufficientFunds):
			writeJSONError(w, http.StatusBadRequest, "Insufficient funds")
		case errors.Is(err, ErrInvalidTransfer):
			writeJSONError(w, http.StatusBadRequest, "Invalid transaction details")
		default:
			h.logger.Error("transfer failed", "sender", req.SenderHandle, "receiver", req.ReceiverHandle, "error", err)
			writeJSONError(w, http.StatusInternalServerError, "Transaction failed")
		}
		return
	}

	h.logger.Info("transfer recorded", "id", txn.ID, "sender", txn.SenderHandle, "receiver", txn.ReceiverHandle, "amount", txn.Amount.String())
	writeJSON(w, http.StatusOK, ledger.TransferResponse{Message: "Transaction successful"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ledger.ErrorResponse{Message: message})
}
