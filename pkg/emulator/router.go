package emulator

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the ledger endpoints onto a chi router.
func NewRouter(s *Store, logger *slog.Logger) http.Handler {
	h := NewHandler(s, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Post("/user", h.CreateAccount)
		r.Get("/user/{upi_id}", h.GetAccount)
		r.Get("/transactions/{upi_id}", h.ListTransactions)
		r.Post("/transaction", h.Transfer)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return r
}
