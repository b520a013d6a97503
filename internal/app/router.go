package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/leanledger/leanledger/internal/ledger/accounts"
	"github.com/leanledger/leanledger/internal/ledger/ledgers"
	"github.com/leanledger/leanledger/internal/ledger/records"
	"github.com/leanledger/leanledger/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	LedgersHandler  *ledgers.Handler
	AccountsHandler *accounts.Handler
	RecordsHandler  *records.Handler
	JobsHandler     *jobs.Handler
}

// NewRouter constructs the chi.Router with LeanLedger defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/ledger", func(r chi.Router) {
		params.LedgersHandler.MountRoutes(r)
		r.Route("/{ledgerID}", func(r chi.Router) {
			params.LedgersHandler.MountItemRoutes(r)
			r.Route("/account", params.AccountsHandler.MountRoutes)
			r.Route("/record", params.RecordsHandler.MountRoutes)
		})
	})

	if params.JobsHandler != nil {
		r.Route("/jobs", params.JobsHandler.MountRoutes)
	}

	return r
}
