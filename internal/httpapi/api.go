// Package httpapi is the boundary adapter between the core's typed results
// and HTTP. It owns status-code translation and JSON shaping; no domain
// rule lives here.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"tradejournal/internal/analytics"
	"tradejournal/internal/domain"
	"tradejournal/internal/ledger"
	"tradejournal/internal/storage"
)

// userIDHeader carries the authenticated user identifier, set by an
// upstream authentication layer. The core trusts it unconditionally.
const userIDHeader = "X-User-ID"

// API wires the ledger and analytics services into an http.Handler.
type API struct {
	ledger    *ledger.Service
	analytics *analytics.Aggregator
	logger    zerolog.Logger
}

// New creates the HTTP adapter.
func New(ledgerSvc *ledger.Service, aggregator *analytics.Aggregator, logger zerolog.Logger) *API {
	return &API{
		ledger:    ledgerSvc,
		analytics: aggregator,
		logger:    logger.With().Str("component", "httpapi").Logger(),
	}
}

// Routes registers all endpoints on a fresh mux.
func (a *API) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", a.handleHealth)

	mux.HandleFunc("POST /api/journal/save", a.handleSaveBatch)
	mux.HandleFunc("DELETE /api/journal/nt", a.handleDeleteNTUnit)
	mux.HandleFunc("PUT /api/trades/{id}", a.handleUpdateTrade)
	mux.HandleFunc("DELETE /api/trades/{id}", a.handleDeleteTrade)

	mux.HandleFunc("GET /api/dashboard/stats", a.handleDashboard)
	mux.HandleFunc("GET /api/dashboard/trades", a.handleListTrades)
	mux.HandleFunc("GET /api/dashboard/profit-over-time", a.handleProfitOverTime)
	mux.HandleFunc("GET /api/dashboard/comparison", a.handleComparison)
	mux.HandleFunc("GET /api/dashboard/monthly-performance", a.handleMonthlyPerformance)

	return mux
}

// userID extracts the authenticated user identifier, writing a 401 when it
// is absent.
func (a *API) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get(userIDHeader)
	if id == "" {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "user identifier required"})
		return "", false
	}
	return id, true
}

type errorBody struct {
	Error string   `json:"error"`
	Field string   `json:"field,omitempty"`
	Dates []string `json:"dates,omitempty"`
}

// writeError translates a typed core result into a transport status. This
// is the single place result kinds map to HTTP codes.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *domain.ValidationError
		conflict   *domain.ConflictError
	)

	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: validation.Error(), Field: validation.Field})
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, errorBody{Error: conflict.Error(), Dates: conflict.Dates})
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	default:
		// Store failures are logged in full but reported generically.
		a.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
