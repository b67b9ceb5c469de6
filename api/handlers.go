/*
handlers.go - HTTP API handlers for the late fee service

PURPOSE:
  Exposes fee configuration and fee quotes via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the fee engine.

ENDPOINTS:
  Configuration:
    GET    /api/config                 Current configuration (default if unset)
    PUT    /api/config                 Replace configuration
    GET    /api/config/history         Stored versions, newest first

  Quotes:
    POST   /api/fees/quote             Quote from a JSON body
    GET    /api/fees/quote             Quote from query parameters

  Ops:
    GET    /healthz                    Liveness (pings the store)
    GET    /metrics                    Prometheus

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: configuration persistence
  - Calculator: fee engine with the span cap
  - Metrics, Logger, Now (injectable clock for estimates)

REQUEST FLOW (quote):
  1. Load configuration (default when none stored)
  2. Read due/return through the manual time source
  3. Assess the fee
  4. Serialize breakdown

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid configuration, missing/invalid timestamps, span too long
  - 500: Store failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/warp/latefee/config"
	"github.com/warp/latefee/fee"
	"github.com/warp/latefee/metrics"
	"github.com/warp/latefee/store"
	"github.com/warp/latefee/timesource"
)

const maxBodyBytes = 1 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      store.VersionedStore
	Calculator *fee.Calculator
	Metrics    *metrics.Metrics
	Logger     zerolog.Logger
	Now        func() time.Time
}

// NewHandler creates a new handler.
func NewHandler(s store.VersionedStore, calc *fee.Calculator, m *metrics.Metrics, logger zerolog.Logger) *Handler {
	if calc == nil {
		calc = fee.NewCalculator(fee.DefaultMaxSpan)
	}
	if m == nil {
		m = metrics.New()
	}
	return &Handler{
		Store:      s,
		Calculator: calc,
		Metrics:    m,
		Logger:     logger,
		Now:        time.Now,
	}
}

// =============================================================================
// CONFIGURATION HANDLERS
// =============================================================================

// GetConfig returns the current configuration.
// GET /api/config
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := store.GetOrDefault(r.Context(), h.Store)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load configuration", err)
		return
	}
	writeJSON(w, http.StatusOK, config.ToJSON(cfg))
}

// PutConfig validates and stores a new configuration.
// PUT /api/config
func (h *Handler) PutConfig(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	cfg, err := config.Parse(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid configuration", err)
		return
	}

	normalized, closed := cfg.Normalize()
	for _, day := range closed {
		h.Logger.Warn().Str("day", day.String()).Msg("malformed opening hours, day stored as closed")
	}

	if err := h.Store.Set(r.Context(), normalized); err != nil {
		if store.IsClientError(err) {
			writeError(w, http.StatusBadRequest, "Invalid configuration", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to save configuration", err)
		return
	}
	h.Metrics.ConfigUpdates.Inc()
	h.Logger.Info().
		Str("rate", normalized.Rate.String()).
		Str("currency", normalized.Currency).
		Str("timezone", normalized.Timezone).
		Msg("fee configuration updated")

	writeJSON(w, http.StatusOK, config.ToJSON(normalized))
}

// GetConfigHistory lists stored configuration versions.
// GET /api/config/history?limit=N
func (h *Handler) GetConfigHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = n
	}

	versions, err := h.Store.History(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list configurations", err)
		return
	}

	dtos := make([]VersionDTO, len(versions))
	for i, v := range versions {
		dtos[i] = toVersionDTO(v)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// QUOTE HANDLERS
// =============================================================================

// PostQuote computes a fee from a JSON body.
// POST /api/fees/quote
func (h *Handler) PostQuote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.Metrics.QuoteFailed("bad_request")
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	h.quote(w, r, req)
}

// GetQuote computes a fee from query parameters.
// GET /api/fees/quote?due=...&return=...&as_of=...
func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.quote(w, r, QuoteRequest{
		Due:    q.Get("due"),
		Return: q.Get("return"),
		AsOf:   q.Get("as_of"),
	})
}

func (h *Handler) quote(w http.ResponseWriter, r *http.Request, req QuoteRequest) {
	ctx := r.Context()

	cfg, err := store.GetOrDefault(ctx, h.Store)
	if err != nil {
		h.Metrics.QuoteFailed("store")
		writeError(w, http.StatusInternalServerError, "Failed to load configuration", err)
		return
	}

	source := &timesource.Manual{Location: cfg.Location(), Now: h.Now}
	span, err := source.Span(req.Due, req.Return, req.AsOf)
	switch {
	case errors.Is(err, timesource.ErrDueUnavailable):
		h.Metrics.QuoteFailed("due_unavailable")
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	case errors.Is(err, timesource.ErrInvalidTimestamp):
		h.Metrics.QuoteFailed("invalid_timestamp")
		writeError(w, http.StatusBadRequest, "Invalid timestamp", err)
		return
	case err != nil:
		h.Metrics.QuoteFailed("internal")
		writeError(w, http.StatusInternalServerError, "Failed to read timestamps", err)
		return
	}

	assessment, err := h.Calculator.Assess(span.Due, span.Return, cfg.Rate, cfg.Schedule)
	switch {
	case errors.Is(err, fee.ErrSpanTooLong):
		h.Metrics.QuoteFailed("span_too_long")
		writeError(w, http.StatusBadRequest, "Return is too far after due", err)
		return
	case err != nil:
		h.Metrics.QuoteFailed("internal")
		writeError(w, http.StatusInternalServerError, "Failed to compute fee", err)
		return
	}

	h.Metrics.ObserveQuote(assessment.Total, span.Estimate)
	resp := toQuoteResponse(uuid.NewString(), assessment, span.Estimate, cfg)
	h.Logger.Debug().
		Str("quote_id", resp.ID).
		Time("due", assessment.Due).
		Time("return", assessment.Return).
		Bool("estimate", span.Estimate).
		Str("amount", resp.Amount).
		Msg("fee quoted")

	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// OPS
// =============================================================================

type pinger interface {
	Ping(ctx context.Context) error
}

// Healthz reports liveness. Stores that can be pinged are checked.
// GET /healthz
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.Store.(pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "Store unavailable", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
