// Package handlers provides HTTP handlers for the risk profile.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/folio/internal/modules/risk"
)

// Handler handles risk HTTP requests
type Handler struct {
	service *risk.Service
	log     zerolog.Logger
}

// NewHandler creates a new risk handler
func NewHandler(service *risk.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "risk").Logger(),
	}
}

// SetScoreRequest is the body of PUT /api/risk/score
type SetScoreRequest struct {
	Score *float64 `json:"score"`
}

// AdjustRequest is the optional body of POST /api/risk/adjust. Without a
// body the readings come from market data.
type AdjustRequest struct {
	VIX           float64 `json:"vix"`
	BTCVolatility float64 `json:"btc_volatility"`
}

// HandleGetProfile handles GET /api/risk
func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	h.writeData(w, http.StatusOK, h.service.Profile().Summary())
}

// HandleSetScore handles PUT /api/risk/score
func (h *Handler) HandleSetScore(w http.ResponseWriter, r *http.Request) {
	var req SetScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Score == nil {
		http.Error(w, "score is required", http.StatusBadRequest)
		return
	}

	summary, err := h.service.SetScore(*req.Score)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.writeData(w, http.StatusOK, summary)
}

// HandleAdjust handles POST /api/risk/adjust
func (h *Handler) HandleAdjust(w http.ResponseWriter, r *http.Request) {
	var req AdjustRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	switch {
	case errors.Is(err, io.EOF):
		adj, err := h.service.AdjustForMarket(r.Context())
		if err != nil {
			h.log.Error().Err(err).Msg("Failed to adjust for market conditions")
			http.Error(w, "Market data unavailable", http.StatusBadGateway)
			return
		}
		h.writeData(w, http.StatusOK, adj)
	case err != nil:
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
	default:
		h.writeData(w, http.StatusOK, h.service.Adjust(req.VIX, req.BTCVolatility))
	}
}

// HandleGetMetrics handles GET /api/risk/metrics
func (h *Handler) HandleGetMetrics(w http.ResponseWriter, r *http.Request) {
	h.writeData(w, http.StatusOK, h.service.Metrics())
}

func (h *Handler) writeData(w http.ResponseWriter, status int, data interface{}) {
	response := map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
