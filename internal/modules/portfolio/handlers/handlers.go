// Package handlers provides HTTP handlers for portfolio management.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/modules/assets"
	"github.com/aristath/folio/internal/modules/portfolio"
)

// Handler handles portfolio HTTP requests
type Handler struct {
	service *portfolio.Service
	log     zerolog.Logger
}

// NewHandler creates a new portfolio handler
func NewHandler(service *portfolio.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "portfolio").Logger(),
	}
}

// BuyRequest is the body of POST /assets/{symbol}/buy
type BuyRequest struct {
	Amount float64 `json:"amount"`
}

// SellRequest is the body of POST /assets/{symbol}/sell
type SellRequest struct {
	Percentage float64 `json:"percentage"`
}

// StakingRequest is the body of PUT /assets/{symbol}/staking. Yield is a
// percent APY and is ignored when disabling.
type StakingRequest struct {
	Enabled bool    `json:"enabled"`
	Yield   float64 `json:"yield"`
}

// symbolParam reads {symbol}. Pairs may be sent escaped (XAU%2FUSD) or
// dashed (XAU-USD).
func symbolParam(r *http.Request) string {
	raw := chi.URLParam(r, "symbol")
	if s, err := url.PathUnescape(raw); err == nil {
		raw = s
	}
	return strings.ToUpper(strings.ReplaceAll(raw, "-", "/"))
}

// HandleGetSummary handles GET /api/portfolio
func (h *Handler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	h.writeData(w, http.StatusOK, h.service.Summary())
}

// HandleGetComposition handles GET /api/portfolio/composition
func (h *Handler) HandleGetComposition(w http.ResponseWriter, r *http.Request) {
	snap := h.service.Portfolio().Snapshot()
	h.writeData(w, http.StatusOK, map[string]interface{}{
		"composition": snap.Composition,
		"total_value": snap.TotalValue,
	})
}

// HandleGetHistory handles GET /api/portfolio/history
func (h *Handler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	history := h.service.Portfolio().History()
	h.writeData(w, http.StatusOK, map[string]interface{}{
		"history": history,
		"count":   len(history),
	})
}

// HandleGetAsset handles GET /api/portfolio/assets/{symbol}
func (h *Handler) HandleGetAsset(w http.ResponseWriter, r *http.Request) {
	symbol := symbolParam(r)
	pos, ok := h.service.Portfolio().Position(symbol)
	if !ok {
		http.Error(w, "Asset not found: "+symbol, http.StatusNotFound)
		return
	}
	h.writeData(w, http.StatusOK, pos)
}

// HandleGetAnalysis handles GET /api/portfolio/assets/{symbol}/analysis
func (h *Handler) HandleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	symbol := symbolParam(r)
	text, ok := h.service.Portfolio().Analysis(symbol)
	if !ok {
		http.Error(w, "Asset not found: "+symbol, http.StatusNotFound)
		return
	}
	h.writeData(w, http.StatusOK, map[string]interface{}{
		"symbol":   symbol,
		"analysis": text,
	})
}

// HandleBuy handles POST /api/portfolio/assets/{symbol}/buy
func (h *Handler) HandleBuy(w http.ResponseWriter, r *http.Request) {
	var req BuyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Amount <= 0 {
		http.Error(w, "amount must be greater than 0", http.StatusBadRequest)
		return
	}

	result, err := h.service.Buy(symbolParam(r), req.Amount)
	if err != nil {
		h.writeTradeError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, result)
}

// HandleSell handles POST /api/portfolio/assets/{symbol}/sell
func (h *Handler) HandleSell(w http.ResponseWriter, r *http.Request) {
	var req SellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.Sell(symbolParam(r), req.Percentage)
	if err != nil {
		h.writeTradeError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, result)
}

// HandleSetStaking handles PUT /api/portfolio/assets/{symbol}/staking
func (h *Handler) HandleSetStaking(w http.ResponseWriter, r *http.Request) {
	var req StakingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	state, err := h.service.SetStaking(symbolParam(r), req.Enabled, req.Yield)
	if err != nil {
		h.writeTradeError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, state)
}

// HandleSyncPrices handles POST /api/portfolio/prices/sync
func (h *Handler) HandleSyncPrices(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.SyncPrices(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to sync prices")
		status := http.StatusBadGateway
		if errors.Is(err, domain.ErrInvalidPrice) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, "Failed to sync prices", status)
		return
	}
	h.writeData(w, http.StatusOK, result)
}

func (h *Handler) writeTradeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, portfolio.ErrUnknownSymbol):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, assets.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidPrice):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.log.Error().Err(err).Msg("Trade failed")
		http.Error(w, "Trade failed", http.StatusInternalServerError)
	}
}

func (h *Handler) writeData(w http.ResponseWriter, status int, data interface{}) {
	h.writeJSON(w, status, map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
