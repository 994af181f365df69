// Package handlers provides HTTP handlers for the systematic investment plan.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/folio/internal/modules/allocation"
	"github.com/aristath/folio/internal/modules/portfolio"
	"github.com/aristath/folio/internal/modules/sip"
)

// maxSimulationMonths bounds GET /simulate
const maxSimulationMonths = 600

// Handler handles SIP HTTP requests
type Handler struct {
	plan      *sip.Plan
	portfolio *portfolio.Service
	log       zerolog.Logger
}

// NewHandler creates a new SIP handler
func NewHandler(plan *sip.Plan, portfolioService *portfolio.Service, log zerolog.Logger) *Handler {
	return &Handler{
		plan:      plan,
		portfolio: portfolioService,
		log:       log.With().Str("handler", "sip").Logger(),
	}
}

// SetAmountRequest is the body of PUT /api/sip/amount
type SetAmountRequest struct {
	Amount *float64 `json:"amount"`
}

// SetAllocationRequest is the body of PUT /api/sip/allocation
type SetAllocationRequest struct {
	Allocation allocation.Table `json:"allocation"`
}

// ExecuteRequest is the optional body of POST /api/sip/execute
type ExecuteRequest struct {
	Force bool `json:"force"`
}

// HandleGetPlan handles GET /api/sip
func (h *Handler) HandleGetPlan(w http.ResponseWriter, r *http.Request) {
	h.writeData(w, http.StatusOK, h.plan.Summary())
}

// HandleSetAmount handles PUT /api/sip/amount
func (h *Handler) HandleSetAmount(w http.ResponseWriter, r *http.Request) {
	var req SetAmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Amount == nil {
		http.Error(w, "amount is required", http.StatusBadRequest)
		return
	}
	if err := h.plan.SetMonthlyAmount(*req.Amount); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.writeData(w, http.StatusOK, h.plan.Summary())
}

// HandleSetAllocation handles PUT /api/sip/allocation
func (h *Handler) HandleSetAllocation(w http.ResponseWriter, r *http.Request) {
	var req SetAllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	normalized, err := h.plan.SetAllocation(req.Allocation)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.writeData(w, http.StatusOK, map[string]interface{}{
		"allocation": h.plan.Allocation(),
		"normalized": normalized,
	})
}

// HandleExecute handles POST /api/sip/execute
func (h *Handler) HandleExecute(w http.ResponseWriter, r *http.Request) {
	var req ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.portfolio.ExecuteSIP(req.Force)
	if errors.Is(err, portfolio.ErrSIPDisabled) {
		http.Error(w, "Auto-invest is disabled; pass force to invest anyway", http.StatusConflict)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("SIP execution failed")
		http.Error(w, "SIP execution failed", http.StatusInternalServerError)
		return
	}
	h.writeData(w, http.StatusOK, result)
}

// HandleToggle handles POST /api/sip/toggle
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	h.writeData(w, http.StatusOK, map[string]interface{}{
		"auto_invest": h.plan.ToggleAutoInvest(),
	})
}

// HandleSimulate handles GET /api/sip/simulate?months=N
func (h *Handler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	months := 12
	if v := r.URL.Query().Get("months"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > maxSimulationMonths {
			http.Error(w, "months must be an integer between 0 and 600", http.StatusBadRequest)
			return
		}
		months = n
	}
	h.writeData(w, http.StatusOK, map[string]interface{}{
		"months":      months,
		"investments": h.plan.Simulate(months),
	})
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
