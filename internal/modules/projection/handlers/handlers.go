// Package handlers provides HTTP handlers for growth projections.
package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/folio/internal/modules/portfolio"
	"github.com/aristath/folio/internal/modules/projection"
	"github.com/aristath/folio/internal/modules/sip"
)

// Defaults for omitted query parameters
const (
	DefaultRate   = sip.DisplayRate
	DefaultMonths = 120
	maxMonths     = 1200
)

// Handler handles projection HTTP requests
type Handler struct {
	portfolio *portfolio.Portfolio
	plan      *sip.Plan
	log       zerolog.Logger
}

// NewHandler creates a new projection handler
func NewHandler(p *portfolio.Portfolio, plan *sip.Plan, log zerolog.Logger) *Handler {
	return &Handler{
		portfolio: p,
		plan:      plan,
		log:       log.With().Str("handler", "projection").Logger(),
	}
}

func floatParam(r *http.Request, name string, def float64) (float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	return f, nil
}

func monthsParam(r *http.Request, def int) (int, error) {
	v := r.URL.Query().Get("months")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || n > maxMonths {
		return 0, fmt.Errorf("months must be an integer between 0 and %d", maxMonths)
	}
	return n, nil
}

// HandleProjectPortfolio handles GET /api/projection/portfolio
// Query: rate (10), months (120), contribution (the SIP amount), value
// (the current portfolio value).
func (h *Handler) HandleProjectPortfolio(w http.ResponseWriter, r *http.Request) {
	value, err := floatParam(r, "value", h.portfolio.TotalValue())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rate, err := floatParam(r, "rate", DefaultRate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	contribution, err := floatParam(r, "contribution", h.plan.MonthlyAmount())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	months, err := monthsParam(r, DefaultMonths)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.writeData(w, http.StatusOK, projection.ProjectPortfolio(value, rate, months, contribution))
}

// HandleScenarios handles GET /api/projection/scenarios
func (h *Handler) HandleScenarios(w http.ResponseWriter, r *http.Request) {
	h.writeData(w, http.StatusOK, projection.Analyze(h.portfolio.TotalValue(), h.plan.MonthlyAmount()))
}

// HandleProjectSIP handles GET /api/projection/sip
// Without months it returns the standard horizons at 10%.
func (h *Handler) HandleProjectSIP(w http.ResponseWriter, r *http.Request) {
	monthly, err := floatParam(r, "monthly", h.plan.MonthlyAmount())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if r.URL.Query().Get("months") == "" {
		h.writeData(w, http.StatusOK, map[string]interface{}{
			"projections": projection.StandardSIPHorizons(monthly),
		})
		return
	}

	rate, err := floatParam(r, "rate", DefaultRate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	months, err := monthsParam(r, DefaultMonths)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.writeData(w, http.StatusOK, map[string]interface{}{
		"projections": []projection.SIPProjection{projection.ProjectSIP(monthly, rate, months)},
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
