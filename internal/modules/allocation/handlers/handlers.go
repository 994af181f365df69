// Package handlers provides HTTP handlers for allocation targets and drift.
package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/folio/internal/modules/allocation"
	"github.com/aristath/folio/internal/modules/portfolio"
	"github.com/aristath/folio/internal/modules/risk"
)

// Handler handles allocation HTTP requests
type Handler struct {
	portfolio *portfolio.Portfolio
	profile   *risk.Profile
	log       zerolog.Logger
}

// NewHandler creates a new allocation handler
func NewHandler(
	p *portfolio.Portfolio,
	profile *risk.Profile,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		portfolio: p,
		profile:   profile,
		log:       log.With().Str("handler", "allocation").Logger(),
	}
}

// HandleGetTiers returns the score bands and their target tables
func (h *Handler) HandleGetTiers(w http.ResponseWriter, r *http.Request) {
	tiers := make([]map[string]interface{}, 0, len(risk.Tiers))
	for _, t := range risk.Tiers {
		below := interface{}(t.Below)
		if math.IsInf(t.Below, 1) {
			below = nil
		}
		tiers = append(tiers, map[string]interface{}{
			"name":       t.Name,
			"label":      t.Label,
			"below":      below,
			"allocation": t.Allocation,
		})
	}
	h.writeData(w, tiers)
}

// HandleGetTargets returns the ideal allocation for the current risk score
func (h *Handler) HandleGetTargets(w http.ResponseWriter, r *http.Request) {
	h.writeData(w, map[string]interface{}{
		"score":   h.profile.Score(),
		"label":   h.profile.Label(),
		"targets": h.profile.IdealAllocation(),
	})
}

// HandleGetDeviations compares the current composition with the targets.
// Concentration is the Herfindahl index of the current weights (0-1).
func (h *Handler) HandleGetDeviations(w http.ResponseWriter, r *http.Request) {
	current := h.portfolio.Composition()
	target := h.profile.IdealAllocation()
	deviations := allocation.Compare(current, target)

	maxDrift := 0.0
	for _, d := range deviations {
		maxDrift = math.Max(maxDrift, math.Abs(d.Deviation))
	}

	h.writeData(w, map[string]interface{}{
		"deviations":    deviations,
		"max_deviation": maxDrift,
		"concentration": calculateHHI(current),
	})
}

func calculateHHI(weights allocation.Table) float64 {
	hhi := 0.0
	for _, pct := range weights {
		share := pct / 100
		hhi += share * share
	}
	return hhi
}

func (h *Handler) writeData(w http.ResponseWriter, data interface{}) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
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
