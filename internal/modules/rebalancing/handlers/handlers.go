// Package handlers provides HTTP handlers for rebalancing operations.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/folio/internal/modules/rebalancing"
)

// Handler handles rebalancing HTTP requests
type Handler struct {
	service *rebalancing.Service
	log     zerolog.Logger
}

// NewHandler creates a new rebalancing handler
func NewHandler(
	service *rebalancing.Service,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "rebalancing").Logger(),
	}
}

// HandleGetPlan handles GET /api/rebalancing/plan
func (h *Handler) HandleGetPlan(w http.ResponseWriter, r *http.Request) {
	plan := h.service.Plan()

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"plan":   plan,
			"count":  len(plan.Items),
			"needed": len(plan.Items) > 0,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
			"threshold": rebalancing.Threshold,
			"note":      "Dry-run calculation - no trades executed",
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

// HandleApply handles POST /api/rebalancing/apply
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	plan, result := h.service.Rebalance()

	failed := make([]map[string]interface{}, 0, len(result.Failed))
	for _, f := range result.Failed {
		failed = append(failed, map[string]interface{}{
			"trade": f.Trade,
			"error": f.Err.Error(),
		})
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"plan":    plan,
			"result":  result,
			"failed":  failed,
			"applied": len(result.Executed) > 0,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
