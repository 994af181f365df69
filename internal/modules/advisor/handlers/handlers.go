// Package handlers provides HTTP handlers for advisor output.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/folio/internal/modules/advisor"
)

// Handler handles advisor HTTP requests
type Handler struct {
	service *advisor.Service
	log     zerolog.Logger
}

// NewHandler creates a new advisor handler
func NewHandler(service *advisor.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "advisor").Logger(),
	}
}

// HandleGetAdvice handles GET /api/advisor
func (h *Handler) HandleGetAdvice(w http.ResponseWriter, r *http.Request) {
	advice := h.service.Advise(r.Context())

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"alerts":          advice.Alerts,
			"recommendations": advice.Recommendations,
			"healthy":         advice.Healthy(),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

// HandleGetReport handles GET /api/advisor/report
func (h *Handler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	report := h.service.MonthlyReport()

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(report.Text()))
		return
	}

	response := map[string]interface{}{
		"data": report,
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
