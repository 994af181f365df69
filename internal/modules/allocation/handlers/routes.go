package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers allocation routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/allocation", func(r chi.Router) {
		r.Get("/tiers", h.HandleGetTiers)
		r.Get("/targets", h.HandleGetTargets)
		r.Get("/deviations", h.HandleGetDeviations)
	})
}
