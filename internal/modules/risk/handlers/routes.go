package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all risk routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/risk", func(r chi.Router) {
		r.Get("/", h.HandleGetProfile)
		r.Put("/score", h.HandleSetScore)
		r.Post("/adjust", h.HandleAdjust)
		r.Get("/metrics", h.HandleGetMetrics)
	})
}
