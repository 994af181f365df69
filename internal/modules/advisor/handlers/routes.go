package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all advisor routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/advisor", func(r chi.Router) {
		r.Get("/", h.HandleGetAdvice)
		r.Get("/report", h.HandleGetReport)
	})
}
