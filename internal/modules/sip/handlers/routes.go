package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all SIP routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sip", func(r chi.Router) {
		r.Get("/", h.HandleGetPlan)
		r.Put("/amount", h.HandleSetAmount)
		r.Put("/allocation", h.HandleSetAllocation)
		r.Post("/execute", h.HandleExecute)
		r.Post("/toggle", h.HandleToggle)
		r.Get("/simulate", h.HandleSimulate)
	})
}
