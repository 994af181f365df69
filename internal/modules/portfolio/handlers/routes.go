package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all portfolio routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/portfolio", func(r chi.Router) {
		r.Get("/", h.HandleGetSummary)
		r.Get("/composition", h.HandleGetComposition)
		r.Get("/history", h.HandleGetHistory)
		r.Post("/prices/sync", h.HandleSyncPrices)

		r.Route("/assets/{symbol}", func(r chi.Router) {
			r.Get("/", h.HandleGetAsset)
			r.Get("/analysis", h.HandleGetAnalysis)
			r.Post("/buy", h.HandleBuy)
			r.Post("/sell", h.HandleSell)
			r.Put("/staking", h.HandleSetStaking)
		})
	})
}
