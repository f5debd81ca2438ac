package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func SetupRouter(h *APIHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.HandleHealth)
	r.Get("/ws", h.HandleWebSocket)

	r.Route("/api", func(r chi.Router) {
		r.Get("/location", h.HandleHeader)
		r.Get("/overview", h.HandleOverview)
		r.Get("/environment", h.HandleEnvironment)
		r.Get("/system", h.HandleSystem)
		r.Get("/tilt", h.HandleTilt)
		r.Get("/tilt/ideal", h.HandleIdealTilt)
		r.Get("/alerts", h.HandleAlerts)
		r.Get("/alerts/history", h.HandleAlertHistory)
		r.Get("/series", h.HandleSeries)
		r.Post("/login", h.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(h.auth.Middleware)
			r.Post("/refresh", h.HandleRefresh)
			r.Put("/tilt", h.HandleSetTilt)
		})
	})

	return r
}
