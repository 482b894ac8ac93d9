package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the read-only endpoints, the websocket upgrade, and the
// token-guarded mutating endpoints.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/api/login", h.Login)

	r.Get("/api/alerts", h.ListAlerts)
	r.Get("/api/aircraft", h.ListAircraft)
	r.Get("/api/maintenance/upcoming", h.UpcomingTasks)
	r.Get("/api/maintenance/overdue", h.OverdueTasks)
	r.Get("/api/readings/recent", h.RecentReadings)
	r.Get("/ws", h.HandleWebSocket)

	r.Group(func(r chi.Router) {
		r.Use(h.auth.RequireAuth)

		r.Post("/api/alerts/{id}/acknowledge", h.AcknowledgeAlert)
		r.Post("/api/alerts/{id}/resolve", h.ResolveAlert)

		r.Post("/api/aircraft", h.RegisterAircraft)
		r.Post("/api/aircraft/{id}/flight-hours", h.UpdateFlightHours)

		r.Post("/api/maintenance", h.CreateTask)
		r.Post("/api/maintenance/{id}/start", h.StartTask)
		r.Post("/api/maintenance/{id}/complete", h.CompleteTask)
		r.Post("/api/maintenance/{id}/cancel", h.CancelTask)
	})

	return r
}
