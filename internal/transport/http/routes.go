package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropfour/backend/internal/transport/http/middleware"
)

type RouterDeps struct {
	AllowedOrigins []string
	Guest          *GuestHandler
	History        *HistoryHandler
	Stats          *StatsHandler
	WebSocket      http.HandlerFunc
}

func SetupRoutes(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.EnableCORS(deps.AllowedOrigins))

	r.Get("/healthz", Healthz)
	r.Post("/api/guest", deps.Guest.CreateGuest)
	r.Get("/api/matches/recent", deps.History.RecentMatches)
	r.Get("/api/stats", deps.Stats.GetStats)
	r.Get("/ws", deps.WebSocket)

	return r
}
