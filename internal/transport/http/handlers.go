// Package httpapi exposes the REST surface next to the WebSocket
// endpoint: guest tokens, match history and aggregate stats.
package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dropfour/backend/internal/repository/postgres"
	"github.com/dropfour/backend/internal/repository/redis"
	"github.com/dropfour/backend/pkg/auth"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// GuestHandler mints guest display-name tokens.
type GuestHandler struct {
	JWTSecret string
	TokenTTL  time.Duration
}

func NewGuestHandler(secret string, ttl time.Duration) *GuestHandler {
	return &GuestHandler{JWTSecret: secret, TokenTTL: ttl}
}

func (h *GuestHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if len(name) > 32 {
		name = name[:32]
	}

	token, err := auth.GenerateGuestToken(name, h.JWTSecret, h.TokenTTL)
	if err != nil {
		log.Printf("[API] Failed to generate guest token: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"name":  name,
		"token": token,
	})
}

// HistoryHandler serves archived matches.
type HistoryHandler struct {
	Matches *postgres.MatchRepo
}

func NewHistoryHandler(matches *postgres.MatchRepo) *HistoryHandler {
	return &HistoryHandler{Matches: matches}
}

func (h *HistoryHandler) RecentMatches(w http.ResponseWriter, r *http.Request) {
	if h.Matches == nil {
		writeError(w, http.StatusServiceUnavailable, "match history unavailable")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	matches, err := h.Matches.RecentMatches(limit)
	if err != nil {
		log.Printf("[API] Failed to load recent matches: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load matches")
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

// StatsHandler serves the aggregate Redis counters.
type StatsHandler struct {
	Stats *redis.StatsCache
}

func NewStatsHandler(stats *redis.StatsCache) *StatsHandler {
	return &StatsHandler{Stats: stats}
}

func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	if h.Stats == nil {
		writeError(w, http.StatusServiceUnavailable, "stats unavailable")
		return
	}

	snapshot, err := h.Stats.Snapshot(r.Context())
	if err != nil {
		log.Printf("[API] Failed to load stats: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}
