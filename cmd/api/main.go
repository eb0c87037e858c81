package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dropfour/backend/internal/config"
	"github.com/dropfour/backend/internal/matchmaking"
	"github.com/dropfour/backend/internal/registry"
	"github.com/dropfour/backend/internal/repository/postgres"
	"github.com/dropfour/backend/internal/repository/redis"
	"github.com/dropfour/backend/internal/room"
	"github.com/dropfour/backend/internal/service/lobby"
	transportHttp "github.com/dropfour/backend/internal/transport/http"
	"github.com/dropfour/backend/internal/transport/websocket"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.LoadConfig()

	// Persistence is optional: without DATABASE_URL finished matches are
	// simply not archived.
	var archive room.Archiver
	var historyHandler *transportHttp.HistoryHandler
	if cfg.DatabaseURL != "" {
		if err := postgres.InitDB(cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetimeMin); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer postgres.CloseDB()

		matchRepo := postgres.NewMatchRepo(postgres.DB)
		archive = matchRepo
		historyHandler = transportHttp.NewHistoryHandler(matchRepo)
	} else {
		log.Println("DATABASE_URL not set, match archival disabled")
		historyHandler = transportHttp.NewHistoryHandler(nil)
	}

	var stats room.StatsRecorder
	var statsHandler *transportHttp.StatsHandler
	if cfg.RedisURL != "" {
		if err := redis.InitRedis(cfg.RedisURL, cfg.RedisPassword); err != nil {
			log.Printf("Failed to initialize Redis: %v", err)
		}
		defer redis.CloseRedis()

		if redis.IsRedisEnabled() {
			cache := redis.NewStatsCache(redis.RedisClient)
			stats = cache
			statsHandler = transportHttp.NewStatsHandler(cache)
		}
	}
	if statsHandler == nil {
		log.Println("Redis not configured, match stats disabled")
		statsHandler = transportHttp.NewStatsHandler(nil)
	}

	reg := registry.New()
	queue := matchmaking.NewQueue()
	rooms := room.NewManager(cfg.BoardRows, cfg.BoardCols, archive, stats)

	connManager := websocket.NewConnectionManager()
	lobbyService := lobby.NewService(reg, queue, rooms, connManager)
	lobbyService.StartReporter(cfg.ReportInterval)

	wsHandler := websocket.NewHandler(connManager, lobbyService, cfg.JWTSecret)
	guestHandler := transportHttp.NewGuestHandler(cfg.JWTSecret, cfg.GuestTokenTTL)

	router := transportHttp.SetupRoutes(transportHttp.RouterDeps{
		AllowedOrigins: cfg.AllowedOrigins,
		Guest:          guestHandler,
		History:        historyHandler,
		Stats:          statsHandler,
		WebSocket:      wsHandler.HandleWebSocket,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
