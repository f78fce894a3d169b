package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/pokebattle/internal/battle"
	"github.com/freeeve/pokebattle/internal/config"
	"github.com/freeeve/pokebattle/internal/handler"
	"github.com/freeeve/pokebattle/internal/logger"
	"github.com/freeeve/pokebattle/internal/matchmaking"
	"github.com/freeeve/pokebattle/internal/middleware"
	"github.com/freeeve/pokebattle/internal/registry"
	"github.com/freeeve/pokebattle/internal/repository"
	"github.com/freeeve/pokebattle/internal/repository/postgres"
	redisrepo "github.com/freeeve/pokebattle/internal/repository/redis"
)

func main() {
	logger.Init()
	cfg := config.Load()

	// Match archive (optional)
	var archive repository.MatchArchive = repository.NoopArchive{}
	if cfg.DatabaseURL != "" {
		db, err := postgres.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Database connection failed")
		}
		defer db.Close()
		archive = postgres.NewMatchRepo(db)
		log.Info().Msg("Match archive enabled")
	}

	// Live battle state mirror (optional)
	var live repository.LiveStateStore = repository.NoopLiveStore{}
	if cfg.RedisURL != "" {
		redisClient, err := redisrepo.NewClient(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Redis connection failed")
		}
		defer redisClient.Close()
		live = redisClient
		log.Info().Msg("Live state mirror enabled")
	}

	// Core state
	reg := registry.New()
	queue := matchmaking.New()
	battles := battle.NewManager()
	hub := handler.NewHub()

	router := handler.NewRouter(reg, queue, battles, hub, archive, live)
	wsHandler := handler.NewWSHandler(router, cfg.AllowedOrigins)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("GET /battle", wsHandler.ServeWS)

	root := middleware.Chain(mux, middleware.Logger, middleware.CORS(cfg.AllowedOrigins))

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     root,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}
