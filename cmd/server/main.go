package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"tracker-api/internal/auth"
	"tracker-api/internal/cache"
	"tracker-api/internal/config"
	"tracker-api/internal/database"
	"tracker-api/internal/handlers"
	"tracker-api/internal/metrics"
	"tracker-api/internal/realtime"
	"tracker-api/internal/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	db, err := database.Open(cfg.DBPath, database.ParseLogLevel(cfg.DBLogLevel))
	if err != nil {
		log.Fatal("Failed to open database: ", err)
	}

	engine, err := cache.New(cfg.Cache)
	if err != nil {
		log.Fatal("Failed to create cache: ", err)
	}
	if err := engine.StartCleanup(cfg.Cache.CleanupInterval); err != nil {
		log.Fatal("Failed to start cache cleanup: ", err)
	}
	defer engine.StopCleanup()

	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
	ginRoutes := routes.SetupRoutes(routes.Deps{
		Handler: handlers.New(db, engine, realtime.NewHub(), tokens),
		Tokens:  tokens,
		Metrics: metrics.Handler(metrics.NewRegistry("tracker", engine)),
	})

	srv := &http.Server{Addr: cfg.Port, Handler: ginRoutes}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server starting on port %s (cache: ttl=%s capacity=%d cleanup=%s)",
			cfg.Port, cfg.Cache.DefaultTTL, cfg.Cache.MaxCapacity, cfg.Cache.CleanupInterval)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server: ", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("Server shutdown error:", err)
	}
}
