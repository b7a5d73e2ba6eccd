package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"slotly/internal/config"
	"slotly/internal/handler"
	"slotly/internal/logger"
	"slotly/internal/middleware"
	"slotly/internal/store"
)

func main() {
	_ = godotenv.Load()

	log := logger.New("slotly", os.Getenv("LOG_LEVEL"))

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config")
	}

	// database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("db")
	}
	defer pool.Close()
	if err := pool.Ping(context.Background()); err != nil {
		log.WithError(err).Fatal("db ping")
	}
	log.Info("connected to postgres")

	// run migrations
	if migration, err := os.ReadFile("db/migrations/001_init.sql"); err != nil {
		log.WithError(err).Warn("migration file not found, skipping")
	} else if _, err := pool.Exec(context.Background(), string(migration)); err != nil {
		log.WithError(err).Warn("migration warning")
	} else {
		log.Info("migration applied")
	}

	st := store.New(pool)
	h := handler.New(st, cfg.JWTSecret, log)

	rl := middleware.NewRateLimiter(5, 10)
	protected := middleware.Auth(cfg.JWTSecret)

	mux := http.NewServeMux()
	mux.Handle("POST /api/signup", rl.Limit(http.HandlerFunc(h.Signup)))
	mux.Handle("POST /api/login", rl.Limit(http.HandlerFunc(h.Login)))
	mux.Handle("GET /api/tasks", protected(http.HandlerFunc(h.ListTasks)))
	mux.Handle("POST /api/tasks", protected(http.HandlerFunc(h.SaveChecklist)))
	mux.Handle("GET /api/tasks/stats", protected(http.HandlerFunc(h.TaskStats)))
	mux.Handle("GET /api/schedule", protected(http.HandlerFunc(h.ListEvents)))
	mux.Handle("POST /api/schedule", protected(http.HandlerFunc(h.CreateEvent)))
	mux.Handle("GET /api/requests", protected(http.HandlerFunc(h.ListRequests)))
	mux.Handle("POST /api/requests", protected(http.HandlerFunc(h.CreateRequest)))
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ready", h.Ready)
	mux.Handle("GET /metrics", middleware.MetricsHandler())

	// CORS sits innermost so preflights never reach the mux
	root := middleware.Metrics(
		middleware.Logging(log)(
			middleware.CORS(cfg.CORSOrigins)(mux),
		),
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: root,
	}
	go func() {
		log.Infof("listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("http")
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Shutdown(ctx)
}
