// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dardiyafa/booking-engine/internal/config"
	"github.com/dardiyafa/booking-engine/internal/database"
	"github.com/dardiyafa/booking-engine/internal/handler"
	"github.com/dardiyafa/booking-engine/internal/logger"
	"github.com/dardiyafa/booking-engine/internal/notify"
	"github.com/dardiyafa/booking-engine/internal/ratelimit"
	"github.com/dardiyafa/booking-engine/internal/repository"
	"github.com/dardiyafa/booking-engine/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	// ── 1. Connect to PostgreSQL and Redis ───────────────────────────────
	pool, err := database.NewPool(ctx, cfg.DB)
	if err != nil {
		zlog.Fatal("database", zap.Error(err))
	}
	defer pool.Close()
	zlog.Info("connected to postgres")

	redisPool, err := database.NewRedisPool(cfg.Redis)
	if err != nil {
		zlog.Fatal("redis", zap.Error(err))
	}
	defer redisPool.Close()
	zlog.Info("connected to redis")

	// ── 2. Wire up layers ────────────────────────────────────────────────
	eventRepo := repository.NewEventRepository(pool)
	orgRepo := repository.NewOrgRepository(pool)
	relatedRepo := repository.NewRelatedRepository(pool)

	limiter := ratelimit.NewRedisLimiter(
		redisPool,
		cfg.InquiryRateLimit,
		time.Duration(cfg.InquiryRateWindow)*time.Second,
	)
	notifier := notify.NewLogNotifier(zlog)

	eventSvc := service.NewEventService(eventRepo, relatedRepo, zlog)
	publicSvc := service.NewPublicService(eventRepo, orgRepo, limiter, notifier, zlog)

	eventHandler := handler.NewEventHandler(eventSvc)
	publicHandler := handler.NewPublicHandler(publicSvc)

	// ── 3. Build the router ───────────────────────────────────────────────
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(handler.AccessLog(zlog)) // structured access log
	r.Use(handler.CORS)

	// Health
	r.Get("/health", handler.HealthCheck)

	// Authenticated API: the gateway in front of this service resolves
	// the caller's organization and role into trusted headers.
	r.Route("/events", func(r chi.Router) {
		r.Use(handler.TenantContext)
		eventHandler.Routes(r)
	})

	// Public, unauthenticated surface.
	r.Route("/public", publicHandler.Routes)

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	go func() {
		zlog.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Fatal("graceful shutdown failed", zap.Error(err))
	}
	zlog.Info("server stopped")
}
