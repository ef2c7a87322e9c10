package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/artikelin/api/internal/client"
	"github.com/artikelin/api/internal/config"
	"github.com/artikelin/api/internal/logging"
	"github.com/artikelin/api/internal/middleware"
	"github.com/artikelin/api/internal/monitoring"
	"github.com/artikelin/api/internal/server"
	"github.com/artikelin/api/internal/service"
	"github.com/artikelin/api/internal/store"
	ws "github.com/artikelin/api/internal/websocket"
	"github.com/artikelin/api/internal/worker"
)

const serviceName = "artikelin-api"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.New(config.ServerConfig{}).WithError(err).Fatal("Failed to load config")
	}

	log := logging.New(cfg.Server)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	shutdownTracing, err := monitoring.InitTracing(ctx, cfg.Tracing, serviceName)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize tracing")
	}

	// Database
	db, err := store.Open(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to open database")
	}
	if err := store.Migrate(db); err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}
	st := store.New(db)

	// Redis only backs rate limiting; without it requests are not limited
	var limiterRedis redis.Cmdable
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("Redis not available, rate limiting fails open")
		}
		limiterRedis = redisClient
	}

	// Generation providers
	registry := client.NewProviderRegistry(cfg.Provider.Default, client.NewMockGenerator(),
		client.NewGuardedGenerator(client.NewOpenAIClient(client.ProviderGemini, &cfg.Gemini), cfg.Provider.Timeout, cfg.Provider.Breaker),
		client.NewGuardedGenerator(client.NewOpenAIClient(client.ProviderZai, &cfg.Zai), cfg.Provider.Timeout, cfg.Provider.Breaker),
	)
	for name, ok := range registry.Status() {
		if !ok {
			log.WithField("provider", name).Warn("Provider has no API key")
		}
	}

	// WebSocket hub
	hub := ws.NewHub(log)
	go hub.Run(ctx)

	// Services
	settingsService := service.NewSettingsService(st)
	generationWorker := worker.NewGenerationWorker(st, settingsService, hub, log, cfg.Provider.MaxConcurrency)
	jobService := service.NewJobService(st, settingsService, registry, generationWorker, log)

	app := server.New(server.Deps{
		Store:       st,
		Jobs:        jobService,
		Articles:    service.NewArticleService(st),
		Keywords:    service.NewKeywordService(st),
		Settings:    settingsService,
		Registry:    registry,
		Hub:         hub,
		Auth:        middleware.NewAuthMiddleware(cfg.JWT.Secret),
		RateLimiter: middleware.NewRateLimiter(limiterRedis, log),
		JobsPerHour: cfg.RateLimit.JobsPerHour,
		Log:         log,
		AccessLog:   true,
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("Server shutdown error")
		}
	}()

	// Start server
	addr := ":" + cfg.Server.Port
	log.WithField("addr", addr).Info("Server starting")
	if err := app.Listen(addr); err != nil {
		log.WithError(err).Fatal("Server error")
	}

	// Let running jobs finish their current write before closing the database
	waitCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := jobService.Wait(waitCtx); err != nil {
		log.WithError(err).Warn("Jobs still running at shutdown")
	}

	stop()
	if err := shutdownTracing(waitCtx); err != nil {
		log.WithError(err).Warn("Tracer shutdown error")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info("Server stopped")
}
