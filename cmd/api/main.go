package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"vela-casino/internal/config"
	"vela-casino/internal/event"
	"vela-casino/internal/games"
	"vela-casino/internal/handlers"
	"vela-casino/internal/infra"
	"vela-casino/internal/logger"
	"vela-casino/internal/middleware"
	"vela-casino/internal/monitoring"
	"vela-casino/internal/services"
	"vela-casino/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := storage.Open(ctx, storage.Options{
		Kind:       cfg.StorageBackend,
		DataDir:    cfg.DataDir,
		SQLitePath: cfg.SQLitePath,
		Redis: storage.RedisOptions{
			Addr:     cfg.RedisURL,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		},
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		zlog.Fatal("failed to open storage", zap.String("backend", cfg.StorageBackend), zap.Error(err))
	}
	zlog.Info("storage ready", zap.String("backend", cfg.StorageBackend))

	ledger := services.NewLedgerStore(backend, cfg.StorageNamespace, zlog.Named("ledger"))
	defer ledger.Close()

	bus := event.NewBus()
	hub := handlers.NewWebSocketHub(zlog.Named("ws"))
	hub.Subscribe(bus)

	metrics := monitoring.NewMetrics()
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := metrics.Register(registry); err != nil {
		zlog.Fatal("failed to register metrics", zap.Error(err))
	}
	metrics.Subscribe(bus)

	services.RegisterSoundCues(bus, ledger, zlog.Named("sound"))

	gameEngine := services.NewGameEngine(ledger, services.EngineOptions{
		TickInterval: cfg.CrashTickInterval,
		RevealDelay:  cfg.RevealDelay,
		Source:       games.NewSource(cfg.RandomSeed),
		Bus:          bus,
		Broadcaster:  hub,
		Logger:       zlog.Named("engine"),
	})
	defer gameEngine.Close()

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.SessionTTL)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMin)

	scheduler := infra.NewScheduler(gameEngine, jwtService, rateLimiter, cfg.StaleRoundAge, zlog.Named("scheduler"))
	if err := scheduler.Start(); err != nil {
		zlog.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer scheduler.Stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Ledger:      ledger,
		Engine:      gameEngine,
		JWT:         jwtService,
		Bus:         bus,
		Hub:         hub,
		Metrics:     metrics,
		Gatherer:    registry,
		RateLimiter: rateLimiter,
		Logger:      zlog.Named("http"),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		zlog.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server shutdown failed", zap.Error(err))
	}
}
