package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/GajendraSingh33/smart-prep/internal/config"
	"github.com/GajendraSingh33/smart-prep/internal/docextract"
	"github.com/GajendraSingh33/smart-prep/internal/extraction"
	"github.com/GajendraSingh33/smart-prep/internal/handlers"
	"github.com/GajendraSingh33/smart-prep/internal/jobs"
	"github.com/GajendraSingh33/smart-prep/internal/metrics"
	"github.com/GajendraSingh33/smart-prep/internal/repositories"
	"github.com/GajendraSingh33/smart-prep/internal/routers"
	"github.com/GajendraSingh33/smart-prep/internal/seeds"
	"github.com/GajendraSingh33/smart-prep/internal/services"
	"github.com/GajendraSingh33/smart-prep/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func registerRoutes(router *chi.Mux, generationHandler *handlers.GenerationHandler, bankHandler *handlers.BankHandler, paperHandler *handlers.PaperHandler, healthHandler *handlers.HealthHandler) {
	routers.HealthRoutes(router, healthHandler, metrics.Handler())
	routers.GenerationRoutes(router, generationHandler)
	routers.BankRoutes(router, bankHandler)
	routers.PaperRoutes(router, paperHandler)
}

// initStore opens the question store selected by STORE_DRIVER
func initStore(cfg *config.Config, logger *zap.Logger) (repositories.QuestionStore, error) {
	if cfg.Store.Driver == "file" {
		return repositories.NewFileStore(cfg.Store.Path, logger), nil
	}

	if cfg.Store.Driver == "sqlite" && !strings.HasPrefix(cfg.Store.DSN, "file:") && cfg.Store.DSN != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Store.DSN), 0755); err != nil {
			return nil, err
		}
	}

	db, err := repositories.OpenDB(cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return nil, err
	}
	store := repositories.NewGormStore(db)
	if err := store.Migrate(); err != nil {
		return nil, err
	}
	return store, nil
}

// initCache connects the document-text cache when REDIS_ADDR is set
func initCache(cfg *config.Config, logger *zap.Logger) (docextract.TextCache, *redis.Client) {
	if cfg.Redis.Addr == "" {
		return docextract.NopCache{}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, document cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		rdb.Close()
		return docextract.NopCache{}, nil
	}

	logger.Info("Document cache enabled", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.CacheTTL))
	return docextract.NewRedisCache(rdb, cfg.Redis.CacheTTL), rdb
}

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fallback, _ := zap.NewProduction()
		fallback.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger, err := utils.NewLogger(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded",
		zap.String("store", cfg.Store.Driver),
		zap.Bool("cache", cfg.Redis.Addr != ""),
		zap.Bool("export", cfg.Export.Enabled))

	store, err := initStore(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize question store", zap.Error(err))
	}

	cache, rdb := initCache(cfg, logger)
	if rdb != nil {
		defer rdb.Close()
	}

	library, err := seeds.NewLibrary()
	if err != nil {
		logger.Fatal("Failed to load seed templates", zap.Error(err))
	}

	docs := docextract.NewExtractor(logger,
		docextract.WithCache(cache),
		docextract.WithConcurrency(cfg.Extract.Concurrency))
	generationService := services.NewGenerationService(extraction.NewExtractor(), docs, library, logger)
	bankService := services.NewBankService(store, logger)

	generationHandler := handlers.NewGenerationHandler(generationService, logger, cfg.Extract.UploadMaxBytes)
	bankHandler := handlers.NewBankHandler(bankService, logger)
	paperHandler := handlers.NewPaperHandler(logger)
	healthHandler := handlers.NewHealthHandler(store, cfg.Store.Driver)

	exporterJob := jobs.NewBankExporterJob(store, &jobs.ExporterConfig{
		Schedule:  cfg.Export.Schedule,
		ExportDir: cfg.Export.Dir,
		Enabled:   cfg.Export.Enabled,
		Keep:      cfg.Export.Keep,
	}, logger)
	if err := exporterJob.Start(); err != nil {
		logger.Error("Failed to start bank exporter job", zap.Error(err))
	}

	router := chi.NewRouter()

	// cors middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Content-Disposition", "Location"},
		AllowCredentials: true,
	}))

	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(60*time.Second))
	router.Use(metrics.Middleware)

	registerRoutes(router, generationHandler, bankHandler, paperHandler, healthHandler)

	serverAddr := ":" + cfg.Port

	// http server with timeouts; uploads and PDF rendering get a longer write window
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// starting server in a goroutine
	go func() {
		logger.Info("smart-prep service starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shutdown the server
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("smart-prep service shutting down...")

	exporterJob.Stop()

	// graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("smart-prep service exited")
}
