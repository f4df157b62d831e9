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

	"github.com/timmy/memeboard/internal/backend"
	"github.com/timmy/memeboard/internal/config"
	"github.com/timmy/memeboard/internal/domain"
	"github.com/timmy/memeboard/internal/feed"
	"github.com/timmy/memeboard/internal/generate"
	"github.com/timmy/memeboard/internal/imageproxy"
	"github.com/timmy/memeboard/internal/logger"
	"github.com/timmy/memeboard/internal/mockapi"
	"github.com/timmy/memeboard/internal/monitoring"
	"github.com/timmy/memeboard/internal/storage"
	"github.com/timmy/memeboard/internal/web"
	"github.com/timmy/memeboard/internal/web/middleware"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger := logger.NewFromEnv(logger.LoadFromEnv())
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Mock mode mounts a simulated backend and points the client at it
	baseURL := cfg.Backend.BaseURL
	var mock *mockapi.Server
	if cfg.Backend.APIMode == config.APIModeMock {
		mock = mockapi.NewServer()
		baseURL, err = mock.Start()
		if err != nil {
			logger.Fatal("Failed to start mock backend: %v", err)
		}
		defer mock.Stop()
	}

	// Initialize metrics
	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)

	// Initialize backend client
	client := backend.New(&backend.Config{
		BaseURL: baseURL,
		Timeout: time.Duration(cfg.Backend.TimeoutSeconds) * time.Second,
	})

	// Initialize feed manager
	cache := feed.NewQueryCache()
	feeds := feed.NewManager(client, cache, metrics, feed.SessionConfig{
		PageSize:      cfg.Feed.PageSize,
		RetryAttempts: cfg.Feed.RetryAttempts,
	}, time.Duration(cfg.Feed.DebounceMs)*time.Millisecond)
	defer feeds.Close()

	// Initialize generation poller with persisted job store
	jobStore, err := generate.OpenSQLiteStore(cfg.Generate.StorePath)
	if err != nil {
		logger.Fatal("Failed to open job store: %v", err)
	}
	poller := generate.NewPoller(client, jobStore, metrics, generate.Config{
		Interval: time.Duration(cfg.Generate.PollIntervalMs) * time.Millisecond,
	})
	poller.OnTerminal(func(state domain.JobState, job *domain.GenerationJob) {
		// A finished job changes both collections: the new meme joins the
		// personal feed, and public when shared.
		feeds.Invalidate(domain.FeedScopeMine)
		feeds.Invalidate(domain.FeedScopePublic)
	})
	defer poller.Stop()

	// Resume a job persisted by a previous run
	if id, err := poller.Resume(); err != nil {
		logger.Warn("Failed to resume persisted generation job: %v", err)
	} else if id != "" {
		logger.Info("Resumed generation job %s", id)
	}

	// Initialize image cache storage (supports memory, MinIO, R2, S3)
	objectStorage, err := storage.NewStorage(&storage.Config{
		Type: cfg.Images.CacheType,
		S3: storage.S3Config{
			Endpoint:  cfg.Images.S3.Endpoint,
			AccessKey: cfg.Images.S3.AccessKey,
			SecretKey: cfg.Images.S3.SecretKey,
			UseSSL:    cfg.Images.S3.UseSSL,
			Bucket:    cfg.Images.S3.Bucket,
			Region:    cfg.Images.S3.Region,
		},
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage: %v", err)
	}
	if err := objectStorage.EnsureBucket(context.Background()); err != nil {
		logger.Fatal("Failed to ensure storage bucket: %v", err)
	}
	proxy := imageproxy.NewService(objectStorage, metrics)

	// Setup router
	router := web.SetupRouter(client, feeds, poller, proxy, appLogger, web.RouterConfig{
		Mode: cfg.Server.Mode,
		CORS: middleware.CORSConfig{
			AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
			AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
		},
		Gap:      float64(cfg.Layout.Gap),
		Overscan: cfg.Layout.Overscan,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting web server: port=%d, mode=%s, api_mode=%s",
			cfg.Server.Port, cfg.Server.Mode, cfg.Backend.APIMode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
