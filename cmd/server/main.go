// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"recruitment-chat/internal/api"
	"recruitment-chat/internal/common/config"
	"recruitment-chat/internal/common/database"
	"recruitment-chat/internal/common/logger"
	"recruitment-chat/internal/common/observability"
	"recruitment-chat/internal/dataloader"
	"recruitment-chat/internal/models"
	"recruitment-chat/internal/search"
	"recruitment-chat/internal/services/aiservice"
	"recruitment-chat/internal/services/chathistory"
	"recruitment-chat/internal/services/crm"
	"recruitment-chat/internal/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting recruitment chat backend...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch with retry (optional) ---
	var esClient *database.ElasticsearchClient
	if cfg.Database.Elasticsearch.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Wire Services ---
	recordStore := store.NewPostgresStore(pg.DB, log)
	loader := dataloader.NewLoader(recordStore, config.GetDuration(cfg.Cache.SnapshotTTL), log, obs)

	var mirror *search.Mirror
	if esClient != nil {
		mirror = search.NewMirror(esClient.Client, cfg.Database.Elasticsearch.ProfileIndex, log)
		loader.SetPublishHook(func(ctx context.Context, snapshot *models.Snapshot) {
			if err := mirror.ReindexSnapshot(ctx, snapshot); err != nil {
				log.WithError(err).Error("reindex failed", nil)
			}
		})
	}

	aiService := aiservice.New(cfg.APIs.GenAI, log)
	chatService := chathistory.New(redis.Client, log)
	crmService := crm.New(pg.DB, loader, log)

	// Warm the snapshot so the first request does not pay for the build.
	if _, err := loader.GetSnapshot(ctx); err != nil {
		zapLog.Warn("initial snapshot load failed, will retry on first request", zap.Error(err))
	}

	deps := api.Deps{
		Data:        loader,
		AI:          aiService,
		Chat:        chatService,
		CRM:         crmService,
		Logger:      log,
		Version:     cfg.App.Version,
		CORSOrigins: cfg.Server.CORSOrigins,
	}
	if mirror != nil {
		// Assign only when present so the handler's nil check sees a nil
		// interface, not a typed nil.
		deps.Index = mirror
	}
	router := api.NewRouter(deps)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Server stopped gracefully")
}
