package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"studyai-backend/internal/config"
	"studyai-backend/internal/database"
	"studyai-backend/internal/handlers"
	"studyai-backend/internal/logger"
	"studyai-backend/internal/repository"
	"studyai-backend/internal/router"
	"studyai-backend/internal/services"
	"studyai-backend/internal/websocket"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log := logger.New(cfg.Env, cfg.LogLevel)
	defer log.Sync()

	log.Info("starting study material backend", zap.String("env", cfg.Env))

	// ──── Step 2: Initialize Completion Client ────
	completer, closeCompleter, err := newCompleter(cfg)
	if err != nil {
		log.Fatal("completion client initialization failed", zap.Error(err))
	}
	defer closeCompleter()
	if !completer.HasCredential() {
		log.Warn("COMPLETION_API_KEY is not set; processing requests will fail until it is configured")
	}
	log.Info("completion client ready",
		zap.String("provider", cfg.CompletionProvider),
		zap.String("model", cfg.CompletionModel),
	)

	deps := router.Deps{Log: log}

	// ──── Step 3: Initialize Redis Clients (optional) ────
	var publisher services.ProgressPublisher = services.NoopProgressPublisher{}
	if cfg.RedisURL != "" {
		redisClients, err := database.NewRedisClients(cfg.RedisURL)
		if err != nil {
			log.Fatal("redis connection failed", zap.Error(err))
		}
		defer redisClients.Close()

		publisher = services.NewRedisProgressPublisher(redisClients.Publisher, log)
		deps.Hub = websocket.NewHub(redisClients.PubSub, log)
		log.Info("redis connected, progress websocket enabled")
	}

	// ──── Step 4: Initialize PostgreSQL and Run Migrations (optional) ────
	if cfg.DatabaseURL != "" {
		pool, err := database.NewPostgresPool(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("postgres connection failed", zap.Error(err))
		}
		defer pool.Close()

		if err := database.RunMigrations(pool, cfg.MigrationsDir, log); err != nil {
			log.Fatal("database migration failed", zap.Error(err))
		}

		deps.StudyMaterials = handlers.NewStudyMaterialHandler(repository.NewStudyMaterialRepo(pool), log)
		log.Info("postgres connected, study material storage enabled")
	}

	// ──── Step 5: Build Pipeline and Handlers ────
	pipeline := services.NewPipeline(completer, publisher, cfg.PipelineMode == config.PipelineSequential, log)
	deps.Process = handlers.NewProcessHandler(pipeline, services.NewYouTubeService(log), log)

	// ──── Step 6: Start HTTP Server ────
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router.New(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 200 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	log.Info("server ready",
		zap.String("addr", server.Addr),
		zap.String("pipeline_mode", cfg.PipelineMode),
	)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal("server error", zap.Error(err))
	}
}

// newCompleter selects the completion backend. The returned func releases its resources.
func newCompleter(cfg *config.Config) (services.Completer, func(), error) {
	if cfg.CompletionProvider == config.ProviderGemini {
		g, err := services.NewGeminiCompleter(context.Background(), cfg.CompletionAPIKey, cfg.CompletionModel, cfg.CompletionTimeout)
		if err != nil {
			return nil, nil, err
		}
		return g, g.Close, nil
	}

	client := services.NewChatCompletionClient(services.ChatCompletionConfig{
		BaseURL: cfg.CompletionBaseURL,
		Path:    cfg.CompletionPath,
		APIKey:  cfg.CompletionAPIKey,
		Model:   cfg.CompletionModel,
		Timeout: cfg.CompletionTimeout,
	})
	return client, func() {}, nil
}
