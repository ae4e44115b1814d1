// Package main API 服务入口
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"storymaster-ai-api/internal/application/story"
	"storymaster-ai-api/internal/config"
	"storymaster-ai-api/internal/infrastructure/openrouter"
	"storymaster-ai-api/internal/infrastructure/persistence/redis"
	"storymaster-ai-api/internal/interfaces/http/handler"
	"storymaster-ai-api/internal/interfaces/http/middleware"
	"storymaster-ai-api/internal/interfaces/http/router"
	"storymaster-ai-api/pkg/logger"
	"storymaster-ai-api/pkg/tracer"
)

// Version 版本信息，构建时注入
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件（如果存在）
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(
		cfg.Observability.Logging.Level,
		cfg.Observability.Logging.Format,
	)

	ctx := context.Background()
	log := logger.FromContext(ctx)
	log.Info("starting api-server",
		"version", Version,
		"build_time", BuildTime,
		"env", cfg.App.Env,
	)

	shutdown, err := tracer.Init(ctx, tracer.Config{
		ServiceName: cfg.App.Name,
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		log.Error("failed to init tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			log.Error("failed to shutdown tracer", "error", err)
		}
	}()

	// Redis 可选：不可用时关闭缓存与限流，生成功能不受影响
	var redisClient *redis.Client
	var store *redis.StoryStore
	var limiter middleware.ClientRateLimiter
	if cfg.Cache.Enabled {
		redisClient, err = redis.NewClient(&cfg.Cache.Redis)
		if err != nil {
			log.Warn("redis unavailable, running without story cache", "error", err.Error())
		} else {
			defer redisClient.Close()
			store = redis.NewStoryStore(redisClient, cfg.Cache.StoryTTL)
			limiter = redis.NewRateLimiter(redisClient)
		}
	}

	tracker := openrouter.NewUsageTracker(cfg.OpenRouter.QuotaLimit, cfg.OpenRouter.QuotaWindow)
	llmClient := openrouter.NewClient(cfg.OpenRouter, cfg.Pipeline.Text, tracker)
	pipeline := story.NewPipeline(llmClient, cfg.Pipeline, cfg.OpenRouter)

	handlers := router.Handlers{
		Health:  handler.NewHealthHandler(redisClient, cfg.App.Version),
		Catalog: handler.NewCatalogHandler(),
		Story:   handler.NewStoryHandler(pipeline, store, cfg),
	}

	r := router.New(cfg, handlers, limiter)

	addr := fmt.Sprintf("%s:%d", cfg.Server.HTTP.Host, cfg.Server.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		IdleTimeout:  cfg.Server.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("http server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
