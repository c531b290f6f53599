// @title MCQ Generator API
// @version 1.0
// @description Generates multiple choice quizzes from uploaded PDF or TXT documents.
// @host localhost:8501
// @BasePath /
// @schemes http https
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "mcq-generator/cmd/api/docs"
	"mcq-generator/internal/adapter"
	"mcq-generator/internal/adapter/llm"
	"mcq-generator/internal/adapter/quizgen"
	"mcq-generator/internal/cache"
	"mcq-generator/internal/config"
	"mcq-generator/internal/document"
	"mcq-generator/internal/domain"
	"mcq-generator/internal/handler"
	"mcq-generator/internal/logger"
	"mcq-generator/internal/service"

	"go.uber.org/zap"
)

const memoryCacheSweepInterval = time.Minute

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx := context.Background()

	// A missing credential is reported when the model is first called.
	model := llm.NewModelOrUnavailable(ctx, cfg.LLM)

	var sessionCache domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		sessionCache = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("Session results stored in Redis", zap.String("address", cfg.Redis.Address))
	} else {
		memoryCache := adapter.NewMemoryCacheAdapter(memoryCacheSweepInterval)
		defer memoryCache.Close()
		sessionCache = memoryCache
		appLogger.Info("Session results stored in memory")
	}

	store := service.NewSessionResultStore(sessionCache, cfg.Session.TTL)
	chain := quizgen.NewChain(model, cfg.LLM.Temperature)
	quizService := service.NewQuizGenerationService(document.NewReader(), chain, store)

	app := handler.NewApp(cfg, quizService, sessionCache)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
