package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/recipe-companion/backend/config"
	"github.com/pageza/recipe-companion/backend/internal/api"
	"github.com/pageza/recipe-companion/backend/internal/cuisine"
	"github.com/pageza/recipe-companion/backend/internal/database"
	"github.com/pageza/recipe-companion/backend/internal/logger"
	"github.com/pageza/recipe-companion/backend/internal/metrics"
	"github.com/pageza/recipe-companion/backend/internal/middleware"
	"github.com/pageza/recipe-companion/backend/internal/server"
	"github.com/pageza/recipe-companion/backend/internal/service"
	"github.com/pageza/recipe-companion/backend/internal/session"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync(log)

	if err := run(cfg, log); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
	log.Info("server stopped")
}

func run(cfg *config.Config, log *zap.Logger) error {
	if cfg.Environment.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var (
		store   session.Store
		limiter middleware.Limiter
		rdb     *redis.Client
	)
	if cfg.UseRedis() {
		client, err := database.NewRedisClient(context.Background(), cfg, log)
		if err != nil {
			return err
		}
		defer client.Close()
		rdb = client
		store = session.NewRedisStore(rdb, cfg.SessionTTL)
	} else {
		log.Info("no redis configured, keeping sessions in memory")
		store = session.NewMemoryStore(cfg.SessionTTL)
	}

	if cfg.RecipeRateLimit > 0 {
		limitCfg := middleware.RecipeGenerationLimit(cfg.RecipeRateLimit)
		if rdb != nil {
			limiter = middleware.NewRedisLimiter(rdb, limitCfg)
		} else {
			limiter = middleware.NewLocalLimiter(limitCfg)
		}
	}

	issuer, err := session.NewTokenIssuer(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		return err
	}

	recipes, err := service.NewRecipeService(cfg.RecipeAPIURL, cfg.RecipeAPIKey, cfg.RecipeAPITimeout, log.Named("recipe"))
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, api.Dependencies{
		Recipes:         recipes,
		Store:           store,
		Issuer:          issuer,
		Limiter:         limiter,
		Menu:            cuisine.NewMenu(cuisine.DefaultCatalog),
		Metrics:         metrics.New(),
		Logger:          log,
		TypewriterDelay: cfg.TypewriterDelay,
		SecureCookies:   cfg.Environment.IsProduction(),
	})
	if err != nil {
		return err
	}

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		log.Info("received signal", zap.String("signal", sig.String()))
	}

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}
