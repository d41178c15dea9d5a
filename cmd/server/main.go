package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/pricelens/backend/config"
	httpDelivery "github.com/pricelens/backend/internal/delivery/http"
	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/infrastructure/assisted"
	"github.com/pricelens/backend/internal/infrastructure/cache"
	"github.com/pricelens/backend/internal/infrastructure/catalog"
	"github.com/pricelens/backend/internal/infrastructure/genai"
	"github.com/pricelens/backend/internal/infrastructure/quotes"
	"github.com/pricelens/backend/internal/logging"
	"github.com/pricelens/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		return
	}

	logger := logging.New(cfg.Log)
	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("cache_type", cfg.Cache.Type).
		Msg("starting PriceLens backend")

	// Initialize the cache store backend
	store, err := newCacheStore(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize cache store")
	}

	// External lookup clients
	catalogClient := catalog.NewClient(
		cfg.Catalog.BaseURL,
		cfg.Catalog.UserAgent,
		cfg.Catalog.RequestsPerMinute,
		logger,
	)
	assistedClient := assisted.NewClient(
		genai.NewClient(cfg.Assisted.BaseURL, cfg.Assisted.APIKey, cfg.Assisted.Model, logger),
		logger,
	)
	quoteClient := quotes.NewClient(
		genai.NewClient(cfg.Quotes.BaseURL, cfg.Quotes.APIKey, cfg.Quotes.Model, logger),
		logger,
	)

	retailers := cfg.RetailerCatalog()
	logger.Info().Int("retailers", len(retailers)).Msg("retailer catalog loaded")

	// Usecase layer
	comparison := usecase.NewComparisonOrchestrator(store, quoteClient, retailers, logger)
	resolver := usecase.NewProductResolver(store, catalogClient, assistedClient, comparison, logger)

	// HTTP delivery
	handler := httpDelivery.NewHandler(resolver, store, retailers, cfg.Quotes.DefaultTarget, logger)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("server listening")

	if err := router.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

// newCacheStore builds the configured cache backend.
func newCacheStore(cfg *config.Config, logger zerolog.Logger) (domain.CacheStore, error) {
	switch cfg.Cache.Type {
	case "memory":
		return cache.NewMemoryStore(), nil
	case "redis":
		return cache.NewRedisStore(cfg.Cache.RedisURL, logger)
	case "postgres":
		pool, err := pgxpool.New(context.Background(), cfg.Cache.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		if err := pool.Ping(context.Background()); err != nil {
			return nil, fmt.Errorf("pinging postgres: %w", err)
		}
		return cache.NewPostgresStore(pool, logger), nil
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.Cache.Type)
	}
}
