package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pricelens/backend/internal/domain"
)

// RedisStore is a CacheStore backed by Redis. Products live at
// "product:{barcode}", quote rows accumulate in the list "quotes:{barcode}".
type RedisStore struct {
	client *redis.Client
	logger zerolog.Logger
}

// redisProduct is the stored product envelope; the row id survives upserts.
type redisProduct struct {
	ID      string         `json:"id"`
	Product domain.Product `json:"product"`
}

// NewRedisStore creates a Redis-backed cache store from a redis:// URL
func NewRedisStore(redisURL string, logger zerolog.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return &RedisStore{
		client: redis.NewClient(opts),
		logger: logger.With().Str("component", "redis_store").Logger(),
	}, nil
}

func productKey(barcode string) string { return "product:" + barcode }
func quotesKey(barcode string) string  { return "quotes:" + barcode }

// FindProduct returns the cached product for a barcode, if any
func (s *RedisStore) FindProduct(ctx context.Context, barcode string) (domain.Product, bool, error) {
	raw, err := s.client.Get(ctx, productKey(barcode)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Product{}, false, nil
	}
	if err != nil {
		return domain.Product{}, false, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	var stored redisProduct
	if err := json.Unmarshal(raw, &stored); err != nil {
		s.logger.Error().Err(err).Str("barcode", barcode).Msg("corrupt cached product")
		return domain.Product{}, false, fmt.Errorf("failed to decode cached product: %w", err)
	}
	return stored.Product, true, nil
}

// FindQuotes returns all quote rows recorded for a barcode
func (s *RedisStore) FindQuotes(ctx context.Context, barcode string) ([]domain.PriceQuote, error) {
	rows, err := s.client.LRange(ctx, quotesKey(barcode), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	quotes := make([]domain.PriceQuote, 0, len(rows))
	for _, row := range rows {
		var quote domain.PriceQuote
		if err := json.Unmarshal([]byte(row), &quote); err != nil {
			s.logger.Error().Err(err).Str("barcode", barcode).Msg("corrupt cached quote, skipping")
			continue
		}
		quotes = append(quotes, quote)
	}
	return quotes, nil
}

// SaveProduct upserts a product by barcode, preserving the existing row id
func (s *RedisStore) SaveProduct(ctx context.Context, product domain.Product) (string, error) {
	stored := redisProduct{Product: product}

	existing, err := s.client.Get(ctx, productKey(product.Barcode)).Bytes()
	if err == nil {
		var prev redisProduct
		if json.Unmarshal(existing, &prev) == nil {
			stored.ID = prev.ID
		}
	} else if !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("failed to encode product: %w", err)
	}
	if err := s.client.Set(ctx, productKey(product.Barcode), raw, 0).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return stored.ID, nil
}

// SaveQuote appends a quote row for the quote's barcode
func (s *RedisStore) SaveQuote(ctx context.Context, quote domain.PriceQuote) (string, error) {
	raw, err := json.Marshal(quote)
	if err != nil {
		return "", fmt.Errorf("failed to encode quote: %w", err)
	}
	if err := s.client.RPush(ctx, quotesKey(quote.ProductBarcode), raw).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return uuid.New().String(), nil
}

// Close releases the underlying Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
