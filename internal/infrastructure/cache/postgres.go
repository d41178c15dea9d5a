package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/pricelens/backend/internal/domain"
)

// PostgresStore is a CacheStore backed by PostgreSQL. Products are upserted
// by barcode; quote rows are append-only history.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresStore creates a PostgreSQL-backed cache store
func NewPostgresStore(pool *pgxpool.Pool, logger zerolog.Logger) *PostgresStore {
	return &PostgresStore{
		pool:   pool,
		logger: logger.With().Str("component", "postgres_store").Logger(),
	}
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// FindProduct returns the product for a barcode, if any
func (s *PostgresStore) FindProduct(ctx context.Context, barcode string) (domain.Product, bool, error) {
	query := `
		SELECT barcode, name, brand, size, category, image_ref,
		       ingredients, nutrition_summary, data_source, created_at
		FROM products
		WHERE barcode = $1
	`

	var p domain.Product
	err := s.pool.QueryRow(ctx, query, barcode).Scan(
		&p.Barcode, &p.Name, &p.Brand, &p.Size, &p.Category, &p.ImageRef,
		&p.Ingredients, &p.NutritionSummary, &p.DataSource, &p.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return domain.Product{}, false, nil
		}
		s.logger.Error().Err(err).Str("barcode", barcode).Msg("failed to query product")
		return domain.Product{}, false, fmt.Errorf("failed to query product: %w", err)
	}

	return p, true, nil
}

// FindQuotes returns all quote rows recorded for a barcode, oldest first
func (s *PostgresStore) FindQuotes(ctx context.Context, barcode string) ([]domain.PriceQuote, error) {
	query := `
		SELECT product_barcode, retailer_id, scan_date, price::text,
		       available, matched_size, url, note
		FROM price_quotes
		WHERE product_barcode = $1
		ORDER BY scan_date, retailer_id
	`

	rows, err := s.pool.Query(ctx, query, barcode)
	if err != nil {
		s.logger.Error().Err(err).Str("barcode", barcode).Msg("failed to query quotes")
		return nil, fmt.Errorf("failed to query quotes: %w", err)
	}
	defer rows.Close()

	var quotes []domain.PriceQuote
	for rows.Next() {
		var (
			q        domain.PriceQuote
			priceStr *string
		)
		err := rows.Scan(&q.ProductBarcode, &q.RetailerID, &q.ScanDate, &priceStr,
			&q.Available, &q.MatchedSize, &q.URL, &q.Note)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to scan quote row")
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		if priceStr != nil {
			price, err := decimal.NewFromString(*priceStr)
			if err != nil {
				return nil, fmt.Errorf("malformed price in quote row: %w", err)
			}
			q.Price = &price
		}
		quotes = append(quotes, q)
	}

	if err := rows.Err(); err != nil {
		s.logger.Error().Err(err).Msg("error iterating quote rows")
		return nil, fmt.Errorf("error iterating quotes: %w", err)
	}

	return quotes, nil
}

// SaveProduct upserts a product by barcode and returns the row id
func (s *PostgresStore) SaveProduct(ctx context.Context, product domain.Product) (string, error) {
	query := `
		INSERT INTO products (barcode, name, brand, size, category, image_ref,
		                      ingredients, nutrition_summary, data_source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (barcode) DO UPDATE SET
			name = EXCLUDED.name,
			brand = EXCLUDED.brand,
			size = EXCLUDED.size,
			category = EXCLUDED.category,
			image_ref = EXCLUDED.image_ref,
			ingredients = EXCLUDED.ingredients,
			nutrition_summary = EXCLUDED.nutrition_summary,
			data_source = EXCLUDED.data_source
		RETURNING id
	`

	var id string
	err := s.pool.QueryRow(ctx, query,
		product.Barcode, product.Name, product.Brand, product.Size,
		product.Category, product.ImageRef, product.Ingredients,
		product.NutritionSummary, product.DataSource, product.CreatedAt,
	).Scan(&id)
	if err != nil {
		s.logger.Error().Err(err).Str("barcode", product.Barcode).Msg("failed to upsert product")
		return "", fmt.Errorf("failed to save product: %w", err)
	}

	return id, nil
}

// SaveQuote appends a quote row and returns its id
func (s *PostgresStore) SaveQuote(ctx context.Context, quote domain.PriceQuote) (string, error) {
	query := `
		INSERT INTO price_quotes (product_barcode, retailer_id, scan_date, price,
		                          available, matched_size, url, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var priceStr *string
	if quote.Price != nil {
		v := quote.Price.String()
		priceStr = &v
	}

	var id string
	err := s.pool.QueryRow(ctx, query,
		quote.ProductBarcode, quote.RetailerID, quote.ScanDate, priceStr,
		quote.Available, quote.MatchedSize, quote.URL, quote.Note,
	).Scan(&id)
	if err != nil {
		s.logger.Error().Err(err).
			Str("barcode", quote.ProductBarcode).
			Str("retailer_id", quote.RetailerID).
			Msg("failed to insert quote")
		return "", fmt.Errorf("failed to save quote: %w", err)
	}

	return id, nil
}
