package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/metrics"
)

// ComparisonOrchestrator drives the price comparison for a resolved product:
// one batched quote query, validation, then persistence of the product and
// the accepted quotes.
type ComparisonOrchestrator struct {
	store       domain.CacheStore
	quoteClient domain.QuoteClient
	validator   *QuoteValidator
	retailers   domain.RetailerCatalog
	logger      zerolog.Logger
}

// NewComparisonOrchestrator creates a new comparison orchestrator
func NewComparisonOrchestrator(
	store domain.CacheStore,
	quoteClient domain.QuoteClient,
	retailers domain.RetailerCatalog,
	logger zerolog.Logger,
) *ComparisonOrchestrator {
	return &ComparisonOrchestrator{
		store:       store,
		quoteClient: quoteClient,
		validator:   NewQuoteValidator(),
		retailers:   retailers,
		logger:      logger.With().Str("component", "comparison").Logger(),
	}
}

// Compare fetches, validates and persists price quotes for a product.
//
// Products without a usable name are rejected with domain.ErrUnusableName
// before any external call is issued; the caller must go through manual
// entry. An upstream quote failure is treated as an empty result set, never
// as an error, so the caller always gets the resolved product back.
// Persistence failures are logged and do not affect the returned quotes.
func (o *ComparisonOrchestrator) Compare(ctx context.Context, product domain.Product) (map[string]domain.PriceQuote, error) {
	if !product.HasUsableName() {
		o.logger.Debug().Str("barcode", product.Barcode).Msg("skipping comparison for unusable product name")
		return nil, domain.ErrUnusableName
	}

	scanDate := time.Now()

	rawQuotes, err := o.quoteClient.GetQuotes(ctx, product, o.retailers)
	if err != nil {
		if ctx.Err() != nil {
			// Session torn down mid-comparison: do not persist partial state
			return nil, ctx.Err()
		}
		o.logger.Warn().Err(err).Str("barcode", product.Barcode).Msg("quote fetch failed, continuing with empty result set")
		rawQuotes = nil
	}

	validated := o.validator.Validate(product, rawQuotes, scanDate)

	o.logger.Debug().
		Str("barcode", product.Barcode).
		Int("raw", len(rawQuotes)).
		Int("validated", len(validated)).
		Msg("validated price quotes")

	o.persist(ctx, product, validated)

	return validated, nil
}

// persist writes the product record and one row per validated quote with a
// well-formed numeric price. Quote writes fan out concurrently and are joined
// before returning; if the product write fails no quote writes are attempted.
func (o *ComparisonOrchestrator) persist(ctx context.Context, product domain.Product, validated map[string]domain.PriceQuote) {
	if ctx.Err() != nil {
		return
	}

	if _, err := o.store.SaveProduct(ctx, product); err != nil {
		o.logger.Error().Err(err).Str("barcode", product.Barcode).Msg("product write failed, skipping quote writes")
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	persisted := 0
	for _, quote := range validated {
		// Narrower filter than validation: quotes without a numeric price
		// are kept in the result but never written
		if !quote.HasNumericPrice() {
			continue
		}
		persisted++
		quote := quote
		g.Go(func() error {
			_, err := o.store.SaveQuote(gctx, quote)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		o.logger.Error().Err(err).Str("barcode", product.Barcode).Msg("quote batch write failed")
		return
	}

	metrics.QuotesPersistedCounter.Add(float64(persisted))
}

// OrderedQuotes flattens a validated quote map into the retailer catalog's
// canonical order, so callers see a stable, deterministic listing.
func (o *ComparisonOrchestrator) OrderedQuotes(validated map[string]domain.PriceQuote) []domain.PriceQuote {
	quotes := make([]domain.PriceQuote, 0, len(validated))
	for _, retailer := range o.retailers {
		if quote, ok := validated[retailer.ID]; ok {
			quotes = append(quotes, quote)
		}
	}
	return quotes
}

// BestPrice returns the cheapest validated quote in canonical catalog order
func (o *ComparisonOrchestrator) BestPrice(validated map[string]domain.PriceQuote) (string, domain.PriceQuote, bool) {
	return domain.BestPrice(o.retailers, validated)
}
