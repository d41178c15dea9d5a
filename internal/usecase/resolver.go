package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/infrastructure/catalog"
	"github.com/pricelens/backend/internal/metrics"
)

// DefaultManualBrand is assigned when manual entry omits the brand
const DefaultManualBrand = "Generic"

// ProductResolver runs the tiered resolution waterfall for a scanned barcode:
// Cache -> Catalog -> Assisted -> Manual. Tiers execute strictly in order and
// short-circuit on the first usable result; lookup failures inside a tier are
// absorbed, logged and advance the waterfall, never surfacing to the caller.
type ProductResolver struct {
	store      domain.CacheStore
	catalog    domain.CatalogClient
	assisted   domain.AssistedClient
	comparison *ComparisonOrchestrator
	logger     zerolog.Logger
}

// NewProductResolver creates a new product resolver
func NewProductResolver(
	store domain.CacheStore,
	catalogClient domain.CatalogClient,
	assistedClient domain.AssistedClient,
	comparison *ComparisonOrchestrator,
	logger zerolog.Logger,
) *ProductResolver {
	return &ProductResolver{
		store:      store,
		catalog:    catalogClient,
		assisted:   assistedClient,
		comparison: comparison,
		logger:     logger.With().Str("component", "resolver").Logger(),
	}
}

// Resolve identifies the product behind a barcode and returns it with its
// price quotes. A cache hit returns immediately without touching any external
// service; a fresh catalog or assisted hit runs the price comparison before
// returning. When every tier misses the outcome is OutcomeNeedsManualEntry
// and the resolution carries only the barcode.
func (r *ProductResolver) Resolve(ctx context.Context, barcode string) (*domain.Resolution, error) {
	if barcode == "" {
		return nil, domain.ErrInvalidRequest
	}

	// Tier 1: cache. The short-circuit here is the dominant cost-saving
	// property of the design; no later tier may run after a hit.
	if resolution := r.cacheTier(ctx, barcode); resolution != nil {
		return resolution, nil
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Tier 2: structured catalog
	if product, status := r.catalogTier(ctx, barcode); status == domain.LookupHit {
		return r.finishResolved(ctx, product, domain.OutcomeCatalogHit)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Tier 3: assisted lookup
	if product, status := r.assistedTier(ctx, barcode); status == domain.LookupHit {
		return r.finishResolved(ctx, product, domain.OutcomeAssistedHit)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Tier 4: manual entry
	r.logger.Info().Str("barcode", barcode).Msg("barcode unresolved, needs manual entry")
	metrics.ResolutionCounter.WithLabelValues(string(domain.OutcomeNeedsManualEntry)).Inc()
	return &domain.Resolution{
		Product: domain.Product{Barcode: barcode},
		Outcome: domain.OutcomeNeedsManualEntry,
	}, nil
}

// cacheTier returns a completed resolution on a cache hit, nil otherwise.
// Cache errors are treated as misses so a degraded store never blocks a scan.
func (r *ProductResolver) cacheTier(ctx context.Context, barcode string) *domain.Resolution {
	product, found, err := r.store.FindProduct(ctx, barcode)
	if err != nil {
		r.logger.Warn().Err(err).Str("barcode", barcode).Msg("cache lookup failed, treating as miss")
		metrics.LookupTierCounter.WithLabelValues("cache", domain.LookupError.String()).Inc()
		return nil
	}
	if !found {
		metrics.LookupTierCounter.WithLabelValues("cache", domain.LookupMiss.String()).Inc()
		return nil
	}

	quotes, err := r.store.FindQuotes(ctx, barcode)
	if err != nil {
		r.logger.Warn().Err(err).Str("barcode", barcode).Msg("cached quote load failed")
		quotes = nil
	}

	r.logger.Debug().Str("barcode", barcode).Int("quotes", len(quotes)).Msg("cache hit")
	metrics.LookupTierCounter.WithLabelValues("cache", domain.LookupHit.String()).Inc()
	metrics.ResolutionCounter.WithLabelValues(string(domain.OutcomeCacheHit)).Inc()

	return &domain.Resolution{
		Product: product,
		Quotes:  quotes,
		Outcome: domain.OutcomeCacheHit,
	}
}

// catalogTier queries the structured product database. A record without a
// name counts as a miss even though the mapper would default it, because a
// nameless product cannot drive a price comparison.
func (r *ProductResolver) catalogTier(ctx context.Context, barcode string) (domain.Product, domain.LookupStatus) {
	record, err := r.catalog.Lookup(ctx, barcode)
	if err != nil {
		status := classifyLookupErr(err)
		if status == domain.LookupError {
			r.logger.Warn().Err(err).Str("barcode", barcode).Msg("catalog tier failed, falling through")
		}
		metrics.LookupTierCounter.WithLabelValues("catalog", status.String()).Inc()
		return domain.Product{}, status
	}

	if record == nil || record.Name == "" {
		metrics.LookupTierCounter.WithLabelValues("catalog", domain.LookupMiss.String()).Inc()
		return domain.Product{}, domain.LookupMiss
	}

	metrics.LookupTierCounter.WithLabelValues("catalog", domain.LookupHit.String()).Inc()
	return catalog.MapToProduct(record), domain.LookupHit
}

// assistedTier queries the generative lookup service under its strict schema
// contract: an error field or empty name is a miss.
func (r *ProductResolver) assistedTier(ctx context.Context, barcode string) (domain.Product, domain.LookupStatus) {
	answer, err := r.assisted.Lookup(ctx, barcode)
	if err != nil {
		status := classifyLookupErr(err)
		if status == domain.LookupError {
			r.logger.Warn().Err(err).Str("barcode", barcode).Msg("assisted tier failed, falling through")
		}
		metrics.LookupTierCounter.WithLabelValues("assisted", status.String()).Inc()
		return domain.Product{}, status
	}

	if !answer.OK() {
		metrics.LookupTierCounter.WithLabelValues("assisted", domain.LookupMiss.String()).Inc()
		return domain.Product{}, domain.LookupMiss
	}

	metrics.LookupTierCounter.WithLabelValues("assisted", domain.LookupHit.String()).Inc()
	return domain.Product{
		Barcode:    barcode,
		Name:       answer.ProductName,
		Brand:      answer.Brand,
		Size:       answer.Size,
		Category:   answer.Category,
		ImageRef:   domain.PlaceholderImageRef,
		DataSource: domain.SourceAssisted,
		CreatedAt:  time.Now(),
	}, domain.LookupHit
}

// finishResolved runs the price comparison for a freshly resolved product.
// Comparison persists the product and its accepted quotes; a placeholder-name
// rejection downgrades the resolution to manual entry.
func (r *ProductResolver) finishResolved(ctx context.Context, product domain.Product, outcome domain.ResolutionOutcome) (*domain.Resolution, error) {
	validated, err := r.comparison.Compare(ctx, product)
	if err != nil {
		if errors.Is(err, domain.ErrUnusableName) {
			metrics.ResolutionCounter.WithLabelValues(string(domain.OutcomeNeedsManualEntry)).Inc()
			return &domain.Resolution{
				Product: domain.Product{Barcode: product.Barcode},
				Outcome: domain.OutcomeNeedsManualEntry,
			}, nil
		}
		return nil, err
	}

	metrics.ResolutionCounter.WithLabelValues(string(outcome)).Inc()
	return &domain.Resolution{
		Product: product,
		Quotes:  r.comparison.OrderedQuotes(validated),
		Outcome: outcome,
	}, nil
}

// classifyLookupErr maps a client error onto a tier status
func classifyLookupErr(err error) domain.LookupStatus {
	if errors.Is(err, domain.ErrProductNotFound) {
		return domain.LookupMiss
	}
	return domain.LookupError
}

// FinalizeManual completes the manual tier: it validates the caller-supplied
// entry, applies field defaults and persists the product. Manual products do
// not enter the price comparison; the caller assigns a default comparison
// target instead. The returned error is domain.ErrNameRequired when the
// required name is missing - the only error this pipeline surfaces
// synchronously.
func (r *ProductResolver) FinalizeManual(ctx context.Context, barcode string, entry domain.ManualEntry) (domain.Product, error) {
	if barcode == "" {
		return domain.Product{}, domain.ErrInvalidRequest
	}
	if strings.TrimSpace(entry.Name) == "" {
		return domain.Product{}, domain.ErrNameRequired
	}

	brand := strings.TrimSpace(entry.Brand)
	if brand == "" {
		brand = DefaultManualBrand
	}

	product := domain.Product{
		Barcode:    barcode,
		Name:       strings.TrimSpace(entry.Name),
		Brand:      brand,
		Size:       strings.TrimSpace(entry.Size),
		ImageRef:   domain.PlaceholderImageRef,
		DataSource: domain.SourceManual,
		CreatedAt:  time.Now(),
	}

	if _, err := r.store.SaveProduct(ctx, product); err != nil {
		// Non-fatal: the caller still gets the in-memory product
		r.logger.Error().Err(err).Str("barcode", barcode).Msg("manual product write failed")
	}

	r.logger.Info().Str("barcode", barcode).Str("name", product.Name).Msg("manual entry finalized")
	return product, nil
}
