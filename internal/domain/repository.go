package domain

import "context"

// CacheStore persists resolved products and their accumulated price quotes,
// keyed by barcode. Implementations must be safe for concurrent use across
// barcodes; only per-key consistency is required.
type CacheStore interface {
	// FindProduct returns the product for a barcode, or false on a miss.
	FindProduct(ctx context.Context, barcode string) (Product, bool, error)
	// FindQuotes returns all quote rows recorded for a barcode.
	FindQuotes(ctx context.Context, barcode string) ([]PriceQuote, error)
	// SaveProduct upserts a product by barcode and returns the row id.
	SaveProduct(ctx context.Context, product Product) (string, error)
	// SaveQuote appends a quote row and returns its id.
	SaveQuote(ctx context.Context, quote PriceQuote) (string, error)
}

// CatalogClient queries a structured external product database by barcode.
type CatalogClient interface {
	Lookup(ctx context.Context, barcode string) (*CatalogRecord, error)
}

// AssistedClient queries a schema-constrained generative search service,
// used when the structured catalog misses.
type AssistedClient interface {
	Lookup(ctx context.Context, barcode string) (*AssistedAnswer, error)
}

// QuoteClient queries a generative price-aggregation service. One call covers
// the whole retailer catalog, so the external call count per comparison is
// exactly one regardless of catalog size.
type QuoteClient interface {
	GetQuotes(ctx context.Context, product Product, retailers RetailerCatalog) (map[string]RawQuote, error)
}
