package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/infrastructure/genai"
)

// Client queries the generative price-aggregation service. One request covers
// the whole retailer catalog, keeping the external call count per comparison
// at exactly one.
type Client struct {
	gen    *genai.Client
	logger zerolog.Logger
}

// NewClient creates a new price quote client
func NewClient(gen *genai.Client, logger zerolog.Logger) *Client {
	return &Client{
		gen:    gen,
		logger: logger.With().Str("component", "quote_client").Logger(),
	}
}

// GetQuotes fetches current online prices for the product across every
// retailer in the catalog. Unknown retailer keys in the response are dropped.
func (c *Client) GetQuotes(ctx context.Context, product domain.Product, retailers domain.RetailerCatalog) (map[string]domain.RawQuote, error) {
	if len(retailers) == 0 {
		return map[string]domain.RawQuote{}, nil
	}

	raw, err := c.gen.GenerateJSON(ctx, buildPrompt(product, retailers))
	if err != nil {
		return nil, err
	}

	var parsed map[string]domain.RawQuote
	if err := json.Unmarshal(raw, &parsed); err != nil {
		c.logger.Warn().Err(err).Str("barcode", product.Barcode).Msg("quote response violated schema")
		return nil, fmt.Errorf("%w: malformed quote response: %v", domain.ErrLookupFailed, err)
	}

	result := make(map[string]domain.RawQuote, len(parsed))
	for retailerID, quote := range parsed {
		if !retailers.Contains(retailerID) {
			c.logger.Debug().
				Str("retailer_id", retailerID).
				Str("barcode", product.Barcode).
				Msg("dropping quote for retailer outside the catalog")
			continue
		}
		result[retailerID] = quote
	}

	c.logger.Debug().
		Str("barcode", product.Barcode).
		Int("retailers", len(retailers)).
		Int("quotes", len(result)).
		Msg("fetched price quotes")

	return result, nil
}

// buildPrompt describes the product and the full retailer set in a single
// batched query with a strict per-retailer response schema.
func buildPrompt(product domain.Product, retailers domain.RetailerCatalog) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Find the current online price of this product at each listed UK retailer.\n")
	fmt.Fprintf(&b, "Product: %s", product.Name)
	if product.Brand != "" {
		fmt.Fprintf(&b, " by %s", product.Brand)
	}
	if product.Size != "" {
		fmt.Fprintf(&b, ", size %s", product.Size)
	}
	b.WriteString("\nRetailers:\n")
	for _, r := range retailers {
		fmt.Fprintf(&b, "  - id: %s (%s)\n", r.ID, r.Name)
	}
	b.WriteString(`Respond with a single JSON object keyed by retailer id. Each value must use exactly these keys:
  "price": the current price in GBP as a number, or null if unknown
  "available": whether the product is currently sold there (boolean)
  "url": the product page URL, or "" if unknown
  "matchedSize": the package size the price refers to (e.g. "400g pack"), or "" if unknown
Include every listed retailer id. Mark a retailer unavailable rather than guessing a price.`)

	return b.String()
}
