package assisted

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/infrastructure/genai"
)

// Client performs schema-constrained generative product lookup by barcode.
// It runs only after the structured catalog has missed.
type Client struct {
	gen    *genai.Client
	logger zerolog.Logger
}

// NewClient creates a new assisted lookup client
func NewClient(gen *genai.Client, logger zerolog.Logger) *Client {
	return &Client{
		gen:    gen,
		logger: logger.With().Str("component", "assisted_client").Logger(),
	}
}

const promptTemplate = `Identify the retail grocery product with barcode %q (EAN/UPC format).
Respond with a single JSON object using exactly these keys:
  "productName": the product name, as printed on packaging
  "brand": the brand name
  "size": the package size as free text (e.g. "400g", "2L"), or "" if unknown
  "category": a short category label (e.g. "canned-foods")
If you cannot identify the product, respond with {"error": "not found"} instead.
Do not guess: only answer when you are confident the barcode maps to this product.`

// Lookup asks the generative service to identify a barcode. The returned
// answer may carry the contract's error field; callers must check OK().
// Transport and schema failures are returned as errors.
func (c *Client) Lookup(ctx context.Context, barcode string) (*domain.AssistedAnswer, error) {
	if barcode == "" {
		return nil, domain.ErrInvalidRequest
	}

	raw, err := c.gen.GenerateJSON(ctx, fmt.Sprintf(promptTemplate, barcode))
	if err != nil {
		return nil, err
	}

	var answer domain.AssistedAnswer
	if err := json.Unmarshal(raw, &answer); err != nil {
		c.logger.Warn().Err(err).Str("barcode", barcode).Msg("assisted response violated schema")
		return nil, fmt.Errorf("%w: malformed assisted response: %v", domain.ErrLookupFailed, err)
	}

	if !answer.OK() {
		c.logger.Debug().
			Str("barcode", barcode).
			Str("error", answer.Error).
			Msg("assisted lookup found nothing")
	}
	return &answer, nil
}
