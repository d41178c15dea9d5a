package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pricelens/backend/internal/domain"
)

// Client queries an Open Food Facts compatible product database by barcode.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	rateLimiter *rate.Limiter
	logger      zerolog.Logger
}

// NewClient creates a new catalog client. requestsPerMinute bounds the call
// rate to the upstream database; the public instance allows 100 req/min.
func NewClient(baseURL, userAgent string, requestsPerMinute int, logger zerolog.Logger) *Client {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 100
	}
	limiter := rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		userAgent:   userAgent,
		rateLimiter: limiter,
		logger:      logger.With().Str("component", "catalog_client").Logger(),
	}
}

// wire types for the v2 product endpoint
type productResponse struct {
	Status  int          `json:"status"`
	Code    string       `json:"code"`
	Product *productBody `json:"product"`
}

type productBody struct {
	ProductName     string             `json:"product_name"`
	Brands          string             `json:"brands"`
	Quantity        string             `json:"quantity"`
	Categories      string             `json:"categories"`
	ImageURL        string             `json:"image_url"`
	IngredientsText string             `json:"ingredients_text"`
	Nutriments      map[string]float64 `json:"nutriments"`
}

// doRequest executes an HTTP GET request with proper headers
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}

	return resp, nil
}

// exponentialBackoff returns the wait duration before the given retry attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// Lookup fetches the catalog record for a barcode. A missing product returns
// domain.ErrProductNotFound; transient failures are retried up to 3 times.
func (c *Client) Lookup(ctx context.Context, barcode string) (*domain.CatalogRecord, error) {
	if barcode == "" {
		return nil, domain.ErrInvalidRequest
	}

	reqURL := fmt.Sprintf("%s/api/v2/product/%s.json", c.baseURL, barcode)
	c.logger.Debug().Str("barcode", barcode).Msg("catalog lookup")

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			c.logger.Warn().Err(err).Int("attempt", attempt).Str("barcode", barcode).Msg("catalog request failed")
			lastErr = err
			if !sleepCtx(ctx, exponentialBackoff(attempt)) {
				return nil, ctx.Err()
			}
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, domain.ErrProductNotFound
		}
		if resp.StatusCode != http.StatusOK {
			c.logger.Warn().
				Int("attempt", attempt).
				Int("status", resp.StatusCode).
				Str("barcode", barcode).
				Msg("catalog returned non-success status")
			lastErr = fmt.Errorf("%w: status %d", domain.ErrLookupFailed, resp.StatusCode)
			if !sleepCtx(ctx, exponentialBackoff(attempt)) {
				return nil, ctx.Err()
			}
			continue
		}

		var parsed productResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return nil, fmt.Errorf("failed to decode catalog response: %w", err)
		}

		if parsed.Status != 1 || parsed.Product == nil {
			c.logger.Debug().Str("barcode", barcode).Msg("catalog has no record for barcode")
			return nil, domain.ErrProductNotFound
		}

		return toRecord(barcode, parsed.Product), nil
	}

	c.logger.Warn().Str("barcode", barcode).Msg("catalog lookup exhausted retries")
	return nil, lastErr
}

// toRecord normalizes the wire product into a domain record. Nutriment keys
// are reduced to their per-100g values.
func toRecord(barcode string, body *productBody) *domain.CatalogRecord {
	nutriments := make(map[string]float64)
	for key, value := range body.Nutriments {
		if name, ok := strings.CutSuffix(key, "_100g"); ok {
			nutriments[name] = value
		}
	}

	return &domain.CatalogRecord{
		Barcode:     barcode,
		Name:        strings.TrimSpace(body.ProductName),
		Brand:       firstListEntry(body.Brands),
		Quantity:    strings.TrimSpace(body.Quantity),
		Category:    firstListEntry(body.Categories),
		ImageURL:    body.ImageURL,
		Ingredients: strings.TrimSpace(body.IngredientsText),
		Nutriments:  nutriments,
	}
}

// firstListEntry returns the first entry of a comma-separated catalog list
// field ("Heinz, Kraft Heinz" -> "Heinz").
func firstListEntry(list string) string {
	if idx := strings.Index(list, ","); idx >= 0 {
		list = list[:idx]
	}
	return strings.TrimSpace(list)
}

// sleepCtx sleeps for d unless the context is cancelled first
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
