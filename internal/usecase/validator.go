package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/pricelens/backend/internal/domain"
)

// QuoteValidator filters and annotates raw retailer quotes against a resolved
// product. It is pure and side-effect-free so it can be tested without any
// network or storage dependency.
type QuoteValidator struct{}

// NewQuoteValidator creates a new quote validator
func NewQuoteValidator() *QuoteValidator {
	return &QuoteValidator{}
}

// Validate applies the acceptance policy per retailer entry:
//   - unavailable quotes are discarded entirely
//   - when the product has a canonical size, the quote's matched size must
//     contain it as a case-insensitive substring (conservative containment,
//     no unit parsing)
//   - when the product size is unknown, any available quote is kept
//
// Kept entries are annotated with a provenance note. Discarded entries are
// omitted from the output, not converted to unavailable records.
func (v *QuoteValidator) Validate(product domain.Product, rawQuotes map[string]domain.RawQuote, scanDate time.Time) map[string]domain.PriceQuote {
	validated := make(map[string]domain.PriceQuote)

	for retailerID, raw := range rawQuotes {
		if !raw.Available {
			continue
		}

		if product.Size != "" && !sizeMatches(product.Size, raw.MatchedSize) {
			continue
		}

		validated[retailerID] = domain.PriceQuote{
			ProductBarcode: product.Barcode,
			RetailerID:     retailerID,
			ScanDate:       scanDate,
			Price:          raw.Price,
			Available:      true,
			MatchedSize:    raw.MatchedSize,
			URL:            raw.URL,
			Note:           provenanceNote(raw.MatchedSize),
		}
	}

	return validated
}

// sizeMatches reports whether the canonical product size appears in the
// quote's matched size, case-insensitively. An empty matched size never
// matches a known canonical size.
func sizeMatches(canonicalSize, matchedSize string) bool {
	if matchedSize == "" {
		return false
	}
	return strings.Contains(strings.ToLower(matchedSize), strings.ToLower(canonicalSize))
}

// provenanceNote builds the human-readable note attached to kept quotes
func provenanceNote(matchedSize string) string {
	if matchedSize == "" {
		matchedSize = "unknown size"
	}
	return fmt.Sprintf("Online price for %s", matchedSize)
}
