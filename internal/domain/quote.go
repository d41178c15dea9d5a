package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceQuote is one retailer's price/availability for a product at a point in
// time. Identity is the composite of ProductBarcode + RetailerID + ScanDate;
// rows accumulate per scan event and are never updated.
type PriceQuote struct {
	ProductBarcode string           `json:"productBarcode"`
	RetailerID     string           `json:"retailerId"`
	ScanDate       time.Time        `json:"scanDate"`
	Price          *decimal.Decimal `json:"price"` // nil when no numeric price was reported
	Available      bool             `json:"available"`
	MatchedSize    string           `json:"matchedSize,omitempty"`
	URL            string           `json:"url,omitempty"`
	Note           string           `json:"note,omitempty"`
}

// HasNumericPrice reports whether the quote carries a well-formed positive
// price. Only such quotes are ever persisted.
func (q PriceQuote) HasNumericPrice() bool {
	return q.Price != nil && q.Price.IsPositive()
}

// RawQuote is a single retailer entry as returned by the price quote service,
// before validation.
type RawQuote struct {
	Price       *decimal.Decimal `json:"price"`
	Available   bool             `json:"available"`
	URL         string           `json:"url,omitempty"`
	MatchedSize string           `json:"matchedSize,omitempty"`
}

// BestPrice scans validated quotes in the retailer catalog's canonical order
// and returns the retailer with the lowest available numeric price. Ties are
// broken by first-encountered catalog order, so the result is deterministic.
func BestPrice(catalog RetailerCatalog, quotes map[string]PriceQuote) (string, PriceQuote, bool) {
	var (
		bestID string
		best   PriceQuote
		found  bool
	)
	for _, retailer := range catalog {
		quote, ok := quotes[retailer.ID]
		if !ok || !quote.Available || !quote.HasNumericPrice() {
			continue
		}
		if !found || quote.Price.LessThan(*best.Price) {
			bestID = retailer.ID
			best = quote
			found = true
		}
	}
	return bestID, best, found
}
