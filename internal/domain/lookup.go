package domain

// ResolutionOutcome tags how Resolve identified a product.
type ResolutionOutcome string

const (
	OutcomeCacheHit         ResolutionOutcome = "cache_hit"
	OutcomeCatalogHit       ResolutionOutcome = "catalog_hit"
	OutcomeAssistedHit      ResolutionOutcome = "assisted_hit"
	OutcomeNeedsManualEntry ResolutionOutcome = "needs_manual_entry"
)

// LookupStatus tags a single waterfall tier result. A miss and an error both
// advance the waterfall; the distinction exists for logging and metrics.
type LookupStatus int

const (
	LookupHit LookupStatus = iota
	LookupMiss
	LookupError
)

func (s LookupStatus) String() string {
	switch s {
	case LookupHit:
		return "hit"
	case LookupMiss:
		return "miss"
	case LookupError:
		return "error"
	default:
		return "unknown"
	}
}

// Resolution is the result of running the resolution waterfall for a barcode.
// When Outcome is OutcomeNeedsManualEntry, Product carries only the barcode.
type Resolution struct {
	Product Product           `json:"product"`
	Quotes  []PriceQuote      `json:"quotes"`
	Outcome ResolutionOutcome `json:"outcome"`
}

// CatalogRecord is a normalized record from the structured product database.
// Fields mirror what the catalog reports; mapping to a Product (defaults,
// prefix stripping, nutrition formatting) happens in the catalog adapter.
type CatalogRecord struct {
	Barcode     string
	Name        string
	Brand       string
	Quantity    string
	Category    string
	ImageURL    string
	Ingredients string
	// Nutriments holds per-100g values keyed by catalog nutrient name,
	// e.g. "energy-kcal" or "proteins". Absent keys mean unknown.
	Nutriments map[string]float64
}

// AssistedAnswer is the strict response contract of the assisted lookup
// service. Success requires the error field absent and a non-empty name.
type AssistedAnswer struct {
	ProductName string `json:"productName"`
	Brand       string `json:"brand,omitempty"`
	Size        string `json:"size,omitempty"`
	Category    string `json:"category,omitempty"`
	Error       string `json:"error,omitempty"`
}

// OK reports whether the answer satisfies the success contract.
func (a AssistedAnswer) OK() bool {
	return a.Error == "" && a.ProductName != ""
}
