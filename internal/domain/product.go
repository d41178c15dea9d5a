package domain

import "time"

// DataSource identifies which resolution tier produced a product
type DataSource string

const (
	SourceCatalog  DataSource = "catalog"
	SourceAssisted DataSource = "assisted"
	SourceManual   DataSource = "manual"
)

// UnknownProductName is the placeholder name used when a lookup response
// carries no usable product name. Products with this name never enter
// price comparison.
const UnknownProductName = "Unknown Product"

// PlaceholderImageRef is the generic image used when no catalog image exists
// (assisted and manual products).
const PlaceholderImageRef = "https://images.pricelens.app/placeholder.png"

// Product represents a resolved retail product, keyed by barcode
type Product struct {
	Barcode          string     `json:"barcode"`
	Name             string     `json:"name"`
	Brand            string     `json:"brand,omitempty"`
	Size             string     `json:"size,omitempty"` // free-text quantity, e.g. "400g"
	Category         string     `json:"category,omitempty"`
	ImageRef         string     `json:"imageRef,omitempty"`
	Ingredients      string     `json:"ingredients,omitempty"`
	NutritionSummary string     `json:"nutritionSummary,omitempty"`
	DataSource       DataSource `json:"dataSource"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// HasUsableName reports whether the product name is good enough to drive a
// price comparison.
func (p Product) HasUsableName() bool {
	return p.Name != "" && p.Name != UnknownProductName
}

// CatalogImageFallback returns the deterministic image URL derived from a
// barcode, used when the catalog record has no image of its own.
func CatalogImageFallback(barcode string) string {
	return "https://images.pricelens.app/products/" + barcode + "/front.jpg"
}

// ManualEntry is the caller-supplied input at the manual entry boundary.
// Name is required; Brand and Size are optional.
type ManualEntry struct {
	Name  string `json:"name"`
	Brand string `json:"brand,omitempty"`
	Size  string `json:"size,omitempty"`
}
