package catalog

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pricelens/backend/internal/domain"
)

// Catalog nutriment names for the summary line
const (
	NutrimentEnergyKcal    = "energy-kcal"
	NutrimentProteins      = "proteins"
	NutrimentCarbohydrates = "carbohydrates"
	NutrimentFat           = "fat"
)

// namespacePrefixRegex matches language-namespace prefixes on category tags,
// e.g. "en:" in "en:canned-foods"
var namespacePrefixRegex = regexp.MustCompile(`^[a-z]{2,3}:`)

// MapToProduct converts a catalog record into a product descriptor with
// explicit field defaults: missing name falls back to the placeholder,
// missing image falls back to a URL derived from the barcode, category
// namespace prefixes are stripped, and nutrition fields are formatted only
// when present.
func MapToProduct(record *domain.CatalogRecord) domain.Product {
	name := record.Name
	if name == "" {
		name = domain.UnknownProductName
	}

	imageRef := record.ImageURL
	if imageRef == "" {
		imageRef = domain.CatalogImageFallback(record.Barcode)
	}

	return domain.Product{
		Barcode:          record.Barcode,
		Name:             name,
		Brand:            record.Brand,
		Size:             record.Quantity,
		Category:         stripNamespace(record.Category),
		ImageRef:         imageRef,
		Ingredients:      record.Ingredients,
		NutritionSummary: formatNutrition(record.Nutriments),
		DataSource:       domain.SourceCatalog,
		CreatedAt:        time.Now(),
	}
}

// stripNamespace removes a leading language-namespace prefix from a category
// tag ("en:canned-foods" -> "canned-foods")
func stripNamespace(category string) string {
	return namespacePrefixRegex.ReplaceAllString(strings.TrimSpace(category), "")
}

// formatNutrition builds a human-readable per-100g summary from the nutriments
// that are actually present. Unknown nutriments are omitted, never zero-filled.
func formatNutrition(nutriments map[string]float64) string {
	if len(nutriments) == 0 {
		return ""
	}

	var parts []string
	if kcal, ok := nutriments[NutrimentEnergyKcal]; ok {
		parts = append(parts, fmt.Sprintf("%.0f kcal per 100g", kcal))
	}
	if protein, ok := nutriments[NutrimentProteins]; ok {
		parts = append(parts, fmt.Sprintf("%.1fg protein per 100g", protein))
	}
	if carbs, ok := nutriments[NutrimentCarbohydrates]; ok {
		parts = append(parts, fmt.Sprintf("%.1fg carbs per 100g", carbs))
	}
	if fat, ok := nutriments[NutrimentFat]; ok {
		parts = append(parts, fmt.Sprintf("%.1fg fat per 100g", fat))
	}

	return strings.Join(parts, ", ")
}
