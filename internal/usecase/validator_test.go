package usecase

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pricelens/backend/internal/domain"
)

func decPtr(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func TestValidate_AvailabilityFilter(t *testing.T) {
	validator := NewQuoteValidator()
	product := domain.Product{Barcode: "5000112637922", Name: "Baked Beans"}
	scanDate := time.Now()

	raw := map[string]domain.RawQuote{
		"tesco": {Price: decPtr(1.40), Available: true},
		"asda":  {Price: decPtr(1.20), Available: false},
	}

	validated := validator.Validate(product, raw, scanDate)

	if _, ok := validated["tesco"]; !ok {
		t.Error("available quote was discarded")
	}
	if _, ok := validated["asda"]; ok {
		t.Error("unavailable quote was kept")
	}
}

func TestValidate_SizeContainment(t *testing.T) {
	validator := NewQuoteValidator()
	product := domain.Product{Barcode: "5000112637922", Name: "Baked Beans", Size: "500g"}
	scanDate := time.Now()

	tests := []struct {
		name        string
		matchedSize string
		want        bool
	}{
		{"exact size", "500g", true},
		{"size within larger string", "500g pack", true},
		{"case-insensitive containment", "500G Tin", true},
		{"different size", "400g", false},
		{"empty matched size", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := map[string]domain.RawQuote{
				"tesco": {Price: decPtr(1.40), Available: true, MatchedSize: tt.matchedSize},
			}
			validated := validator.Validate(product, raw, scanDate)
			_, kept := validated["tesco"]
			if kept != tt.want {
				t.Errorf("kept = %v, want %v for matchedSize %q", kept, tt.want, tt.matchedSize)
			}
		})
	}
}

func TestValidate_UnknownSizePassthrough(t *testing.T) {
	validator := NewQuoteValidator()
	product := domain.Product{Barcode: "5000112637922", Name: "Baked Beans", Size: ""}
	scanDate := time.Now()

	raw := map[string]domain.RawQuote{
		"tesco": {Price: decPtr(1.40), Available: true, MatchedSize: "415g"},
		"asda":  {Price: decPtr(1.20), Available: true, MatchedSize: ""},
	}

	validated := validator.Validate(product, raw, scanDate)

	if len(validated) != 2 {
		t.Errorf("len = %d, want 2 (nothing to compare against)", len(validated))
	}
}

func TestValidate_ProvenanceNote(t *testing.T) {
	validator := NewQuoteValidator()
	product := domain.Product{Barcode: "5000112637922", Name: "Baked Beans"}
	scanDate := time.Now()

	raw := map[string]domain.RawQuote{
		"tesco": {Price: decPtr(1.40), Available: true, MatchedSize: "415g tin"},
		"asda":  {Price: decPtr(1.20), Available: true},
	}

	validated := validator.Validate(product, raw, scanDate)

	if got := validated["tesco"].Note; got != "Online price for 415g tin" {
		t.Errorf("Note = %q, want %q", got, "Online price for 415g tin")
	}
	if got := validated["asda"].Note; got != "Online price for unknown size" {
		t.Errorf("Note = %q, want %q", got, "Online price for unknown size")
	}
}

func TestValidate_KeepsNullPriceQuotes(t *testing.T) {
	validator := NewQuoteValidator()
	product := domain.Product{Barcode: "5000112637922", Name: "Baked Beans"}
	scanDate := time.Now()

	raw := map[string]domain.RawQuote{
		"tesco": {Price: nil, Available: true, MatchedSize: "400g"},
	}

	validated := validator.Validate(product, raw, scanDate)

	quote, ok := validated["tesco"]
	if !ok {
		t.Fatal("available quote without numeric price must be validated-kept")
	}
	if quote.HasNumericPrice() {
		t.Error("HasNumericPrice() = true for nil price")
	}
}

func TestValidate_PopulatesQuoteIdentity(t *testing.T) {
	validator := NewQuoteValidator()
	product := domain.Product{Barcode: "5000112637922", Name: "Baked Beans"}
	scanDate := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	raw := map[string]domain.RawQuote{
		"tesco": {Price: decPtr(1.40), Available: true, URL: "https://tesco.example/beans"},
	}

	validated := validator.Validate(product, raw, scanDate)

	quote := validated["tesco"]
	if quote.ProductBarcode != "5000112637922" {
		t.Errorf("ProductBarcode = %q", quote.ProductBarcode)
	}
	if quote.RetailerID != "tesco" {
		t.Errorf("RetailerID = %q", quote.RetailerID)
	}
	if !quote.ScanDate.Equal(scanDate) {
		t.Errorf("ScanDate = %v, want %v", quote.ScanDate, scanDate)
	}
	if quote.URL != "https://tesco.example/beans" {
		t.Errorf("URL = %q", quote.URL)
	}
}
