package cache

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/pricelens/backend/internal/domain"
)

// MemoryStore is a thread-safe in-memory CacheStore. Products are kept for
// the lifetime of the store; quote rows accumulate per scan event.
type MemoryStore struct {
	mutex      sync.RWMutex
	products   map[string]domain.Product
	productIDs map[string]string
	quotes     map[string][]domain.PriceQuote
}

// NewMemoryStore creates a new in-memory cache store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:   make(map[string]domain.Product),
		productIDs: make(map[string]string),
		quotes:     make(map[string][]domain.PriceQuote),
	}
}

// FindProduct returns the cached product for a barcode, if any
func (s *MemoryStore) FindProduct(ctx context.Context, barcode string) (domain.Product, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	product, ok := s.products[barcode]
	return product, ok, nil
}

// FindQuotes returns all quote rows recorded for a barcode
func (s *MemoryStore) FindQuotes(ctx context.Context, barcode string) ([]domain.PriceQuote, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	stored := s.quotes[barcode]
	quotes := make([]domain.PriceQuote, len(stored))
	copy(quotes, stored)
	return quotes, nil
}

// SaveProduct upserts a product by barcode. Repeated saves of the same
// barcode keep the original row id, so the write path stays idempotent.
func (s *MemoryStore) SaveProduct(ctx context.Context, product domain.Product) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	id, ok := s.productIDs[product.Barcode]
	if !ok {
		id = uuid.New().String()
		s.productIDs[product.Barcode] = id
	}
	s.products[product.Barcode] = product
	return id, nil
}

// SaveQuote appends a quote row for the quote's barcode
func (s *MemoryStore) SaveQuote(ctx context.Context, quote domain.PriceQuote) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	id := uuid.New().String()
	s.quotes[quote.ProductBarcode] = append(s.quotes[quote.ProductBarcode], quote)
	return id, nil
}

// Size returns the current number of cached products (for debugging/monitoring)
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.products)
}

// Clear removes all cached products and quotes
func (s *MemoryStore) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.products = make(map[string]domain.Product)
	s.productIDs = make(map[string]string)
	s.quotes = make(map[string][]domain.PriceQuote)
}
