package usecase

import (
	"context"
	"sync"

	"github.com/pricelens/backend/internal/domain"
)

// MockCacheStore is a mock implementation of domain.CacheStore
type MockCacheStore struct {
	mutex    sync.Mutex
	products map[string]domain.Product
	quotes   map[string][]domain.PriceQuote

	findProductErr error
	findQuotesErr  error
	saveProductErr error
	saveQuoteErr   error

	findProductCalls int
	saveProductCalls int
	saveQuoteCalls   int
}

func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{
		products: make(map[string]domain.Product),
		quotes:   make(map[string][]domain.PriceQuote),
	}
}

func (m *MockCacheStore) FindProduct(ctx context.Context, barcode string) (domain.Product, bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.findProductCalls++
	if m.findProductErr != nil {
		return domain.Product{}, false, m.findProductErr
	}
	product, ok := m.products[barcode]
	return product, ok, nil
}

func (m *MockCacheStore) FindQuotes(ctx context.Context, barcode string) ([]domain.PriceQuote, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.findQuotesErr != nil {
		return nil, m.findQuotesErr
	}
	return m.quotes[barcode], nil
}

func (m *MockCacheStore) SaveProduct(ctx context.Context, product domain.Product) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.saveProductCalls++
	if m.saveProductErr != nil {
		return "", m.saveProductErr
	}
	m.products[product.Barcode] = product
	return "product-id", nil
}

func (m *MockCacheStore) SaveQuote(ctx context.Context, quote domain.PriceQuote) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.saveQuoteCalls++
	if m.saveQuoteErr != nil {
		return "", m.saveQuoteErr
	}
	m.quotes[quote.ProductBarcode] = append(m.quotes[quote.ProductBarcode], quote)
	return "quote-id", nil
}

// SavedQuotes returns the persisted quote rows for a barcode
func (m *MockCacheStore) SavedQuotes(barcode string) []domain.PriceQuote {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.quotes[barcode]
}

// MockCatalogClient is a mock implementation of domain.CatalogClient
type MockCatalogClient struct {
	record *domain.CatalogRecord
	err    error
	calls  int
}

func (m *MockCatalogClient) Lookup(ctx context.Context, barcode string) (*domain.CatalogRecord, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.record, nil
}

// MockAssistedClient is a mock implementation of domain.AssistedClient
type MockAssistedClient struct {
	answer *domain.AssistedAnswer
	err    error
	calls  int
}

func (m *MockAssistedClient) Lookup(ctx context.Context, barcode string) (*domain.AssistedAnswer, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

// MockQuoteClient is a mock implementation of domain.QuoteClient
type MockQuoteClient struct {
	quotes map[string]domain.RawQuote
	err    error
	calls  int
}

func (m *MockQuoteClient) GetQuotes(ctx context.Context, product domain.Product, retailers domain.RetailerCatalog) (map[string]domain.RawQuote, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.quotes, nil
}
