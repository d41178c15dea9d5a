package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	resolver      *usecase.ProductResolver
	store         domain.CacheStore
	retailers     domain.RetailerCatalog
	defaultTarget decimal.Decimal
	logger        zerolog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(resolver *usecase.ProductResolver, store domain.CacheStore, retailers domain.RetailerCatalog, defaultTarget float64, logger zerolog.Logger) *Handler {
	return &Handler{
		resolver:      resolver,
		store:         store,
		retailers:     retailers,
		defaultTarget: decimal.NewFromFloat(defaultTarget),
		logger:        logger.With().Str("component", "http").Logger(),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pricelens-backend",
		"version": "1.0.0",
	})
}

type scanRequest struct {
	Barcode string `json:"barcode" binding:"required"`
}

type bestPriceSummary struct {
	RetailerID string             `json:"retailerId"`
	Quote      *domain.PriceQuote `json:"quote,omitempty"`
}

type scanResponse struct {
	Outcome   domain.ResolutionOutcome `json:"outcome"`
	Product   domain.Product           `json:"product"`
	Quotes    []domain.PriceQuote      `json:"quotes"`
	BestPrice *bestPriceSummary        `json:"bestPrice,omitempty"`
}

// ScanBarcode resolves a scanned barcode through the lookup waterfall and
// returns the product with its validated price quotes.
func (h *Handler) ScanBarcode(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "barcode is required"})
		return
	}

	resolution, err := h.resolver.Resolve(c.Request.Context(), req.Barcode)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid barcode"})
			return
		}
		h.logger.Error().Err(err).Str("barcode", req.Barcode).Msg("resolution failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve barcode"})
		return
	}

	c.JSON(http.StatusOK, h.toScanResponse(resolution))
}

func (h *Handler) toScanResponse(resolution *domain.Resolution) scanResponse {
	resp := scanResponse{
		Outcome: resolution.Outcome,
		Product: resolution.Product,
		Quotes:  resolution.Quotes,
	}
	if resp.Quotes == nil {
		resp.Quotes = []domain.PriceQuote{}
	}

	byRetailer := make(map[string]domain.PriceQuote, len(resolution.Quotes))
	for _, q := range resolution.Quotes {
		byRetailer[q.RetailerID] = q
	}
	if retailerID, quote, ok := domain.BestPrice(h.retailers, byRetailer); ok {
		resp.BestPrice = &bestPriceSummary{RetailerID: retailerID, Quote: &quote}
	}

	return resp
}

type manualEntryRequest struct {
	Barcode string `json:"barcode" binding:"required"`
	Name    string `json:"name"`
	Brand   string `json:"brand"`
	Size    string `json:"size"`
}

// ManualEntry finalizes a product the waterfall could not resolve, using
// user-supplied details. The response carries the configured target price so
// clients have a comparison anchor for products without retailer quotes.
func (h *Handler) ManualEntry(c *gin.Context) {
	var req manualEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "barcode is required"})
		return
	}

	product, err := h.resolver.FinalizeManual(c.Request.Context(), req.Barcode, domain.ManualEntry{
		Name:  req.Name,
		Brand: req.Brand,
		Size:  req.Size,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNameRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "product name is required"})
		case errors.Is(err, domain.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid barcode"})
		default:
			h.logger.Error().Err(err).Str("barcode", req.Barcode).Msg("manual entry failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save product"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product":     product,
		"targetPrice": h.defaultTarget,
	})
}

// GetProduct returns a previously resolved product and its quote history.
func (h *Handler) GetProduct(c *gin.Context) {
	barcode := c.Param("barcode")

	product, found, err := h.store.FindProduct(c.Request.Context(), barcode)
	if err != nil {
		h.logger.Error().Err(err).Str("barcode", barcode).Msg("store lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load product"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	quotes, err := h.store.FindQuotes(c.Request.Context(), barcode)
	if err != nil {
		h.logger.Warn().Err(err).Str("barcode", barcode).Msg("quote history unavailable")
		quotes = nil
	}
	if quotes == nil {
		quotes = []domain.PriceQuote{}
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
		"quotes":  quotes,
	})
}
