package domain

import "errors"

var (
	// ErrProductNotFound is returned when a lookup tier finds nothing for a
	// barcode. Always recoverable; advances the waterfall.
	ErrProductNotFound = errors.New("product not found")

	// ErrLookupFailed is returned on transport failures or non-success
	// responses from an external lookup service. Treated like a miss.
	ErrLookupFailed = errors.New("external lookup failed")

	// ErrCacheMiss is returned when no cached product exists for a barcode
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when the cache backend cannot be reached
	ErrCacheUnavailable = errors.New("cache unavailable")

	// ErrUnusableName is returned when a comparison is requested for a product
	// whose name is empty or the placeholder; the caller must go through
	// manual entry instead.
	ErrUnusableName = errors.New("product name missing or placeholder")

	// ErrNameRequired is returned when manual entry is submitted without a
	// product name. This is the only error surfaced synchronously to callers.
	ErrNameRequired = errors.New("manual entry requires a product name")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")
)
