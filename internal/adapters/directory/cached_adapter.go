package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/toursearch/internal/domain/entities"
	"github.com/zatekoja/toursearch/internal/domain/providers"
	"github.com/zatekoja/toursearch/internal/infrastructure/observability"
)

const defaultTTLSeconds = 3600

// CachedAdapter wraps a DirectoryProvider with a shared CacheProvider so
// directory listings survive process restarts and are shared between
// instances. Free-text geo search is never cached.
type CachedAdapter struct {
	provider   providers.DirectoryProvider
	cache      providers.CacheProvider
	ttlSeconds int
	metrics    *observability.Metrics
	logger     zerolog.Logger
}

// Options configures a CachedAdapter
type Options struct {
	TTLSeconds int
	Metrics    *observability.Metrics
	Logger     *zerolog.Logger
}

// NewCachedAdapter creates a new cached directory adapter
func NewCachedAdapter(provider providers.DirectoryProvider, cache providers.CacheProvider, opts Options) *CachedAdapter {
	ttl := opts.TTLSeconds
	if ttl <= 0 {
		ttl = defaultTTLSeconds
	}
	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &CachedAdapter{
		provider:   provider,
		cache:      cache,
		ttlSeconds: ttl,
		metrics:    opts.Metrics,
		logger:     logger.With().Str("component", "directory_cache").Logger(),
	}
}

var _ providers.DirectoryProvider = (*CachedAdapter)(nil)

// Cache key generators
func countriesCacheKey() string {
	return "directory:countries"
}

func citiesCacheKey() string {
	return "directory:cities"
}

func hotelsCacheKey(countryID string) string {
	return fmt.Sprintf("directory:hotels:%s", countryID)
}

func hotelDetailsCacheKey(hotelID string) string {
	return fmt.Sprintf("directory:hotel_details:%s", hotelID)
}

// ListCountries retrieves countries with caching
func (a *CachedAdapter) ListCountries(ctx context.Context) ([]entities.Country, error) {
	return cached(ctx, a, "countries", countriesCacheKey(), func(ctx context.Context) ([]entities.Country, error) {
		return a.provider.ListCountries(ctx)
	})
}

// ListCities retrieves the flat city listing with caching
func (a *CachedAdapter) ListCities(ctx context.Context) ([]entities.City, error) {
	return cached(ctx, a, "cities", citiesCacheKey(), func(ctx context.Context) ([]entities.City, error) {
		return a.provider.ListCities(ctx)
	})
}

// ListHotels retrieves a country's hotels with caching
func (a *CachedAdapter) ListHotels(ctx context.Context, countryID string) (entities.HotelIndex, error) {
	return cached(ctx, a, "hotels", hotelsCacheKey(countryID), func(ctx context.Context) (entities.HotelIndex, error) {
		return a.provider.ListHotels(ctx, countryID)
	})
}

// GetHotelDetails retrieves hotel details with caching. Failures are not
// cached here; the directory service owns the empty-details fallback.
func (a *CachedAdapter) GetHotelDetails(ctx context.Context, hotelID string) (*entities.HotelDetails, error) {
	return cached(ctx, a, "hotel_details", hotelDetailsCacheKey(hotelID), func(ctx context.Context) (*entities.HotelDetails, error) {
		return a.provider.GetHotelDetails(ctx, hotelID)
	})
}

// SearchGeo passes through to the wrapped provider
func (a *CachedAdapter) SearchGeo(ctx context.Context, query string) ([]entities.GeoItem, error) {
	return a.provider.SearchGeo(ctx, query)
}

func cached[T any](ctx context.Context, a *CachedAdapter, name, cacheKey string, fetch func(context.Context) (T, error)) (T, error) {
	// Try to get from cache first
	data, err := a.cache.Get(ctx, cacheKey)
	switch {
	case err == nil:
		var value T
		if err := json.Unmarshal(data, &value); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, name)
			return value, nil
		}
		a.logger.Warn().Err(err).Str("key", cacheKey).Msg("failed to unmarshal cached directory entry")
	case !errors.Is(err, providers.ErrCacheMiss):
		a.logger.Warn().Err(err).Str("key", cacheKey).Msg("directory cache read failed")
	}
	observability.RecordCacheMiss(ctx, a.metrics, name)

	value, err := fetch(ctx)
	if err != nil {
		return value, err
	}

	if data, err := json.Marshal(value); err == nil {
		if err := a.cache.Set(ctx, cacheKey, data, a.ttlSeconds); err != nil {
			a.logger.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache directory entry")
		}
	}
	return value, nil
}
