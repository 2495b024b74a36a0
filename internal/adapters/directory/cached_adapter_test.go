package directory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/toursearch/internal/adapters/cache"
	"github.com/zatekoja/toursearch/internal/adapters/directory"
	"github.com/zatekoja/toursearch/internal/domain/entities"
	"github.com/zatekoja/toursearch/internal/domain/providers"
	"github.com/zatekoja/toursearch/tests/mocks"
)

func TestCachedAdapter_ListHotels_ServesSecondCallFromCache(t *testing.T) {
	ctx := context.Background()
	provider := mocks.NewMockDirectoryProvider(t)
	store := cache.NewMemoryAdapter()
	adapter := directory.NewCachedAdapter(provider, store, directory.Options{TTLSeconds: 60})

	index := entities.HotelIndex{
		"7953": {ID: "7953", Name: "Marlin Inn", CityID: "712", CityName: "Hurghada", CountryID: "43"},
	}
	provider.EXPECT().ListHotels(mock.Anything, "43").Return(index, nil).Once()

	first, err := adapter.ListHotels(ctx, "43")
	require.NoError(t, err)
	second, err := adapter.ListHotels(ctx, "43")
	require.NoError(t, err)

	assert.Equal(t, index, first)
	assert.Equal(t, index, second)

	exists, err := store.Exists(ctx, "directory:hotels:43")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCachedAdapter_GetHotelDetails_FailureIsNotCached(t *testing.T) {
	ctx := context.Background()
	provider := mocks.NewMockDirectoryProvider(t)
	adapter := directory.NewCachedAdapter(provider, cache.NewMemoryAdapter(), directory.Options{})

	details := &entities.HotelDetails{Services: &entities.HotelServices{WiFi: entities.ServiceYes}}
	provider.EXPECT().GetHotelDetails(mock.Anything, "1").Return(nil, errors.New("boom")).Once()
	provider.EXPECT().GetHotelDetails(mock.Anything, "1").Return(details, nil).Once()

	_, err := adapter.GetHotelDetails(ctx, "1")
	require.Error(t, err)

	got, err := adapter.GetHotelDetails(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, details, got)

	got, err = adapter.GetHotelDetails(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, details, got)
}

func TestCachedAdapter_CacheReadFailureFallsBackToProvider(t *testing.T) {
	ctx := context.Background()
	provider := mocks.NewMockDirectoryProvider(t)
	store := mocks.NewMockCacheProvider(t)
	adapter := directory.NewCachedAdapter(provider, store, directory.Options{TTLSeconds: 30})

	countries := []entities.Country{{ID: "43", Name: "Egypt"}}
	store.EXPECT().Get(mock.Anything, "directory:countries").Return(nil, errors.New("connection refused"))
	provider.EXPECT().ListCountries(mock.Anything).Return(countries, nil)
	store.EXPECT().Set(mock.Anything, "directory:countries", mock.Anything, 30).Return(errors.New("connection refused"))

	got, err := adapter.ListCountries(ctx)
	require.NoError(t, err)
	assert.Equal(t, countries, got)
}

func TestCachedAdapter_CorruptEntryIsRefetched(t *testing.T) {
	ctx := context.Background()
	provider := mocks.NewMockDirectoryProvider(t)
	store := cache.NewMemoryAdapter()
	adapter := directory.NewCachedAdapter(provider, store, directory.Options{})

	require.NoError(t, store.Set(ctx, "directory:cities", []byte("{not json"), 0))
	cities := []entities.City{{ID: "712", Name: "Hurghada", CountryID: "43"}}
	provider.EXPECT().ListCities(mock.Anything).Return(cities, nil).Once()

	got, err := adapter.ListCities(ctx)
	require.NoError(t, err)
	assert.Equal(t, cities, got)
}

func TestCachedAdapter_SearchGeoIsNotCached(t *testing.T) {
	ctx := context.Background()
	provider := mocks.NewMockDirectoryProvider(t)
	store := mocks.NewMockCacheProvider(t)
	adapter := directory.NewCachedAdapter(provider, store, directory.Options{})

	items := []entities.GeoItem{{ID: "43", Name: "Egypt", Type: entities.GeoTypeCountry, CountryID: "43"}}
	provider.EXPECT().SearchGeo(mock.Anything, "egy").Return(items, nil).Twice()

	for i := 0; i < 2; i++ {
		got, err := adapter.SearchGeo(ctx, "egy")
		require.NoError(t, err)
		assert.Equal(t, items, got)
	}
}

var _ providers.DirectoryProvider = (*directory.CachedAdapter)(nil)
