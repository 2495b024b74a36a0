package providers

import (
	"context"

	"github.com/zatekoja/toursearch/internal/domain/entities"
)

// DirectoryProvider exposes the backend's geographic directory
type DirectoryProvider interface {
	// ListCountries returns every country, ordered by id
	ListCountries(ctx context.Context) ([]entities.Country, error)

	// ListCities returns the flat city listing, ordered by id
	ListCities(ctx context.Context) ([]entities.City, error)

	// ListHotels returns the hotel listing of a country keyed by hotel id
	ListHotels(ctx context.Context, countryID string) (entities.HotelIndex, error)

	// GetHotelDetails returns the detail record of a hotel
	GetHotelDetails(ctx context.Context, hotelID string) (*entities.HotelDetails, error)

	// SearchGeo runs a free-text search over countries, cities and hotels
	SearchGeo(ctx context.Context, query string) ([]entities.GeoItem, error)
}
