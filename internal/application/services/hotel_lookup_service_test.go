package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/toursearch/internal/adapters/providers/mockbackend"
	"github.com/zatekoja/toursearch/internal/application/services"
	"github.com/zatekoja/toursearch/internal/domain/entities"
)

func TestHotelLookup_Cards(t *testing.T) {
	backend := mockbackend.New(mockbackend.Options{FailDetails: []string{"7004"}})
	dir := services.NewDirectoryService(backend, services.DirectoryServiceOptions{})
	lookup := services.NewHotelLookup(dir, nil)

	tours := []entities.Tour{
		{ID: "p7005", HotelID: "7005", Amount: 435, Currency: "usd", StartDate: "2024-06-02", EndDate: "2024-06-09"},
		{ID: "p7004", HotelID: "7004", Amount: 400, Currency: "usd", StartDate: "2024-06-01", EndDate: "2024-06-08"},
		{ID: "p999", HotelID: "999", Amount: 10, Currency: "eur", StartDate: "2024-07-01", EndDate: "2024-07-02"},
	}

	cards := lookup.Cards(context.Background(), "43", tours)
	require.Len(t, cards, 3)

	assert.Equal(t, "Sunrise Garden", cards[0].HotelName)
	assert.Equal(t, "Hurghada", cards[0].CityName)
	assert.Equal(t, "Egypt", cards[0].CountryName)
	assert.Equal(t, "https://images.example.com/hotels/7005.jpg", cards[0].ImageURL)
	assert.Equal(t, "435 USD", cards[0].Tour.PriceText)
	assert.Equal(t, []entities.Amenity{
		entities.AmenityWiFi, entities.AmenityParking, entities.AmenityLaundry, entities.AmenityAquapark,
	}, cards[0].Amenities)

	assert.Equal(t, "Marlin Inn", cards[1].HotelName)
	assert.NotNil(t, cards[1].Amenities)
	assert.Empty(t, cards[1].Amenities)

	assert.Equal(t, "Hotel 999", cards[2].HotelName)
	assert.Equal(t, "—", cards[2].CountryName)
	assert.Equal(t, "—", cards[2].CityName)
	assert.Empty(t, cards[2].Amenities)
}

func TestHotelLookup_UnknownCountryFallsBack(t *testing.T) {
	backend := mockbackend.New(mockbackend.Options{})
	dir := services.NewDirectoryService(backend, services.DirectoryServiceOptions{})
	lookup := services.NewHotelLookup(dir, nil)

	tours := []entities.Tour{{ID: "p7009", HotelID: "7009", Amount: 400, Currency: "usd"}}

	for _, countryID := range []string{"", "404"} {
		cards := lookup.Cards(context.Background(), countryID, tours)
		require.Len(t, cards, 1)
		assert.Equal(t, "Hotel 7009", cards[0].HotelName, countryID)
		assert.Equal(t, "—", cards[0].CityName, countryID)
		// details do not depend on the listing
		assert.Contains(t, cards[0].Amenities, entities.AmenityWiFi)
	}

	assert.Empty(t, lookup.Cards(context.Background(), "43", nil))
}
