package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/toursearch/internal/domain/entities"
)

// placeholder shown for an unknown country or city name
const unknownPlace = "—"

// HotelCatalog resolves hotel metadata for result cards
type HotelCatalog interface {
	HotelsIndex(ctx context.Context, countryID string) (entities.HotelIndex, error)
	HotelDetailsMany(ctx context.Context, hotelIDs []string) map[string]*entities.HotelDetails
}

// TourCard is a tour joined with its hotel's display metadata
type TourCard struct {
	Tour        entities.TourViewModel `json:"tour"`
	HotelName   string                 `json:"hotelName"`
	ImageURL    string                 `json:"imageUrl,omitempty"`
	CountryName string                 `json:"countryName"`
	CityName    string                 `json:"cityName"`
	Amenities   []entities.Amenity     `json:"amenities"`
}

// HotelLookup builds result cards from filtered tours
type HotelLookup struct {
	catalog HotelCatalog
	logger  zerolog.Logger
}

// NewHotelLookup creates a lookup over catalog
func NewHotelLookup(catalog HotelCatalog, logger *zerolog.Logger) *HotelLookup {
	l := log.Logger
	if logger != nil {
		l = *logger
	}
	return &HotelLookup{
		catalog: catalog,
		logger:  l.With().Str("component", "hotel_lookup").Logger(),
	}
}

// Cards joins each tour with the hotel listing of countryID and the hotel's
// amenities. Lookups that fail leave the card with fallback text.
func (l *HotelLookup) Cards(ctx context.Context, countryID string, tours []entities.Tour) []TourCard {
	var index entities.HotelIndex
	if countryID != "" {
		var err error
		index, err = l.catalog.HotelsIndex(ctx, countryID)
		if err != nil {
			l.logger.Warn().Err(err).Str("country_id", countryID).Msg("hotel listing unavailable")
			index = nil
		}
	}

	hotelIDs := make([]string, 0, len(tours))
	for _, t := range tours {
		hotelIDs = append(hotelIDs, t.HotelID)
	}
	details := l.catalog.HotelDetailsMany(ctx, hotelIDs)

	cards := make([]TourCard, 0, len(tours))
	for _, t := range tours {
		card := TourCard{
			Tour:        t.ViewModel(),
			HotelName:   "Hotel " + t.HotelID,
			CountryName: unknownPlace,
			CityName:    unknownPlace,
			Amenities:   details[t.HotelID].Amenities(),
		}
		if hotel, ok := index[t.HotelID]; ok {
			card.HotelName = hotel.Name
			card.ImageURL = hotel.Img
			card.CountryName = hotel.CountryName
			card.CityName = hotel.CityName
		}
		if card.Amenities == nil {
			card.Amenities = []entities.Amenity{}
		}
		cards = append(cards, card)
	}
	return cards
}
