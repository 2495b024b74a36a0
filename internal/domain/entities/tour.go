package entities

import (
	"strconv"
	"strings"
)

// Tour is a priced offer as returned by the backend
type Tour struct {
	ID        string  `json:"id"`
	HotelID   string  `json:"hotelId"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
}

// TourViewModel is a tour with its display text precomputed
type TourViewModel struct {
	ID        string `json:"id"`
	HotelID   string `json:"hotelId"`
	PriceText string `json:"priceText"`
	DateText  string `json:"dateText"`
}

// ViewModel formats the tour for display
func (t Tour) ViewModel() TourViewModel {
	return TourViewModel{
		ID:        t.ID,
		HotelID:   t.HotelID,
		PriceText: strconv.FormatFloat(t.Amount, 'f', -1, 64) + " " + strings.ToUpper(t.Currency),
		DateText:  t.StartDate + " - " + t.EndDate,
	}
}

// ToursToViewModels formats a list of tours, preserving order
func ToursToViewModels(tours []Tour) []TourViewModel {
	out := make([]TourViewModel, len(tours))
	for i, t := range tours {
		out[i] = t.ViewModel()
	}
	return out
}
