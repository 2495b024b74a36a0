package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func TestTour_ViewModel(t *testing.T) {
	tour := Tour{ID: "p1", HotelID: "42", Amount: 500, Currency: "usd", StartDate: "2024-06-01", EndDate: "2024-06-08"}

	assert.Equal(t, TourViewModel{
		ID:        "p1",
		HotelID:   "42",
		PriceText: "500 USD",
		DateText:  "2024-06-01 - 2024-06-08",
	}, tour.ViewModel())

	fractional := Tour{Amount: 1299.5, Currency: "eur"}
	assert.Equal(t, "1299.5 EUR", fractional.ViewModel().PriceText)
}

func TestGeoItem_Selection(t *testing.T) {
	item := GeoItem{ID: "7", Name: "Kyiv", Type: GeoTypeCity, CountryID: "UA"}
	assert.Equal(t, &GeoSelection{ID: "7", Type: GeoTypeCity, CountryID: "UA"}, item.Selection())

	orphan := GeoItem{ID: "9", Name: "Nowhere", Type: GeoTypeHotel}
	assert.Nil(t, orphan.Selection())
}

func TestHotelDetails_Amenities(t *testing.T) {
	details := &HotelDetails{Services: &HotelServices{
		WiFi:        ServiceYes,
		Aquapark:    "paid",
		TennisCourt: ServiceNo,
		Laundry:     ServiceYes,
		Parking:     ServiceNone,
	}}
	assert.Equal(t, []Amenity{AmenityWiFi, AmenityLaundry, AmenityAquapark}, details.Amenities())

	assert.Empty(t, EmptyHotelDetails.Amenities())
	assert.Empty(t, (&HotelDetails{Services: &HotelServices{Aquapark: ServiceNone}}).Amenities())
}

func TestBackoffHint_Resolve(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		hint   BackoffHint
		want   time.Duration
		wantOk bool
	}{
		{name: "explicit delay", hint: BackoffHint{DelayMs: ptr(500)}, want: 500 * time.Millisecond, wantOk: true},
		{name: "negative delay floors at zero", hint: BackoffHint{DelayMs: ptr(-20)}, want: 0, wantOk: true},
		{name: "delay wins over waitUntil", hint: BackoffHint{DelayMs: ptr(300), WaitUntil: "2024-06-01T12:00:05Z"}, want: 300 * time.Millisecond, wantOk: true},
		{name: "waitUntil in the future", hint: BackoffHint{WaitUntil: "2024-06-01T12:00:02.500Z"}, want: 2500 * time.Millisecond, wantOk: true},
		{name: "waitUntil in the past", hint: BackoffHint{WaitUntil: "2024-06-01T11:59:00Z"}, want: 0, wantOk: true},
		{name: "unparsable waitUntil", hint: BackoffHint{WaitUntil: "soon"}, want: 0, wantOk: false},
		{name: "empty hint", hint: BackoffHint{}, want: 0, wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.hint.Resolve(now)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIDLess(t *testing.T) {
	assert.True(t, IDLess("2", "10"))
	assert.False(t, IDLess("10", "2"))
	assert.True(t, IDLess("10", "a"))
	assert.True(t, IDLess("a", "b"))
	assert.False(t, IDLess("7", "7"))
}
