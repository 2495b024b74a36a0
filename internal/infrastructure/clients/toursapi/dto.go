package toursapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/zatekoja/toursearch/internal/domain/entities"
)

// flexID accepts ids sent either as JSON strings or numbers
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*f = flexID(n.String())
	return nil
}

func (f flexID) or(key string) string {
	if f == "" {
		return key
	}
	return string(f)
}

type countryDTO struct {
	ID   flexID `json:"id"`
	Name string `json:"name"`
}

type cityDTO struct {
	ID        flexID `json:"id"`
	Name      string `json:"name"`
	CountryID flexID `json:"countryId"`
}

type hotelDTO struct {
	ID          flexID `json:"id"`
	Name        string `json:"name"`
	Img         string `json:"img"`
	CityID      flexID `json:"cityId"`
	CityName    string `json:"cityName"`
	CountryID   flexID `json:"countryId"`
	CountryName string `json:"countryName"`
}

type geoDTO struct {
	ID        flexID           `json:"id"`
	Name      string           `json:"name"`
	Type      entities.GeoType `json:"type"`
	CountryID flexID           `json:"countryId"`
}

type tourDTO struct {
	ID        flexID  `json:"id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	HotelID   flexID  `json:"hotelID"`
}

type startSearchDTO struct {
	Token     string   `json:"token"`
	Delay     *float64 `json:"delay"`
	WaitUntil string   `json:"waitUntil"`
}

// pollDTO covers both the pending and the done answer of a poll
type pollDTO struct {
	Status    string             `json:"status"`
	Delay     *float64           `json:"delay"`
	WaitUntil string             `json:"waitUntil"`
	Prices    map[string]tourDTO `json:"prices"`
}

func (p pollDTO) hint() entities.BackoffHint {
	return entities.BackoffHint{DelayMs: p.Delay, WaitUntil: p.WaitUntil}
}

func (d countryDTO) toEntity(key string) entities.Country {
	return entities.Country{ID: d.ID.or(key), Name: d.Name}
}

func (d cityDTO) toEntity(key string) entities.City {
	return entities.City{ID: d.ID.or(key), Name: d.Name, CountryID: string(d.CountryID)}
}

func (d hotelDTO) toEntity(key string) entities.HotelInfo {
	return entities.HotelInfo{
		ID:          d.ID.or(key),
		Name:        d.Name,
		Img:         d.Img,
		CityID:      string(d.CityID),
		CityName:    d.CityName,
		CountryID:   string(d.CountryID),
		CountryName: d.CountryName,
	}
}

func (d geoDTO) toEntity(key string) entities.GeoItem {
	item := entities.GeoItem{
		ID:        d.ID.or(key),
		Name:      d.Name,
		Type:      d.Type,
		CountryID: string(d.CountryID),
	}
	// a country row is scoped to itself
	if item.Type == entities.GeoTypeCountry && item.CountryID == "" {
		item.CountryID = item.ID
	}
	return item
}

func (d tourDTO) toEntity(key string) entities.Tour {
	return entities.Tour{
		ID:        d.ID.or(key),
		HotelID:   string(d.HotelID),
		Amount:    d.Amount,
		Currency:  d.Currency,
		StartDate: d.StartDate,
		EndDate:   d.EndDate,
	}
}

// sortedKeys returns map keys in natural id order: numeric ids by value,
// everything else lexically after them
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return entities.IDLess(keys[i], keys[j])
	})
	return keys
}
