package mockbackend

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/zatekoja/toursearch/internal/domain/entities"
	"github.com/zatekoja/toursearch/internal/domain/providers"
	apperrors "github.com/zatekoja/toursearch/pkg/errors"
)

// Options scripts how the mock backend answers
type Options struct {
	// PendingRounds is how many polls answer pending before a job is done
	PendingRounds int

	// StartDelayMs and PendingDelayMs are the backoff hints handed out
	StartDelayMs   float64
	PendingDelayMs float64

	// FailPolls makes the first polls of every job fail with a 503
	FailPolls int

	// FailDetails lists hotels whose details cannot be fetched
	FailDetails []string

	// Latency is added to every call
	Latency time.Duration
}

type job struct {
	countryID string
	polls     int
}

// Backend is an in-memory pricing backend for local development and tests
type Backend struct {
	opts      Options
	countries []entities.Country
	hotels    map[string]entities.HotelIndex

	mu   sync.Mutex
	jobs map[string]*job

	startCalls  atomic.Int64
	pollCalls   atomic.Int64
	hotelsCalls atomic.Int64
}

var (
	_ providers.TourSearchProvider = (*Backend)(nil)
	_ providers.DirectoryProvider  = (*Backend)(nil)
)

// New creates a mock backend seeded with sample data
func New(opts Options) *Backend {
	b := &Backend{
		opts:   opts,
		hotels: make(map[string]entities.HotelIndex),
		jobs:   make(map[string]*job),
	}
	b.seed()
	return b
}

func (b *Backend) seed() {
	type city struct {
		id, name string
		hotels   []string
	}
	data := []struct {
		id, name string
		cities   []city
	}{
		{"38", "Greece", []city{
			{"1101", "Crete", []string{"Aldemar Knossos", "Creta Maris"}},
			{"1102", "Rhodes", []string{"Lindos Blu"}},
		}},
		{"43", "Egypt", []city{
			{"712", "Hurghada", []string{"Marlin Inn", "Sunrise Garden", "Albatros Palace"}},
			{"713", "Sharm El Sheikh", []string{"Rixos Premium", "Savoy"}},
		}},
		{"115", "Turkey", []city{
			{"1540", "Antalya", []string{"Delphin Imperial", "Titanic Beach"}},
			{"1541", "Bodrum", []string{"Voyage Torba"}},
		}},
	}

	next := 7000
	for _, country := range data {
		b.countries = append(b.countries, entities.Country{ID: country.id, Name: country.name})
		index := make(entities.HotelIndex)
		for _, c := range country.cities {
			for _, name := range c.hotels {
				next++
				id := strconv.Itoa(next)
				index[id] = entities.HotelInfo{
					ID:          id,
					Name:        name,
					Img:         fmt.Sprintf("https://images.example.com/hotels/%s.jpg", id),
					CityID:      c.id,
					CityName:    c.name,
					CountryID:   country.id,
					CountryName: country.name,
				}
			}
		}
		b.hotels[country.id] = index
	}
}

// StartCalls reports how many searches were started
func (b *Backend) StartCalls() int { return int(b.startCalls.Load()) }

// PollCalls reports how many polls were answered
func (b *Backend) PollCalls() int { return int(b.pollCalls.Load()) }

// HotelsCalls reports how many hotel listings were served
func (b *Backend) HotelsCalls() int { return int(b.hotelsCalls.Load()) }

func (b *Backend) wait(ctx context.Context) error {
	if b.opts.Latency <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(b.opts.Latency):
		return nil
	}
}

// StartSearch registers a new job for the country
func (b *Backend) StartSearch(ctx context.Context, countryID string) (*providers.SearchTicket, error) {
	b.startCalls.Add(1)
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	if _, ok := b.hotels[countryID]; !ok {
		return nil, &apperrors.StatusError{Code: 404}
	}

	token := uuid.NewString()
	b.mu.Lock()
	b.jobs[token] = &job{countryID: countryID}
	b.mu.Unlock()

	ticket := &providers.SearchTicket{Token: token}
	if b.opts.StartDelayMs > 0 {
		delay := b.opts.StartDelayMs
		ticket.Hint.DelayMs = &delay
	}
	return ticket, nil
}

// PollSearch advances the job and answers pending, failure or done
func (b *Backend) PollSearch(ctx context.Context, token string) (*providers.PollResult, error) {
	b.pollCalls.Add(1)
	if err := b.wait(ctx); err != nil {
		return nil, err
	}

	b.mu.Lock()
	j, ok := b.jobs[token]
	if !ok {
		b.mu.Unlock()
		return nil, &apperrors.StatusError{Code: 404}
	}
	j.polls++
	polls := j.polls
	countryID := j.countryID
	b.mu.Unlock()

	if polls <= b.opts.FailPolls {
		return nil, &apperrors.StatusError{Code: 503}
	}
	if polls-b.opts.FailPolls <= b.opts.PendingRounds {
		var hint entities.BackoffHint
		if b.opts.PendingDelayMs > 0 {
			delay := b.opts.PendingDelayMs
			hint.DelayMs = &delay
		} else {
			hint.WaitUntil = time.Now().Add(time.Second).UTC().Format(time.RFC3339)
		}
		return providers.Pending(hint), nil
	}

	b.mu.Lock()
	delete(b.jobs, token)
	b.mu.Unlock()

	return providers.Done(b.prices(countryID)), nil
}

func (b *Backend) prices(countryID string) []entities.Tour {
	index := b.hotels[countryID]
	ids := sortedHotelIDs(index)

	tours := make([]entities.Tour, 0, len(ids))
	for i, id := range ids {
		day := 1 + i%20
		tours = append(tours, entities.Tour{
			ID:        fmt.Sprintf("p%s", id),
			HotelID:   id,
			Amount:    float64(400 + 35*i),
			Currency:  "usd",
			StartDate: fmt.Sprintf("2024-06-%02d", day),
			EndDate:   fmt.Sprintf("2024-06-%02d", day+7),
		})
	}
	return tours
}

// ListCountries returns the seeded countries
func (b *Backend) ListCountries(ctx context.Context) ([]entities.Country, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	out := make([]entities.Country, len(b.countries))
	copy(out, b.countries)
	return out, nil
}

// ListCities returns every city that has a hotel
func (b *Backend) ListCities(ctx context.Context) ([]entities.City, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []entities.City
	for _, country := range b.countries {
		index := b.hotels[country.ID]
		for _, id := range sortedHotelIDs(index) {
			hotel := index[id]
			if seen[hotel.CityID] {
				continue
			}
			seen[hotel.CityID] = true
			out = append(out, entities.City{ID: hotel.CityID, Name: hotel.CityName, CountryID: hotel.CountryID})
		}
	}
	return out, nil
}

// ListHotels returns a copy of the country's hotel index
func (b *Backend) ListHotels(ctx context.Context, countryID string) (entities.HotelIndex, error) {
	b.hotelsCalls.Add(1)
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	index, ok := b.hotels[countryID]
	if !ok {
		return nil, &apperrors.StatusError{Code: 404}
	}
	out := make(entities.HotelIndex, len(index))
	for id, hotel := range index {
		out[id] = hotel
	}
	return out, nil
}

// GetHotelDetails returns deterministic services for a known hotel
func (b *Backend) GetHotelDetails(ctx context.Context, hotelID string) (*entities.HotelDetails, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	for _, failing := range b.opts.FailDetails {
		if failing == hotelID {
			return nil, &apperrors.StatusError{Code: 500}
		}
	}
	if _, ok := b.findHotel(hotelID); !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("hotel %s not found", hotelID))
	}

	n, _ := strconv.Atoi(hotelID)
	pick := func(bit int) entities.ServiceAvailability {
		if n&(1<<bit) != 0 {
			return entities.ServiceYes
		}
		return entities.ServiceNo
	}
	return &entities.HotelDetails{Services: &entities.HotelServices{
		WiFi:        entities.ServiceYes,
		Aquapark:    pick(0),
		TennisCourt: pick(1),
		Laundry:     pick(2),
		Parking:     pick(3),
	}}, nil
}

// SearchGeo matches the query against country, city and hotel names
func (b *Backend) SearchGeo(ctx context.Context, query string) ([]entities.GeoItem, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, apperrors.NewValidationError("query is required")
	}

	var out []entities.GeoItem
	seenCities := make(map[string]bool)
	for _, country := range b.countries {
		if strings.Contains(strings.ToLower(country.Name), q) {
			out = append(out, entities.GeoItem{ID: country.ID, Name: country.Name, Type: entities.GeoTypeCountry, CountryID: country.ID})
		}
		index := b.hotels[country.ID]
		for _, id := range sortedHotelIDs(index) {
			hotel := index[id]
			if !seenCities[hotel.CityID] && strings.Contains(strings.ToLower(hotel.CityName), q) {
				seenCities[hotel.CityID] = true
				out = append(out, entities.GeoItem{ID: hotel.CityID, Name: hotel.CityName, Type: entities.GeoTypeCity, CountryID: country.ID})
			}
		}
		for _, id := range sortedHotelIDs(index) {
			hotel := index[id]
			if strings.Contains(strings.ToLower(hotel.Name), q) {
				out = append(out, entities.GeoItem{ID: hotel.ID, Name: hotel.Name, Type: entities.GeoTypeHotel, CountryID: country.ID})
			}
		}
	}
	return out, nil
}

func (b *Backend) findHotel(hotelID string) (entities.HotelInfo, bool) {
	for _, index := range b.hotels {
		if hotel, ok := index[hotelID]; ok {
			return hotel, true
		}
	}
	return entities.HotelInfo{}, false
}

// seeded ids share a width, so lexical order is numeric order
func sortedHotelIDs(index entities.HotelIndex) []string {
	ids := make([]string, 0, len(index))
	for id := range index {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
