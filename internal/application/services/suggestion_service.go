package services

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/toursearch/internal/domain/entities"
)

// GeoDirectory is the directory surface the suggestion list reads from
type GeoDirectory interface {
	Countries(ctx context.Context) ([]entities.Country, error)
	Cities(ctx context.Context) ([]entities.City, error)
	AllHotels(ctx context.Context) ([]entities.HotelInfo, error)
	AllCities(ctx context.Context) ([]entities.City, error)
	SearchGeo(ctx context.Context, query string) ([]entities.GeoItem, error)
}

// GeoSuggestionsOptions configures GeoSuggestions
type GeoSuggestionsOptions struct {
	// FlatCityListing lists cities from the backend's city endpoint instead
	// of deriving them from every country's hotels
	FlatCityListing bool

	Logger *zerolog.Logger
}

// SuggestionState is a snapshot of the suggestion input
type SuggestionState struct {
	Items      []entities.GeoItem `json:"items"`
	InputValue string             `json:"inputValue"`
	Selected   *entities.GeoItem  `json:"selected,omitempty"`
}

// GeoSuggestions turns typed text and drill-down picks into selectable geo
// items. Loads may overlap; only the latest one started is committed.
type GeoSuggestions struct {
	dir        GeoDirectory
	flatCities bool
	logger     zerolog.Logger

	mu             sync.Mutex
	items          []entities.GeoItem
	input          string
	selected       *entities.GeoItem
	loadID         uint64
	draftListeners []func(*entities.GeoSelection)
}

// NewGeoSuggestions creates an empty suggestion list
func NewGeoSuggestions(dir GeoDirectory, opts GeoSuggestionsOptions) *GeoSuggestions {
	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &GeoSuggestions{
		dir:        dir,
		flatCities: opts.FlatCityListing,
		logger:     logger.With().Str("component", "geo_suggestions").Logger(),
		items:      []entities.GeoItem{},
	}
}

// OnDraftChange registers a listener for the selection the input reports;
// nil means nothing usable is selected
func (g *GeoSuggestions) OnDraftChange(fn func(*entities.GeoSelection)) {
	g.mu.Lock()
	g.draftListeners = append(g.draftListeners, fn)
	g.mu.Unlock()
}

// State returns the current items, input and selection
func (g *GeoSuggestions) State() SuggestionState {
	g.mu.Lock()
	defer g.mu.Unlock()

	state := SuggestionState{Items: g.items, InputValue: g.input}
	if g.selected != nil {
		item := *g.selected
		state.Selected = &item
	}
	return state
}

// Items returns the current suggestion list
func (g *GeoSuggestions) Items() []entities.GeoItem {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.items
}

// LoadCountries lists every country
func (g *GeoSuggestions) LoadCountries(ctx context.Context) {
	loadID := g.begin()
	countries, err := g.dir.Countries(ctx)
	if err != nil {
		g.logger.Warn().Err(err).Msg("failed to load countries")
		g.commit(loadID, nil)
		return
	}

	items := make([]entities.GeoItem, 0, len(countries))
	for _, c := range countries {
		items = append(items, entities.GeoItem{ID: c.ID, Name: c.Name, Type: entities.GeoTypeCountry, CountryID: c.ID})
	}
	g.commit(loadID, items)
}

// Search lists the matches of query, or every country for an empty query
func (g *GeoSuggestions) Search(ctx context.Context, query string) {
	if query == "" {
		g.LoadCountries(ctx)
		return
	}

	loadID := g.begin()
	found, err := g.dir.SearchGeo(ctx, query)
	if err != nil {
		g.logger.Warn().Err(err).Str("query", query).Msg("geo search failed")
		g.commit(loadID, nil)
		return
	}

	items := make([]entities.GeoItem, 0, len(found))
	for _, item := range found {
		if item.Type == entities.GeoTypeCountry {
			item.CountryID = item.ID
		}
		items = append(items, item)
	}
	g.commit(loadID, items)
}

// LoadCitiesAll lists cities across every country
func (g *GeoSuggestions) LoadCitiesAll(ctx context.Context) {
	loadID := g.begin()

	var (
		cities []entities.City
		err    error
	)
	if g.flatCities {
		cities, err = g.dir.Cities(ctx)
	} else {
		cities, err = g.dir.AllCities(ctx)
	}
	if err != nil {
		g.logger.Warn().Err(err).Msg("failed to load cities")
		g.commit(loadID, nil)
		return
	}

	items := make([]entities.GeoItem, 0, len(cities))
	for _, c := range cities {
		items = append(items, entities.GeoItem{ID: c.ID, Name: c.Name, Type: entities.GeoTypeCity, CountryID: c.CountryID})
	}
	g.commit(loadID, items)
}

// LoadHotelsAll lists hotels across every country
func (g *GeoSuggestions) LoadHotelsAll(ctx context.Context) {
	loadID := g.begin()
	hotels, err := g.dir.AllHotels(ctx)
	if err != nil {
		g.logger.Warn().Err(err).Msg("failed to load hotels")
		g.commit(loadID, nil)
		return
	}

	items := make([]entities.GeoItem, 0, len(hotels))
	for _, h := range hotels {
		items = append(items, entities.GeoItem{ID: h.ID, Name: h.Name, Type: entities.GeoTypeHotel, CountryID: h.CountryID})
	}
	g.commit(loadID, items)
}

// Open refreshes the list when the suggestion menu opens, drilling into
// the kind of the current selection
func (g *GeoSuggestions) Open(ctx context.Context) {
	g.mu.Lock()
	input := g.input
	var selectedType entities.GeoType
	if g.selected != nil {
		selectedType = g.selected.Type
	}
	g.mu.Unlock()

	switch {
	case input == "":
		g.LoadCountries(ctx)
	case selectedType == entities.GeoTypeCountry:
		g.LoadCountries(ctx)
	case selectedType == entities.GeoTypeCity:
		g.LoadCitiesAll(ctx)
	case selectedType == entities.GeoTypeHotel:
		g.LoadHotelsAll(ctx)
	default:
		g.Search(ctx, input)
	}
}

// Type replaces the input text, drops the selection and searches
func (g *GeoSuggestions) Type(ctx context.Context, value string) {
	g.mu.Lock()
	g.input = value
	g.selected = nil
	listeners := g.draftListenersLocked()
	g.mu.Unlock()

	notifyDraft(listeners, nil)
	g.Search(ctx, value)
}

// Select picks an item, or clears the selection for nil
func (g *GeoSuggestions) Select(item *entities.GeoItem) {
	var draft *entities.GeoSelection

	g.mu.Lock()
	if item == nil {
		g.selected = nil
	} else {
		picked := *item
		g.selected = &picked
		g.input = picked.Name
		draft = picked.Selection()
	}
	listeners := g.draftListenersLocked()
	g.mu.Unlock()

	notifyDraft(listeners, draft)
}

// SubmitCountryID returns the country a search should run for
func (g *GeoSuggestions) SubmitCountryID() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.selected == nil || g.selected.CountryID == "" {
		return "", false
	}
	return g.selected.CountryID, true
}

func (g *GeoSuggestions) begin() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.loadID++
	return g.loadID
}

func (g *GeoSuggestions) commit(loadID uint64, items []entities.GeoItem) {
	if items == nil {
		items = []entities.GeoItem{}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.loadID != loadID {
		return
	}
	g.items = items
}

func (g *GeoSuggestions) draftListenersLocked() []func(*entities.GeoSelection) {
	listeners := make([]func(*entities.GeoSelection), len(g.draftListeners))
	copy(listeners, g.draftListeners)
	return listeners
}

func notifyDraft(listeners []func(*entities.GeoSelection), draft *entities.GeoSelection) {
	for _, fn := range listeners {
		if draft == nil {
			fn(nil)
			continue
		}
		d := *draft
		fn(&d)
	}
}
