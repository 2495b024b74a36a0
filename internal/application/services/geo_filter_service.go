package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/toursearch/internal/domain/entities"
)

// CityHotelResolver resolves which hotels of a country belong to a city
type CityHotelResolver interface {
	HotelIDsForCity(ctx context.Context, countryID, cityID string) ([]string, error)
}

// FilterResult is the display-ready outcome of geo filtering
type FilterResult struct {
	Tours               []entities.Tour
	IsEmptyResult       bool
	IsCityFilterLoading bool
}

// ApplyGeoFilter narrows country-scoped tours to the applied selection.
// cityHotelIDs is only consulted for a city selection; nil means the city's
// hotels are not resolved yet.
func ApplyGeoFilter(status entities.SearchStatus, tours []entities.Tour, applied *entities.GeoSelection, cityHotelIDs []string) FilterResult {
	var result FilterResult

	switch {
	case applied == nil || applied.Type == entities.GeoTypeCountry:
		result.Tours = tours
	case applied.Type == entities.GeoTypeHotel:
		result.Tours = filterTours(tours, func(t entities.Tour) bool { return t.HotelID == applied.ID })
	case applied.Type == entities.GeoTypeCity:
		if cityHotelIDs == nil {
			result.IsCityFilterLoading = true
			break
		}
		allowed := make(map[string]struct{}, len(cityHotelIDs))
		for _, id := range cityHotelIDs {
			allowed[id] = struct{}{}
		}
		result.Tours = filterTours(tours, func(t entities.Tour) bool {
			_, ok := allowed[t.HotelID]
			return ok
		})
	default:
		result.Tours = tours
	}

	if result.Tours == nil {
		result.Tours = []entities.Tour{}
	}
	result.IsEmptyResult = status == entities.SearchStatusSuccess && !result.IsCityFilterLoading && len(result.Tours) == 0
	return result
}

func filterTours(tours []entities.Tour, keep func(entities.Tour) bool) []entities.Tour {
	out := make([]entities.Tour, 0, len(tours))
	for _, t := range tours {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// GeoFilterOptions configures a GeoFilter
type GeoFilterOptions struct {
	Scheduler      Scheduler
	RequestTimeout time.Duration
	Logger         *zerolog.Logger
}

// pendingGeo is a selection waiting for its country's results. A nil
// selection clears the applied filter once they arrive.
type pendingGeo struct {
	countryID string
	selection *entities.GeoSelection

	// sinceVersion is the search version seen when the selection was confirmed
	sinceVersion uint64
}

// GeoFilter holds the draft, pending and applied geo selections and resolves
// city selections to hotel ids
type GeoFilter struct {
	resolver       CityHotelResolver
	sched          Scheduler
	requestTimeout time.Duration
	logger         zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.Mutex
	search       SearchState
	draft        *entities.GeoSelection
	applied      *entities.GeoSelection
	pending      *pendingGeo
	cityHotelIDs []string
	hotelsLoadID uint64
	closed       bool
	listeners    []func()
}

// NewGeoFilter creates a filter with no selection
func NewGeoFilter(resolver CityHotelResolver, opts GeoFilterOptions) *GeoFilter {
	if opts.Scheduler == nil {
		opts.Scheduler = NewScheduler()
	}
	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &GeoFilter{
		resolver:       resolver,
		sched:          opts.Scheduler,
		requestTimeout: opts.RequestTimeout,
		logger:         logger.With().Str("component", "geo_filter").Logger(),
		ctx:            ctx,
		cancel:         cancel,
		search:         SearchState{Status: entities.SearchStatusIdle},
	}
}

// OnChange registers a listener called whenever Result may have changed
func (f *GeoFilter) OnChange(fn func()) {
	f.mu.Lock()
	f.listeners = append(f.listeners, fn)
	f.mu.Unlock()
}

// OnDraftGeoChange records what the suggestion input currently shows
func (f *GeoFilter) OnDraftGeoChange(selection *entities.GeoSelection) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = cloneSelection(selection)
}

// OnSearchConfirm picks the selection that should apply once results for
// countryID arrive: the draft if it belongs to that country, else the
// applied selection if it does, else none.
func (f *GeoFilter) OnSearchConfirm(countryID string) {
	f.OnSearchConfirmAt(countryID, 0)
}

// OnSearchConfirmAt is OnSearchConfirm for a search source whose committed
// version may be ahead of the snapshots delivered so far. Errors up to
// that version belong to earlier searches and keep the pending selection.
func (f *GeoFilter) OnSearchConfirmAt(countryID string, committed uint64) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}

	next := &pendingGeo{countryID: countryID, sinceVersion: max(f.search.Version, committed)}
	switch {
	case f.draft != nil && f.draft.CountryID == countryID:
		next.selection = cloneSelection(f.draft)
	case f.applied != nil && f.applied.CountryID == countryID:
		next.selection = cloneSelection(f.applied)
	}
	f.pending = next

	changed, resolve := f.reconcileLocked()
	listeners := f.listenersLocked(changed)
	f.mu.Unlock()

	f.launch(resolve)
	notifyAll(listeners)
}

// Update feeds a search snapshot; snapshots older than the last seen are ignored
func (f *GeoFilter) Update(state SearchState) {
	f.mu.Lock()
	if f.closed || state.Version <= f.search.Version {
		f.mu.Unlock()
		return
	}
	f.search = state
	_, resolve := f.reconcileLocked()
	listeners := f.listenersLocked(true)
	f.mu.Unlock()

	f.launch(resolve)
	notifyAll(listeners)
}

// Result returns the filtered tours for the latest search snapshot
func (f *GeoFilter) Result() FilterResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return ApplyGeoFilter(f.search.Status, f.search.Tours, f.applied, f.cityHotelIDs)
}

// Snapshot returns the last seen search state together with its filtered
// result
func (f *GeoFilter) Snapshot() (SearchState, FilterResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.search, ApplyGeoFilter(f.search.Status, f.search.Tours, f.applied, f.cityHotelIDs)
}

// Applied returns the selection currently governing the result
func (f *GeoFilter) Applied() *entities.GeoSelection {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneSelection(f.applied)
}

// Pending returns the selection awaiting its country's results and whether
// one is waiting. A waiting nil selection will clear the applied filter.
func (f *GeoFilter) Pending() (*entities.GeoSelection, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending == nil {
		return nil, false
	}
	return cloneSelection(f.pending.selection), true
}

// Close drops listeners and makes in-flight city resolutions inert
func (f *GeoFilter) Close() {
	f.mu.Lock()
	f.closed = true
	f.hotelsLoadID++
	f.listeners = nil
	f.mu.Unlock()

	f.cancel()
}

// reconcileLocked promotes or drops the pending selection. It reports
// whether anything changed and returns the city resolution to start, if any,
// once f.mu is released.
func (f *GeoFilter) reconcileLocked() (bool, func()) {
	p := f.pending
	if p == nil {
		return false, nil
	}

	switch f.search.Status {
	case entities.SearchStatusSuccess:
		if f.search.ResultCountryID != p.countryID {
			return false, nil
		}
		f.pending = nil
		return true, f.applyLocked(p.selection)
	case entities.SearchStatusError:
		// an error that predates the confirmation belongs to another search
		if f.search.Version <= p.sinceVersion {
			return false, nil
		}
		f.pending = nil
		return true, nil
	}
	return false, nil
}

func (f *GeoFilter) applyLocked(selection *entities.GeoSelection) func() {
	if sameSelection(f.applied, selection) {
		return nil
	}
	f.applied = selection
	f.cityHotelIDs = nil
	f.hotelsLoadID++

	if selection == nil || selection.Type != entities.GeoTypeCity {
		return nil
	}

	loadID := f.hotelsLoadID
	countryID, cityID := selection.CountryID, selection.ID
	return func() { f.resolveCity(loadID, countryID, cityID) }
}

func (f *GeoFilter) launch(task func()) {
	if task != nil {
		f.sched.Go(task)
	}
}

func (f *GeoFilter) resolveCity(loadID uint64, countryID, cityID string) {
	ctx, cancel := f.requestContext()
	ids, err := f.resolver.HotelIDsForCity(ctx, countryID, cityID)
	cancel()

	f.mu.Lock()
	if f.closed || f.hotelsLoadID != loadID {
		f.mu.Unlock()
		return
	}
	if err != nil {
		f.logger.Warn().Err(err).Str("country_id", countryID).Str("city_id", cityID).Msg("failed to resolve city hotels")
		ids = nil
	}
	if ids == nil {
		ids = []string{}
	}
	f.cityHotelIDs = ids
	listeners := f.listenersLocked(true)
	f.mu.Unlock()

	notifyAll(listeners)
}

func (f *GeoFilter) listenersLocked(changed bool) []func() {
	if !changed || len(f.listeners) == 0 {
		return nil
	}
	listeners := make([]func(), len(f.listeners))
	copy(listeners, f.listeners)
	return listeners
}

func (f *GeoFilter) requestContext() (context.Context, context.CancelFunc) {
	if f.requestTimeout > 0 {
		return context.WithTimeout(f.ctx, f.requestTimeout)
	}
	return context.WithCancel(f.ctx)
}

func notifyAll(listeners []func()) {
	for _, fn := range listeners {
		fn()
	}
}

func cloneSelection(s *entities.GeoSelection) *entities.GeoSelection {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func sameSelection(a, b *entities.GeoSelection) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
