package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/toursearch/internal/domain/entities"
	"github.com/zatekoja/toursearch/internal/domain/providers"
)

// SessionDirectory is everything a session reads from the directory
type SessionDirectory interface {
	CityHotelResolver
	GeoDirectory
	HotelCatalog
}

// SessionView is what the presentation layer renders
type SessionView struct {
	Status              entities.SearchStatus    `json:"status"`
	Error               string                   `json:"error,omitempty"`
	ResultCountryID     string                   `json:"resultCountryId,omitempty"`
	Tours               []entities.TourViewModel `json:"tours"`
	IsEmptyResult       bool                     `json:"isEmptyResult"`
	IsCityFilterLoading bool                     `json:"isCityFilterLoading"`
}

// SearchSessionOptions configures the components of a session
type SearchSessionOptions struct {
	Orchestrator SearchOrchestratorOptions
	Filter       GeoFilterOptions
	Suggestions  GeoSuggestionsOptions
	Logger       *zerolog.Logger
}

// SearchSession wires suggestions, the search orchestrator and the geo filter
// into one search context
type SearchSession struct {
	id           string
	orchestrator *SearchOrchestrator
	filter       *GeoFilter
	suggestions  *GeoSuggestions
	lookup       *HotelLookup
	logger       zerolog.Logger

	mu          sync.Mutex
	subscribers map[chan SessionView]struct{}
	closed      bool
	done        chan struct{}
}

// NewSearchSession creates a session with its own orchestrator and filter
func NewSearchSession(search providers.TourSearchProvider, directory SessionDirectory, opts SearchSessionOptions) *SearchSession {
	id := uuid.NewString()
	base := log.Logger
	if opts.Logger != nil {
		base = *opts.Logger
	}
	logger := base.With().Str("session_id", id).Logger()

	if opts.Orchestrator.Logger == nil {
		opts.Orchestrator.Logger = &logger
	}
	if opts.Filter.Logger == nil {
		opts.Filter.Logger = &logger
	}
	if opts.Suggestions.Logger == nil {
		opts.Suggestions.Logger = &logger
	}

	s := &SearchSession{
		id:           id,
		orchestrator: NewSearchOrchestrator(search, opts.Orchestrator),
		filter:       NewGeoFilter(directory, opts.Filter),
		suggestions:  NewGeoSuggestions(directory, opts.Suggestions),
		lookup:       NewHotelLookup(directory, &logger),
		logger:       logger,
		subscribers:  make(map[chan SessionView]struct{}),
		done:         make(chan struct{}),
	}

	s.orchestrator.OnChange(s.filter.Update)
	s.filter.OnChange(s.publish)
	s.suggestions.OnDraftChange(s.filter.OnDraftGeoChange)
	return s
}

// ID identifies the session in logs
func (s *SearchSession) ID() string {
	return s.id
}

// Suggestions returns the session's suggestion input
func (s *SearchSession) Suggestions() *GeoSuggestions {
	return s.suggestions
}

// Filter returns the session's geo filter
func (s *SearchSession) Filter() *GeoFilter {
	return s.filter
}

// Search confirms the current geo selection for countryID and submits the
// country search
func (s *SearchSession) Search(countryID string) {
	s.logger.Info().Str("country_id", countryID).Msg("search submitted")
	s.filter.OnSearchConfirmAt(countryID, s.orchestrator.Snapshot().Version)
	s.orchestrator.Submit(countryID)
}

// SubmitSelection searches the country of the selected suggestion
func (s *SearchSession) SubmitSelection() (string, bool) {
	countryID, ok := s.suggestions.SubmitCountryID()
	if !ok {
		return "", false
	}
	s.Search(countryID)
	return countryID, true
}

// View returns the current presentation state
func (s *SearchSession) View() SessionView {
	state, result := s.filter.Snapshot()
	return buildView(state, result)
}

// Cards returns result cards for the filtered tours. Hotel listings are only
// consulted once the search succeeded.
func (s *SearchSession) Cards(ctx context.Context) []TourCard {
	state, result := s.filter.Snapshot()
	countryID := ""
	if state.Status == entities.SearchStatusSuccess {
		countryID = state.ResultCountryID
	}
	return s.lookup.Cards(ctx, countryID, result.Tours)
}

// Subscribe delivers the latest view after every change until ctx is done
// or the session closes. A slow reader only ever misses intermediate views.
func (s *SearchSession) Subscribe(ctx context.Context) <-chan SessionView {
	ch := make(chan SessionView, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch
	}
	s.subscribers[ch] = struct{}{}
	ch <- s.View()
	s.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			s.unsubscribe(ch)
		case <-s.done:
		}
	}()
	return ch
}

// Close tears the session down; pending polls and city lookups become inert
func (s *SearchSession) Close() {
	s.orchestrator.Close()
	s.filter.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.done)
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
	s.logger.Debug().Msg("session closed")
}

func (s *SearchSession) unsubscribe(ch chan SessionView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subscribers[ch]; !ok {
		return
	}
	delete(s.subscribers, ch)
	close(ch)
}

func (s *SearchSession) publish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || len(s.subscribers) == 0 {
		return
	}

	view := s.View()
	for ch := range s.subscribers {
		select {
		case ch <- view:
		default:
			// replace the unread view with the newer one
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- view:
			default:
			}
		}
	}
}

func buildView(state SearchState, result FilterResult) SessionView {
	return SessionView{
		Status:              state.Status,
		Error:               state.Error,
		ResultCountryID:     state.ResultCountryID,
		Tours:               entities.ToursToViewModels(result.Tours),
		IsEmptyResult:       result.IsEmptyResult,
		IsCityFilterLoading: result.IsCityFilterLoading,
	}
}
