package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/zatekoja/toursearch/internal/domain/entities"
	"github.com/zatekoja/toursearch/internal/domain/providers"
	"github.com/zatekoja/toursearch/internal/infrastructure/observability"
)

const (
	defaultFetchConcurrency = 8
	detailsBatchWait        = 2 * time.Millisecond
)

// DirectoryServiceOptions configures a DirectoryService
type DirectoryServiceOptions struct {
	// FetchConcurrency bounds parallel backend calls of one fan-out
	FetchConcurrency int

	Metrics *observability.Metrics
	Logger  *zerolog.Logger
}

// DirectoryService memoizes the backend directory for the process lifetime.
// Concurrent identical fetches share one backend call; failed listings are
// not memoized, failed hotel details are memoized as EmptyHotelDetails.
type DirectoryService struct {
	provider    providers.DirectoryProvider
	group       singleflight.Group
	details     *dataloader.Loader[string, *entities.HotelDetails]
	concurrency int
	metrics     *observability.Metrics
	logger      zerolog.Logger

	mu        sync.RWMutex
	countries []entities.Country
	cities    []entities.City
	hotels    map[string]entities.HotelIndex
	allHotels []entities.HotelInfo
}

// NewDirectoryService creates an empty directory cache over provider
func NewDirectoryService(provider providers.DirectoryProvider, opts DirectoryServiceOptions) *DirectoryService {
	if opts.FetchConcurrency <= 0 {
		opts.FetchConcurrency = defaultFetchConcurrency
	}
	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	s := &DirectoryService{
		provider:    provider,
		concurrency: opts.FetchConcurrency,
		metrics:     opts.Metrics,
		logger:      logger.With().Str("component", "directory").Logger(),
		hotels:      make(map[string]entities.HotelIndex),
	}
	s.details = dataloader.NewBatchedLoader(s.loadDetails,
		dataloader.WithWait[string, *entities.HotelDetails](detailsBatchWait),
		dataloader.WithBatchCapacity[string, *entities.HotelDetails](opts.FetchConcurrency*4),
	)
	return s
}

// Countries returns all countries
func (s *DirectoryService) Countries(ctx context.Context) ([]entities.Country, error) {
	s.mu.RLock()
	cached := s.countries
	s.mu.RUnlock()
	if cached != nil {
		observability.RecordCacheHit(ctx, s.metrics, "countries")
		return cached, nil
	}
	observability.RecordCacheMiss(ctx, s.metrics, "countries")

	v, err := s.share(ctx, "countries", func(ctx context.Context) (interface{}, error) {
		countries, err := s.provider.ListCountries(ctx)
		if err != nil {
			return nil, err
		}
		if countries == nil {
			countries = []entities.Country{}
		}
		s.mu.Lock()
		s.countries = countries
		s.mu.Unlock()
		return countries, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]entities.Country), nil
}

// Cities returns the backend's flat city listing
func (s *DirectoryService) Cities(ctx context.Context) ([]entities.City, error) {
	s.mu.RLock()
	cached := s.cities
	s.mu.RUnlock()
	if cached != nil {
		observability.RecordCacheHit(ctx, s.metrics, "cities")
		return cached, nil
	}
	observability.RecordCacheMiss(ctx, s.metrics, "cities")

	v, err := s.share(ctx, "cities", func(ctx context.Context) (interface{}, error) {
		cities, err := s.provider.ListCities(ctx)
		if err != nil {
			return nil, err
		}
		if cities == nil {
			cities = []entities.City{}
		}
		s.mu.Lock()
		s.cities = cities
		s.mu.Unlock()
		return cities, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]entities.City), nil
}

// HotelsIndex returns the hotels of a country keyed by hotel id. The
// returned index is shared and must not be modified.
func (s *DirectoryService) HotelsIndex(ctx context.Context, countryID string) (entities.HotelIndex, error) {
	s.mu.RLock()
	cached, ok := s.hotels[countryID]
	s.mu.RUnlock()
	if ok {
		observability.RecordCacheHit(ctx, s.metrics, "hotels")
		return cached, nil
	}
	observability.RecordCacheMiss(ctx, s.metrics, "hotels")

	v, err := s.share(ctx, "hotels:"+countryID, func(ctx context.Context) (interface{}, error) {
		index, err := s.provider.ListHotels(ctx, countryID)
		if err != nil {
			return nil, err
		}
		if index == nil {
			index = entities.HotelIndex{}
		}
		s.mu.Lock()
		// an entry, once stored, is never replaced
		if existing, ok := s.hotels[countryID]; ok {
			index = existing
		} else {
			s.hotels[countryID] = index
		}
		s.mu.Unlock()
		return index, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(entities.HotelIndex), nil
}

// HotelIDsForCity returns the ids of the country's hotels located in cityID,
// in natural id order
func (s *DirectoryService) HotelIDsForCity(ctx context.Context, countryID, cityID string) ([]string, error) {
	index, err := s.HotelsIndex(ctx, countryID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0)
	for id, hotel := range index {
		if hotel.CityID == cityID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return entities.IDLess(ids[i], ids[j]) })
	return ids, nil
}

// HotelDetails returns a hotel's details, EmptyHotelDetails when they could
// not be fetched. It never fails.
func (s *DirectoryService) HotelDetails(ctx context.Context, hotelID string) *entities.HotelDetails {
	details, err := s.details.Load(ctx, hotelID)()
	if err != nil || details == nil {
		return entities.EmptyHotelDetails
	}
	return details
}

// HotelDetailsMany loads details for every id, batching the backend calls
func (s *DirectoryService) HotelDetailsMany(ctx context.Context, hotelIDs []string) map[string]*entities.HotelDetails {
	unique := dedupe(hotelIDs)
	out := make(map[string]*entities.HotelDetails, len(unique))
	if len(unique) == 0 {
		return out
	}

	values, errs := s.details.LoadMany(ctx, unique)()
	for i, id := range unique {
		var details *entities.HotelDetails
		if i < len(values) {
			details = values[i]
		}
		if details == nil || (i < len(errs) && errs[i] != nil) {
			details = entities.EmptyHotelDetails
		}
		out[id] = details
	}
	return out
}

// loadDetails is the batch function of the details loader. Each failure
// resolves to EmptyHotelDetails so the loader memoizes it.
func (s *DirectoryService) loadDetails(ctx context.Context, keys []string) []*dataloader.Result[*entities.HotelDetails] {
	// the batch outlives whichever caller happened to trigger it
	ctx = context.WithoutCancel(ctx)

	results := make([]*dataloader.Result[*entities.HotelDetails], len(keys))
	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for i, key := range keys {
		g.Go(func() error {
			details, err := s.provider.GetHotelDetails(ctx, key)
			if err != nil || details == nil {
				if err != nil {
					s.logger.Warn().Err(err).Str("hotel_id", key).Msg("hotel details unavailable")
				}
				details = entities.EmptyHotelDetails
			}
			results[i] = &dataloader.Result[*entities.HotelDetails]{Data: details}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// AllHotels returns every hotel of every country, ordered by country then
// hotel id. The aggregate is computed once; concurrent callers share the
// in-flight computation and a failure is retried by the next call.
func (s *DirectoryService) AllHotels(ctx context.Context) ([]entities.HotelInfo, error) {
	s.mu.RLock()
	cached := s.allHotels
	s.mu.RUnlock()
	if cached != nil {
		observability.RecordCacheHit(ctx, s.metrics, "all_hotels")
		return cached, nil
	}
	observability.RecordCacheMiss(ctx, s.metrics, "all_hotels")

	v, err := s.share(ctx, "all_hotels", func(ctx context.Context) (interface{}, error) {
		countries, err := s.Countries(ctx)
		if err != nil {
			return nil, err
		}

		chunks := make([][]entities.HotelInfo, len(countries))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.concurrency)
		for i, country := range countries {
			g.Go(func() error {
				index, err := s.HotelsIndex(gctx, country.ID)
				if err != nil {
					return err
				}
				chunks[i] = sortedHotels(index)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		all := make([]entities.HotelInfo, 0)
		for _, chunk := range chunks {
			all = append(all, chunk...)
		}
		s.mu.Lock()
		s.allHotels = all
		s.mu.Unlock()
		return all, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]entities.HotelInfo), nil
}

// AllCities derives the city list from AllHotels, the first hotel seen for
// a city names it
func (s *DirectoryService) AllCities(ctx context.Context) ([]entities.City, error) {
	hotels, err := s.AllHotels(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	cities := make([]entities.City, 0)
	for _, hotel := range hotels {
		if _, ok := seen[hotel.CityID]; ok {
			continue
		}
		seen[hotel.CityID] = struct{}{}
		cities = append(cities, entities.City{ID: hotel.CityID, Name: hotel.CityName, CountryID: hotel.CountryID})
	}
	return cities, nil
}

// SearchGeo runs a free-text geo search; results are not memoized
func (s *DirectoryService) SearchGeo(ctx context.Context, query string) ([]entities.GeoItem, error) {
	return s.provider.SearchGeo(ctx, query)
}

// share collapses concurrent calls for key into one. The shared call is
// detached from the caller's cancellation; a cancelled caller stops waiting.
func (s *DirectoryService) share(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		return fn(detached)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

func sortedHotels(index entities.HotelIndex) []entities.HotelInfo {
	out := make([]entities.HotelInfo, 0, len(index))
	for _, hotel := range index {
		out = append(out, hotel)
	}
	sort.Slice(out, func(i, j int) bool { return entities.IDLess(out[i].ID, out[j].ID) })
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
