package bootstrap

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/toursearch/internal/adapters/cache"
	"github.com/zatekoja/toursearch/internal/adapters/directory"
	"github.com/zatekoja/toursearch/internal/adapters/providers/mockbackend"
	"github.com/zatekoja/toursearch/internal/application/services"
	"github.com/zatekoja/toursearch/internal/domain/providers"
	"github.com/zatekoja/toursearch/internal/infrastructure/clients/redis"
	"github.com/zatekoja/toursearch/internal/infrastructure/clients/toursapi"
	"github.com/zatekoja/toursearch/internal/infrastructure/observability"
	"github.com/zatekoja/toursearch/pkg/config"
)

// Stack is the wired search core shared by every session of a process
type Stack struct {
	Search    providers.TourSearchProvider
	Directory *services.DirectoryService
	Cache     providers.CacheProvider

	cfg     *config.Config
	metrics *observability.Metrics
	closers []func() error
}

// Build wires the backend, directory caches and metrics. With useMock the
// in-memory backend replaces the HTTP client.
func Build(ctx context.Context, cfg *config.Config, metrics *observability.Metrics, useMock bool) *Stack {
	s := &Stack{cfg: cfg, metrics: metrics}

	var dirProvider providers.DirectoryProvider
	if useMock {
		backend := mockbackend.New(mockbackend.Options{PendingRounds: 2, PendingDelayMs: 500})
		s.Search, dirProvider = backend, backend
		log.Info().Msg("Using in-memory backend")
	} else {
		client := toursapi.NewClient(cfg.Backend.BaseURL, toursapi.Options{
			Timeout:           cfg.Backend.Timeout(),
			RetryAttempts:     cfg.Directory.RetryAttempts,
			RequestsPerSecond: cfg.Backend.RequestsPerSecond,
			Metrics:           metrics,
			Logger:            observability.GetLogger(),
		})
		s.Search, dirProvider = client, client
	}

	s.Cache = cache.NewMemoryAdapter()
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, using in-memory cache")
		} else {
			s.Cache = cache.NewRedisAdapter(redisClient, "toursearch:")
			s.closers = append(s.closers, redisClient.Close)
			log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Redis cache initialized")
		}
	}

	s.Directory = services.NewDirectoryService(
		directory.NewCachedAdapter(dirProvider, s.Cache, directory.Options{
			TTLSeconds: cfg.Directory.CacheTTLSeconds,
			Metrics:    metrics,
		}),
		services.DirectoryServiceOptions{
			FetchConcurrency: cfg.Directory.FetchConcurrency,
			Metrics:          metrics,
		},
	)
	return s
}

// NewSession creates a search session over the shared directory
func (s *Stack) NewSession() *services.SearchSession {
	return services.NewSearchSession(s.Search, s.Directory, services.SearchSessionOptions{
		Orchestrator: services.SearchOrchestratorOptions{
			MaxPollRetries:   s.cfg.Search.MaxPollRetries,
			DefaultPollDelay: s.cfg.Search.DefaultPollDelay(),
			RequestTimeout:   s.cfg.Backend.Timeout(),
			Metrics:          s.metrics,
		},
		Filter:      services.GeoFilterOptions{RequestTimeout: s.cfg.Backend.Timeout()},
		Suggestions: services.GeoSuggestionsOptions{FlatCityListing: s.cfg.Directory.FlatCityListing},
	})
}

// Close releases external connections
func (s *Stack) Close() {
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			log.Error().Err(err).Msg("Error closing connection")
		}
	}
}
