package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/toursearch/internal/application/services"
	"github.com/zatekoja/toursearch/internal/bootstrap"
	"github.com/zatekoja/toursearch/internal/domain/entities"
	"github.com/zatekoja/toursearch/internal/infrastructure/observability"
	"github.com/zatekoja/toursearch/pkg/config"
)

type result struct {
	SessionID   string               `json:"sessionId"`
	Suggestions []entities.GeoItem   `json:"suggestions,omitempty"`
	View        services.SessionView `json:"view"`
	Cards       []services.TourCard  `json:"cards"`
}

func main() {
	var (
		countryID string
		geo       string
		query     string
		useMock   bool
		timeout   time.Duration
	)

	flag.StringVar(&countryID, "country", "", "Country ID to search")
	flag.StringVar(&geo, "geo", "", "Geo selection as type:id, e.g. city:712")
	flag.StringVar(&query, "query", "", "Free text typed into the destination input")
	flag.BoolVar(&useMock, "mock", false, "Use the in-memory backend")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "How long to wait for results")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	stack := bootstrap.Build(ctx, cfg, metrics, useMock)
	defer stack.Close()

	session := stack.NewSession()
	defer session.Close()

	out := result{SessionID: session.ID()}
	suggestions := session.Suggestions()
	if query != "" {
		suggestions.Type(ctx, query)
		out.Suggestions = suggestions.Items()
	}

	if geo != "" {
		item, err := pickGeo(ctx, suggestions, geo)
		if err != nil {
			log.Fatal().Err(err).Str("geo", geo).Msg("Invalid geo selection")
		}
		suggestions.Select(&item)
		if countryID != "" && countryID != item.CountryID {
			log.Warn().Str("country_id", countryID).Str("geo_country_id", item.CountryID).Msg("Geo selection overrides -country")
		}
		countryID, _ = suggestions.SubmitCountryID()
	}
	if countryID == "" {
		if query != "" {
			printJSON(out)
			return
		}
		fmt.Fprintln(os.Stderr, "Nothing to search: pass -country or -geo")
		flag.Usage()
		os.Exit(2)
	}

	session.Search(countryID)

	waitCtx, waitCancel := context.WithTimeout(ctx, timeout)
	defer waitCancel()
	view, err := await(waitCtx, session)
	if err != nil {
		log.Fatal().Err(err).Str("country_id", countryID).Msg("Search did not finish")
	}
	out.View = view
	out.Cards = session.Cards(ctx)
	printJSON(out)

	if view.Status == entities.SearchStatusError {
		os.Exit(1)
	}
}

// pickGeo finds the item named by a type:id argument, drilling into the list of
// that kind unless the current suggestions already hold it
func pickGeo(ctx context.Context, suggestions *services.GeoSuggestions, arg string) (entities.GeoItem, error) {
	rawType, id, ok := strings.Cut(arg, ":")
	geoType := entities.GeoType(rawType)
	if !ok || id == "" || !geoType.Valid() {
		return entities.GeoItem{}, fmt.Errorf("expected country:<id>, city:<id> or hotel:<id>, got %q", arg)
	}

	find := func() (entities.GeoItem, bool) {
		for _, item := range suggestions.Items() {
			if item.Type == geoType && item.ID == id {
				return item, true
			}
		}
		return entities.GeoItem{}, false
	}
	if item, ok := find(); ok {
		return item, nil
	}

	switch geoType {
	case entities.GeoTypeCountry:
		suggestions.LoadCountries(ctx)
	case entities.GeoTypeCity:
		suggestions.LoadCitiesAll(ctx)
	case entities.GeoTypeHotel:
		suggestions.LoadHotelsAll(ctx)
	}
	if item, ok := find(); ok {
		return item, nil
	}
	return entities.GeoItem{}, fmt.Errorf("%s %s not found", geoType, id)
}

// await blocks until the session settles on a final view
func await(ctx context.Context, session *services.SearchSession) (services.SessionView, error) {
	views := session.Subscribe(ctx)
	for {
		select {
		case <-ctx.Done():
			return services.SessionView{}, ctx.Err()
		case view, ok := <-views:
			if !ok {
				return services.SessionView{}, fmt.Errorf("session closed")
			}
			log.Debug().
				Str("status", string(view.Status)).
				Int("tours", len(view.Tours)).
				Bool("city_filter_loading", view.IsCityFilterLoading).
				Msg("Search progress")
			switch view.Status {
			case entities.SearchStatusError:
				return view, nil
			case entities.SearchStatusSuccess:
				if !view.IsCityFilterLoading {
					return view, nil
				}
			}
		}
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to write result")
	}
}
