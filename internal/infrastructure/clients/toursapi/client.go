package toursapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"

	"github.com/zatekoja/toursearch/internal/domain/entities"
	"github.com/zatekoja/toursearch/internal/domain/providers"
	"github.com/zatekoja/toursearch/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/toursearch/pkg/errors"
	"github.com/zatekoja/toursearch/pkg/retry"
)

// statusTooEarly is the answer of a poll whose job is not ready yet
const statusTooEarly = http.StatusTooEarly

// HTTPClient talks to the pricing backend over its JSON API
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	retry      retry.Config
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     zerolog.Logger
}

// Options configures an HTTPClient
type Options struct {
	Timeout time.Duration

	// RetryAttempts bounds directory reads; search calls are never retried here
	RetryAttempts int

	// RequestsPerSecond throttles outgoing requests, zero disables it
	RequestsPerSecond int

	Metrics    *observability.Metrics
	Logger     *zerolog.Logger
	HTTPClient *http.Client
}

var (
	_ providers.TourSearchProvider = (*HTTPClient)(nil)
	_ providers.DirectoryProvider  = (*HTTPClient)(nil)
)

// NewClient creates a pricing backend client rooted at baseURL
func NewClient(baseURL string, opts Options) *HTTPClient {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	logger = logger.With().Str("component", "toursapi").Logger()

	retryCfg := retry.DefaultConfig()
	if opts.RetryAttempts > 0 {
		retryCfg.MaxAttempts = opts.RetryAttempts
	}
	retryCfg.Retryable = isRetryable
	retryCfg.OnRetry = func(attempt int, err error, nextDelay time.Duration) {
		logger.Warn().Err(err).Int("attempt", attempt).Dur("next_delay", nextDelay).Msg("directory request failed, retrying")
	}

	c := &HTTPClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		retry:      retryCfg,
		metrics:    opts.Metrics,
		logger:     logger,
	}
	if opts.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.RequestsPerSecond)
	}
	return c
}

// StartSearch submits a price search for a country
func (c *HTTPClient) StartSearch(ctx context.Context, countryID string) (*providers.SearchTicket, error) {
	query := url.Values{}
	query.Set("countryID", countryID)

	body, err := c.do(ctx, "start_search", http.MethodPost, "/prices/search", query)
	if err != nil {
		return nil, err
	}

	var out startSearchDTO
	if err := decode(body, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, apperrors.NewExternalError("start search response has no token", nil)
	}

	return &providers.SearchTicket{
		Token: out.Token,
		Hint:  entities.BackoffHint{DelayMs: out.Delay, WaitUntil: out.WaitUntil},
	}, nil
}

// PollSearch asks for the state of a submitted search. A 425 answer is a
// pending result, never an error.
func (c *HTTPClient) PollSearch(ctx context.Context, token string) (*providers.PollResult, error) {
	body, err := c.do(ctx, "poll_search", http.MethodGet, "/prices/search/"+url.PathEscape(token), nil)
	if err != nil {
		var statusErr *apperrors.StatusError
		if errors.As(err, &statusErr) && statusErr.Code == statusTooEarly {
			var pending pollDTO
			// the hint is optional, an unreadable body just means none
			_ = json.Unmarshal(statusErr.Body, &pending)
			return providers.Pending(pending.hint()), nil
		}
		return nil, err
	}

	var out pollDTO
	if err := decode(body, &out); err != nil {
		return nil, err
	}
	return classifyPoll(out), nil
}

// classifyPoll treats every readable body that is not pending as finished;
// a missing prices map means zero results
func classifyPoll(out pollDTO) *providers.PollResult {
	if out.Status == "pending" {
		return providers.Pending(out.hint())
	}
	tours := make([]entities.Tour, 0, len(out.Prices))
	for _, key := range sortedKeys(out.Prices) {
		tours = append(tours, out.Prices[key].toEntity(key))
	}
	return providers.Done(tours)
}

// ListCountries returns all countries
func (c *HTTPClient) ListCountries(ctx context.Context) ([]entities.Country, error) {
	var out map[string]countryDTO
	if err := c.getJSON(ctx, "list_countries", "/countries", nil, &out); err != nil {
		return nil, err
	}

	countries := make([]entities.Country, 0, len(out))
	for _, key := range sortedKeys(out) {
		countries = append(countries, out[key].toEntity(key))
	}
	return countries, nil
}

// ListCities returns the flat city listing
func (c *HTTPClient) ListCities(ctx context.Context) ([]entities.City, error) {
	var out map[string]cityDTO
	if err := c.getJSON(ctx, "list_cities", "/cities", nil, &out); err != nil {
		return nil, err
	}

	cities := make([]entities.City, 0, len(out))
	for _, key := range sortedKeys(out) {
		cities = append(cities, out[key].toEntity(key))
	}
	return cities, nil
}

// ListHotels returns the hotels of a country keyed by hotel id
func (c *HTTPClient) ListHotels(ctx context.Context, countryID string) (entities.HotelIndex, error) {
	var out map[string]hotelDTO
	path := "/countries/" + url.PathEscape(countryID) + "/hotels"
	if err := c.getJSON(ctx, "list_hotels", path, nil, &out); err != nil {
		return nil, err
	}

	index := make(entities.HotelIndex, len(out))
	for key, dto := range out {
		hotel := dto.toEntity(key)
		index[hotel.ID] = hotel
	}
	return index, nil
}

// GetHotelDetails returns the detail record of a hotel
func (c *HTTPClient) GetHotelDetails(ctx context.Context, hotelID string) (*entities.HotelDetails, error) {
	out := &entities.HotelDetails{}
	if err := c.getJSON(ctx, "get_hotel_details", "/hotels/"+url.PathEscape(hotelID), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchGeo runs a free-text geo search
func (c *HTTPClient) SearchGeo(ctx context.Context, query string) ([]entities.GeoItem, error) {
	params := url.Values{}
	params.Set("q", query)

	var out map[string]geoDTO
	if err := c.getJSON(ctx, "search_geo", "/geo/search", params, &out); err != nil {
		return nil, err
	}

	items := make([]entities.GeoItem, 0, len(out))
	for _, key := range sortedKeys(out) {
		item := out[key].toEntity(key)
		if !item.Type.Valid() {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// getJSON performs a retried GET and decodes its body into out
func (c *HTTPClient) getJSON(ctx context.Context, operation, path string, query url.Values, out interface{}) error {
	return retry.Do(ctx, c.retry, func(ctx context.Context) error {
		body, err := c.do(ctx, operation, http.MethodGet, path, query)
		if err != nil {
			return err
		}
		return decode(body, out)
	})
}

func (c *HTTPClient) do(ctx context.Context, operation, method, path string, query url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	ctx, span := observability.StartSpan(ctx, "toursapi."+operation,
		attribute.String("http.method", method),
		attribute.String("http.route", path),
	)
	defer span.End()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		observability.RecordError(span, err)
		span.SetStatus(codes.Error, err.Error())
		observability.RecordBackendRequest(ctx, c.metrics, operation, 0, time.Since(start))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	observability.RecordBackendRequest(ctx, c.metrics, operation, resp.StatusCode, time.Since(start))
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if err != nil {
		observability.RecordError(span, err)
		return nil, fmt.Errorf("failed to read %s response: %w", operation, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &apperrors.StatusError{Code: resp.StatusCode, Body: body}
		if resp.StatusCode != statusTooEarly {
			span.SetStatus(codes.Error, statusErr.Error())
		}
		return nil, statusErr
	}

	return body, nil
}

func decode(body []byte, out interface{}) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return apperrors.NewExternalError("empty response body", nil)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.NewExternalError("malformed response body", err)
	}
	return nil
}

// isRetryable retries transport failures and temporary statuses, never
// cancellations or bodies that failed to decode
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *apperrors.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}
	var appErr *apperrors.AppError
	return !errors.As(err, &appErr)
}
