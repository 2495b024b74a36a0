package toursapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/toursearch/internal/domain/entities"
	"github.com/zatekoja/toursearch/internal/domain/providers"
	apperrors "github.com/zatekoja/toursearch/pkg/errors"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/", Options{Timeout: 2 * time.Second, RetryAttempts: 2})
}

func TestStartSearch(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/prices/search", r.URL.Path)
		assert.Equal(t, "UA", r.URL.Query().Get("countryID"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`{"token":"t1","delay":500}`))
	})

	ticket, err := client.StartSearch(context.Background(), "UA")
	require.NoError(t, err)
	assert.Equal(t, "t1", ticket.Token)
	require.NotNil(t, ticket.Hint.DelayMs)
	assert.Equal(t, 500.0, *ticket.Hint.DelayMs)
}

func TestStartSearch_MissingToken(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"delay":500}`))
	})

	_, err := client.StartSearch(context.Background(), "UA")
	require.Error(t, err)
}

func TestStartSearch_StatusError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.StartSearch(context.Background(), "UA")
	require.Error(t, err)
	code, ok := apperrors.StatusCode(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "HTTP 503", apperrors.UserMessage(err))
}

func TestPollSearch(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantState providers.PollState
		wantTours []entities.Tour
		wantDelay *float64
		wantErr   bool
	}{
		{
			name:      "pending with delay",
			status:    http.StatusOK,
			body:      `{"status":"pending","delay":300}`,
			wantState: providers.PollPending,
			wantDelay: floatPtr(300),
		},
		{
			name:      "too early carries pending body",
			status:    http.StatusTooEarly,
			body:      `{"code":425,"error":true,"message":"not ready","delay":700}`,
			wantState: providers.PollPending,
			wantDelay: floatPtr(700),
		},
		{
			name:      "too early with unreadable body",
			status:    http.StatusTooEarly,
			body:      `not json`,
			wantState: providers.PollPending,
		},
		{
			name:      "done with numeric hotel id",
			status:    http.StatusOK,
			body:      `{"status":"done","prices":{"p1":{"id":"p1","amount":500,"currency":"usd","startDate":"2024-06-01","endDate":"2024-06-08","hotelID":42}}}`,
			wantState: providers.PollDone,
			wantTours: []entities.Tour{{ID: "p1", HotelID: "42", Amount: 500, Currency: "usd", StartDate: "2024-06-01", EndDate: "2024-06-08"}},
		},
		{
			name:      "prices without status",
			status:    http.StatusOK,
			body:      `{"prices":{}}`,
			wantState: providers.PollDone,
			wantTours: []entities.Tour{},
		},
		{
			name:      "unknown status without prices",
			status:    http.StatusOK,
			body:      `{"status":"weird"}`,
			wantState: providers.PollDone,
			wantTours: []entities.Tour{},
		},
		{
			name:      "empty object",
			status:    http.StatusOK,
			body:      `{}`,
			wantState: providers.PollDone,
			wantTours: []entities.Tour{},
		},
		{
			name:    "malformed body",
			status:  http.StatusOK,
			body:    `{"status":`,
			wantErr: true,
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `{}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/prices/search/t1", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			result, err := client.PollSearch(context.Background(), "t1")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantState, result.State)
			assert.Equal(t, tt.wantDelay, result.Hint.DelayMs)
			if tt.wantState == providers.PollDone {
				assert.Equal(t, tt.wantTours, result.Tours)
			}
		})
	}
}

func TestPollSearch_IsNotRetried(t *testing.T) {
	var calls int32
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.PollSearch(context.Background(), "t1")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestListCountries_SortedByID(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/countries", r.URL.Path)
		_, _ = w.Write([]byte(`{"115":{"id":"115","name":"Turkey"},"43":{"id":43,"name":"Egypt"},"7":{"id":"7","name":"Greece"}}`))
	})

	countries, err := client.ListCountries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []entities.Country{
		{ID: "7", Name: "Greece"},
		{ID: "43", Name: "Egypt"},
		{ID: "115", Name: "Turkey"},
	}, countries)
}

func TestListHotels(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/countries/43/hotels", r.URL.Path)
		_, _ = w.Write([]byte(`{"7953":{"id":7953,"name":"Marlin Inn","img":"x.jpg","cityId":712,"cityName":"Hurghada","countryId":"43","countryName":"Egypt"}}`))
	})

	index, err := client.ListHotels(context.Background(), "43")
	require.NoError(t, err)
	require.Contains(t, index, "7953")
	assert.Equal(t, entities.HotelInfo{
		ID:          "7953",
		Name:        "Marlin Inn",
		Img:         "x.jpg",
		CityID:      "712",
		CityName:    "Hurghada",
		CountryID:   "43",
		CountryName: "Egypt",
	}, index["7953"])
}

func TestListHotels_RetriesTemporaryFailure(t *testing.T) {
	var calls int32
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	})

	index, err := client.ListHotels(context.Background(), "43")
	require.NoError(t, err)
	assert.Empty(t, index)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestListHotels_NotFoundIsNotRetried(t *testing.T) {
	var calls int32
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.ListHotels(context.Background(), "404")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetHotelDetails(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/hotels/7953", r.URL.Path)
		_, _ = w.Write([]byte(`{"services":{"wifi":"yes","aquapark":"none","tennis_court":"no","laundry":"yes","parking":"yes"}}`))
	})

	details, err := client.GetHotelDetails(context.Background(), "7953")
	require.NoError(t, err)
	assert.Equal(t, []entities.Amenity{entities.AmenityWiFi, entities.AmenityParking, entities.AmenityLaundry}, details.Amenities())
}

func TestSearchGeo(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geo/search", r.URL.Path)
		assert.Equal(t, "hur", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{
			"43":{"id":43,"name":"Egypt","type":"country"},
			"712":{"id":712,"name":"Hurghada","type":"city","countryId":"43"},
			"900":{"id":900,"name":"Unknown","type":"planet"}
		}`))
	})

	items, err := client.SearchGeo(context.Background(), "hur")
	require.NoError(t, err)
	assert.Equal(t, []entities.GeoItem{
		{ID: "43", Name: "Egypt", Type: entities.GeoTypeCountry, CountryID: "43"},
		{ID: "712", Name: "Hurghada", Type: entities.GeoTypeCity, CountryID: "43"},
	}, items)
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestRequestsAreThrottled(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"token":"t1"}`))
	}))
	t.Cleanup(server.Close)
	client := NewClient(server.URL, Options{RequestsPerSecond: 1})

	_, err := client.StartSearch(context.Background(), "UA")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.StartSearch(ctx, "UA")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
