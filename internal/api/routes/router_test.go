package routes_test

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/toursearch/internal/adapters/providers/mockbackend"
	"github.com/zatekoja/toursearch/internal/api/handlers"
	"github.com/zatekoja/toursearch/internal/api/routes"
	"github.com/zatekoja/toursearch/internal/application/services"
	"github.com/zatekoja/toursearch/internal/domain/entities"
)

type sessionBody struct {
	ID   string               `json:"id"`
	View services.SessionView `json:"view"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	backend := mockbackend.New(mockbackend.Options{StartDelayMs: 1})
	dir := services.NewDirectoryService(backend, services.DirectoryServiceOptions{})
	manager := services.NewSessionManager(func() *services.SearchSession {
		return services.NewSearchSession(backend, dir, services.SearchSessionOptions{})
	}, services.SessionManagerOptions{})

	router := routes.NewRouter(handlers.NewSessionHandler(manager, nil), []string{"https://app.example"}, nil)
	server := httptest.NewServer(router.SetupRoutes())
	t.Cleanup(func() {
		server.Close()
		manager.Close()
	})
	return server
}

func doJSON(t *testing.T, method, url, body string, out interface{}) int {
	t.Helper()
	var req *http.Request
	var err error
	if body == "" {
		req, err = http.NewRequest(method, url, nil)
	} else {
		req, err = http.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func createSession(t *testing.T, server *httptest.Server) string {
	t.Helper()
	var created sessionBody
	require.Equal(t, http.StatusCreated, doJSON(t, http.MethodPost, server.URL+"/api/sessions", "", &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, entities.SearchStatusIdle, created.View.Status)
	return created.ID
}

func TestRouter_Health(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_CitySearchFlow(t *testing.T) {
	server := newTestServer(t)
	id := createSession(t, server)
	base := server.URL + "/api/sessions/" + id

	var state services.SuggestionState
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, base+"/suggestions?q=hurg", "", &state))
	require.Len(t, state.Items, 1)
	assert.Equal(t, "712", state.Items[0].ID)

	item, err := json.Marshal(map[string]interface{}{"item": state.Items[0]})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodPut, base+"/selection", string(item), &state))
	require.NotNil(t, state.Selected)
	assert.Equal(t, "Hurghada", state.InputValue)

	var accepted sessionBody
	require.Equal(t, http.StatusAccepted, doJSON(t, http.MethodPost, base+"/search", "", &accepted))

	var current sessionBody
	require.Eventually(t, func() bool {
		doJSON(t, http.MethodGet, base, "", &current)
		return current.View.Status == entities.SearchStatusSuccess && !current.View.IsCityFilterLoading
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "43", current.View.ResultCountryID)
	assert.Len(t, current.View.Tours, 3)

	var cards []services.TourCard
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, base+"/cards", "", &cards))
	require.Len(t, cards, 3)
	assert.Equal(t, "Marlin Inn", cards[0].HotelName)
	assert.Equal(t, "Hurghada", cards[0].CityName)

	assert.Equal(t, http.StatusNoContent, doJSON(t, http.MethodDelete, base, "", nil))
	assert.Equal(t, http.StatusNotFound, doJSON(t, http.MethodGet, base, "", nil))
}

func TestRouter_RequestErrors(t *testing.T) {
	server := newTestServer(t)
	id := createSession(t, server)
	base := server.URL + "/api/sessions/" + id

	tests := []struct {
		name   string
		method string
		url    string
		body   string
		want   int
	}{
		{name: "unknown session", method: http.MethodGet, url: server.URL + "/api/sessions/nope", want: http.StatusNotFound},
		{name: "delete unknown session", method: http.MethodDelete, url: server.URL + "/api/sessions/nope", want: http.StatusNotFound},
		{name: "search without selection", method: http.MethodPost, url: base + "/search", want: http.StatusBadRequest},
		{name: "malformed search body", method: http.MethodPost, url: base + "/search", body: "{", want: http.StatusBadRequest},
		{name: "malformed selection", method: http.MethodPut, url: base + "/selection", body: "[]", want: http.StatusBadRequest},
		{name: "unknown item type", method: http.MethodPut, url: base + "/selection", body: `{"item":{"id":"1","type":"region","countryId":"43"}}`, want: http.StatusBadRequest},
		{name: "clear selection", method: http.MethodPut, url: base + "/selection", body: `{"item":null}`, want: http.StatusOK},
		{name: "search by country", method: http.MethodPost, url: base + "/search", body: `{"countryId":"38"}`, want: http.StatusAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, doJSON(t, tt.method, tt.url, tt.body, nil))
		})
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	server := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, server.URL+"/api/sessions", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "https://app.example", resp.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://evil.example")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Empty(t, resp2.Header.Get("Access-Control-Allow-Origin"))
}

type sseEvent struct {
	name string
	data string
}

func readEvent(t *testing.T, reader *bufio.Reader) sseEvent {
	t.Helper()
	var ev sseEvent
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			ev.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			ev.data = strings.TrimPrefix(line, "data: ")
		case line == "" && ev.name != "":
			return ev
		}
	}
}

func TestRouter_StreamSession(t *testing.T) {
	server := newTestServer(t)
	id := createSession(t, server)
	base := server.URL + "/api/sessions/" + id

	resp, err := http.Get(base + "/stream")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	assert.Equal(t, "connected", readEvent(t, reader).name)

	first := readEvent(t, reader)
	require.Equal(t, "view", first.name)
	var view services.SessionView
	require.NoError(t, json.Unmarshal([]byte(first.data), &view))
	assert.Equal(t, entities.SearchStatusIdle, view.Status)

	require.Equal(t, http.StatusAccepted, doJSON(t, http.MethodPost, base+"/search", `{"countryId":"115"}`, nil))

	for view.Status != entities.SearchStatusSuccess {
		ev := readEvent(t, reader)
		require.Equal(t, "view", ev.name)
		require.NoError(t, json.Unmarshal([]byte(ev.data), &view))
	}
	assert.Len(t, view.Tours, 3)

	require.Equal(t, http.StatusNoContent, doJSON(t, http.MethodDelete, base, "", nil))
	for {
		ev := readEvent(t, reader)
		if ev.name == "closed" {
			break
		}
	}
}
