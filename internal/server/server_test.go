package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/nowcard/internal/core/activity"
	"github.com/hay-kot/nowcard/internal/core/config"
	"github.com/hay-kot/nowcard/internal/core/feed"
	"github.com/hay-kot/nowcard/internal/lanyard"
	"github.com/hay-kot/nowcard/internal/metrics"
)

const watchedID = "94490510688792576"

var fixedNow = time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)

type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	snaps map[string]feed.Snapshot
	err   error
}

func (f *fakeFetcher) Fetch(_ context.Context, userID string) (feed.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return feed.Snapshot{}, f.err
	}
	snap, ok := f.snaps[userID]
	if !ok {
		return feed.Snapshot{}, &lanyard.APIError{Status: http.StatusNotFound, Code: "user_not_monitored"}
	}
	return snap, nil
}

func (f *fakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func streamingSnapshot(id string) feed.Snapshot {
	return feed.Snapshot{
		User:   feed.User{ID: id, Username: "phineas", GlobalName: "Phineas"},
		Status: "online",
		Activities: []activity.Activity{
			{Kind: activity.KindStreaming, Name: "Twitch", State: "Celeste", URL: "https://twitch.tv/p", Start: fixedNow.Add(-10 * time.Minute)},
		},
	}
}

func newTestServer(t *testing.T, fetcher feed.Fetcher) *Server {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.UserID = watchedID
	cfg.FallbackURL = "https://example.com"

	reg, err := metrics.NewRegistry()
	require.NoError(t, err)

	s := New(&cfg, fetcher, nil, reg, zerolog.Nop())
	s.now = func() time.Time { return fixedNow }
	return s
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &fakeFetcher{})

	rec := get(t, s.Handler(), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestCardJSON_FetchesAndCaches(t *testing.T) {
	fetcher := &fakeFetcher{snaps: map[string]feed.Snapshot{"123": streamingSnapshot("123")}}
	s := newTestServer(t, fetcher)
	h := s.Handler()

	rec := get(t, h, "/api/card?user_id=123")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		UserID   string   `json:"user_id"`
		Name     string   `json:"name"`
		Presence string   `json:"presence"`
		Link     string   `json:"link"`
		Lines    []string `json:"lines"`
		Activity struct {
			Action string `json:"action"`
		} `json:"activity"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "123", body.UserID)
	assert.Equal(t, "Phineas", body.Name)
	assert.Equal(t, "streaming", body.Presence)
	assert.Equal(t, "https://twitch.tv/p", body.Link)
	assert.Equal(t, "Streaming", body.Activity.Action)
	assert.Equal(t, "Streaming on Twitch • Live for 10min.", body.Lines[0])

	get(t, h, "/api/card?user_id=123")
	assert.Equal(t, 1, fetcher.Calls(), "second request served from cache")
}

func TestCardJSON_FallbackURLFromQuery(t *testing.T) {
	snap := feed.Snapshot{
		User:       feed.User{ID: "123", Username: "someone"},
		Status:     "idle",
		Activities: []activity.Activity{{Kind: activity.KindPlaying, Name: "Celeste", Start: fixedNow}},
	}
	s := newTestServer(t, &fakeFetcher{snaps: map[string]feed.Snapshot{"123": snap}})
	h := s.Handler()

	var body map[string]any

	rec := get(t, h, "/api/card?user_id=123&url=https://mysite.example")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "https://mysite.example", body["link"])
	assert.Equal(t, "idle", body["presence"])

	rec = get(t, h, "/api/card?user_id=123")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "https://example.com", body["link"])
}

func TestCardJSON_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		fetchErr   error
		wantStatus int
		wantErr    string
	}{
		{name: "invalid user id", target: "/api/card?user_id=abc", wantStatus: http.StatusBadRequest, wantErr: "digits"},
		{name: "not monitored", target: "/api/card?user_id=42", wantStatus: http.StatusNotFound, wantErr: "user_not_monitored"},
		{name: "feed down", target: "/api/card?user_id=42", fetchErr: fmt.Errorf("dial: refused"), wantStatus: http.StatusBadGateway, wantErr: "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, &fakeFetcher{err: tt.fetchErr})

			rec := get(t, s.Handler(), tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body.Error, tt.wantErr)
		})
	}
}

func TestCardJSON_MissingUserID(t *testing.T) {
	s := newTestServer(t, &fakeFetcher{})
	s.cfg.UserID = ""

	rec := get(t, s.Handler(), "/api/card")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "?user_id=3474873838384874")
}

func TestCardText(t *testing.T) {
	fetcher := &fakeFetcher{snaps: map[string]feed.Snapshot{watchedID: streamingSnapshot(watchedID)}}
	s := newTestServer(t, fetcher)

	rec := get(t, s.Handler(), "/card")
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Phineas (Streaming)")
	assert.Contains(t, string(body), "https://twitch.tv/p")
}

func TestWatch_PrefersLiveSnapshot(t *testing.T) {
	fetcher := &fakeFetcher{}
	s := newTestServer(t, fetcher)

	snaps := make(chan feed.Snapshot, 1)
	live := streamingSnapshot(watchedID)
	live.Status = "dnd"
	live.Activities = nil
	snaps <- live
	close(snaps)
	s.watch(snaps)

	rec := get(t, s.Handler(), "/api/card")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "dnd", body["presence"])
	assert.Nil(t, body["activity"])
	assert.Equal(t, 0, fetcher.Calls())
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, &fakeFetcher{err: fmt.Errorf("down")})
	h := s.Handler()

	get(t, h, "/api/card?user_id=42")
	rec := get(t, h, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `nowcard_fetches_total{result="error"} 1`)
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t, &fakeFetcher{})
	h := s.Handler()

	rec := get(t, h, "/health")
	assert.Len(t, rec.Header().Get(requestIDHeader), 12)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc123", rec.Header().Get(requestIDHeader))
}
