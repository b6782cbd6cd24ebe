package doctor

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/nowcard/internal/core/config"
	"github.com/hay-kot/nowcard/internal/core/feed"
	"github.com/hay-kot/nowcard/internal/lanyard"
)

type stubFetcher struct {
	snap feed.Snapshot
	err  error
}

func (s stubFetcher) Fetch(context.Context, string) (feed.Snapshot, error) {
	return s.snap, s.err
}

func statuses(r Result) []Status {
	out := make([]Status, 0, len(r.Items))
	for _, item := range r.Items {
		out = append(out, item.Status)
	}
	return out
}

func TestConfigCheck(t *testing.T) {
	t.Parallel()

	valid := config.DefaultConfig()
	valid.UserID = "94490510688792576"

	noUser := config.DefaultConfig()

	invalid := config.DefaultConfig()
	invalid.UserID = "abc"
	invalid.Feed.SocketURL = "https://api.lanyard.rest/socket"

	tests := []struct {
		name       string
		cfg        *config.Config
		want       []Status
		wantLabels []string
	}{
		{name: "not loaded", cfg: nil, want: []Status{StatusFail}},
		{name: "valid", cfg: &valid, want: []Status{StatusPass}},
		{name: "missing user id warns", cfg: &noUser, want: []Status{StatusWarn}},
		{
			name:       "field errors",
			cfg:        &invalid,
			want:       []Status{StatusFail, StatusFail},
			wantLabels: []string{"user_id (card)", "feed.socket_url (feed)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NewConfigCheck(tt.cfg).Run(context.Background())
			assert.Equal(t, "Configuration", got.Name)
			assert.Equal(t, tt.want, statuses(got))
			for i, label := range tt.wantLabels {
				assert.Equal(t, label, got.Items[i].Label)
			}
		})
	}
}

func TestFeedCheck(t *testing.T) {
	t.Parallel()

	notMonitored := &lanyard.APIError{Status: http.StatusNotFound, Code: "user_not_monitored"}

	tests := []struct {
		name       string
		userID     string
		fetcher    stubFetcher
		want       []Status
		wantDetail string
	}{
		{name: "no user", userID: "", want: []Status{StatusWarn}},
		{name: "bad user", userID: "abc", want: []Status{StatusFail}},
		{
			name:       "not monitored",
			userID:     "1",
			fetcher:    stubFetcher{err: notMonitored},
			want:       []Status{StatusFail},
			wantDetail: "Lanyard Discord server",
		},
		{
			name:       "unreachable",
			userID:     "1",
			fetcher:    stubFetcher{err: errors.New("dial tcp: refused")},
			want:       []Status{StatusFail},
			wantDetail: "refused",
		},
		{
			name:   "ok",
			userID: "1",
			fetcher: stubFetcher{snap: feed.Snapshot{
				User:   feed.User{ID: "1", Username: "kot"},
				Status: "idle",
			}},
			want:       []Status{StatusPass, StatusPass},
			wantDetail: "kot (Idle)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NewFeedCheck(tt.fetcher, tt.userID).Run(context.Background())
			require.Equal(t, tt.want, statuses(got))
			if tt.wantDetail != "" {
				assert.Contains(t, got.Items[len(got.Items)-1].Detail, tt.wantDetail)
			}
		})
	}
}

func TestRunAllAndSummary(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	results := RunAll(context.Background(), []Check{
		NewConfigCheck(&cfg),
		NewFeedCheck(stubFetcher{err: errors.New("boom")}, "1"),
	})

	require.Len(t, results, 2)
	assert.Equal(t, StatusWarn, results[0].Status())
	assert.Equal(t, StatusFail, results[1].Status())

	text, err := results[1].Items[0].Status.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "fail", string(text))

	passed, warned, failed := Summary(results)
	assert.Equal(t, 0, passed)
	assert.Equal(t, 1, warned)
	assert.Equal(t, 1, failed)
}
