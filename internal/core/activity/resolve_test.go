package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)

func TestResolve_NoActivities(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Resolve(nil, now))
	assert.Nil(t, Resolve([]Activity{}, now))
}

func TestResolve_StreamWithoutCrossReference(t *testing.T) {
	t.Parallel()

	got := Resolve([]Activity{
		{
			Kind:    KindStreaming,
			Name:    "Twitch",
			Details: "Ranked grind",
			State:   "Foo",
			Start:   now.Add(-75 * time.Minute),
			URL:     "https://twitch.tv/someone",
		},
	}, now)

	require.NotNil(t, got)
	assert.Equal(t, ActionStreaming, got.Action)
	assert.Equal(t, "Twitch", got.Name)
	assert.Equal(t, "https://twitch.tv/someone", got.URL)
	assert.Equal(t, []string{
		"Streaming on Twitch • Live for 1hr. 15min.",
		"Ranked grind",
		"Foo",
	}, got.Lines)
}

func TestResolve_StreamWithCrossReference(t *testing.T) {
	t.Parallel()

	got := Resolve([]Activity{
		{Kind: KindPlaying, Name: "Spotify"},
		{
			Kind:    KindStreaming,
			Name:    "Twitch",
			Details: "Road to diamond",
			State:   "Foo",
			Start:   now.Add(-3 * time.Minute),
			URL:     "https://twitch.tv/someone",
		},
		{
			Kind:    KindPlaying,
			Name:    "Foo",
			Details: "Competitive",
			State:   "In queue",
			Party:   &Party{Current: 2, Max: 5},
		},
	}, now)

	require.NotNil(t, got)
	require.Len(t, got.Lines, 5)
	assert.Equal(t, "Streaming on Twitch • Live for 3min.", got.Lines[0])
	assert.Equal(t, "Competitive", got.Lines[3])
	assert.Equal(t, "In queue (2 of 5)", got.Lines[4])
}

func TestResolve_CrossReferenceUsesFirstMatch(t *testing.T) {
	t.Parallel()

	got := Resolve([]Activity{
		{Kind: KindStreaming, Name: "Twitch", State: "Foo", Start: now},
		{Kind: KindPlaying, Name: "Foo", Details: "first"},
		{Kind: KindPlaying, Name: "Foo", Details: "second"},
	}, now)

	require.NotNil(t, got)
	require.Len(t, got.Lines, 5)
	assert.Equal(t, "first", got.Lines[3])
	assert.Empty(t, got.Lines[4])
}

func TestResolve_EmptyStateNeverCrossReferences(t *testing.T) {
	t.Parallel()

	got := Resolve([]Activity{
		{Kind: KindStreaming, Name: "Twitch", Start: now},
		{Kind: KindPlaying, Name: ""},
	}, now)

	require.NotNil(t, got)
	assert.Len(t, got.Lines, 3)
}

func TestResolve_FirstStreamWins(t *testing.T) {
	t.Parallel()

	got := Resolve([]Activity{
		{Kind: KindPlaying, Name: "Game"},
		{Kind: KindStreaming, Name: "Twitch", URL: "https://twitch.tv/a", Start: now},
		{Kind: KindStreaming, Name: "YouTube", URL: "https://youtube.com/b", Start: now},
	}, now)

	require.NotNil(t, got)
	assert.Equal(t, ActionStreaming, got.Action)
	assert.Equal(t, "Twitch", got.Name)
	assert.Equal(t, "https://twitch.tv/a", got.URL)
}

func TestResolve_FirstNonStreamingActivity(t *testing.T) {
	t.Parallel()

	got := Resolve([]Activity{
		{
			Kind:  KindPlaying,
			Name:  "Celeste",
			State: "Chapter 7",
			Start: now.Add(-2*time.Hour - 2*time.Minute),
			URL:   "https://ignored.example",
		},
		{Kind: KindListening, Name: "Spotify"},
	}, now)

	require.NotNil(t, got)
	assert.Equal(t, ActionPlaying, got.Action)
	assert.Equal(t, "Celeste", got.Name)
	assert.Empty(t, got.URL, "url is only carried for streams")
	assert.Equal(t, []string{
		"Playing Celeste",
		"Playing for 2hrs. 02min.",
		"Chapter 7",
	}, got.Lines)
}

func TestResolve_UnknownKindTreatedAsPlaying(t *testing.T) {
	t.Parallel()

	got := Resolve([]Activity{{Kind: Kind(42), Name: "Mystery", Start: now}}, now)

	require.NotNil(t, got)
	assert.Equal(t, ActionPlaying, got.Action)
	assert.Equal(t, "Playing Mystery", got.Lines[0])
}

func TestResolve_MissingFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input Activity
		want  []string
	}{
		{
			name:  "stream without details or state",
			input: Activity{Kind: KindStreaming, Name: "Twitch", Start: now},
			want:  []string{"Streaming on Twitch • Live for 0min.", "", ""},
		},
		{
			name:  "party without state",
			input: Activity{Kind: KindPlaying, Name: "Game", Start: now, Party: &Party{Current: 1, Max: 4}},
			want:  []string{"Playing Game", "Playing for 0min.", "(1 of 4)"},
		},
		{
			name:  "start in the future",
			input: Activity{Kind: KindPlaying, Name: "Game", Start: now.Add(time.Hour)},
			want:  []string{"Playing Game", "Playing for 0min.", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Resolve([]Activity{tt.input}, now)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Lines)
		})
	}
}

func TestResolve_MissingStartIsWellFormed(t *testing.T) {
	t.Parallel()

	got := Resolve([]Activity{{Kind: KindPlaying, Name: "Game"}}, now)

	require.NotNil(t, got)
	assert.Regexp(t, `^Playing for \d+hrs?\. \d{2}min\.$`, got.Lines[1])
}

func TestResolve_Idempotent(t *testing.T) {
	t.Parallel()

	input := []Activity{
		{Kind: KindStreaming, Name: "Twitch", State: "Foo", Start: now.Add(-time.Minute), URL: "https://twitch.tv/a"},
		{Kind: KindPlaying, Name: "Foo", Details: "Level 3"},
	}

	assert.Equal(t, Resolve(input, now), Resolve(input, now))
}

func TestPrimary_IsLiveStream(t *testing.T) {
	t.Parallel()

	var nilPrimary *Primary
	assert.False(t, nilPrimary.IsLiveStream())
	assert.False(t, (&Primary{Action: ActionStreaming}).IsLiveStream())
	assert.False(t, (&Primary{Action: ActionPlaying, URL: "https://x"}).IsLiveStream())
	assert.True(t, (&Primary{Action: ActionStreaming, URL: "https://x"}).IsLiveStream())
}

func TestKind_Normalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, KindCustom, KindCustom.Normalize())
	assert.Equal(t, KindPlaying, Kind(-1).Normalize())
	assert.Equal(t, "playing", Kind(99).String())
	assert.Equal(t, "streaming", KindStreaming.String())
}
