package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aniwatch/aniwatch/anime"
	"github.com/aniwatch/aniwatch/transport"
)

type recordingProvider struct {
	name string
	err  error

	mu    sync.Mutex
	calls []string
}

func (p *recordingProvider) record(op string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, op)
	return p.err
}

func (p *recordingProvider) Name() string { return p.name }

func (p *recordingProvider) ListAnime(ctx context.Context, params anime.Params) (*anime.Page, error) {
	return anime.EmptyPage(), p.record("list")
}

func (p *recordingProvider) SearchAnime(ctx context.Context, query string, filters anime.Params) (*anime.Page, error) {
	return anime.EmptyPage(), p.record("search")
}

func (p *recordingProvider) GetDetail(ctx context.Context, id int) (*anime.Anime, error) {
	return &anime.Anime{ID: id}, p.record("detail")
}

func (p *recordingProvider) GetEpisodes(ctx context.Context, id int, params anime.Params) ([]anime.Episode, error) {
	return []anime.Episode{}, p.record("episodes")
}

type discoveringProvider struct {
	recordingProvider
}

func (p *discoveringProvider) TopAnime(ctx context.Context, params anime.Params) (*anime.Page, error) {
	return anime.EmptyPage(), p.record("top")
}

func (p *discoveringProvider) SeasonalAnime(ctx context.Context, year int, season string, params anime.Params) (*anime.Page, error) {
	return anime.EmptyPage(), p.record("season:" + season)
}

func (p *discoveringProvider) Recommendations(ctx context.Context, id int) ([]anime.Anime, error) {
	return nil, p.record("recommendations")
}

func (p *discoveringProvider) Characters(ctx context.Context, id int) ([]anime.Person, error) {
	return nil, p.record("characters")
}

func newHandler(providers ...anime.Provider) *WarmHandler {
	registry := anime.NewRegistry()
	for _, p := range providers {
		registry.Register(p)
	}
	return &WarmHandler{Registry: registry, Log: zerolog.Nop()}
}

func task(t *testing.T, p WarmPayload) *asynq.Task {
	t.Helper()
	data, err := json.Marshal(p)
	require.NoError(t, err)
	return asynq.NewTask(TaskWarmCatalog, data)
}

func TestWarmDispatchesByKind(t *testing.T) {
	primary := &discoveringProvider{recordingProvider{name: "main"}}
	other := &discoveringProvider{recordingProvider{name: "other"}}
	h := newHandler(primary, other)
	ctx := context.Background()

	require.NoError(t, h.ProcessTask(ctx, task(t, WarmPayload{Kind: KindList, Page: 2})))
	require.NoError(t, h.ProcessTask(ctx, task(t, WarmPayload{Kind: KindTop})))
	require.NoError(t, h.ProcessTask(ctx, task(t, WarmPayload{Kind: KindSeason, Year: 2024, Season: "spring"})))
	require.NoError(t, h.ProcessTask(ctx, task(t, WarmPayload{Kind: KindDetail, ID: 1, Provider: "other"})))

	assert.Equal(t, []string{"list", "top", "season:spring"}, primary.calls)
	assert.Equal(t, []string{"detail"}, other.calls)
}

func TestWarmRejectsBadTasks(t *testing.T) {
	h := newHandler(&discoveringProvider{recordingProvider{name: "main"}})
	ctx := context.Background()

	tests := []struct {
		name string
		task *asynq.Task
	}{
		{"malformed payload", asynq.NewTask(TaskWarmCatalog, []byte("{"))},
		{"unknown kind", task(t, WarmPayload{Kind: "everything"})},
		{"detail without id", task(t, WarmPayload{Kind: KindDetail})},
		{"bad season", task(t, WarmPayload{Kind: KindSeason, Season: "monsoon"})},
		{"unknown provider", task(t, WarmPayload{Kind: KindList, Provider: "kitsu"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.ProcessTask(ctx, tt.task)
			require.Error(t, err)
			assert.ErrorIs(t, err, asynq.SkipRetry)
		})
	}
}

func TestWarmRetriesTransientFailures(t *testing.T) {
	p := &discoveringProvider{recordingProvider{
		name: "main",
		err:  &transport.TransportError{StatusCode: http.StatusTooManyRequests, Method: http.MethodGet},
	}}
	h := newHandler(p)

	err := h.ProcessTask(context.Background(), task(t, WarmPayload{Kind: KindList}))
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)

	var terr *transport.TransportError
	assert.True(t, errors.As(err, &terr))
}

func TestWarmDropsPermanentFailures(t *testing.T) {
	p := &discoveringProvider{recordingProvider{
		name: "main",
		err:  &transport.TransportError{StatusCode: http.StatusNotFound, Method: http.MethodGet},
	}}
	h := newHandler(p)

	err := h.ProcessTask(context.Background(), task(t, WarmPayload{Kind: KindDetail, ID: 9}))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	var terr *transport.TransportError
	assert.True(t, errors.As(err, &terr), "the upstream error stays inspectable")
}

func TestWarmUnsupportedIsPermanent(t *testing.T) {
	h := newHandler(&recordingProvider{name: "plain"})

	err := h.ProcessTask(context.Background(), task(t, WarmPayload{Kind: KindTop}))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.ErrorIs(t, err, anime.ErrUnsupported)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&transport.TransportError{StatusCode: 503}))
	assert.False(t, IsRetryable(&transport.TransportError{StatusCode: 400}))
	assert.True(t, IsRetryable(context.DeadlineExceeded))
	assert.False(t, IsRetryable(&transport.ParseError{URL: "x"}))
	assert.False(t, IsRetryable(errors.New("boom")))
}

func TestNewWarmTask(t *testing.T) {
	tk, err := NewWarmTask(WarmPayload{Kind: KindSeason, Year: 2024, Season: "fall"})
	require.NoError(t, err)
	assert.Equal(t, TaskWarmCatalog, tk.Type())

	var p WarmPayload
	require.NoError(t, json.Unmarshal(tk.Payload(), &p))
	assert.Equal(t, "fall", p.Season)

	_, err = NewWarmTask(WarmPayload{Kind: "nope"})
	assert.Error(t, err)
}
