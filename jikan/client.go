// Package jikan is the REST provider backed by the Jikan v4 API, an
// unofficial MyAnimeList mirror.
package jikan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/aniwatch/aniwatch/cache"
	"github.com/aniwatch/aniwatch/transport"
)

const (
	Name           = "jikan"
	DefaultBaseURL = "https://api.jikan.moe/v4"

	// CacheTTL is how long a response is served from the store.
	CacheTTL = 5 * time.Minute

	// RequestDelay is waited before every network call to stay under the
	// upstream rate limit.
	RequestDelay = time.Second
)

type Client struct {
	http    *http.Client
	baseURL *url.URL
	store   cache.Store
	delay   time.Duration
	next    http.RoundTripper
	now     func() time.Time
	log     zerolog.Logger
}

type Option func(*Client)

func WithBaseURL(raw string) Option {
	return func(c *Client) {
		if u, err := url.Parse(raw); err == nil && raw != "" {
			c.baseURL = u
		}
	}
}

// WithStore sets the response store. Defaults to an in-memory store.
func WithStore(store cache.Store) Option {
	return func(c *Client) { c.store = store }
}

// WithTransport sets the round tripper used for network calls.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.next = rt }
}

// WithRequestDelay overrides RequestDelay.
func WithRequestDelay(d time.Duration) Option {
	return func(c *Client) { c.delay = d }
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func New(opts ...Option) *Client {
	u, _ := url.Parse(DefaultBaseURL)
	c := &Client{
		baseURL: u,
		delay:   RequestDelay,
		next:    http.DefaultTransport,
		now:     time.Now,
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.store == nil {
		c.store = cache.NewMemoryStore(512)
	}

	c.http = &http.Client{
		Transport: transport.New(c.store, CacheTTL,
			transport.WithNext(&transport.Throttle{Delay: c.delay, Next: c.next}),
			transport.WithClock(c.now),
			transport.WithLogger(c.log.With().Str("provider", Name).Logger()),
		),
	}
	return c
}

// Get fetches endpoint with query q and decodes the body into out.
// Fields whose JSON type does not match out are left empty.
func (c *Client) Get(ctx context.Context, endpoint string, q url.Values, out any) error {
	u := *c.baseURL
	u.Path = path.Join(u.Path, endpoint)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return unwrapURLError(err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			c.log.Warn().Err(err).Str("endpoint", endpoint).Msg("unexpected response shape")
			return nil
		}
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

// unwrapURLError strips the *url.Error added by http.Client so callers get
// the transport's own error value.
func unwrapURLError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}

// GetAnimeList returns a page of /anime, optionally filtered by q.
func (c *Client) GetAnimeList(ctx context.Context, q url.Values) (*AnimeListResponse, error) {
	var out AnimeListResponse
	if err := c.Get(ctx, "/anime", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAnimeByID returns the full record of one title.
func (c *Client) GetAnimeByID(ctx context.Context, id int) (*AnimeResponse, error) {
	var out AnimeResponse
	if err := c.Get(ctx, "/anime/"+strconv.Itoa(id)+"/full", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAnimeEpisodes returns one page of episodes (page starts at 1)
func (c *Client) GetAnimeEpisodes(ctx context.Context, id, page int) (*EpisodesResponse, error) {
	if page <= 0 {
		page = 1
	}
	var out EpisodesResponse
	q := url.Values{"page": {strconv.Itoa(page)}}
	if err := c.Get(ctx, "/anime/"+strconv.Itoa(id)+"/episodes", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTopAnime returns a page of /top/anime.
func (c *Client) GetTopAnime(ctx context.Context, q url.Values) (*AnimeListResponse, error) {
	var out AnimeListResponse
	if err := c.Get(ctx, "/top/anime", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSeasonalAnime returns the titles airing in season of year.
func (c *Client) GetSeasonalAnime(ctx context.Context, year int, season string, q url.Values) (*AnimeListResponse, error) {
	var out AnimeListResponse
	if err := c.Get(ctx, "/seasons/"+strconv.Itoa(year)+"/"+season, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetRecommendations(ctx context.Context, id int) (*RecommendationsResponse, error) {
	var out RecommendationsResponse
	if err := c.Get(ctx, "/anime/"+strconv.Itoa(id)+"/recommendations", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCharacters(ctx context.Context, id int) (*CharactersResponse, error) {
	var out CharactersResponse
	if err := c.Get(ctx, "/anime/"+strconv.Itoa(id)+"/characters", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetStatistics(ctx context.Context, id int) (*StatisticsResponse, error) {
	var out StatisticsResponse
	if err := c.Get(ctx, "/anime/"+strconv.Itoa(id)+"/statistics", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
