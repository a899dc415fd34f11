// Package anilist is the GraphQL provider backed by the AniList API.
package anilist

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/shurcooL/graphql"

	"github.com/aniwatch/aniwatch/cache"
	"github.com/aniwatch/aniwatch/transport"
)

const (
	Name            = "anilist"
	DefaultEndpoint = "https://graphql.anilist.co"
	DefaultLanguage = "zh-CN"

	// CacheTTL is how long a response is served from the store.
	CacheTTL = 10 * time.Minute
)

type Client struct {
	gql      *graphql.Client
	endpoint string
	language string
	store    cache.Store
	next     http.RoundTripper
	now      func() time.Time
	log      zerolog.Logger
}

type Option func(*Client)

func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithLanguage sets the Accept-Language header sent upstream.
func WithLanguage(lang string) Option {
	return func(c *Client) {
		if lang != "" {
			c.language = lang
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

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func New(opts ...Option) *Client {
	c := &Client{
		endpoint: DefaultEndpoint,
		language: DefaultLanguage,
		next:     http.DefaultTransport,
		now:      time.Now,
		log:      zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.store == nil {
		c.store = cache.NewMemoryStore(512)
	}

	headers := &transport.Headers{
		Set: http.Header{
			"Accept":          {"application/json"},
			"Accept-Language": {c.language},
		},
		Next: c.next,
	}
	rt := transport.New(c.store, CacheTTL,
		transport.WithNext(headers),
		transport.WithClock(c.now),
		transport.WithLogger(c.log.With().Str("provider", Name).Logger()),
	)
	c.gql = graphql.NewClient(c.endpoint, &http.Client{Transport: rt})
	return c
}

// Query runs q with variables and decodes the response into q.
func (c *Client) Query(ctx context.Context, q any, variables map[string]any) error {
	if err := c.gql.Query(ctx, q, variables); err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return uerr.Err
		}
		return err
	}
	return nil
}

// PageVariables are the inputs of PageQuery.
type PageVariables struct {
	Page       int
	PerPage    int
	Sort       []MediaSort
	Search     string
	Genre      string
	Season     MediaSeason
	SeasonYear int
	Format     MediaFormat
	Status     MediaStatus
}

func (v PageVariables) toMap() map[string]any {
	if len(v.Sort) == 0 {
		v.Sort = []MediaSort{DefaultSort}
	}
	m := map[string]any{
		"page":       graphql.Int(v.Page),
		"perPage":    graphql.Int(v.PerPage),
		"sort":       v.Sort,
		"search":     (*graphql.String)(nil),
		"genre":      (*graphql.String)(nil),
		"season":     (*MediaSeason)(nil),
		"seasonYear": (*graphql.Int)(nil),
		"format":     (*MediaFormat)(nil),
		"status":     (*MediaStatus)(nil),
	}
	if v.Search != "" {
		m["search"] = graphql.NewString(graphql.String(v.Search))
	}
	if v.Genre != "" {
		m["genre"] = graphql.NewString(graphql.String(v.Genre))
	}
	if v.Season != "" {
		season := v.Season
		m["season"] = &season
	}
	if v.SeasonYear > 0 {
		m["seasonYear"] = graphql.NewInt(graphql.Int(v.SeasonYear))
	}
	if v.Format != "" {
		format := v.Format
		m["format"] = &format
	}
	if v.Status != "" {
		status := v.Status
		m["status"] = &status
	}
	return m
}

// Page runs PageQuery.
func (c *Client) Page(ctx context.Context, vars PageVariables) (*PageQuery, error) {
	var q PageQuery
	if err := c.Query(ctx, &q, vars.toMap()); err != nil {
		return nil, err
	}
	return &q, nil
}

// Media runs MediaQuery for id.
func (c *Client) Media(ctx context.Context, id int) (*MediaQuery, error) {
	var q MediaQuery
	if err := c.Query(ctx, &q, map[string]any{"id": graphql.Int(id)}); err != nil {
		return nil, err
	}
	return &q, nil
}
