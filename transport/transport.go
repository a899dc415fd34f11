// Package transport provides the HTTP plumbing shared by the provider
// clients: a caching round tripper with per-provider freshness, a fixed
// request delay and static headers.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/aniwatch/aniwatch/cache"
)

// HeaderFromCache is set to "1" on responses served from the store.
const HeaderFromCache = "X-From-Cache"

// DefaultFetchTimeout bounds a shared upstream request once it no longer
// follows the context of the caller that started it.
const DefaultFetchTimeout = 30 * time.Second

// Option configures a Transport.
type Option func(*Transport)

// WithNext sets the round tripper used on a cache miss.
func WithNext(rt http.RoundTripper) Option {
	return func(t *Transport) {
		t.next = rt
	}
}

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Transport) {
		t.now = now
	}
}

// WithFetchTimeout overrides DefaultFetchTimeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(t *Transport) {
		t.fetchTimeout = d
	}
}

// WithLogger sets the logger used for cache diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(t *Transport) {
		t.log = log
	}
}

// Transport is an http.RoundTripper that answers GET requests and GraphQL
// POST requests from a cache.Store while the stored entry is younger than
// ttl. Only successful responses with a valid JSON body are stored.
// Concurrent misses for the same key share one upstream request, which
// outlives any single caller giving up on it.
type Transport struct {
	store        cache.Store
	ttl          time.Duration
	fetchTimeout time.Duration
	next         http.RoundTripper
	now          func() time.Time
	log          zerolog.Logger
	group        singleflight.Group
}

// New creates a caching transport over store.
func New(store cache.Store, ttl time.Duration, opts ...Option) *Transport {
	t := &Transport{
		store:        store,
		ttl:          ttl,
		fetchTimeout: DefaultFetchTimeout,
		next:         http.DefaultTransport,
		now:          time.Now,
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TTL returns the freshness window of stored entries.
func (t *Transport) TTL() time.Duration {
	return t.ttl
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	key, req, err := requestKey(req)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return t.next.RoundTrip(req)
	}

	ctx := req.Context()
	entry, ok, err := t.store.Read(ctx, key)
	if err != nil {
		t.log.Warn().Err(err).Str("url", req.URL.String()).Msg("cache read failed")
	}
	if ok && entry.Fresh(t.now(), t.ttl) {
		t.log.Debug().Str("url", req.URL.String()).Msg("cache hit")
		return cachedResponse(req, entry.Body), nil
	}

	ch := t.group.DoChan(key, func() (any, error) {
		return t.fetch(req, key)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			t.log.Debug().Str("url", req.URL.String()).Msg("shared in-flight request")
		}
		return res.Val.(*snapshot).response(req), nil
	}
}

// fetch performs the upstream request for key. It runs detached from the
// caller's cancellation since other callers may be waiting on the result.
func (t *Transport) fetch(req *http.Request, key string) (*snapshot, error) {
	t.log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Msg("cache miss")

	ctx, cancel := context.WithTimeout(context.WithoutCancel(req.Context()), t.fetchTimeout)
	defer cancel()
	req = req.WithContext(ctx)

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			Method:     req.Method,
			URL:        req.URL.String(),
			Body:       truncate(body),
		}
	}
	if !json.Valid(body) {
		return nil, &ParseError{URL: req.URL.String(), Body: truncate(body)}
	}

	snap := &snapshot{status: resp.StatusCode, header: resp.Header.Clone(), body: body}
	if req.Method == http.MethodPost && hasGraphQLErrors(body) {
		t.log.Debug().Str("url", req.URL.String()).Msg("graphql errors, not cached")
		return snap, nil
	}

	entry := &cache.Entry{Key: key, Body: body, StoredAt: t.now()}
	if err := t.store.Write(ctx, entry); err != nil {
		t.log.Warn().Err(err).Str("url", req.URL.String()).Msg("cache write failed")
	}

	return snap, nil
}

// hasGraphQLErrors reports whether body carries a non-empty top-level
// "errors" array.
func hasGraphQLErrors(body []byte) bool {
	var payload struct {
		Errors []json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return false
	}
	return len(payload.Errors) > 0
}

// requestKey derives the cache key for req. GET requests are keyed by their
// full URL, POST requests by the GraphQL document and variables in the body.
// Other methods return an empty key and are not cached. The returned request
// carries a fresh body when the original one had to be consumed.
func requestKey(req *http.Request) (string, *http.Request, error) {
	switch req.Method {
	case http.MethodGet, "":
		return cache.KeyFor(req.URL.String(), nil), req, nil
	case http.MethodPost:
		if req.Body == nil {
			return "", req, nil
		}
		body, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return "", nil, fmt.Errorf("read request body: %w", err)
		}

		clone := req.Clone(req.Context())
		clone.Body = io.NopCloser(bytes.NewReader(body))
		clone.ContentLength = int64(len(body))
		clone.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}

		var payload struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		if err := json.Unmarshal(body, &payload); err != nil || payload.Query == "" {
			return "", clone, nil
		}
		return cache.KeyFor(payload.Query, payload.Variables), clone, nil
	default:
		return "", req, nil
	}
}

type snapshot struct {
	status int
	header http.Header
	body   []byte
}

func (s *snapshot) response(req *http.Request) *http.Response {
	return &http.Response{
		Status:        strconv.Itoa(s.status) + " " + http.StatusText(s.status),
		StatusCode:    s.status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        s.header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(s.body)),
		ContentLength: int64(len(s.body)),
		Request:       req,
	}
}

func cachedResponse(req *http.Request, body []byte) *http.Response {
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set(HeaderFromCache, "1")
	s := &snapshot{status: http.StatusOK, header: header, body: body}
	return s.response(req)
}
