package anime

import (
	"context"
	"sort"
)

// Provider is implemented by every upstream catalog source.
type Provider interface {
	// Name returns the registry key of the provider (e.g., "jikan", "anilist")
	Name() string

	// ListAnime returns one page of the catalog.
	ListAnime(ctx context.Context, params Params) (*Page, error)

	// SearchAnime returns one page of titles matching query.
	SearchAnime(ctx context.Context, query string, filters Params) (*Page, error)

	// GetDetail returns the full record for id, or nil when the upstream
	// response carries no record.
	GetDetail(ctx context.Context, id int) (*Anime, error)

	// GetEpisodes returns the episodes of id. Providers without an episode
	// concept return an empty slice.
	GetEpisodes(ctx context.Context, id int, params Params) ([]Episode, error)
}

// Discoverer is implemented by providers that can browse beyond the plain
// catalog listing.
type Discoverer interface {
	TopAnime(ctx context.Context, params Params) (*Page, error)
	SeasonalAnime(ctx context.Context, year int, season string, params Params) (*Page, error)
	Recommendations(ctx context.Context, id int) ([]Anime, error)
	Characters(ctx context.Context, id int) ([]Person, error)
}

// StatisticsProvider is implemented by providers exposing list statistics.
type StatisticsProvider interface {
	Statistics(ctx context.Context, id int) (*Statistics, error)
}

// Registry manages available catalog providers
type Registry struct {
	providers map[string]Provider
	fallback  string
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider to the registry. The first provider registered
// becomes the default until SetDefault is called.
func (r *Registry) Register(provider Provider) {
	if r.fallback == "" {
		r.fallback = provider.Name()
	}
	r.providers[provider.Name()] = provider
}

// Get retrieves a provider by name
func (r *Registry) Get(name string) (Provider, bool) {
	provider, exists := r.providers[name]
	return provider, exists
}

// SetDefault selects the provider new facades start with. Unknown names are
// ignored and reported as false.
func (r *Registry) SetDefault(name string) bool {
	if _, ok := r.providers[name]; !ok {
		return false
	}
	r.fallback = name
	return true
}

// Default returns the name new facades start with, or "" when empty.
func (r *Registry) Default() string {
	return r.fallback
}

// List returns all registered provider names in sorted order
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
