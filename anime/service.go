package anime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrUnsupported is returned when the selected provider does not offer
	// the requested operation.
	ErrUnsupported = errors.New("operation not supported by provider")

	// ErrNoProvider is returned when the registry is empty.
	ErrNoProvider = errors.New("no provider registered")

	// ErrNotFound signals a detail lookup that produced no record.
	ErrNotFound = errors.New("anime not found")
)

// Service dispatches catalog calls to the currently selected provider.
// Provider errors are logged and returned unchanged.
type Service struct {
	registry *Registry
	log      zerolog.Logger
	now      func() time.Time

	mu      sync.RWMutex
	current string
}

// NewService creates a facade starting on the registry's default provider.
func NewService(registry *Registry, log zerolog.Logger) *Service {
	return &Service{
		registry: registry,
		log:      log,
		now:      time.Now,
		current:  registry.Default(),
	}
}

// SetProvider switches the active provider. Unknown names are ignored.
func (s *Service) SetProvider(name string) {
	if _, ok := s.registry.Get(name); !ok {
		s.log.Debug().Str("provider", name).Msg("ignoring unknown provider")
		return
	}
	s.mu.Lock()
	s.current = name
	s.mu.Unlock()
}

// Provider returns the name of the active provider.
func (s *Service) Provider() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Providers returns the names of all registered providers.
func (s *Service) Providers() []string {
	return s.registry.List()
}

func (s *Service) active() (Provider, error) {
	p, ok := s.registry.Get(s.Provider())
	if !ok {
		return nil, ErrNoProvider
	}
	return p, nil
}

// call runs fn against the active provider with a per-call logger attached
// to ctx.
func call[T any](ctx context.Context, s *Service, op string, fn func(context.Context, Provider) (T, error)) (T, error) {
	var zero T
	p, err := s.active()
	if err != nil {
		s.log.Error().Err(err).Str("op", op).Msg("catalog call failed")
		return zero, err
	}

	log := s.log.With().
		Str("provider", p.Name()).
		Str("op", op).
		Str("call_id", uuid.NewString()).
		Logger()
	ctx = log.WithContext(ctx)

	start := time.Now()
	out, err := fn(ctx, p)
	if err != nil {
		log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("catalog call failed")
		return zero, err
	}
	log.Debug().Dur("elapsed", time.Since(start)).Msg("catalog call")
	return out, nil
}

func unsupported(p Provider, op string) error {
	return fmt.Errorf("%s: %s: %w", p.Name(), op, ErrUnsupported)
}

// GetAnimeList returns one page of the catalog.
func (s *Service) GetAnimeList(ctx context.Context, params Params) (*Page, error) {
	return call(ctx, s, "list", func(ctx context.Context, p Provider) (*Page, error) {
		return p.ListAnime(ctx, params)
	})
}

// SearchAnime returns one page of titles matching query.
func (s *Service) SearchAnime(ctx context.Context, query string, filters Params) (*Page, error) {
	return call(ctx, s, "search", func(ctx context.Context, p Provider) (*Page, error) {
		return p.SearchAnime(ctx, query, filters)
	})
}

// GetAnimeDetail returns the full record for id. A nil record with a nil
// error means the provider answered without one.
func (s *Service) GetAnimeDetail(ctx context.Context, id int) (*Anime, error) {
	return call(ctx, s, "detail", func(ctx context.Context, p Provider) (*Anime, error) {
		return p.GetDetail(ctx, id)
	})
}

// GetEpisodes returns the episodes of id.
func (s *Service) GetEpisodes(ctx context.Context, id int, params Params) ([]Episode, error) {
	return call(ctx, s, "episodes", func(ctx context.Context, p Provider) ([]Episode, error) {
		return p.GetEpisodes(ctx, id, params)
	})
}

// GetTopAnime returns the top ranked titles.
func (s *Service) GetTopAnime(ctx context.Context, params Params) (*Page, error) {
	return call(ctx, s, "top", func(ctx context.Context, p Provider) (*Page, error) {
		d, ok := p.(Discoverer)
		if !ok {
			return nil, unsupported(p, "top")
		}
		return d.TopAnime(ctx, params)
	})
}

// GetSeasonalAnime returns the titles airing in season of year. A zero year
// or empty season defaults to the current one.
func (s *Service) GetSeasonalAnime(ctx context.Context, year int, season string, params Params) (*Page, error) {
	curYear, curSeason := CurrentSeason(s.now())
	if year <= 0 {
		year = curYear
	}
	if season == "" {
		season = curSeason
	}
	return call(ctx, s, "season", func(ctx context.Context, p Provider) (*Page, error) {
		d, ok := p.(Discoverer)
		if !ok {
			return nil, unsupported(p, "season")
		}
		return d.SeasonalAnime(ctx, year, season, params)
	})
}

// GetRecommendations returns titles recommended alongside id.
func (s *Service) GetRecommendations(ctx context.Context, id int) ([]Anime, error) {
	return call(ctx, s, "recommendations", func(ctx context.Context, p Provider) ([]Anime, error) {
		d, ok := p.(Discoverer)
		if !ok {
			return nil, unsupported(p, "recommendations")
		}
		return d.Recommendations(ctx, id)
	})
}

// GetCharacters returns the cast of id.
func (s *Service) GetCharacters(ctx context.Context, id int) ([]Person, error) {
	return call(ctx, s, "characters", func(ctx context.Context, p Provider) ([]Person, error) {
		d, ok := p.(Discoverer)
		if !ok {
			return nil, unsupported(p, "characters")
		}
		return d.Characters(ctx, id)
	})
}

// GetStatistics returns list statistics for id.
func (s *Service) GetStatistics(ctx context.Context, id int) (*Statistics, error) {
	return call(ctx, s, "statistics", func(ctx context.Context, p Provider) (*Statistics, error) {
		sp, ok := p.(StatisticsProvider)
		if !ok {
			return nil, unsupported(p, "statistics")
		}
		return sp.Statistics(ctx, id)
	})
}
