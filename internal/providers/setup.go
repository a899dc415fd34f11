// Package providers builds the provider registry from configuration.
package providers

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/aniwatch/aniwatch/anilist"
	"github.com/aniwatch/aniwatch/anime"
	"github.com/aniwatch/aniwatch/cache"
	"github.com/aniwatch/aniwatch/internal/config"
	"github.com/aniwatch/aniwatch/jikan"
)

// redisPrefix namespaces provider caches in a shared redis.
const redisPrefix = "aniwatch:cache:"

// Setup creates a registry with every provider, each backed by its own
// cache store. The returned close function releases shared connections.
func Setup(cfg *config.Config, log zerolog.Logger) (*anime.Registry, func() error, error) {
	var rdb redis.UniversalClient
	closeFn := func() error { return nil }
	if cfg.CacheBackend == config.BackendRedis {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		closeFn = rdb.Close
	}

	jikanStore, err := newStore(cfg, rdb, jikan.Name)
	if err != nil {
		_ = closeFn()
		return nil, nil, err
	}
	anilistStore, err := newStore(cfg, rdb, anilist.Name)
	if err != nil {
		_ = closeFn()
		return nil, nil, err
	}

	registry := anime.NewRegistry()
	registry.Register(jikan.NewProvider(jikan.New(
		jikan.WithBaseURL(cfg.JikanBaseURL),
		jikan.WithStore(jikanStore),
		jikan.WithLogger(log),
	)))
	registry.Register(anilist.NewProvider(anilist.New(
		anilist.WithEndpoint(cfg.AniListEndpoint),
		anilist.WithLanguage(cfg.Language),
		anilist.WithStore(anilistStore),
		anilist.WithLogger(log),
	)))

	if !registry.SetDefault(cfg.Provider) {
		log.Warn().Str("provider", cfg.Provider).Str("default", registry.Default()).Msg("unknown provider, using default")
	}
	log.Debug().
		Str("backend", cfg.CacheBackend).
		Strs("providers", registry.List()).
		Msg("provider registry ready")
	return registry, closeFn, nil
}

func newStore(cfg *config.Config, rdb redis.UniversalClient, provider string) (cache.Store, error) {
	switch cfg.CacheBackend {
	case config.BackendFile:
		store, err := cache.NewFileStore(cfg.CacheDir, provider)
		if err != nil {
			return nil, fmt.Errorf("%s cache: %w", provider, err)
		}
		return store, nil
	case config.BackendRedis:
		return cache.NewRedisStore(rdb, redisPrefix+provider, cfg.CacheRetention), nil
	default:
		return cache.NewMemoryStore(cfg.CacheMaxEntries), nil
	}
}
