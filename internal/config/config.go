// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/aniwatch/aniwatch/anilist"
	"github.com/aniwatch/aniwatch/jikan"
)

// Cache backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Providers lists the provider names the application can build.
var Providers = []string{jikan.Name, anilist.Name}

// Config holds all application configuration
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	Provider string `env:"ANIWATCH_PROVIDER" envDefault:"jikan"`
	Language string `env:"ANIWATCH_LANGUAGE" envDefault:"zh-CN"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`

	CacheBackend    string        `env:"ANIWATCH_CACHE_BACKEND" envDefault:"memory"`
	CacheMaxEntries int           `env:"ANIWATCH_CACHE_MAX_ENTRIES" envDefault:"512"`
	CacheDir        string        `env:"ANIWATCH_CACHE_DIR"` // empty means ~/.aniwatch_cache
	CacheRetention  time.Duration `env:"ANIWATCH_CACHE_RETENTION" envDefault:"24h"`
	RedisAddr       string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	JikanBaseURL    string `env:"JIKAN_BASE_URL" envDefault:"https://api.jikan.moe/v4"`
	AniListEndpoint string `env:"ANILIST_ENDPOINT" envDefault:"https://graphql.anilist.co"`

	SessionLifetime time.Duration `env:"SESSION_LIFETIME" envDefault:"12h"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	cfg.CacheBackend = strings.ToLower(strings.TrimSpace(cfg.CacheBackend))
	return cfg, nil
}

// Validate rejects settings the application cannot start with.
func (c *Config) Validate() error {
	if !slices.Contains(Providers, c.Provider) {
		return fmt.Errorf("unknown provider %q, want one of %s", c.Provider, strings.Join(Providers, ", "))
	}
	switch c.CacheBackend {
	case BackendMemory, BackendFile, BackendRedis:
	default:
		return fmt.Errorf("unknown cache backend %q", c.CacheBackend)
	}
	if c.CacheMaxEntries <= 0 {
		return fmt.Errorf("ANIWATCH_CACHE_MAX_ENTRIES must be positive, got %d", c.CacheMaxEntries)
	}
	if c.CacheBackend == BackendRedis && c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required for the redis cache backend")
	}
	if _, err := language.Parse(c.Language); err != nil {
		return fmt.Errorf("invalid ANIWATCH_LANGUAGE %q: %w", c.Language, err)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return nil
}

// LanguageTag returns the configured language. Invalid values fall back to
// Simplified Chinese.
func (c *Config) LanguageTag() language.Tag {
	tag, err := language.Parse(c.Language)
	if err != nil {
		return language.SimplifiedChinese
	}
	return tag
}

// Logger builds the root logger writing to w, or stderr when w is nil.
func (c *Config) Logger(w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if c.LogPretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
