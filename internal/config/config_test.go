package config

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

var envKeys = []string{
	"PORT", "ANIWATCH_PROVIDER", "ANIWATCH_LANGUAGE", "LOG_LEVEL", "LOG_PRETTY",
	"ANIWATCH_CACHE_BACKEND", "ANIWATCH_CACHE_MAX_ENTRIES", "ANIWATCH_CACHE_DIR",
	"ANIWATCH_CACHE_RETENTION", "REDIS_ADDR", "JIKAN_BASE_URL", "ANILIST_ENDPOINT",
	"SESSION_LIFETIME",
}

// clearEnv unsets every variable Load reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "jikan", cfg.Provider)
	assert.Equal(t, "zh-CN", cfg.Language)
	assert.Equal(t, BackendMemory, cfg.CacheBackend)
	assert.Equal(t, 512, cfg.CacheMaxEntries)
	assert.Equal(t, "", cfg.CacheDir)
	assert.Equal(t, 24*time.Hour, cfg.CacheRetention)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "https://api.jikan.moe/v4", cfg.JikanBaseURL)
	assert.Equal(t, "https://graphql.anilist.co", cfg.AniListEndpoint)
	assert.Equal(t, 12*time.Hour, cfg.SessionLifetime)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANIWATCH_PROVIDER", " AniList ")
	t.Setenv("ANIWATCH_CACHE_BACKEND", "FILE")
	t.Setenv("ANIWATCH_CACHE_DIR", "/tmp/aniwatch")
	t.Setenv("ANIWATCH_CACHE_MAX_ENTRIES", "64")
	t.Setenv("SESSION_LIFETIME", "30m")
	t.Setenv("LOG_PRETTY", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "anilist", cfg.Provider)
	assert.Equal(t, BackendFile, cfg.CacheBackend)
	assert.Equal(t, "/tmp/aniwatch", cfg.CacheDir)
	assert.Equal(t, 64, cfg.CacheMaxEntries)
	assert.Equal(t, 30*time.Minute, cfg.SessionLifetime)
	assert.True(t, cfg.LogPretty)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANIWATCH_CACHE_MAX_ENTRIES", "lots")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	base, err := Load()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.Provider = "kitsu" }},
		{"unknown backend", func(c *Config) { c.CacheBackend = "memcached" }},
		{"zero cap", func(c *Config) { c.CacheMaxEntries = 0 }},
		{"redis without address", func(c *Config) { c.CacheBackend = BackendRedis; c.RedisAddr = "" }},
		{"bad language", func(c *Config) { c.Language = "not a tag!" }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *base
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLanguageTag(t *testing.T) {
	cfg := &Config{Language: "en-US"}
	assert.Equal(t, "en-US", cfg.LanguageTag().String())

	cfg.Language = "???"
	assert.Equal(t, language.SimplifiedChinese, cfg.LanguageTag())
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogLevel: "warn"}
	log := cfg.Logger(&buf)

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())
}
