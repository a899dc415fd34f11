package providers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aniwatch/aniwatch/anime"
	"github.com/aniwatch/aniwatch/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Provider:        "jikan",
		Language:        "zh-CN",
		CacheBackend:    config.BackendMemory,
		CacheMaxEntries: 16,
		JikanBaseURL:    "http://127.0.0.1:0/v4",
		AniListEndpoint: "http://127.0.0.1:0/graphql",
	}
}

func TestSetupRegistersAllProviders(t *testing.T) {
	registry, closeFn, err := Setup(testConfig(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })

	assert.Equal(t, []string{"anilist", "jikan"}, registry.List())
	assert.Equal(t, "jikan", registry.Default())

	p, ok := registry.Get("jikan")
	require.True(t, ok)
	_, discovers := p.(anime.Discoverer)
	assert.True(t, discovers)
	_, stats := p.(anime.StatisticsProvider)
	assert.True(t, stats)

	p, ok = registry.Get("anilist")
	require.True(t, ok)
	_, stats = p.(anime.StatisticsProvider)
	assert.False(t, stats)
}

func TestSetupDefaultProvider(t *testing.T) {
	cfg := testConfig()
	cfg.Provider = "anilist"

	registry, _, err := Setup(cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "anilist", registry.Default())

	cfg.Provider = "kitsu"
	registry, _, err = Setup(cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "jikan", registry.Default(), "unknown names keep the first registered provider")
}

func TestSetupFileBackendUsesProviderDirectories(t *testing.T) {
	cfg := testConfig()
	cfg.CacheBackend = config.BackendFile
	cfg.CacheDir = t.TempDir()

	_, _, err := Setup(cfg, zerolog.Nop())
	require.NoError(t, err)

	for _, name := range []string{"jikan", "anilist"} {
		info, err := os.Stat(filepath.Join(cfg.CacheDir, name))
		require.NoError(t, err, name)
		assert.True(t, info.IsDir())
	}
}

func TestSetupFileBackendError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	cfg := testConfig()
	cfg.CacheBackend = config.BackendFile
	cfg.CacheDir = blocker

	_, _, err := Setup(cfg, zerolog.Nop())
	assert.Error(t, err)
}
