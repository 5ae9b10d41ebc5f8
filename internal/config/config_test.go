package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"georeduce/internal/reduce"
)

func TestLoadDefaults(t *testing.T) {
	c := Load()
	require.Equal(t, 5, c.Precision)
	require.Equal(t, 10, c.Reduce)
	require.Equal(t, "mode", c.Strategy)
	require.Equal(t, CacheMemory, c.Cache)
	require.Equal(t, "custom-geojson.json", c.ExportName)
	require.NoError(t, c.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GEOREDUCE_PRECISION", "3")
	t.Setenv("GEOREDUCE_REDUCE", "4")
	t.Setenv("GEOREDUCE_TOLERANCE", "0.01")
	t.Setenv("GEOREDUCE_STRATEGY", "mean")
	t.Setenv("GEOREDUCE_FETCH_TIMEOUT", "2s")
	t.Setenv("GEOREDUCE_CACHE", "Redis")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_DB", "not-a-number")

	c := Load()
	require.Equal(t, 3, c.Precision)
	require.Equal(t, 4, c.Reduce)
	require.Equal(t, 0.01, c.Tolerance)
	require.Equal(t, 2*time.Second, c.FetchTimeout)
	require.Equal(t, CacheRedis, c.Cache)
	require.Equal(t, "cache:6380", c.RedisAddr)
	require.Equal(t, 0, c.RedisDB)

	rc, err := c.ReductionConfig()
	require.NoError(t, err)
	require.Equal(t, reduce.Config{Precision: 3, Reduce: 4, Tolerance: 0.01, Strategy: reduce.StrategyMean}, rc)
}

func TestStrategyPolicy(t *testing.T) {
	c := Load()
	c.Strategy = "median"

	rc, err := c.ReductionConfig()
	require.NoError(t, err)
	require.Equal(t, reduce.StrategyMode, rc.Strategy)

	c.StrictStrategy = true
	_, err = c.ReductionConfig()
	require.ErrorIs(t, err, reduce.ErrUnknownStrategy)
	require.ErrorContains(t, c.Validate(), "validate `strategy`")
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"negative precision", func(c *Config) { c.Precision = -1 }, "validate `precision`"},
		{"precision too large", func(c *Config) { c.Precision = 30 }, "validate `precision`"},
		{"negative reduce", func(c *Config) { c.Reduce = -2 }, "validate `reduce`"},
		{"negative tolerance", func(c *Config) { c.Tolerance = -0.5 }, "validate `tolerance`"},
		{"cache backend", func(c *Config) { c.Cache = "memcached" }, "validate `cache`"},
		{"fetch timeout", func(c *Config) { c.FetchTimeout = 0 }, "validate `fetch_timeout`"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := Load()
			tc.mutate(c)
			require.ErrorContains(t, c.Validate(), tc.errMsg)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GEOREDUCE_STRATEGY=skip\n"), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	// register a restore, then clear so the file value is not shadowed
	t.Setenv("GEOREDUCE_STRATEGY", "")
	require.NoError(t, os.Unsetenv("GEOREDUCE_STRATEGY"))

	LoadDotEnv()
	require.Equal(t, "skip", Load().Strategy)
}
