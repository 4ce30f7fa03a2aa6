package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViperDefaults(t *testing.T) {
	cfg, err := FromViper(NewViper())
	require.NoError(t, err)

	assert.Equal(t, "dance", cfg.SearchQuery)
	assert.Equal(t, 12, cfg.SkipPercent)
	assert.Equal(t, 20, cfg.MaxVideos)
	assert.Equal(t, 20*time.Second, cfg.SearchWait)
	assert.Equal(t, 15*time.Second, cfg.VideoWait)
	assert.Zero(t, cfg.LoginTimeout)
	assert.Equal(t, 15, cfg.WatchMin)
	assert.Equal(t, 45, cfg.WatchMax)
	assert.Equal(t, 3, cfg.ScrollCount)
	assert.Equal(t, "./user_data", cfg.UserDataDir)
	assert.True(t, cfg.EncodeQuery)
}

func TestFromViperEnvironment(t *testing.T) {
	t.Setenv("SEARCH_QUERY", "cats")
	t.Setenv("SKIP_PERCENT", "40")
	t.Setenv("MAX_VIDEOS", "5")
	t.Setenv("TIKTOK_USERNAME", "someone")
	t.Setenv("SEARCH_WAIT", "30000")
	t.Setenv("VIDEO_WAIT", "5s")
	t.Setenv("LOGIN_TIMEOUT", "2m")

	cfg, err := FromViper(NewViper())
	require.NoError(t, err)

	assert.Equal(t, "cats", cfg.SearchQuery)
	assert.Equal(t, 40, cfg.SkipPercent)
	assert.Equal(t, 5, cfg.MaxVideos)
	assert.Equal(t, "someone", cfg.Username)
	assert.Equal(t, 30*time.Second, cfg.SearchWait)
	assert.Equal(t, 5*time.Second, cfg.VideoWait)
	assert.Equal(t, 2*time.Minute, cfg.LoginTimeout)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SKIP_PERCENT=77\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("SKIP_PERCENT") })

	require.NoError(t, LoadDotEnv(path))

	cfg, err := FromViper(NewViper())
	require.NoError(t, err)
	assert.Equal(t, 77, cfg.SkipPercent)
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"skip below range", func(c *Config) { c.SkipPercent = -1 }},
		{"skip above range", func(c *Config) { c.SkipPercent = 101 }},
		{"no videos", func(c *Config) { c.MaxVideos = 0 }},
		{"zero search wait", func(c *Config) { c.SearchWait = 0 }},
		{"zero video wait", func(c *Config) { c.VideoWait = 0 }},
		{"negative login timeout", func(c *Config) { c.LoginTimeout = -time.Second }},
		{"inverted watch range", func(c *Config) { c.WatchMin, c.WatchMax = 50, 10 }},
		{"negative scrolls", func(c *Config) { c.ScrollCount = -1 }},
		{"empty query", func(c *Config) { c.SearchQuery = "" }},
		{"empty profile", func(c *Config) { c.UserDataDir = "" }},
	}

	require.NoError(t, Default().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateBoundaries(t *testing.T) {
	cfg := Default()
	cfg.SkipPercent = 0
	require.NoError(t, cfg.Validate())

	cfg.SkipPercent = 100
	require.NoError(t, cfg.Validate())
}
