package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 2.0, cfg.Mastery.HintPenaltyPerHint)
	assert.Equal(t, 10.0, cfg.Mastery.MaxHintPenalty)
	assert.Equal(t, 14*24*time.Hour, cfg.Mastery.HalfLife)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 5*time.Minute, cfg.CleanupInterval)
	assert.Equal(t, 6*time.Hour, cfg.Queue.UrgentWithin)
	assert.Equal(t, 24*time.Hour, cfg.Queue.SoonWithin)
	assert.Equal(t, 48*time.Hour, cfg.Queue.Horizon)
	assert.Equal(t, 85.0, cfg.MasteredThreshold)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conjuga.yaml")
	content := `
mastery:
  max_hint_penalty: 6
  half_life: 72h
cache:
  ttl: 10m
schedule:
  urgent_within: 2h
log:
  level: DEBUG
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6.0, cfg.Mastery.MaxHintPenalty)
	assert.Equal(t, 72*time.Hour, cfg.Mastery.HalfLife)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 2*time.Hour, cfg.Queue.UrgentWithin)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 2.0, cfg.Mastery.HintPenaltyPerHint)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONJUGA_CACHE_TTL", "45m")
	t.Setenv("CONJUGA_MASTERY_HINT_PENALTY_PER_HINT", "3.5")
	t.Setenv("CONJUGA_DB", "/tmp/x.db")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 45*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 3.5, cfg.Mastery.HintPenaltyPerHint)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("CONJUGA_SCHEDULE_SOON_WITHIN", "1h")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedule")
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"ttl", func(c *Config) { c.CacheTTL = 0 }},
		{"threshold", func(c *Config) { c.MasteredThreshold = 120 }},
		{"log level", func(c *Config) { c.LogLevel = "trace" }},
		{"log format", func(c *Config) { c.LogFormat = "xml" }},
		{"half-life", func(c *Config) { c.Mastery.HalfLife = 0 }},
		{"difficulty", func(c *Config) { c.Difficulty.FastLatencyMs = 9000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
