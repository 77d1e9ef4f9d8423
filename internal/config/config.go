// Package config loads runtime settings from defaults, an optional config
// file, and CONJUGA_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/abhisek/conjuga/internal/difficulty"
	"github.com/abhisek/conjuga/internal/mastery"
	"github.com/abhisek/conjuga/internal/spacedrep"
)

// EnvPrefix prefixes every environment override, e.g. CONJUGA_CACHE_TTL.
const EnvPrefix = "CONJUGA"

// Config is the full runtime configuration.
type Config struct {
	DBPath string

	Mastery    mastery.Config
	Queue      spacedrep.QueueConfig
	Difficulty difficulty.Config

	CacheTTL             time.Duration
	CleanupInterval      time.Duration // 0 disables the background sweep
	MasteredThreshold    float64       // cell score that enrolls the cell for review
	DifficultyCellSample int           // most recently practised cells fed to the evaluator

	LogLevel  string
	LogFormat string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Mastery:              mastery.DefaultConfig(),
		Queue:                spacedrep.DefaultQueueConfig(),
		Difficulty:           difficulty.DefaultConfig(),
		CacheTTL:             30 * time.Minute,
		CleanupInterval:      5 * time.Minute,
		MasteredThreshold:    85,
		DifficultyCellSample: 20,
		LogLevel:             "info",
		LogFormat:            "text",
	}
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("db", d.DBPath)

	v.SetDefault("mastery.hint_penalty_per_hint", d.Mastery.HintPenaltyPerHint)
	v.SetDefault("mastery.max_hint_penalty", d.Mastery.MaxHintPenalty)
	v.SetDefault("mastery.half_life", d.Mastery.HalfLife)
	v.SetDefault("mastery.ledger_timeout", d.Mastery.LedgerTimeout)
	v.SetDefault("mastery.cell_concurrency", d.Mastery.CellConcurrency)

	v.SetDefault("cache.ttl", d.CacheTTL)
	v.SetDefault("cache.cleanup_interval", d.CleanupInterval)

	v.SetDefault("schedule.urgent_within", d.Queue.UrgentWithin)
	v.SetDefault("schedule.soon_within", d.Queue.SoonWithin)
	v.SetDefault("schedule.horizon", d.Queue.Horizon)
	v.SetDefault("schedule.mastered_threshold", d.MasteredThreshold)

	v.SetDefault("difficulty.high_accuracy", d.Difficulty.HighAccuracy)
	v.SetDefault("difficulty.low_accuracy", d.Difficulty.LowAccuracy)
	v.SetDefault("difficulty.fast_latency_ms", d.Difficulty.FastLatencyMs)
	v.SetDefault("difficulty.slow_latency_ms", d.Difficulty.SlowLatencyMs)
	v.SetDefault("difficulty.strong_mastery_ratio", d.Difficulty.StrongMasteryRatio)
	v.SetDefault("difficulty.weak_mastery_ratio", d.Difficulty.WeakMasteryRatio)
	v.SetDefault("difficulty.hot_streak", d.Difficulty.HotStreak)
	v.SetDefault("difficulty.declining_ratio", d.Difficulty.DecliningRatio)
	v.SetDefault("difficulty.trend_window", d.Difficulty.TrendWindow)
	v.SetDefault("difficulty.recent_window", d.Difficulty.RecentWindow)
	v.SetDefault("difficulty.mastered_score", d.Difficulty.MasteredScore)
	v.SetDefault("difficulty.struggling_score", d.Difficulty.StrugglingScore)
	v.SetDefault("difficulty.cell_sample", d.DifficultyCellSample)

	v.SetDefault("log.level", d.LogLevel)
	v.SetDefault("log.format", d.LogFormat)
}

// Load reads configuration. path may be empty, in which case only defaults
// and environment overrides apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		DBPath: v.GetString("db"),
		Mastery: mastery.Config{
			HintPenaltyPerHint: v.GetFloat64("mastery.hint_penalty_per_hint"),
			MaxHintPenalty:     v.GetFloat64("mastery.max_hint_penalty"),
			HalfLife:           v.GetDuration("mastery.half_life"),
			LedgerTimeout:      v.GetDuration("mastery.ledger_timeout"),
			CellConcurrency:    v.GetInt("mastery.cell_concurrency"),
		},
		Queue: spacedrep.QueueConfig{
			UrgentWithin: v.GetDuration("schedule.urgent_within"),
			SoonWithin:   v.GetDuration("schedule.soon_within"),
			Horizon:      v.GetDuration("schedule.horizon"),
		},
		Difficulty: difficulty.Config{
			HighAccuracy:       v.GetFloat64("difficulty.high_accuracy"),
			LowAccuracy:        v.GetFloat64("difficulty.low_accuracy"),
			FastLatencyMs:      v.GetFloat64("difficulty.fast_latency_ms"),
			SlowLatencyMs:      v.GetFloat64("difficulty.slow_latency_ms"),
			StrongMasteryRatio: v.GetFloat64("difficulty.strong_mastery_ratio"),
			WeakMasteryRatio:   v.GetFloat64("difficulty.weak_mastery_ratio"),
			HotStreak:          v.GetInt("difficulty.hot_streak"),
			DecliningRatio:     v.GetFloat64("difficulty.declining_ratio"),
			TrendWindow:        v.GetInt("difficulty.trend_window"),
			RecentWindow:       v.GetInt("difficulty.recent_window"),
			MasteredScore:      v.GetFloat64("difficulty.mastered_score"),
			StrugglingScore:    v.GetFloat64("difficulty.struggling_score"),
		},
		CacheTTL:             v.GetDuration("cache.ttl"),
		CleanupInterval:      v.GetDuration("cache.cleanup_interval"),
		MasteredThreshold:    v.GetFloat64("schedule.mastered_threshold"),
		DifficultyCellSample: v.GetInt("difficulty.cell_sample"),
		LogLevel:             strings.ToLower(v.GetString("log.level")),
		LogFormat:            strings.ToLower(v.GetString("log.format")),
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Mastery.Validate(); err != nil {
		return errors.Wrap(err, "mastery")
	}
	if err := c.Queue.Validate(); err != nil {
		return errors.Wrap(err, "schedule")
	}
	if err := c.Difficulty.Validate(); err != nil {
		return errors.Wrap(err, "difficulty")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %s", c.CacheTTL)
	}
	if c.CleanupInterval < 0 {
		return fmt.Errorf("cleanup interval must be >= 0, got %s", c.CleanupInterval)
	}
	if c.MasteredThreshold <= 0 || c.MasteredThreshold > 100 {
		return fmt.Errorf("mastered threshold must be in (0,100], got %v", c.MasteredThreshold)
	}
	if c.DifficultyCellSample < 0 {
		return fmt.Errorf("difficulty cell sample must be >= 0, got %d", c.DifficultyCellSample)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}
