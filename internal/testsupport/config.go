package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/boggdan95/photo-to-post/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.BaseDir = filepath.Join(base, "pipeline")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WithGridMode enables the grid scheduler on the test config.
func WithGridMode(groupSize int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Schedule.GridMode = true
		cfg.Schedule.GridGroupSize = groupSize
	}
}

// WithCadence sets the publishing cadence and preferred times.
func WithCadence(postsPerWeek float64, times ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Schedule.PostsPerWeek = postsPerWeek
		if len(times) > 0 {
			cfg.Schedule.PreferredTimes = times
		}
	}
}
