package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/pantrychef/backend/internal/recommend"
)

func TestLoadRecommendationDefaults(t *testing.T) {
	cfg, err := LoadRecommendation("")
	require.NoError(t, err)
	assert.Equal(t, recommend.DefaultConfig(), cfg)
}

func TestLoadRecommendationFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	yaml := "min_coverage: 0.5\nexpiration_window_days: 5\nseasoning_exempt:\n  - salt\n  - wasabi\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("RECOMMEND_EXPIRATION_BONUS", "0.25")

	cfg, err := LoadRecommendation(path)
	require.NoError(t, err)

	assert.Equal(t, 0.5, cfg.MinCoverage)
	assert.Equal(t, 5, cfg.ExpirationWindowDays)
	assert.Equal(t, 0.25, cfg.ExpirationBonus)
	assert.Equal(t, []string{"salt", "wasabi"}, cfg.SeasoningExempt)
	assert.Equal(t, 0.7, cfg.CoverageWeight)
}

func TestLoadRecommendationEnvList(t *testing.T) {
	t.Setenv("RECOMMEND_SEASONING_EXEMPT", "salt, pepper")

	cfg, err := LoadRecommendation("")
	require.NoError(t, err)
	assert.Equal(t, []string{"salt", "pepper"}, cfg.SeasoningExempt)
}

func TestLoadRecommendationRejectsInvalidTuning(t *testing.T) {
	t.Setenv("RECOMMEND_MIN_COVERAGE", "2")

	_, err := LoadRecommendation("")
	assert.Error(t, err)
}

func TestLoadRecommendationMissingFile(t *testing.T) {
	_, err := LoadRecommendation(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
