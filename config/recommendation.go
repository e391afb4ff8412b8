package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/pageza/pantrychef/backend/internal/recommend"
)

// RecommendationEnvPrefix prefixes environment overrides of engine tuning,
// e.g. RECOMMEND_MIN_COVERAGE=0.5.
const RecommendationEnvPrefix = "RECOMMEND_"

// LoadRecommendation layers engine tuning: defaults, then the optional YAML
// file at path, then RECOMMEND_* environment variables.
func LoadRecommendation(path string) (recommend.Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(recommend.DefaultConfig(), "koanf"), nil); err != nil {
		return recommend.Config{}, fmt.Errorf("failed to load recommendation defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return recommend.Config{}, fmt.Errorf("failed to load recommendation config %s: %w", path, err)
		}
	}

	envProvider := env.Provider(RecommendationEnvPrefix, ".", func(key string) string {
		return strings.ToLower(strings.TrimPrefix(key, RecommendationEnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return recommend.Config{}, fmt.Errorf("failed to load recommendation environment: %w", err)
	}

	// env values arrive as strings
	if v, ok := k.Get("seasoning_exempt").(string); ok {
		if err := k.Set("seasoning_exempt", splitList(v)); err != nil {
			return recommend.Config{}, fmt.Errorf("failed to set seasoning_exempt: %w", err)
		}
	}

	var cfg recommend.Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return recommend.Config{}, fmt.Errorf("failed to unmarshal recommendation config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return recommend.Config{}, fmt.Errorf("invalid recommendation config: %w", err)
	}
	return cfg, nil
}
