package recommend

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func servings(v float64) *float64 { return &v }

func TestBuildProfileWithoutHistory(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	profile := BuildProfile(nil, map[int64]FeatureVector{}, now, DefaultConfig())

	require.True(t, profile.Valid())
	assert.Equal(t, ZeroVector(), profile)
}

func TestBuildProfileSingleEvent(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	vec := VectorFromTags([]string{"is_japanese", "type_meat"})
	lookup := map[int64]FeatureVector{7: vec}

	profile := BuildProfile([]HistoryEvent{{RecipeID: 7, CompletedAt: now.AddDate(0, 0, -20)}}, lookup, now, DefaultConfig())

	for i := range vec {
		assert.InDelta(t, vec[i], profile[i], 1e-12)
	}
}

func TestBuildProfileDecaysOlderEvents(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	lookup := map[int64]FeatureVector{
		1: VectorFromTags([]string{"is_japanese"}),
		2: VectorFromTags([]string{"is_western"}),
	}
	history := []HistoryEvent{
		{RecipeID: 1, CompletedAt: now},
		{RecipeID: 2, CompletedAt: now.AddDate(0, 0, -14)},
	}

	profile := BuildProfile(history, lookup, now, DefaultConfig())

	old := math.Exp(-0.05 * 14)
	jp, _ := DimensionIndex("is_japanese")
	we, _ := DimensionIndex("is_western")
	assert.InDelta(t, 1/(1+old), profile[jp], 1e-9)
	assert.InDelta(t, old/(1+old), profile[we], 1e-9)
	assert.Greater(t, profile[jp], profile[we])
}

func TestBuildProfileServingsWeighting(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	lookup := map[int64]FeatureVector{
		1: VectorFromTags([]string{"is_japanese"}),
		2: VectorFromTags([]string{"is_western"}),
	}
	jp, _ := DimensionIndex("is_japanese")

	t.Run("more servings weigh more", func(t *testing.T) {
		profile := BuildProfile([]HistoryEvent{
			{RecipeID: 1, CompletedAt: now, Servings: servings(3)},
			{RecipeID: 2, CompletedAt: now, Servings: servings(1)},
		}, lookup, now, DefaultConfig())
		assert.InDelta(t, 0.75, profile[jp], 1e-9)
	})

	t.Run("tiny servings are floored", func(t *testing.T) {
		profile := BuildProfile([]HistoryEvent{
			{RecipeID: 1, CompletedAt: now, Servings: servings(0.01)},
			{RecipeID: 2, CompletedAt: now, Servings: servings(0.1)},
		}, lookup, now, DefaultConfig())
		assert.InDelta(t, 0.5, profile[jp], 1e-9)
	})

	t.Run("zero servings are ignored", func(t *testing.T) {
		profile := BuildProfile([]HistoryEvent{
			{RecipeID: 1, CompletedAt: now, Servings: servings(0)},
			{RecipeID: 2, CompletedAt: now},
		}, lookup, now, DefaultConfig())
		assert.InDelta(t, 0.5, profile[jp], 1e-9)
	})
}

func TestBuildProfileIgnoresUnknownRecipes(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	lookup := map[int64]FeatureVector{1: VectorFromTags([]string{"is_chinese"})}

	profile := BuildProfile([]HistoryEvent{
		{RecipeID: 99, CompletedAt: now},
		{RecipeID: 1, CompletedAt: now.AddDate(0, 0, -3)},
	}, lookup, now, DefaultConfig())

	assert.Equal(t, lookup[1], profile)

	onlyUnknown := BuildProfile([]HistoryEvent{{RecipeID: 99, CompletedAt: now}}, lookup, now, DefaultConfig())
	assert.Equal(t, ZeroVector(), onlyUnknown)
}

func TestBuildProfileFutureEventsCountAsToday(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	lookup := map[int64]FeatureVector{
		1: VectorFromTags([]string{"is_japanese"}),
		2: VectorFromTags([]string{"is_western"}),
	}
	jp, _ := DimensionIndex("is_japanese")

	profile := BuildProfile([]HistoryEvent{
		{RecipeID: 1, CompletedAt: now.AddDate(0, 0, 5)},
		{RecipeID: 2, CompletedAt: now},
	}, lookup, now, DefaultConfig())

	assert.InDelta(t, 0.5, profile[jp], 1e-9)
}
