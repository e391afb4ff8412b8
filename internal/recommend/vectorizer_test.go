package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorizeTagsAndFeatures(t *testing.T) {
	raw := RawRecipe{
		ID:       1,
		Name:     " Ginger Pork ",
		Tags:     []string{"is_japanese", "type_meat", "not_a_dimension"},
		Features: map[string]float64{"texture_stir_fried": 1, "flavor_sweet": 0},
		Ingredients: []LineItem{
			{Name: "pork", Grams: 250},
			{Name: "onion", Grams: 100},
		},
		PrepTime: 20,
		Calories: 600,
	}

	recipe, err := Vectorize(raw, nil)
	require.NoError(t, err)

	assert.Equal(t, "Ginger Pork", recipe.Name)
	assert.Equal(t, VectorFromTags([]string{"is_japanese", "type_meat", "texture_stir_fried"}), recipe.Vector)
	assert.Equal(t, map[string]float64{"pork": 250, "onion": 100}, recipe.Required)
	assert.Equal(t, 20, recipe.PrepTime)
}

func TestVectorizeUsesExplicitVector(t *testing.T) {
	vec := ZeroVector()
	vec[0] = 0.5

	recipe, err := Vectorize(RawRecipe{ID: 1, Name: "x", Vector: vec, Tags: []string{"is_western"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, vec, recipe.Vector)

	vec[0] = 0.9
	assert.Equal(t, 0.5, recipe.Vector[0], "vector must be copied")

	_, err = Vectorize(RawRecipe{ID: 2, Name: "y", Vector: FeatureVector{1, 2}}, nil)
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestVectorizeRejectsMalformedRecords(t *testing.T) {
	tests := []struct {
		name string
		raw  RawRecipe
	}{
		{"zero id", RawRecipe{ID: 0, Name: "a"}},
		{"blank name", RawRecipe{ID: 1, Name: "  "}},
		{"negative prep time", RawRecipe{ID: 1, Name: "a", PrepTime: -1}},
		{"negative calories", RawRecipe{ID: 1, Name: "a", Calories: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Vectorize(tt.raw, nil)
			assert.ErrorIs(t, err, ErrMalformedRecord)
		})
	}
}

func TestVectorizeDropsUnresolvedAndInvalidLines(t *testing.T) {
	resolver := NewCatalogResolver([]string{"Pork", "onion"}, map[string]string{"pork belly": "pork", "ghost": "missing"})
	raw := RawRecipe{
		ID:   1,
		Name: "stew",
		Ingredients: []LineItem{
			{Name: "PORK", Grams: 100},
			{Name: "pork belly", Grams: 50},
			{Name: "onion", Grams: -3},
			{Name: "ghost", Grams: 10},
			{Name: "unicorn", Grams: 10},
		},
	}

	recipe, err := Vectorize(raw, resolver)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Pork": 150}, recipe.Required)
}

func TestVectorizeAllowsEmptyRequirement(t *testing.T) {
	recipe, err := Vectorize(RawRecipe{ID: 4, Name: "water"}, nil)
	require.NoError(t, err)
	assert.Empty(t, recipe.Required)
	assert.True(t, recipe.Vector.Valid())
}

func TestVectorizeCatalogSkipsBadAndDuplicateRecords(t *testing.T) {
	raws := []RawRecipe{
		{ID: 1, Name: "a"},
		{ID: 0, Name: "broken"},
		{ID: 2, Name: "b"},
		{ID: 1, Name: "a again"},
	}

	recipes, skipped := VectorizeCatalog(raws, nil)

	assert.Equal(t, 2, skipped)
	require.Len(t, recipes, 2)
	assert.Equal(t, int64(1), recipes[0].ID)
	assert.Equal(t, "a", recipes[0].Name)
	assert.Equal(t, int64(2), recipes[1].ID)

	lookup := VectorLookup(recipes)
	assert.Len(t, lookup, 2)
}

func TestIdentityResolver(t *testing.T) {
	name, ok := IdentityResolver.Resolve("  tofu ")
	assert.True(t, ok)
	assert.Equal(t, "tofu", name)

	_, ok = IdentityResolver.Resolve("   ")
	assert.False(t, ok)
}

func TestChainResolverFallsBack(t *testing.T) {
	catalog := NewCatalogResolver([]string{"ground_pork"}, map[string]string{"minced pork": "ground_pork"})
	chain := ChainResolver(catalog, nil, IdentityResolver)

	name, ok := chain.Resolve("Minced Pork")
	assert.True(t, ok)
	assert.Equal(t, "ground_pork", name)

	name, ok = chain.Resolve(" shiso ")
	assert.True(t, ok)
	assert.Equal(t, "shiso", name)

	_, ok = ChainResolver(catalog).Resolve("shiso")
	assert.False(t, ok)
}
