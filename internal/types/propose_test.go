package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/pantrychef/backend/internal/recommend"
)

func TestToInventoryIsLenient(t *testing.T) {
	body := `[
		{"name": "pork", "quantity": 10, "expiration_date": "2026-10-17"},
		{"name": " onion ", "quantity": "150g"},
		{"name": "egg", "quantity": "a few", "expiration_date": "someday"},
		{"name": "", "quantity": 5}
	]`
	var payload []InventoryPayload
	require.NoError(t, json.Unmarshal([]byte(body), &payload))

	items := ToInventory(payload, time.UTC)

	require.Len(t, items, 3)
	assert.Equal(t, "pork", items[0].Name)
	assert.Equal(t, 10.0, items[0].Grams)
	require.NotNil(t, items[0].Expires)
	assert.True(t, items[0].Expires.Equal(time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, recommend.InventoryItem{Name: "onion", Grams: 150}, items[1])
	assert.Equal(t, recommend.InventoryItem{Name: "egg", Grams: 0}, items[2])
}

func TestToRawRecipes(t *testing.T) {
	body := `[{
		"id": 3,
		"name": "mapo tofu",
		"tags": ["is_chinese"],
		"features": {"flavor_spicy": true, "is_main_dish": 1, "flavor_sweet": false},
		"required_qty": {"tofu": 300, "ground_pork": "50g"},
		"prep_time": "25",
		"calories": 550,
		"image_url": "recipes/mapo.jpg"
	}, {"id": "x", "name": "broken"}]`
	var payload []RecipePayload
	require.NoError(t, json.Unmarshal([]byte(body), &payload))

	raws := ToRawRecipes(payload)

	require.Len(t, raws, 2)
	r := raws[0]
	assert.Equal(t, int64(3), r.ID)
	assert.Equal(t, 25, r.PrepTime)
	assert.Equal(t, []recommend.LineItem{{Name: "ground_pork", Grams: 50}, {Name: "tofu", Grams: 300}}, r.Ingredients)
	assert.Equal(t, map[string]float64{"flavor_spicy": 1, "is_main_dish": 1, "flavor_sweet": 0}, r.Features)

	recipe, err := recommend.Vectorize(r, nil)
	require.NoError(t, err)
	assert.Equal(t, recommend.VectorFromTags([]string{"is_chinese", "flavor_spicy", "is_main_dish"}), recipe.Vector)

	_, err = recommend.Vectorize(raws[1], nil)
	assert.ErrorIs(t, err, recommend.ErrMalformedRecord)
}

func TestToHistoryDropsUnusableEvents(t *testing.T) {
	body := `[
		{"recipe_id": 1, "completed_at": "2026-10-10T12:00:00Z", "servings": 2},
		{"recipe_id": "2", "completed_at": "2026-10-11", "servings": "n/a"},
		{"recipe_id": 3, "completed_at": "last week"},
		{"completed_at": "2026-10-11"}
	]`
	var payload []HistoryPayload
	require.NoError(t, json.Unmarshal([]byte(body), &payload))

	events := ToHistory(payload, time.UTC)

	require.Len(t, events, 2)
	assert.Equal(t, int64(1), events[0].RecipeID)
	require.NotNil(t, events[0].Servings)
	assert.Equal(t, 2.0, *events[0].Servings)
	assert.Equal(t, int64(2), events[1].RecipeID)
	assert.Nil(t, events[1].Servings)
}

func TestProposalResponseFlattensResult(t *testing.T) {
	resp := ProposalResponse{
		ProposalResult:  recommend.ProposalResult{RecipeID: 1, RecipeName: "a", MissingItems: []string{}},
		InventorySource: "client",
		InventoryCount:  2,
		InventoryLabel:  "client inventory: 2 items",
	}

	b, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, float64(1), decoded["recipe_id"])
	assert.Equal(t, "client", decoded["inventory_source"])
	assert.NotContains(t, decoded, "image_url")
}

func TestToRawRecipesKeepsOversizedLimitsOutOfRange(t *testing.T) {
	body := `[
		{"id": 1, "name": "marathon stew", "required_qty": {"pork": 200}, "prep_time": 1e10, "calories": 5e9},
		{"id": 2, "name": "almost quick", "required_qty": {"pork": 200}, "prep_time": 30.4, "calories": 400},
		{"id": 3, "name": "quick", "required_qty": {"pork": 200}, "prep_time": "30", "calories": 400}
	]`
	var payload []RecipePayload
	require.NoError(t, json.Unmarshal([]byte(body), &payload))

	recipes, skipped := recommend.VectorizeCatalog(ToRawRecipes(payload), nil)
	require.Zero(t, skipped)
	require.Len(t, recipes, 3)
	assert.Equal(t, 10_000_000_000, recipes[0].PrepTime)
	assert.Equal(t, 31, recipes[1].PrepTime)

	engine, err := recommend.NewEngine(recommend.DefaultConfig())
	require.NoError(t, err)
	inv := recommend.NewInventory(ToInventory([]InventoryPayload{{Name: "pork", Quantity: 300}}, time.UTC))
	results := engine.Propose(recommend.Snapshot{
		Recipes:   recipes,
		Inventory: inv,
		Params:    recommend.UserParameters{MaxTime: 30, MaxCalories: 500},
		Now:       time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC),
	})

	require.Len(t, results, 1)
	assert.Equal(t, int64(3), results[0].RecipeID)
}

func TestToInventoryClampsNegativeQuantities(t *testing.T) {
	items := ToInventory([]InventoryPayload{
		{Name: "pork", Quantity: 300},
		{Name: "pork", Quantity: -300},
		{Name: "onion", Quantity: "-5g"},
	}, time.UTC)

	require.Len(t, items, 3)
	assert.Equal(t, 0.0, items[1].Grams)
	assert.Equal(t, 0.0, items[2].Grams)

	inv := recommend.NewInventory(items)
	assert.Equal(t, 300.0, inv["pork"].Grams)

	recipe := recommend.Recipe{ID: 1, Name: "pork stir fry", Vector: recommend.ZeroVector(), Required: map[string]float64{"pork": 200}}
	coverage, missing := recommend.Coverage(recipe, inv, nil)
	assert.InDelta(t, 1.0, coverage, 1e-12)
	assert.Empty(t, missing)
}
