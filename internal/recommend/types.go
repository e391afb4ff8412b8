package recommend

import (
	"time"
)

// Recipe is a vectorized catalog entry. It is never mutated by the engine.
type Recipe struct {
	ID       int64
	Name     string
	Vector   FeatureVector
	Required map[string]float64 // ingredient name -> grams
	PrepTime int                // minutes
	Calories int
	ImageRef string
}

// LineItem is one ingredient line of a raw recipe record.
type LineItem struct {
	Name  string
	Grams float64
}

// RawRecipe is a catalog record before vectorization.
type RawRecipe struct {
	ID       int64
	Name     string
	Tags     []string
	Features map[string]float64
	// Vector, when it has canonical length, is used as-is instead of Tags and Features.
	Vector      FeatureVector
	Ingredients []LineItem
	PrepTime    int
	Calories    int
	ImageRef    string
}

// InventoryItem is one row of a user's stock.
type InventoryItem struct {
	Name    string
	Grams   float64
	Expires *time.Time
}

// Stock is the on-hand state of one ingredient.
type Stock struct {
	Grams   float64
	Expires *time.Time
}

// Inventory indexes stock by ingredient name.
type Inventory map[string]Stock

// NewInventory builds a read-only index from items. Duplicate names are merged:
// quantities are summed and the earliest expiration wins.
func NewInventory(items []InventoryItem) Inventory {
	inv := make(Inventory, len(items))
	for _, item := range items {
		if item.Name == "" {
			continue
		}
		cur, ok := inv[item.Name]
		if !ok {
			inv[item.Name] = Stock{Grams: item.Grams, Expires: item.Expires}
			continue
		}
		cur.Grams += item.Grams
		if item.Expires != nil && (cur.Expires == nil || item.Expires.Before(*cur.Expires)) {
			cur.Expires = item.Expires
		}
		inv[item.Name] = cur
	}
	return inv
}

// UserParameters are the caller's hard constraints.
type UserParameters struct {
	MaxTime     int
	MaxCalories int
	Allergies   map[string]struct{}
}

// NewUserParameters builds parameters from an allergy list.
func NewUserParameters(maxTime, maxCalories int, allergies []string) UserParameters {
	set := make(map[string]struct{}, len(allergies))
	for _, a := range allergies {
		if a != "" {
			set[a] = struct{}{}
		}
	}
	return UserParameters{MaxTime: maxTime, MaxCalories: maxCalories, Allergies: set}
}

// HistoryEvent records one completed cooking of a recipe.
type HistoryEvent struct {
	RecipeID    int64
	CompletedAt time.Time
	Servings    *float64
}

// ProposalResult is one ranked recipe.
type ProposalResult struct {
	RecipeID        int64              `json:"recipe_id"`
	RecipeName      string             `json:"recipe_name"`
	FinalScore      float64            `json:"final_score"`
	CoverageScore   float64            `json:"coverage_score"`
	PreferenceScore float64            `json:"preference_score"`
	ProfileVector   []float64          `json:"user_preference_vector"`
	ProfileLabels   []string           `json:"user_preference_labels"`
	PrepTime        int                `json:"prep_time"`
	Calories        int                `json:"calories"`
	IsBoosted       bool               `json:"is_boosted"`
	MissingItems    []string           `json:"missing_items"`
	RequiredQty     map[string]float64 `json:"required_qty"`
	ReqCount        int                `json:"req_count"`
	ImageURL        string             `json:"image_url,omitempty"`
}

// Snapshot is everything one proposal computation needs. It is built per
// request and discarded afterwards.
type Snapshot struct {
	Recipes   []Recipe
	Inventory Inventory
	Profile   FeatureVector
	Params    UserParameters
	// Exempt extends the configured seasoning set, e.g. with non-trackable foods.
	Exempt map[string]struct{}
	Now    time.Time
}
