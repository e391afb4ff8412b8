package types

import (
	"sort"
	"strings"
	"time"

	"github.com/pageza/pantrychef/backend/internal/recommend"
)

// ProposeRequest is the body of POST /recommendation/propose. Inventory,
// Recipes and History are optional overrides of server-held data; an empty
// list counts as omitted.
type ProposeRequest struct {
	UserID      *int64             `json:"user_id"`
	MaxTime     *int               `json:"max_time" binding:"required,gte=0"`
	MaxCalories *int               `json:"max_calories" binding:"required,gte=0"`
	Allergies   []string           `json:"allergies"`
	Inventory   []InventoryPayload `json:"inventory"`
	Recipes     []RecipePayload    `json:"recipes"`
	History     []HistoryPayload   `json:"history"`
}

// InventoryPayload is one client-supplied stock entry. Quantity and
// ExpirationDate are parsed leniently.
type InventoryPayload struct {
	Name           string `json:"name"`
	Quantity       any    `json:"quantity"`
	ExpirationDate any    `json:"expiration_date"`
}

// RecipePayload is one client-supplied catalog record.
type RecipePayload struct {
	ID          any            `json:"id"`
	Name        string         `json:"name"`
	Tags        []string       `json:"tags"`
	Features    map[string]any `json:"features"`
	RequiredQty map[string]any `json:"required_qty"`
	PrepTime    any            `json:"prep_time"`
	Calories    any            `json:"calories"`
	ImageURL    string         `json:"image_url"`
}

// HistoryPayload is one client-supplied cooking event.
type HistoryPayload struct {
	RecipeID    any `json:"recipe_id"`
	CompletedAt any `json:"completed_at"`
	Servings    any `json:"servings"`
}

// ProposalResponse is a ranked recipe plus the inventory metadata of the request.
type ProposalResponse struct {
	recommend.ProposalResult
	InventorySource string `json:"inventory_source"`
	InventoryCount  int    `json:"inventory_count"`
	InventoryLabel  string `json:"inventory_label"`
}

// ToInventory converts client stock. Entries without a name are dropped;
// bad or negative quantities become 0 and bad dates become absent.
func ToInventory(items []InventoryPayload, loc *time.Location) []recommend.InventoryItem {
	out := make([]recommend.InventoryItem, 0, len(items))
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			continue
		}
		qty, _ := ParseQuantity(item.Quantity)
		if qty < 0 {
			qty = 0
		}
		var expires *time.Time
		if t, ok := ParseTime(item.ExpirationDate, loc); ok {
			expires = &t
		}
		out = append(out, recommend.InventoryItem{Name: name, Grams: qty, Expires: expires})
	}
	return out
}

// ToRawRecipes converts client recipes. Records with an unusable id keep
// ID 0 and are rejected later by vectorization.
func ToRawRecipes(payloads []RecipePayload) []recommend.RawRecipe {
	out := make([]recommend.RawRecipe, 0, len(payloads))
	for _, p := range payloads {
		id, _ := ParseID(p.ID)

		features := make(map[string]float64, len(p.Features))
		for tag, v := range p.Features {
			if f, ok := ParseFlag(v); ok {
				features[tag] = f
			}
		}

		names := make([]string, 0, len(p.RequiredQty))
		for name := range p.RequiredQty {
			names = append(names, name)
		}
		sort.Strings(names)
		lines := make([]recommend.LineItem, 0, len(names))
		for _, name := range names {
			grams, _ := ParseQuantity(p.RequiredQty[name])
			lines = append(lines, recommend.LineItem{Name: name, Grams: grams})
		}

		out = append(out, recommend.RawRecipe{
			ID:          id,
			Name:        p.Name,
			Tags:        p.Tags,
			Features:    features,
			Ingredients: lines,
			PrepTime:    ParseLimit(p.PrepTime),
			Calories:    ParseLimit(p.Calories),
			ImageRef:    p.ImageURL,
		})
	}
	return out
}

// ToHistory converts client history. Events without a usable recipe id or
// timestamp are dropped; unparsable servings are treated as absent.
func ToHistory(payloads []HistoryPayload, loc *time.Location) []recommend.HistoryEvent {
	out := make([]recommend.HistoryEvent, 0, len(payloads))
	for _, p := range payloads {
		id, ok := ParseID(p.RecipeID)
		if !ok {
			continue
		}
		completed, ok := ParseTime(p.CompletedAt, loc)
		if !ok {
			continue
		}
		ev := recommend.HistoryEvent{RecipeID: id, CompletedAt: completed}
		if s, ok := ParseQuantity(p.Servings); ok {
			ev.Servings = &s
		}
		out = append(out, ev)
	}
	return out
}
