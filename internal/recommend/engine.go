package recommend

import (
	"sort"
	"time"
)

// Engine ranks recipes for one user. It holds only immutable configuration,
// so a single Engine may serve concurrent requests as long as each call gets
// its own Snapshot.
type Engine struct {
	cfg Config
	loc *time.Location
}

// NewEngine validates cfg and returns an Engine.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, loc: loc}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Location returns the reference timezone.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// BuildProfile builds a preference vector with the engine's decay settings.
func (e *Engine) BuildProfile(history []HistoryEvent, lookup map[int64]FeatureVector, now time.Time) FeatureVector {
	return BuildProfile(history, lookup, now.In(e.loc), e.cfg)
}

// Propose filters, scores and ranks snap.Recipes. Results are ordered by final
// score descending; ties keep catalog order. The snapshot is not modified.
func (e *Engine) Propose(snap Snapshot) []ProposalResult {
	profile := snap.Profile
	if !profile.Valid() {
		profile = ZeroVector()
	}
	exempt := e.cfg.ExemptSet(snap.Exempt)
	now := snap.Now
	if now.IsZero() {
		now = time.Now()
	}
	today := now.In(e.loc)

	results := make([]ProposalResult, 0, len(snap.Recipes))
	for _, recipe := range snap.Recipes {
		coverage, missing := Coverage(recipe, snap.Inventory, exempt)
		if coverage < e.cfg.MinCoverage {
			continue
		}
		if containsAllergen(recipe, snap.Params.Allergies) {
			continue
		}
		if recipe.PrepTime > snap.Params.MaxTime || recipe.Calories > snap.Params.MaxCalories {
			continue
		}

		preference := CosineSimilarity(profile, recipe.Vector)
		base := coverage*e.cfg.CoverageWeight + preference*e.cfg.PreferenceWeight
		boost := ExpirationBoost(recipe, snap.Inventory, exempt, e.cfg.ExpirationWindowDays, e.cfg.ExpirationBonus, today)

		required := make(map[string]float64, len(recipe.Required))
		for name, grams := range recipe.Required {
			required[name] = grams
		}

		results = append(results, ProposalResult{
			RecipeID:        recipe.ID,
			RecipeName:      recipe.Name,
			FinalScore:      base * (1 + boost),
			CoverageScore:   coverage,
			PreferenceScore: preference,
			ProfileVector:   profile.Clone(),
			ProfileLabels:   DimensionLabels(),
			PrepTime:        recipe.PrepTime,
			Calories:        recipe.Calories,
			IsBoosted:       boost > 0,
			MissingItems:    missing,
			RequiredQty:     required,
			ReqCount:        len(required),
			ImageURL:        recipe.ImageRef,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})
	return results
}

func containsAllergen(recipe Recipe, allergies map[string]struct{}) bool {
	if len(allergies) == 0 {
		return false
	}
	for name := range recipe.Required {
		if _, ok := allergies[name]; ok {
			return true
		}
	}
	return false
}
