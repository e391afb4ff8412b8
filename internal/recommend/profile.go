package recommend

import (
	"math"
	"time"
)

// BuildProfile averages the vectors of the recipes in history, weighting each
// event by exp(-DecayRate * age_days) and, when servings is a positive number,
// by max(servings, ServingsFloor). Events whose recipe is absent from lookup
// are ignored. With no usable weight the zero vector is returned.
//
// lookup may come from any catalog, including a client-supplied one.
func BuildProfile(history []HistoryEvent, lookup map[int64]FeatureVector, now time.Time, cfg Config) FeatureVector {
	total := ZeroVector()
	var totalWeight float64

	for _, ev := range history {
		vec, ok := lookup[ev.RecipeID]
		if !ok || !vec.Valid() || ev.CompletedAt.IsZero() {
			continue
		}

		w := math.Exp(-cfg.DecayRate * ageDays(now, ev.CompletedAt))
		if s := ev.Servings; s != nil && *s > 0 && !math.IsInf(*s, 0) {
			w *= math.Max(*s, cfg.ServingsFloor)
		}
		if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			continue
		}

		for i, x := range vec {
			total[i] += x * w
		}
		totalWeight += w
	}

	if totalWeight == 0 {
		return ZeroVector()
	}
	for i := range total {
		total[i] /= totalWeight
	}
	return total
}

// ageDays is the non-negative number of days between t and now.
func ageDays(now, t time.Time) float64 {
	d := now.Sub(t)
	if d < 0 {
		return 0
	}
	return d.Hours() / 24
}
