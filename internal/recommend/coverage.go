package recommend

import (
	"fmt"
	"sort"
	"time"
)

// Coverage returns the share of the recipe's trackable requirement, by weight,
// that inventory can satisfy, together with sorted shortfall descriptions.
// Ingredients in exempt are ignored. A recipe with no trackable requirement
// scores 0, not 1.
func Coverage(recipe Recipe, inv Inventory, exempt map[string]struct{}) (float64, []string) {
	var totalRequired, totalCovered float64
	missing := []string{}

	for name, required := range recipe.Required {
		if _, skip := exempt[name]; skip {
			continue
		}
		stock := inv[name].Grams
		if stock < 0 {
			stock = 0
		}

		totalRequired += required
		if stock >= required {
			totalCovered += required
			continue
		}
		totalCovered += stock
		if stock > 0 {
			missing = append(missing, fmt.Sprintf("%s (%.1fg shortfall)", name, required-stock))
		} else {
			missing = append(missing, fmt.Sprintf("%s (%.1fg required)", name, required))
		}
	}
	sort.Strings(missing)

	if totalRequired == 0 {
		return 0.0, missing
	}
	return totalCovered / totalRequired, missing
}

// ExpirationBoost returns bonus when any trackable ingredient of the recipe is
// on hand and expires between today and today+windowDays inclusive. Already
// expired stock does not count. The boost is not cumulative. today should
// already be expressed in the reference timezone.
func ExpirationBoost(recipe Recipe, inv Inventory, exempt map[string]struct{}, windowDays int, bonus float64, today time.Time) float64 {
	start := dateOf(today, today.Location())
	end := start.AddDate(0, 0, windowDays)

	for name := range recipe.Required {
		if _, skip := exempt[name]; skip {
			continue
		}
		stock, ok := inv[name]
		if !ok || stock.Grams <= 0 || stock.Expires == nil {
			continue
		}
		// expiration dates are calendar dates; keep their own y/m/d
		y, m, d := stock.Expires.Date()
		exp := time.Date(y, m, d, 0, 0, 0, 0, start.Location())
		if !exp.Before(start) && !exp.After(end) {
			return bonus
		}
	}
	return 0.0
}

// dateOf truncates t to midnight of its calendar day in loc.
func dateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
