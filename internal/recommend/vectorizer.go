package recommend

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/pageza/pantrychef/backend/internal/logging"
)

// ErrMalformedRecord marks a catalog record that cannot be vectorized.
var ErrMalformedRecord = errors.New("malformed recipe record")

// Resolver maps a free-form ingredient name to its canonical name.
type Resolver interface {
	Resolve(name string) (string, bool)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(name string) (string, bool)

// Resolve calls f.
func (f ResolverFunc) Resolve(name string) (string, bool) {
	return f(name)
}

// IdentityResolver accepts any non-blank name as already canonical.
var IdentityResolver = ResolverFunc(func(name string) (string, bool) {
	name = strings.TrimSpace(name)
	return name, name != ""
})

// CatalogResolver resolves names against a known set of canonical ingredients
// and their aliases, ignoring case and surrounding whitespace.
type CatalogResolver struct {
	names map[string]string
}

// NewCatalogResolver builds a resolver from canonical names and an
// alias -> canonical map. Aliases pointing at unknown names are ignored.
func NewCatalogResolver(canonical []string, aliases map[string]string) *CatalogResolver {
	r := &CatalogResolver{names: make(map[string]string, len(canonical)+len(aliases))}
	for _, name := range canonical {
		name = strings.TrimSpace(name)
		if name != "" {
			r.names[strings.ToLower(name)] = name
		}
	}
	for alias, target := range aliases {
		canon, ok := r.names[strings.ToLower(strings.TrimSpace(target))]
		if !ok {
			continue
		}
		r.names[strings.ToLower(strings.TrimSpace(alias))] = canon
	}
	return r
}

// Resolve implements Resolver.
func (r *CatalogResolver) Resolve(name string) (string, bool) {
	canon, ok := r.names[strings.ToLower(strings.TrimSpace(name))]
	return canon, ok
}

// ChainResolver tries each resolver in order and returns the first match.
func ChainResolver(resolvers ...Resolver) Resolver {
	return ResolverFunc(func(name string) (string, bool) {
		for _, r := range resolvers {
			if r == nil {
				continue
			}
			if canon, ok := r.Resolve(name); ok {
				return canon, true
			}
		}
		return "", false
	})
}

// Vectorize converts one raw record into a Recipe. Line items that cannot be
// resolved, or that carry an invalid quantity, are dropped.
func Vectorize(raw RawRecipe, resolve Resolver) (Recipe, error) {
	if resolve == nil {
		resolve = IdentityResolver
	}
	name := strings.TrimSpace(raw.Name)
	switch {
	case raw.ID <= 0:
		return Recipe{}, fmt.Errorf("%w: id must be positive, got %d", ErrMalformedRecord, raw.ID)
	case name == "":
		return Recipe{}, fmt.Errorf("%w: recipe %d has no name", ErrMalformedRecord, raw.ID)
	case raw.PrepTime < 0 || raw.Calories < 0:
		return Recipe{}, fmt.Errorf("%w: recipe %d has negative prep time or calories", ErrMalformedRecord, raw.ID)
	}

	var vec FeatureVector
	if raw.Vector != nil {
		if !raw.Vector.Valid() {
			return Recipe{}, fmt.Errorf("%w: recipe %d vector has %d dimensions, want %d",
				ErrMalformedRecord, raw.ID, len(raw.Vector), Dimensions())
		}
		vec = raw.Vector.Clone()
	} else {
		vec = VectorFromTags(raw.Tags)
		for tag, v := range raw.Features {
			if i, ok := DimensionIndex(tag); ok && v > 0 {
				vec[i] = 1.0
			}
		}
	}

	required := make(map[string]float64, len(raw.Ingredients))
	for _, item := range raw.Ingredients {
		canon, ok := resolve.Resolve(item.Name)
		if !ok {
			logging.Debug().Int64("recipe_id", raw.ID).Str("ingredient", item.Name).Msg("dropping unresolved ingredient")
			continue
		}
		if math.IsNaN(item.Grams) || math.IsInf(item.Grams, 0) || item.Grams < 0 {
			logging.Debug().Int64("recipe_id", raw.ID).Str("ingredient", canon).Msg("dropping ingredient with invalid quantity")
			continue
		}
		required[canon] += item.Grams
	}

	return Recipe{
		ID:       raw.ID,
		Name:     name,
		Vector:   vec,
		Required: required,
		PrepTime: raw.PrepTime,
		Calories: raw.Calories,
		ImageRef: raw.ImageRef,
	}, nil
}

// VectorizeCatalog vectorizes every record, skipping malformed ones and
// duplicate IDs with a warning. It returns the recipes in input order and the
// number of records skipped.
func VectorizeCatalog(raws []RawRecipe, resolve Resolver) ([]Recipe, int) {
	recipes := make([]Recipe, 0, len(raws))
	seen := make(map[int64]struct{}, len(raws))
	skipped := 0
	for _, raw := range raws {
		recipe, err := Vectorize(raw, resolve)
		if err != nil {
			logging.Warn().Err(err).Int64("recipe_id", raw.ID).Msg("skipping catalog record")
			skipped++
			continue
		}
		if _, dup := seen[recipe.ID]; dup {
			logging.Warn().Int64("recipe_id", recipe.ID).Msg("skipping duplicate catalog record")
			skipped++
			continue
		}
		seen[recipe.ID] = struct{}{}
		recipes = append(recipes, recipe)
	}
	return recipes, skipped
}

// VectorLookup indexes recipe vectors by ID.
func VectorLookup(recipes []Recipe) map[int64]FeatureVector {
	lookup := make(map[int64]FeatureVector, len(recipes))
	for _, r := range recipes {
		lookup[r.ID] = r.Vector
	}
	return lookup
}
