package recommend

// FeatureDimensions is the canonical ordering of recipe tags. Every vector the
// engine compares must be built against this exact list.
var FeatureDimensions = []string{
	"is_japanese",
	"is_western",
	"is_chinese",
	"is_main_dish",
	"is_side_dish",
	"is_soup",
	"is_dessert",
	"type_meat",
	"type_seafood",
	"type_vegetarian",
	"type_composite",
	"type_other",
	"flavor_sweet",
	"flavor_spicy",
	"flavor_salty",
	"texture_stewed",
	"texture_fried",
	"texture_stir_fried",
}

// FeatureVector is a recipe or profile vector in FeatureDimensions order.
type FeatureVector []float64

var dimensionIndex = func() map[string]int {
	idx := make(map[string]int, len(FeatureDimensions))
	for i, dim := range FeatureDimensions {
		idx[dim] = i
	}
	return idx
}()

// Dimensions returns the number of canonical feature dimensions.
func Dimensions() int {
	return len(FeatureDimensions)
}

// ZeroVector returns a new all-zero vector of canonical length.
func ZeroVector() FeatureVector {
	return make(FeatureVector, len(FeatureDimensions))
}

// DimensionLabels returns a copy of the canonical dimension names.
func DimensionLabels() []string {
	labels := make([]string, len(FeatureDimensions))
	copy(labels, FeatureDimensions)
	return labels
}

// DimensionIndex returns the position of a tag in the canonical ordering.
func DimensionIndex(tag string) (int, bool) {
	i, ok := dimensionIndex[tag]
	return i, ok
}

// Valid reports whether v has the canonical dimensionality.
func (v FeatureVector) Valid() bool {
	return len(v) == len(FeatureDimensions)
}

// Clone returns a copy of v.
func (v FeatureVector) Clone() FeatureVector {
	if v == nil {
		return nil
	}
	out := make(FeatureVector, len(v))
	copy(out, v)
	return out
}

// Float32 converts v for storage in a pgvector column.
func (v FeatureVector) Float32() []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}

// VectorFromTags one-hot encodes tags against FeatureDimensions. Unknown tags
// are ignored.
func VectorFromTags(tags []string) FeatureVector {
	vec := ZeroVector()
	for _, tag := range tags {
		if i, ok := dimensionIndex[tag]; ok {
			vec[i] = 1.0
		}
	}
	return vec
}
