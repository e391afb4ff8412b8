package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"sort"

	"gorm.io/gorm"

	"github.com/pageza/pantrychef/backend/internal/models"
	"github.com/pageza/pantrychef/backend/internal/recommend"
)

// CatalogService reads the recipe catalog and the food dictionary.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// SimilarRecipe is a neighbour of a recipe in feature space.
type SimilarRecipe struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	ImageURL   string  `json:"image_url,omitempty"`
	Similarity float64 `json:"similarity"`
}

type catalogLine struct {
	RecipeID uint
	Name     sql.NullString
	Grams    float64
}

// LoadCatalog returns every recipe as a raw record in id order. Lines whose
// food is missing carry an empty name and are dropped during vectorization.
func (s *CatalogService) LoadCatalog(ctx context.Context, tx *gorm.DB) ([]recommend.RawRecipe, error) {
	tx = s.conn(ctx, tx)

	var recipes []models.Recipe
	if err := tx.Model(&models.Recipe{}).
		Select("id", "name", "cooking_time", "calories", "image_url", "tags").
		Order("id").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return nil, nil
	}

	var lines []catalogLine
	if err := tx.Table("recipe_foods").
		Select("recipe_foods.recipe_id AS recipe_id, foods.name AS name, recipe_foods.grams AS grams").
		Joins("LEFT JOIN foods ON foods.id = recipe_foods.food_id").
		Order("recipe_foods.recipe_id, recipe_foods.id").
		Scan(&lines).Error; err != nil {
		return nil, err
	}

	byRecipe := make(map[uint][]recommend.LineItem, len(recipes))
	for _, l := range lines {
		byRecipe[l.RecipeID] = append(byRecipe[l.RecipeID], recommend.LineItem{Name: l.Name.String, Grams: l.Grams})
	}

	raws := make([]recommend.RawRecipe, 0, len(recipes))
	for _, r := range recipes {
		raws = append(raws, recommend.RawRecipe{
			ID:          int64(r.ID),
			Name:        r.Name,
			Tags:        r.Tags,
			Ingredients: byRecipe[r.ID],
			PrepTime:    r.CookingTime,
			Calories:    r.Calories,
			ImageRef:    r.ImageURL,
		})
	}
	return raws, nil
}

// SeasoningNames returns the foods that are not tracked in the pantry.
func (s *CatalogService) SeasoningNames(ctx context.Context, tx *gorm.DB) (map[string]struct{}, error) {
	var names []string
	if err := s.conn(ctx, tx).Model(&models.Food{}).Where("is_trackable = ?", false).Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set, nil
}

// Resolver builds a name resolver over foods and their aliases.
func (s *CatalogService) Resolver(ctx context.Context, tx *gorm.DB) (*recommend.CatalogResolver, error) {
	tx = s.conn(ctx, tx)

	var names []string
	if err := tx.Model(&models.Food{}).Pluck("name", &names).Error; err != nil {
		return nil, err
	}

	var rows []struct {
		Alias string
		Name  string
	}
	if err := tx.Table("food_aliases").
		Select("food_aliases.alias AS alias, foods.name AS name").
		Joins("JOIN foods ON foods.id = food_aliases.food_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	aliases := make(map[string]string, len(rows))
	for _, r := range rows {
		aliases[r.Alias] = r.Name
	}

	return recommend.NewCatalogResolver(names, aliases), nil
}

// SimilarRecipes returns up to limit recipes closest to recipeID by tag
// vector. Postgres ranks with pgvector's cosine distance; other dialects
// rank in memory.
func (s *CatalogService) SimilarRecipes(ctx context.Context, recipeID uint, limit int) ([]SimilarRecipe, error) {
	if limit <= 0 {
		limit = 10
	}
	db := s.db.WithContext(ctx)

	var target models.Recipe
	if err := db.Select("id", "name", "tags").First(&target, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	if db.Dialector.Name() == "postgres" {
		var rows []struct {
			ID       uint
			Name     string
			ImageURL string
			Distance sql.NullFloat64
		}
		err := db.Model(&models.Recipe{}).
			Select("id, name, image_url, feature_vector <=> (SELECT feature_vector FROM recipes WHERE id = ?) AS distance", recipeID).
			Where("id <> ?", recipeID).
			Order("distance").
			Limit(limit).
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		out := make([]SimilarRecipe, 0, len(rows))
		for _, r := range rows {
			sim := 0.0
			// pgvector reports NaN distance for all-zero vectors
			if r.Distance.Valid && !math.IsNaN(r.Distance.Float64) {
				sim = 1 - r.Distance.Float64
			}
			out = append(out, SimilarRecipe{ID: r.ID, Name: r.Name, ImageURL: r.ImageURL, Similarity: sim})
		}
		return out, nil
	}

	var candidates []models.Recipe
	if err := db.Select("id", "name", "image_url", "tags").Where("id <> ?", recipeID).Order("id").Find(&candidates).Error; err != nil {
		return nil, err
	}
	targetVec := recommend.VectorFromTags(target.Tags)
	out := make([]SimilarRecipe, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, SimilarRecipe{
			ID:         c.ID,
			Name:       c.Name,
			ImageURL:   c.ImageURL,
			Similarity: recommend.CosineSimilarity(targetVec, recommend.VectorFromTags(c.Tags)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *CatalogService) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx == nil {
		tx = s.db
	}
	return tx.WithContext(ctx)
}
