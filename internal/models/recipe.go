package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/pageza/pantrychef/backend/internal/recommend"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

type Recipe struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	DeletedAt     gorm.DeletedAt   `gorm:"index" json:"-"`
	Name          string           `gorm:"size:255;not null" json:"name"`
	Description   string           `gorm:"type:text" json:"description"`
	CookingTime   int              `gorm:"not null;default:0" json:"cooking_time"`
	Calories      int              `gorm:"not null;default:0" json:"calories"`
	ImageURL      string           `gorm:"size:255" json:"image_url"`
	Tags          JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"tags"`
	FeatureVector pgvector.Vector  `gorm:"type:vector(18)" json:"-"`
	Ingredients   []RecipeFood     `gorm:"constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// BeforeSave keeps FeatureVector in sync with Tags.
func (r *Recipe) BeforeSave(tx *gorm.DB) error {
	r.FeatureVector = pgvector.NewVector(recommend.VectorFromTags(r.Tags).Float32())
	return nil
}

// RecipeFood is one ingredient line of a recipe.
type RecipeFood struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	RecipeID uint    `gorm:"not null;index" json:"recipe_id"`
	FoodID   uint    `gorm:"not null;index" json:"food_id"`
	Grams    float64 `gorm:"not null" json:"grams"`
	Food     Food    `json:"food"`
}

func (RecipeFood) TableName() string {
	return "recipe_foods"
}
