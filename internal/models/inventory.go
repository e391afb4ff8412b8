package models

import "time"

const (
	FoodStatusUnused  = "unused"
	FoodStatusUsed    = "used"
	FoodStatusDeleted = "deleted"
)

// UserFood is one item in a user's pantry.
type UserFood struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;index" json:"user_id"`
	FoodID         uint       `gorm:"not null;index" json:"food_id"`
	Grams          float64    `gorm:"not null" json:"quantity_g"`
	ExpirationDate *time.Time `gorm:"type:date" json:"expiration_date,omitempty"`
	Status         string     `gorm:"size:20;not null;default:'unused';index" json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Food           Food       `json:"food"`
}

func (UserFood) TableName() string {
	return "user_foods"
}

// UserRecipeHistory records that a user cooked a recipe.
type UserRecipeHistory struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;index" json:"user_id"`
	RecipeID uint      `gorm:"not null;index" json:"recipe_id"`
	Servings *float64  `json:"servings,omitempty"`
	CookedAt time.Time `gorm:"not null;index" json:"cooked_at"`
}

func (UserRecipeHistory) TableName() string {
	return "user_recipe_histories"
}

// All lists every model for auto-migration.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Allergen{},
		&Food{},
		&FoodAlias{},
		&Recipe{},
		&RecipeFood{},
		&UserFood{},
		&UserRecipeHistory{},
	}
}
