package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Username     string         `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// Allergen is a food the user never wants proposed. Saved allergens are
// merged with the allergies sent on each request.
type Allergen struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_allergen" json:"user_id"`
	FoodName  string    `gorm:"size:100;not null;uniqueIndex:idx_user_allergen" json:"food_name"`
	CreatedAt time.Time `json:"created_at"`
}

func (Allergen) TableName() string {
	return "allergens"
}
