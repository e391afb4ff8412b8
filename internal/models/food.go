package models

import "time"

// Food is a canonical ingredient. Foods that are not trackable are pantry
// seasonings and never gate coverage.
type Food struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	IsTrackable bool      `gorm:"not null" json:"is_trackable"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Food) TableName() string {
	return "foods"
}

// FoodAlias maps an alternate spelling onto a Food.
type FoodAlias struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Alias  string `gorm:"size:100;not null;uniqueIndex" json:"alias"`
	FoodID uint   `gorm:"not null;index" json:"food_id"`
	Food   Food   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (FoodAlias) TableName() string {
	return "food_aliases"
}
