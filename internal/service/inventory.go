package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pageza/pantrychef/backend/internal/models"
	"github.com/pageza/pantrychef/backend/internal/recommend"
)

// InventoryService reads a user's pantry.
type InventoryService struct {
	db *gorm.DB
}

func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db}
}

// CurrentInventory returns the user's unused stock with a positive quantity.
func (s *InventoryService) CurrentInventory(ctx context.Context, tx *gorm.DB, userID uint) ([]recommend.InventoryItem, error) {
	if tx == nil {
		tx = s.db
	}

	var rows []struct {
		Name           string
		Grams          float64
		ExpirationDate *time.Time
	}
	err := tx.WithContext(ctx).Table("user_foods").
		Select("foods.name AS name, user_foods.grams AS grams, user_foods.expiration_date AS expiration_date").
		Joins("JOIN foods ON foods.id = user_foods.food_id").
		Where("user_foods.user_id = ? AND user_foods.status = ? AND user_foods.grams > 0", userID, models.FoodStatusUnused).
		Order("user_foods.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]recommend.InventoryItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, recommend.InventoryItem{Name: r.Name, Grams: r.Grams, Expires: r.ExpirationDate})
	}
	return items, nil
}

// SavedAllergies returns the food names the user has marked as allergens.
func (s *InventoryService) SavedAllergies(ctx context.Context, tx *gorm.DB, userID uint) ([]string, error) {
	if tx == nil {
		tx = s.db
	}
	var names []string
	err := tx.WithContext(ctx).Model(&models.Allergen{}).Where("user_id = ?", userID).Order("id").Pluck("food_name", &names).Error
	return names, err
}
