package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/pageza/pantrychef/backend/internal/models"
	"github.com/pageza/pantrychef/backend/internal/recommend"
)

// HistoryService reads what a user has cooked.
type HistoryService struct {
	db *gorm.DB
}

func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{db: db}
}

// History returns the user's cooking events, oldest first.
func (s *HistoryService) History(ctx context.Context, tx *gorm.DB, userID uint) ([]recommend.HistoryEvent, error) {
	if tx == nil {
		tx = s.db
	}

	var rows []models.UserRecipeHistory
	if err := tx.WithContext(ctx).Where("user_id = ?", userID).Order("cooked_at, id").Find(&rows).Error; err != nil {
		return nil, err
	}

	events := make([]recommend.HistoryEvent, 0, len(rows))
	for _, r := range rows {
		events = append(events, recommend.HistoryEvent{
			RecipeID:    int64(r.RecipeID),
			CompletedAt: r.CookedAt,
			Servings:    r.Servings,
		})
	}
	return events, nil
}
