// Package seed loads a catalog and demo users from a JSON file.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/pageza/pantrychef/backend/internal/logging"
	"github.com/pageza/pantrychef/backend/internal/models"
	"github.com/pageza/pantrychef/backend/internal/service"
)

// File is the seed document.
type File struct {
	Foods   []Food   `json:"foods"`
	Recipes []Recipe `json:"recipes"`
	Users   []User   `json:"users"`
}

type Food struct {
	Name      string   `json:"name"`
	Trackable *bool    `json:"trackable"`
	Aliases   []string `json:"aliases"`
}

type Recipe struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	CookingTime int          `json:"cooking_time"`
	Calories    int          `json:"calories"`
	ImageURL    string       `json:"image_url"`
	Tags        []string     `json:"tags"`
	Ingredients []Ingredient `json:"ingredients"`
}

type Ingredient struct {
	Food  string  `json:"food"`
	Grams float64 `json:"grams"`
}

type User struct {
	Username  string       `json:"username"`
	Email     string       `json:"email"`
	Password  string       `json:"password"`
	Allergens []string     `json:"allergens"`
	Pantry    []PantryItem `json:"pantry"`
	History   []Cooked     `json:"history"`
}

type PantryItem struct {
	Food    string  `json:"food"`
	Grams   float64 `json:"grams"`
	Expires string  `json:"expires"`
}

type Cooked struct {
	Recipe   string   `json:"recipe"`
	DaysAgo  int      `json:"days_ago"`
	Servings *float64 `json:"servings"`
}

// Result counts what Apply created.
type Result struct {
	Foods   int
	Aliases int
	Recipes int
	Users   int
}

// LoadFile reads and decodes a seed file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &f, nil
}

// Apply inserts the file's content. Existing foods, aliases, recipes and users
// (matched by name or email) are left alone, so Apply can be re-run. Pantry
// expiry dates are "YYYY-MM-DD" or "+N" days from now.
func Apply(ctx context.Context, db *gorm.DB, f *File, now time.Time) (Result, error) {
	var res Result
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		foods := map[string]uint{}
		for _, sf := range f.Foods {
			if sf.Name == "" {
				return errors.New("food without a name")
			}
			trackable := sf.Trackable == nil || *sf.Trackable
			food := models.Food{Name: sf.Name, IsTrackable: trackable}
			created, err := firstOrCreate(tx, &food, "name = ?", sf.Name)
			if err != nil {
				return fmt.Errorf("food %q: %w", sf.Name, err)
			}
			if created {
				res.Foods++
			}
			foods[food.Name] = food.ID

			for _, alias := range sf.Aliases {
				a := models.FoodAlias{Alias: alias, FoodID: food.ID}
				created, err := firstOrCreate(tx, &a, "alias = ?", alias)
				if err != nil {
					return fmt.Errorf("alias %q: %w", alias, err)
				}
				if created {
					res.Aliases++
				}
			}
		}

		foodID := func(name string) (uint, error) {
			if id, ok := foods[name]; ok {
				return id, nil
			}
			var food models.Food
			if err := tx.Where("name = ?", name).First(&food).Error; err != nil {
				return 0, fmt.Errorf("unknown food %q: %w", name, err)
			}
			foods[name] = food.ID
			return food.ID, nil
		}

		recipes := map[string]uint{}
		for _, sr := range f.Recipes {
			var existing models.Recipe
			err := tx.Select("id").Where("name = ?", sr.Name).First(&existing).Error
			if err == nil {
				recipes[sr.Name] = existing.ID
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			recipe := models.Recipe{
				Name:        sr.Name,
				Description: sr.Description,
				CookingTime: sr.CookingTime,
				Calories:    sr.Calories,
				ImageURL:    sr.ImageURL,
				Tags:        models.JSONBStringArray(sr.Tags),
			}
			for _, ing := range sr.Ingredients {
				id, err := foodID(ing.Food)
				if err != nil {
					return fmt.Errorf("recipe %q: %w", sr.Name, err)
				}
				recipe.Ingredients = append(recipe.Ingredients, models.RecipeFood{FoodID: id, Grams: ing.Grams})
			}
			if err := tx.Create(&recipe).Error; err != nil {
				return fmt.Errorf("recipe %q: %w", sr.Name, err)
			}
			recipes[sr.Name] = recipe.ID
			res.Recipes++
		}

		for _, su := range f.Users {
			created, err := applyUser(ctx, tx, su, foodID, recipes, now)
			if err != nil {
				return fmt.Errorf("user %q: %w", su.Email, err)
			}
			if created {
				res.Users++
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	logging.Info().
		Int("foods", res.Foods).
		Int("aliases", res.Aliases).
		Int("recipes", res.Recipes).
		Int("users", res.Users).
		Msg("seed applied")
	return res, nil
}

func applyUser(ctx context.Context, tx *gorm.DB, su User, foodID func(string) (uint, error), recipes map[string]uint, now time.Time) (bool, error) {
	// the signing secret is not needed to register
	user, err := service.NewAuthService(tx, "").Register(ctx, su.Username, su.Email, su.Password)
	if errors.Is(err, service.ErrUserExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	for _, name := range su.Allergens {
		if err := tx.Create(&models.Allergen{UserID: user.ID, FoodName: name}).Error; err != nil {
			return false, err
		}
	}

	for _, item := range su.Pantry {
		id, err := foodID(item.Food)
		if err != nil {
			return false, err
		}
		row := models.UserFood{UserID: user.ID, FoodID: id, Grams: item.Grams}
		if item.Expires != "" {
			exp, err := expiry(item.Expires, now)
			if err != nil {
				return false, err
			}
			row.ExpirationDate = &exp
		}
		if err := tx.Create(&row).Error; err != nil {
			return false, err
		}
	}

	for _, h := range su.History {
		id, ok := recipes[h.Recipe]
		if !ok {
			var r models.Recipe
			if err := tx.Select("id").Where("name = ?", h.Recipe).First(&r).Error; err != nil {
				return false, fmt.Errorf("unknown recipe %q: %w", h.Recipe, err)
			}
			id = r.ID
		}
		event := models.UserRecipeHistory{
			UserID:   user.ID,
			RecipeID: id,
			Servings: h.Servings,
			CookedAt: now.AddDate(0, 0, -h.DaysAgo),
		}
		if err := tx.Create(&event).Error; err != nil {
			return false, err
		}
	}
	return true, nil
}

func expiry(v string, now time.Time) (time.Time, error) {
	var days int
	if _, err := fmt.Sscanf(v, "+%d", &days); err == nil {
		d := now.AddDate(0, 0, days)
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid expiry %q", v)
	}
	return t, nil
}

// firstOrCreate looks dst up by the condition and creates it when missing,
// reporting whether a row was inserted.
func firstOrCreate(tx *gorm.DB, dst interface{}, query string, args ...interface{}) (bool, error) {
	res := tx.Where(query, args...).Limit(1).Find(dst)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}
	return true, tx.Create(dst).Error
}
