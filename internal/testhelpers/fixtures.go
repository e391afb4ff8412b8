package testhelpers

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/pantrychef/backend/internal/models"
)

// FixtureNow is the clock the fixtures are built around.
var FixtureNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

// FixturePassword is the plain-text password of Fixtures.User.
const FixturePassword = "correct horse battery"

// Fixtures holds the rows created by SeedFixtures.
type Fixtures struct {
	User       models.User
	Other      models.User
	GingerPork models.Recipe
	MapoTofu   models.Recipe
	FriedRice  models.Recipe
}

// SeedFixtures creates a small food dictionary, three recipes, a user with a
// pantry and one cooking event:
//
//	ginger pork  pork 250, onion 100, ginger 10, soy sauce 30
//	mapo tofu    tofu 300, ground_pork 50, salt 2
//	fried rice   rice 200, shrimp 80, egg 50
//
// The pantry holds pork 10, onion 150, tofu 300 (expires the day after
// FixtureNow) and ground_pork 40, plus a used and a deleted row that must be
// ignored.
func SeedFixtures(t *testing.T, db *gorm.DB) Fixtures {
	t.Helper()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("failed to seed fixtures: %v", err)
		}
	}

	foods := map[string]*models.Food{}
	for _, f := range []models.Food{
		{Name: "pork", IsTrackable: true},
		{Name: "onion", IsTrackable: true},
		{Name: "ginger", IsTrackable: true},
		{Name: "tofu", IsTrackable: true},
		{Name: "ground_pork", IsTrackable: true},
		{Name: "rice", IsTrackable: true},
		{Name: "shrimp", IsTrackable: true},
		{Name: "egg", IsTrackable: true},
		{Name: "soy sauce", IsTrackable: false},
		{Name: "salt", IsTrackable: false},
	} {
		food := f
		must(db.Create(&food).Error)
		foods[food.Name] = &food
	}
	must(db.Create(&models.FoodAlias{Alias: "minced pork", FoodID: foods["ground_pork"].ID}).Error)

	line := func(name string, grams float64) models.RecipeFood {
		return models.RecipeFood{FoodID: foods[name].ID, Grams: grams}
	}

	var fx Fixtures
	fx.GingerPork = models.Recipe{
		Name:        "ginger pork",
		CookingTime: 20,
		Calories:    600,
		ImageURL:    "https://img.example.com/ginger-pork.jpg",
		Tags:        models.JSONBStringArray{"is_japanese", "is_main_dish", "type_meat", "texture_stir_fried"},
		Ingredients: []models.RecipeFood{line("pork", 250), line("onion", 100), line("ginger", 10), line("soy sauce", 30)},
	}
	fx.MapoTofu = models.Recipe{
		Name:        "mapo tofu",
		CookingTime: 25,
		Calories:    550,
		ImageURL:    "recipes/mapo-tofu.jpg",
		Tags:        models.JSONBStringArray{"is_chinese", "is_main_dish", "type_meat", "flavor_spicy"},
		Ingredients: []models.RecipeFood{line("tofu", 300), line("ground_pork", 50), line("salt", 2)},
	}
	fx.FriedRice = models.Recipe{
		Name:        "shrimp fried rice",
		CookingTime: 15,
		Calories:    650,
		Tags:        models.JSONBStringArray{"is_chinese", "type_seafood", "texture_fried"},
		Ingredients: []models.RecipeFood{line("rice", 200), line("shrimp", 80), line("egg", 50)},
	}
	must(db.Create(&fx.GingerPork).Error)
	must(db.Create(&fx.MapoTofu).Error)
	must(db.Create(&fx.FriedRice).Error)

	hash, err := bcrypt.GenerateFromPassword([]byte(FixturePassword), bcrypt.MinCost)
	must(err)
	fx.User = models.User{Username: "cook", Email: "cook@example.com", PasswordHash: string(hash)}
	fx.Other = models.User{Username: "other", Email: "other@example.com", PasswordHash: string(hash)}
	must(db.Create(&fx.User).Error)
	must(db.Create(&fx.Other).Error)

	tomorrow := FixtureNow.AddDate(0, 0, 1)
	tomorrow = time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, time.UTC)
	for _, item := range []models.UserFood{
		{UserID: fx.User.ID, FoodID: foods["pork"].ID, Grams: 10},
		{UserID: fx.User.ID, FoodID: foods["onion"].ID, Grams: 150},
		{UserID: fx.User.ID, FoodID: foods["tofu"].ID, Grams: 300, ExpirationDate: &tomorrow},
		{UserID: fx.User.ID, FoodID: foods["ground_pork"].ID, Grams: 40},
		{UserID: fx.User.ID, FoodID: foods["rice"].ID, Grams: 500, Status: models.FoodStatusUsed},
		{UserID: fx.User.ID, FoodID: foods["shrimp"].ID, Grams: 200, Status: models.FoodStatusDeleted},
		{UserID: fx.Other.ID, FoodID: foods["rice"].ID, Grams: 500},
	} {
		row := item
		must(db.Create(&row).Error)
	}

	must(db.Create(&models.UserRecipeHistory{
		UserID:   fx.User.ID,
		RecipeID: fx.MapoTofu.ID,
		CookedAt: FixtureNow.AddDate(0, 0, -1),
	}).Error)

	return fx
}
