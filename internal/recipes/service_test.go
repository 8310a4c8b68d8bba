package recipes_test

import (
	"context"
	"strings"
	"testing"

	"github.com/Aidin1998/foodgram/internal/recipes"
	"github.com/Aidin1998/foodgram/pkg/errors"
	"github.com/Aidin1998/foodgram/pkg/models"
	"github.com/Aidin1998/foodgram/pkg/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type RecipesSuite struct {
	suite.Suite
	db  *gorm.DB
	svc *recipes.Service
	ctx context.Context

	alice, bob  models.User
	breakfast   models.Tag
	dinner      models.Tag
	flour, milk models.Ingredient
	eggs        models.Ingredient
}

func TestRecipesSuite(t *testing.T) {
	suite.Run(t, new(RecipesSuite))
}

func (s *RecipesSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.Require().NoError(db.AutoMigrate(models.All()...))

	s.db = db
	s.svc = recipes.NewService(zap.NewNop(), db, validation.NewValidator(zap.NewNop()))
	s.ctx = context.Background()

	s.alice = models.User{Email: "alice@example.com", Username: "alice", PasswordHash: "x"}
	s.bob = models.User{Email: "bob@example.com", Username: "bob", PasswordHash: "x"}
	s.Require().NoError(db.Create(&s.alice).Error)
	s.Require().NoError(db.Create(&s.bob).Error)

	s.breakfast = models.Tag{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"}
	s.dinner = models.Tag{Name: "Dinner", Color: "#49B64E", Slug: "dinner"}
	s.Require().NoError(db.Create(&s.breakfast).Error)
	s.Require().NoError(db.Create(&s.dinner).Error)

	s.flour = models.Ingredient{Name: "flour", MeasurementUnit: "g"}
	s.milk = models.Ingredient{Name: "milk", MeasurementUnit: "ml"}
	s.eggs = models.Ingredient{Name: "Eggs", MeasurementUnit: "pcs"}
	for _, ing := range []*models.Ingredient{&s.flour, &s.milk, &s.eggs} {
		s.Require().NoError(db.Create(ing).Error)
	}
}

func ptr[T any](v T) *T { return &v }

func amount(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func (s *RecipesSuite) request(name string, tags []uint, items ...models.IngredientAmount) *models.RecipeRequest {
	return &models.RecipeRequest{
		Ingredients: &items,
		Tags:        &tags,
		Image:       ptr("data:image/png;base64,iVBORw0KGgo="),
		Name:        ptr(name),
		Text:        ptr("Mix and bake."),
		CookingTime: ptr(30),
	}
}

func (s *RecipesSuite) create(author models.User, name string, tags []uint, items ...models.IngredientAmount) *models.RecipeResponse {
	resp, err := s.svc.CreateRecipe(s.ctx, author.ID, s.request(name, tags, items...))
	s.Require().NoError(err)
	return resp
}

func (s *RecipesSuite) TestIngredientsSearch() {
	all, err := s.svc.ListIngredients(s.ctx, "")
	s.Require().NoError(err)
	s.Len(all, 3)

	found, err := s.svc.ListIngredients(s.ctx, "FL")
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal("flour", found[0].Name)

	found, err = s.svc.ListIngredients(s.ctx, "e")
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal("Eggs", found[0].Name)

	found, err = s.svc.ListIngredients(s.ctx, "%")
	s.Require().NoError(err)
	s.Empty(found)

	_, err = s.svc.GetIngredient(s.ctx, 999)
	s.True(errors.Is(err, errors.NotFound))
}

func (s *RecipesSuite) TestTags() {
	tags, err := s.svc.ListTags(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(tags, 2)
	s.Equal("breakfast", tags[0].Slug)

	tag, err := s.svc.GetTag(s.ctx, s.dinner.ID)
	s.Require().NoError(err)
	s.Equal("Dinner", tag.Name)

	_, err = s.svc.GetTag(s.ctx, 999)
	s.True(errors.Is(err, errors.NotFound))
}

func (s *RecipesSuite) TestCreateRecipe() {
	resp := s.create(s.alice, "<b>Pancakes</b>", []uint{s.breakfast.ID},
		models.IngredientAmount{ID: s.flour.ID, Amount: amount("200")},
		models.IngredientAmount{ID: s.milk.ID, Amount: amount("300.5")},
	)

	s.Equal("Pancakes", resp.Name)
	s.Equal(s.alice.ID, resp.Author.ID)
	s.Require().Len(resp.Tags, 1)
	s.Equal("breakfast", resp.Tags[0].Slug)
	s.Require().Len(resp.Ingredients, 2)
	s.Equal("flour", resp.Ingredients[0].Name)
	s.True(resp.Ingredients[1].Amount.Equal(amount("300.5")))
	s.False(resp.IsFavorited)

	got, err := s.svc.GetRecipe(s.ctx, 0, resp.ID)
	s.Require().NoError(err)
	s.Equal(resp.Name, got.Name)
}

func (s *RecipesSuite) TestCreateRecipeValidation() {
	tags := []uint{s.breakfast.ID}
	line := models.IngredientAmount{ID: s.flour.ID, Amount: amount("1")}

	cases := map[string]*models.RecipeRequest{
		"no ingredients":       s.request("a", tags),
		"duplicate ingredient": s.request("a", tags, line, line),
		"missing ingredient":   s.request("a", tags, models.IngredientAmount{ID: 999, Amount: amount("1")}),
		"zero amount":          s.request("a", tags, models.IngredientAmount{ID: s.flour.ID, Amount: decimal.Zero}),
		"sub-cent amount":      s.request("a", tags, models.IngredientAmount{ID: s.flour.ID, Amount: amount("0.001")}),
		"overflowing amount":   s.request("a", tags, models.IngredientAmount{ID: s.flour.ID, Amount: amount("100000000")}),
		"no tags":              s.request("a", []uint{}, line),
		"duplicate tag":        s.request("a", []uint{s.breakfast.ID, s.breakfast.ID}, line),
		"missing tag":          s.request("a", []uint{999}, line),
		"blank name":           s.request("<p></p>", tags, line),
		"long name":            s.request(strings.Repeat("n", 201), tags, line),
	}
	noTime := s.request("a", tags, line)
	noTime.CookingTime = nil
	cases["missing cooking time"] = noTime
	zeroTime := s.request("a", tags, line)
	zeroTime.CookingTime = ptr(0)
	cases["zero cooking time"] = zeroTime

	for name, req := range cases {
		_, err := s.svc.CreateRecipe(s.ctx, s.alice.ID, req)
		s.True(errors.Is(err, errors.Invalid), name)
	}

	var count int64
	s.Require().NoError(s.db.Model(&models.Recipe{}).Count(&count).Error)
	s.Zero(count)
}

func (s *RecipesSuite) TestAmountBounds() {
	tags := []uint{s.breakfast.ID}

	resp, err := s.svc.CreateRecipe(s.ctx, s.alice.ID, s.request("edge", tags,
		models.IngredientAmount{ID: s.flour.ID, Amount: amount("99999999.99")},
		models.IngredientAmount{ID: s.milk.ID, Amount: amount("0.010")}))
	s.Require().NoError(err)
	s.True(resp.Ingredients[0].Amount.Equal(amount("99999999.99")))
	s.True(resp.Ingredients[1].Amount.Equal(amount("0.01")))
}

func (s *RecipesSuite) TestUpdateRecipe() {
	created := s.create(s.alice, "Pancakes", []uint{s.breakfast.ID},
		models.IngredientAmount{ID: s.flour.ID, Amount: amount("200")})

	_, err := s.svc.UpdateRecipe(s.ctx, s.bob.ID, created.ID, &models.RecipeRequest{Name: ptr("Mine")})
	s.True(errors.Is(err, errors.Forbidden))
	s.True(errors.Is(s.svc.CheckAuthor(s.ctx, s.bob.ID, created.ID), errors.Forbidden))
	s.True(errors.Is(s.svc.CheckAuthor(s.ctx, s.alice.ID, 999), errors.NotFound))

	items := []models.IngredientAmount{{ID: s.milk.ID, Amount: amount("100")}, {ID: s.eggs.ID, Amount: amount("2")}}
	tags := []uint{s.dinner.ID}
	updated, err := s.svc.UpdateRecipe(s.ctx, s.alice.ID, created.ID, &models.RecipeRequest{
		Name:        ptr("Crepes"),
		Tags:        &tags,
		Ingredients: &items,
	})
	s.Require().NoError(err)
	s.Equal("Crepes", updated.Name)
	s.Equal("Mix and bake.", updated.Text)
	s.Require().Len(updated.Tags, 1)
	s.Equal("dinner", updated.Tags[0].Slug)
	s.Len(updated.Ingredients, 2)

	var lines int64
	s.Require().NoError(s.db.Model(&models.RecipeIngredient{}).Where("recipe_id = ?", created.ID).Count(&lines).Error)
	s.Equal(int64(2), lines)
}

func (s *RecipesSuite) TestDeleteRecipe() {
	created := s.create(s.alice, "Pancakes", []uint{s.breakfast.ID},
		models.IngredientAmount{ID: s.flour.ID, Amount: amount("200")})
	_, err := s.svc.AddRelation(s.ctx, recipes.Favorites, s.bob.ID, created.ID)
	s.Require().NoError(err)

	s.True(errors.Is(s.svc.DeleteRecipe(s.ctx, s.bob.ID, created.ID), errors.Forbidden))
	s.Require().NoError(s.svc.DeleteRecipe(s.ctx, s.alice.ID, created.ID))

	_, err = s.svc.GetRecipe(s.ctx, 0, created.ID)
	s.True(errors.Is(err, errors.NotFound))

	var count int64
	s.Require().NoError(s.db.Model(&models.RecipeIngredient{}).Count(&count).Error)
	s.Zero(count)
	s.Require().NoError(s.db.Model(&models.Favorite{}).Count(&count).Error)
	s.Zero(count)
}

func (s *RecipesSuite) TestRelations() {
	created := s.create(s.alice, "Pancakes", []uint{s.breakfast.ID},
		models.IngredientAmount{ID: s.flour.ID, Amount: amount("200")})

	for _, rel := range []recipes.Relation{recipes.Favorites, recipes.ShoppingCart} {
		_, err := s.svc.AddRelation(s.ctx, rel, s.bob.ID, 999)
		s.True(errors.Is(err, errors.Invalid), "missing recipe on add is a validation error")

		short, err := s.svc.AddRelation(s.ctx, rel, s.bob.ID, created.ID)
		s.Require().NoError(err)
		s.Equal(created.ID, short.ID)
		s.Equal(30, short.CookingTime)

		_, err = s.svc.AddRelation(s.ctx, rel, s.bob.ID, created.ID)
		s.True(errors.Is(err, errors.Invalid), "duplicate")

		s.True(errors.Is(s.svc.RemoveRelation(s.ctx, rel, s.bob.ID, 999), errors.NotFound))
		s.Require().NoError(s.svc.RemoveRelation(s.ctx, rel, s.bob.ID, created.ID))
		s.True(errors.Is(s.svc.RemoveRelation(s.ctx, rel, s.bob.ID, created.ID), errors.Invalid))
	}
}

func (s *RecipesSuite) TestListRecipesFilters() {
	first := s.create(s.alice, "Porridge", []uint{s.breakfast.ID},
		models.IngredientAmount{ID: s.milk.ID, Amount: amount("250")})
	second := s.create(s.alice, "Stew", []uint{s.dinner.ID},
		models.IngredientAmount{ID: s.flour.ID, Amount: amount("10")})
	third := s.create(s.bob, "Omelette", []uint{s.breakfast.ID, s.dinner.ID},
		models.IngredientAmount{ID: s.eggs.ID, Amount: amount("3")})

	_, err := s.svc.AddRelation(s.ctx, recipes.Favorites, s.bob.ID, first.ID)
	s.Require().NoError(err)
	_, err = s.svc.AddRelation(s.ctx, recipes.ShoppingCart, s.bob.ID, second.ID)
	s.Require().NoError(err)

	list := func(viewer uint, f models.RecipeFilter) ([]models.RecipeResponse, int64) {
		if f.Page == 0 {
			f.Page = 1
		}
		if f.Limit == 0 {
			f.Limit = 6
		}
		items, total, err := s.svc.ListRecipes(s.ctx, viewer, &f)
		s.Require().NoError(err)
		return items, total
	}
	ids := func(items []models.RecipeResponse) []uint {
		out := make([]uint, 0, len(items))
		for _, r := range items {
			out = append(out, r.ID)
		}
		return out
	}

	items, total := list(0, models.RecipeFilter{})
	s.Equal(int64(3), total)
	s.Equal([]uint{third.ID, second.ID, first.ID}, ids(items))

	items, total = list(0, models.RecipeFilter{Limit: 2, Page: 2})
	s.Equal(int64(3), total)
	s.Equal([]uint{first.ID}, ids(items))

	items, _ = list(0, models.RecipeFilter{Author: s.alice.ID})
	s.ElementsMatch([]uint{first.ID, second.ID}, ids(items))

	items, total = list(0, models.RecipeFilter{Tags: []string{"breakfast", "dinner"}})
	s.Equal(int64(3), total, "tags are ORed and recipes are not duplicated")
	s.Len(items, 3)

	items, _ = list(0, models.RecipeFilter{Tags: []string{"dinner"}})
	s.ElementsMatch([]uint{second.ID, third.ID}, ids(items))

	items, _ = list(s.bob.ID, models.RecipeFilter{IsFavorited: ptr(true)})
	s.Equal([]uint{first.ID}, ids(items))
	s.True(items[0].IsFavorited)

	items, _ = list(s.bob.ID, models.RecipeFilter{IsFavorited: ptr(false)})
	s.ElementsMatch([]uint{second.ID, third.ID}, ids(items))

	items, _ = list(s.bob.ID, models.RecipeFilter{IsInShoppingCart: ptr(true)})
	s.Equal([]uint{second.ID}, ids(items))
	s.True(items[0].IsInShoppingCart)

	_, total = list(0, models.RecipeFilter{IsFavorited: ptr(true)})
	s.Equal(int64(3), total, "relation filters are ignored for anonymous callers")
}

func (s *RecipesSuite) TestShoppingList() {
	empty, err := s.svc.ShoppingList(s.ctx, s.bob.ID)
	s.Require().NoError(err)
	s.Empty(empty)

	first := s.create(s.alice, "Pancakes", []uint{s.breakfast.ID},
		models.IngredientAmount{ID: s.flour.ID, Amount: amount("200")},
		models.IngredientAmount{ID: s.milk.ID, Amount: amount("300")})
	second := s.create(s.alice, "Bread", []uint{s.dinner.ID},
		models.IngredientAmount{ID: s.flour.ID, Amount: amount("500.5")})
	ignored := s.create(s.alice, "Omelette", []uint{s.dinner.ID},
		models.IngredientAmount{ID: s.eggs.ID, Amount: amount("3")})
	_ = ignored

	for _, id := range []uint{first.ID, second.ID} {
		_, err := s.svc.AddRelation(s.ctx, recipes.ShoppingCart, s.bob.ID, id)
		s.Require().NoError(err)
	}

	lines, err := s.svc.ShoppingList(s.ctx, s.bob.ID)
	s.Require().NoError(err)
	s.Require().Len(lines, 2)
	s.Equal("flour", lines[0].Name)
	s.Equal("g", lines[0].MeasurementUnit)
	s.True(lines[0].Amount.Equal(amount("700.5")), lines[0].Amount.String())
	s.Equal("milk", lines[1].Name)
	s.True(lines[1].Amount.Equal(amount("300")))
}

func TestRenderShoppingList(t *testing.T) {
	lines := []models.ShoppingListLine{
		{Name: "flour", MeasurementUnit: "g", Amount: decimal.RequireFromString("700.5")},
		{Name: "milk, whole", MeasurementUnit: "ml", Amount: decimal.NewFromInt(300)},
	}

	name, contentType, body, err := recipes.RenderShoppingList(lines, recipes.FormatText)
	assert.NoError(t, err)
	assert.Equal(t, "shopping_list.txt", name)
	assert.Contains(t, contentType, "text/plain")
	assert.Contains(t, string(body), "1. flour (g) - 700.5\n")
	assert.Contains(t, string(body), "2. milk, whole (ml) - 300\n")

	name, contentType, body, err = recipes.RenderShoppingList(lines, recipes.FormatCSV)
	assert.NoError(t, err)
	assert.Equal(t, "shopping_list.csv", name)
	assert.Contains(t, contentType, "text/csv")
	assert.Equal(t, "ingredient,measurement_unit,amount\nflour,g,700.5\n\"milk, whole\",ml,300\n", string(body))
}

func TestParseShoppingListFormat(t *testing.T) {
	f, err := recipes.ParseShoppingListFormat("")
	assert.NoError(t, err)
	assert.Equal(t, recipes.FormatText, f)

	f, err = recipes.ParseShoppingListFormat("csv")
	assert.NoError(t, err)
	assert.Equal(t, recipes.FormatCSV, f)

	_, err = recipes.ParseShoppingListFormat("pdf")
	assert.True(t, errors.Is(err, errors.Invalid))
}
