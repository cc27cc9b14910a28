package models

import (
	"testing"

	"recipe-box/apperror"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testCredentials(verified bool, role int32) func(userID string) (*Credentials, error) {
	return func(userID string) (*Credentials, error) {
		return &Credentials{
			LoginName:     "chef",
			RoleCode:      role,
			EMailVerified: verified,
		}, nil
	}
}

func TestRecipeValidate(t *testing.T) {

	model := RecipeModel{}

	_, err := model.Validate(Recipe{Title: "   ", Steps: []string{"stir"}})
	if err != ErrRecipeTitleMissing {
		t.Errorf("blank title: got %v, want ErrRecipeTitleMissing", err)
	}

	_, err = model.Validate(Recipe{Title: "Toast", Steps: []string{"  ", ""}})
	if err != ErrRecipeStepsMissing {
		t.Errorf("blank steps: got %v, want ErrRecipeStepsMissing", err)
	}

	recipe, err := model.Validate(Recipe{
		Title:       "  Toast  ",
		Ingredients: []string{"bread", "", "butter"},
		Steps:       []string{"toast it"},
		Servings:    0,
		PrepTime:    -5,
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if recipe.Title != "Toast" {
		t.Errorf("title not trimmed: %q", recipe.Title)
	}
	if len(recipe.Ingredients) != 2 {
		t.Errorf("empty ingredient lines not dropped: %v", recipe.Ingredients)
	}
	if recipe.Servings != 1 || recipe.PrepTime != 0 {
		t.Errorf("defaults not applied: servings=%d prepTime=%d", recipe.Servings, recipe.PrepTime)
	}
}

func TestRecipeCreateGates(t *testing.T) {

	store := newMemRecipeStore()
	author := primitive.NewObjectID()

	recipe := Recipe{Title: "Curry", Steps: []string{"cook"}}
	recipe.MetaInfo.CreatedID = author

	// unverified members may not publish
	model := RecipeModel{Store: store, CredentialsReader: testCredentials(false, 1)}
	if _, err := model.Create(&recipe); err != apperror.ErrUnverified {
		t.Errorf("unverified: got %v, want ErrUnverified", err)
	}

	// guests neither
	model = RecipeModel{Store: store, CredentialsReader: testCredentials(true, 0)}
	if _, err := model.Create(&recipe); err != apperror.ErrGuest {
		t.Errorf("guest: got %v, want ErrGuest", err)
	}

	// verified member passes, system fields are set
	model = RecipeModel{Store: store, CredentialsReader: testCredentials(true, 1)}
	id, err := model.Create(&recipe)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == "" {
		t.Fatal("empty id")
	}
	if recipe.MetaInfo.RecVer != 1 || recipe.MetaInfo.CreatedName != "chef" {
		t.Errorf("system fields: recVer=%d createdName=%q", recipe.MetaInfo.RecVer, recipe.MetaInfo.CreatedName)
	}
}

func TestRecipeUpdateAuthorOnly(t *testing.T) {

	store := newMemRecipeStore()
	model := RecipeModel{Store: store}

	author := primitive.NewObjectID()
	recipeID := seedRecipe(store, author)

	changed := Recipe{ID: recipeID, Title: "New Title", Steps: []string{"do it"}}

	err := model.Update(&changed, primitive.NewObjectID().Hex())
	if err != apperror.ErrDenied {
		t.Errorf("stranger update: got %v, want ErrDenied", err)
	}

	err = model.Update(&changed, author.Hex())
	if err != nil {
		t.Fatalf("author update: %v", err)
	}

	stored, _ := store.Get(recipeID)
	if stored.Title != "New Title" {
		t.Errorf("title not updated: %q", stored.Title)
	}
}

func TestRecipeUpdateKeepsRatings(t *testing.T) {

	store := newMemRecipeStore()
	model := RecipeModel{Store: store}

	author := primitive.NewObjectID()
	recipeID := seedRecipe(store, author)

	// someone rated in the meantime
	userID := primitive.NewObjectID().Hex()
	if _, err := model.SetUserRating(recipeID.Hex(), userID, 5); err != nil {
		t.Fatalf("rate: %v", err)
	}

	current, _ := store.Get(recipeID)
	changed := *current
	changed.Title = "Renamed"
	changed.Ratings = nil // a client can not overwrite the aggregate
	changed.RatingCount = 99
	changed.AverageRating = 1.0

	if err := model.Update(&changed, author.Hex()); err != nil {
		t.Fatalf("update: %v", err)
	}

	stored, _ := store.Get(recipeID)
	if stored.RatingCount != 1 || stored.AverageRating != 5.0 || stored.Ratings[userID] != 5 {
		t.Errorf("rating fields lost on update: %d/%v", stored.RatingCount, stored.AverageRating)
	}
}

func TestRecipeDeleteAuthorOnly(t *testing.T) {

	store := newMemRecipeStore()
	model := RecipeModel{Store: store}

	author := primitive.NewObjectID()
	recipeID := seedRecipe(store, author)

	if err := model.Delete(recipeID.Hex(), primitive.NewObjectID().Hex()); err != apperror.ErrDenied {
		t.Errorf("stranger delete: got %v, want ErrDenied", err)
	}

	if err := model.Delete(recipeID.Hex(), author.Hex()); err != nil {
		t.Fatalf("author delete: %v", err)
	}

	if _, err := store.Get(recipeID); err != apperror.ErrNoData {
		t.Errorf("recipe still present after delete")
	}
}

func TestRecipeGetByIDsChunks(t *testing.T) {

	store := newMemRecipeStore()
	model := RecipeModel{Store: store}

	author := primitive.NewObjectID()

	var ids []primitive.ObjectID
	for i := 0; i < 65; i++ {
		ids = append(ids, seedRecipe(store, author))
	}
	// sprinkle in ids that no longer resolve
	ids = append(ids, primitive.NewObjectID(), primitive.NewObjectID())

	items, err := model.GetByIDs(ids)
	if err != nil {
		t.Fatalf("getByIDs: %v", err)
	}

	if len(items) != 65 {
		t.Errorf("got %d items, want 65 (dangling ids skipped)", len(items))
	}

	// 67 ids must have been read in ceiling-bounded batches
	if len(store.batchSizes) != 3 {
		t.Fatalf("got %d batches, want 3: %v", len(store.batchSizes), store.batchSizes)
	}
	for _, size := range store.batchSizes {
		if size > MaxIDBatchSize {
			t.Errorf("batch of %d exceeds ceiling %d", size, MaxIDBatchSize)
		}
	}
}

func TestRecipeSearch(t *testing.T) {

	store := newMemRecipeStore()
	model := RecipeModel{Store: store}

	author := primitive.NewObjectID()

	curry := &Recipe{ID: primitive.NewObjectID(), Title: "Green Curry", CuisineCode: 3, CategoryCode: 1, Steps: []string{"cook"}}
	curry.MetaInfo.CreatedID = author
	toast := &Recipe{ID: primitive.NewObjectID(), Title: "Toast", CuisineCode: 0, CategoryCode: 2, Steps: []string{"toast"}}
	toast.MetaInfo.CreatedID = author
	_, _ = store.Insert(curry)
	_, _ = store.Insert(toast)

	items, err := model.SearchRecipes(&RecipeSearch{SearchTerm: "curry", CuisineCode: -1, CategoryCode: -1})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Green Curry" {
		t.Errorf("term search returned %v", items)
	}

	items, err = model.SearchRecipes(&RecipeSearch{CuisineCode: 0, CategoryCode: -1})
	if err != nil {
		t.Fatalf("cuisine search: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Toast" {
		t.Errorf("cuisine filter returned %v", items)
	}

	// an empty result is reported as no-data
	if _, err = model.SearchRecipes(&RecipeSearch{SearchTerm: "pizza", CuisineCode: -1, CategoryCode: -1}); err != apperror.ErrNoData {
		t.Errorf("got %v, want ErrNoData", err)
	}
}
