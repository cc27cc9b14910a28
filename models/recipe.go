package models

import (
	"strings"
	"time"

	"recipe-box/apperror"
	"recipe-box/database"
	"recipe-box/helpers"
	"recipe-box/lookups"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxIDBatchSize is the store's ceiling for get-by-id-list reads;
// longer lists are fetched in slices of this size
const MaxIDBatchSize = 30

// Recipe is the "interface" used for client communication
type Recipe struct {
	ID            primitive.ObjectID `json:"id" bson:"_id"`
	MetaInfo      Header             `json:"metaInfo" bson:"metaInfo"` // CreatedID/CreatedName identify the author
	Title         string             `json:"title" bson:"title"`
	Ingredients   []string           `json:"ingredients" bson:"ingredients"`
	Steps         []string           `json:"steps" bson:"steps"`
	CuisineCode   int32              `json:"cuisineCode" bson:"cuisineCD"`
	CuisineText   string             `json:"cuisineText" bson:"-"`
	CategoryCode  int32              `json:"categoryCode" bson:"categoryCD"`
	CategoryText  string             `json:"categoryText" bson:"-"`
	Servings      int32              `json:"servings" bson:"servings"`
	PrepTime      int32              `json:"prepTime" bson:"prepTime"` // minutes
	CookTime      int32              `json:"cookTime" bson:"cookTime"` // minutes
	ImageURL      string             `json:"imageURL" bson:"imageURL,omitempty"` // already-uploaded blob URL
	Ratings       map[string]int32   `json:"-" bson:"ratings"`                   // userID (hex) -> 1..5
	RatingCount   int32              `json:"ratingCount" bson:"ratingCount"`     // derived, never edited directly
	AverageRating float64            `json:"averageRating" bson:"averageRating"` // derived, never edited directly
	UserRating    int32              `json:"userRating" bson:"-"`                // requesting user's own entry, returned dynamically
}

// RecipeListItem is the reduced/simplified model used for listings
type RecipeListItem struct {
	ID            primitive.ObjectID `json:"id"`
	CreatedTS     time.Time          `json:"createdTS"`
	CreatedID     primitive.ObjectID `json:"createdID"`
	CreatedName   string             `json:"createdName"`
	Title         string             `json:"title"`
	CuisineCode   int32              `json:"cuisineCode"`
	CuisineText   string             `json:"cuisineText"`
	CategoryCode  int32              `json:"categoryCode"`
	CategoryText  string             `json:"categoryText"`
	PrepTime      int32              `json:"prepTime"`
	CookTime      int32              `json:"cookTime"`
	ImageURL      string             `json:"imageURL"`
	RatingCount   int32              `json:"ratingCount"`
	AverageRating float64            `json:"averageRating"`
}

// RecipeSearch is passed as the search params
type RecipeSearch struct {
	UserID       string
	SearchTerm   string
	CuisineCode  int32 // -1 = any
	CategoryCode int32 // -1 = any
}

// RecipeModel provides the logic to the interface and access to the database
type RecipeModel struct {
	Store RecipeStore
	// some information comes from the user model and is referenced here,
	// so the controller doesn't have to do it
	GetUserName       func(ID string) (string, error)
	CredentialsReader func(userID string) (*Credentials, error)
}

// Validate checks given values and sets defaults where applicable (immutable)
func (m RecipeModel) Validate(recipe Recipe) (*Recipe, error) {

	cleaned := recipe

	cleaned.Title = strings.TrimSpace(cleaned.Title)
	if cleaned.Title == "" {
		return nil, ErrRecipeTitleMissing
	}

	// drop empty lines rather than rejecting them
	cleaned.Ingredients = trimLines(cleaned.Ingredients)
	cleaned.Steps = trimLines(cleaned.Steps)
	if len(cleaned.Steps) == 0 {
		return nil, ErrRecipeStepsMissing
	}

	if cleaned.Servings <= 0 {
		cleaned.Servings = 1
	}
	if cleaned.PrepTime < 0 {
		cleaned.PrepTime = 0
	}
	if cleaned.CookTime < 0 {
		cleaned.CookTime = 0
	}

	return &cleaned, nil
}

// Create adds a new recipe - validated by controller.
// Authoring is reserved for members with a verified eMail-address
func (m RecipeModel) Create(recipe *Recipe) (string, error) {

	credentials, err := m.CredentialsReader(recipe.MetaInfo.CreatedID.Hex())
	if err != nil {
		return "", err
	}
	if credentials.RoleCode == lookups.UserRoleGuest {
		return "", apperror.ErrGuest
	}
	if !credentials.EMailVerified {
		return "", apperror.ErrUnverified
	}
	recipe.MetaInfo.CreatedName = credentials.LoginName

	// set "system-fields"
	recipe.ID = primitive.NewObjectID()
	recipe.MetaInfo.TouchedTS = time.Now()
	recipe.MetaInfo.RecVer = 1
	recipe.Ratings = nil
	recipe.RatingCount = 0
	recipe.AverageRating = 0

	return m.Store.Insert(recipe)
}

// GetRecipe returns one recipe; userID (optional) picks the caller's own
// rating entry out of the rating map
func (m RecipeModel) GetRecipe(recipeID string, userID string) (*Recipe, error) {

	id, err := primitive.ObjectIDFromHex(recipeID)
	if err != nil {
		return nil, apperror.ErrNoData
	}

	recipe, err := m.Store.Get(id)
	if err != nil {
		return nil, err
	}

	if userID != "" {
		recipe.UserRating = recipe.Ratings[userID]
	}
	addRecipeLookups(recipe)

	return recipe, nil
}

// GetRecipeName returns just the title (reduced version for de-norms)
func (m RecipeModel) GetRecipeName(recipeID primitive.ObjectID) (string, error) {

	recipe, err := m.Store.Get(recipeID)
	if err != nil {
		return "", err
	}

	return recipe.Title, nil
}

// Update stores changed recipe content; only the author may do that
func (m RecipeModel) Update(recipe *Recipe, userID string) error {

	current, err := m.Store.Get(recipe.ID)
	if err != nil {
		return err
	}

	if current.MetaInfo.CreatedID != helpers.ObjectID(userID) {
		return apperror.ErrDenied
	}

	// author and rating fields are immutable through this path
	recipe.MetaInfo = current.MetaInfo
	recipe.MetaInfo.ModifiedTS = time.Now()
	recipe.MetaInfo.ModifiedID = current.MetaInfo.CreatedID
	recipe.MetaInfo.ModifiedName = current.MetaInfo.CreatedName
	recipe.MetaInfo.TouchedTS = recipe.MetaInfo.ModifiedTS
	recipe.Ratings = current.Ratings
	recipe.RatingCount = current.RatingCount
	recipe.AverageRating = current.AverageRating

	return m.Store.Update(recipe)
}

// Delete removes a recipe; only the author may do that.
// The rating map dies with the document. Memberships in collections are
// left dangling on purpose - readers resolving a collection simply skip
// ids that no longer exist (see CollectionModel.GetCollection).
func (m RecipeModel) Delete(recipeID string, userID string) error {

	id, err := primitive.ObjectIDFromHex(recipeID)
	if err != nil {
		return apperror.ErrNoData
	}

	current, err := m.Store.Get(id)
	if err != nil {
		return err
	}

	if current.MetaInfo.CreatedID != helpers.ObjectID(userID) {
		return apperror.ErrDenied
	}

	return m.Store.Delete(id)
}

// SearchRecipes lists or searches recipes
func (m RecipeModel) SearchRecipes(searchSpecs *RecipeSearch) ([]RecipeListItem, error) {

	recipes, err := m.Store.Search(searchSpecs)
	if err != nil {
		return nil, err
	}

	// check for empty result set (no error raised by find)
	if recipes == nil {
		return nil, apperror.ErrNoData
	}

	return makeRecipeList(recipes), nil
}

// GetByIDs resolves an id list into list items, reading the store in
// batches of MaxIDBatchSize. Unresolvable ids (deleted recipes) are
// silently skipped.
func (m RecipeModel) GetByIDs(ids []primitive.ObjectID) ([]RecipeListItem, error) {

	var recipes []Recipe

	for _, chunk := range helpers.ChunkObjectIDs(ids, MaxIDBatchSize) {
		batch, err := m.Store.GetByIDs(chunk)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, batch...)
	}

	return makeRecipeList(recipes), nil
}

// copy data to the reduced list-struct
func makeRecipeList(recipes []Recipe) []RecipeListItem {

	var recipeList []RecipeListItem
	var item RecipeListItem

	for _, v := range recipes {
		item.ID = v.ID
		item.CreatedTS = primitive.ObjectID.Timestamp(v.ID)
		item.CreatedID = v.MetaInfo.CreatedID
		item.CreatedName = v.MetaInfo.CreatedName
		item.Title = v.Title
		item.CuisineCode = v.CuisineCode
		item.CuisineText = database.GetLookupText(lookups.LookupType(lookups.LTcuisine), v.CuisineCode)
		item.CategoryCode = v.CategoryCode
		item.CategoryText = database.GetLookupText(lookups.LookupType(lookups.LTcategory), v.CategoryCode)
		item.PrepTime = v.PrepTime
		item.CookTime = v.CookTime
		item.ImageURL = v.ImageURL
		item.RatingCount = v.RatingCount
		item.AverageRating = v.AverageRating

		recipeList = append(recipeList, item)
	}

	return recipeList
}

// internal helpers
func addRecipeLookups(recipe *Recipe) *Recipe {
	recipe.MetaInfo.CreatedTS = primitive.ObjectID.Timestamp(recipe.ID)
	recipe.CuisineText = database.GetLookupText(lookups.LookupType(lookups.LTcuisine), recipe.CuisineCode)
	recipe.CategoryText = database.GetLookupText(lookups.LookupType(lookups.LTcategory), recipe.CategoryCode)

	return recipe
}

func trimLines(lines []string) []string {
	var cleaned []string

	for _, v := range lines {
		v = strings.TrimSpace(v)
		if v != "" {
			cleaned = append(cleaned, v)
		}
	}

	return cleaned
}
