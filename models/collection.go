package models

import (
	"os"
	"strings"
	"time"

	"recipe-box/apperror"
	"recipe-box/helpers"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FavoritesName is the reserved name of the favorites collection.
// The second protected collection ("saved for later") is configurable.
const FavoritesName = "Favorites"

const defaultSavedName = "Saved"

// SavedName returns the configured name of the default saved collection
func SavedName() string {
	if name := os.Getenv("SAVED_COLLECTION_NAME"); name != "" {
		return name
	}
	return defaultSavedName
}

// IsProtectedName reports whether a name belongs to one of the two
// protected collections (case-insensitive by design)
func IsProtectedName(name string) bool {
	return strings.EqualFold(name, FavoritesName) || strings.EqualFold(name, SavedName())
}

// Collection is a named, user-owned set of recipe ids
type Collection struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id"`
	OwnerID   primitive.ObjectID   `json:"ownerID" bson:"ownerID"`
	Name      string               `json:"name" bson:"name"`
	Protected bool                 `json:"protected" bson:"-"` // derived from the name
	RecipeIDs []primitive.ObjectID `json:"recipeIDs" bson:"recipeIDs"`
	TouchedTS time.Time            `json:"touchedTS" bson:"touchedTS"`
}

// CollectionDetail is the response shape with resolved recipes
type CollectionDetail struct {
	Collection
	Recipes []RecipeListItem `json:"recipes"`
}

// CollectionModel provides the membership rules on top of the store.
// Membership edits deliberately carry no transaction: add/remove are
// idempotent and commutative for disjoint id sets, concurrent writers on
// the same id are last-writer-wins.
type CollectionModel struct {
	Store CollectionStore
	// injected from the recipe model (batched, chunk-limited read)
	GetRecipes func(ids []primitive.ObjectID) ([]RecipeListItem, error)
}

// ListCollections returns all collections of a user; the two protected
// ones are created on first access
func (m CollectionModel) ListCollections(ownerID string) ([]Collection, error) {

	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, ErrInvalidUser
	}

	if err := m.EnsureDefaults(owner); err != nil {
		return nil, err
	}

	collections, err := m.Store.ListByOwner(owner)
	if err != nil {
		return nil, err
	}

	for i := range collections {
		collections[i].Protected = IsProtectedName(collections[i].Name)
	}

	return collections, nil
}

// EnsureDefaults idempotently creates "Favorites" and the default saved
// collection. Safe under concurrent invocation: the find-or-create race
// is settled by the store's unique name index, a lost race counts as
// "already exists".
func (m CollectionModel) EnsureDefaults(owner primitive.ObjectID) error {

	for _, name := range []string{FavoritesName, SavedName()} {

		_, err := m.Store.FindByName(owner, name, true)
		if err == nil {
			continue
		}
		if err != apperror.ErrNoData {
			return err
		}

		collection := &Collection{
			ID:        primitive.NewObjectID(),
			OwnerID:   owner,
			Name:      name,
			TouchedTS: time.Now(),
		}

		_, err = m.Store.Insert(collection)
		if err != nil && err != ErrCollectionNameTaken {
			return err
		}
	}

	return nil
}

// GetCollection returns one collection with its recipe ids resolved into
// list items. Ids of deleted recipes do not resolve and are skipped.
func (m CollectionModel) GetCollection(collectionID string) (*CollectionDetail, error) {

	id, err := primitive.ObjectIDFromHex(collectionID)
	if err != nil {
		return nil, apperror.ErrNoData
	}

	collection, err := m.Store.Get(id)
	if err != nil {
		return nil, err
	}
	collection.Protected = IsProtectedName(collection.Name)

	detail := &CollectionDetail{Collection: *collection}

	detail.Recipes, err = m.GetRecipes(collection.RecipeIDs)
	if err != nil {
		return nil, err
	}

	return detail, nil
}

// CreateCollection adds a new named collection for the owner
func (m CollectionModel) CreateCollection(ownerID string, name string, recipeIDs []string) (string, error) {

	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return "", ErrInvalidUser
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrCollectionNameMissing
	}
	if IsProtectedName(name) {
		return "", ErrCollectionNameReserved
	}

	// pre-check for nicer error reporting; the unique index has the last word
	_, err = m.Store.FindByName(owner, name, false)
	if err == nil {
		return "", ErrCollectionNameTaken
	}
	if err != apperror.ErrNoData {
		return "", err
	}

	collection := &Collection{
		ID:        primitive.NewObjectID(),
		OwnerID:   owner,
		Name:      name,
		RecipeIDs: dedupeIDs(helpers.ObjectIDs(recipeIDs)),
		TouchedTS: time.Now(),
	}

	return m.Store.Insert(collection)
}

// RenameCollection changes a collection's name; protected collections
// keep theirs. An unchanged name is accepted without a write.
func (m CollectionModel) RenameCollection(collectionID string, newName string) error {

	id, err := primitive.ObjectIDFromHex(collectionID)
	if err != nil {
		return apperror.ErrNoData
	}

	collection, err := m.Store.Get(id)
	if err != nil {
		return err
	}

	if IsProtectedName(collection.Name) {
		return ErrCollectionProtected
	}

	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrCollectionNameMissing
	}
	if newName == collection.Name {
		// no-op, not an error
		return nil
	}
	if IsProtectedName(newName) {
		return ErrCollectionNameReserved
	}

	_, err = m.Store.FindByName(collection.OwnerID, newName, false)
	if err == nil {
		return ErrCollectionNameTaken
	}
	if err != apperror.ErrNoData {
		return err
	}

	return m.Store.Rename(id, newName)
}

// DeleteCollection removes a collection; protected collections stay
func (m CollectionModel) DeleteCollection(collectionID string) error {

	id, err := primitive.ObjectIDFromHex(collectionID)
	if err != nil {
		return apperror.ErrNoData
	}

	collection, err := m.Store.Get(id)
	if err != nil {
		return err
	}

	if IsProtectedName(collection.Name) {
		return ErrCollectionProtected
	}

	return m.Store.Delete(id)
}

// AddRecipes performs a set-union on the membership; already present ids
// are a silent no-op
func (m CollectionModel) AddRecipes(collectionID string, recipeIDs []string) error {

	id, err := primitive.ObjectIDFromHex(collectionID)
	if err != nil {
		return apperror.ErrNoData
	}

	ids := helpers.ObjectIDs(recipeIDs)
	if len(ids) == 0 {
		return nil
	}

	return m.Store.AddRecipes(id, ids)
}

// RemoveRecipes performs a set-difference on the membership; absent ids
// are a silent no-op
func (m CollectionModel) RemoveRecipes(collectionID string, recipeIDs []string) error {

	id, err := primitive.ObjectIDFromHex(collectionID)
	if err != nil {
		return apperror.ErrNoData
	}

	ids := helpers.ObjectIDs(recipeIDs)
	if len(ids) == 0 {
		return nil
	}

	return m.Store.RemoveRecipes(id, ids)
}

// ToggleFavorite flips a recipe's membership in the owner's Favorites
// collection and returns the new state. Each call re-reads the current
// membership, so rapid repeated calls cannot diverge from the store.
func (m CollectionModel) ToggleFavorite(ownerID string, recipeID string) (bool, error) {

	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return false, ErrInvalidUser
	}

	recipe, err := primitive.ObjectIDFromHex(recipeID)
	if err != nil {
		return false, apperror.ErrNoData
	}

	if err := m.EnsureDefaults(owner); err != nil {
		return false, err
	}

	favorites, err := m.Store.FindByName(owner, FavoritesName, true)
	if err != nil {
		return false, err
	}

	member := false
	for _, v := range favorites.RecipeIDs {
		if v == recipe {
			member = true
			break
		}
	}

	if member {
		err = m.Store.RemoveRecipes(favorites.ID, []primitive.ObjectID{recipe})
	} else {
		err = m.Store.AddRecipes(favorites.ID, []primitive.ObjectID{recipe})
	}
	if err != nil {
		return false, err
	}

	return !member, nil
}

func dedupeIDs(ids []primitive.ObjectID) []primitive.ObjectID {

	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	var unique []primitive.ObjectID

	for _, v := range ids {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		unique = append(unique, v)
	}

	return unique
}
