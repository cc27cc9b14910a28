package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The models talk to the document store through these narrow interfaces
// so the MongoDB-backed implementations (the *_db.go files) can be swapped
// for in-memory fakes in tests. The interfaces are intentionally small:
// they only cover what the operations actually need from the store.
// Store methods create their own (timeout) contexts, analogous to the
// other model code.

// RecipeStore persists recipe documents including their rating maps
type RecipeStore interface {
	Insert(recipe *Recipe) (string, error)
	Get(id primitive.ObjectID) (*Recipe, error)
	// GetByIDs reads one batch of documents; callers are responsible for
	// respecting the store's id-list ceiling (see MaxIDBatchSize)
	GetByIDs(ids []primitive.ObjectID) ([]Recipe, error)
	Update(recipe *Recipe) error
	Delete(id primitive.ObjectID) error
	Search(search *RecipeSearch) ([]Recipe, error)
	// ApplyRatings runs apply on the current document state and writes the
	// rating fields back, conditioned on no intervening write (recVer).
	// apply reports false to skip the write; a lost race surfaces as
	// apperror.ErrRecordChanged.
	ApplyRatings(id primitive.ObjectID, apply func(recipe *Recipe) (bool, error)) (*Recipe, error)
}

// CollectionStore persists a user's named recipe collections
type CollectionStore interface {
	ListByOwner(owner primitive.ObjectID) ([]Collection, error)
	Get(id primitive.ObjectID) (*Collection, error)
	// FindByName returns apperror.ErrNoData when the owner has no such
	// collection; foldCase compares case-insensitively (protected names)
	FindByName(owner primitive.ObjectID, name string, foldCase bool) (*Collection, error)
	// Insert fails with ErrCollectionNameTaken when the owner already has
	// a collection of the same name (unique index)
	Insert(collection *Collection) (string, error)
	Rename(id primitive.ObjectID, newName string) error
	Delete(id primitive.ObjectID) error
	// AddRecipes/RemoveRecipes apply set-union/set-difference on the
	// membership array; both are idempotent at the store level
	AddRecipes(id primitive.ObjectID, recipeIDs []primitive.ObjectID) error
	RemoveRecipes(id primitive.ObjectID, recipeIDs []primitive.ObjectID) error
}

// MealPlanStore persists calendar slot assignments
type MealPlanStore interface {
	Upsert(entry *MealPlanEntry) error
	Remove(owner primitive.ObjectID, day string, slotCode int32) error
	Range(owner primitive.ObjectID, fromDay string, toDay string) ([]MealPlanEntry, error)
}
