package models

import (
	"time"

	"recipe-box/apperror"
	"recipe-box/database"
	"recipe-box/lookups"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// days are keyed as strings so range queries stay lexicographic
const planDayLayout = "2006-01-02"

// MealPlanEntry assigns one recipe to a calendar slot.
// There is at most one entry per (owner, day, slot) - writing again
// replaces the assignment (upsert).
type MealPlanEntry struct {
	ID         primitive.ObjectID `json:"id" bson:"_id"`
	OwnerID    primitive.ObjectID `json:"ownerID" bson:"ownerID"`
	Day        string             `json:"day" bson:"day" binding:"required"`
	SlotCode   int32              `json:"slotCode" bson:"slotCD"`
	SlotText   string             `json:"slotText" bson:"-"`
	RecipeID   primitive.ObjectID `json:"recipeID" bson:"recipeID"`
	RecipeName string             `json:"recipeName" bson:"recipeName"` // de-norm for calendar listings
	PlannedTS  time.Time          `json:"plannedTS" bson:"plannedTS"`
}

// MealPlanModel provides the calendar logic
type MealPlanModel struct {
	Store MealPlanStore
	// injected from the recipe model; also validates the recipe exists
	GetRecipeName func(recipeID primitive.ObjectID) (string, error)
}

// SetSlot assigns a recipe to a day/slot of the owner's calendar
func (m MealPlanModel) SetSlot(ownerID string, day string, slotCode int32, recipeID string) (*MealPlanEntry, error) {

	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, ErrInvalidUser
	}

	if _, err := time.Parse(planDayLayout, day); err != nil {
		return nil, ErrInvalidPlanDay
	}

	if !lookups.MealSlotValid(slotCode) {
		return nil, ErrInvalidMealSlot
	}

	recipe, err := primitive.ObjectIDFromHex(recipeID)
	if err != nil {
		return nil, apperror.ErrNoData
	}

	// resolve the name once at assignment time
	name, err := m.GetRecipeName(recipe)
	if err != nil {
		return nil, err
	}

	entry := &MealPlanEntry{
		OwnerID:    owner,
		Day:        day,
		SlotCode:   slotCode,
		RecipeID:   recipe,
		RecipeName: name,
		PlannedTS:  time.Now(),
	}

	if err := m.Store.Upsert(entry); err != nil {
		return nil, err
	}

	entry.SlotText = database.GetLookupText(lookups.LookupType(lookups.LTmealSlot), entry.SlotCode)

	return entry, nil
}

// ClearSlot removes an assignment; clearing an empty slot is a no-op
func (m MealPlanModel) ClearSlot(ownerID string, day string, slotCode int32) error {

	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return ErrInvalidUser
	}

	if _, err := time.Parse(planDayLayout, day); err != nil {
		return ErrInvalidPlanDay
	}

	if !lookups.MealSlotValid(slotCode) {
		return ErrInvalidMealSlot
	}

	return m.Store.Remove(owner, day, slotCode)
}

// GetRange lists the owner's assignments between two days (inclusive)
func (m MealPlanModel) GetRange(ownerID string, fromDay string, toDay string) ([]MealPlanEntry, error) {

	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, ErrInvalidUser
	}

	if _, err := time.Parse(planDayLayout, fromDay); err != nil {
		return nil, ErrInvalidPlanDay
	}
	if _, err := time.Parse(planDayLayout, toDay); err != nil {
		return nil, ErrInvalidPlanDay
	}

	entries, err := m.Store.Range(owner, fromDay, toDay)
	if err != nil {
		return nil, err
	}

	if entries == nil {
		return nil, apperror.ErrNoData
	}

	for i := range entries {
		entries[i].SlotText = database.GetLookupText(lookups.LookupType(lookups.LTmealSlot), entries[i].SlotCode)
	}

	return entries, nil
}
