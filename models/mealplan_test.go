package models

import (
	"testing"

	"recipe-box/apperror"
	"recipe-box/lookups"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testMealPlanModel(store *memMealPlanStore) MealPlanModel {
	return MealPlanModel{
		Store: store,
		GetRecipeName: func(recipeID primitive.ObjectID) (string, error) {
			return "Pancakes", nil
		},
	}
}

func TestSetSlotValidation(t *testing.T) {

	model := testMealPlanModel(newMemMealPlanStore())

	owner := primitive.NewObjectID().Hex()
	recipe := primitive.NewObjectID().Hex()

	if _, err := model.SetSlot(owner, "03.05.2021", lookups.MealSlotDinner, recipe); err != ErrInvalidPlanDay {
		t.Errorf("bad day: got %v, want ErrInvalidPlanDay", err)
	}
	if _, err := model.SetSlot(owner, "2021-05-03", 99, recipe); err != ErrInvalidMealSlot {
		t.Errorf("bad slot: got %v, want ErrInvalidMealSlot", err)
	}
	if _, err := model.SetSlot("garbage", "2021-05-03", lookups.MealSlotDinner, recipe); err != ErrInvalidUser {
		t.Errorf("bad owner: got %v, want ErrInvalidUser", err)
	}
}

func TestSetSlotUpsert(t *testing.T) {

	store := newMemMealPlanStore()
	model := testMealPlanModel(store)

	owner := primitive.NewObjectID()
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()

	entry, err := model.SetSlot(owner.Hex(), "2021-05-03", lookups.MealSlotDinner, first.Hex())
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if entry.RecipeName != "Pancakes" {
		t.Errorf("recipe name not resolved: %q", entry.RecipeName)
	}

	// planning the same day & slot again replaces the assignment
	if _, err := model.SetSlot(owner.Hex(), "2021-05-03", lookups.MealSlotDinner, second.Hex()); err != nil {
		t.Fatalf("replace: %v", err)
	}

	entries, err := model.GetRange(owner.Hex(), "2021-05-03", "2021-05-03")
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1 (upsert)", len(entries))
	}
	if entries[0].RecipeID != second {
		t.Errorf("slot not replaced")
	}
}

func TestClearSlot(t *testing.T) {

	store := newMemMealPlanStore()
	model := testMealPlanModel(store)

	owner := primitive.NewObjectID()
	recipe := primitive.NewObjectID()

	if _, err := model.SetSlot(owner.Hex(), "2021-05-03", lookups.MealSlotLunch, recipe.Hex()); err != nil {
		t.Fatalf("set: %v", err)
	}

	if err := model.ClearSlot(owner.Hex(), "2021-05-03", lookups.MealSlotLunch); err != nil {
		t.Fatalf("clear: %v", err)
	}

	// clearing an already empty slot is a no-op
	if err := model.ClearSlot(owner.Hex(), "2021-05-03", lookups.MealSlotLunch); err != nil {
		t.Errorf("second clear: %v", err)
	}

	if _, err := model.GetRange(owner.Hex(), "2021-05-03", "2021-05-03"); err != apperror.ErrNoData {
		t.Errorf("got %v, want ErrNoData", err)
	}
}

func TestGetRange(t *testing.T) {

	store := newMemMealPlanStore()
	model := testMealPlanModel(store)

	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()
	recipe := primitive.NewObjectID().Hex()

	days := []string{"2021-05-03", "2021-05-05", "2021-05-10"}
	for _, day := range days {
		if _, err := model.SetSlot(owner.Hex(), day, lookups.MealSlotDinner, recipe); err != nil {
			t.Fatalf("set %s: %v", day, err)
		}
	}
	// another user's plan stays invisible
	if _, err := model.SetSlot(other.Hex(), "2021-05-04", lookups.MealSlotDinner, recipe); err != nil {
		t.Fatalf("set other: %v", err)
	}

	entries, err := model.GetRange(owner.Hex(), "2021-05-03", "2021-05-09")
	if err != nil {
		t.Fatalf("range: %v", err)
	}

	// both boundaries inclusive, sorted by day
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Day != "2021-05-03" || entries[1].Day != "2021-05-05" {
		t.Errorf("unexpected order: %s, %s", entries[0].Day, entries[1].Day)
	}

	if _, err := model.GetRange(owner.Hex(), "03-05-2021", "2021-05-09"); err != ErrInvalidPlanDay {
		t.Errorf("bad from-day: got %v, want ErrInvalidPlanDay", err)
	}
}
