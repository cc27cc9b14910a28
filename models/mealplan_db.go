package models

import (
	"context"
	"time"

	"recipe-box/helpers"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MealPlanDB is the MongoDB-backed MealPlanStore
type MealPlanDB struct {
	Collection *mongo.Collection
}

// Upsert writes the assignment keyed on (owner, day, slot), so planning
// the same slot twice replaces the former recipe
func (db *MealPlanDB) Upsert(entry *MealPlanEntry) error {

	filter := bson.D{
		{Key: "ownerID", Value: entry.OwnerID},
		{Key: "day", Value: entry.Day},
		{Key: "slotCD", Value: entry.SlotCode},
	}

	fields := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "ownerID", Value: entry.OwnerID},
			{Key: "day", Value: entry.Day},
			{Key: "slotCD", Value: entry.SlotCode},
			{Key: "recipeID", Value: entry.RecipeID},
			{Key: "recipeName", Value: entry.RecipeName},
			{Key: "plannedTS", Value: entry.PlannedTS},
		}},
	}

	opts := options.Update().SetUpsert(true)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := db.Collection.UpdateOne(ctx, filter, fields, opts)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	if res.UpsertedID != nil {
		entry.ID = res.UpsertedID.(primitive.ObjectID)
	}

	return nil
}

func (db *MealPlanDB) Remove(owner primitive.ObjectID, day string, slotCode int32) error {

	filter := bson.D{
		{Key: "ownerID", Value: owner},
		{Key: "day", Value: day},
		{Key: "slotCD", Value: slotCode},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// not interested in the actual result - clearing twice is fine
	_, err := db.Collection.DeleteOne(ctx, filter)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	return nil
}

func (db *MealPlanDB) Range(owner primitive.ObjectID, fromDay string, toDay string) ([]MealPlanEntry, error) {

	filter := bson.D{
		{Key: "ownerID", Value: owner},
		{Key: "day", Value: bson.D{
			{Key: "$gte", Value: fromDay},
			{Key: "$lte", Value: toDay},
		}},
	}

	sort := bson.D{
		{Key: "day", Value: 1},
		{Key: "slotCD", Value: 1},
	}

	opts := options.Find().SetSort(sort)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := db.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var entries []MealPlanEntry

	err = cursor.All(ctx, &entries)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	return entries, nil
}
