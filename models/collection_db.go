package models

import (
	"context"
	"regexp"
	"time"

	"recipe-box/apperror"
	"recipe-box/helpers"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionDB is the MongoDB-backed CollectionStore.
// The collection carries a unique index on {ownerID, name} - that index
// settles the find-or-create race of EnsureDefaults.
type CollectionDB struct {
	Collection *mongo.Collection
}

func (db *CollectionDB) ListByOwner(owner primitive.ObjectID) ([]Collection, error) {

	sort := bson.D{
		{Key: "name", Value: 1},
	}

	opts := options.Find().SetSort(sort)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := db.Collection.Find(ctx, bson.M{"ownerID": owner}, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var collections []Collection

	err = cursor.All(ctx, &collections)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	return collections, nil
}

func (db *CollectionDB) Get(id primitive.ObjectID) (*Collection, error) {

	data := Collection{}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := db.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&data)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperror.ErrNoData
		}
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	return &data, nil
}

func (db *CollectionDB) FindByName(owner primitive.ObjectID, name string, foldCase bool) (*Collection, error) {

	var nameFilter interface{} = name
	if foldCase {
		// anchored, case-insensitive equality
		nameFilter = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(name) + "$", Options: "i"}
	}

	filter := bson.D{
		{Key: "ownerID", Value: owner},
		{Key: "name", Value: nameFilter},
	}

	data := Collection{}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := db.Collection.FindOne(ctx, filter).Decode(&data)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperror.ErrNoData
		}
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	return &data, nil
}

func (db *CollectionDB) Insert(collection *Collection) (string, error) {

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := db.Collection.InsertOne(ctx, collection)
	if err != nil {
		// https://stackoverflow.com/questions/56916969/with-mongodb-go-driver-how-do-i-get-the-inner-exceptions
		if we, ok := err.(mongo.WriteException); ok {
			if len(we.WriteErrors) > 0 && we.WriteErrors[0].Code == 11000 {
				// Error 11000 = DUP on the {ownerID, name} index
				return "", ErrCollectionNameTaken
			}
		}
		return "", helpers.WrapError(err, helpers.FuncName())
	}

	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (db *CollectionDB) Rename(id primitive.ObjectID, newName string) error {

	filter := bson.D{{Key: "_id", Value: id}}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "name", Value: newName},
			{Key: "touchedTS", Value: time.Now()},
		}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := db.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		if we, ok := err.(mongo.WriteException); ok {
			if len(we.WriteErrors) > 0 && we.WriteErrors[0].Code == 11000 {
				return ErrCollectionNameTaken
			}
		}
		return helpers.WrapError(err, helpers.FuncName())
	}

	if result.MatchedCount == 0 {
		return apperror.ErrNoData
	}

	return nil
}

func (db *CollectionDB) Delete(id primitive.ObjectID) error {

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := db.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	if result.DeletedCount == 0 {
		return apperror.ErrNoData
	}

	return nil
}

// AddRecipes relies on $addToSet, so a duplicate id can never enter the
// membership array regardless of how often it is sent
func (db *CollectionDB) AddRecipes(id primitive.ObjectID, recipeIDs []primitive.ObjectID) error {

	filter := bson.D{{Key: "_id", Value: id}}
	update := bson.D{
		{Key: "$addToSet", Value: bson.D{
			{Key: "recipeIDs", Value: bson.D{
				{Key: "$each", Value: recipeIDs},
			}},
		}},
		{Key: "$set", Value: bson.D{
			{Key: "touchedTS", Value: time.Now()},
		}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := db.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	if result.MatchedCount == 0 {
		return apperror.ErrNoData
	}

	return nil
}

// RemoveRecipes uses $pullAll; removing an absent id matches the document
// but modifies nothing, which is the wanted no-op
func (db *CollectionDB) RemoveRecipes(id primitive.ObjectID, recipeIDs []primitive.ObjectID) error {

	filter := bson.D{{Key: "_id", Value: id}}
	update := bson.D{
		{Key: "$pullAll", Value: bson.D{
			{Key: "recipeIDs", Value: recipeIDs},
		}},
		{Key: "$set", Value: bson.D{
			{Key: "touchedTS", Value: time.Now()},
		}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := db.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	if result.MatchedCount == 0 {
		return apperror.ErrNoData
	}

	return nil
}
