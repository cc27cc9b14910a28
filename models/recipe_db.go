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

// RecipeDB is the MongoDB-backed RecipeStore
type RecipeDB struct {
	Collection *mongo.Collection
}

func (db *RecipeDB) Insert(recipe *Recipe) (string, error) {

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := db.Collection.InsertOne(ctx, recipe)
	if err != nil {
		return "", helpers.WrapError(err, helpers.FuncName())
	}

	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (db *RecipeDB) Get(id primitive.ObjectID) (*Recipe, error) {

	data := Recipe{}

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

func (db *RecipeDB) GetByIDs(ids []primitive.ObjectID) ([]Recipe, error) {

	if len(ids) == 0 {
		return nil, nil
	}

	filter := bson.D{
		{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := db.Collection.Find(ctx, filter)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var recipes []Recipe

	err = cursor.All(ctx, &recipes)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	return recipes, nil
}

// Update replaces the author-owned content fields, guarded by the record
// version so a concurrent edit is not silently overwritten
func (db *RecipeDB) Update(recipe *Recipe) error {

	filter := bson.D{
		{Key: "_id", Value: recipe.ID},
		{Key: "metaInfo.recVer", Value: recipe.MetaInfo.RecVer},
	}

	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "title", Value: recipe.Title},
			{Key: "ingredients", Value: recipe.Ingredients},
			{Key: "steps", Value: recipe.Steps},
			{Key: "cuisineCD", Value: recipe.CuisineCode},
			{Key: "categoryCD", Value: recipe.CategoryCode},
			{Key: "servings", Value: recipe.Servings},
			{Key: "prepTime", Value: recipe.PrepTime},
			{Key: "cookTime", Value: recipe.CookTime},
			{Key: "imageURL", Value: recipe.ImageURL},
			{Key: "metaInfo.modifiedTS", Value: recipe.MetaInfo.ModifiedTS},
			{Key: "metaInfo.modifiedID", Value: recipe.MetaInfo.ModifiedID},
			{Key: "metaInfo.modifiedName", Value: recipe.MetaInfo.ModifiedName},
			{Key: "metaInfo.touchedTS", Value: recipe.MetaInfo.TouchedTS},
		}},
		{Key: "$inc", Value: bson.D{
			{Key: "metaInfo.recVer", Value: 1},
		}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := db.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	if result.MatchedCount == 0 {
		// either gone or changed in between; a re-read tells
		return apperror.ErrRecordChanged
	}

	return nil
}

func (db *RecipeDB) Delete(id primitive.ObjectID) error {

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

func (db *RecipeDB) Search(searchSpecs *RecipeSearch) ([]Recipe, error) {

	// use original struct to receive selected fields
	fields := bson.D{
		{Key: "_id", Value: 1},
		{Key: "metaInfo", Value: 1},
		{Key: "title", Value: 1},
		{Key: "cuisineCD", Value: 1},
		{Key: "categoryCD", Value: 1},
		{Key: "prepTime", Value: 1},
		{Key: "cookTime", Value: 1},
		{Key: "imageURL", Value: 1},
		{Key: "ratingCount", Value: 1},
		{Key: "averageRating", Value: 1},
	}

	sort := bson.D{
		{Key: "averageRating", Value: -1},
		{Key: "metaInfo.touchedTS", Value: -1},
	}

	opts := options.Find().SetProjection(fields).SetLimit(20).SetSort(sort)

	// https://docs.mongodb.com/manual/reference/operator/query/#query-selectors
	filter := bson.D{}

	if searchSpecs.CuisineCode >= 0 {
		filter = append(filter, bson.E{Key: "cuisineCD", Value: searchSpecs.CuisineCode})
	}
	if searchSpecs.CategoryCode >= 0 {
		filter = append(filter, bson.E{Key: "categoryCD", Value: searchSpecs.CategoryCode})
	}
	if searchSpecs.SearchTerm != "" {
		// LIKE %searchTerm% (case-insensitive) on title or ingredients
		pattern := primitive.Regex{Pattern: ".*" + regexp.QuoteMeta(searchSpecs.SearchTerm) + ".*", Options: "i"}
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "title", Value: pattern}},
			bson.D{{Key: "ingredients", Value: pattern}},
		}})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := db.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var recipes []Recipe

	err = cursor.All(ctx, &recipes)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	return recipes, nil
}

// ApplyRatings implements the optimistic read-modify-write on the rating
// fields: read the document, let apply rewrite the rating map plus its
// aggregate, then write all of them back in a single conditional update
func (db *RecipeDB) ApplyRatings(id primitive.ObjectID, apply func(recipe *Recipe) (bool, error)) (*Recipe, error) {

	recipe, err := db.Get(id)
	if err != nil {
		return nil, err
	}

	changed, err := apply(recipe)
	if err != nil {
		return nil, err
	}
	if !changed {
		return recipe, nil
	}

	filter := bson.D{
		{Key: "_id", Value: id},
		{Key: "metaInfo.recVer", Value: recipe.MetaInfo.RecVer},
	}

	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "ratings", Value: recipe.Ratings},
			{Key: "ratingCount", Value: recipe.RatingCount},
			{Key: "averageRating", Value: recipe.AverageRating},
			{Key: "metaInfo.touchedTS", Value: time.Now()}, // a rating updates the "touched" info, not the "modified"
		}},
		{Key: "$inc", Value: bson.D{
			{Key: "metaInfo.recVer", Value: 1},
		}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := db.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	if result.MatchedCount == 0 {
		// another user's rating landed first
		return nil, apperror.ErrRecordChanged
	}

	recipe.MetaInfo.RecVer++

	return recipe, nil
}
