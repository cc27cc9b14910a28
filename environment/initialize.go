package environment

import (
	"os"

	"recipe-box/analytics"
	"recipe-box/client"
	"recipe-box/database"
	"recipe-box/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// Environment is used for dependency-injection (package de-coupling)
type Environment struct {
	Requests        *client.Registry
	Tracker         *analytics.Tracker
	UserModel       models.UserModel
	RecipeModel     models.RecipeModel
	CollectionModel models.CollectionModel
	MealPlanModel   models.MealPlanModel
}

// newEnv operates as the constructor to initialize the collection references (private)
func newEnv(mongoClient *mongo.Client) *Environment {
	env := &Environment{}

	db := mongoClient.Database(os.Getenv("DB_NAME"))

	// request registry used to tell visits from page refreshes
	env.Requests = new(client.Registry)
	env.Requests.Initialize()

	// prepare analytics gathering (profile visits & searches)
	// always create the object so no further checking is needed in the handlers
	influxClient := database.GetInfluxConnection()

	env.Tracker = new(analytics.Tracker)
	env.Tracker.SetConnections(influxClient, database.GetRedisConnection(), map[string]*mongo.Collection{
		"users":   db.Collection("users"),
		"recipes": db.Collection("recipes"),
	})
	// the write/query APIs require an open connection
	if os.Getenv("USE_ANALYTICS") == "YES" {
		env.Tracker.VisitorAPI = database.InfluxAPI{
			WriteAPI: (*influxClient).WriteAPIBlocking(os.Getenv("ANALYTICS_ORG"), os.Getenv("ANALYTICS_VISITORS_BUCKET")),
			QueryAPI: (*influxClient).QueryAPI(os.Getenv("ANALYTICS_ORG")),
		}
		env.Tracker.SearchAPI = database.InfluxAPI{
			WriteAPI: (*influxClient).WriteAPIBlocking(os.Getenv("ANALYTICS_ORG"), os.Getenv("ANALYTICS_SEARCHES_BUCKET")),
			QueryAPI: (*influxClient).QueryAPI(os.Getenv("ANALYTICS_ORG")),
		}
	}
	env.Tracker.Requests = env.Requests

	env.UserModel.Client = mongoClient
	env.UserModel.Collection = db.Collection("users")

	// inject user model function to analytics tracker after its initialization
	env.Tracker.GetUserName = env.UserModel.GetUserName

	env.RecipeModel.Store = &models.RecipeDB{Collection: db.Collection("recipes")}
	// inject functions from the user model into the recipe model
	env.RecipeModel.GetUserName = env.UserModel.GetUserName
	env.RecipeModel.CredentialsReader = env.UserModel.GetCredentials

	env.CollectionModel.Store = &models.CollectionDB{Collection: db.Collection("collections")}
	env.CollectionModel.GetRecipes = env.RecipeModel.GetByIDs

	env.MealPlanModel.Store = &models.MealPlanDB{Collection: db.Collection("mealPlans")}
	env.MealPlanModel.GetRecipeName = env.RecipeModel.GetRecipeName

	return env
}

// Env is the singleton registry
var Env *Environment

// InitializeModels injects the database connection to the models
// (do not confuse with package init)
func InitializeModels() {
	Env = newEnv(database.GetConnection())
}
