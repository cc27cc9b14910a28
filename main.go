package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"recipe-box/authentication"
	"recipe-box/controllers"
	"recipe-box/database"
	"recipe-box/environment"
	"recipe-box/middleware"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	router = gin.Default()
)

// runs BEFORE the program execution (main)
// the order of package inits is undefined though!
func init() {
	// load config
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}
}

func handleRequests() {
	router.Use(middleware.CORSMiddleware())

	router.GET("/lookups", controllers.ListLookups)

	// auth-related
	router.POST("/login", controllers.Login)
	router.POST("/logout", authentication.TokenAuthMiddleware(), controllers.Logout)
	router.POST("/refresh", controllers.Refresh) // do not check whether the at is still valid (no middleware)
	router.POST("/register", controllers.Register)

	router.POST("/user/exists", controllers.UserExists)
	router.POST("/email/exists", controllers.EMailExists)

	// user-mgmt
	router.GET("/users/:id", authentication.TokenAuthMiddleware(), controllers.GetUser)
	router.POST("/user/changePass", authentication.TokenAuthMiddleware(), controllers.ChangePassword)
	router.POST("/user/verifyPass", authentication.TokenAuthMiddleware(), controllers.VerifyPassword)
	router.POST("/user/verifyEMail", authentication.TokenAuthMiddleware(), controllers.VerifyEMail)
	router.PUT("/user/bio", authentication.TokenAuthMiddleware(), controllers.SetBio)

	// recipes
	// GET has no BODY (Go/Gin & Postman support it, Angular does not) - hence parameters
	router.GET("/recipes", controllers.ListRecipes)
	router.GET("/recipes/:id", controllers.GetRecipe)
	router.POST("/recipes", authentication.TokenAuthMiddleware(), controllers.AddRecipe)
	router.PUT("/recipes/:id", authentication.TokenAuthMiddleware(), controllers.UpdateRecipe)
	router.DELETE("/recipes/:id", authentication.TokenAuthMiddleware(), controllers.DeleteRecipe)

	// rating
	router.POST("/recipes/:id/rating", authentication.TokenAuthMiddleware(), controllers.RateRecipe)

	// collections
	router.GET("/collections", authentication.TokenAuthMiddleware(), controllers.ListCollections)
	router.GET("/collections/:id", authentication.TokenAuthMiddleware(), controllers.GetCollection)
	router.POST("/collections", authentication.TokenAuthMiddleware(), controllers.AddCollection)
	router.PUT("/collections/:id", authentication.TokenAuthMiddleware(), controllers.RenameCollection)
	router.DELETE("/collections/:id", authentication.TokenAuthMiddleware(), controllers.DeleteCollection)
	router.POST("/collections/:id/recipes", authentication.TokenAuthMiddleware(), controllers.AddCollectionRecipes)
	router.DELETE("/collections/:id/recipes", authentication.TokenAuthMiddleware(), controllers.RemoveCollectionRecipes)

	// logics (domain-singular/verb)
	router.POST("/favorite", authentication.TokenAuthMiddleware(), controllers.ToggleFavorite)

	// meal plan
	router.GET("/mealplan", authentication.TokenAuthMiddleware(), controllers.GetMealPlan)
	router.POST("/mealplan", authentication.TokenAuthMiddleware(), controllers.SetMealSlot)
	router.DELETE("/mealplan", authentication.TokenAuthMiddleware(), controllers.ClearMealSlot)

	// analytics
	router.GET("/stats/visits", controllers.GetVisits) // visits since last 7 days "hot"
	router.GET("/stats/visitors", authentication.TokenAuthMiddleware(), controllers.ListVisitors)

	// system tools
	router.GET("/monitor/requests/count", authentication.TokenAuthMiddleware(), controllers.CountRequests)
	router.GET("/monitor/requests/dump", authentication.TokenAuthMiddleware(), controllers.DumpRequests)
	router.POST("/monitor/requests/flush", authentication.TokenAuthMiddleware(), controllers.FlushRequests)

	switch os.Getenv("APP_ENV") {
	case "DEV":
		router.Run(":" + os.Getenv("API_PORT"))
	case "PRD":
		router.RunTLS(":"+os.Getenv("API_PORT"), os.Getenv("APP_CERTFILE"), os.Getenv("APP_KEYFILE"))
	default:
		panic(fmt.Errorf("APP_ENV not set"))
	}
}

func main() {
	// connect to main database here (mongoDB)
	err := database.OpenConnection()
	if err != nil {
		log.Fatal(err)
	}
	defer database.CloseConnection()

	// connect to JWT store (redis)
	err = authentication.OpenConnection()
	if err != nil {
		log.Fatal(err)
	}
	defer authentication.CloseConnection()

	// connect to analysis cache (redis)
	err = database.OpenRedisConnection()
	if err != nil {
		log.Fatal(err)
	}
	defer database.CloseRedisConnection()

	// connect to analytics store (influxDB)
	if os.Getenv("USE_ANALYTICS") == "YES" {
		err = database.OpenInfluxConnection()
		if err != nil {
			log.Fatal(err)
		}
		defer database.CloseInfluxConnection()
	}

	// initialize the models
	environment.InitializeModels()

	// housekeeping (request registry & analytics replication)
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			environment.Env.Requests.Flush()
			if os.Getenv("USE_ANALYTICS") == "YES" {
				environment.Env.Tracker.Replicate()
			}
		}
	}()

	fmt.Println("Recipe-Box running...")
	handleRequests()
}
