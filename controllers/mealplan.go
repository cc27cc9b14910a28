package controllers

import (
	"net/http"
	"time"

	"recipe-box/apperror"
	"recipe-box/authentication"
	"recipe-box/environment"

	"github.com/gin-gonic/gin"
)

// SetMealSlot plans a recipe for a day & slot (upsert)
func SetMealSlot(c *gin.Context) {

	var apiError ErrorResponse

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	data := struct {
		Day      string `json:"day" binding:"required"`
		SlotCode int32  `json:"slotCode"`
		RecipeID string `json:"recipeID" binding:"required"`
	}{}

	if err := c.ShouldBindJSON(&data); err != nil {
		apiError.Code = InvalidJSON
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	entry, err := environment.Env.MealPlanModel.SetSlot(userID, data.Day, data.SlotCode, data.RecipeID)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// ClearMealSlot removes a planned entry (clearing twice is fine)
func ClearMealSlot(c *gin.Context) {

	var apiError ErrorResponse

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	data := struct {
		Day      string `json:"day" binding:"required"`
		SlotCode int32  `json:"slotCode"`
	}{}

	if err := c.ShouldBindJSON(&data); err != nil {
		apiError.Code = InvalidJSON
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	err = environment.Env.MealPlanModel.ClearSlot(userID, data.Day, data.SlotCode)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusOK)
}

// GetMealPlan returns the planned entries of a date range
// format => http://localhost:3000/mealplan?from=2021-05-03&to=2021-05-09
func GetMealPlan(c *gin.Context) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	from := c.Query("from")
	to := c.Query("to")

	// default: current week (monday to sunday)
	if from == "" || to == "" {
		now := time.Now()
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7 // sunday
		}
		monday := now.AddDate(0, 0, 1-weekday)
		from = monday.Format("2006-01-02")
		to = monday.AddDate(0, 0, 6).Format("2006-01-02")
	}

	entries, err := environment.Env.MealPlanModel.GetRange(userID, from, to)
	if err != nil {
		// nothing planned (not an error to the client)
		if err == apperror.ErrNoData {
			c.Status(http.StatusNoContent)
			return
		}
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, entries)
}
