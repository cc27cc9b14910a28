package controllers

import (
	"fmt"
	"net/http"
	"time"

	"recipe-box/apperror"
	"recipe-box/authentication"
	"recipe-box/environment"

	"github.com/gin-gonic/gin"
)

// GetVisits returns the visit counter of a profile
// http://localhost:3000/stats/visits?id=604b6859f09f3aeecc9215c5&startDT=2021-03-20
func GetVisits(c *gin.Context) {

	var (
		err      error
		apiError ErrorResponse
	)

	id := c.Query("id")
	if id == "" {
		apiError.Code = InvalidRequest
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	startDT, err := visitRangeStart(c)
	if err != nil {
		apiError.Code = InvalidRequest
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	visits, err := environment.Env.Tracker.GetVisits("recipe", id, startDT)
	if err != nil {
		fmt.Println(err)
		apiError.Code = InvalidRequest
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	// wrap response into an object
	res := struct {
		Visits int64 `json:"visits"`
	}{visits}

	c.JSON(http.StatusOK, res)
}

// ListVisitors returns the most recent visitors of a profile
// http://localhost:3000/stats/visitors?id=604b6859f09f3aeecc9215c5&startDT=2021-03-20
func ListVisitors(c *gin.Context) {

	var apiError ErrorResponse

	_, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	id := c.Query("id")
	if id == "" {
		apiError.Code = InvalidRequest
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	startDT, err := visitRangeStart(c)
	if err != nil {
		apiError.Code = InvalidRequest
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	visitors, err := environment.Env.Tracker.ListVisitors("recipe", id, startDT)
	if err != nil {
		// nothing found (not an error to the client)
		if err == apperror.ErrNoData {
			c.Status(http.StatusNoContent)
			return
		}
		// technical errors
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, visitors)
}

// visitRangeStart reads the optional startDT query param (default: 7 days back at 00:00:00)
func visitRangeStart(c *gin.Context) (time.Time, error) {

	startStr := c.Query("startDT")
	if startStr == "" {
		startDT := time.Now().AddDate(0, 0, -7)
		return time.Date(startDT.Year(), startDT.Month(), startDT.Day(), 0, 0, 0, 0, startDT.UTC().Location()), nil
	}

	return time.Parse("2006-01-02", startStr)
}
