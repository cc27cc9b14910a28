package controllers

import (
	"net/http"
	"strings"

	"recipe-box/authentication"
	"recipe-box/environment"
	"recipe-box/helpers"

	"github.com/gin-gonic/gin"
)

// GetUser sends a profile
func GetUser(c *gin.Context) {

	// userID (currentUser) could be used to check a user's permission to view another profile
	_, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, err.Error())
		return
	}

	// a missing parameter needs no check, that would be another route
	user, err := environment.Env.UserModel.GetUserByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNoContent, nil)
		return
	}

	// don't send password hash
	user.Password = ""

	c.JSON(http.StatusOK, &user)
}

// SetBio updates the current user's profile text
func SetBio(c *gin.Context) {

	var apiError ErrorResponse

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	data := struct {
		Bio string `json:"bio"`
	}{}

	if err := c.ShouldBindJSON(&data); err != nil {
		apiError.Code = InvalidJSON
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	err = environment.Env.UserModel.SetBio(helpers.ObjectID(userID), strings.TrimSpace(data.Bio))
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusOK)
}
