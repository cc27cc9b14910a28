package controllers

import (
	"net/http"

	"recipe-box/apperror"
	"recipe-box/authentication"
	"recipe-box/environment"
	"recipe-box/helpers"

	"github.com/gin-gonic/gin"
)

// ListCollections returns the current user's collections
// (the built-in ones are created on first use)
func ListCollections(c *gin.Context) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	collections, err := environment.Env.CollectionModel.ListCollections(userID)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, collections)
}

// GetCollection returns one collection with its recipes resolved
func GetCollection(c *gin.Context) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	detail, err := environment.Env.CollectionModel.GetCollection(c.Param("id"))
	if err != nil {
		if err == apperror.ErrNoData {
			c.Status(http.StatusNoContent)
			return
		}
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	// collections are personal, only the owner sees them
	if detail.OwnerID != helpers.ObjectID(userID) {
		status, apiError := HandleError(apperror.ErrDenied)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// AddCollection creates a new custom collection
func AddCollection(c *gin.Context) {

	var apiError ErrorResponse

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	data := struct {
		Name      string   `json:"name" binding:"required"`
		RecipeIDs []string `json:"recipeIDs"`
	}{}

	if err := c.ShouldBindJSON(&data); err != nil {
		apiError.Code = InvalidJSON
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	id, err := environment.Env.CollectionModel.CreateCollection(userID, data.Name, data.RecipeIDs)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, Created{id})
}

// RenameCollection changes a custom collection's name
func RenameCollection(c *gin.Context) {

	var apiError ErrorResponse

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	data := struct {
		Name string `json:"name" binding:"required"`
	}{}

	if err := c.ShouldBindJSON(&data); err != nil {
		apiError.Code = InvalidJSON
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	if err := checkCollectionOwner(c.Param("id"), userID); err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	err = environment.Env.CollectionModel.RenameCollection(c.Param("id"), data.Name)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusOK)
}

// DeleteCollection removes a custom collection (memberships die with it)
func DeleteCollection(c *gin.Context) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	if err := checkCollectionOwner(c.Param("id"), userID); err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	err = environment.Env.CollectionModel.DeleteCollection(c.Param("id"))
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusOK)
}

// AddCollectionRecipes adds recipes to a collection (idempotent)
func AddCollectionRecipes(c *gin.Context) {

	var apiError ErrorResponse

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	data := struct {
		RecipeIDs []string `json:"recipeIDs" binding:"required"`
	}{}

	if err := c.ShouldBindJSON(&data); err != nil {
		apiError.Code = InvalidJSON
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	if err := checkCollectionOwner(c.Param("id"), userID); err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	err = environment.Env.CollectionModel.AddRecipes(c.Param("id"), data.RecipeIDs)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusOK)
}

// RemoveCollectionRecipes removes recipes from a collection (idempotent)
func RemoveCollectionRecipes(c *gin.Context) {

	var apiError ErrorResponse

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	data := struct {
		RecipeIDs []string `json:"recipeIDs" binding:"required"`
	}{}

	if err := c.ShouldBindJSON(&data); err != nil {
		apiError.Code = InvalidJSON
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	if err := checkCollectionOwner(c.Param("id"), userID); err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	err = environment.Env.CollectionModel.RemoveRecipes(c.Param("id"), data.RecipeIDs)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusOK)
}

// ToggleFavorite puts a recipe into the favorites or takes it out again
func ToggleFavorite(c *gin.Context) {

	var apiError ErrorResponse

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	data := struct {
		RecipeID string `json:"recipeID" binding:"required"`
	}{}

	if err := c.ShouldBindJSON(&data); err != nil {
		apiError.Code = InvalidJSON
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	favorite, err := environment.Env.CollectionModel.ToggleFavorite(userID, data.RecipeID)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	// wrap response into an object
	res := struct {
		Favorite bool `json:"favorite"`
	}{favorite}

	c.JSON(http.StatusOK, res)
}

// collections are personal; writers must own them
func checkCollectionOwner(collectionID string, userID string) error {
	detail, err := environment.Env.CollectionModel.GetCollection(collectionID)
	if err != nil {
		return err
	}
	if detail.OwnerID != helpers.ObjectID(userID) {
		return apperror.ErrDenied
	}
	return nil
}
