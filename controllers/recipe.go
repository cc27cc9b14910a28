package controllers

import (
	"net/http"
	"strconv"

	"recipe-box/analytics"
	"recipe-box/apperror"
	"recipe-box/authentication"
	"recipe-box/environment"
	"recipe-box/helpers"
	"recipe-box/models"

	"github.com/gin-gonic/gin"
)

// AddRecipe creates a new recipe
func AddRecipe(c *gin.Context) {

	var (
		err      error
		data     models.Recipe
		apiError ErrorResponse
	)

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	// use "shouldBind" not all fields are required in this context
	if err = c.ShouldBindJSON(&data); err != nil {
		apiError.Code = InvalidJSON
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	// validate request
	recipe, err := environment.Env.RecipeModel.Validate(data)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	// apply the author from the token (name resolved in model)
	recipe.MetaInfo.CreatedID = helpers.ObjectID(userID)

	id, err := environment.Env.RecipeModel.Create(recipe)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, Created{id})
}

// GetRecipe returns the specified recipe
// format => http://localhost:3000/recipes/6055d819671e62579fcc2151
func GetRecipe(c *gin.Context) {

	var (
		err  error
		data *models.Recipe
	)

	// no error checking because it's optional (anonymous visitors welcome)
	userID, _ := authentication.Authenticate(c.Request)

	var id = c.Param("id")

	data, err = environment.Env.RecipeModel.GetRecipe(id, userID)
	if err != nil {
		switch err {
		case apperror.ErrNoData:
			c.Status(http.StatusNoContent)
		default:
			status, apiError := HandleError(err)
			c.JSON(status, apiError)
		}
		return
	}

	// count the visit unless it's just a page refresh
	if environment.Env.Requests.Continue(c.ClientIP(), id) {
		environment.Env.Tracker.SaveVisitor("recipe", id, userID)
	}

	c.JSON(http.StatusOK, data)
}

// UpdateRecipe stores changed content; only the author may do that
func UpdateRecipe(c *gin.Context) {

	var (
		err      error
		data     models.Recipe
		apiError ErrorResponse
	)

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	if err = c.ShouldBindJSON(&data); err != nil {
		apiError.Code = InvalidJSON
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	recipe, err := environment.Env.RecipeModel.Validate(data)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	recipe.ID = helpers.ObjectID(c.Param("id"))

	err = environment.Env.RecipeModel.Update(recipe, userID)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusOK)
}

// DeleteRecipe removes a recipe; only the author may do that
func DeleteRecipe(c *gin.Context) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	err = environment.Env.RecipeModel.Delete(c.Param("id"), userID)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusOK)
}

// ListRecipes returns a list of recipes
// format => http://localhost:3000/recipes?search=curry&cuisine=2&category=1
func ListRecipes(c *gin.Context) {

	// error maybe ignored here, service is public
	userID, _ := authentication.Authenticate(c.Request)

	search := new(models.RecipeSearch)

	search.UserID = userID
	search.SearchTerm = c.Query("search")
	search.CuisineCode = queryCode(c, "cuisine")
	search.CategoryCode = queryCode(c, "category")

	recipes, err := environment.Env.RecipeModel.SearchRecipes(search)
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

	// log the search for the analytics
	var ids []string
	for _, v := range recipes {
		ids = append(ids, v.ID.Hex())
	}
	environment.Env.Tracker.SaveSearchRecipe(&analytics.RecipeSearchEvent{
		SearchTerm:   search.SearchTerm,
		CuisineCode:  search.CuisineCode,
		CategoryCode: search.CategoryCode,
	}, ids)

	c.JSON(http.StatusOK, recipes)
}

// RateRecipe registers, changes or removes (0) a member's rating and
// returns the recalculated aggregate
func RateRecipe(c *gin.Context) {

	var apiError ErrorResponse

	// for enhanced security, read user from token
	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	data := struct {
		Rating int32 `json:"rating"`
	}{}

	if err = c.ShouldBindJSON(&data); err != nil {
		apiError.Code = InvalidJSON
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	recipe, err := environment.Env.RecipeModel.SetUserRating(c.Param("id"), userID, data.Rating)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	// wrap response into an object
	res := struct {
		RatingCount   int32   `json:"ratingCount"`
		AverageRating float64 `json:"averageRating"`
		UserRating    int32   `json:"userRating"`
	}{recipe.RatingCount, recipe.AverageRating, recipe.UserRating}

	c.JSON(http.StatusOK, res)
}

// queryCode reads an optional numeric query param (-1 = any)
func queryCode(c *gin.Context, name string) int32 {
	s := c.Query(name)
	if s == "" {
		return -1
	}
	code, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return -1
	}
	return int32(code)
}
