package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"recipe-box/apperror"
	"recipe-box/models"
)

// generic custom error types
var (
	ErrInvalidRequest = errors.New("invalid json")
)

// ErrorResponse is the standardized error structure which may be returned by any API
type ErrorResponse struct {
	Code    int32  `json:"code"`
	Message string `json:"msg"`
}

// HandleError encodes the std ErrorResponse
func HandleError(err error) (httpStatus int, apiError ErrorResponse) {

	if err == nil {
		apiError.Code = 0
		apiError.Message = ""

		return 0, apiError
	}

	fmt.Println(err)

	// infrastructure failures (wrapped by the store layer) are retryable
	if errors.Is(err, apperror.ErrUnavailable) {
		apiError.Code = StoreUnavailable
		apiError.Message = apiError.String(apiError.Code)
		return http.StatusServiceUnavailable, apiError
	}

	switch err {
	// system
	case apperror.ErrMultipleRecords:
		apiError.Code = MultipleRecords
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusInternalServerError
	case apperror.ErrRecordChanged:
		apiError.Code = RecordChanged
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusConflict
	// permissions
	case apperror.ErrGuest:
		apiError.Code = PermissionGuest
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	case apperror.ErrUnverified:
		apiError.Code = PermissionUnverified
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	case apperror.ErrDenied:
		apiError.Code = ActionDenied
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusForbidden
	// user
	case models.ErrUserNameNotAvailable:
		apiError.Code = UserNameTaken
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	case models.ErrEMailAddressTaken:
		apiError.Code = EMailAddressTaken
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	case models.ErrInvalidUser:
		apiError.Code = InvalidRequest
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	case models.ErrInvalidPassword:
		apiError.Code = InvalidPassword
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	// recipe
	case models.ErrRecipeTitleMissing:
		apiError.Code = RecipeTitleMissing
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	case models.ErrRecipeStepsMissing:
		apiError.Code = RecipeStepsMissing
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	case models.ErrRatingOutOfRange:
		apiError.Code = RatingOutOfRange
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	// collection
	case models.ErrCollectionNameMissing:
		apiError.Code = CollectionNameMissing
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	case models.ErrCollectionNameReserved:
		apiError.Code = CollectionNameReserved
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	case models.ErrCollectionNameTaken:
		apiError.Code = CollectionNameTaken
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	case models.ErrCollectionProtected:
		apiError.Code = CollectionProtected
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusForbidden
	// meal plan
	case models.ErrInvalidPlanDay:
		apiError.Code = InvalidPlanDay
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	case models.ErrInvalidMealSlot:
		apiError.Code = InvalidMealSlot
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	default:
		apiError.Code = SystemError
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusInternalServerError
	}
	return httpStatus, apiError
}

// Application Error Codes (API Errors)
const (
	// client/api
	InvalidJSON int32 = (10000 + iota)
	InvalidRequest
	InvalidLogin
	// generic system
	MultipleRecords
	RecordChanged
	StoreUnavailable
	ActionDenied
	// permission
	PermissionGuest
	PermissionUnverified
	// user
	UserNameTaken
	EMailAddressTaken
	InvalidPassword
	// recipe
	RecipeTitleMissing
	RecipeStepsMissing
	RatingOutOfRange
	// collection
	CollectionNameMissing
	CollectionNameReserved
	CollectionNameTaken
	CollectionProtected
	// meal plan
	InvalidPlanDay
	InvalidMealSlot
	SystemError = 99999
)

func (er ErrorResponse) String(code int32) string {
	msg := ""
	switch code {
	// common (system)
	case InvalidJSON:
		msg = "Invalid JSON"
	case InvalidRequest:
		msg = "Invalid Request" // JSON was correct, data was not
	case InvalidLogin:
		msg = "invalid user name or password"
	case MultipleRecords:
		msg = "multiple records found"
	case RecordChanged:
		msg = "record changed by another user"
	case StoreUnavailable:
		msg = "store not available - please retry"
	case ActionDenied:
		msg = "update/delete action not allowed"
	// permission (item access)
	case PermissionGuest:
		msg = "user is guest"
	case PermissionUnverified:
		msg = "eMail-address not verified"
	// user
	case UserNameTaken:
		msg = "user name not available"
	case EMailAddressTaken:
		msg = "eMail-address already registered"
	case InvalidPassword:
		msg = "invalid password"
	// recipe
	case RecipeTitleMissing:
		msg = "recipe title is required"
	case RecipeStepsMissing:
		msg = "at least one preparation step is required"
	case RatingOutOfRange:
		msg = "rating must be 1 to 5 (0 to clear)"
	// collection
	case CollectionNameMissing:
		msg = "collection name is required"
	case CollectionNameReserved:
		msg = "collection name is reserved"
	case CollectionNameTaken:
		msg = "collection name already in use"
	case CollectionProtected:
		msg = "built-in collections can not be renamed or deleted"
	// meal plan
	case InvalidPlanDay:
		msg = "plan day must be given as YYYY-MM-DD"
	case InvalidMealSlot:
		msg = "unknown meal slot"
	case SystemError:
		msg = "Server Problem"
	}

	return msg
}
