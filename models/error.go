package models

import (
	"errors"
)

// custom error types (generic kinds found in apperror package)

// user
var (
	ErrUserNameNotAvailable = errors.New("user name is not available")
	ErrEMailAddressTaken    = errors.New("email-address is already used")
	ErrInvalidUser          = errors.New("invalid user name or password")
	ErrInvalidPassword      = errors.New("password does not meet rules")
)

// recipe
// transformed by controllers to respective Unprocessable Entity (422)
var (
	ErrRecipeTitleMissing = errors.New("recipe title is required")
	ErrRecipeStepsMissing = errors.New("at least one preparation step is required")
	ErrRatingOutOfRange   = errors.New("rating must be between 0 and 5")
)

// collection
var (
	ErrCollectionNameMissing  = errors.New("collection name is required")
	ErrCollectionNameReserved = errors.New("collection name is reserved")
	ErrCollectionNameTaken    = errors.New("collection name already used")
	ErrCollectionProtected    = errors.New("collection can not be renamed or deleted")
)

// meal plan
var (
	ErrInvalidPlanDay  = errors.New("plan day must be given as YYYY-MM-DD")
	ErrInvalidMealSlot = errors.New("unknown meal slot")
)
