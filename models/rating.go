package models

import (
	"math"

	"recipe-box/apperror"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// rating boundaries; 0 clears a user's entry
const (
	RatingNone = int32(0)
	RatingMin  = int32(1)
	RatingMax  = int32(5)
)

// Recompute derives count and average from a recipe's rating map.
// Entries outside [RatingMin,RatingMax] are ignored; the average is rounded
// to one decimal and 0.0 when there are no valid entries.
func Recompute(ratings map[string]int32) (count int32, average float64) {

	var sum int64

	for _, v := range ratings {
		if v >= RatingMin && v <= RatingMax {
			count++
			sum += int64(v)
		}
	}

	if count == 0 {
		return 0, 0.0
	}

	// https://yourbasic.org/golang/round-float-to-int/
	average = math.Round(float64(sum)/float64(count)*10) / 10

	return count, average
}

// RetryOnConflict re-runs fn as long as it loses the optimistic lock,
// up to retries additional attempts. Any other outcome (success or a
// different error) is returned as-is. The rating RMW uses exactly one
// retry; a second conflict is surfaced to the caller.
func RetryOnConflict(retries int, fn func() error) error {

	var err error

	for attempt := 0; attempt <= retries; attempt++ {
		err = fn()
		if err != apperror.ErrRecordChanged {
			return err
		}
	}

	return err
}

// SetUserRating stores, changes or clears (rating 0) a user's rating of a
// recipe and recomputes the persisted aggregate in the same conditional
// write. Setting the same value again is a no-op and returns the current
// document state without touching the store.
func (m RecipeModel) SetUserRating(recipeID string, userID string, rating int32) (*Recipe, error) {

	if rating < RatingNone || rating > RatingMax {
		return nil, ErrRatingOutOfRange
	}

	oid, err := primitive.ObjectIDFromHex(recipeID)
	if err != nil {
		return nil, apperror.ErrNoData
	}

	// the userID originates from the token; a broken one is a bad request
	if _, err := primitive.ObjectIDFromHex(userID); err != nil {
		return nil, ErrInvalidUser
	}

	var recipe *Recipe

	err = RetryOnConflict(1, func() error {
		recipe, err = m.Store.ApplyRatings(oid, func(r *Recipe) (bool, error) {

			current, rated := r.Ratings[userID]
			if (!rated && rating == RatingNone) || (rated && current == rating) {
				// no-op: avoid a redundant write
				return false, nil
			}

			if r.Ratings == nil {
				r.Ratings = make(map[string]int32)
			}

			if rating == RatingNone {
				delete(r.Ratings, userID)
			} else {
				r.Ratings[userID] = rating
			}

			r.RatingCount, r.AverageRating = Recompute(r.Ratings)

			return true, nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	recipe.UserRating = recipe.Ratings[userID]
	addRecipeLookups(recipe)

	return recipe, nil
}
