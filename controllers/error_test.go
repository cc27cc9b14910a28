package controllers

import (
	"errors"
	"net/http"
	"testing"

	"recipe-box/apperror"
	"recipe-box/helpers"
	"recipe-box/models"
)

func TestHandleError(t *testing.T) {

	tests := []struct {
		err    error
		status int
		code   int32
	}{
		{apperror.ErrRecordChanged, http.StatusConflict, RecordChanged},
		{apperror.ErrDenied, http.StatusForbidden, ActionDenied},
		{models.ErrCollectionProtected, http.StatusForbidden, CollectionProtected},
		{models.ErrRatingOutOfRange, http.StatusUnprocessableEntity, RatingOutOfRange},
		// unclassified errors stay a generic server problem
		{errors.New("boom"), http.StatusInternalServerError, SystemError},
	}

	for _, tc := range tests {
		status, apiError := HandleError(tc.err)
		if status != tc.status || apiError.Code != tc.code {
			t.Errorf("%v: got %d/%d, want %d/%d", tc.err, status, apiError.Code, tc.status, tc.code)
		}
		if apiError.Message == "" {
			t.Errorf("%v: message not resolved for code %d", tc.err, apiError.Code)
		}
	}
}

// store failures are wrapped by the db layer and must surface as a
// retryable "unavailable", not as a generic server problem
func TestHandleErrorStoreUnavailable(t *testing.T) {

	wrapped := helpers.WrapError(errors.New("connection refused"), "CollectionDB.Insert")

	if !errors.Is(wrapped, apperror.ErrUnavailable) {
		t.Fatal("wrapped store error not classified as unavailable")
	}

	status, apiError := HandleError(wrapped)
	if status != http.StatusServiceUnavailable || apiError.Code != StoreUnavailable {
		t.Errorf("got %d/%d, want %d/%d", status, apiError.Code, http.StatusServiceUnavailable, StoreUnavailable)
	}
}
