package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_WithDetailsDoesNotMutateSentinel(t *testing.T) {
	withDetails := ErrValidationFailed.WithDetails(map[string]interface{}{"violations": 2})

	assert.Nil(t, ErrValidationFailed.Details)
	assert.Equal(t, 2, withDetails.Details["violations"])
	assert.Equal(t, http.StatusBadRequest, withDetails.StatusCode)
}

func TestAppError_Is(t *testing.T) {
	wrapped := fmt.Errorf("find listing: %w", ErrListingNotFound.WithMessage("gone"))

	assert.True(t, stderrors.Is(wrapped, ErrListingNotFound))
	assert.False(t, stderrors.Is(wrapped, ErrForbidden))

	appErr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, CodeListingNotFound, appErr.Code)
	assert.Equal(t, "gone", appErr.Message)

	_, ok = As(stderrors.New("plain"))
	assert.False(t, ok)
}

func TestAs_JoinedErrors(t *testing.T) {
	joined := stderrors.Join(stderrors.New("publish failed"), fmt.Errorf("update: %w", ErrForbidden))

	appErr, ok := As(joined)
	assert.True(t, ok)
	assert.Equal(t, CodeForbidden, appErr.Code)

	_, ok = As(nil)
	assert.False(t, ok)
}
