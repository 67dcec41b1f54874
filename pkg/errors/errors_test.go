package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	wrapped := Wrap(stderrors.New("bad clock"), ErrValidation.Code, ErrValidation.Status, "invalid weekly block")

	got := FromError(wrapped)
	assert.Same(t, wrapped, got)
	assert.Equal(t, "invalid weekly block: bad clock", got.Error())
	assert.EqualError(t, stderrors.Unwrap(got), "bad clock")
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	got := FromError(stderrors.New("boom"))
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.Nil(t, FromError(nil))
}

func TestCloneOverridesMessageOnly(t *testing.T) {
	clone := Clone(ErrNotFound, "student not found")
	assert.Equal(t, "student not found", clone.Message)
	assert.Equal(t, ErrNotFound.Code, clone.Code)
	assert.Equal(t, "resource not found", ErrNotFound.Message)
	assert.Nil(t, Clone(nil, "x"))
}
