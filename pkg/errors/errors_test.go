package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsSetTypeAndStatus(t *testing.T) {
	cases := []struct {
		err     *AppError
		errType ErrorType
		status  int
	}{
		{NewValidationError("bad input"), ErrorTypeValidation, 400},
		{NewNotFoundError("element x"), ErrorTypeNotFound, 404},
		{NewConflictError("concurrent edit"), ErrorTypeConflict, 409},
		{NewConsistencyError("invariant broken"), ErrorTypeConsistency, 500},
		{NewInternalError("boom"), ErrorTypeInternal, 500},
		{NewStoreIOError("write timeline", stderrors.New("disk full")), ErrorTypeStoreIO, 500},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.errType, tc.err.Type)
		assert.Equal(t, tc.status, tc.err.HTTPStatus)
		assert.NotEmpty(t, tc.err.StackTrace)
	}
}

func TestTypePredicates(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("x")))
	assert.True(t, IsValidation(NewValidationError("x")))
	assert.True(t, IsConflict(NewConflictError("x")))
	assert.True(t, IsConsistency(NewConsistencyError("x")))
	assert.True(t, IsStoreIO(NewStoreIOError("op", nil)))
	assert.True(t, IsInternal(NewInternalError("x")))

	assert.False(t, IsNotFound(NewValidationError("x")))
	assert.False(t, IsNotFound(stderrors.New("plain")))
	assert.False(t, IsNotFound(nil))
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading element: %w", NewNotFoundError("element x"))

	assert.True(t, IsNotFound(wrapped))
	require.NotNil(t, GetAppError(wrapped))
	assert.Equal(t, ErrorTypeNotFound, GetAppError(wrapped).Type)
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))

	// Wrapping an AppError keeps its type and prefixes the message
	wrapped := Wrap(NewNotFoundError("element x"), "loading snapshot")
	assert.True(t, IsNotFound(wrapped))
	assert.Contains(t, wrapped.Error(), "loading snapshot")

	// Wrapping a plain error produces an internal error with the cause kept
	plain := stderrors.New("net failure")
	wrapped = Wrap(plain, "calling store")
	assert.True(t, IsInternal(wrapped))
	assert.ErrorIs(t, wrapped, plain)
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := NewStoreIOError("write timeline", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk full")
}
