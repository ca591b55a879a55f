package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsErrorType_Wrapped(t *testing.T) {
	err := fmt.Errorf("handler: %w", NewValidationFailed("number", "must be positive"))

	assert.True(t, IsErrorType(err, ErrorTypeValidation))
	assert.False(t, IsErrorType(err, ErrorTypeAccess))
}

func TestIsErrorType_Sentinel(t *testing.T) {
	err := fmt.Errorf("gate: %w", ErrPermissionDenied)

	assert.True(t, IsErrorType(err, ErrorTypeAccess))
	assert.True(t, stderrors.Is(err, ErrPermissionDenied))
}

func TestIsErrorType_Nil(t *testing.T) {
	assert.False(t, IsErrorType(nil, ErrorTypeGraph))
	assert.False(t, IsErrorType(stderrors.New("plain"), ErrorTypeGraph))
}

func TestValidationFailed_Fields(t *testing.T) {
	err := NewValidationFailed("number", "must be positive")

	var vErr *ErrValidationFailed
	assert.True(t, stderrors.As(fmt.Errorf("wrap: %w", err), &vErr))
	assert.Equal(t, "number", vErr.Field)
	assert.Equal(t, "must be positive", vErr.Reason)
	assert.Equal(t, "[validation] invalid number: must be positive", err.Error())
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewInviteCodeTaken("abc", nil)))
	assert.True(t, IsRetryable(NewGraphConnectionFailed("bolt://x", stderrors.New("refused"))))
	assert.False(t, IsRetryable(NewContextCancelled("generate", stderrors.New("ctx"))))
	assert.False(t, IsRetryable(NewInviteCodeRedeemed("abc")))
}

func TestBaseError_UnwrapsCause(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := NewGraphQueryFailed("people for graph", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsErrorType(err, ErrorTypeGraph))
}
