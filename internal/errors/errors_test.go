package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipebook/recipebook-client/internal/errors"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := errors.Forbidden("only admins may publish")

	assert.True(t, errors.Is(err, errors.ErrForbidden))
	assert.False(t, errors.Is(err, errors.ErrUnauthorized))
	assert.Equal(t, "only admins may publish", err.Error())
}

func TestError_WrappedThroughFmt(t *testing.T) {
	err := fmt.Errorf("add recipe: %w", errors.Unauthorized("not logged in"))

	assert.True(t, errors.Is(err, errors.ErrUnauthorized))

	var domainErr *errors.Error
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, errors.CodeUnauthorized, domainErr.Code)
}

func TestError_WithCause(t *testing.T) {
	cause := errors.New("disk full")
	err := errors.Storage(cause, "persist token")

	assert.Equal(t, "persist token: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, errors.Is(err, errors.ErrStorage))
}

func TestError_FieldErrors(t *testing.T) {
	err := errors.ValidationWithDetails("validation failed", map[string]string{"email": "is required"})
	assert.Equal(t, map[string]string{"email": "is required"}, err.FieldErrors())

	assert.Nil(t, errors.Validation("bad").FieldErrors())
}
