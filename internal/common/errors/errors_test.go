package commonerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_WithCauseKeepsIdentity(t *testing.T) {
	cause := errors.New("connection reset")
	err := ErrDatabaseError.WithCause(cause)

	assert.True(t, errors.Is(err, ErrDatabaseError))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrUpstream))
	assert.Equal(t, "database operation failed: connection reset", err.Error())
	assert.Equal(t, "database operation failed", err.Message())
}

func TestAsDomainError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", ErrUnauthorized)

	de, ok := AsDomainError(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, de.HTTPStatus())
	assert.Equal(t, CategoryUnauthorized, de.Category())
	assert.True(t, IsDomainError(wrapped))

	_, ok = AsDomainError(errors.New("plain"))
	assert.False(t, ok)
}

func TestWithMessage(t *testing.T) {
	err := WithMessage(ErrValidation, "password: must be at least 8 characters")

	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, http.StatusUnprocessableEntity, err.HTTPStatus())
	assert.Equal(t, "password: must be at least 8 characters", err.Message())
}
