package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "github.com/AlibekovAA/qa-llm/backend/internal/common/errors"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=32,username"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(signup{Email: "a@x.com", Username: "alice", Password: "password1"}))
}

func TestStruct_Messages(t *testing.T) {
	cases := []struct {
		name    string
		in      signup
		message string
	}{
		{"bad email", signup{Email: "nope", Username: "alice", Password: "password1"}, "email must be a valid email address"},
		{"short username", signup{Email: "a@x.com", Username: "al", Password: "password1"}, "username must be at least 3 characters"},
		{"bad chars", signup{Email: "a@x.com", Username: "al ice", Password: "password1"}, "username may contain only letters, digits, '_' and '-'"},
		{"short password", signup{Email: "a@x.com", Username: "alice", Password: "short"}, "password must be at least 8 characters"},
		{"missing email", signup{Username: "alice", Password: "password1"}, "email is required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Struct(tc.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, commonerrors.ErrValidation)

			de, ok := commonerrors.AsDomainError(err)
			require.True(t, ok)
			assert.Equal(t, 422, de.HTTPStatus())
			assert.Equal(t, tc.message, de.Message())
		})
	}
}

func TestStruct_NotBlank(t *testing.T) {
	type question struct {
		Question string `json:"question" validate:"notblank,max=5"`
	}

	err := Struct(question{Question: "   "})
	de, ok := commonerrors.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, "question is required", de.Message())

	assert.NoError(t, Struct(question{Question: "hi"}))
}
