package domain

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

func TestFromValidator(t *testing.T) {
	err := validator.New().Struct(signup{Email: "nope", Password: "abc"})
	require.Error(t, err)

	converted := FromValidator(err)

	var verr *ValidationError
	require.True(t, errors.As(converted, &verr))
	assert.Equal(t, "must be a valid email address", verr.Fields["Email"])
	assert.Equal(t, "must be at least 6 characters", verr.Fields["Password"])
	assert.ErrorIs(t, converted, ErrInvalidInput)
	assert.Equal(t, []string{"Email must be a valid email address", "Password must be at least 6 characters"}, verr.Details())
}

func TestFromValidatorPassesThroughOtherErrors(t *testing.T) {
	other := errors.New("boom")
	assert.Same(t, other, FromValidator(other))
}

func TestNotFoundVariants(t *testing.T) {
	for _, err := range []error{ErrUserNotFound, ErrOpportunityNotFound, ErrApplicationNotFound} {
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.NotErrorIs(t, ErrAlreadyApplied, ErrNotFound)
}

func TestInvalidActionIsValidationError(t *testing.T) {
	var verr *ValidationError
	require.True(t, errors.As(ErrInvalidAction, &verr))
	assert.Contains(t, verr.Fields, "action")
	assert.ErrorIs(t, ErrInvalidAction, ErrInvalidInput)
	assert.Equal(t, "invalid input: action must be one of accept, reject", ErrInvalidAction.Error())
}
