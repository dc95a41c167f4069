package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("tender amount must be greater than zero")
	err := Wrap(http.StatusUnprocessableEntity, cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause.Error(), err.Message)
	assert.Equal(t, http.StatusUnprocessableEntity, GetAppError(err).Code)
}

func TestRegisterSentinels(t *testing.T) {
	assert.True(t, IsAppError(ErrNoActiveShift))
	assert.Equal(t, http.StatusConflict, GetAppError(ErrNoActiveShift).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, GetAppError(ErrInsufficientTender).Code)
	assert.Equal(t, http.StatusInternalServerError, GetAppError(errors.New("boom")).Code)
}

func TestFromValidation(t *testing.T) {
	type openShift struct {
		StartAmount *float64 `validate:"required,gte=0"`
		Method      string   `validate:"oneof=cash card"`
	}

	err := validator.New().Struct(openShift{Method: "cheque"})
	require.Error(t, err)

	appErr := FromValidation(err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
	require.Len(t, appErr.Errors, 2)
	assert.Equal(t, FieldError{Field: "start_amount", Message: "is required"}, appErr.Errors[0])
	assert.Equal(t, "method", appErr.Errors[1].Field)

	assert.Equal(t, http.StatusBadRequest, FromValidation(errors.New("unexpected EOF")).Code)
}

func TestWithMessage(t *testing.T) {
	err := WithMessage(ErrInsufficientStock, "Not enough stock for Cola 500ml")

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, http.StatusConflict, GetAppError(err).Code)
	assert.Equal(t, "Not enough stock for Cola 500ml", err.Error())

	fe := NewFieldError("amount", "must be greater than 0")
	require.Len(t, fe.Errors, 1)
	assert.Equal(t, "amount", fe.Errors[0].Field)
}
