package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToDomainErrorUnwrapsWrapped(t *testing.T) {
	base := NewNotFound("operator", map[string]any{"operator_id": "x"})
	wrapped := fmt.Errorf("lookup: %w", base)

	got := ToDomainError(wrapped)
	require.Equal(t, CodeNotFound, got.Code)
	require.Equal(t, http.StatusNotFound, got.HTTPStatus)
	require.Equal(t, "operator not found", got.Message)
	require.True(t, HasCode(wrapped, CodeNotFound))
}

func TestToDomainErrorHidesUnknownErrors(t *testing.T) {
	cause := errors.New("connection reset")
	got := ToDomainError(cause)
	require.Equal(t, CodeInternal, got.Code)
	require.Equal(t, http.StatusInternalServerError, got.HTTPStatus)
	require.Equal(t, "internal server error", got.Message)
	require.ErrorIs(t, got, cause)
	require.Nil(t, ToDomainError(nil))
}

func TestStatusCodes(t *testing.T) {
	require.Equal(t, http.StatusBadRequest, ToDomainError(NewValidationError("bad", nil)).HTTPStatus)
	require.Equal(t, http.StatusConflict, ToDomainError(NewInvalidState("closed", nil)).HTTPStatus)
	require.Equal(t, http.StatusConflict, ToDomainError(NewConflict("dup", nil)).HTTPStatus)
	require.False(t, HasCode(errors.New("x"), CodeConflict))
}
