package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantCode int
	}{
		{"validation", NewValidationError("bad"), ErrorTypeValidation, http.StatusBadRequest},
		{"not found", NewNotFoundError("missing"), ErrorTypeNotFound, http.StatusNotFound},
		{"conflict", NewConflictError("dup"), ErrorTypeConflict, http.StatusConflict},
		{"unauthorized", NewUnauthorizedError("who"), ErrorTypeUnauthorized, http.StatusUnauthorized},
		{"forbidden", NewForbiddenError("no"), ErrorTypeForbidden, http.StatusForbidden},
		{"internal", NewInternalError("boom"), ErrorTypeInternal, http.StatusInternalServerError},
		{"bad request", NewBadRequestError("eh"), ErrorTypeBadRequest, http.StatusBadRequest},
		{"too many", NewTooManyRequestsError("slow"), ErrorTypeTooManyRequests, http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Empty(t, tt.err.Details)
		})
	}
}

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "not_found: complaint not found", NewNotFoundError("complaint not found").Error())
	assert.Equal(t,
		"validation_error: cannot merge (Cannot merge same complaint)",
		NewValidationError("cannot merge", "Cannot merge same complaint").Error())
}

func TestPredicatesUnwrap(t *testing.T) {
	wrapped := fmt.Errorf("merge: %w", NewValidationError("Source complaint already merged"))

	assert.True(t, IsAppError(wrapped))
	assert.True(t, IsValidationError(wrapped))
	assert.False(t, IsNotFoundError(wrapped))
	assert.False(t, IsForbiddenError(fmt.Errorf("plain")))
	assert.Nil(t, GetAppError(fmt.Errorf("plain")))
}
