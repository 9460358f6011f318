package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"invalid credentials", ErrInvalidCredentials, http.StatusBadRequest, "INVALID_CREDENTIALS", "incorrect email or password"},
		{"inactive", ErrInactiveAccount, http.StatusBadRequest, "INACTIVE_USER", "inactive user"},
		{"conflict", ErrUserAlreadyExists, http.StatusBadRequest, "USER_ALREADY_EXISTS", "a user with this email already exists"},
		{"task not found", ErrTaskNotFound, http.StatusNotFound, "TASK_NOT_FOUND", "task not found"},
		{"user not found", ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND", "user not found"},
		{"forbidden", ErrForbidden, http.StatusBadRequest, "NOT_ENOUGH_PERMISSIONS", "not enough permissions"},
		{"invalid token", ErrInvalidToken, http.StatusForbidden, "INVALID_TOKEN", "could not validate credentials"},
		{"wrapped not found", fmt.Errorf("find task: %w", ErrTaskNotFound), http.StatusNotFound, "TASK_NOT_FOUND", "task not found"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
			assert.Equal(t, tt.wantMsg, httpErr.ToErrorResponse().Error)
		})
	}
}
