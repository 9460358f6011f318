package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tasktracker/internal/errors"
)

// UserHandler serves user endpoints.
type UserHandler struct{}

// NewUserHandler creates a user handler.
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Me godoc
// @Summary Current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user := CurrentUser(c)
	if user == nil {
		return respondError(c, errors.ErrInvalidToken)
	}
	return c.JSON(http.StatusOK, user)
}
