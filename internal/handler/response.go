package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tasktracker/internal/auth"
	"tasktracker/internal/errors"
	"tasktracker/internal/model"
)

// Context keys shared with the router's identity middleware.
const (
	ContextKeyClaims = "token_claims"
	ContextKeyUser   = "current_user"
)

// MessageResponse is returned by operations without a resource body.
type MessageResponse struct {
	Message string `json:"message"`
}

// respondError converts a service error into an echo HTTP error.
// Unmapped errors are logged and reported as 500 without details.
func respondError(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func badRequest(message, code string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func invalidBody() error {
	return badRequest("invalid request body", "INVALID_REQUEST")
}

func validationFailed(err error) error {
	return badRequest(err.Error(), "VALIDATION_ERROR")
}

// CurrentUser returns the user resolved by the identity middleware.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(ContextKeyUser).(*model.User)
	return user
}

// CurrentClaims returns the validated token claims of the request.
func CurrentClaims(c echo.Context) *auth.Claims {
	claims, _ := c.Get(ContextKeyClaims).(*auth.Claims)
	return claims
}
