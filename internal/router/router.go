package router

import (
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"tasktracker/internal/auth"
	"tasktracker/internal/config"
	"tasktracker/internal/errors"
	"tasktracker/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	taskHandler *handler.TaskHandler,
	healthHandler *handler.HealthHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = NewCustomValidator()

	e.GET("/healthz", healthHandler.Healthz)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group(cfg.APIPrefix)

	// Public routes
	api.POST("/register", authHandler.Register)
	if cfg.LoginRatePerSecond > 0 {
		api.POST("/login", authHandler.Login, loginRateLimiter(cfg.LoginRatePerSecond))
	} else {
		api.POST("/login", authHandler.Login)
	}

	// Secured routes: a valid token, then an active user behind it.
	secured := api.Group("",
		echojwt.WithConfig(echojwt.Config{
			ContextKey: handler.ContextKeyClaims,
			ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
				return jwtService.ValidateToken(token)
			},
			ErrorHandler: tokenErrorHandler,
		}),
		authHandler.RequireActiveUser,
	)

	secured.POST("/logout", authHandler.Logout)
	secured.GET("/users/me", userHandler.Me)

	// Task routes
	secured.GET("/tasks", taskHandler.List)
	secured.POST("/tasks", taskHandler.Create)
	secured.GET("/tasks/:id", taskHandler.Get)
	secured.PUT("/tasks/:id", taskHandler.Update)
	secured.DELETE("/tasks/:id", taskHandler.Delete)
}

// tokenErrorHandler answers 401 when no bearer token was sent and 403 when
// the token was present but failed validation.
func tokenErrorHandler(c echo.Context, err error) error {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") || strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")) == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "not authenticated",
			Code:  "NOT_AUTHENTICATED",
		})
	}
	httpErr := errors.MapErrorToHTTP(errors.ErrInvalidToken)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// loginRateLimiter limits login attempts per client IP.
func loginRateLimiter(perSecond float64) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(perSecond),
			Burst:     int(math.Max(1, math.Ceil(perSecond))),
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, errors.ErrorResponse{
				Error: "too many login attempts",
				Code:  "RATE_LIMITED",
			})
		},
	})
}

// NewCustomValidator builds the request validator. Nullable request fields
// are validated by their wrapped value.
func NewCustomValidator() *CustomValidator {
	v := validator.New()
	v.RegisterCustomTypeFunc(handler.NullableValue, handler.Nullable[string]{}, handler.Nullable[time.Time]{})
	return &CustomValidator{validator: v}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
