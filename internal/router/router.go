package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/odaga/developer-profile-system/internal/config"
	"github.com/odaga/developer-profile-system/internal/errors"
	"github.com/odaga/developer-profile-system/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	profileHandler *handler.ProfileHandler,
	statusHandler *handler.StatusHandler,
	limiterStore middleware.RateLimiterStore,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.CORS())
	e.Use(middleware.Secure())
	if limiterStore != nil {
		e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: limiterStore,
			DenyHandler: func(c echo.Context, identifier string, err error) error {
				return c.JSON(http.StatusTooManyRequests, errors.ErrorResponse{
					Message: "Too many requests, please try again later",
					Code:    "RATE_LIMITED",
				})
			},
		}))
	}
	e.Use(middleware.ContextTimeout(cfg.RequestTimeout))

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = errorHandler

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	api.GET("/health", statusHandler.Health)
	api.GET("/status", statusHandler.Status)

	profiles := api.Group("/profiles")
	profiles.GET("", profileHandler.ListProfiles)
	profiles.GET("/search", profileHandler.SearchProfiles)
	profiles.GET("/:id", profileHandler.GetProfile)
	profiles.POST("", profileHandler.CreateProfile)
	profiles.PUT("/:id", profileHandler.UpdateProfile)
	profiles.DELETE("/:id", profileHandler.DeleteProfile)
}

// errorHandler is the outermost boundary: it normalizes anything the handlers
// did not map themselves and never leaks internal detail.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	}
	if status >= http.StatusInternalServerError {
		c.Logger().Error(err)
		message = "internal server error"
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, errors.ErrorResponse{Message: message})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
