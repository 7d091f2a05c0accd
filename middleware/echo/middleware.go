package echomw

import (
	"net/http"

	"github.com/labstack/echo/v4"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/middleware"
)

// ValidateJSON constructs an instance of s from the request JSON and stores
// it in the request context, or answers 400 with the issues.
func ValidateJSON(s *skema.Schema) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			inst, iss := middleware.Decode(c.Request(), s)
			if iss != nil {
				return c.JSON(http.StatusBadRequest, middleware.ErrorPayload(iss))
			}
			c.SetRequest(c.Request().WithContext(middleware.ContextWithInstance(c.Request().Context(), inst)))
			return next(c)
		}
	}
}

// GetInstance fetches the validated instance from echo.Context.
func GetInstance(c echo.Context) (*skema.Instance, bool) {
	return middleware.InstanceFromContext(c.Request().Context())
}
