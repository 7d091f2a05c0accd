package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/middleware"
)

// ValidateJSON constructs an instance of s from the request JSON and stores
// it in the request context. On failure it answers 400 with the issues and
// aborts the chain.
func ValidateJSON(s *skema.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		inst, iss := middleware.Decode(c.Request, s)
		if iss != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, middleware.ErrorPayload(iss))
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithInstance(c.Request.Context(), inst))
		c.Next()
	}
}

// GetInstance fetches the validated instance from gin.Context.
func GetInstance(c *gin.Context) (*skema.Instance, bool) {
	return middleware.InstanceFromContext(c.Request.Context())
}
