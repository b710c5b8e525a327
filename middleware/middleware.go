package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/evonft/go-evonft/service/logger"
)

// ErrLogger logs every error attached to a request's context after the
// handler chain finishes
func ErrLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) > 0 {
			logger.For(c).Errorf("%s %s: %s", c.Request.Method, c.Request.URL, c.Errors.JSON())
		}
	}
}
