package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evonft/go-evonft/env"
	"github.com/evonft/go-evonft/util"
)

// IsOriginAllowed reports whether an origin appears in ALLOWED_ORIGINS
func IsOriginAllowed(requestOrigin string) bool {
	allowedOrigins := util.SplitAndTrim(env.GetString("ALLOWED_ORIGINS"), ",")
	return util.ContainsString(allowedOrigins, requestOrigin)
}

// HandleCORS echoes allowed origins with credentials and answers preflights
func HandleCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestOrigin := c.Request.Header.Get("Origin")

		if IsOriginAllowed(requestOrigin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", requestOrigin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
