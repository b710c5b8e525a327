package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/evonft/go-evonft/service/auth"
	"github.com/evonft/go-evonft/util"
)

// AddAuthToContext resolves the request's credential, preferring the auth
// cookie and falling back to a Bearer header, and stashes the outcome on the
// context. It never rejects; AuthRequired does.
func AddAuthToContext() gin.HandlerFunc {
	return func(c *gin.Context) {

		token, err := c.Cookie(auth.JWTCookieKey)
		if err != nil || token == "" {
			header := c.GetHeader("Authorization")
			if strings.HasPrefix(header, "Bearer ") {
				token = strings.TrimPrefix(header, "Bearer ")
			}
		}

		if token == "" {
			auth.SetAuthStateForCtx(c, "", auth.ErrNoCookie)
			c.Next()
			return
		}

		userID, err := auth.ParseAuthToken(token)
		auth.SetAuthStateForCtx(c, userID, err)
		c.Next()
	}
}

// AuthRequired rejects unauthenticated requests with a uniform 401 so the
// response does not leak whether a credential was absent, malformed, or
// expired
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {

		if err := auth.GetAuthErrorFromCtx(c); err != nil {
			c.Error(err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, util.ErrorResponse{Error: auth.ErrNotAuthenticated.Error()})
			return
		}

		c.Next()
	}
}
