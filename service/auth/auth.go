package auth

import (
	"errors"
	"net/http"

	"github.com/evonft/go-evonft/env"
	"github.com/evonft/go-evonft/service/persist"
	"github.com/gin-gonic/gin"
)

// JWTCookieKey is the name of the cookie carrying the auth token
const JWTCookieKey = "token"

const (
	userIDContextKey    = "auth.user_id"
	authErrorContextKey = "auth.auth_error"
)

var (
	// ErrNoCookie is returned when a request carries no auth credential at all
	ErrNoCookie = errors.New("no jwt passed as cookie")

	// ErrInvalidJWT is returned when a credential fails signature or expiry checks
	ErrInvalidJWT = errors.New("invalid or expired jwt")

	// ErrNotAuthenticated is the uniform rejection for protected endpoints
	ErrNotAuthenticated = errors.New("authentication required")
)

// SetAuthStateForCtx stores the result of credential resolution on the
// request context for downstream handlers
func SetAuthStateForCtx(c *gin.Context, userID persist.DBID, err error) {
	c.Set(userIDContextKey, userID)
	c.Set(authErrorContextKey, err)
}

// GetUserIDFromCtx returns the authenticated user's ID, empty when the
// request is unauthenticated
func GetUserIDFromCtx(c *gin.Context) persist.DBID {
	userID, _ := c.Get(userIDContextKey)
	if id, ok := userID.(persist.DBID); ok {
		return id
	}
	return ""
}

// GetAuthErrorFromCtx returns the credential-resolution error for the
// request, nil when authentication succeeded
func GetAuthErrorFromCtx(c *gin.Context) error {
	err, ok := c.Get(authErrorContextKey)
	if !ok {
		return ErrNoCookie
	}
	if err == nil {
		return nil
	}
	return err.(error)
}

// SetJWTCookie attaches the auth token to the response. Secure outside of
// local environments.
func SetJWTCookie(c *gin.Context, token string) {
	mode := http.SameSiteStrictMode
	secure := true
	if env.GetString("ENV") == "local" {
		mode = http.SameSiteNoneMode
		secure = false
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     JWTCookieKey,
		Value:    token,
		MaxAge:   int(env.GetInt64("JWT_TTL")),
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
		SameSite: mode,
	})
}

// ClearJWTCookie logs the caller out by expiring the cookie
func ClearJWTCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     JWTCookieKey,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
	})
}
