package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/evonft/go-evonft/service/auth"
)

func newProtectedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	viper.Set("JWT_SECRET", "test-secret")
	viper.Set("JWT_TTL", 3600)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AddAuthToContext())
	router.GET("/protected", AuthRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": auth.GetUserIDFromCtx(c)})
	})
	return router
}

func TestAuthRequired_NoCredential_401(t *testing.T) {
	router := newProtectedRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), auth.ErrNotAuthenticated.Error())
}

func TestAuthRequired_BadToken_401(t *testing.T) {
	router := newProtectedRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: auth.JWTCookieKey, Value: "garbage"})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_ValidCookie_200(t *testing.T) {
	router := newProtectedRouter(t)

	token, err := auth.GenerateAuthToken("user-123")
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: auth.JWTCookieKey, Value: token})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-123")
}

func TestAuthRequired_BearerHeader_200(t *testing.T) {
	router := newProtectedRouter(t)

	token, err := auth.GenerateAuthToken("user-456")
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
