package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brightstack/learnhubbackend/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", mw, func(c *gin.Context) {
		userID := c.GetString("userID")
		role := c.GetString("role")
		c.JSON(http.StatusOK, gin.H{"userID": userID, "role": role})
	})
	return r
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	r := newAuthRouter(AuthMiddleware())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	r := newAuthRouter(AuthMiddleware())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "mw-test-secret")
	r := newAuthRouter(AuthMiddleware())

	token, err := utils.GenerateAccessToken("user-42", "u@example.com", "USER", time.Minute)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-42")
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "mw-test-secret")
	r := newAuthRouter(AuthMiddleware())

	token, err := utils.GenerateAccessToken("user-42", "u@example.com", "USER", -time.Minute)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuthWithoutToken(t *testing.T) {
	r := newAuthRouter(OptionalAuth())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	// request proceeds, just anonymously
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userID":""`)
}

func TestOptionalAuthWithToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "mw-test-secret")
	r := newAuthRouter(OptionalAuth())

	token, err := utils.GenerateAccessToken("user-7", "u@example.com", "ADMIN", time.Minute)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-7")
	assert.Contains(t, w.Body.String(), "ADMIN")
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin-only",
		func(c *gin.Context) { c.Set("role", "USER"); c.Next() },
		RequireRole("ADMIN"),
		func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/admin-ok",
		func(c *gin.Context) { c.Set("role", "ADMIN"); c.Next() },
		RequireRole("ADMIN", "INSTRUCTOR"),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin-only", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin-ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
