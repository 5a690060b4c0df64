package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeacademy/tradeacademy-api/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(tm *jwt.TokenManager, handlerCalled *bool) *gin.Engine {
	router := gin.New()
	router.Use(BearerAuthMiddleware(tm))
	router.GET("/protected", func(c *gin.Context) {
		*handlerCalled = true
		c.Status(http.StatusOK)
	})
	return router
}

func TestBearerAuthMiddleware_ValidToken(t *testing.T) {
	tm := jwt.NewTokenManager("test-secret", "tradeacademy-test", 1)
	token, err := tm.GenerateToken(7, "admin@tradeacademy.io", "Admin", true)
	require.NoError(t, err)

	handlerCalled := false
	router := gin.New()
	router.Use(BearerAuthMiddleware(tm))
	router.GET("/protected", func(c *gin.Context) {
		handlerCalled = true
		session, err := GetSession(c)
		require.NoError(t, err)
		assert.Equal(t, int64(7), session.UserID)
		assert.Equal(t, "admin@tradeacademy.io", session.Email)
		assert.True(t, session.IsAdmin)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	router.ServeHTTP(w, req)

	assert.True(t, handlerCalled, "Handler should be called for valid token")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBearerAuthMiddleware_MissingHeader(t *testing.T) {
	tm := jwt.NewTokenManager("test-secret", "tradeacademy-test", 1)

	handlerCalled := false
	router := newTestRouter(tm, &handlerCalled)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)

	router.ServeHTTP(w, req)

	assert.False(t, handlerCalled, "Handler should not be called without a token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthorized")
}

func TestBearerAuthMiddleware_MalformedHeader(t *testing.T) {
	tm := jwt.NewTokenManager("test-secret", "tradeacademy-test", 1)

	handlerCalled := false
	router := newTestRouter(tm, &handlerCalled)

	for _, header := range []string{"Bearer", "Basic abc123", "bearer-token"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", header)

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q should be rejected", header)
	}
	assert.False(t, handlerCalled)
}

func TestBearerAuthMiddleware_TokenSignedWithWrongSecret(t *testing.T) {
	tm := jwt.NewTokenManager("test-secret", "tradeacademy-test", 1)
	other := jwt.NewTokenManager("other-secret", "tradeacademy-test", 1)
	token, err := other.GenerateToken(7, "admin@tradeacademy.io", "Admin", true)
	require.NoError(t, err)

	handlerCalled := false
	router := newTestRouter(tm, &handlerCalled)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	router.ServeHTTP(w, req)

	assert.False(t, handlerCalled)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRequired_NonAdminForbidden(t *testing.T) {
	tm := jwt.NewTokenManager("test-secret", "tradeacademy-test", 1)
	token, err := tm.GenerateToken(8, "student@tradeacademy.io", "Student", false)
	require.NoError(t, err)

	handlerCalled := false
	router := gin.New()
	router.Use(BearerAuthMiddleware(tm), AdminRequired())
	router.GET("/admin", func(c *gin.Context) {
		handlerCalled = true
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	router.ServeHTTP(w, req)

	assert.False(t, handlerCalled)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Admin access required")
}

func TestAdminRequired_AdminPasses(t *testing.T) {
	tm := jwt.NewTokenManager("test-secret", "tradeacademy-test", 1)
	token, err := tm.GenerateToken(9, "admin@tradeacademy.io", "Admin", true)
	require.NoError(t, err)

	router := gin.New()
	router.Use(BearerAuthMiddleware(tm), AdminRequired())
	router.GET("/admin", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetSession_NotSet(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := GetSession(c)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
