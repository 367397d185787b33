package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/communitytransit/directions-backend/pkg/jwt"
)

func setupMiddlewareTest(t *testing.T, authHeader string, svc *jwt.Service) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		c.Request.Header.Set("Authorization", authHeader)
	}

	reached := false
	AuthMiddleware(svc)(c)
	if !c.IsAborted() {
		reached = true
	}
	return w, reached
}

func TestAuthMiddleware(t *testing.T) {
	svc := jwt.NewService("test-secret", "test-refresh-secret", time.Hour, 7*24*time.Hour)
	userID := uuid.New()

	t.Run("Valid Token", func(t *testing.T) {
		token, err := svc.GenerateAccessToken(userID, "juandelacruz")
		require.NoError(t, err)

		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/protected", nil)
		c.Request.Header.Set("Authorization", "Bearer "+token)

		AuthMiddleware(svc)(c)
		require.False(t, c.IsAborted())

		userCtx, ok := GetUserContext(c)
		require.True(t, ok)
		assert.Equal(t, userID, userCtx.UserID)
		assert.Equal(t, "juandelacruz", userCtx.Username)
	})

	t.Run("Missing Header", func(t *testing.T) {
		w, reached := setupMiddlewareTest(t, "", svc)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, reached)
		assert.Contains(t, w.Body.String(), "MISSING_AUTH_HEADER")
	})

	t.Run("Malformed Header", func(t *testing.T) {
		w, reached := setupMiddlewareTest(t, "Token abc", svc)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, reached)
		assert.Contains(t, w.Body.String(), "INVALID_AUTH_FORMAT")
	})

	t.Run("Garbage Token", func(t *testing.T) {
		w, reached := setupMiddlewareTest(t, "Bearer not.a.jwt", svc)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, reached)
		assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	})

	t.Run("Expired Token", func(t *testing.T) {
		shortLived := jwt.NewService("test-secret", "test-refresh-secret", -time.Minute, 7*24*time.Hour)
		token, err := shortLived.GenerateAccessToken(userID, "juandelacruz")
		require.NoError(t, err)

		w, reached := setupMiddlewareTest(t, "Bearer "+token, svc)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, reached)
		assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
	})

	t.Run("Refresh Token Rejected On Access Route", func(t *testing.T) {
		token, err := svc.GenerateRefreshToken(userID, "juandelacruz")
		require.NoError(t, err)

		w, reached := setupMiddlewareTest(t, "Bearer "+token, svc)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, reached)
	})
}
