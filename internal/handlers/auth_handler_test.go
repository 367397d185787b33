package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/communitytransit/directions-backend/internal/database"
	"github.com/communitytransit/directions-backend/internal/middleware"
	"github.com/communitytransit/directions-backend/internal/models"
	"github.com/communitytransit/directions-backend/internal/services"
	"github.com/communitytransit/directions-backend/pkg/jwt"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

type stubUserStore struct {
	users map[string]*models.User
	taken bool
}

func (s *stubUserStore) Create(username, email, passwordHash string) (*models.User, error) {
	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	if s.users == nil {
		s.users = make(map[string]*models.User)
	}
	s.users[username] = user
	s.users[email] = user
	return user, nil
}

func (s *stubUserStore) GetByUsernameOrEmail(identifier string) (*models.User, error) {
	user, ok := s.users[identifier]
	if !ok {
		return nil, database.ErrNotFound
	}
	return user, nil
}

func (s *stubUserStore) Exists(_, _ string) (bool, error) {
	return s.taken, nil
}

func setupAuthHandler(store *stubUserStore) *AuthHandler {
	tokens := jwt.NewService("test-secret", "test-refresh-secret", time.Hour, 7*24*time.Hour)
	return NewAuthHandler(services.NewAuthService(store, tokens, testLogger()))
}

func performJSON(t *testing.T, handler gin.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	payload, err := json.Marshal(body)
	require.NoError(t, err)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	handler(c)
	return w
}

func TestRegisterHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler := setupAuthHandler(&stubUserStore{})
		w := performJSON(t, handler.Register, models.RegisterRequest{
			Email:    "juan@example.com",
			Username: "juandelacruz",
			Password: "correct horse",
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		var user models.User
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
		assert.Equal(t, "juandelacruz", user.Username)
		assert.NotContains(t, w.Body.String(), "password_hash")
	})

	t.Run("Invalid Body", func(t *testing.T) {
		handler := setupAuthHandler(&stubUserStore{})
		w := performJSON(t, handler.Register, map[string]string{"email": "not-an-email"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Identifier Taken", func(t *testing.T) {
		handler := setupAuthHandler(&stubUserStore{taken: true})
		w := performJSON(t, handler.Register, models.RegisterRequest{
			Email:    "juan@example.com",
			Username: "juandelacruz",
			Password: "correct horse",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestLoginHandler(t *testing.T) {
	store := &stubUserStore{}
	handler := setupAuthHandler(store)
	w := performJSON(t, handler.Register, models.RegisterRequest{
		Email:    "juan@example.com",
		Username: "juandelacruz",
		Password: "correct horse",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("Success", func(t *testing.T) {
		w := performJSON(t, handler.Login, models.LoginRequest{
			Username: "juandelacruz",
			Password: "correct horse",
		})
		assert.Equal(t, http.StatusOK, w.Code)

		var resp models.LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		w := performJSON(t, handler.Login, models.LoginRequest{
			Username: "juandelacruz",
			Password: "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Missing Fields", func(t *testing.T) {
		w := performJSON(t, handler.Login, map[string]string{"username": "juandelacruz"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRefreshHandler(t *testing.T) {
	handler := setupAuthHandler(&stubUserStore{})
	w := performJSON(t, handler.Register, models.RegisterRequest{
		Email:    "juan@example.com",
		Username: "juandelacruz",
		Password: "correct horse",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = performJSON(t, handler.Login, models.LoginRequest{
		Username: "juandelacruz",
		Password: "correct horse",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var login models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	t.Run("Success", func(t *testing.T) {
		w := performJSON(t, handler.Refresh, models.RefreshRequest{RefreshToken: login.RefreshToken})
		assert.Equal(t, http.StatusOK, w.Code)

		var resp models.LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, login.ID, resp.ID)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
	})

	t.Run("Invalid Token", func(t *testing.T) {
		w := performJSON(t, handler.Refresh, models.RefreshRequest{RefreshToken: "not.a.jwt"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Missing Token", func(t *testing.T) {
		w := performJSON(t, handler.Refresh, map[string]string{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestVerifyHandler(t *testing.T) {
	handler := setupAuthHandler(&stubUserStore{})
	userID := uuid.New()

	t.Run("Authenticated", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/verify", nil)
		c.Set(middleware.UserContextKey, middleware.UserContext{UserID: userID, Username: "juandelacruz"})

		handler.Verify(c)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"valid":true`)
		assert.Contains(t, w.Body.String(), userID.String())
	})

	t.Run("No User Context", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/verify", nil)

		handler.Verify(c)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
