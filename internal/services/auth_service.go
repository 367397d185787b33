package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/communitytransit/directions-backend/internal/database"
	"github.com/communitytransit/directions-backend/internal/models"
	"github.com/communitytransit/directions-backend/pkg/jwt"
)

// UserStore is the slice of the user repository the auth flows need.
type UserStore interface {
	Create(username, email, passwordHash string) (*models.User, error)
	GetByUsernameOrEmail(identifier string) (*models.User, error)
	Exists(username, email string) (bool, error)
}

// AuthService handles contributor registration and login.
type AuthService struct {
	users  UserStore
	tokens *jwt.Service
	logger *logrus.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, tokens *jwt.Service, logger *logrus.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

// Register creates a new contributor account with a bcrypt-hashed password.
func (s *AuthService) Register(req *models.RegisterRequest) (*models.User, error) {
	taken, err := s.users.Exists(req.Username, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if taken {
		return nil, ErrUserTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(req.Username, req.Email, string(hash))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("User registered")

	return user, nil
}

// Login verifies the credentials and issues a token pair. A missing user and
// a wrong password report the same error.
func (s *AuthService) Login(req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.users.GetByUsernameOrEmail(req.Username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	s.logger.WithField("user_id", user.ID).Info("User logged in")

	return s.issueTokens(user.ID, user.Username)
}

// Refresh exchanges a valid refresh token for a fresh token pair. The refresh
// token is self-contained, so no database round trip is needed.
func (s *AuthService) Refresh(refreshToken string) (*models.LoginResponse, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	s.logger.WithField("user_id", claims.UserID).Info("Tokens refreshed")

	return s.issueTokens(claims.UserID, claims.Username)
}

func (s *AuthService) issueTokens(userID uuid.UUID, username string) (*models.LoginResponse, error) {
	access, err := s.tokens.GenerateAccessToken(userID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(userID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	return &models.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ID:           userID,
	}, nil
}
