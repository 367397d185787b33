package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/communitytransit/directions-backend/internal/models"
)

// UserRepository handles database operations for contributor accounts
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user with an already-hashed password.
func (r *UserRepository) Create(username, email, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (id, username, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, email, password_hash, created_at
	`

	user := &models.User{}
	err := r.db.Get(user, query, uuid.New(), username, email, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetByUsernameOrEmail looks a user up by either identifier, as the login
// form accepts both.
func (r *UserRepository) GetByUsernameOrEmail(identifier string) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE username = $1 OR email = $1
	`

	user := &models.User{}
	err := r.db.Get(user, query, identifier)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return user, nil
}

// Exists reports whether the username or the email is already taken.
func (r *UserRepository) Exists(username, email string) (bool, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM users WHERE username = $1 OR email = $2`, username, email)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}
