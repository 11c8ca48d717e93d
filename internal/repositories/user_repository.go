package repositories

import (
	"context"
	"errors"

	"advance/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("email already taken")
	ErrDatabaseOperation = errors.New("database operation failed")
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	// Create creates a new user together with its default notification
	// preferences.
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by their ID
	GetByID(ctx context.Context, id uint) (*models.User, error)

	// GetByEmail retrieves a user by their email address
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// ListActiveStaff returns every active administrator
	ListActiveStaff(ctx context.Context) ([]models.User, error)

	// ListActiveMembers returns every active member
	ListActiveMembers(ctx context.Context) ([]models.User, error)
}
