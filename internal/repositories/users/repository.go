// Package users declares the repository contract for user accounts.
package users

import (
	"context"

	"github.com/poketeer/pokeapi/internal/models"
)

// Repository defines operations for looking up and creating users.
// Lookups exclude soft-deleted rows and return common.ErrNotFound when
// no row matches.
type Repository interface {
	// Create inserts a new user and returns it with its assigned ID.
	// A duplicate username yields common.ErrUserCreation.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUsername retrieves a user by its unique username.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetByID retrieves a user by its numeric identifier.
	GetByID(ctx context.Context, id int) (*models.User, error)
}
