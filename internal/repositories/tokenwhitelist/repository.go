// Package tokenwhitelist declares the repository contract for the persisted
// whitelist of issued token pairs. Absence from the whitelist invalidates an
// otherwise well-formed token.
package tokenwhitelist

import (
	"context"
	"time"

	"github.com/poketeer/pokeapi/internal/models"
)

// Repository defines operations on the token whitelist. All lookups exclude
// soft-deleted rows and only match rows whose updated_at falls between the
// given cutoff and now; they return common.ErrNotFound when no row matches.
type Repository interface {
	// GetByAccessToken retrieves the entry whose access_token column equals
	// the given jti claim value.
	GetByAccessToken(ctx context.Context, jti string, cutoff time.Time) (*models.TokenWhitelist, error)

	// GetByRefreshToken retrieves the entry holding the given opaque
	// refresh token.
	GetByRefreshToken(ctx context.Context, refreshToken string, cutoff time.Time) (*models.TokenWhitelist, error)

	// Create inserts a new entry and returns it with its assigned ID.
	// Constraint violations yield common.ErrTokenRegistration.
	Create(ctx context.Context, entry *models.TokenWhitelist) (*models.TokenWhitelist, error)

	// Update replaces the tokens of the row matching entry.ID. A stale ID
	// (zero rows affected) or a constraint violation yields
	// common.ErrTokenUpdate.
	Update(ctx context.Context, entry *models.TokenWhitelist) (*models.TokenWhitelist, error)

	// DeleteExpired soft-deletes every active row of the user whose
	// updated_at is at or before cutoff. Idempotent; zero affected rows is
	// not an error. Returns the number of rows reaped.
	DeleteExpired(ctx context.Context, userID int, cutoff time.Time) (int64, error)
}
