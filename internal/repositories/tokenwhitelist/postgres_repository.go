package tokenwhitelist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/poketeer/pokeapi/internal/common"
	"github.com/poketeer/pokeapi/internal/dbx"
	"github.com/poketeer/pokeapi/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `id, user_id, access_token, refresh_token, created_by, created_at, updated_by, updated_at`

func (r *PostgresRepository) GetByAccessToken(ctx context.Context, jti string, cutoff time.Time) (*models.TokenWhitelist, error) {
	query :=
		`SELECT ` + selectColumns + ` FROM token_whitelist
		 WHERE access_token = $1 AND updated_at BETWEEN $2 AND $3 AND deleted_at IS NULL
		 `

	return r.getOne(ctx, query, jti, cutoff, time.Now())
}

func (r *PostgresRepository) GetByRefreshToken(ctx context.Context, refreshToken string, cutoff time.Time) (*models.TokenWhitelist, error) {
	query :=
		`SELECT ` + selectColumns + ` FROM token_whitelist
		 WHERE refresh_token = $1 AND updated_at BETWEEN $2 AND $3 AND deleted_at IS NULL
		 `

	return r.getOne(ctx, query, refreshToken, cutoff, time.Now())
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.TokenWhitelist, error) {
	entry := &models.TokenWhitelist{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&entry.ID, &entry.UserID, &entry.AccessToken, &entry.RefreshToken,
		&entry.CreatedBy, &entry.CreatedAt, &entry.UpdatedBy, &entry.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}

func (r *PostgresRepository) Create(ctx context.Context, entry *models.TokenWhitelist) (*models.TokenWhitelist, error) {

	query :=
		`INSERT INTO token_whitelist (user_id, access_token, refresh_token, created_by, created_at, updated_by, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		entry.UserID, entry.AccessToken, entry.RefreshToken,
		entry.CreatedBy, entry.CreatedAt, entry.UpdatedBy, entry.UpdatedAt).Scan(&entry.ID)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrTokenRegistration, err)
	}

	return entry, nil
}

func (r *PostgresRepository) Update(ctx context.Context, entry *models.TokenWhitelist) (*models.TokenWhitelist, error) {

	query :=
		`UPDATE token_whitelist
		 SET access_token = $1, refresh_token = $2, updated_by = $3, updated_at = $4
		 WHERE id = $5 AND deleted_at IS NULL
		 `

	result, err := r.db.ExecContext(ctx, query,
		entry.AccessToken, entry.RefreshToken, entry.UpdatedBy, entry.UpdatedAt, entry.ID)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrTokenUpdate, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrTokenUpdate, err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: no row with id %d", common.ErrTokenUpdate, entry.ID)
	}

	return entry, nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, userID int, cutoff time.Time) (int64, error) {

	query :=
		`UPDATE token_whitelist
		 SET deleted_at = $1
		 WHERE user_id = $2 AND updated_at <= $3 AND deleted_at IS NULL
		 `

	result, err := r.db.ExecContext(ctx, query, time.Now(), userID, cutoff)
	if err != nil {
		return 0, fmt.Errorf("error performing sql request: %v", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error reading affected rows: %v", err)
	}

	return affected, nil
}
