package pokemontypes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (*models.PokemonType, error) {
	query :=
		`SELECT id, type FROM type_mst
		 WHERE id = $1 AND deleted_at IS NULL
		 `

	t := &models.PokemonType{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return t, nil
}

func (r *PostgresRepository) GetAll(ctx context.Context) ([]*models.PokemonType, error) {
	query :=
		`SELECT id, type FROM type_mst
		 WHERE deleted_at IS NULL
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.PokemonType
	for rows.Next() {
		t := &models.PokemonType{}
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
