package pokemonabilities

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

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (*models.PokemonAbility, error) {
	query :=
		`SELECT id, ability FROM ability_mst
		 WHERE id = $1 AND deleted_at IS NULL
		 `

	a := &models.PokemonAbility{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Name)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return a, nil
}

func (r *PostgresRepository) GetAll(ctx context.Context) ([]*models.PokemonAbility, error) {
	query :=
		`SELECT id, ability FROM ability_mst
		 WHERE deleted_at IS NULL
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.PokemonAbility
	for rows.Next() {
		a := &models.PokemonAbility{}
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
