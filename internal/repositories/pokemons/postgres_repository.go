package pokemons

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

const baseColumns = `id, national_pokedex_number, name, hp, attack, defense, special_attack, special_defense, speed, base_total`

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (*models.Pokemon, error) {
	query :=
		`SELECT ` + baseColumns + ` FROM pokemon_mst
		 WHERE id = $1 AND deleted_at IS NULL
		 `
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetByPokedexNumber(ctx context.Context, number int) (*models.Pokemon, error) {
	query :=
		`SELECT ` + baseColumns + ` FROM pokemon_mst
		 WHERE national_pokedex_number = $1 AND deleted_at IS NULL
		 `
	return r.getOne(ctx, query, number)
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.Pokemon, error) {
	query :=
		`SELECT ` + baseColumns + ` FROM pokemon_mst
		 WHERE name = $1 AND deleted_at IS NULL
		 `
	return r.getOne(ctx, query, name)
}

func (r *PostgresRepository) GetAll(ctx context.Context) ([]*models.Pokemon, error) {
	query :=
		`SELECT ` + baseColumns + ` FROM pokemon_mst
		 WHERE deleted_at IS NULL
		 ORDER BY national_pokedex_number
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Pokemon
	for rows.Next() {
		p, err := scanPokemon(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	for _, p := range result {
		if err := r.loadRelations(ctx, p); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.Pokemon, error) {
	row := r.db.QueryRowContext(ctx, query, arg)

	p, err := scanPokemon(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	if err := r.loadRelations(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func scanPokemon(scan func(dest ...any) error) (*models.Pokemon, error) {
	p := &models.Pokemon{}
	err := scan(&p.ID, &p.NationalPokedexNumber, &p.Name,
		&p.Stats.HP, &p.Stats.Attack, &p.Stats.Defense,
		&p.Stats.SpecialAttack, &p.Stats.SpecialDefense, &p.Stats.Speed,
		&p.Stats.BaseTotal)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// loadRelations fills in the type and ability slots of a Pokémon.
func (r *PostgresRepository) loadRelations(ctx context.Context, p *models.Pokemon) error {
	typeQuery :=
		`SELECT t.id, t.type, pt.slot
		 FROM pokemon_types pt
		 JOIN type_mst t ON t.id = pt.type_id
		 WHERE pt.pokemon_id = $1 AND pt.deleted_at IS NULL AND t.deleted_at IS NULL
		 ORDER BY pt.slot
		 `

	rows, err := r.db.QueryContext(ctx, typeQuery, p.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var slot models.PokemonTypeSlot
		if err := rows.Scan(&slot.Type.ID, &slot.Type.Name, &slot.Slot); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		p.Types = append(p.Types, slot)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	abilityQuery :=
		`SELECT a.id, a.ability, pa.slot, pa.is_hidden
		 FROM pokemon_abilities pa
		 JOIN ability_mst a ON a.id = pa.ability_id
		 WHERE pa.pokemon_id = $1 AND pa.deleted_at IS NULL AND a.deleted_at IS NULL
		 ORDER BY pa.slot
		 `

	abilityRows, err := r.db.QueryContext(ctx, abilityQuery, p.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer abilityRows.Close()

	for abilityRows.Next() {
		var slot models.PokemonAbilitySlot
		if err := abilityRows.Scan(&slot.Ability.ID, &slot.Ability.Name, &slot.Slot, &slot.IsHidden); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		p.Abilities = append(p.Abilities, slot)
	}
	if err := abilityRows.Err(); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
