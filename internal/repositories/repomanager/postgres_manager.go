package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/poketeer/pokeapi/internal/dbx"
	"github.com/poketeer/pokeapi/internal/migrations"
	"github.com/poketeer/pokeapi/internal/repositories/pokemonabilities"
	"github.com/poketeer/pokeapi/internal/repositories/pokemons"
	"github.com/poketeer/pokeapi/internal/repositories/pokemontypes"
	"github.com/poketeer/pokeapi/internal/repositories/tokenwhitelist"
	"github.com/poketeer/pokeapi/internal/repositories/users"
)

type PostgresRepositoryManager struct {
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) TokenWhitelist(db dbx.DBTX) tokenwhitelist.Repository {
	return tokenwhitelist.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Pokemons(db dbx.DBTX) pokemons.Repository {
	return pokemons.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) PokemonTypes(db dbx.DBTX) pokemontypes.Repository {
	return pokemontypes.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) PokemonAbilities(db dbx.DBTX) pokemonabilities.Repository {
	return pokemonabilities.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}

	return nil
}
