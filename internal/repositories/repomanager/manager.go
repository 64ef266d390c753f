// Package repomanager bundles the repository constructors behind a single
// factory so services can obtain repositories bound to either a *sql.DB or
// an open transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/poketeer/pokeapi/internal/dbx"
	"github.com/poketeer/pokeapi/internal/repositories/pokemonabilities"
	"github.com/poketeer/pokeapi/internal/repositories/pokemons"
	"github.com/poketeer/pokeapi/internal/repositories/pokemontypes"
	"github.com/poketeer/pokeapi/internal/repositories/tokenwhitelist"
	"github.com/poketeer/pokeapi/internal/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	TokenWhitelist(db dbx.DBTX) tokenwhitelist.Repository
	Pokemons(db dbx.DBTX) pokemons.Repository
	PokemonTypes(db dbx.DBTX) pokemontypes.Repository
	PokemonAbilities(db dbx.DBTX) pokemonabilities.Repository
}
