// Package pokemons declares the read-only repository contract for the
// Pokémon catalog.
package pokemons

import (
	"context"

	"github.com/poketeer/pokeapi/internal/models"
)

// Repository defines catalog lookups. All reads exclude soft-deleted rows
// and return common.ErrNotFound when no row matches.
type Repository interface {
	GetByID(ctx context.Context, id int) (*models.Pokemon, error)
	GetByPokedexNumber(ctx context.Context, number int) (*models.Pokemon, error)
	GetByName(ctx context.Context, name string) (*models.Pokemon, error)
	GetAll(ctx context.Context) ([]*models.Pokemon, error)
}
