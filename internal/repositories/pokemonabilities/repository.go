// Package pokemonabilities declares the read-only repository contract for
// the ability master table.
package pokemonabilities

import (
	"context"

	"github.com/poketeer/pokeapi/internal/models"
)

type Repository interface {
	GetByID(ctx context.Context, id int) (*models.PokemonAbility, error)
	GetAll(ctx context.Context) ([]*models.PokemonAbility, error)
}
