// Package pokemontypes declares the read-only repository contract for the
// type master table.
package pokemontypes

import (
	"context"

	"github.com/poketeer/pokeapi/internal/models"
)

type Repository interface {
	GetByID(ctx context.Context, id int) (*models.PokemonType, error)
	GetAll(ctx context.Context) ([]*models.PokemonType, error)
}
