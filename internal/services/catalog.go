package services

import (
	"context"
	"database/sql"

	"github.com/poketeer/pokeapi/internal/models"
	"github.com/poketeer/pokeapi/internal/repositories/repomanager"
)

// PokemonService serves the read-only Pokémon catalog.
type PokemonService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewPokemonService(db *sql.DB, m repomanager.RepositoryManager) *PokemonService {
	return &PokemonService{db: db, repomanager: m}
}

func (s *PokemonService) GetByID(ctx context.Context, id int) (*models.Pokemon, error) {
	return s.repomanager.Pokemons(s.db).GetByID(ctx, id)
}

func (s *PokemonService) GetByPokedexNumber(ctx context.Context, number int) (*models.Pokemon, error) {
	return s.repomanager.Pokemons(s.db).GetByPokedexNumber(ctx, number)
}

func (s *PokemonService) GetByName(ctx context.Context, name string) (*models.Pokemon, error) {
	return s.repomanager.Pokemons(s.db).GetByName(ctx, name)
}

func (s *PokemonService) GetAll(ctx context.Context) ([]*models.Pokemon, error) {
	return s.repomanager.Pokemons(s.db).GetAll(ctx)
}

// PokemonTypeService serves the type master data.
type PokemonTypeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewPokemonTypeService(db *sql.DB, m repomanager.RepositoryManager) *PokemonTypeService {
	return &PokemonTypeService{db: db, repomanager: m}
}

func (s *PokemonTypeService) GetByID(ctx context.Context, id int) (*models.PokemonType, error) {
	return s.repomanager.PokemonTypes(s.db).GetByID(ctx, id)
}

func (s *PokemonTypeService) GetAll(ctx context.Context) ([]*models.PokemonType, error) {
	return s.repomanager.PokemonTypes(s.db).GetAll(ctx)
}

// PokemonAbilityService serves the ability master data.
type PokemonAbilityService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewPokemonAbilityService(db *sql.DB, m repomanager.RepositoryManager) *PokemonAbilityService {
	return &PokemonAbilityService{db: db, repomanager: m}
}

func (s *PokemonAbilityService) GetByID(ctx context.Context, id int) (*models.PokemonAbility, error) {
	return s.repomanager.PokemonAbilities(s.db).GetByID(ctx, id)
}

func (s *PokemonAbilityService) GetAll(ctx context.Context) ([]*models.PokemonAbility, error) {
	return s.repomanager.PokemonAbilities(s.db).GetAll(ctx)
}
