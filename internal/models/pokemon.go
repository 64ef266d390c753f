package models

// PokemonStats are the base stats of a Pokémon.
type PokemonStats struct {
	HP             int `json:"hp"`
	Attack         int `json:"attack"`
	Defense        int `json:"defense"`
	SpecialAttack  int `json:"special_attack"`
	SpecialDefense int `json:"special_defense"`
	Speed          int `json:"speed"`
	BaseTotal      int `json:"base_total"`
}

// PokemonType is a row of the type master table.
type PokemonType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// PokemonAbility is a row of the ability master table.
type PokemonAbility struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// PokemonTypeSlot associates a type with its slot on a Pokémon.
type PokemonTypeSlot struct {
	Type PokemonType `json:"type"`
	Slot int         `json:"slot"`
}

// PokemonAbilitySlot associates an ability with its slot on a Pokémon.
type PokemonAbilitySlot struct {
	Ability  PokemonAbility `json:"ability"`
	Slot     int            `json:"slot"`
	IsHidden bool           `json:"is_hidden"`
}

// Pokemon is a catalog entry with its stats, types, and abilities.
type Pokemon struct {
	ID                    int                  `json:"id"`
	NationalPokedexNumber int                  `json:"national_pokedex_number"`
	Name                  string               `json:"name"`
	Stats                 PokemonStats         `json:"stats"`
	Types                 []PokemonTypeSlot    `json:"types"`
	Abilities             []PokemonAbilitySlot `json:"abilities"`
}
