package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// handleListPokemon lists the catalog. The name and pokedex_number query
// parameters narrow the result to a single entry.
func (s *Server) handleListPokemon(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("name"); name != "" {
		p, err := s.pokemon.GetByName(r.Context(), name)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
		return
	}

	if number := r.URL.Query().Get("pokedex_number"); number != "" {
		n, err := strconv.Atoi(number)
		if err != nil {
			writeError(w, fmt.Errorf("%w: pokedex_number must be an integer", errValidation))
			return
		}
		p, err := s.pokemon.GetByPokedexNumber(r.Context(), n)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
		return
	}

	all, err := s.pokemon.GetAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, all)
}

func (s *Server) handleGetPokemon(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	p, err := s.pokemon.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleListTypes(w http.ResponseWriter, r *http.Request) {
	all, err := s.types.GetAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, all)
}

func (s *Server) handleGetType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	t, err := s.types.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleListAbilities(w http.ResponseWriter, r *http.Request) {
	all, err := s.abilities.GetAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, all)
}

func (s *Server) handleGetAbility(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	a, err := s.abilities.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, a)
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, fmt.Errorf("%w: id must be an integer", errValidation)
	}
	return id, nil
}
