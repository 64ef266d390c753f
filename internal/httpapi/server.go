// Package httpapi exposes the session and catalog services over HTTP/JSON.
// It is a thin adapter: request decoding, boundary validation, bearer
// extraction, and error-to-status mapping live here; all business rules
// stay in the services.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/poketeer/pokeapi/internal/logging"
	"github.com/poketeer/pokeapi/internal/models"
	"github.com/poketeer/pokeapi/internal/services"
)

// Sessions is the slice of SessionService the transport needs.
type Sessions interface {
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Register(ctx context.Context, username, password string) (*services.TokenPair, error)
	ResolveIdentity(ctx context.Context, accessToken string) (*models.User, error)
}

// PokemonCatalog serves Pokémon reads.
type PokemonCatalog interface {
	GetByID(ctx context.Context, id int) (*models.Pokemon, error)
	GetByPokedexNumber(ctx context.Context, number int) (*models.Pokemon, error)
	GetByName(ctx context.Context, name string) (*models.Pokemon, error)
	GetAll(ctx context.Context) ([]*models.Pokemon, error)
}

// TypeCatalog serves type master reads.
type TypeCatalog interface {
	GetByID(ctx context.Context, id int) (*models.PokemonType, error)
	GetAll(ctx context.Context) ([]*models.PokemonType, error)
}

// AbilityCatalog serves ability master reads.
type AbilityCatalog interface {
	GetByID(ctx context.Context, id int) (*models.PokemonAbility, error)
	GetAll(ctx context.Context) ([]*models.PokemonAbility, error)
}

type Server struct {
	address   string
	logger    logging.Logger
	sessions  Sessions
	pokemon   PokemonCatalog
	types     TypeCatalog
	abilities AbilityCatalog
	registry  *prometheus.Registry
	metrics   *requestMetrics
}

func NewServer(address string, l logging.Logger, sessions Sessions, pokemon PokemonCatalog, types TypeCatalog, abilities AbilityCatalog) *Server {
	registry := prometheus.NewRegistry()
	return &Server{
		address:   address,
		logger:    l.With("module", "http_server"),
		sessions:  sessions,
		pokemon:   pokemon,
		types:     types,
		abilities: abilities,
		registry:  registry,
		metrics:   newRequestMetrics(registry),
	}
}

// Router assembles the chi routing tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/refresh", s.handleRefresh)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)
		r.Get("/users/me", s.handleMe)
	})

	r.Get("/pokemon", s.handleListPokemon)
	r.Get("/pokemon/{id}", s.handleGetPokemon)
	r.Get("/types", s.handleListTypes)
	r.Get("/types/{id}", s.handleGetType)
	r.Get("/abilities", s.handleListAbilities)
	r.Get("/abilities/{id}", s.handleGetAbility)

	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "error during shutdown", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
