// Package server composes the application object graph and runs it.
// All dependencies are wired explicitly here, once, at process start.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/poketeer/pokeapi/internal/auth"
	"github.com/poketeer/pokeapi/internal/config"
	"github.com/poketeer/pokeapi/internal/httpapi"
	"github.com/poketeer/pokeapi/internal/logging"
	"github.com/poketeer/pokeapi/internal/repositories/repomanager"
	"github.com/poketeer/pokeapi/internal/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	repos  repomanager.RepositoryManager
	server *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, cfg.Debug)

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	privateKeyPEM, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("error reading private key: %w", err)
	}
	publicKeyPEM, err := os.ReadFile(cfg.PublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("error reading public key: %w", err)
	}

	codec, err := auth.NewJWTCodec(privateKeyPEM, publicKeyPEM, cfg.JWTAlgorithm, cfg.AppDomain)
	if err != nil {
		return nil, fmt.Errorf("codec init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	hasher := auth.NewArgon2idHasher()

	sessions := services.NewSessionService(db, rm, hasher, codec, logger,
		cfg.AccessTokenLifetime, cfg.RefreshTokenLifetime)
	pokemon := services.NewPokemonService(db, rm)
	types := services.NewPokemonTypeService(db, rm)
	abilities := services.NewPokemonAbilityService(db, rm)

	srv := httpapi.NewServer(cfg.ServerAddress, logger, sessions, pokemon, types, abilities)

	return &App{config: cfg, logger: logger, db: db, repos: rm, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app...", "stage", app.config.Stage)

	if err := app.db.PingContext(ctx); err != nil {
		return fmt.Errorf("db connection error: %w", err)
	}

	if err := app.repos.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing db", "error", err.Error())
	}

	return nil
}
