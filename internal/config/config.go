// Package config loads and validates the server configuration from
// environment variables. Every variable is validated eagerly: a missing or
// invalid value is a startup error, never a silent default (except DEBUG
// and SERVER_ADDRESS, which have documented defaults).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Stages accepted for the STAGE variable (case-insensitive).
const (
	StageDevelopment = "development"
	StageStaging     = "staging"
	StageProduction  = "production"
)

const defaultServerAddress = ":8080"

// Config holds runtime settings for the API server.
//
// Fields:
//   - Stage: one of development, staging, production.
//   - Debug: lowers the log level to debug. Defaults to false.
//   - DatabaseURL: PostgreSQL DSN (pgx).
//   - PrivateKeyPath / PublicKeyPath: PEM files for JWT signing/verification.
//   - JWTAlgorithm: signing algorithm name, e.g. "RS256".
//   - AccessTokenLifetime / RefreshTokenLifetime: token lifetimes,
//     configured in whole hours.
//   - AppDomain: JWT issuer string.
//   - ServerAddress: HTTP bind address. Defaults to ":8080".
type Config struct {
	Stage                string
	Debug                bool
	DatabaseURL          string
	PrivateKeyPath       string
	PublicKeyPath        string
	JWTAlgorithm         string
	AccessTokenLifetime  time.Duration
	RefreshTokenLifetime time.Duration
	AppDomain            string
	ServerAddress        string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{}

	stage, err := requireEnv("STAGE")
	if err != nil {
		return nil, err
	}
	stage = strings.ToLower(stage)
	switch stage {
	case StageDevelopment, StageStaging, StageProduction:
		cfg.Stage = stage
	default:
		return nil, fmt.Errorf("environment variable has an invalid value. STAGE: %s", stage)
	}

	if v := os.Getenv("DEBUG"); v != "" {
		cfg.Debug = strings.EqualFold(v, "true")
	}

	if cfg.DatabaseURL, err = requireEnv("DATABASE_URL"); err != nil {
		return nil, err
	}
	if cfg.PrivateKeyPath, err = requireEnv("PRIVATE_KEY"); err != nil {
		return nil, err
	}
	if cfg.PublicKeyPath, err = requireEnv("PUBLIC_KEY"); err != nil {
		return nil, err
	}
	if cfg.JWTAlgorithm, err = requireEnv("JWT_ALGORITHM"); err != nil {
		return nil, err
	}
	if cfg.AppDomain, err = requireEnv("APP_DOMAIN"); err != nil {
		return nil, err
	}

	if cfg.AccessTokenLifetime, err = requireHours("ACCESS_TOKEN_LIFETIME"); err != nil {
		return nil, err
	}
	if cfg.RefreshTokenLifetime, err = requireHours("REFRESH_TOKEN_LIFETIME"); err != nil {
		return nil, err
	}

	cfg.ServerAddress = os.Getenv("SERVER_ADDRESS")
	if cfg.ServerAddress == "" {
		cfg.ServerAddress = defaultServerAddress
	}

	return cfg, nil
}

func requireEnv(name string) (string, error) {
	v := os.Getenv(name)
	if v == "" {
		return "", fmt.Errorf("environment variable is not set: %s", name)
	}
	return v, nil
}

// requireHours parses a positive whole number of hours into a duration.
func requireHours(name string) (time.Duration, error) {
	v, err := requireEnv(name)
	if err != nil {
		return 0, err
	}
	hours, err := strconv.Atoi(v)
	if err != nil || hours <= 0 {
		return 0, fmt.Errorf("environment variable has an invalid value. %s: %s", name, v)
	}
	return time.Duration(hours) * time.Hour, nil
}
