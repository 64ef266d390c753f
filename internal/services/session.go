// Package services contains the server-side business logic. This file
// implements SessionService, which ties the password hasher, the token
// codec, the whitelist store, and the user directory together for login,
// refresh, registration, and bearer-token identity resolution.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/poketeer/pokeapi/internal/auth"
	"github.com/poketeer/pokeapi/internal/common"
	"github.com/poketeer/pokeapi/internal/dbx"
	"github.com/poketeer/pokeapi/internal/logging"
	"github.com/poketeer/pokeapi/internal/models"
	"github.com/poketeer/pokeapi/internal/repositories/repomanager"
)

// TokenPair bundles a short-lived signed access token and a long-lived
// opaque refresh token, in the wire shape returned to the transport layer.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

const tokenTypeBearer = "Bearer"

// SessionService provides the authentication operations:
//   - Login: verify credentials and mint a token pair
//   - Refresh: rotate a refresh token into a fresh pair
//   - Register: create a user and mint its first pair
//   - ResolveIdentity: map a bearer access token back to its user
//
// Every operation opportunistically soft-deletes the user's expired
// whitelist rows; there is no background sweeper.
type SessionService struct {
	db                   *sql.DB
	repomanager          repomanager.RepositoryManager
	hasher               auth.PasswordHasher
	codec                auth.Codec
	logger               logging.Logger
	accessTokenLifetime  time.Duration
	refreshTokenLifetime time.Duration
	now                  func() time.Time
}

// NewSessionService constructs a SessionService from its collaborators.
func NewSessionService(
	db *sql.DB,
	m repomanager.RepositoryManager,
	hasher auth.PasswordHasher,
	codec auth.Codec,
	logger logging.Logger,
	accessTokenLifetime, refreshTokenLifetime time.Duration,
) *SessionService {
	return &SessionService{
		db:                   db,
		repomanager:          m,
		hasher:               hasher,
		codec:                codec,
		logger:               logger.With("module", "session_service"),
		accessTokenLifetime:  accessTokenLifetime,
		refreshTokenLifetime: refreshTokenLifetime,
		now:                  time.Now,
	}
}

// Login verifies the credentials and, on success, issues a token pair.
// Unknown users and wrong passwords both fail with common.ErrAuthentication;
// the error does not reveal which check failed.
func (s *SessionService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info(ctx, "login rejected: user not found", "username", username)
			return nil, common.ErrAuthentication
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.Info(ctx, "login rejected: incorrect password", "user_id", user.ID)
		return nil, common.ErrAuthentication
	}

	return s.sweepAndIssue(ctx, user)
}

// Refresh exchanges a valid refresh token for a fresh token pair. Rotation
// inserts a new whitelist row; the previous row stays until reaped by the
// expiry sweep, which preserves the issuance history.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	cutoff := s.now().Add(-s.refreshTokenLifetime)

	entry, err := s.repomanager.TokenWhitelist(s.db).GetByRefreshToken(ctx, refreshToken, cutoff)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info(ctx, "refresh rejected: token not in whitelist")
			return nil, common.ErrAuthentication
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, entry.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Warn(ctx, "refresh rejected: whitelisted user no longer exists", "user_id", entry.UserID)
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	return s.sweepAndIssue(ctx, user)
}

// Register creates a new user and issues its first token pair. A duplicate
// username surfaces as common.ErrUserCreation.
func (s *SessionService) Register(ctx context.Context, username, password string) (*TokenPair, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, &models.User{
		Username:     username,
		PasswordHash: hash,
	})
	if err != nil {
		s.logger.Info(ctx, "registration failed", "username", username, "error", err.Error())
		return nil, err
	}

	return s.issueTokenPair(ctx, s.db, user)
}

// ResolveIdentity verifies a bearer access token and maps it back to its
// user. A cryptographically invalid or expired token fails with
// common.ErrTokenVerification; a valid token absent from the whitelist
// fails with common.ErrAuthorization.
func (s *SessionService) ResolveIdentity(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.codec.Verify(accessToken)
	if err != nil {
		s.logger.Info(ctx, "token verification failed", "error", err.Error())
		return nil, err
	}

	cutoff := s.now().Add(-s.accessTokenLifetime)

	_, err = s.repomanager.TokenWhitelist(s.db).GetByAccessToken(ctx, claims.ID, cutoff)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info(ctx, "access token not in whitelist", "jti", claims.ID)
			return nil, common.ErrAuthorization
		}
		return nil, fmt.Errorf("error searching access token: %w", err)
	}

	userID, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed subject claim", common.ErrTokenVerification)
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Warn(ctx, "whitelisted user no longer exists", "user_id", userID)
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	// Reap expired rows as a side effect of normal traffic.
	s.sweepExpired(ctx, s.db, user.ID)

	return user, nil
}

// sweepAndIssue reaps the user's expired whitelist rows and inserts the new
// issuance in a single transaction.
func (s *SessionService) sweepAndIssue(ctx context.Context, user *models.User) (*TokenPair, error) {
	var pair *TokenPair
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		s.sweepExpired(ctx, tx, user.ID)
		p, err := s.issueTokenPair(ctx, tx, user)
		if err != nil {
			return err
		}
		pair = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// issueTokenPair mints an access token with a fresh jti, pairs it with a
// fresh opaque refresh token, and whitelists the issuance.
func (s *SessionService) issueTokenPair(ctx context.Context, db dbx.DBTX, user *models.User) (*TokenPair, error) {
	now := s.now()
	jti := uuid.NewString()

	access, err := s.codec.Issue(strconv.Itoa(user.ID), user.Username, now, now.Add(s.accessTokenLifetime), jti)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	refresh := uuid.NewString()

	_, err = s.repomanager.TokenWhitelist(db).Create(ctx, &models.TokenWhitelist{
		UserID:       user.ID,
		AccessToken:  jti,
		RefreshToken: refresh,
		CreatedBy:    user.Username,
		CreatedAt:    now,
		UpdatedBy:    user.Username,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: tokenTypeBearer}, nil
}

// sweepExpired soft-deletes whitelist rows older than the refresh-token
// lifetime. Failures are logged, not propagated: cleanup piggybacks on
// normal traffic and must not fail the request.
func (s *SessionService) sweepExpired(ctx context.Context, db dbx.DBTX, userID int) {
	cutoff := s.now().Add(-s.refreshTokenLifetime)
	count, err := s.repomanager.TokenWhitelist(db).DeleteExpired(ctx, userID, cutoff)
	if err != nil {
		s.logger.Error(ctx, "error deleting expired tokens", "user_id", userID, "error", err.Error())
		return
	}
	if count > 0 {
		s.logger.Info(ctx, "deleted expired tokens", "user_id", userID, "count", count)
	}
}
