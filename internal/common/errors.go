// Package common defines shared sentinel errors used across the service
// and repository layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal = errors.New("internal error")

	// Authentication failed: unknown user, wrong password, or an invalid
	// or expired refresh token. The message deliberately does not say which.
	ErrAuthentication = errors.New("authentication failed")

	// Authorization failed: a well-formed access token that is absent from
	// the whitelist, or a missing/malformed bearer header.
	ErrAuthorization = errors.New("unauthorized")

	// Token signature, issuer, expiry, or shape could not be verified.
	ErrTokenVerification = errors.New("token verification failed")

	// A whitelist entry references a user that no longer exists.
	ErrUserNotFound = errors.New("user not found")

	// Storage-level integrity failures.
	ErrUserCreation      = errors.New("failed to create user")
	ErrTokenRegistration = errors.New("failed to register token")
	ErrTokenUpdate       = errors.New("failed to update token")
)
