package models

import "time"

// TokenWhitelist is one issuance of an access/refresh token pair.
//
// AccessToken stores the jti claim of the paired JWT, not the signed JWT
// itself; the JWT's signature and expiry are verified independently by the
// codec. RefreshToken is the opaque bearer credential for the refresh flow.
// A row with deleted_at set is logically deleted and excluded from lookups.
type TokenWhitelist struct {
	ID           int
	UserID       int
	AccessToken  string
	RefreshToken string
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedBy    string
	UpdatedAt    time.Time
}
