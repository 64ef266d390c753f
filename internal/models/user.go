// Package models holds the row types shared by repositories and services.
package models

import "time"

// User is a registered account. PasswordHash is an Argon2id PHC string and
// never contains the plaintext password.
type User struct {
	ID           int
	Username     string
	PasswordHash string
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedBy    string
	UpdatedAt    time.Time
}
