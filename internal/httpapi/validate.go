package httpapi

import (
	"errors"
	"fmt"
	"regexp"
)

// Credentials are validated at the boundary before reaching the session
// core: 3–30 character usernames, 8–50 character passwords, half-width
// alphanumeric only.
const (
	usernameMinLen = 3
	usernameMaxLen = 30
	passwordMinLen = 8
	passwordMaxLen = 50
)

var halfWidthAlphanumeric = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

var errValidation = errors.New("validation error")

func validateCredentials(username, password string) error {
	if len(username) < usernameMinLen || len(username) > usernameMaxLen {
		return fmt.Errorf("%w: username must be %d-%d characters", errValidation, usernameMinLen, usernameMaxLen)
	}
	if !halfWidthAlphanumeric.MatchString(username) {
		return fmt.Errorf("%w: only half-width alphanumeric characters are allowed in username", errValidation)
	}
	if len(password) < passwordMinLen || len(password) > passwordMaxLen {
		return fmt.Errorf("%w: password must be %d-%d characters", errValidation, passwordMinLen, passwordMaxLen)
	}
	if !halfWidthAlphanumeric.MatchString(password) {
		return fmt.Errorf("%w: only half-width alphanumeric characters are allowed in password", errValidation)
	}
	return nil
}
