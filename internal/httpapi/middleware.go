package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/poketeer/pokeapi/internal/common"
	"github.com/poketeer/pokeapi/internal/models"
)

type ctxKey string

const userKey ctxKey = "user"

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. A missing or malformed header is an authorization failure before
// the session core is ever consulted.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", fmt.Errorf("%w: missing authorization header", common.ErrAuthorization)
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", fmt.Errorf("%w: malformed authorization header", common.ErrAuthorization)
	}

	return token, nil
}

// authenticate resolves the bearer token to a user and stores it in the
// request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			writeError(w, err)
			return
		}

		user, err := s.sessions.ResolveIdentity(r.Context(), token)
		if err != nil {
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFromContext returns the authenticated user stored by authenticate.
func userFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}
