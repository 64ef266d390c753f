package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/poketeer/pokeapi/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the service error taxonomy onto HTTP statuses. Unmatched
// errors are treated as internal and their details are not echoed to the
// client.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrAuthentication),
		errors.Is(err, common.ErrAuthorization),
		errors.Is(err, common.ErrTokenVerification):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: sentinelMessage(err)})
	case errors.Is(err, common.ErrUserNotFound), errors.Is(err, common.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, common.ErrUserCreation):
		writeJSON(w, http.StatusConflict, errorResponse{Error: common.ErrUserCreation.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// sentinelMessage strips wrapped detail from auth errors so the response
// body never leaks which verification step rejected the request.
func sentinelMessage(err error) string {
	for _, sentinel := range []error{common.ErrAuthentication, common.ErrAuthorization, common.ErrTokenVerification} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "unauthorized"
}
