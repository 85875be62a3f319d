package handlers

import (
	"errors"
	"net/http"

	"github.com/amkolotov/users/internal/auth"
	"github.com/amkolotov/users/internal/http/respond"
	"github.com/amkolotov/users/internal/logging"
	"github.com/amkolotov/users/internal/storage"
)

// writeError maps the error taxonomy onto HTTP statuses. Store failures are
// logged with full detail but reach the client as a generic 500; sentinel
// kinds keep their distinct statuses so callers can tell "not logged in"
// from "not allowed" from "not there".
func writeError(w http.ResponseWriter, r *http.Request, log logging.Logger, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated), errors.Is(err, auth.ErrInvalidCredentials):
		respond.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrForbidden):
		respond.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "user not found")
	case errors.Is(err, storage.ErrAlreadyExists):
		respond.Error(w, http.StatusConflict, "login already in use")
	default:
		log.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}
