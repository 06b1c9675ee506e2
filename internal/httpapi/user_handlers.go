package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"projecthub.org/internal/audit"
	"projecthub.org/internal/auth"
)

func (a *API) handleUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	users, err := a.auth.Users().List(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (a *API) handleUserResource(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/users/"), "/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.getUser(w, r, id)
	case http.MethodDelete:
		a.deleteUser(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodDelete)
	}
}

func (a *API) getUser(w http.ResponseWriter, r *http.Request, id string) {
	user, err := a.auth.Users().Find(r.Context(), id)
	if err != nil {
		handleUserError(w, r, err, id)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (a *API) deleteUser(w http.ResponseWriter, r *http.Request, id string) {
	// Outstanding refresh tokens for the deleted account are left in the
	// active set. Refresh attempts still fail because the account lookup
	// comes back empty; see DESIGN.md before changing.
	if err := a.auth.Users().Delete(r.Context(), id); err != nil {
		handleUserError(w, r, err, id)
		return
	}
	_ = audit.LogEvent(r.Context(), "user.delete", map[string]any{
		"user_id": id,
	})
	w.WriteHeader(http.StatusNoContent)
}

func handleUserError(w http.ResponseWriter, r *http.Request, err error, id string) {
	switch {
	case errors.Is(err, auth.ErrNotFound):
		writeError(w, r, http.StatusNotFound, fmt.Sprintf("User with id %s not found.", id))
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
