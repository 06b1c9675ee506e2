package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"projecthub.org/internal/audit"
	"projecthub.org/internal/auth"
)

const (
	msgInvalidLogin       = "Invalid login. Please try again."
	msgNoRefreshToken     = "No refresh token present in header."
	msgRefreshNotValid    = "Refresh token not valid."
	msgRegisterBadRequest = "Email or password not provided. Cannot register user."
	msgRegisterConflict   = "An account with this email already exists."
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	pair, err := a.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		// Unknown account and wrong password produce the same response.
		if errors.Is(err, auth.ErrUnauthorized) {
			writeError(w, r, http.StatusUnauthorized, msgInvalidLogin)
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.login", map[string]any{
		"email": strings.TrimSpace(strings.ToLower(req.Email)),
	})
	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (a *API) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req refreshRequest
	_ = decodeJSON(w, r, &req)
	token := strings.TrimSpace(req.RefreshToken)
	if token == "" {
		if fromHeader, err := extractBearerToken(r.Header.Get(authHeader)); err == nil {
			token = fromHeader
		}
	}
	if token == "" {
		writeError(w, r, http.StatusUnauthorized, msgNoRefreshToken)
		return
	}

	access, _, err := a.auth.Refresh(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenMissing):
			writeError(w, r, http.StatusUnauthorized, msgNoRefreshToken)
		case errors.Is(err, auth.ErrRefreshUntracked),
			errors.Is(err, auth.ErrInvalidToken),
			errors.Is(err, auth.ErrNotFound):
			// ErrNotFound covers a still-valid token for a deleted account.
			writeError(w, r, http.StatusUnauthorized, msgRefreshNotValid)
		default:
			writeError(w, r, http.StatusInternalServerError, "internal error")
		}
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.token.refresh", nil)
	writeJSON(w, http.StatusOK, refreshResponse{AccessToken: access})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req refreshRequest
	_ = decodeJSON(w, r, &req)

	// Idempotent: revoking an untracked or absent token still returns 204.
	if err := a.auth.Logout(r.Context(), req.RefreshToken); err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.logout", nil)
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, msgRegisterBadRequest)
		return
	}

	user, err := a.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidInput):
			writeError(w, r, http.StatusBadRequest, msgRegisterBadRequest)
		case errors.Is(err, auth.ErrAlreadyExists):
			writeError(w, r, http.StatusConflict, msgRegisterConflict)
		default:
			writeError(w, r, http.StatusInternalServerError, "internal error")
		}
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.register", map[string]any{
		"email": user.Email,
	})
	w.Header().Set("Location", "/users/"+user.ID)
	writeJSON(w, http.StatusCreated, user)
}
