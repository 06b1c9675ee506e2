package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"projecthub.org/internal/auth"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "

	msgNoAccessToken      = "No access token present in header."
	msgInvalidAccessToken = "Access token is not valid."
	msgNotAllowed         = "Not allowed"
)

var publicPaths = []string{
	"/",
	"/login",
	"/token",
	"/logout",
	"/register",
	"/healthz",
	"/readyz",
	"/metrics",
	"/v1/info",
}

// withAuth gates every non-public route behind access token verification and
// attaches the resolved principal to the request context. Each request is
// evaluated independently; nothing is cached between requests.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, r, http.StatusUnauthorized, msgNoAccessToken)
			return
		}

		principal, err := a.auth.Authenticate(token)
		if err != nil {
			// Invalid signature, expiry and malformed tokens all land here;
			// the response must not reveal which.
			if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrTokenMissing) {
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeError(w, r, http.StatusUnauthorized, msgInvalidAccessToken)
				return
			}
			writeError(w, r, http.StatusInternalServerError, "authentication error")
			return
		}

		ctx := auth.ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects requests whose principal lacks the role. Denials are
// 401, matching the rest of the authorization surface.
func RequireRole(role auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.PrincipalFromContext(r.Context())
			if !ok || !principal.HasRole(role) {
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeError(w, r, http.StatusUnauthorized, msgNotAllowed)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (a *API) requirePrincipal(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, r, http.StatusUnauthorized, msgNoAccessToken)
		return auth.Principal{}, false
	}
	return principal, true
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}
