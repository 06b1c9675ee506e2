// Package httpapi is the HTTP surface of the service: routing, the
// authentication middleware and the ambient request pipeline.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"

	"projecthub.org/internal/auth"
	"projecthub.org/internal/obs"
	"projecthub.org/internal/project"
)

// ReadyProbe reports readiness, pinging the database when one is configured.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer.
type API struct {
	mux        *http.ServeMux
	auth       *auth.Service
	projects   project.Store
	readyProbe ReadyProbe
	version    string

	ratePerSec   int
	rateBurst    int
	maxBodyBytes int64
}

// Option adjusts API construction.
type Option func(*API)

// WithRateLimit overrides the per-IP token bucket parameters.
func WithRateLimit(perSec, burst int) Option {
	return func(a *API) {
		if perSec > 0 {
			a.ratePerSec = perSec
		}
		if burst > 0 {
			a.rateBurst = burst
		}
	}
}

// WithMaxBodyBytes overrides the request body size limit.
func WithMaxBodyBytes(n int64) Option {
	return func(a *API) {
		if n > 0 {
			a.maxBodyBytes = n
		}
	}
}

func New(rp ReadyProbe, version string, authSvc *auth.Service, projects project.Store, opts ...Option) *API {
	a := &API{
		mux:          http.NewServeMux(),
		auth:         authSvc,
		projects:     projects,
		readyProbe:   rp,
		version:      version,
		ratePerSec:   50,
		rateBurst:    100,
		maxBodyBytes: 1 << 20,
	}
	for _, opt := range opts {
		opt(a)
	}

	// health/ready/info
	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	// authentication lifecycle
	a.mux.HandleFunc("/login", a.handleLogin)
	a.mux.HandleFunc("/token", a.handleToken)
	a.mux.HandleFunc("/logout", a.handleLogout)
	a.mux.HandleFunc("/register", a.handleRegister)

	// resources
	a.mux.HandleFunc("/projects", a.handleProjects)
	a.mux.HandleFunc("/projects/", a.handleProjectResource)
	a.mux.HandleFunc("/users", a.handleUsers)
	a.mux.HandleFunc("/users/", a.handleUserResource)
	a.mux.Handle("/admin/overview", RequireRole(auth.RoleAdmin)(http.HandlerFunc(a.handleAdminOverview)))

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the fully wrapped handler for the server.
func (a *API) Handler() http.Handler {
	h := a.withAuth(a.mux)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = MaxBodyBytes(h, a.maxBodyBytes)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}
