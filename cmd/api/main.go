package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"projecthub.org/internal/auth"
	"projecthub.org/internal/config"
	"projecthub.org/internal/httpapi"
	"projecthub.org/internal/ids"
	"projecthub.org/internal/obs"
	"projecthub.org/internal/project"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var (
		db       *sql.DB
		users    auth.UserStore
		projects project.Store
	)
	if cfg.PostgresDSN != "" {
		db, err = sql.Open("pgx", cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
		if err := ensureSchema(db); err != nil {
			log.Fatalf("ensure schema: %v", err)
		}
		users = auth.NewPGUserStore(db)
		projects = project.NewPGStore(db)
	} else {
		mem := auth.NewMemoryUserStore()
		memProjects := project.NewMemoryStore()
		if cfg.SeedDemo {
			if err := seedDemo(mem, memProjects); err != nil {
				log.Fatalf("seed demo data: %v", err)
			}
		}
		users = mem
		projects = memProjects
	}

	authSvc, err := auth.NewService(users, cfg.AccessTokenSecret, cfg.RefreshTokenSecret,
		auth.WithIssuer(cfg.TokenIssuer),
		auth.WithAccessTTL(cfg.AccessTokenTTL),
		auth.WithRefreshTTL(cfg.RefreshTokenTTL),
	)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}

	api := httpapi.New(httpapi.ReadyProbe{DB: db}, version, authSvc, projects,
		httpapi.WithRateLimit(cfg.RateLimitPerSec, cfg.RateLimitBurst),
		httpapi.WithMaxBodyBytes(cfg.MaxBodyBytes),
	)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting projecthub-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}

func ensureSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, auth.UsersSchema); err != nil {
		return err
	}
	_, err := db.ExecContext(ctx, project.Schema)
	return err
}

// seedDemo loads the fixture accounts and projects used for local
// development. All demo accounts share the password "password".
func seedDemo(users *auth.MemoryUserStore, projects *project.MemoryStore) error {
	hash, err := auth.HashPassword("password")
	if err != nil {
		return err
	}
	ctx := context.Background()
	accounts := []struct {
		email string
		roles []auth.Role
	}{
		{"servan@auth.com", []auth.Role{auth.RoleAdmin}},
		{"sarah@auth.com", []auth.Role{auth.RoleBasic}},
		{"john@auth.com", []auth.Role{auth.RoleBasic}},
	}
	for _, acc := range accounts {
		user := &auth.User{
			ID:           ids.New(),
			Email:        acc.email,
			PasswordHash: hash,
			Roles:        acc.roles,
			CreatedAt:    time.Now().UTC(),
		}
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		pr := &project.Project{
			ID:         ids.New(),
			Name:       acc.email + "'s project",
			OwnerEmail: acc.email,
			CreatedAt:  time.Now().UTC(),
		}
		if err := projects.Create(ctx, pr); err != nil {
			return err
		}
	}
	return nil
}
