package project

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"projecthub.org/internal/ids"
)

// Schema is the DDL for the projects table. Applied by cmd/api at startup
// when a Postgres DSN is configured.
const Schema = `
create table if not exists projects (
    id          text primary key,
    name        text not null,
    owner_email text not null,
    created_at  timestamptz not null default now()
);
create index if not exists projects_owner_email_idx on projects(owner_email);`

// PGStore implements Store on PostgreSQL via database/sql with the pgx
// stdlib driver.
type PGStore struct {
	db *sql.DB
}

var _ Store = (*PGStore)(nil)

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Create(ctx context.Context, pr *Project) error {
	if pr == nil || strings.TrimSpace(pr.OwnerEmail) == "" {
		return ErrInvalidInput
	}
	if pr.ID == "" {
		pr.ID = ids.New()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into projects(id, name, owner_email) values($1,$2,$3)`,
		pr.ID, pr.Name, pr.OwnerEmail,
	)
	return err
}

func (s *PGStore) Find(ctx context.Context, id string) (Project, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, name, owner_email, created_at from projects where id=$1`, id)
	var pr Project
	if err := row.Scan(&pr.ID, &pr.Name, &pr.OwnerEmail, &pr.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Project{}, ErrNotFound
		}
		return Project{}, err
	}
	return pr, nil
}

func (s *PGStore) List(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, name, owner_email, created_at from projects order by created_at asc, id asc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		var pr Project
		if err := rows.Scan(&pr.ID, &pr.Name, &pr.OwnerEmail, &pr.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from projects where id=$1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
