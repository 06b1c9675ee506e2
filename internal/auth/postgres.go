package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"projecthub.org/internal/ids"
)

const pgUniqueViolation = "23505"

// UsersSchema is the DDL for the accounts table. Applied by cmd/api at
// startup when a Postgres DSN is configured.
const UsersSchema = `
create table if not exists users (
    id            text primary key,
    email         text not null unique,
    password_hash text not null,
    roles         jsonb not null default '["basic"]',
    created_at    timestamptz not null default now()
);`

// PGUserStore implements UserStore on PostgreSQL via database/sql with the
// pgx stdlib driver.
type PGUserStore struct {
	db *sql.DB
}

var _ UserStore = (*PGUserStore)(nil)

func NewPGUserStore(db *sql.DB) *PGUserStore {
	return &PGUserStore{db: db}
}

func (s *PGUserStore) Create(ctx context.Context, user *User) error {
	if user == nil || strings.TrimSpace(user.Email) == "" {
		return ErrInvalidInput
	}
	if user.ID == "" {
		user.ID = ids.New()
	}
	roles, err := json.Marshal(user.Roles)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`insert into users(id, email, password_hash, roles) values($1,$2,$3,$4)`,
		user.ID, user.Email, user.PasswordHash, roles,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (s *PGUserStore) Find(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, email, password_hash, roles, created_at from users where id=$1`, id)
	return scanUser(row)
}

func (s *PGUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, email, password_hash, roles, created_at from users where email=$1`,
		strings.TrimSpace(strings.ToLower(email)))
	return scanUser(row)
}

func (s *PGUserStore) List(ctx context.Context) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, email, password_hash, roles, created_at from users order by created_at asc, id asc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

func (s *PGUserStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from users where id=$1`, id)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var (
		user  User
		roles []byte
	)
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &roles, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(roles, &user.Roles); err != nil {
		return nil, err
	}
	return &user, nil
}
