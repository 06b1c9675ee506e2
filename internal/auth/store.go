package auth

import "context"

// UserStore is the persistence boundary for account records.
type UserStore interface {
	// Create inserts a new account. A duplicate email fails with
	// ErrAlreadyExists.
	Create(ctx context.Context, user *User) error
	Find(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Delete(ctx context.Context, id string) error
}
