package project

import "context"

// Store is the persistence boundary for projects.
type Store interface {
	Create(ctx context.Context, pr *Project) error
	Find(ctx context.Context, id string) (Project, error)
	// List returns all projects in creation order; visibility scoping is the
	// caller's job via Scoped.
	List(ctx context.Context) ([]Project, error)
	Delete(ctx context.Context, id string) error
}
