package auth

import (
	"context"
	"sync"
)

// RefreshTokenStore tracks the set of refresh tokens that are currently
// valid. It is the only mutable authorization state in the service: a token
// removed here fails verification even before its expiry. Implementations
// must make each operation atomic with respect to concurrent callers so that
// a revocation racing a verification is never lost. The interface takes a
// context so a shared external store can replace the in-memory set without
// touching Service.
type RefreshTokenStore interface {
	Add(ctx context.Context, token string) error
	Contains(ctx context.Context, token string) (bool, error)
	// Remove deletes a token from the set. Removing an absent token is a
	// no-op, not an error.
	Remove(ctx context.Context, token string) error
	Len(ctx context.Context) (int, error)
}

// MemoryRefreshSet is the process-local RefreshTokenStore.
type MemoryRefreshSet struct {
	mu     sync.Mutex
	tokens map[string]struct{}
}

var _ RefreshTokenStore = (*MemoryRefreshSet)(nil)

func NewMemoryRefreshSet() *MemoryRefreshSet {
	return &MemoryRefreshSet{tokens: make(map[string]struct{})}
}

func (s *MemoryRefreshSet) Add(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = struct{}{}
	return nil
}

func (s *MemoryRefreshSet) Contains(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tokens[token]
	return ok, nil
}

func (s *MemoryRefreshSet) Remove(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

func (s *MemoryRefreshSet) Len(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens), nil
}
