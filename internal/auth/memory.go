package auth

import (
	"context"
	"strings"
	"sync"
)

// MemoryUserStore keeps accounts in process memory, preserving insertion
// order for List.
type MemoryUserStore struct {
	mu      sync.Mutex
	order   []string
	byID    map[string]*User
	byEmail map[string]string
}

var _ UserStore = (*MemoryUserStore)(nil)

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:    make(map[string]*User),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryUserStore) Create(_ context.Context, user *User) error {
	if user == nil || strings.TrimSpace(user.ID) == "" || strings.TrimSpace(user.Email) == "" {
		return ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[user.Email]; exists {
		return ErrAlreadyExists
	}
	if _, exists := s.byID[user.ID]; exists {
		return ErrAlreadyExists
	}
	stored := cloneUser(user)
	s.byID[stored.ID] = stored
	s.byEmail[stored.Email] = stored.ID
	s.order = append(s.order, stored.ID)
	return nil
}

func (s *MemoryUserStore) Find(_ context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(user), nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(s.byID[id]), nil
}

func (s *MemoryUserStore) List(_ context.Context) ([]*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*User, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, cloneUser(s.byID[id]))
	}
	return out, nil
}

func (s *MemoryUserStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	delete(s.byEmail, user.Email)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func cloneUser(u *User) *User {
	cp := *u
	cp.Roles = append([]Role(nil), u.Roles...)
	return &cp
}
