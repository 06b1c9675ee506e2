package project

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore keeps projects in process memory, preserving insertion order.
type MemoryStore struct {
	mu       sync.Mutex
	order    []string
	projects map[string]Project
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{projects: make(map[string]Project)}
}

func (s *MemoryStore) Create(_ context.Context, pr *Project) error {
	if pr == nil || strings.TrimSpace(pr.ID) == "" || strings.TrimSpace(pr.OwnerEmail) == "" {
		return ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.projects[pr.ID]; exists {
		return ErrInvalidInput
	}
	s.projects[pr.ID] = *pr
	s.order = append(s.order, pr.ID)
	return nil
}

func (s *MemoryStore) Find(_ context.Context, id string) (Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pr, ok := s.projects[id]
	if !ok {
		return Project{}, ErrNotFound
	}
	return pr, nil
}

func (s *MemoryStore) List(_ context.Context) ([]Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Project, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.projects[id])
	}
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return ErrNotFound
	}
	delete(s.projects, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
