// Package store persists projects in memory or in Postgres.
package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"leadcrm/internal/project/models"
	id "leadcrm/pkg/domain"
	"leadcrm/pkg/platform/sentinel"
)

// InMemoryStore is a concurrency-safe project store for tests and
// zero-config development runs.
type InMemoryStore struct {
	mu       sync.RWMutex
	projects map[id.ProjectID]*models.Project
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{projects: make(map[id.ProjectID]*models.Project)}
}

// Create inserts p. It returns models.ErrPrefixTaken when the prefix is
// owned by another project and sentinel.ErrAlreadyUsed when the form code is.
func (s *InMemoryStore) Create(_ context.Context, p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.projects {
		if strings.EqualFold(existing.Prefix, p.Prefix) {
			return models.ErrPrefixTaken
		}
		if existing.FormCode == p.FormCode {
			return fmt.Errorf("project form code %s: %w", p.FormCode, sentinel.ErrAlreadyUsed)
		}
	}
	s.projects[p.ID] = p.Clone()
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, projectID id.ProjectID) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[projectID]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", projectID, sentinel.ErrNotFound)
	}
	return p.Clone(), nil
}

// FindByPrefix matches the prefix case-insensitively regardless of status.
func (s *InMemoryStore) FindByPrefix(_ context.Context, prefix string) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.projects {
		if strings.EqualFold(p.Prefix, prefix) {
			return p.Clone(), nil
		}
	}
	return nil, fmt.Errorf("project prefix %s: %w", prefix, sentinel.ErrNotFound)
}

// List returns projects ordered by name.
func (s *InMemoryStore) List(_ context.Context, activeOnly bool) ([]*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		if activeOnly && !p.Active {
			continue
		}
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Prefix < out[j].Prefix
	})
	return out, nil
}

func (s *InMemoryStore) FormCodeExists(_ context.Context, formCode string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.projects {
		if p.FormCode == formCode {
			return true, nil
		}
	}
	return false, nil
}

// Execute validates and mutates a project atomically under the write lock.
// The mutation is applied to a copy and only stored when validate passes.
func (s *InMemoryStore) Execute(_ context.Context, projectID id.ProjectID, validate func(*models.Project) error, mutate func(*models.Project)) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.projects[projectID]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", projectID, sentinel.ErrNotFound)
	}
	working := current.Clone()
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	s.projects[projectID] = working
	return working.Clone(), nil
}
