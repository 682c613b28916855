// Package store persists staff accounts in memory or in Postgres.
package store

import (
	"context"
	"fmt"
	"sync"

	"leadcrm/internal/staff/models"
	id "leadcrm/pkg/domain"
	"leadcrm/pkg/platform/sentinel"
)

// InMemoryStore indexes accounts by ID and by folded username.
type InMemoryStore struct {
	mu         sync.RWMutex
	byID       map[id.StaffID]*models.Staff
	byUsername map[string]id.StaffID
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		byID:       make(map[id.StaffID]*models.Staff),
		byUsername: make(map[string]id.StaffID),
	}
}

// Create returns sentinel.ErrAlreadyUsed when the username is taken.
func (s *InMemoryStore) Create(_ context.Context, st *models.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := models.NormalizeUsername(st.Username)
	if _, ok := s.byUsername[key]; ok {
		return fmt.Errorf("username %s: %w", key, sentinel.ErrAlreadyUsed)
	}
	s.byID[st.ID] = st.Clone()
	s.byUsername[key] = st.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, staffID id.StaffID) (*models.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.byID[staffID]
	if !ok {
		return nil, fmt.Errorf("staff %s: %w", staffID, sentinel.ErrNotFound)
	}
	return st.Clone(), nil
}

func (s *InMemoryStore) FindByUsername(_ context.Context, username string) (*models.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	staffID, ok := s.byUsername[models.NormalizeUsername(username)]
	if !ok {
		return nil, fmt.Errorf("username %s: %w", username, sentinel.ErrNotFound)
	}
	return s.byID[staffID].Clone(), nil
}
