// Package store persists sales assessments, at most one per lead.
package store

import (
	"context"
	"fmt"
	"sync"

	"leadcrm/internal/assessment/models"
	id "leadcrm/pkg/domain"
	"leadcrm/pkg/platform/sentinel"
)

// InMemoryStore keys assessments by lead.
type InMemoryStore struct {
	mu     sync.RWMutex
	byLead map[id.LeadID]*models.Assessment
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{byLead: make(map[id.LeadID]*models.Assessment)}
}

func (s *InMemoryStore) FindByLead(_ context.Context, leadID id.LeadID) (*models.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.byLead[leadID]
	if !ok {
		return nil, fmt.Errorf("assessment for lead %s: %w", leadID, sentinel.ErrNotFound)
	}
	return a.Clone(), nil
}

// Save inserts a or replaces the lead's existing assessment. An existing
// record keeps its ID and creation time, which are copied back onto a.
func (s *InMemoryStore) Save(_ context.Context, a *models.Assessment) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byLead[a.LeadID]; ok {
		a.ID = existing.ID
		a.CreatedAt = existing.CreatedAt
		s.byLead[a.LeadID] = a.Clone()
		return false, nil
	}
	s.byLead[a.LeadID] = a.Clone()
	return true, nil
}

// LeadsWithAssessment reports which of leadIDs have an assessment.
func (s *InMemoryStore) LeadsWithAssessment(_ context.Context, leadIDs []id.LeadID) (map[id.LeadID]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[id.LeadID]bool, len(leadIDs))
	for _, lid := range leadIDs {
		if _, ok := s.byLead[lid]; ok {
			out[lid] = true
		}
	}
	return out, nil
}
