// Package store persists booking applications with their applicants and
// channel partner.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"leadcrm/internal/booking/models"
	id "leadcrm/pkg/domain"
	"leadcrm/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu           sync.RWMutex
	applications map[id.BookingID]*models.Application
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{applications: make(map[id.BookingID]*models.Application)}
}

func (s *InMemoryStore) Create(_ context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.applications[app.ID]; ok {
		return fmt.Errorf("booking %s: %w", app.ID, sentinel.ErrAlreadyUsed)
	}
	s.applications[app.ID] = app.Clone()
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, bookingID id.BookingID) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	app, ok := s.applications[bookingID]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", bookingID, sentinel.ErrNotFound)
	}
	return app.Clone(), nil
}

// ListByLead returns the lead's applications, newest first.
func (s *InMemoryStore) ListByLead(_ context.Context, leadID id.LeadID) ([]*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*models.Application{}
	for _, app := range s.applications {
		if app.LeadID == leadID {
			out = append(out, app.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) LeadsWithBooking(_ context.Context, leadIDs []id.LeadID) (map[id.LeadID]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[id.LeadID]bool, len(leadIDs))
	for _, lid := range leadIDs {
		wanted[lid] = true
	}
	out := make(map[id.LeadID]bool)
	for _, app := range s.applications {
		if wanted[app.LeadID] {
			out[app.LeadID] = true
		}
	}
	return out, nil
}
