// Package store persists leads with their sources, channel partner and
// referral records.
package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"leadcrm/internal/lead/models"
	id "leadcrm/pkg/domain"
	"leadcrm/pkg/platform/sentinel"
)

// InMemoryStore keeps leads in a map guarded by a RWMutex.
type InMemoryStore struct {
	mu    sync.RWMutex
	leads map[id.LeadID]*models.Lead
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{leads: make(map[id.LeadID]*models.Lead)}
}

func (s *InMemoryStore) formNumberTaken(formNumber string, except id.LeadID) bool {
	for lid, l := range s.leads {
		if lid != except && l.FormNumber == formNumber {
			return true
		}
	}
	return false
}

// Create inserts l, returning sentinel.ErrAlreadyUsed when the form number is taken.
func (s *InMemoryStore) Create(_ context.Context, l *models.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.formNumberTaken(l.FormNumber, id.LeadID{}) {
		return fmt.Errorf("lead form number %s: %w", l.FormNumber, sentinel.ErrAlreadyUsed)
	}
	s.leads[l.ID] = l.Clone()
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, leadID id.LeadID) (*models.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.leads[leadID]
	if !ok {
		return nil, fmt.Errorf("lead %s: %w", leadID, sentinel.ErrNotFound)
	}
	return l.Clone(), nil
}

func (s *InMemoryStore) FindByFormNumber(_ context.Context, formNumber string) (*models.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.leads {
		if l.FormNumber == formNumber {
			return l.Clone(), nil
		}
	}
	return nil, fmt.Errorf("lead form number %s: %w", formNumber, sentinel.ErrNotFound)
}

func (s *InMemoryStore) FormNumberExists(_ context.Context, formNumber string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.formNumberTaken(formNumber, id.LeadID{}), nil
}

// Execute applies mutate to a copy of the lead once validate passes.
func (s *InMemoryStore) Execute(_ context.Context, leadID id.LeadID, validate func(*models.Lead) error, mutate func(*models.Lead)) (*models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.leads[leadID]
	if !ok {
		return nil, fmt.Errorf("lead %s: %w", leadID, sentinel.ErrNotFound)
	}
	working := current.Clone()
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	s.leads[leadID] = working
	return working.Clone(), nil
}

// UpdateFormNumber re-links a lead to projectID under a new form number.
func (s *InMemoryStore) UpdateFormNumber(_ context.Context, leadID id.LeadID, projectID id.ProjectID, formNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.leads[leadID]
	if !ok {
		return fmt.Errorf("lead %s: %w", leadID, sentinel.ErrNotFound)
	}
	if s.formNumberTaken(formNumber, leadID) {
		return fmt.Errorf("lead form number %s: %w", formNumber, sentinel.ErrAlreadyUsed)
	}
	l.FormNumber = formNumber
	l.ProjectID = projectID
	return nil
}

// List returns every lead matching the search, project and date filters,
// newest first. Status filters and paging are applied by the caller.
func (s *InMemoryStore) List(_ context.Context, f models.ListFilter) ([]*models.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(f.Search)
	out := make([]*models.Lead, 0, len(s.leads))
	for _, l := range s.leads {
		if search != "" && !matchesSearch(l, search) {
			continue
		}
		if f.Project != "" && !strings.HasPrefix(strings.ToUpper(l.FormNumber), f.Project) {
			continue
		}
		created := id.NewDate(l.CreatedAt)
		if !f.DateFrom.IsZero() && created.Before(f.DateFrom.Time) {
			continue
		}
		if !f.DateTo.IsZero() && created.After(f.DateTo.Time) {
			continue
		}
		out = append(out, l.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func matchesSearch(l *models.Lead, needle string) bool {
	for _, field := range []string{l.FirstName, l.LastName, l.Email, l.FormNumber, l.City, l.Phone} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
