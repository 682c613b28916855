package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"leadcrm/internal/assessment/models"
	id "leadcrm/pkg/domain"
	"leadcrm/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func newAssessment(leadID id.LeadID, classification string, at time.Time) *models.Assessment {
	return &models.Assessment{
		ID:                 id.NewAssessmentID(),
		LeadID:             leadID,
		LeadClassification: classification,
		CreatedAt:          at,
		UpdatedAt:          at,
	}
}

func (s *InMemoryStoreSuite) TestSaveCreatesThenReplaces() {
	leadID := id.NewLeadID()
	first := newAssessment(leadID, "warm", time.Now().Add(-time.Hour))

	created, err := s.store.Save(s.ctx, first)
	s.Require().NoError(err)
	s.True(created)

	second := newAssessment(leadID, "hot", time.Now())
	created, err = s.store.Save(s.ctx, second)
	s.Require().NoError(err)
	s.False(created)
	s.Equal(first.ID, second.ID)
	s.Equal(first.CreatedAt, second.CreatedAt)

	got, err := s.store.FindByLead(s.ctx, leadID)
	s.Require().NoError(err)
	s.Equal("hot", got.LeadClassification)
}

func (s *InMemoryStoreSuite) TestFindByLeadMissing() {
	_, err := s.store.FindByLead(s.ctx, id.NewLeadID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestLeadsWithAssessment() {
	assessed, bare := id.NewLeadID(), id.NewLeadID()
	_, err := s.store.Save(s.ctx, newAssessment(assessed, "", time.Now()))
	s.Require().NoError(err)

	got, err := s.store.LeadsWithAssessment(s.ctx, []id.LeadID{assessed, bare})
	s.Require().NoError(err)
	s.True(got[assessed])
	s.False(got[bare])
}
