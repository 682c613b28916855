package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"leadcrm/internal/booking/models"
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

func newApplication(leadID id.LeadID, created time.Time) *models.Application {
	return &models.Application{
		ID:                 id.NewBookingID(),
		LeadID:             leadID,
		ProjectName:        "Medius",
		ApplicationDate:    id.NewDate(created),
		TotalPurchasePrice: "12500000.5",
		Applicants: []models.Applicant{
			{ID: id.NewApplicantID(), Order: 1, FirstName: "Sunita", LastName: "Patil", Country: "India"},
			{ID: id.NewApplicantID(), Order: 2, FirstName: "Rohan", LastName: "Patil", Country: "India"},
		},
		ChannelPartner: &models.ChannelPartner{Name: "Acme Realty", Mobile: "9820098200"},
		CreatedAt:      created,
		UpdatedAt:      created,
	}
}

func (s *InMemoryStoreSuite) TestCreateAndFind() {
	app := newApplication(id.NewLeadID(), time.Now())
	s.Require().NoError(s.store.Create(s.ctx, app))

	got, err := s.store.FindByID(s.ctx, app.ID)
	s.Require().NoError(err)
	s.Equal(app, got)

	got.Applicants[0].FirstName = "changed"
	again, err := s.store.FindByID(s.ctx, app.ID)
	s.Require().NoError(err)
	s.Equal("Sunita", again.Applicants[0].FirstName)

	s.ErrorIs(s.store.Create(s.ctx, app), sentinel.ErrAlreadyUsed)
}

func (s *InMemoryStoreSuite) TestFindMissing() {
	_, err := s.store.FindByID(s.ctx, id.NewBookingID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestListByLeadNewestFirst() {
	leadID := id.NewLeadID()
	older := newApplication(leadID, time.Now().Add(-time.Hour))
	newer := newApplication(leadID, time.Now())
	other := newApplication(id.NewLeadID(), time.Now())
	for _, app := range []*models.Application{older, newer, other} {
		s.Require().NoError(s.store.Create(s.ctx, app))
	}

	got, err := s.store.ListByLead(s.ctx, leadID)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(newer.ID, got[0].ID)
	s.Equal(older.ID, got[1].ID)

	status, err := s.store.LeadsWithBooking(s.ctx, []id.LeadID{leadID, id.NewLeadID()})
	s.Require().NoError(err)
	s.Equal(map[id.LeadID]bool{leadID: true}, status)
}
