//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	leadModels "leadcrm/internal/lead/models"
	leadStore "leadcrm/internal/lead/store"
	"leadcrm/internal/platform/postgres"
	id "leadcrm/pkg/domain"
	"leadcrm/pkg/platform/sentinel"
	"leadcrm/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *PostgresStore
	leads *leadStore.PostgresStore
	ctx   context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.GetManager().GetPostgres(s.T())
	s.Require().NoError(postgres.Migrate(s.ctx, s.pg.DB))
	s.store = NewPostgres(s.pg.DB)
	s.leads = leadStore.NewPostgres(s.pg.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(s.ctx, "leads"))
}

func (s *PostgresStoreSuite) seedLead(formNumber string) id.LeadID {
	now := time.Now().UTC()
	l := &leadModels.Lead{ID: id.NewLeadID(), FormNumber: formNumber, CreatedAt: now, UpdatedAt: now}
	s.Require().NoError(s.leads.Create(s.ctx, l))
	return l.ID
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	leadID := s.seedLead("MED-30001")
	app := newApplication(leadID, time.Now().UTC().Truncate(time.Microsecond))
	app.GSTAmount = "75000.25"
	app.Applicants[1].DateOfBirth = id.NewDate(time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(s.store.Create(s.ctx, app))

	got, err := s.store.FindByID(s.ctx, app.ID)
	s.Require().NoError(err)
	s.Equal(leadID, got.LeadID)
	s.Equal(id.Decimal("12500000.50"), got.TotalPurchasePrice)
	s.Equal(id.Decimal("75000.25"), got.GSTAmount)
	s.True(got.RERACarpetArea.IsZero())
	s.True(got.InstrumentDate.IsZero())
	s.Require().Len(got.Applicants, 2)
	s.Equal(1, got.Applicants[0].Order)
	s.Equal("Rohan", got.Applicants[1].FirstName)
	s.Equal(app.Applicants[1].DateOfBirth, got.Applicants[1].DateOfBirth)
	s.Require().NotNil(got.ChannelPartner)
	s.Equal("Acme Realty", got.ChannelPartner.Name)
}

func (s *PostgresStoreSuite) TestCreateIsAtomic() {
	leadID := s.seedLead("MED-30002")
	app := newApplication(leadID, time.Now().UTC())
	app.Applicants[1].Order = 1

	s.ErrorIs(s.store.Create(s.ctx, app), sentinel.ErrAlreadyUsed)

	list, err := s.store.ListByLead(s.ctx, leadID)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *PostgresStoreSuite) TestCreateForMissingLead() {
	err := s.store.Create(s.ctx, newApplication(id.NewLeadID(), time.Now().UTC()))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListAndStatus() {
	booked := s.seedLead("MED-30003")
	bare := s.seedLead("MED-30004")
	base := time.Now().UTC().Truncate(time.Microsecond)
	older := newApplication(booked, base.Add(-time.Hour))
	newer := newApplication(booked, base)
	s.Require().NoError(s.store.Create(s.ctx, older))
	s.Require().NoError(s.store.Create(s.ctx, newer))

	list, err := s.store.ListByLead(s.ctx, booked)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(newer.ID, list[0].ID)
	s.Len(list[1].Applicants, 2)

	status, err := s.store.LeadsWithBooking(s.ctx, []id.LeadID{booked, bare})
	s.Require().NoError(err)
	s.Equal(map[id.LeadID]bool{booked: true}, status)
}
