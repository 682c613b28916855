//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"leadcrm/internal/lead/models"
	"leadcrm/internal/platform/postgres"
	id "leadcrm/pkg/domain"
	"leadcrm/pkg/platform/sentinel"
	"leadcrm/pkg/platform/tx"
	"leadcrm/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *PostgresStore
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
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(s.ctx, "leads"))
}

func (s *PostgresStoreSuite) TestRoundTripWithDetails() {
	l := newLead("ORN-10001", time.Now().UTC().Truncate(time.Microsecond))
	l.Sources = []string{"channel_partner", "website"}
	l.ChannelPartner = &models.ChannelPartner{CompanyName: "Acme", PartnerName: "Ravi", Mobile: "9820012345", RERANumber: "A518"}
	s.Require().NoError(s.store.Create(s.ctx, l))

	got, err := s.store.FindByFormNumber(s.ctx, "ORN-10001")
	s.Require().NoError(err)
	s.Equal(l.ID, got.ID)
	s.Equal([]string{"channel_partner", "website"}, got.Sources)
	s.Require().NotNil(got.ChannelPartner)
	s.Equal("Ravi", got.ChannelPartner.PartnerName)
	s.Nil(got.Referral)
	s.True(got.DateOfBirth.IsZero())
	s.True(got.ProjectID.IsNil())

	updated, err := s.store.Execute(s.ctx, l.ID,
		func(*models.Lead) error { return nil },
		func(l *models.Lead) {
			l.Sources = []string{"referral"}
			l.ChannelPartner = nil
			l.Referral = &models.Referral{ReferralName: "Meera", ProjectName: "Medius"}
		},
	)
	s.Require().NoError(err)
	s.Equal([]string{"referral"}, updated.Sources)

	got, err = s.store.FindByID(s.ctx, l.ID)
	s.Require().NoError(err)
	s.Nil(got.ChannelPartner)
	s.Require().NotNil(got.Referral)
	s.Equal("Meera", got.Referral.ReferralName)
}

func (s *PostgresStoreSuite) TestFormNumberUniqueness() {
	s.Require().NoError(s.store.Create(s.ctx, newLead("MED-20002", time.Now())))
	err := s.store.Create(s.ctx, newLead("MED-20002", time.Now()))
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)

	other := newLead("Med-2", time.Now())
	s.Require().NoError(s.store.Create(s.ctx, other))
	err = s.store.UpdateFormNumber(s.ctx, other.ID, id.ProjectID{}, "MED-20002")
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)

	exists, err := s.store.FormNumberExists(s.ctx, "MED-20002")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *PostgresStoreSuite) TestListFilters() {
	day := time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)
	a := newLead("ORN-11111", day)
	a.City = "Thane"
	b := newLead("STAR-22222", day.Add(24*time.Hour))
	s.Require().NoError(s.store.Create(s.ctx, a))
	s.Require().NoError(s.store.Create(s.ctx, b))

	all, err := s.store.List(s.ctx, models.ListFilter{})
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(b.ID, all[0].ID)

	byCity, err := s.store.List(s.ctx, models.ListFilter{Search: "thA"})
	s.Require().NoError(err)
	s.Require().Len(byCity, 1)
	s.Equal(a.ID, byCity[0].ID)

	byProject, err := s.store.List(s.ctx, models.ListFilter{Project: "STAR"})
	s.Require().NoError(err)
	s.Require().Len(byProject, 1)

	byDate, err := s.store.List(s.ctx, models.ListFilter{DateFrom: id.NewDate(day), DateTo: id.NewDate(day)})
	s.Require().NoError(err)
	s.Require().Len(byDate, 1)
	s.Equal(a.ID, byDate[0].ID)

	wildcard, err := s.store.List(s.ctx, models.ListFilter{Search: "%"})
	s.Require().NoError(err)
	s.Empty(wildcard)
}

func (s *PostgresStoreSuite) TestUpdateFormNumberCollisionKeepsTransactionUsable() {
	taken := newLead("ORN-30003", time.Now())
	legacy := newLead("orn7", time.Now())
	s.Require().NoError(s.store.Create(s.ctx, taken))
	s.Require().NoError(s.store.Create(s.ctx, legacy))

	err := tx.NewSQLRunner(s.pg.DB).RunInTx(s.ctx, func(ctx context.Context) error {
		err := s.store.UpdateFormNumber(ctx, legacy.ID, id.ProjectID{}, "ORN-30003")
		s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)

		exists, err := s.store.FormNumberExists(ctx, "ORN-40004")
		s.Require().NoError(err)
		s.False(exists)
		return s.store.UpdateFormNumber(ctx, legacy.ID, id.ProjectID{}, "ORN-40004")
	})
	s.Require().NoError(err)

	got, err := s.store.FindByID(s.ctx, legacy.ID)
	s.Require().NoError(err)
	s.Equal("ORN-40004", got.FormNumber)
}

func (s *PostgresStoreSuite) TestUpdateFormNumberOutsideTransaction() {
	l := newLead("med9", time.Now())
	s.Require().NoError(s.store.Create(s.ctx, l))
	s.Require().NoError(s.store.UpdateFormNumber(s.ctx, l.ID, id.ProjectID{}, "MED-50005"))

	err := s.store.UpdateFormNumber(s.ctx, id.NewLeadID(), id.ProjectID{}, "MED-50006")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
