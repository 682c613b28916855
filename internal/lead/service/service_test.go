package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"leadcrm/internal/events"
	"leadcrm/internal/formnumber"
	"leadcrm/internal/lead/adapters"
	"leadcrm/internal/lead/models"
	"leadcrm/internal/lead/ports"
	"leadcrm/internal/lead/store"
	projectModels "leadcrm/internal/project/models"
	projectService "leadcrm/internal/project/service"
	projectStore "leadcrm/internal/project/store"
	id "leadcrm/pkg/domain"
	dErrors "leadcrm/pkg/domain-errors"
	"leadcrm/pkg/platform/tx"
	"leadcrm/pkg/requestcontext"
	"leadcrm/pkg/testutil"
)

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) error {
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type LeadServiceSuite struct {
	suite.Suite
	ctx       context.Context
	now       time.Time
	store     *store.InMemoryStore
	projects  *projectService.Service
	publisher *recordingPublisher
	assessed  map[id.LeadID]bool
	booked    map[id.LeadID]bool
	service   *Service
}

func TestLeadServiceSuite(t *testing.T) {
	suite.Run(t, new(LeadServiceSuite))
}

func (s *LeadServiceSuite) SetupTest() {
	s.now = time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.store = store.NewInMemory()
	s.projects = projectService.New(projectStore.NewInMemory())
	s.publisher = &recordingPublisher{}
	s.assessed = map[id.LeadID]bool{}
	s.booked = map[id.LeadID]bool{}

	for _, p := range []struct{ prefix, name string }{
		{"ORN", "Ornata"},
		{"ST", "Spenta Tower"},
		{"STAR", "Spenta Stardeous"},
	} {
		_, err := s.projects.CreateProject(s.ctx, &projectModels.CreateProjectRequest{
			Prefix:  p.prefix,
			Details: projectModels.Details{Name: p.name},
		})
		s.Require().NoError(err)
	}

	lookup := func(m map[id.LeadID]bool) ports.StatusFunc {
		return func(_ context.Context, ids []id.LeadID) (map[id.LeadID]bool, error) {
			out := make(map[id.LeadID]bool, len(ids))
			for _, lid := range ids {
				out[lid] = m[lid]
			}
			return out, nil
		}
	}

	s.service = New(s.store, adapters.NewProjectAdapter(s.projects),
		WithGenerator(formnumber.NewGenerator(formnumber.WithRand(rand.New(rand.NewPCG(3, 4))))),
		WithPublisher(s.publisher),
		WithStatusPorts(lookup(s.assessed), lookup(s.booked)),
	)
}

func validInput() models.LeadInput {
	p := testutil.RandomPerson()
	return models.LeadInput{
		FirstName:          p.FirstName,
		LastName:           p.LastName,
		Email:              p.Email,
		Phone:              p.Phone,
		Sex:                "female",
		MaritalStatus:      "married",
		City:               p.City,
		Locality:           "Andheri West",
		Pincode:            p.Pincode,
		Nationality:        "indian",
		EmploymentType:     "salaried",
		Configuration:      "2bhk",
		Budget:             "1cr_to_2cr",
		ConstructionStatus: "ready_possession",
		PurposeOfBuying:    "personal_use",
		Sources:            []string{"website"},
	}
}

func (s *LeadServiceSuite) submit(projectCode string) *models.SubmitResult {
	res, err := s.service.Submit(s.ctx, &models.SubmitRequest{ProjectCode: projectCode, LeadInput: validInput()})
	s.Require().NoError(err)
	return res
}

func (s *LeadServiceSuite) TestSubmit() {
	s.Run("numbers the lead under the project prefix", func() {
		res := s.submit("orn")
		s.Regexp(`^ORN-\d{5}$`, res.FormNumber)
		s.Equal("Ornata", res.ProjectName)

		l, err := s.service.Get(s.ctx, res.LeadID)
		s.Require().NoError(err)
		s.Equal(res.FormNumber, l.FormNumber)
		s.Equal(id.NewDate(s.now), l.FormDate)
		s.True(l.DateOfBirth.IsZero())
		s.Contains(s.publisher.types(), events.TypeLeadSubmitted)
	})

	s.Run("unknown project is a validation error", func() {
		_, err := s.service.Submit(s.ctx, &models.SubmitRequest{ProjectCode: "XYZ", LeadInput: validInput()})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("missing fields are reported together", func() {
		in := validInput()
		in.City = ""
		in.Budget = " "
		in.Sex = ""
		_, err := s.service.Submit(s.ctx, &models.SubmitRequest{ProjectCode: "ORN", LeadInput: in})
		de, ok := dErrors.As(err)
		s.Require().True(ok)
		s.ElementsMatch([]string{"city", "budget", "sex"}, de.Fields)
	})

	s.Run("partner kept only when selected and complete", func() {
		in := validInput()
		in.Sources = []string{"Channel_Partner", "referral", "channel_partner"}
		in.ChannelPartner = &models.ChannelPartnerInput{CompanyName: "Acme Realty", PartnerName: "Ravi", Mobile: "9820012345", RERANumber: "a51800001"}
		in.Referral = &models.ReferralInput{ReferralName: "Meera"}
		res, err := s.service.Submit(s.ctx, &models.SubmitRequest{ProjectCode: "ORN", LeadInput: in})
		s.Require().NoError(err)

		l, err := s.service.Get(s.ctx, res.LeadID)
		s.Require().NoError(err)
		s.Equal([]string{"channel_partner", "referral"}, l.Sources)
		s.Require().NotNil(l.ChannelPartner)
		s.Equal("A51800001", l.ChannelPartner.RERANumber)
		s.Nil(l.Referral, "incomplete referral is dropped")
	})

	s.Run("longest prefix wins", func() {
		res := s.submit("STAR")
		s.Equal("Spenta Stardeous", res.ProjectName)
		s.True(strings.HasPrefix(res.FormNumber, "STAR-"))
	})
}

func (s *LeadServiceSuite) TestUpdateReplacesDetails() {
	in := validInput()
	in.Sources = []string{"referral"}
	in.Referral = &models.ReferralInput{ReferralName: "Meera", ProjectName: "Ornata"}
	res, err := s.service.Submit(s.ctx, &models.SubmitRequest{ProjectCode: "ORN", LeadInput: in})
	s.Require().NoError(err)

	edit := validInput()
	edit.FirstName = "Anita"
	edit.Sources = []string{"hoarding"}
	updated, err := s.service.Update(s.ctx, res.LeadID, &models.UpdateRequest{LeadInput: edit})
	s.Require().NoError(err)
	s.Equal("Anita", updated.FirstName)
	s.Equal(res.FormNumber, updated.FormNumber)
	s.Equal([]string{"hoarding"}, updated.Sources)
	s.Nil(updated.Referral)

	edit.Configuration = "penthouse"
	_, err = s.service.Update(s.ctx, res.LeadID, &models.UpdateRequest{LeadInput: edit})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.service.Update(s.ctx, id.NewLeadID(), &models.UpdateRequest{LeadInput: validInput()})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *LeadServiceSuite) TestGetByFormNumber() {
	res := s.submit("ORN")
	l, err := s.service.GetByFormNumber(s.ctx, " "+res.FormNumber+" ")
	s.Require().NoError(err)
	s.Equal(res.LeadID, l.ID)

	_, err = s.service.GetByFormNumber(s.ctx, "ORN-00000")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *LeadServiceSuite) TestListFiltersAndAnnotates() {
	first := s.submit("ORN")
	s.ctx = requestcontext.WithTime(s.ctx, s.now.Add(48*time.Hour))
	second := s.submit("STAR")
	s.assessed[first.LeadID] = true
	s.booked[second.LeadID] = true

	all, err := s.service.List(s.ctx, models.ListFilter{})
	s.Require().NoError(err)
	s.Require().Equal(2, all.Total)
	s.Equal(second.LeadID, all.Items[0].ID, "newest first")
	s.Equal("Spenta Stardeous", all.Items[0].ProjectName)
	s.True(all.Items[0].BookingCompleted)
	s.True(all.Items[1].AssessmentCompleted)

	pending, err := s.service.List(s.ctx, models.ListFilter{Assessment: "pending"})
	s.Require().NoError(err)
	s.Require().Equal(1, pending.Total)
	s.Equal(second.LeadID, pending.Items[0].ID)

	byProject, err := s.service.List(s.ctx, models.ListFilter{Project: "orn"})
	s.Require().NoError(err)
	s.Require().Equal(1, byProject.Total)
	s.Equal(first.LeadID, byProject.Items[0].ID)

	byDate, err := s.service.List(s.ctx, models.ListFilter{DateFrom: id.NewDate(s.now), DateTo: id.NewDate(s.now)})
	s.Require().NoError(err)
	s.Require().Equal(1, byDate.Total)
	s.Equal(first.LeadID, byDate.Items[0].ID)

	search, err := s.service.List(s.ctx, models.ListFilter{Search: strings.ToLower(first.FormNumber)})
	s.Require().NoError(err)
	s.Equal(1, search.Total)

	paged, err := s.service.List(s.ctx, models.ListFilter{Limit: 1, Offset: 1})
	s.Require().NoError(err)
	s.Equal(2, paged.Total)
	s.Require().Len(paged.Items, 1)
	s.Equal(first.LeadID, paged.Items[0].ID)

	_, err = s.service.List(s.ctx, models.ListFilter{Booking: "done"})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

// slowStore charges every uniqueness check one simulated round trip.
type slowStore struct {
	*store.InMemoryStore
	delay time.Duration
}

func (s *slowStore) FormNumberExists(ctx context.Context, formNumber string) (bool, error) {
	time.Sleep(s.delay)
	return s.InMemoryStore.FormNumberExists(ctx, formNumber)
}

// seedLegacy stores a lead with a pre-canonical form number directly.
func (s *LeadServiceSuite) seedLegacy(formNumber string, created time.Time) id.LeadID {
	in := validInput()
	l := &models.Lead{ID: id.NewLeadID(), FormNumber: formNumber, CreatedAt: created}
	in.Apply(l, created)
	s.Require().NoError(s.store.Create(s.ctx, l))
	return l.ID
}

func (s *LeadServiceSuite) TestMigrateFormNumbers() {
	canonical := s.submit("ORN")
	legacyStar := s.seedLegacy("Star-48213", s.now.Add(-3*time.Hour))
	legacyOrn := s.seedLegacy("orn12", s.now.Add(-2*time.Hour))
	orphan := s.seedLegacy("ZZ-1", s.now.Add(-time.Hour))

	dry, err := s.service.MigrateFormNumbers(s.ctx, true)
	s.Require().NoError(err)
	s.True(dry.DryRun)
	s.Equal(2, dry.Updated)
	s.Equal(2, dry.Skipped)
	s.Require().Len(dry.Changes, 2)
	s.Equal(legacyStar, dry.Changes[0].LeadID)
	s.Regexp(`^STAR-\d{5}$`, dry.Changes[0].To)
	s.Regexp(`^ORN-\d{5}$`, dry.Changes[1].To)

	unchanged, err := s.service.Get(s.ctx, legacyStar)
	s.Require().NoError(err)
	s.Equal("Star-48213", unchanged.FormNumber)

	report, err := s.service.MigrateFormNumbers(s.ctx, false)
	s.Require().NoError(err)
	s.Equal(2, report.Updated)

	migrated, err := s.service.Get(s.ctx, legacyOrn)
	s.Require().NoError(err)
	s.True(formnumber.IsCanonical(migrated.FormNumber))
	orn, err := s.projects.ProjectByPrefix(s.ctx, "ORN")
	s.Require().NoError(err)
	s.Equal(orn.ID, migrated.ProjectID)

	left, err := s.service.Get(s.ctx, orphan)
	s.Require().NoError(err)
	s.Equal("ZZ-1", left.FormNumber)

	kept, err := s.service.Get(s.ctx, canonical.LeadID)
	s.Require().NoError(err)
	s.Equal(canonical.FormNumber, kept.FormNumber)

	again, err := s.service.MigrateFormNumbers(s.ctx, false)
	s.Require().NoError(err)
	s.Zero(again.Updated)
	s.Equal(4, again.Skipped)
}

func (s *LeadServiceSuite) TestMigrateFormNumbersOutlivesRunnerDefault() {
	const legacy = 60
	for i := range legacy {
		s.seedLegacy(fmt.Sprintf("orn%d", i), s.now.Add(-time.Duration(i+1)*time.Minute))
	}
	slow := &slowStore{InMemoryStore: s.store, delay: time.Millisecond}
	runner := tx.NewLockRunner(tx.WithDefaultTimeout(20 * time.Millisecond))

	s.Run("migration timeout replaces the runner default", func() {
		svc := New(slow, adapters.NewProjectAdapter(s.projects),
			WithRunner(runner),
			WithMigrationTimeout(time.Minute),
		)
		report, err := svc.MigrateFormNumbers(context.Background(), true)
		s.Require().NoError(err)
		s.Equal(legacy, report.Updated)
	})

	s.Run("an exhausted migration timeout aborts the run", func() {
		svc := New(slow, adapters.NewProjectAdapter(s.projects),
			WithRunner(runner),
			WithMigrationTimeout(5*time.Millisecond),
		)
		report, err := svc.MigrateFormNumbers(context.Background(), true)
		s.Nil(report)
		s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	})
}
