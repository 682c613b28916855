// Package service manages the sales assessment attached to a lead.
package service

import (
	"context"
	"errors"
	"log/slog"

	"leadcrm/internal/assessment/models"
	"leadcrm/internal/assessment/ports"
	"leadcrm/internal/events"
	id "leadcrm/pkg/domain"
	dErrors "leadcrm/pkg/domain-errors"
	"leadcrm/pkg/platform/sentinel"
	"leadcrm/pkg/requestcontext"
)

// Store is the persistence port for assessments.
type Store interface {
	FindByLead(ctx context.Context, leadID id.LeadID) (*models.Assessment, error)
	Save(ctx context.Context, a *models.Assessment) (created bool, err error)
	LeadsWithAssessment(ctx context.Context, leadIDs []id.LeadID) (map[id.LeadID]bool, error)
}

type Service struct {
	store     Store
	leads     ports.LeadPort
	logger    *slog.Logger
	publisher events.Publisher
	emitter   *events.Emitter
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func New(store Store, leads ports.LeadPort, opts ...Option) *Service {
	s := &Service{
		store:  store,
		leads:  leads,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.emitter = events.NewEmitter(s.publisher, s.logger)
	return s
}

// Get returns the lead's assessment or a CodeNotFound error.
func (s *Service) Get(ctx context.Context, leadID id.LeadID) (*models.Assessment, error) {
	a, err := s.store.FindByLead(ctx, leadID)
	if err != nil {
		return nil, wrapAssessmentErr(err)
	}
	return a, nil
}

// Save creates or replaces the lead's single assessment. The bool reports
// whether a new record was created.
func (s *Service) Save(ctx context.Context, leadID id.LeadID, req *models.SaveRequest) (*models.Assessment, bool, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, false, err
	}
	if err := s.leads.LeadExists(ctx, leadID); err != nil {
		return nil, false, err
	}

	now := requestcontext.Now(ctx)
	a := &models.Assessment{
		ID:        id.NewAssessmentID(),
		LeadID:    leadID,
		CreatedAt: now,
	}
	req.Apply(a, now)

	created, err := s.store.Save(ctx, a)
	if err != nil {
		return nil, false, wrapAssessmentErr(err)
	}

	s.logger.InfoContext(ctx, "assessment saved",
		"log_type", "audit",
		"lead_id", leadID.String(),
		"assessment_id", a.ID.String(),
		"created", created,
		"classification", a.LeadClassification,
		"staff_id", requestcontext.StaffID(ctx).String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	if a.LeadClassification != "" {
		s.emitter.Emit(ctx, events.TypeLeadClassified, leadID.String(), map[string]string{
			"lead_id":         leadID.String(),
			"classification":  a.LeadClassification,
			"reason_for_lost": a.ReasonForLost,
		})
	}
	return a, created, nil
}

// LeadsWithAssessment reports which of leadIDs have an assessment.
func (s *Service) LeadsWithAssessment(ctx context.Context, leadIDs []id.LeadID) (map[id.LeadID]bool, error) {
	return s.store.LeadsWithAssessment(ctx, leadIDs)
}

func wrapAssessmentErr(err error) error {
	if _, ok := dErrors.As(err); ok {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "assessment not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "assessment store failure")
}
