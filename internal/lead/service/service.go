// Package service implements lead capture, staff edits, the staff lead list
// and the legacy form-number migration.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"leadcrm/internal/events"
	"leadcrm/internal/formnumber"
	"leadcrm/internal/lead/metrics"
	"leadcrm/internal/lead/models"
	"leadcrm/internal/lead/ports"
	id "leadcrm/pkg/domain"
	dErrors "leadcrm/pkg/domain-errors"
	"leadcrm/pkg/platform/sentinel"
	"leadcrm/pkg/platform/tx"
	"leadcrm/pkg/requestcontext"
)

// UnknownProjectName labels list rows whose prefix no active project owns.
const UnknownProjectName = "Unknown Project"

// DefaultMigrationTimeout bounds a form number migration whose context has
// no deadline.
const DefaultMigrationTimeout = 30 * time.Minute

// Store is the persistence port for leads.
type Store interface {
	Create(ctx context.Context, l *models.Lead) error
	FindByID(ctx context.Context, leadID id.LeadID) (*models.Lead, error)
	FindByFormNumber(ctx context.Context, formNumber string) (*models.Lead, error)
	FormNumberExists(ctx context.Context, formNumber string) (bool, error)
	Execute(ctx context.Context, leadID id.LeadID, validate func(*models.Lead) error, mutate func(*models.Lead)) (*models.Lead, error)
	UpdateFormNumber(ctx context.Context, leadID id.LeadID, projectID id.ProjectID, formNumber string) error
	List(ctx context.Context, filter models.ListFilter) ([]*models.Lead, error)
}

// Service orchestrates the lead lifecycle.
type Service struct {
	store       Store
	projects    ports.ProjectPort
	assessments ports.StatusPort
	bookings    ports.StatusPort
	runner      tx.Runner
	generator   *formnumber.Generator
	metrics     *metrics.Metrics
	logger      *slog.Logger
	publisher   events.Publisher
	emitter     *events.Emitter

	migrationTimeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithGenerator(g *formnumber.Generator) Option {
	return func(s *Service) {
		if g != nil {
			s.generator = g
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithRunner sets the unit-of-work runner used by the migration.
func WithRunner(r tx.Runner) Option {
	return func(s *Service) {
		if r != nil {
			s.runner = r
		}
	}
}

// WithMigrationTimeout bounds MigrateFormNumbers when the caller sets no
// deadline.
func WithMigrationTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.migrationTimeout = d
		}
	}
}

// WithStatusPorts wires the assessment and booking lookups used by List.
func WithStatusPorts(assessments, bookings ports.StatusPort) Option {
	return func(s *Service) {
		s.assessments = assessments
		s.bookings = bookings
	}
}

func New(store Store, projects ports.ProjectPort, opts ...Option) *Service {
	s := &Service{
		store:     store,
		projects:  projects,
		runner:    tx.NewLockRunner(),
		generator: formnumber.NewGenerator(),
		logger:    slog.New(slog.DiscardHandler),

		migrationTimeout: DefaultMigrationTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.emitter = events.NewEmitter(s.publisher, s.logger)
	return s
}

// Submit accepts a public enquiry, numbers it under the project's prefix and
// stores it.
func (s *Service) Submit(ctx context.Context, req *models.SubmitRequest) (*models.SubmitResult, error) {
	start := time.Now()
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	project, err := s.projects.ActiveByPrefix(ctx, req.ProjectCode)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) || dErrors.HasCode(err, dErrors.CodeValidation) {
			return nil, dErrors.NewValidation(fmt.Sprintf("unknown property %q", req.ProjectCode), "project_code")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve project")
	}

	now := requestcontext.Now(ctx)
	lead := &models.Lead{
		ID:        id.NewLeadID(),
		ProjectID: project.ID,
		CreatedAt: now,
	}
	req.Apply(lead, now)

	formNumber, err := s.generator.Claim(ctx, project.Prefix, s.store.FormNumberExists, func(ctx context.Context, candidate string) error {
		lead.FormNumber = candidate
		return s.store.Create(ctx, lead)
	})
	if err != nil {
		if _, ok := dErrors.As(err); ok {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store enquiry")
	}

	s.metrics.IncSubmitted(project.Prefix)
	s.metrics.ObserveSubmission(time.Since(start).Seconds())
	s.logger.InfoContext(ctx, "lead submitted",
		"event", events.TypeLeadSubmitted,
		"log_type", "audit",
		"lead_id", lead.ID.String(),
		"form_number", formNumber,
		"project", project.Prefix,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.emitter.Emit(ctx, events.TypeLeadSubmitted, lead.ID.String(), lead)

	return &models.SubmitResult{
		LeadID:      lead.ID,
		FormNumber:  formNumber,
		ProjectName: project.Name,
		FullName:    lead.FullName(),
	}, nil
}

func (s *Service) Get(ctx context.Context, leadID id.LeadID) (*models.Lead, error) {
	l, err := s.store.FindByID(ctx, leadID)
	if err != nil {
		return nil, wrapLeadErr(err)
	}
	return l, nil
}

func (s *Service) GetByFormNumber(ctx context.Context, formNumber string) (*models.Lead, error) {
	formNumber = strings.TrimSpace(formNumber)
	if formNumber == "" {
		return nil, dErrors.NewValidation("form number is required", "form_number")
	}
	l, err := s.store.FindByFormNumber(ctx, formNumber)
	if err != nil {
		return nil, wrapLeadErr(err)
	}
	return l, nil
}

// Update replaces the editable fields of a lead, including its sources and
// detail records. Form number and project are unchanged.
func (s *Service) Update(ctx context.Context, leadID id.LeadID, req *models.UpdateRequest) (*models.Lead, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	l, err := s.store.Execute(ctx, leadID,
		func(*models.Lead) error { return nil },
		func(l *models.Lead) { req.Apply(l, now) },
	)
	if err != nil {
		return nil, wrapLeadErr(err)
	}

	s.metrics.IncUpdated()
	s.logger.InfoContext(ctx, "lead updated",
		"event", events.TypeLeadUpdated,
		"log_type", "audit",
		"lead_id", l.ID.String(),
		"staff_id", requestcontext.StaffID(ctx).String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	s.emitter.Emit(ctx, events.TypeLeadUpdated, l.ID.String(), l)
	return l, nil
}

// List returns a page of leads, newest first, annotated with project name
// and assessment and booking status.
func (s *Service) List(ctx context.Context, filter models.ListFilter) (*models.ListResult, error) {
	filter.Normalize()
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	leads, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list leads")
	}
	resolver, err := s.resolver(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]id.LeadID, len(leads))
	for i, l := range leads {
		ids[i] = l.ID
	}
	assessed, err := completed(ctx, s.assessments, ids)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load assessment status")
	}
	booked, err := completed(ctx, s.bookings, ids)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load booking status")
	}

	matched := make([]models.ListItem, 0, len(leads))
	for _, l := range leads {
		if !filter.Matches(assessed[l.ID], booked[l.ID]) {
			continue
		}
		name := UnknownProjectName
		if p, ok := resolver.Resolve(l.FormNumber); ok {
			name = p.Name
		}
		matched = append(matched, models.ListItem{
			Lead:                l,
			ProjectName:         name,
			AssessmentCompleted: assessed[l.ID],
			BookingCompleted:    booked[l.ID],
		})
	}

	result := &models.ListResult{Total: len(matched), Items: []models.ListItem{}}
	if filter.Offset < len(matched) {
		end := min(filter.Offset+filter.Limit, len(matched))
		result.Items = matched[filter.Offset:end]
	}
	return result, nil
}

// ProjectName resolves the active project that owns the lead's form number.
func (s *Service) ProjectName(ctx context.Context, l *models.Lead) (string, error) {
	resolver, err := s.resolver(ctx)
	if err != nil {
		return "", err
	}
	if p, ok := resolver.Resolve(l.FormNumber); ok {
		return p.Name, nil
	}
	return UnknownProjectName, nil
}

func (s *Service) resolver(ctx context.Context) (*formnumber.Resolver[ports.Project], error) {
	active, err := s.projects.ActiveProjects(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load projects")
	}
	return formnumber.NewResolver(active, func(p ports.Project) string { return p.Prefix }), nil
}

func completed(ctx context.Context, port ports.StatusPort, ids []id.LeadID) (map[id.LeadID]bool, error) {
	if port == nil || len(ids) == 0 {
		return map[id.LeadID]bool{}, nil
	}
	return port.Completed(ctx, ids)
}

func wrapLeadErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "lead not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "lead store failure")
}
