// Package service manages the project catalogue and maps form numbers back
// to the project that issued them.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"leadcrm/internal/events"
	"leadcrm/internal/formnumber"
	"leadcrm/internal/project/models"
	id "leadcrm/pkg/domain"
	dErrors "leadcrm/pkg/domain-errors"
	"leadcrm/pkg/platform/sentinel"
	"leadcrm/pkg/requestcontext"
)

// Store is the persistence port for projects.
type Store interface {
	Create(ctx context.Context, p *models.Project) error
	FindByID(ctx context.Context, projectID id.ProjectID) (*models.Project, error)
	FindByPrefix(ctx context.Context, prefix string) (*models.Project, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Project, error)
	FormCodeExists(ctx context.Context, formCode string) (bool, error)
	Execute(ctx context.Context, projectID id.ProjectID, validate func(*models.Project) error, mutate func(*models.Project)) (*models.Project, error)
}

// Service orchestrates the project lifecycle.
type Service struct {
	store     Store
	generator *formnumber.Generator
	logger    *slog.Logger
	publisher events.Publisher
	emitter   *events.Emitter
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

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:     store,
		generator: formnumber.NewGenerator(),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.emitter = events.NewEmitter(s.publisher, s.logger)
	return s
}

// CreateProject registers a project and assigns its read-only form code.
func (s *Service) CreateProject(ctx context.Context, req *models.CreateProjectRequest) (*models.Project, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.store.FindByPrefix(ctx, req.Prefix); err == nil {
		return nil, dErrors.New(dErrors.CodeConflict, fmt.Sprintf("prefix %s is already in use", req.Prefix))
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check prefix")
	}

	now := requestcontext.Now(ctx)
	projectID := id.NewProjectID()
	var created *models.Project
	_, err := s.generator.Claim(ctx, req.Prefix, s.store.FormCodeExists, func(ctx context.Context, code string) error {
		p, err := models.NewProject(projectID, req.Prefix, code, req.Details, now)
		if err != nil {
			return err
		}
		if err := s.store.Create(ctx, p); err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		if errors.Is(err, models.ErrPrefixTaken) {
			return nil, dErrors.New(dErrors.CodeConflict, fmt.Sprintf("prefix %s is already in use", req.Prefix))
		}
		if _, ok := dErrors.As(err); ok {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create project")
	}

	s.logger.InfoContext(ctx, "project created",
		"event", events.TypeProjectCreated,
		"project_id", created.ID.String(),
		"prefix", created.Prefix,
		"form_code", created.FormCode,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.emitter.Emit(ctx, events.TypeProjectCreated, created.ID.String(), created)
	return created, nil
}

// UpdateProject replaces the mutable fields. Prefix and form code are fixed.
func (s *Service) UpdateProject(ctx context.Context, projectID id.ProjectID, req *models.UpdateProjectRequest) (*models.Project, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	p, err := s.store.Execute(ctx, projectID,
		func(*models.Project) error { return nil },
		func(p *models.Project) { p.ApplyDetails(req.Details, now) },
	)
	if err != nil {
		return nil, wrapProjectErr(err)
	}
	return p, nil
}

// DeactivateProject hides a project from the public form and from prefix resolution.
func (s *Service) DeactivateProject(ctx context.Context, projectID id.ProjectID) (*models.Project, error) {
	now := requestcontext.Now(ctx)
	p, err := s.store.Execute(ctx, projectID,
		func(p *models.Project) error {
			if err := p.CanDeactivate(); err != nil {
				return dErrors.New(dErrors.CodeConflict, "project is already inactive")
			}
			return nil
		},
		func(p *models.Project) { p.ApplyDeactivation(now) },
	)
	if err != nil {
		return nil, wrapProjectErr(err)
	}
	s.logger.InfoContext(ctx, "project deactivated",
		"project_id", p.ID.String(),
		"prefix", p.Prefix,
		"request_id", requestcontext.RequestID(ctx),
	)
	return p, nil
}

// ReactivateProject returns a project to the active catalogue.
func (s *Service) ReactivateProject(ctx context.Context, projectID id.ProjectID) (*models.Project, error) {
	now := requestcontext.Now(ctx)
	p, err := s.store.Execute(ctx, projectID,
		func(p *models.Project) error {
			if err := p.CanReactivate(); err != nil {
				return dErrors.New(dErrors.CodeConflict, "project is already active")
			}
			return nil
		},
		func(p *models.Project) { p.ApplyReactivation(now) },
	)
	if err != nil {
		return nil, wrapProjectErr(err)
	}
	s.logger.InfoContext(ctx, "project reactivated",
		"project_id", p.ID.String(),
		"prefix", p.Prefix,
		"request_id", requestcontext.RequestID(ctx),
	)
	return p, nil
}

func (s *Service) GetProject(ctx context.Context, projectID id.ProjectID) (*models.Project, error) {
	p, err := s.store.FindByID(ctx, projectID)
	if err != nil {
		return nil, wrapProjectErr(err)
	}
	return p, nil
}

// ListProjects returns projects ordered by name.
func (s *Service) ListProjects(ctx context.Context, activeOnly bool) ([]*models.Project, error) {
	list, err := s.store.List(ctx, activeOnly)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list projects")
	}
	return list, nil
}

// ProjectByPrefix looks up an active project case-insensitively.
func (s *Service) ProjectByPrefix(ctx context.Context, prefix string) (*models.Project, error) {
	prefix = formnumber.NormalizePrefix(prefix)
	if prefix == "" {
		return nil, dErrors.NewValidation("project code is required", "project_code")
	}
	p, err := s.store.FindByPrefix(ctx, prefix)
	if err != nil {
		return nil, wrapProjectErr(err)
	}
	if !p.Active {
		return nil, dErrors.New(dErrors.CodeNotFound, "project not found")
	}
	return p, nil
}

// Resolver snapshots the active catalogue for form-number resolution.
func (s *Service) Resolver(ctx context.Context) (*formnumber.Resolver[*models.Project], error) {
	active, err := s.ListProjects(ctx, true)
	if err != nil {
		return nil, err
	}
	return formnumber.NewResolver(active, func(p *models.Project) string { return p.Prefix }), nil
}

// ResolveFormNumber returns the active project that owns formNumber's prefix.
func (s *Service) ResolveFormNumber(ctx context.Context, formNumber string) (*models.Project, error) {
	r, err := s.Resolver(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := r.Resolve(formNumber)
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound,
			fmt.Sprintf("no active project for prefix %s", r.Extract(formNumber)))
	}
	return p, nil
}

// SeedProjects creates every catalogue entry whose prefix is not yet
// registered. Running it twice is a no-op the second time.
func (s *Service) SeedProjects(ctx context.Context, r io.Reader) (*models.SeedReport, error) {
	var cat models.Catalogue
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cat); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid project catalogue")
	}

	report := &models.SeedReport{Created: []string{}, Skipped: []string{}}
	for i := range cat.Projects {
		req := cat.Projects[i]
		req.Normalize()
		_, err := s.CreateProject(ctx, &req)
		switch {
		case err == nil:
			report.Created = append(report.Created, req.Prefix)
		case dErrors.HasCode(err, dErrors.CodeConflict):
			report.Skipped = append(report.Skipped, req.Prefix)
		default:
			return report, fmt.Errorf("seed project %q: %w", req.Prefix, err)
		}
	}
	s.logger.InfoContext(ctx, "project catalogue seeded",
		"created", len(report.Created),
		"skipped", len(report.Skipped),
	)
	return report, nil
}

func wrapProjectErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "project not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "project store failure")
}
