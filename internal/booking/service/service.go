// Package service prefills and records booking applications for leads.
package service

import (
	"context"
	"errors"
	"log/slog"

	"leadcrm/internal/booking/models"
	"leadcrm/internal/booking/ports"
	"leadcrm/internal/events"
	id "leadcrm/pkg/domain"
	dErrors "leadcrm/pkg/domain-errors"
	"leadcrm/pkg/platform/sentinel"
	"leadcrm/pkg/requestcontext"
)

// Store is the persistence port for booking applications. Create must
// write the application, applicants and channel partner atomically.
type Store interface {
	Create(ctx context.Context, app *models.Application) error
	FindByID(ctx context.Context, bookingID id.BookingID) (*models.Application, error)
	ListByLead(ctx context.Context, leadID id.LeadID) ([]*models.Application, error)
	LeadsWithBooking(ctx context.Context, leadIDs []id.LeadID) (map[id.LeadID]bool, error)
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

// Prefill drafts a booking form for the lead with the first applicant
// filled in from the enquiry.
func (s *Service) Prefill(ctx context.Context, leadID id.LeadID) (*models.CreateRequest, error) {
	lead, err := s.leads.Lead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	return &models.CreateRequest{
		ProjectName:     lead.ProjectName,
		ApplicationDate: id.NewDate(requestcontext.Now(ctx)),
		Applicants: []models.Applicant{{
			Order:              1,
			Title:              models.GuessTitle(lead.FirstName, lead.Sex, lead.MaritalStatus),
			FirstName:          lead.FirstName,
			MiddleName:         lead.MiddleName,
			LastName:           lead.LastName,
			DateOfBirth:        lead.DateOfBirth,
			MaritalStatus:      models.MaritalStatusFor(lead.MaritalStatus),
			Sex:                models.SexFor(lead.Sex),
			ResidentialStatus:  models.ResidentialStatusFor(lead.Nationality),
			ResidentialAddress: lead.ResidentialAddress,
			City:               lead.City,
			Pin:                lead.Pincode,
			State:              models.StateForCity(lead.City),
			Country:            models.DefaultCountry,
			Mobile:             lead.Phone,
			Email:              lead.Email,
			EmploymentType:     models.EmploymentTypeFor(lead.EmploymentType),
			Profession:         lead.Designation,
			CompanyName:        lead.CompanyName,
		}},
	}, nil
}

// Create validates and stores a booking application for the lead.
func (s *Service) Create(ctx context.Context, leadID id.LeadID, req *models.CreateRequest) (*models.Application, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	lead, err := s.leads.Lead(ctx, leadID)
	if err != nil {
		return nil, err
	}

	app := req.Build(leadID, lead.ProjectName, requestcontext.Now(ctx))
	if err := s.store.Create(ctx, app); err != nil {
		return nil, wrapBookingErr(err)
	}

	primary, _ := app.PrimaryApplicant()
	s.logger.InfoContext(ctx, "booking created",
		"event", events.TypeBookingCreated,
		"log_type", "audit",
		"booking_id", app.ID.String(),
		"lead_id", leadID.String(),
		"project", app.ProjectName,
		"applicants", len(app.Applicants),
		"staff_id", requestcontext.StaffID(ctx).String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	s.emitter.Emit(ctx, events.TypeBookingCreated, leadID.String(), map[string]any{
		"booking_id":        app.ID.String(),
		"lead_id":           leadID.String(),
		"project_name":      app.ProjectName,
		"primary_applicant": primary.FullName(),
		"flat_number":       app.FlatNumber,
	})
	return app, nil
}

// ListForLead returns the lead's applications, newest first.
func (s *Service) ListForLead(ctx context.Context, leadID id.LeadID) ([]*models.Application, error) {
	if _, err := s.leads.Lead(ctx, leadID); err != nil {
		return nil, err
	}
	apps, err := s.store.ListByLead(ctx, leadID)
	if err != nil {
		return nil, wrapBookingErr(err)
	}
	return apps, nil
}

func (s *Service) Get(ctx context.Context, bookingID id.BookingID) (*models.Application, error) {
	app, err := s.store.FindByID(ctx, bookingID)
	if err != nil {
		return nil, wrapBookingErr(err)
	}
	return app, nil
}

// LeadsWithBooking reports which of leadIDs have at least one booking.
func (s *Service) LeadsWithBooking(ctx context.Context, leadIDs []id.LeadID) (map[id.LeadID]bool, error) {
	return s.store.LeadsWithBooking(ctx, leadIDs)
}

func wrapBookingErr(err error) error {
	if _, ok := dErrors.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "booking not found")
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.New(dErrors.CodeConflict, "booking conflicts with an existing record")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "booking store failure")
}
