package adapters

import (
	"context"

	"leadcrm/internal/booking/ports"
	leadModels "leadcrm/internal/lead/models"
	id "leadcrm/pkg/domain"
)

// LeadService is the part of the lead service the adapter reads from.
type LeadService interface {
	Get(ctx context.Context, leadID id.LeadID) (*leadModels.Lead, error)
	ProjectName(ctx context.Context, l *leadModels.Lead) (string, error)
}

// LeadAdapter implements ports.LeadPort on top of the lead service.
type LeadAdapter struct {
	leads LeadService
}

func NewLeadAdapter(leads LeadService) ports.LeadPort {
	return &LeadAdapter{leads: leads}
}

func (a *LeadAdapter) Lead(ctx context.Context, leadID id.LeadID) (*ports.Lead, error) {
	l, err := a.leads.Get(ctx, leadID)
	if err != nil {
		return nil, err
	}
	projectName, err := a.leads.ProjectName(ctx, l)
	if err != nil {
		return nil, err
	}
	return &ports.Lead{
		ID:                 l.ID,
		FirstName:          l.FirstName,
		MiddleName:         l.MiddleName,
		LastName:           l.LastName,
		Email:              l.Email,
		Phone:              l.Phone,
		Sex:                l.Sex,
		MaritalStatus:      l.MaritalStatus,
		DateOfBirth:        l.DateOfBirth,
		ResidentialAddress: l.ResidentialAddress,
		City:               l.City,
		Pincode:            l.Pincode,
		Nationality:        l.Nationality,
		EmploymentType:     l.EmploymentType,
		CompanyName:        l.CompanyName,
		Designation:        l.Designation,
		ProjectName:        projectName,
	}, nil
}
