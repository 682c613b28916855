// Package ports declares what the booking context needs from the lead
// context.
package ports

import (
	"context"

	id "leadcrm/pkg/domain"
)

// Lead is the slice of a lead used to prefill and attach bookings.
type Lead struct {
	ID                 id.LeadID
	FirstName          string
	MiddleName         string
	LastName           string
	Email              string
	Phone              string
	Sex                string
	MaritalStatus      string
	DateOfBirth        id.Date
	ResidentialAddress string
	City               string
	Pincode            string
	Nationality        string
	EmploymentType     string
	CompanyName        string
	Designation        string
	ProjectName        string
}

// LeadPort loads leads from the lead context.
type LeadPort interface {
	// Lead returns a CodeNotFound error when the lead is missing.
	Lead(ctx context.Context, leadID id.LeadID) (*Lead, error)
}
