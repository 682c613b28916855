package models

import (
	"fmt"
	"slices"
	"time"

	id "leadcrm/pkg/domain"
)

// Lead is a prospective buyer's enquiry. FormNumber is unique and, once
// canonical, has the form PREFIX-NNNNN where PREFIX names the project.
type Lead struct {
	ID                 id.LeadID       `json:"id"`
	ProjectID          id.ProjectID    `json:"project_id"`
	FormNumber         string          `json:"form_number"`
	FormDate           id.Date         `json:"form_date"`
	FirstName          string          `json:"first_name"`
	MiddleName         string          `json:"middle_name"`
	LastName           string          `json:"last_name"`
	Email              string          `json:"email"`
	Phone              string          `json:"phone"`
	Sex                string          `json:"sex"`
	MaritalStatus      string          `json:"marital_status"`
	DateOfBirth        id.Date         `json:"date_of_birth"`
	ResidentialAddress string          `json:"residential_address"`
	City               string          `json:"city"`
	Locality           string          `json:"locality"`
	Pincode            string          `json:"pincode"`
	Nationality        string          `json:"nationality"`
	EmploymentType     string          `json:"employment_type"`
	CompanyName        string          `json:"company_name"`
	Designation        string          `json:"designation"`
	Industry           string          `json:"industry"`
	Configuration      string          `json:"configuration"`
	Budget             string          `json:"budget"`
	ConstructionStatus string          `json:"construction_status"`
	PurposeOfBuying    string          `json:"purpose_of_buying"`
	SourceDetails      string          `json:"source_details"`
	Sources            []string        `json:"sources"`
	ChannelPartner     *ChannelPartner `json:"channel_partner,omitempty"`
	Referral           *Referral       `json:"referral,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// ChannelPartner is the broker who brought the lead in.
type ChannelPartner struct {
	CompanyName string `json:"company_name"`
	PartnerName string `json:"partner_name"`
	Mobile      string `json:"mobile"`
	RERANumber  string `json:"rera_number"`
}

// Referral names the existing customer who referred the lead.
type Referral struct {
	ReferralName string `json:"referral_name"`
	ProjectName  string `json:"project_name"`
}

// FullName joins first, middle (when present) and last name.
func (l *Lead) FullName() string {
	if l.MiddleName != "" {
		return fmt.Sprintf("%s %s %s", l.FirstName, l.MiddleName, l.LastName)
	}
	return fmt.Sprintf("%s %s", l.FirstName, l.LastName)
}

func (l *Lead) CompleteAddress() string {
	return fmt.Sprintf("%s, %s, %s - %s", l.ResidentialAddress, l.Locality, l.City, l.Pincode)
}

// DisplayPhone formats a 10 digit phone as XXX-XXX-XXXX.
func (l *Lead) DisplayPhone() string {
	switch {
	case l.Phone == "":
		return "Not Provided"
	case len(l.Phone) == 10:
		return l.Phone[:3] + "-" + l.Phone[3:6] + "-" + l.Phone[6:]
	default:
		return l.Phone
	}
}

func (l *Lead) HasSource(source string) bool {
	return slices.Contains(l.Sources, source)
}

// Clone deep-copies the lead including its detail records.
func (l *Lead) Clone() *Lead {
	if l == nil {
		return nil
	}
	c := *l
	c.Sources = slices.Clone(l.Sources)
	if l.ChannelPartner != nil {
		cp := *l.ChannelPartner
		c.ChannelPartner = &cp
	}
	if l.Referral != nil {
		r := *l.Referral
		c.Referral = &r
	}
	return &c
}
