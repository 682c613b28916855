package models

import (
	"strings"
	"time"

	id "leadcrm/pkg/domain"
)

// Application is a booking application raised against a lead.
type Application struct {
	ID                      id.BookingID    `json:"id"`
	LeadID                  id.LeadID       `json:"lead_id"`
	ProjectName             string          `json:"project_name"`
	ApplicationDate         id.Date         `json:"application_date"`
	FlatNumber              string          `json:"flat_number"`
	Floor                   string          `json:"floor"`
	RERACarpetArea          id.Decimal      `json:"rera_carpet_area"`
	ExclusiveDeckBalcony    id.Decimal      `json:"exclusive_deck_balcony"`
	CarParkingCount         int             `json:"car_parking_count"`
	TotalPurchasePrice      id.Decimal      `json:"total_purchase_price"`
	TotalPurchasePriceWords string          `json:"total_purchase_price_words"`
	SelfFinanced            bool            `json:"self_financed"`
	HousingLoan             bool            `json:"housing_loan"`
	SourceDirect            bool            `json:"source_direct"`
	SourceDirectSpecify     string          `json:"source_direct_specify"`
	ReferralCustomerName    string          `json:"referral_customer_name"`
	ReferralProject         string          `json:"referral_project"`
	ReferralFlatNo          string          `json:"referral_flat_no"`
	ApplicationMoneyAmount  id.Decimal      `json:"application_money_amount"`
	ApplicationMoneyWords   string          `json:"application_money_words"`
	GSTAmount               id.Decimal      `json:"gst_amount"`
	GSTWords                string          `json:"gst_words"`
	ChequeDDNo              string          `json:"cheque_dd_no"`
	InstrumentDate          id.Date         `json:"instrument_date"`
	DrawnOn                 string          `json:"drawn_on"`
	GSTChequeDDNo           string          `json:"gst_cheque_dd_no"`
	GSTInstrumentDate       id.Date         `json:"gst_instrument_date"`
	GSTDrawnOn              string          `json:"gst_drawn_on"`
	SalesManagerName        string          `json:"sales_manager_name"`
	SourcingManagerName     string          `json:"sourcing_manager_name"`
	Applicants              []Applicant     `json:"applicants"`
	ChannelPartner          *ChannelPartner `json:"channel_partner,omitempty"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`
}

// Applicant is one named purchaser. Order is 1-based and unique within an
// application.
type Applicant struct {
	ID                    id.ApplicantID `json:"id"`
	Order                 int            `json:"applicant_order"`
	Title                 string         `json:"title"`
	FirstName             string         `json:"first_name"`
	MiddleName            string         `json:"middle_name"`
	LastName              string         `json:"last_name"`
	DateOfBirth           id.Date        `json:"date_of_birth"`
	MaritalStatus         string         `json:"marital_status"`
	AnniversaryDate       id.Date        `json:"anniversary_date"`
	Sex                   string         `json:"sex"`
	PANNo                 string         `json:"pan_no"`
	AadharNo              string         `json:"aadhar_no"`
	ResidentialStatus     string         `json:"residential_status"`
	ResidentialAddress    string         `json:"residential_address"`
	City                  string         `json:"city"`
	Pin                   string         `json:"pin"`
	State                 string         `json:"state"`
	Country               string         `json:"country"`
	CorrespondenceAddress string         `json:"correspondence_address"`
	ContactResidence      string         `json:"contact_residence"`
	ContactOffice         string         `json:"contact_office"`
	Mobile                string         `json:"mobile"`
	Email                 string         `json:"email"`
	EmploymentType        string         `json:"employment_type"`
	Profession            string         `json:"profession"`
	CompanyName           string         `json:"company_name"`
}

// FullName joins the non-blank name parts.
func (a Applicant) FullName() string {
	return strings.Join(strings.Fields(a.FirstName+" "+a.MiddleName+" "+a.LastName), " ")
}

// ChannelPartner is the broker credited with a booking.
type ChannelPartner struct {
	Name                 string `json:"name"`
	MahaRERARegistration string `json:"maharera_registration"`
	Mobile               string `json:"mobile"`
	Email                string `json:"email"`
}

// PrimaryApplicant returns the applicant with the lowest order.
func (a *Application) PrimaryApplicant() (Applicant, bool) {
	if len(a.Applicants) == 0 {
		return Applicant{}, false
	}
	primary := a.Applicants[0]
	for _, ap := range a.Applicants[1:] {
		if ap.Order < primary.Order {
			primary = ap
		}
	}
	return primary, true
}

func (a *Application) Clone() *Application {
	if a == nil {
		return nil
	}
	c := *a
	c.Applicants = append([]Applicant(nil), a.Applicants...)
	if a.ChannelPartner != nil {
		cp := *a.ChannelPartner
		c.ChannelPartner = &cp
	}
	return &c
}
