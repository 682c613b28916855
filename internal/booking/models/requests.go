package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	id "leadcrm/pkg/domain"
	dErrors "leadcrm/pkg/domain-errors"
	str "leadcrm/pkg/platform/strings"
)

const panPattern = `^[A-Z]{5}[0-9]{4}[A-Z]$`

// CreateRequest is the booking form. Applicant IDs in the body are ignored.
type CreateRequest struct {
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
}

// Normalize trims input, drops applicant slots with neither a first nor a
// last name, numbers unnumbered applicants by position and drops an empty
// channel partner.
func (r *CreateRequest) Normalize() {
	r.ProjectName = str.CollapseSpace(r.ProjectName)
	r.FlatNumber = strings.TrimSpace(r.FlatNumber)
	r.Floor = strings.TrimSpace(r.Floor)
	r.TotalPurchasePriceWords = strings.TrimSpace(r.TotalPurchasePriceWords)
	r.SourceDirectSpecify = strings.TrimSpace(r.SourceDirectSpecify)
	r.ReferralCustomerName = str.CollapseSpace(r.ReferralCustomerName)
	r.ReferralProject = str.CollapseSpace(r.ReferralProject)
	r.ReferralFlatNo = strings.TrimSpace(r.ReferralFlatNo)
	r.ApplicationMoneyWords = strings.TrimSpace(r.ApplicationMoneyWords)
	r.GSTWords = strings.TrimSpace(r.GSTWords)
	r.ChequeDDNo = strings.TrimSpace(r.ChequeDDNo)
	r.DrawnOn = strings.TrimSpace(r.DrawnOn)
	r.GSTChequeDDNo = strings.TrimSpace(r.GSTChequeDDNo)
	r.GSTDrawnOn = strings.TrimSpace(r.GSTDrawnOn)
	r.SalesManagerName = str.CollapseSpace(r.SalesManagerName)
	r.SourcingManagerName = str.CollapseSpace(r.SourcingManagerName)

	kept := make([]Applicant, 0, len(r.Applicants))
	for _, a := range r.Applicants {
		normalizeApplicant(&a)
		if a.FirstName == "" && a.LastName == "" {
			continue
		}
		if a.Order == 0 {
			a.Order = len(kept) + 1
		}
		kept = append(kept, a)
	}
	r.Applicants = kept

	if cp := r.ChannelPartner; cp != nil {
		cp.Name = str.CollapseSpace(cp.Name)
		cp.MahaRERARegistration = strings.ToUpper(strings.TrimSpace(cp.MahaRERARegistration))
		cp.Mobile = str.StripSpaces(cp.Mobile)
		cp.Email = strings.ToLower(strings.TrimSpace(cp.Email))
		if cp.Name == "" && cp.MahaRERARegistration == "" && cp.Mobile == "" && cp.Email == "" {
			r.ChannelPartner = nil
		}
	}
}

func normalizeApplicant(a *Applicant) {
	a.Title = normalizeTitle(a.Title)
	a.FirstName = str.CollapseSpace(a.FirstName)
	a.MiddleName = str.CollapseSpace(a.MiddleName)
	a.LastName = str.CollapseSpace(a.LastName)
	a.MaritalStatus = id.Normalize(a.MaritalStatus)
	a.Sex = id.Normalize(a.Sex)
	a.PANNo = strings.ToUpper(str.StripSpaces(a.PANNo))
	a.AadharNo = str.StripSpaces(a.AadharNo)
	a.ResidentialStatus = id.Normalize(a.ResidentialStatus)
	a.ResidentialAddress = strings.TrimSpace(a.ResidentialAddress)
	a.City = str.CollapseSpace(a.City)
	a.Pin = str.StripSpaces(a.Pin)
	a.State = str.CollapseSpace(a.State)
	a.Country = str.CollapseSpace(a.Country)
	if a.Country == "" {
		a.Country = DefaultCountry
	}
	a.CorrespondenceAddress = strings.TrimSpace(a.CorrespondenceAddress)
	a.ContactResidence = strings.TrimSpace(a.ContactResidence)
	a.ContactOffice = strings.TrimSpace(a.ContactOffice)
	a.Mobile = str.StripSpaces(a.Mobile)
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	a.EmploymentType = id.Normalize(a.EmploymentType)
	a.Profession = str.CollapseSpace(a.Profession)
	a.CompanyName = str.CollapseSpace(a.CompanyName)
}

// normalizeTitle maps "mr", "MRS." and the like onto the canonical titles.
// Unknown titles are kept so validation can reject them.
func normalizeTitle(t string) string {
	t = strings.TrimSuffix(strings.TrimSpace(t), ".")
	for _, c := range Titles {
		if strings.EqualFold(t, c.Value) {
			return c.Value
		}
	}
	return t
}

func (r *CreateRequest) Validate() error {
	switch {
	case len(r.Applicants) == 0:
		return dErrors.NewValidation("at least one applicant with a first or last name is required", "applicants")
	case len(r.Applicants) > MaxApplicants:
		return dErrors.NewValidation(fmt.Sprintf("at most %d applicants are allowed", MaxApplicants), "applicants")
	}

	seen := make(map[int]bool, len(r.Applicants))
	for i := range r.Applicants {
		a := &r.Applicants[i]
		if a.Order < 1 || a.Order > MaxApplicants {
			return dErrors.NewValidation(fmt.Sprintf("applicant order must be between 1 and %d", MaxApplicants), applicantField(i, "applicant_order"))
		}
		if seen[a.Order] {
			return dErrors.NewValidation(fmt.Sprintf("applicant order %d is used twice", a.Order), applicantField(i, "applicant_order"))
		}
		seen[a.Order] = true
		if err := validateApplicant(i, a); err != nil {
			return err
		}
	}

	if r.CarParkingCount < 0 {
		return dErrors.NewValidation("car parking count cannot be negative", "car_parking_count")
	}
	for _, m := range []struct {
		field string
		value id.Decimal
	}{
		{"rera_carpet_area", r.RERACarpetArea},
		{"exclusive_deck_balcony", r.ExclusiveDeckBalcony},
		{"total_purchase_price", r.TotalPurchasePrice},
		{"application_money_amount", r.ApplicationMoneyAmount},
		{"gst_amount", r.GSTAmount},
	} {
		if _, err := id.ParseDecimal(m.value.String()); err != nil {
			return dErrors.NewValidation(fmt.Sprintf("invalid %s %q", m.field, m.value), m.field)
		}
	}

	if cp := r.ChannelPartner; cp != nil {
		if cp.Mobile != "" && !str.IsDigitsLen(cp.Mobile, 10) {
			return dErrors.NewValidation("channel partner mobile must be 10 digits", "channel_partner.mobile")
		}
		if cp.Email != "" && !govalidator.IsEmail(cp.Email) {
			return dErrors.NewValidation("invalid channel partner email", "channel_partner.email")
		}
	}
	return nil
}

func applicantField(i int, name string) string {
	return fmt.Sprintf("applicants[%d].%s", i, name)
}

func validateApplicant(i int, a *Applicant) error {
	for _, c := range []struct {
		field   string
		value   string
		choices id.Choices
	}{
		{"title", a.Title, Titles},
		{"marital_status", a.MaritalStatus, MaritalStatuses},
		{"sex", a.Sex, Sexes},
		{"residential_status", a.ResidentialStatus, ResidentialStatuses},
		{"employment_type", a.EmploymentType, EmploymentTypes},
	} {
		if c.value != "" && !c.choices.Valid(c.value) {
			return dErrors.NewValidation(fmt.Sprintf("invalid %s %q", c.field, c.value), applicantField(i, c.field))
		}
	}
	if a.PANNo != "" && !govalidator.Matches(a.PANNo, panPattern) {
		return dErrors.NewValidation("PAN must look like AAAAA9999A", applicantField(i, "pan_no"))
	}
	if a.AadharNo != "" && !str.IsDigitsLen(a.AadharNo, 12) {
		return dErrors.NewValidation("Aadhaar number must be 12 digits", applicantField(i, "aadhar_no"))
	}
	if a.Mobile != "" && !str.IsDigitsLen(a.Mobile, 10) {
		return dErrors.NewValidation("mobile number must be 10 digits", applicantField(i, "mobile"))
	}
	if a.Email != "" && !govalidator.IsEmail(a.Email) {
		return dErrors.NewValidation("invalid email address", applicantField(i, "email"))
	}
	return nil
}

// Build turns the request into an application for leadID. A blank project
// name falls back to defaultProject and a blank application date to today.
func (r *CreateRequest) Build(leadID id.LeadID, defaultProject string, now time.Time) *Application {
	app := &Application{
		ID:                      id.NewBookingID(),
		LeadID:                  leadID,
		ProjectName:             r.ProjectName,
		ApplicationDate:         r.ApplicationDate,
		FlatNumber:              r.FlatNumber,
		Floor:                   r.Floor,
		RERACarpetArea:          r.RERACarpetArea,
		ExclusiveDeckBalcony:    r.ExclusiveDeckBalcony,
		CarParkingCount:         r.CarParkingCount,
		TotalPurchasePrice:      r.TotalPurchasePrice,
		TotalPurchasePriceWords: r.TotalPurchasePriceWords,
		SelfFinanced:            r.SelfFinanced,
		HousingLoan:             r.HousingLoan,
		SourceDirect:            r.SourceDirect,
		SourceDirectSpecify:     r.SourceDirectSpecify,
		ReferralCustomerName:    r.ReferralCustomerName,
		ReferralProject:         r.ReferralProject,
		ReferralFlatNo:          r.ReferralFlatNo,
		ApplicationMoneyAmount:  r.ApplicationMoneyAmount,
		ApplicationMoneyWords:   r.ApplicationMoneyWords,
		GSTAmount:               r.GSTAmount,
		GSTWords:                r.GSTWords,
		ChequeDDNo:              r.ChequeDDNo,
		InstrumentDate:          r.InstrumentDate,
		DrawnOn:                 r.DrawnOn,
		GSTChequeDDNo:           r.GSTChequeDDNo,
		GSTInstrumentDate:       r.GSTInstrumentDate,
		GSTDrawnOn:              r.GSTDrawnOn,
		SalesManagerName:        r.SalesManagerName,
		SourcingManagerName:     r.SourcingManagerName,
		Applicants:              make([]Applicant, len(r.Applicants)),
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if app.ProjectName == "" {
		app.ProjectName = defaultProject
	}
	if app.ApplicationDate.IsZero() {
		app.ApplicationDate = id.NewDate(now)
	}
	for i, a := range r.Applicants {
		a.ID = id.NewApplicantID()
		app.Applicants[i] = a
	}
	if r.ChannelPartner != nil {
		cp := *r.ChannelPartner
		app.ChannelPartner = &cp
	}
	return app
}
