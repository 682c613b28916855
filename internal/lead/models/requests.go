package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	id "leadcrm/pkg/domain"
	dErrors "leadcrm/pkg/domain-errors"
	str "leadcrm/pkg/platform/strings"
)

const (
	maxNameLength    = "100"
	maxCompanyLength = "200"
)

// ChannelPartnerInput carries partner details. They are kept only when the
// channel_partner source is selected and every field is filled in.
type ChannelPartnerInput struct {
	CompanyName string `json:"company_name"`
	PartnerName string `json:"partner_name"`
	Mobile      string `json:"mobile"`
	RERANumber  string `json:"rera_number"`
}

func (p *ChannelPartnerInput) complete() bool {
	return p != nil && !str.AnyBlank(p.CompanyName, p.PartnerName, p.Mobile, p.RERANumber)
}

// ReferralInput follows the same rule for the referral source.
type ReferralInput struct {
	ReferralName string `json:"referral_name"`
	ProjectName  string `json:"project_name"`
}

func (r *ReferralInput) complete() bool {
	return r != nil && !str.AnyBlank(r.ReferralName, r.ProjectName)
}

// LeadInput is the editable body of a lead shared by public submission and
// staff edits.
type LeadInput struct {
	FormDate           id.Date              `json:"form_date"`
	FirstName          string               `json:"first_name"`
	MiddleName         string               `json:"middle_name"`
	LastName           string               `json:"last_name"`
	Email              string               `json:"email"`
	Phone              string               `json:"phone"`
	Sex                string               `json:"sex"`
	MaritalStatus      string               `json:"marital_status"`
	DateOfBirth        id.Date              `json:"date_of_birth"`
	ResidentialAddress string               `json:"residential_address"`
	City               string               `json:"city"`
	Locality           string               `json:"locality"`
	Pincode            string               `json:"pincode"`
	Nationality        string               `json:"nationality"`
	EmploymentType     string               `json:"employment_type"`
	CompanyName        string               `json:"company_name"`
	Designation        string               `json:"designation"`
	Industry           string               `json:"industry"`
	Configuration      string               `json:"configuration"`
	Budget             string               `json:"budget"`
	ConstructionStatus string               `json:"construction_status"`
	PurposeOfBuying    string               `json:"purpose_of_buying"`
	SourceDetails      string               `json:"source_details"`
	Sources            []string             `json:"sources"`
	ChannelPartner     *ChannelPartnerInput `json:"channel_partner"`
	Referral           *ReferralInput       `json:"referral"`
}

func (in *LeadInput) Normalize() {
	in.FirstName = str.CollapseSpace(in.FirstName)
	in.MiddleName = str.CollapseSpace(in.MiddleName)
	in.LastName = str.CollapseSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = str.StripSpaces(in.Phone)
	in.Sex = id.Normalize(in.Sex)
	in.MaritalStatus = id.Normalize(in.MaritalStatus)
	in.ResidentialAddress = strings.TrimSpace(in.ResidentialAddress)
	in.City = str.CollapseSpace(in.City)
	in.Locality = str.CollapseSpace(in.Locality)
	in.Pincode = str.StripSpaces(in.Pincode)
	in.Nationality = id.Normalize(in.Nationality)
	in.EmploymentType = id.Normalize(in.EmploymentType)
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.Designation = strings.TrimSpace(in.Designation)
	in.Industry = strings.TrimSpace(in.Industry)
	in.Configuration = id.Normalize(in.Configuration)
	in.Budget = id.Normalize(in.Budget)
	in.ConstructionStatus = id.Normalize(in.ConstructionStatus)
	in.PurposeOfBuying = id.Normalize(in.PurposeOfBuying)
	in.SourceDetails = strings.TrimSpace(in.SourceDetails)
	in.Sources = str.DedupeAndTrimLower(in.Sources)
	if in.ChannelPartner != nil {
		in.ChannelPartner.CompanyName = strings.TrimSpace(in.ChannelPartner.CompanyName)
		in.ChannelPartner.PartnerName = str.CollapseSpace(in.ChannelPartner.PartnerName)
		in.ChannelPartner.Mobile = str.StripSpaces(in.ChannelPartner.Mobile)
		in.ChannelPartner.RERANumber = strings.ToUpper(strings.TrimSpace(in.ChannelPartner.RERANumber))
	}
	if in.Referral != nil {
		in.Referral.ReferralName = str.CollapseSpace(in.Referral.ReferralName)
		in.Referral.ProjectName = strings.TrimSpace(in.Referral.ProjectName)
	}
}

// missingFields lists the required fields left blank, in form order.
func (in *LeadInput) missingFields() []string {
	required := []struct {
		field string
		value string
	}{
		{"first_name", in.FirstName},
		{"last_name", in.LastName},
		{"email", in.Email},
		{"city", in.City},
		{"locality", in.Locality},
		{"pincode", in.Pincode},
		{"nationality", in.Nationality},
		{"employment_type", in.EmploymentType},
		{"configuration", in.Configuration},
		{"budget", in.Budget},
		{"construction_status", in.ConstructionStatus},
		{"purpose_of_buying", in.PurposeOfBuying},
		{"sex", in.Sex},
		{"marital_status", in.MaritalStatus},
	}
	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.field)
		}
	}
	return missing
}

func missingFieldsError(missing []string) error {
	return dErrors.NewValidation("required fields missing: "+strings.Join(missing, ", "), missing...)
}

// Validate reports every missing required field in one error, then checks
// formats and enumerations.
func (in *LeadInput) Validate() error {
	if missing := in.missingFields(); len(missing) > 0 {
		return missingFieldsError(missing)
	}

	for _, f := range []struct {
		field string
		value string
		max   string
	}{
		{"first_name", in.FirstName, maxNameLength},
		{"middle_name", in.MiddleName, maxNameLength},
		{"last_name", in.LastName, maxNameLength},
		{"city", in.City, maxNameLength},
		{"locality", in.Locality, maxNameLength},
		{"company_name", in.CompanyName, maxCompanyLength},
		{"designation", in.Designation, maxNameLength},
		{"industry", in.Industry, maxNameLength},
	} {
		if !govalidator.StringLength(f.value, "0", f.max) {
			return dErrors.NewValidation(fmt.Sprintf("%s must be at most %s characters", f.field, f.max), f.field)
		}
	}

	if !govalidator.IsEmail(in.Email) {
		return dErrors.NewValidation("please enter a valid email address", "email")
	}
	if !str.IsDigitsLen(in.Pincode, 6) {
		return dErrors.NewValidation("please enter a valid 6-digit pincode", "pincode")
	}
	if in.Phone != "" && !str.IsDigitsLen(in.Phone, 10) {
		return dErrors.NewValidation("please enter a valid 10-digit phone number", "phone")
	}

	for _, c := range []struct {
		field   string
		value   string
		choices id.Choices
	}{
		{"sex", in.Sex, Sexes},
		{"marital_status", in.MaritalStatus, MaritalStatuses},
		{"nationality", in.Nationality, Nationalities},
		{"employment_type", in.EmploymentType, EmploymentTypes},
		{"configuration", in.Configuration, Configurations},
		{"budget", in.Budget, Budgets},
		{"construction_status", in.ConstructionStatus, ConstructionStatuses},
		{"purpose_of_buying", in.PurposeOfBuying, Purposes},
	} {
		if !c.choices.Valid(c.value) {
			return dErrors.NewValidation(fmt.Sprintf("please select a valid %s option", strings.ReplaceAll(c.field, "_", " ")), c.field)
		}
	}

	for _, s := range in.Sources {
		if !Sources.Valid(s) {
			return dErrors.NewValidation(fmt.Sprintf("unknown source %q", s), "sources")
		}
	}

	if !in.DateOfBirth.IsZero() && in.DateOfBirth.After(time.Now()) {
		return dErrors.NewValidation("date of birth cannot be in the future", "date_of_birth")
	}

	if in.keepsChannelPartner() && !str.IsDigitsLen(in.ChannelPartner.Mobile, 10) {
		return dErrors.NewValidation("channel partner mobile must be 10 digits", "channel_partner.mobile")
	}
	return nil
}

func (in *LeadInput) keepsChannelPartner() bool {
	return slices.Contains(in.Sources, SourceChannelPartner) && in.ChannelPartner.complete()
}

func (in *LeadInput) keepsReferral() bool {
	return slices.Contains(in.Sources, SourceReferral) && in.Referral.complete()
}

// Apply copies the input onto l, replacing sources and detail records
// wholesale. FormDate defaults to today when unset.
func (in *LeadInput) Apply(l *Lead, now time.Time) {
	l.FormDate = in.FormDate
	if l.FormDate.IsZero() {
		l.FormDate = id.NewDate(now)
	}
	l.FirstName = in.FirstName
	l.MiddleName = in.MiddleName
	l.LastName = in.LastName
	l.Email = in.Email
	l.Phone = in.Phone
	l.Sex = in.Sex
	l.MaritalStatus = in.MaritalStatus
	l.DateOfBirth = in.DateOfBirth
	l.ResidentialAddress = in.ResidentialAddress
	l.City = in.City
	l.Locality = in.Locality
	l.Pincode = in.Pincode
	l.Nationality = in.Nationality
	l.EmploymentType = in.EmploymentType
	l.CompanyName = in.CompanyName
	l.Designation = in.Designation
	l.Industry = in.Industry
	l.Configuration = in.Configuration
	l.Budget = in.Budget
	l.ConstructionStatus = in.ConstructionStatus
	l.PurposeOfBuying = in.PurposeOfBuying
	l.SourceDetails = in.SourceDetails
	l.Sources = append([]string{}, in.Sources...)

	l.ChannelPartner = nil
	if in.keepsChannelPartner() {
		l.ChannelPartner = &ChannelPartner{
			CompanyName: in.ChannelPartner.CompanyName,
			PartnerName: in.ChannelPartner.PartnerName,
			Mobile:      in.ChannelPartner.Mobile,
			RERANumber:  in.ChannelPartner.RERANumber,
		}
	}
	l.Referral = nil
	if in.keepsReferral() {
		l.Referral = &Referral{
			ReferralName: in.Referral.ReferralName,
			ProjectName:  in.Referral.ProjectName,
		}
	}
	l.UpdatedAt = now
}

// SubmitRequest is the public enquiry form body.
type SubmitRequest struct {
	ProjectCode string `json:"project_code"`
	LeadInput
}

func (r *SubmitRequest) Normalize() {
	r.ProjectCode = strings.ToUpper(strings.TrimSpace(r.ProjectCode))
	r.LeadInput.Normalize()
}

// Validate reports a blank project_code together with the other missing
// fields before checking formats.
func (r *SubmitRequest) Validate() error {
	missing := r.LeadInput.missingFields()
	if r.ProjectCode == "" {
		missing = append([]string{"project_code"}, missing...)
	}
	if len(missing) > 0 {
		return missingFieldsError(missing)
	}
	return r.LeadInput.Validate()
}

// SubmitResult is returned to the enquiry form.
type SubmitResult struct {
	LeadID      id.LeadID `json:"lead_id"`
	FormNumber  string    `json:"form_number"`
	ProjectName string    `json:"project_name"`
	FullName    string    `json:"customer_name"`
}

// UpdateRequest is a staff edit. Form number and project never change here.
type UpdateRequest struct {
	LeadInput
}
