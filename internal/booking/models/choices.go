package models

import id "leadcrm/pkg/domain"

// MaxApplicants bounds the applicant slots on one application.
const MaxApplicants = 4

// DefaultCountry is stamped on applicants that leave the country blank.
const DefaultCountry = "India"

// Employment types on the booking form.
const (
	EmploymentSalaried     = "salaried"
	EmploymentSelfEmployed = "self_employed"
)

// Titles.
const (
	TitleMr  = "Mr"
	TitleMs  = "Ms"
	TitleMrs = "Mrs"
)

var Titles = id.Choices{
	{Value: TitleMr, Label: "Mr."},
	{Value: TitleMs, Label: "Ms."},
	{Value: TitleMrs, Label: "Mrs."},
}

var MaritalStatuses = id.Choices{
	{Value: "married", Label: "Married"},
	{Value: "unmarried", Label: "Unmarried"},
	{Value: "other", Label: "Other"},
}

var Sexes = id.Choices{
	{Value: "male", Label: "Male"},
	{Value: "female", Label: "Female"},
	{Value: "others", Label: "Others"},
}

var ResidentialStatuses = id.Choices{
	{Value: "indian", Label: "Resident Indian"},
	{Value: "nri", Label: "NRI"},
	{Value: "pio", Label: "PIO"},
	{Value: "oci", Label: "OCI"},
}

var EmploymentTypes = id.Choices{
	{Value: EmploymentSalaried, Label: "Salaried"},
	{Value: EmploymentSelfEmployed, Label: "Self Employed"},
}
