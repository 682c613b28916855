package models

import id "leadcrm/pkg/domain"

// Source values that carry extra detail records.
const (
	SourceChannelPartner = "channel_partner"
	SourceReferral       = "referral"
)

var Sexes = id.Choices{
	{Value: "male", Label: "Male"},
	{Value: "female", Label: "Female"},
	{Value: "other", Label: "Other"},
}

var MaritalStatuses = id.Choices{
	{Value: "single", Label: "Single"},
	{Value: "married", Label: "Married"},
	{Value: "divorced", Label: "Divorced"},
	{Value: "widowed", Label: "Widowed"},
	{Value: "other", Label: "Other"},
}

var Nationalities = id.Choices{
	{Value: "indian", Label: "Indian"},
	{Value: "nri", Label: "NRI"},
	{Value: "pio", Label: "PIO"},
	{Value: "oci", Label: "OCI"},
}

var EmploymentTypes = id.Choices{
	{Value: "salaried", Label: "Salaried"},
	{Value: "business", Label: "Business"},
	{Value: "professional", Label: "Professional"},
	{Value: "retired", Label: "Retired"},
	{Value: "homemaker", Label: "Homemaker"},
	{Value: "other", Label: "Other"},
}

var Configurations = id.Choices{
	{Value: "1bhk", Label: "1 BHK"},
	{Value: "1.5bhk", Label: "1.5 BHK"},
	{Value: "2bhk", Label: "2 BHK"},
	{Value: "2.5bhk", Label: "2.5 BHK"},
	{Value: "3bhk", Label: "3 BHK"},
	{Value: "3.5bhk", Label: "3.5 BHK"},
	{Value: "4bhk", Label: "4 BHK"},
	{Value: "duplex", Label: "Duplex"},
	{Value: "other_config", Label: "Other"},
}

var Budgets = id.Choices{
	{Value: "less_than_1cr", Label: "Less than 1 Cr."},
	{Value: "1cr_to_2cr", Label: "1 Cr. to 2 Cr."},
	{Value: "2cr_to_4cr", Label: "2 Cr. to 4 Cr."},
	{Value: "4cr_to_6cr", Label: "4 Cr. to 6 Cr."},
	{Value: "more_than_6cr", Label: "More than 6 Cr."},
}

var ConstructionStatuses = id.Choices{
	{Value: "under_construction", Label: "Under Construction (>1 yr)"},
	{Value: "near_completion", Label: "Near Completion (<1 yr)"},
	{Value: "ready_possession", Label: "Ready Possession"},
}

var Purposes = id.Choices{
	{Value: "personal_use", Label: "Personal Use"},
	{Value: "investment", Label: "Investment"},
	{Value: "second_home", Label: "Second Home"},
	{Value: "gift", Label: "Gift"},
}

var Sources = id.Choices{
	{Value: SourceChannelPartner, Label: "Channel Partner"},
	{Value: SourceReferral, Label: "Referral"},
	{Value: "whatsapp", Label: "WhatsApp"},
	{Value: "social_media", Label: "Social Media"},
	{Value: "website", Label: "Website"},
	{Value: "passing_by", Label: "Passing by"},
	{Value: "property_portal", Label: "Property Search Portal"},
	{Value: "hoarding", Label: "Hoarding"},
	{Value: "newspaper_ad", Label: "Newspaper Ad"},
	{Value: "exhibition", Label: "Exhibition"},
}
