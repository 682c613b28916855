package models

import id "leadcrm/pkg/domain"

// ClassificationLost is the only classification that takes a reason.
const ClassificationLost = "lost"

var CustomerGenders = id.Choices{
	{Value: "male", Label: "Male"},
	{Value: "female", Label: "Female"},
	{Value: "family", Label: "Family"},
}

var Classifications = id.Choices{
	{Value: "hot", Label: "Hot"},
	{Value: "warm", Label: "Warm"},
	{Value: "cold", Label: "Cold"},
	{Value: ClassificationLost, Label: "Lost"},
}

var LostReasons = id.Choices{
	{Value: "construction_issue", Label: "Construction Issue"},
	{Value: "project_issue", Label: "Project Issue"},
	{Value: "developer_history", Label: "Developer History"},
	{Value: "budget_issue", Label: "Budget Issue"},
	{Value: "google_reviews", Label: "Google Reviews"},
	{Value: "not_responding", Label: "Not Responding"},
	{Value: "booked_with_competition", Label: "Booked with competition"},
	{Value: "pricing_issue", Label: "Pricing issue"},
	{Value: "rtmi", Label: "RTMI"},
	{Value: "csop", Label: "CSOP"},
	{Value: "possession_timeline", Label: "Possession Timeline"},
	{Value: "no_reason_given", Label: "No Reason Given"},
	{Value: "casual_buyer", Label: "Casual Buyer"},
	{Value: "postponed_decision", Label: "Postponed The Decision"},
	{Value: "needs_time", Label: "Needs Time"},
	{Value: "wrong_number", Label: "Wrong number"},
	{Value: "inventory_issue", Label: "Inventory issue"},
	{Value: "serial_vdnb", Label: "Serial VDNB"},
	{Value: "view_issue", Label: "View issue"},
	{Value: "plan_dropped", Label: "Plan Dropped"},
	{Value: "configuration_issue", Label: "Configuration Issue"},
	{Value: "not_interested", Label: "Not Interested"},
	{Value: "location_issue", Label: "Location issue"},
	{Value: "vastu_issue", Label: "Vastu Issue"},
	{Value: "looking_for_commercial", Label: "Looking For Commercial"},
	{Value: "channel_partner", Label: "Channel Partner"},
	{Value: "competition", Label: "Competition"},
}

var ResidenceConfigs = id.Choices{
	{Value: "1bhk", Label: "1 BHK"},
	{Value: "1.5bhk", Label: "1.5 BHK"},
	{Value: "2bhk", Label: "2 BHK"},
	{Value: "2.5bhk", Label: "2.5 BHK"},
	{Value: "3bhk", Label: "3 BHK"},
	{Value: "3.5bhk", Label: "3.5 BHK"},
	{Value: "4bhk", Label: "4 BHK"},
	{Value: "duplex", Label: "Duplex"},
	{Value: "other", Label: "Other"},
}

var Ownerships = id.Choices{
	{Value: "family_owned", Label: "Family Owned"},
	{Value: "self_owned", Label: "Self-Owned"},
	{Value: "rented", Label: "Rented"},
	{Value: "pagdi", Label: "Pagdi"},
}

var FamilySizes = id.Choices{
	{Value: "1", Label: "1"},
	{Value: "2", Label: "2"},
	{Value: "3", Label: "3"},
	{Value: "4", Label: "4"},
	{Value: "5", Label: "5"},
	{Value: "6", Label: "6"},
	{Value: "6+", Label: ">6"},
}

var FundingSources = id.Choices{
	{Value: "self-funding", Label: "Self-Funding"},
	{Value: "current-property-sale", Label: "Current Property Sale"},
	{Value: "loan", Label: "Loan"},
}

var Ethnicities = id.Choices{
	{Value: "hindu", Label: "Hindu"},
	{Value: "maharashtrian", Label: "Maharashtrian"},
	{Value: "other", Label: "Other"},
}
