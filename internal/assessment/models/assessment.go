package models

import (
	"fmt"
	"strings"
	"time"

	id "leadcrm/pkg/domain"
	dErrors "leadcrm/pkg/domain-errors"
	str "leadcrm/pkg/platform/strings"
)

// Assessment is the internal sales classification of a lead. A lead has at
// most one. Every enumerated field may be blank.
type Assessment struct {
	ID                        id.AssessmentID `json:"id"`
	LeadID                    id.LeadID       `json:"lead_id"`
	SourcingManager           string          `json:"sourcing_manager"`
	SalesManager              string          `json:"sales_manager"`
	CustomerGender            string          `json:"customer_gender"`
	FacilitatedByPreSales     bool            `json:"facilitated_by_pre_sales"`
	ExecutiveName             string          `json:"executive_name"`
	LeadClassification        string          `json:"lead_classification"`
	ReasonForLost             string          `json:"reason_for_lost"`
	CurrentResidenceConfig    string          `json:"current_residence_config"`
	CurrentResidenceOwnership string          `json:"current_residence_ownership"`
	Plot                      string          `json:"plot"`
	FamilySize                string          `json:"family_size"`
	AreaLooking               string          `json:"area_looking"`
	SourceOfFunding           string          `json:"source_of_funding"`
	Ethnicity                 string          `json:"ethnicity"`
	OtherProjectsConsidered   string          `json:"other_projects_considered"`
	SalesManagerRemarks       string          `json:"sales_manager_remarks"`
	CreatedAt                 time.Time       `json:"created_at"`
	UpdatedAt                 time.Time       `json:"updated_at"`
}

func (a *Assessment) Clone() *Assessment {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// SaveRequest creates or replaces a lead's assessment.
type SaveRequest struct {
	SourcingManager           string `json:"sourcing_manager"`
	SalesManager              string `json:"sales_manager"`
	CustomerGender            string `json:"customer_gender"`
	FacilitatedByPreSales     bool   `json:"facilitated_by_pre_sales"`
	ExecutiveName             string `json:"executive_name"`
	LeadClassification        string `json:"lead_classification"`
	ReasonForLost             string `json:"reason_for_lost"`
	CurrentResidenceConfig    string `json:"current_residence_config"`
	CurrentResidenceOwnership string `json:"current_residence_ownership"`
	Plot                      string `json:"plot"`
	FamilySize                string `json:"family_size"`
	AreaLooking               string `json:"area_looking"`
	SourceOfFunding           string `json:"source_of_funding"`
	Ethnicity                 string `json:"ethnicity"`
	OtherProjectsConsidered   string `json:"other_projects_considered"`
	SalesManagerRemarks       string `json:"sales_manager_remarks"`
}

func (r *SaveRequest) Normalize() {
	r.SourcingManager = str.CollapseSpace(r.SourcingManager)
	r.SalesManager = str.CollapseSpace(r.SalesManager)
	r.CustomerGender = id.Normalize(r.CustomerGender)
	r.ExecutiveName = str.CollapseSpace(r.ExecutiveName)
	r.LeadClassification = id.Normalize(r.LeadClassification)
	r.ReasonForLost = id.Normalize(r.ReasonForLost)
	r.CurrentResidenceConfig = id.Normalize(r.CurrentResidenceConfig)
	r.CurrentResidenceOwnership = id.Normalize(r.CurrentResidenceOwnership)
	r.Plot = strings.TrimSpace(r.Plot)
	r.FamilySize = id.Normalize(r.FamilySize)
	r.AreaLooking = strings.TrimSpace(r.AreaLooking)
	r.SourceOfFunding = id.Normalize(r.SourceOfFunding)
	r.Ethnicity = id.Normalize(r.Ethnicity)
	r.OtherProjectsConsidered = strings.TrimSpace(r.OtherProjectsConsidered)
	r.SalesManagerRemarks = strings.TrimSpace(r.SalesManagerRemarks)
}

// Validate checks enumerations and the lost-reason rule: a reason is
// required when the classification is lost and rejected otherwise.
func (r *SaveRequest) Validate() error {
	for _, c := range []struct {
		field   string
		value   string
		choices id.Choices
	}{
		{"customer_gender", r.CustomerGender, CustomerGenders},
		{"lead_classification", r.LeadClassification, Classifications},
		{"reason_for_lost", r.ReasonForLost, LostReasons},
		{"current_residence_config", r.CurrentResidenceConfig, ResidenceConfigs},
		{"current_residence_ownership", r.CurrentResidenceOwnership, Ownerships},
		{"family_size", r.FamilySize, FamilySizes},
		{"source_of_funding", r.SourceOfFunding, FundingSources},
		{"ethnicity", r.Ethnicity, Ethnicities},
	} {
		if c.value != "" && !c.choices.Valid(c.value) {
			return dErrors.NewValidation(fmt.Sprintf("invalid %s %q", c.field, c.value), c.field)
		}
	}

	lost := r.LeadClassification == ClassificationLost
	switch {
	case lost && r.ReasonForLost == "":
		return dErrors.NewValidation("reason_for_lost is required when the lead is lost", "reason_for_lost")
	case !lost && r.ReasonForLost != "":
		return dErrors.NewValidation("reason_for_lost is only allowed when the lead is lost", "reason_for_lost")
	}
	return nil
}

// Apply copies the request onto a.
func (r *SaveRequest) Apply(a *Assessment, now time.Time) {
	a.SourcingManager = r.SourcingManager
	a.SalesManager = r.SalesManager
	a.CustomerGender = r.CustomerGender
	a.FacilitatedByPreSales = r.FacilitatedByPreSales
	a.ExecutiveName = r.ExecutiveName
	a.LeadClassification = r.LeadClassification
	a.ReasonForLost = r.ReasonForLost
	a.CurrentResidenceConfig = r.CurrentResidenceConfig
	a.CurrentResidenceOwnership = r.CurrentResidenceOwnership
	a.Plot = r.Plot
	a.FamilySize = r.FamilySize
	a.AreaLooking = r.AreaLooking
	a.SourceOfFunding = r.SourceOfFunding
	a.Ethnicity = r.Ethnicity
	a.OtherProjectsConsidered = r.OtherProjectsConsidered
	a.SalesManagerRemarks = r.SalesManagerRemarks
	a.UpdatedAt = now
}
