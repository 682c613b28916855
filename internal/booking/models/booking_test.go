package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "leadcrm/pkg/domain"
	dErrors "leadcrm/pkg/domain-errors"
)

func validRequest() CreateRequest {
	return CreateRequest{
		FlatNumber:         "1203",
		TotalPurchasePrice: "15000000.00",
		Applicants: []Applicant{{
			Title:     "mrs.",
			FirstName: " Sunita ",
			LastName:  "Patil",
			PANNo:     "abcde 1234f",
			AadharNo:  "1234 5678 9012",
			Mobile:    "98200 12345",
			Email:     "Sunita@Example.com",
		}},
	}
}

func TestCreateRequestNormalize(t *testing.T) {
	req := validRequest()
	req.Applicants = append(req.Applicants,
		Applicant{MiddleName: "only middle"},
		Applicant{LastName: "Patil", FirstName: "Rohan"},
	)
	req.ChannelPartner = &ChannelPartner{Name: "  "}
	req.Normalize()

	require.Len(t, req.Applicants, 2)
	first := req.Applicants[0]
	assert.Equal(t, TitleMrs, first.Title)
	assert.Equal(t, "Sunita", first.FirstName)
	assert.Equal(t, "ABCDE1234F", first.PANNo)
	assert.Equal(t, "123456789012", first.AadharNo)
	assert.Equal(t, "9820012345", first.Mobile)
	assert.Equal(t, "sunita@example.com", first.Email)
	assert.Equal(t, DefaultCountry, first.Country)
	assert.Equal(t, 1, first.Order)
	assert.Equal(t, 2, req.Applicants[1].Order)
	assert.Nil(t, req.ChannelPartner)
	assert.NoError(t, req.Validate())
}

func TestCreateRequestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(r *CreateRequest)
		field  string
	}{
		{name: "valid", mutate: func(*CreateRequest) {}},
		{name: "no named applicant", mutate: func(r *CreateRequest) {
			r.Applicants = []Applicant{{Email: "a@b.com"}}
		}, field: "applicants"},
		{name: "five applicants", mutate: func(r *CreateRequest) {
			for range 4 {
				r.Applicants = append(r.Applicants, Applicant{FirstName: "Extra"})
			}
		}, field: "applicants"},
		{name: "duplicate order", mutate: func(r *CreateRequest) {
			r.Applicants[0].Order = 2
			r.Applicants = append(r.Applicants, Applicant{FirstName: "Rohan", Order: 2})
		}, field: "applicants[1].applicant_order"},
		{name: "order out of range", mutate: func(r *CreateRequest) {
			r.Applicants[0].Order = 5
		}, field: "applicants[0].applicant_order"},
		{name: "bad PAN", mutate: func(r *CreateRequest) {
			r.Applicants[0].PANNo = "ABCD12345F"
		}, field: "applicants[0].pan_no"},
		{name: "short Aadhaar", mutate: func(r *CreateRequest) {
			r.Applicants[0].AadharNo = "12345678901"
		}, field: "applicants[0].aadhar_no"},
		{name: "bad mobile", mutate: func(r *CreateRequest) {
			r.Applicants[0].Mobile = "98200"
		}, field: "applicants[0].mobile"},
		{name: "bad title", mutate: func(r *CreateRequest) {
			r.Applicants[0].Title = "Dr"
		}, field: "applicants[0].title"},
		{name: "bad residential status", mutate: func(r *CreateRequest) {
			r.Applicants[0].ResidentialStatus = "tourist"
		}, field: "applicants[0].residential_status"},
		{name: "negative parking", mutate: func(r *CreateRequest) {
			r.CarParkingCount = -1
		}, field: "car_parking_count"},
		{name: "three decimals", mutate: func(r *CreateRequest) {
			r.GSTAmount = "10.125"
		}, field: "gst_amount"},
		{name: "partner mobile", mutate: func(r *CreateRequest) {
			r.ChannelPartner = &ChannelPartner{Name: "Acme", Mobile: "123"}
		}, field: "channel_partner.mobile"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			req.Normalize()
			err := req.Validate()
			if tc.field == "" {
				assert.NoError(t, err)
				return
			}
			de, ok := dErrors.As(err)
			require.True(t, ok, "expected a domain error, got %v", err)
			assert.Equal(t, dErrors.CodeValidation, de.Code)
			assert.Equal(t, []string{tc.field}, de.Fields)
		})
	}
}

func TestCreateRequestBuild(t *testing.T) {
	now := time.Date(2026, 10, 17, 15, 4, 0, 0, time.UTC)
	req := validRequest()
	req.ChannelPartner = &ChannelPartner{Name: "Acme Realty", Mobile: "9820098200"}
	req.Normalize()
	leadID := id.NewLeadID()

	app := req.Build(leadID, "Medius", now)

	assert.Equal(t, leadID, app.LeadID)
	assert.Equal(t, "Medius", app.ProjectName)
	assert.Equal(t, id.NewDate(now), app.ApplicationDate)
	require.Len(t, app.Applicants, 1)
	assert.False(t, app.Applicants[0].ID.IsNil())
	require.NotNil(t, app.ChannelPartner)
	assert.NotSame(t, req.ChannelPartner, app.ChannelPartner)

	req.ProjectName = "Altura"
	assert.Equal(t, "Altura", req.Build(leadID, "Medius", now).ProjectName)
}

func TestPrimaryApplicant(t *testing.T) {
	app := &Application{Applicants: []Applicant{{Order: 2, FirstName: "B"}, {Order: 1, FirstName: "A"}}}
	primary, ok := app.PrimaryApplicant()
	require.True(t, ok)
	assert.Equal(t, "A", primary.FirstName)

	_, ok = (&Application{}).PrimaryApplicant()
	assert.False(t, ok)
}

func TestPrefillMappings(t *testing.T) {
	assert.Equal(t, "Karnataka", StateForCity(" Bangalore "))
	assert.Equal(t, "Maharashtra", StateForCity("Thane"))
	assert.Equal(t, DefaultState, StateForCity("Nashik"))

	assert.Equal(t, "nri", ResidentialStatusFor("nri"))
	assert.Equal(t, "indian", ResidentialStatusFor(""))

	for _, e := range []string{"business", "professional", "retired"} {
		assert.Equal(t, EmploymentSelfEmployed, EmploymentTypeFor(e), e)
	}
	assert.Equal(t, EmploymentSalaried, EmploymentTypeFor("homemaker"))
	assert.Equal(t, EmploymentSalaried, EmploymentTypeFor(""))

	assert.Equal(t, "unmarried", MaritalStatusFor("single"))
	assert.Equal(t, "other", MaritalStatusFor("widowed"))
	assert.Equal(t, "others", SexFor("other"))
}

func TestGuessTitle(t *testing.T) {
	cases := []struct {
		first, sex, marital string
		want                string
	}{
		{"Sunita", "female", "married", TitleMrs},
		{"Sunita", "female", "single", TitleMs},
		{"Ravi", "male", "married", TitleMr},
		{"Meera", "", "", TitleMs},
		{"Priya", "", "", TitleMs},
		{"Devi", "other", "", TitleMs},
		{"Rohan", "", "", TitleMr},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, GuessTitle(tc.first, tc.sex, tc.marital), tc.first)
	}
}
