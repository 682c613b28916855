package models

import "strings"

// DefaultState is assumed for cities missing from the lookup.
const DefaultState = "Maharashtra"

var cityStates = map[string]string{
	"mumbai":    "Maharashtra",
	"pune":      "Maharashtra",
	"thane":     "Maharashtra",
	"delhi":     "Delhi",
	"bangalore": "Karnataka",
	"chennai":   "Tamil Nadu",
	"hyderabad": "Telangana",
	"kolkata":   "West Bengal",
}

// StateForCity guesses the state of an Indian city.
func StateForCity(city string) string {
	if state, ok := cityStates[strings.ToLower(strings.TrimSpace(city))]; ok {
		return state
	}
	return DefaultState
}

// ResidentialStatusFor maps an enquiry nationality onto a residential
// status, defaulting to resident Indian.
func ResidentialStatusFor(nationality string) string {
	if ResidentialStatuses.Valid(nationality) {
		return nationality
	}
	return "indian"
}

// EmploymentTypeFor collapses enquiry employment types onto the two booking
// categories.
func EmploymentTypeFor(employment string) string {
	switch employment {
	case "business", "professional", "retired":
		return EmploymentSelfEmployed
	default:
		return EmploymentSalaried
	}
}

// MaritalStatusFor maps enquiry marital statuses onto the booking form's.
func MaritalStatusFor(status string) string {
	switch status {
	case "":
		return ""
	case "married":
		return "married"
	case "single":
		return "unmarried"
	default:
		return "other"
	}
}

// SexFor maps enquiry sexes onto the booking form's.
func SexFor(sex string) string {
	if sex == "other" {
		return "others"
	}
	return sex
}

// GuessTitle picks a title from the recorded sex and marital status and
// falls back to a first-name heuristic when sex is unknown.
func GuessTitle(firstName, sex, maritalStatus string) string {
	switch sex {
	case "female":
		if maritalStatus == "married" {
			return TitleMrs
		}
		return TitleMs
	case "male":
		return TitleMr
	}
	name := strings.ToLower(strings.TrimSpace(firstName))
	switch {
	case strings.HasSuffix(name, "a"), name == "priya", name == "rani", name == "devi":
		return TitleMs
	default:
		return TitleMr
	}
}
