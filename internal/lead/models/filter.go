package models

import (
	"strings"

	"leadcrm/internal/formnumber"
	id "leadcrm/pkg/domain"
	dErrors "leadcrm/pkg/domain-errors"
)

// Status filter values for assessments and bookings.
const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// ListFilter narrows the staff lead list. Zero values mean "no filter".
type ListFilter struct {
	Search     string
	Project    string
	DateFrom   id.Date
	DateTo     id.Date
	Assessment string
	Booking    string
	Limit      int
	Offset     int
}

func (f *ListFilter) Normalize() {
	f.Search = strings.TrimSpace(f.Search)
	f.Project = formnumber.NormalizePrefix(f.Project)
	f.Assessment = id.Normalize(f.Assessment)
	f.Booking = id.Normalize(f.Booking)
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

func (f *ListFilter) Validate() error {
	if !validStatus(f.Assessment) {
		return dErrors.NewValidation("assessment must be completed or pending", "assessment")
	}
	if !validStatus(f.Booking) {
		return dErrors.NewValidation("booking must be completed or pending", "booking")
	}
	if !f.DateFrom.IsZero() && !f.DateTo.IsZero() && f.DateTo.Before(f.DateFrom.Time) {
		return dErrors.NewValidation("date_to must not be before date_from", "date_to")
	}
	return nil
}

func validStatus(s string) bool {
	return s == "" || s == StatusCompleted || s == StatusPending
}

// Matches applies the status filters to a row whose statuses are known.
func (f *ListFilter) Matches(assessed, booked bool) bool {
	return statusMatches(f.Assessment, assessed) && statusMatches(f.Booking, booked)
}

func statusMatches(want string, done bool) bool {
	switch want {
	case StatusCompleted:
		return done
	case StatusPending:
		return !done
	default:
		return true
	}
}

// ListItem is one row of the staff lead list.
type ListItem struct {
	*Lead
	ProjectName         string `json:"project_name"`
	AssessmentCompleted bool   `json:"assessment_completed"`
	BookingCompleted    bool   `json:"booking_completed"`
}

// ListResult is a page of leads with the total number of matches.
type ListResult struct {
	Items []ListItem `json:"items"`
	Total int        `json:"total"`
}

// FormNumberChange records one rewritten form number.
type FormNumberChange struct {
	LeadID id.LeadID `json:"lead_id"`
	From   string    `json:"from"`
	To     string    `json:"to"`
}

// MigrationReport summarises a form-number migration run.
type MigrationReport struct {
	Updated int                `json:"updated"`
	Skipped int                `json:"skipped"`
	Changes []FormNumberChange `json:"changes"`
	DryRun  bool               `json:"dry_run"`
}
