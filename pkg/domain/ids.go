// Package domain holds typed identifiers and small value types shared by
// every bounded context.
package domain

import (
	"github.com/google/uuid"

	dErrors "leadcrm/pkg/domain-errors"
)

// Distinct ID types so a LeadID can never be passed where a ProjectID is expected.
type (
	ProjectID    uuid.UUID
	LeadID       uuid.UUID
	AssessmentID uuid.UUID
	BookingID    uuid.UUID
	ApplicantID  uuid.UUID
	StaffID      uuid.UUID
)

func NewProjectID() ProjectID       { return ProjectID(uuid.New()) }
func NewLeadID() LeadID             { return LeadID(uuid.New()) }
func NewAssessmentID() AssessmentID { return AssessmentID(uuid.New()) }
func NewBookingID() BookingID       { return BookingID(uuid.New()) }
func NewApplicantID() ApplicantID   { return ApplicantID(uuid.New()) }
func NewStaffID() StaffID           { return StaffID(uuid.New()) }

func (i ProjectID) String() string    { return uuid.UUID(i).String() }
func (i LeadID) String() string       { return uuid.UUID(i).String() }
func (i AssessmentID) String() string { return uuid.UUID(i).String() }
func (i BookingID) String() string    { return uuid.UUID(i).String() }
func (i ApplicantID) String() string  { return uuid.UUID(i).String() }
func (i StaffID) String() string      { return uuid.UUID(i).String() }

func (i ProjectID) IsNil() bool    { return uuid.UUID(i) == uuid.Nil }
func (i LeadID) IsNil() bool       { return uuid.UUID(i) == uuid.Nil }
func (i AssessmentID) IsNil() bool { return uuid.UUID(i) == uuid.Nil }
func (i BookingID) IsNil() bool    { return uuid.UUID(i) == uuid.Nil }
func (i ApplicantID) IsNil() bool  { return uuid.UUID(i) == uuid.Nil }
func (i StaffID) IsNil() bool      { return uuid.UUID(i) == uuid.Nil }

func (i ProjectID) MarshalText() ([]byte, error)    { return uuid.UUID(i).MarshalText() }
func (i LeadID) MarshalText() ([]byte, error)       { return uuid.UUID(i).MarshalText() }
func (i AssessmentID) MarshalText() ([]byte, error) { return uuid.UUID(i).MarshalText() }
func (i BookingID) MarshalText() ([]byte, error)    { return uuid.UUID(i).MarshalText() }
func (i ApplicantID) MarshalText() ([]byte, error)  { return uuid.UUID(i).MarshalText() }
func (i StaffID) MarshalText() ([]byte, error)      { return uuid.UUID(i).MarshalText() }

func (i *ProjectID) UnmarshalText(b []byte) error    { return (*uuid.UUID)(i).UnmarshalText(b) }
func (i *LeadID) UnmarshalText(b []byte) error       { return (*uuid.UUID)(i).UnmarshalText(b) }
func (i *AssessmentID) UnmarshalText(b []byte) error { return (*uuid.UUID)(i).UnmarshalText(b) }
func (i *BookingID) UnmarshalText(b []byte) error    { return (*uuid.UUID)(i).UnmarshalText(b) }
func (i *ApplicantID) UnmarshalText(b []byte) error  { return (*uuid.UUID)(i).UnmarshalText(b) }
func (i *StaffID) UnmarshalText(b []byte) error      { return (*uuid.UUID)(i).UnmarshalText(b) }

// parseUUID enforces that IDs crossing a trust boundary are valid, non-nil UUIDs.
func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	return u, nil
}

func ParseProjectID(s string) (ProjectID, error) {
	u, err := parseUUID(s, "project id")
	return ProjectID(u), err
}

func ParseLeadID(s string) (LeadID, error) {
	u, err := parseUUID(s, "lead id")
	return LeadID(u), err
}

func ParseAssessmentID(s string) (AssessmentID, error) {
	u, err := parseUUID(s, "assessment id")
	return AssessmentID(u), err
}

func ParseBookingID(s string) (BookingID, error) {
	u, err := parseUUID(s, "booking id")
	return BookingID(u), err
}

func ParseStaffID(s string) (StaffID, error) {
	u, err := parseUUID(s, "staff id")
	return StaffID(u), err
}
