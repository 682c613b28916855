package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"

	id "leadcrm/pkg/domain"
	dErrors "leadcrm/pkg/domain-errors"
	"leadcrm/pkg/platform/sentinel"
)

// ErrPrefixTaken is returned by stores when another project already owns
// the prefix (compared case-insensitively).
var ErrPrefixTaken = fmt.Errorf("project prefix taken: %w", sentinel.ErrConflict)

const maxNameLength = 200

// Project is a real-estate development whose prefix namespaces lead form numbers.
//
// Invariants:
//   - Prefix is 2 to 5 letters A-Z, upper-case, and never changes
//   - FormCode is a canonical form number generated at creation and never changes
//   - Active transitions: active ↔ inactive only
type Project struct {
	ID          id.ProjectID `json:"id"`
	Name        string       `json:"name"`
	SiteName    string       `json:"site_name"`
	Address     string       `json:"address"`
	Location    string       `json:"location"`
	CompanyName string       `json:"company_name"`
	MahareraNo  string       `json:"maharera_no"`
	LogoURL     string       `json:"logo_url"`
	Prefix      string       `json:"prefix"`
	FormCode    string       `json:"form_code"`
	Active      bool         `json:"active"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Details are the mutable descriptive fields of a project.
type Details struct {
	Name        string `json:"name" yaml:"name"`
	SiteName    string `json:"site_name" yaml:"site_name"`
	Address     string `json:"address" yaml:"address"`
	Location    string `json:"location" yaml:"location"`
	CompanyName string `json:"company_name" yaml:"company_name"`
	MahareraNo  string `json:"maharera_no" yaml:"maharera_no"`
	LogoURL     string `json:"logo_url" yaml:"logo_url"`
}

func (d *Details) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.SiteName = strings.TrimSpace(d.SiteName)
	d.Address = strings.TrimSpace(d.Address)
	d.Location = strings.TrimSpace(d.Location)
	d.CompanyName = strings.TrimSpace(d.CompanyName)
	d.MahareraNo = strings.ToUpper(strings.TrimSpace(d.MahareraNo))
	d.LogoURL = strings.TrimSpace(d.LogoURL)
}

func (d *Details) Validate() error {
	if d.Name == "" {
		return dErrors.NewValidation("name is required", "name")
	}
	if utf8.RuneCountInString(d.Name) > maxNameLength {
		return dErrors.NewValidation(fmt.Sprintf("name must be at most %d characters", maxNameLength), "name")
	}
	if d.LogoURL != "" && !govalidator.IsURL(d.LogoURL) {
		return dErrors.NewValidation("logo_url must be a valid URL", "logo_url")
	}
	return nil
}

// NewProject builds a validated, active project.
func NewProject(projectID id.ProjectID, prefix, formCode string, details Details, now time.Time) (*Project, error) {
	details.Normalize()
	if err := details.Validate(); err != nil {
		return nil, err
	}
	if prefix == "" || formCode == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "project requires a prefix and form code")
	}
	p := &Project{
		ID:        projectID,
		Prefix:    strings.ToUpper(prefix),
		FormCode:  formCode,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.setDetails(details)
	return p, nil
}

func (p *Project) setDetails(d Details) {
	p.Name = d.Name
	p.SiteName = d.SiteName
	p.Address = d.Address
	p.Location = d.Location
	p.CompanyName = d.CompanyName
	p.MahareraNo = d.MahareraNo
	p.LogoURL = d.LogoURL
}

// ApplyDetails replaces the mutable fields. Details must already be validated.
func (p *Project) ApplyDetails(d Details, now time.Time) {
	p.setDetails(d)
	p.UpdatedAt = now
}

// CanDeactivate reports whether the project may transition to inactive.
func (p *Project) CanDeactivate() error {
	if !p.Active {
		return dErrors.New(dErrors.CodeInvariantViolation, "project is already inactive")
	}
	return nil
}

func (p *Project) ApplyDeactivation(now time.Time) {
	p.Active = false
	p.UpdatedAt = now
}

// CanReactivate reports whether the project may transition to active.
func (p *Project) CanReactivate() error {
	if p.Active {
		return dErrors.New(dErrors.CodeInvariantViolation, "project is already active")
	}
	return nil
}

func (p *Project) ApplyReactivation(now time.Time) {
	p.Active = true
	p.UpdatedAt = now
}

// Clone returns a copy safe to hand across store boundaries.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
