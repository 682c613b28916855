package models

import (
	"leadcrm/internal/formnumber"
)

// CreateProjectRequest is the admin payload for a new project.
type CreateProjectRequest struct {
	Prefix string `json:"prefix" yaml:"prefix"`
	Details `yaml:",inline"`
}

func (r *CreateProjectRequest) Normalize() {
	r.Prefix = formnumber.NormalizePrefix(r.Prefix)
	r.Details.Normalize()
}

func (r *CreateProjectRequest) Validate() error {
	if err := formnumber.ValidatePrefix(r.Prefix); err != nil {
		return err
	}
	return r.Details.Validate()
}

// UpdateProjectRequest replaces a project's mutable fields.
type UpdateProjectRequest struct {
	Details
}

func (r *UpdateProjectRequest) Normalize() { r.Details.Normalize() }

func (r *UpdateProjectRequest) Validate() error { return r.Details.Validate() }

// Catalogue is the YAML seed file layout.
type Catalogue struct {
	Projects []CreateProjectRequest `yaml:"projects"`
}

// SeedReport lists prefixes created and skipped by a seed run.
type SeedReport struct {
	Created []string `json:"created"`
	Skipped []string `json:"skipped"`
}
