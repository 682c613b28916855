// Package ports declares what the lead context needs from the project,
// assessment and booking contexts.
package ports

import (
	"context"

	id "leadcrm/pkg/domain"
)

// Project is the slice of a project the lead context relies on.
type Project struct {
	ID     id.ProjectID
	Prefix string
	Name   string
}

// ProjectPort exposes the active project catalogue.
type ProjectPort interface {
	// ActiveByPrefix returns a CodeNotFound error for unknown or inactive prefixes.
	ActiveByPrefix(ctx context.Context, prefix string) (*Project, error)
	ActiveProjects(ctx context.Context) ([]Project, error)
}

// StatusPort reports which leads have a downstream record, such as an
// assessment or a booking.
type StatusPort interface {
	Completed(ctx context.Context, leadIDs []id.LeadID) (map[id.LeadID]bool, error)
}

// StatusFunc adapts a plain lookup function to StatusPort.
type StatusFunc func(ctx context.Context, leadIDs []id.LeadID) (map[id.LeadID]bool, error)

func (f StatusFunc) Completed(ctx context.Context, leadIDs []id.LeadID) (map[id.LeadID]bool, error) {
	return f(ctx, leadIDs)
}
