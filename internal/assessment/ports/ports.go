// Package ports declares what the assessment context needs from the lead
// context.
package ports

import (
	"context"

	id "leadcrm/pkg/domain"
)

// LeadPort confirms a lead exists before an assessment is attached to it.
type LeadPort interface {
	// LeadExists returns a CodeNotFound error when the lead is missing.
	LeadExists(ctx context.Context, leadID id.LeadID) error
}

// LeadExistsFunc adapts a plain lookup function to LeadPort.
type LeadExistsFunc func(ctx context.Context, leadID id.LeadID) error

func (f LeadExistsFunc) LeadExists(ctx context.Context, leadID id.LeadID) error {
	return f(ctx, leadID)
}
