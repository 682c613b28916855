// Package events publishes domain events to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"leadcrm/pkg/requestcontext"
)

// Event types.
const (
	TypeLeadSubmitted      = "lead.submitted"
	TypeLeadUpdated        = "lead.updated"
	TypeLeadClassified     = "lead.classified"
	TypeFormNumberMigrated = "lead.form_number_migrated"
	TypeBookingCreated     = "booking.created"
	TypeProjectCreated     = "project.created"
)

// Event is a transport-agnostic domain event. Key partitions the event
// stream, normally by lead ID.
type Event struct {
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	RequestID  string    `json:"request_id,omitempty"`
	Payload    any       `json:"payload"`
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// LogPublisher writes events to the structured log. It is used when no
// broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt.Payload)
	if err != nil {
		return err
	}
	p.logger.InfoContext(ctx, evt.Type,
		"log_type", "domain_event",
		"event", evt.Type,
		"key", evt.Key,
		"occurred_at", evt.OccurredAt,
		"request_id", evt.RequestID,
		"payload", string(payload),
	)
	return nil
}

// Emitter stamps and publishes events on behalf of services. Delivery is
// best effort: failures are logged and never fail the caller.
type Emitter struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewEmitter returns an Emitter. Either argument may be nil.
func NewEmitter(publisher Publisher, logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Emitter{publisher: publisher, logger: logger}
}

// Emit publishes an event of type eventType keyed by key.
func (e *Emitter) Emit(ctx context.Context, eventType, key string, payload any) {
	if e == nil || e.publisher == nil {
		return
	}
	evt := Event{
		Type:       eventType,
		Key:        key,
		OccurredAt: requestcontext.Now(ctx).UTC(),
		RequestID:  requestcontext.RequestID(ctx),
		Payload:    payload,
	}
	if err := e.publisher.Publish(ctx, evt); err != nil {
		e.logger.WarnContext(ctx, "failed to publish domain event",
			"event", eventType,
			"key", key,
			"error", err,
			"request_id", evt.RequestID,
		)
	}
}
