// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Each event represents something significant that
// happened in the engine; consumers (notification senders, projections)
// live outside this module.
const (
	// Clearance events
	EventClearanceCreated EventType = "clearance.created"
	EventClearanceDecided EventType = "clearance.decided"

	// Exemption events
	EventExemptionImported EventType = "exemption.imported"

	// Remarks events
	EventRemarksComputed EventType = "remarks.computed"
)

// EventHandler consumes one published domain event. Returning an error marks
// the delivery failed for that handler only; other subscribers still run.
type EventHandler func(event Event) error

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
	Version     int       `json:"version"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		ID:          uuid.NewString(),
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// ClearanceCreatedEvent is emitted when a clearance record enters a department queue.
type ClearanceCreatedEvent struct {
	BaseEvent
	RequestID    string `json:"request_id"`
	Department   string `json:"department"`
	AutoApproved bool   `json:"auto_approved"`
}

// Payload implements Event interface.
func (e ClearanceCreatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"request_id":    e.RequestID,
		"department":    e.Department,
		"auto_approved": e.AutoApproved,
	}
}

// NewClearanceCreatedEvent creates a new ClearanceCreatedEvent.
func NewClearanceCreatedEvent(clearanceID, requestID string, department Department, autoApproved bool) ClearanceCreatedEvent {
	return ClearanceCreatedEvent{
		BaseEvent:    NewBaseEvent(EventClearanceCreated, clearanceID),
		RequestID:    requestID,
		Department:   department.String(),
		AutoApproved: autoApproved,
	}
}

// ClearanceDecidedEvent is emitted when a department decides a clearance.
type ClearanceDecidedEvent struct {
	BaseEvent
	Department     string `json:"department"`
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
	ActorID        string `json:"actor_id"`
}

// Payload implements Event interface.
func (e ClearanceDecidedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"department":      e.Department,
		"previous_status": e.PreviousStatus,
		"new_status":      e.NewStatus,
		"actor_id":        e.ActorID,
	}
}

// NewClearanceDecidedEvent creates a new ClearanceDecidedEvent.
func NewClearanceDecidedEvent(clearanceID string, department Department, previous, next, actorID string) ClearanceDecidedEvent {
	return ClearanceDecidedEvent{
		BaseEvent:      NewBaseEvent(EventClearanceDecided, clearanceID),
		Department:     department.String(),
		PreviousStatus: previous,
		NewStatus:      next,
		ActorID:        actorID,
	}
}

// ExemptionImportedEvent is emitted after a bulk import of auto-approval rules.
type ExemptionImportedEvent struct {
	BaseEvent
	Department       string `json:"department"`
	Inserted         int    `json:"inserted"`
	Skipped          int    `json:"skipped"`
	InvalidTermCodes int    `json:"invalid_term_codes"`
}

// Payload implements Event interface.
func (e ExemptionImportedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"department":         e.Department,
		"inserted":           e.Inserted,
		"skipped":            e.Skipped,
		"invalid_term_codes": e.InvalidTermCodes,
	}
}

// NewExemptionImportedEvent creates a new ExemptionImportedEvent.
func NewExemptionImportedEvent(department Department, inserted, skipped, invalid int) ExemptionImportedEvent {
	return ExemptionImportedEvent{
		BaseEvent:        NewBaseEvent(EventExemptionImported, department.String()),
		Department:       department.String(),
		Inserted:         inserted,
		Skipped:          skipped,
		InvalidTermCodes: invalid,
	}
}
