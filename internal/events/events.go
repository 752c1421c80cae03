// Package events defines the audit events the services publish and the
// emitter that fans them out to registered handlers. Events are advisory:
// a failed emission never fails the operation that produced it.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Audit event types.
const (
	TypeUserRegistered = "user.registered"
	TypeUserDeleted    = "user.deleted"
	TypeLoginSucceeded = "login.succeeded"
	TypeLoginFailed    = "login.failed"
)

// AuditEvent records a security-relevant action taken against an account.
type AuditEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	// UserID identifies the affected account; uuid.Nil when the account
	// could not be resolved (for example a login with an unknown username)
	UserID uuid.UUID `json:"user_id"`

	// Detail carries event-specific context. Never put credentials here.
	Detail map[string]string `json:"detail,omitempty"`

	// OccurredAt is the timestamp when the event was created
	OccurredAt time.Time `json:"occurred_at"`
}

// NewAuditEvent creates an AuditEvent with a fresh ID and the current time.
func NewAuditEvent(eventType string, userID uuid.UUID, detail map[string]string) *AuditEvent {
	return &AuditEvent{
		ID:         uuid.New(),
		Type:       eventType,
		UserID:     userID,
		Detail:     detail,
		OccurredAt: time.Now(),
	}
}

// Handler processes emitted events.
type Handler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *AuditEvent) error
}

// Emitter publishes events without knowledge of the registered handlers.
type Emitter interface {
	// Emit publishes the given event to all registered handlers.
	Emit(ctx context.Context, event *AuditEvent) error
}
