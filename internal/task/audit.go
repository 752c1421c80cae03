package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/woklearn/woklearn-api/internal/events"
)

// TypeAuditRecord is the task type for writing one audit event to a sink.
const TypeAuditRecord = "audit_record"

// AuditSink receives audit events on a worker goroutine, off the request
// path.
type AuditSink interface {
	Write(ctx context.Context, event *events.AuditEvent) error
}

// SlogAuditSink writes audit events to the structured log.
type SlogAuditSink struct {
	logger *slog.Logger
}

var _ AuditSink = (*SlogAuditSink)(nil)

// NewSlogAuditSink creates an AuditSink backed by the given logger.
func NewSlogAuditSink(logger *slog.Logger) *SlogAuditSink {
	return &SlogAuditSink{
		logger: logger.With(slog.String("component", "audit")),
	}
}

// Write implements AuditSink.
func (s *SlogAuditSink) Write(ctx context.Context, event *events.AuditEvent) error {
	attrs := []any{
		"event_id", event.ID,
		"event_type", event.Type,
		"occurred_at", event.OccurredAt,
	}
	if event.UserID != uuid.Nil {
		attrs = append(attrs, "user_id", event.UserID)
	}
	for k, v := range event.Detail {
		attrs = append(attrs, k, v)
	}

	s.logger.Info("audit event", attrs...)
	return nil
}

// auditTask carries one audit event to the sink.
type auditTask struct {
	event *events.AuditEvent
	sink  AuditSink
}

var _ Task = (*auditTask)(nil)

func (t *auditTask) ID() uuid.UUID { return t.event.ID }

func (t *auditTask) Type() string { return TypeAuditRecord }

func (t *auditTask) Execute(ctx context.Context) error {
	return t.sink.Write(ctx, t.event)
}

// AuditHandler bridges the event emitter to the task queue: each received
// event is wrapped in a task and queued for a worker to write to the sink.
type AuditHandler struct {
	queue  QueueWriter
	sink   AuditSink
	logger *slog.Logger
}

// Ensure AuditHandler implements events.Handler
var _ events.Handler = (*AuditHandler)(nil)

// NewAuditHandler creates an AuditHandler enqueueing onto the given queue.
func NewAuditHandler(queue QueueWriter, sink AuditSink, logger *slog.Logger) (*AuditHandler, error) {
	if queue == nil {
		return nil, fmt.Errorf("queue cannot be nil")
	}
	if sink == nil {
		return nil, fmt.Errorf("sink cannot be nil")
	}

	return &AuditHandler{
		queue:  queue,
		sink:   sink,
		logger: logger.With(slog.String("component", "audit_handler")),
	}, nil
}

// HandleEvent implements events.Handler. A full queue drops the event with a
// warning; audit records are advisory and must not stall the caller.
func (h *AuditHandler) HandleEvent(ctx context.Context, event *events.AuditEvent) error {
	if err := h.queue.Enqueue(&auditTask{event: event, sink: h.sink}); err != nil {
		h.logger.Warn("dropping audit event",
			"error", err,
			"event_id", event.ID,
			"event_type", event.Type)
		return err
	}
	return nil
}
