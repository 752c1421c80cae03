package events_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woklearn/woklearn-api/internal/events"
)

type recordingHandler struct {
	mu     sync.Mutex
	seen   []*events.AuditEvent
	result error
}

func (h *recordingHandler) HandleEvent(ctx context.Context, event *events.AuditEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, event)
	return h.result
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.seen)
}

func TestEmit_FansOutToAllHandlers(t *testing.T) {
	t.Parallel()

	emitter := events.NewInMemoryEmitter(slog.Default())
	first := &recordingHandler{}
	second := &recordingHandler{}
	emitter.RegisterHandler(first)
	emitter.RegisterHandler(second)

	event := events.NewAuditEvent(events.TypeUserRegistered, uuid.New(), nil)
	require.NoError(t, emitter.Emit(context.Background(), event))

	assert.Equal(t, 1, first.count())
	assert.Equal(t, 1, second.count())
	assert.Equal(t, event.ID, first.seen[0].ID)
}

func TestEmit_HandlerFailureDoesNotStopDelivery(t *testing.T) {
	t.Parallel()

	emitter := events.NewInMemoryEmitter(slog.Default())
	boom := errors.New("boom")
	failing := &recordingHandler{result: boom}
	healthy := &recordingHandler{}
	emitter.RegisterHandler(failing)
	emitter.RegisterHandler(healthy)

	err := emitter.Emit(context.Background(), events.NewAuditEvent(events.TypeLoginFailed, uuid.New(), nil))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, healthy.count())
}

func TestEmit_NoHandlers(t *testing.T) {
	t.Parallel()

	emitter := events.NewInMemoryEmitter(slog.Default())
	assert.NoError(t, emitter.Emit(context.Background(), events.NewAuditEvent(events.TypeUserDeleted, uuid.New(), nil)))
}

func TestNewAuditEvent(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	event := events.NewAuditEvent(events.TypeLoginSucceeded, userID, map[string]string{"username": "alice"})

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, events.TypeLoginSucceeded, event.Type)
	assert.Equal(t, userID, event.UserID)
	assert.Equal(t, "alice", event.Detail["username"])
	assert.False(t, event.OccurredAt.IsZero())
}
