package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu     sync.Mutex
	events []*Event
	err    error
}

func (h *recordingHandler) HandleEvent(_ context.Context, event *Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func TestNewEvent(t *testing.T) {
	type payload struct {
		SetID string `json:"set_id"`
		Known int    `json:"known"`
	}

	event, err := NewEvent("study.completed", payload{SetID: "abc", Known: 3})
	require.NoError(t, err)
	assert.Equal(t, "study.completed", event.Type)
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())

	var decoded payload
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, payload{SetID: "abc", Known: 3}, decoded)

	_, err = NewEvent("bad", make(chan int))
	assert.Error(t, err)
}

func TestInMemoryEventEmitter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	t.Run("no handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		event, err := NewEvent("nobody.listens", nil)
		require.NoError(t, err)
		assert.NoError(t, emitter.EmitEvent(ctx, event))
	})

	t.Run("routes by type", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		a, b := &recordingHandler{}, &recordingHandler{}
		emitter.RegisterHandler("a", a)
		emitter.RegisterHandler("b", b)

		event, err := NewEvent("a", map[string]int{"n": 1})
		require.NoError(t, err)
		require.NoError(t, emitter.EmitEvent(ctx, event))

		assert.Equal(t, 1, a.count())
		assert.Equal(t, 0, b.count())
	})

	t.Run("failing handler does not stop others", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		failing := &recordingHandler{err: errors.New("handler error")}
		ok := &recordingHandler{}
		emitter.RegisterHandler("x", failing)
		emitter.RegisterHandler("x", ok)

		event, err := NewEvent("x", nil)
		require.NoError(t, err)

		err = emitter.EmitEvent(ctx, event)
		assert.EqualError(t, err, "handler error")
		assert.Equal(t, 1, failing.count())
		assert.Equal(t, 1, ok.count())
	})

	t.Run("handler func adapter", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		var got string
		emitter.RegisterHandler("f", EventHandlerFunc(func(_ context.Context, e *Event) error {
			got = e.Type
			return nil
		}))

		event, err := NewEvent("f", nil)
		require.NoError(t, err)
		require.NoError(t, emitter.EmitEvent(ctx, event))
		assert.Equal(t, "f", got)
	})
}
