package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHubDeliversToSubscriber(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := h.Subscribe(ctx, 1)
	h.Publish(Event{Type: TypeServiceLogUpdated, Data: map[string]any{"class_id": int64(1)}})

	select {
	case evt := <-ch:
		require.Equal(t, TypeServiceLogUpdated, evt.Type)
		require.NotZero(t, evt.Timestamp)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestHubDropsWhenSubscriberIsFull(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := h.Subscribe(ctx, 1)
	h.Publish(Event{Type: "a"})
	h.Publish(Event{Type: "b"})

	evt := <-ch
	require.Equal(t, "a", evt.Type)
	select {
	case extra := <-ch:
		t.Fatalf("unexpected event %+v", extra)
	default:
	}
}

func TestHubUnsubscribesOnCancel(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	ch := h.Subscribe(ctx, 1)
	cancel()

	_, open := <-ch
	require.False(t, open)
	require.Equal(t, 0, h.Subscribers())
}

func TestNilHubPublishIsNoop(t *testing.T) {
	var h *Hub
	require.NotPanics(t, func() { h.Publish(Event{Type: "x"}) })
}
