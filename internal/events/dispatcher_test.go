package events

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestDispatcherInvokesSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())

	var got []EventType
	d.Subscribe(EventComplaintCreated, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})
	d.Subscribe(EventComplaintDeleted, func(_ context.Context, e Event) error {
		t.Error("handler for unrelated event type invoked")
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventComplaintCreated}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(got) != 1 || got[0] != EventComplaintCreated {
		t.Fatalf("expected one complaint_created delivery, got %v", got)
	}
}

func TestDispatcherContinuesAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())

	invoked := 0
	d.Subscribe(EventComplaintResolved, func(context.Context, Event) error {
		invoked++
		return errors.New("boom")
	})
	d.Subscribe(EventComplaintResolved, func(context.Context, Event) error {
		invoked++
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventComplaintResolved}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if invoked != 2 {
		t.Fatalf("expected both handlers invoked, got %d", invoked)
	}
}
