package events

import (
	"context"
	"errors"
	"testing"
)

func TestPublishFillsIdentityAndContinuesAfterError(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []Event
	d.Subscribe(EventLogout, func(_ context.Context, e Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventLogout, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventLogout})
	if err == nil {
		t.Fatal("expected first handler error to be returned")
	}
	if len(got) != 1 {
		t.Fatalf("second handler calls = %d, want 1", len(got))
	}
	if got[0].ID == "" || got[0].Timestamp.IsZero() {
		t.Fatalf("event id/timestamp not filled: %+v", got[0])
	}
}

func TestPublishOnlyReachesSubscribedType(t *testing.T) {
	d := NewInMemoryDispatcher()
	calls := 0
	d.Subscribe(EventLoginFailed, func(context.Context, Event) error {
		calls++
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventLoginSucceeded}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if calls != 0 {
		t.Fatalf("unexpected handler invocation")
	}
}
