package events

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testEvent(eventType EventType) Event {
	return Event{
		ID:        "evt-1",
		Type:      eventType,
		Resource:  ResourceTicket,
		Action:    ActionCreated,
		EntityID:  "tck-1",
		Actor:     UserActor("user-1"),
		Timestamp: time.Now(),
	}
}

func TestSubscribeDelivery(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []EventType
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})
	d.Subscribe(EventTicketDeleted, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})

	if err := d.Publish(context.Background(), testEvent(EventTicketCreated)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(got) != 1 || got[0] != EventTicketCreated {
		t.Fatalf("delivered = %v", got)
	}
}

func TestSubscribeAllReceivesEverything(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []EventType
	d.SubscribeAll(func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})

	for _, et := range []EventType{EventTicketCreated, EventAccountUpdated, EventWorkflowRan} {
		if err := d.Publish(context.Background(), testEvent(et)); err != nil {
			t.Fatalf("publish %s: %v", et, err)
		}
	}
	if len(got) != 3 {
		t.Fatalf("wildcard delivered = %v", got)
	}
}

func TestHandlerErrorDoesNotStopDelivery(t *testing.T) {
	d := NewInMemoryDispatcher()

	var reached bool
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		reached = true
		return nil
	})

	if err := d.Publish(context.Background(), testEvent(EventTicketCreated)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !reached {
		t.Fatal("second handler not invoked after first failed")
	}
}

func TestNoListenersIsHarmless(t *testing.T) {
	d := NewInMemoryDispatcher()
	if err := d.Publish(context.Background(), testEvent(EventAssetDeleted)); err != nil {
		t.Fatalf("publish: %v", err)
	}
}
