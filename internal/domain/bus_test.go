package domain

import (
	"testing"
)

func TestSubscribeByType(t *testing.T) {
	bus := NewBus()

	var created, deleted int

	bus.Subscribe(func(e Event) { created++ }, IncidentCreated)
	bus.Subscribe(func(e Event) { deleted++ }, IncidentDeleted)

	bus.Publish(Event{Type: IncidentCreated, WorkspaceID: 1})
	bus.Publish(Event{Type: IncidentCreated, WorkspaceID: 1})
	bus.Publish(Event{Type: IncidentDeleted, WorkspaceID: 1})

	if created != 2 {
		t.Errorf("created handler ran %d times, want 2", created)
	}

	if deleted != 1 {
		t.Errorf("deleted handler ran %d times, want 1", deleted)
	}
}

func TestSubscribeGlobal(t *testing.T) {
	bus := NewBus()

	var seen []EventType
	bus.Subscribe(func(e Event) { seen = append(seen, e.Type) })

	bus.Publish(Event{Type: IncidentCreated})
	bus.Publish(Event{Type: MaintenanceCompleted})
	bus.Publish(Event{Type: StatusPageChanged})

	if len(seen) != 3 {
		t.Fatalf("global handler saw %d events, want 3", len(seen))
	}
}

func TestPanickingSubscriberDoesNotStopDelivery(t *testing.T) {
	bus := NewBus()

	bus.Subscribe(func(e Event) { panic("boom") }, IncidentCreated)

	var delivered bool
	bus.Subscribe(func(e Event) { delivered = true }, IncidentCreated)

	bus.Publish(Event{Type: IncidentCreated})

	if !delivered {
		t.Error("second subscriber not reached after panic")
	}
}

func TestPublishStampsTimestamp(t *testing.T) {
	bus := NewBus()

	var got Event
	bus.Subscribe(func(e Event) { got = e }, IncidentCreated)

	bus.Publish(Event{Type: IncidentCreated})

	if got.Timestamp.IsZero() {
		t.Error("published event has zero timestamp")
	}

	if got.ID == "" {
		t.Error("published event has no id")
	}
}
