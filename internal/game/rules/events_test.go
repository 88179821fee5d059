package rules

import "testing"

func TestEventBusSubscribeTyped(t *testing.T) {
	bus := NewEventBus()

	playedCount := 0
	gainedCount := 0

	handle := bus.SubscribeTyped(EventCardPlayed, func(e Event) {
		playedCount++
	})
	bus.SubscribeTyped(EventCardGained, func(e Event) {
		gainedCount++
	})

	bus.Publish(NewEvent(EventCardPlayed, "alice", 1))
	if playedCount != 1 {
		t.Fatalf("expected played count 1, got %d", playedCount)
	}
	if gainedCount != 0 {
		t.Fatalf("expected gained count 0, got %d", gainedCount)
	}

	bus.Publish(NewEvent(EventCardGained, "alice", 2))
	if gainedCount != 1 {
		t.Fatalf("expected gained count 1, got %d", gainedCount)
	}

	bus.Unsubscribe(handle)
	bus.Publish(NewEvent(EventCardPlayed, "alice", 3))
	if playedCount != 1 {
		t.Fatalf("expected played count still 1 after unsubscribe, got %d", playedCount)
	}
}

func TestEventBusSubscribeAllInOrder(t *testing.T) {
	bus := NewEventBus()

	var seen []string
	bus.Subscribe(func(e Event) { seen = append(seen, "first:"+string(e.Type)) })
	bus.SubscribeTyped(EventStartTurn, func(e Event) { seen = append(seen, "second:"+string(e.Type)) })
	if h := bus.Subscribe(nil); h != -1 {
		t.Fatalf("expected -1 handle for nil listener, got %d", h)
	}

	bus.Publish(NewEvent(EventStartTurn, "alice", 0))
	bus.Publish(NewEvent(EventEndTurn, "alice", 0))

	want := []string{"first:startTurn", "second:startTurn", "first:endTurn"}
	if len(seen) != len(want) {
		t.Fatalf("expected %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, seen)
		}
	}
}

func TestNewEventPopulatesFields(t *testing.T) {
	evt := NewEvent(EventCardDrawn, "bob", 7)
	if evt.ID == "" {
		t.Fatal("expected event id")
	}
	if evt.Timestamp.IsZero() {
		t.Fatal("expected timestamp")
	}
	if evt.PlayerID != "bob" || evt.CardID != 7 {
		t.Fatalf("unexpected event %+v", evt)
	}
}
