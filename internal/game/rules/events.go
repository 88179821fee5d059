package rules

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/thraizz/dominion-server-go/internal/game/cards"
	"github.com/thraizz/dominion-server-go/internal/game/match"
)

// EventType indicates the category of a game event.
type EventType string

const (
	// Turn events
	EventStartTurn      EventType = "startTurn"
	EventEndTurn        EventType = "endTurn"
	EventStartTurnPhase EventType = "startTurnPhase"
	EventEndTurnPhase   EventType = "endTurnPhase"

	// Card events
	EventCardPlayed    EventType = "cardPlayed"
	EventCardGained    EventType = "cardGained"
	EventCardDrawn     EventType = "cardDrawn"
	EventCardDiscarded EventType = "cardDiscarded"
	EventCardTrashed   EventType = "cardTrashed"
	EventCardRevealed  EventType = "cardRevealed"
	EventCardMoved     EventType = "cardMoved"

	// Deck events
	EventDeckShuffled EventType = "deckShuffled"
)

// Event is a snapshot of something that happened. It only lives for the
// duration of a dispatch.
type Event struct {
	Type       EventType
	ID         string
	PlayerID   string
	CardID     cards.ID
	TurnNumber int
	Phase      match.Phase
	From       cards.Location
	To         cards.Location
	Bought     bool
	Timestamp  time.Time
}

// NewEvent creates a new event with common fields populated.
func NewEvent(eventType EventType, playerID string, cardID cards.ID) Event {
	return Event{
		Type:      eventType,
		ID:        uuid.NewString(),
		PlayerID:  playerID,
		CardID:    cardID,
		Timestamp: time.Now(),
	}
}

// NewTurnEvent creates a turn or phase event stamped with the match's turn.
func NewTurnEvent(eventType EventType, m *match.Match) Event {
	evt := NewEvent(eventType, m.CurrentPlayer().ID, 0)
	evt.TurnNumber = m.TurnNumber
	evt.Phase = m.TurnPhase
	return evt
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

type subscription struct {
	handle    int
	eventType EventType
	callback  Listener
}

// EventBus is a synchronous publish/subscribe bus. Listeners are called in
// subscription order.
type EventBus struct {
	mu         sync.RWMutex
	listeners  []subscription
	nextHandle int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	return bus.SubscribeTyped("", listener)
}

// SubscribeTyped registers a listener for a specific event type. An empty
// type matches every event.
func (bus *EventBus) SubscribeTyped(eventType EventType, listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners = append(bus.listeners, subscription{handle: handle, eventType: eventType, callback: listener})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.listeners {
		if sub.handle == handle {
			bus.listeners = append(bus.listeners[:i], bus.listeners[i+1:]...)
			return
		}
	}
}

// Publish delivers the event to all matching listeners synchronously.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	subs := make([]subscription, len(bus.listeners))
	copy(subs, bus.listeners)
	bus.mu.RUnlock()

	for _, sub := range subs {
		if sub.eventType == "" || sub.eventType == event.Type {
			sub.callback(event)
		}
	}
}
