package rules

import (
	"sync"
	"time"
)

// EventType indicates the category of a rules event.
type EventType string

const (
	// Game/turn events
	EventGameStarted EventType = "GAME_STARTED"
	EventTurnStarted EventType = "TURN_STARTED"
	EventTurnEnded   EventType = "TURN_ENDED"
	EventGameOver    EventType = "GAME_OVER"

	// Declaration events
	EventActionDeclared        EventType = "ACTION_DECLARED"
	EventCounteractionDeclared EventType = "COUNTERACTION_DECLARED"
	EventCounteractionDeclined EventType = "COUNTERACTION_DECLINED"
	EventCostPaid              EventType = "COST_PAID"

	// Stack events
	EventStackItemResolving EventType = "STACK_ITEM_RESOLVING"
	EventStackItemResolved  EventType = "STACK_ITEM_RESOLVED"
	EventStackItemNullified EventType = "STACK_ITEM_NULLIFIED"
	EventStackItemSkipped   EventType = "STACK_ITEM_SKIPPED"

	// Challenge events
	EventChallengeWon  EventType = "CHALLENGE_WON"
	EventChallengeLost EventType = "CHALLENGE_LOST"

	// Player events
	EventCoinsGained        EventType = "COINS_GAINED"
	EventCoinsLost          EventType = "COINS_LOST"
	EventInfluenceLost      EventType = "INFLUENCE_LOST"
	EventInfluenceReplaced  EventType = "INFLUENCE_REPLACED"
	EventCardsExchanged     EventType = "CARDS_EXCHANGED"
	EventPlayerDisqualified EventType = "PLAYER_DISQUALIFIED"
	EventPlayerEliminated   EventType = "PLAYER_ELIMINATED"
)

// Event represents a state change that other subsystems may react to.
type Event struct {
	Type        EventType
	ID          string            // Unique event ID
	GameID      string            // Game the event belongs to
	PlayerID    string            // Player the event is about
	TargetID    string            // Target player, if any
	SourceID    string            // ID of the action that caused the event
	Amount      int               // Coins, cards, etc.
	Data        string            // Additional string data (action or influence name)
	Timestamp   time.Time         // When the event occurred
	Metadata    map[string]string // Additional metadata
	Description string            // Human-readable description
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

// TypedListener defines a callback that reacts to a specific event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

// EventBus provides a synchronous publish/subscribe implementation with type filtering.
type EventBus struct {
	mu             sync.RWMutex
	listeners      map[int]Listener
	order          []int
	typedListeners map[EventType][]TypedListener
	nextHandle     int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners:      make(map[int]Listener),
		typedListeners: make(map[EventType][]TypedListener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
// Listeners are invoked in subscription order.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	bus.order = append(bus.order, handle)
	return handle
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle,
// whether it was registered with Subscribe or SubscribeTyped.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	if _, ok := bus.listeners[handle]; ok {
		delete(bus.listeners, handle)
		for i, h := range bus.order {
			if h == handle {
				bus.order = append(bus.order[:i], bus.order[i+1:]...)
				break
			}
		}
		return
	}
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers the event to all registered listeners synchronously.
// Listeners must not subscribe or unsubscribe from inside a callback.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	for _, handle := range bus.order {
		bus.listeners[handle](event)
	}
	for _, listener := range bus.typedListeners[event.Type] {
		listener.Callback(event)
	}
}

// NewEvent creates a new event with common fields populated.
func NewEvent(eventType EventType, playerID, targetID, sourceID string) Event {
	return Event{
		Type:      eventType,
		PlayerID:  playerID,
		TargetID:  targetID,
		SourceID:  sourceID,
		Timestamp: time.Now(),
		Metadata:  make(map[string]string),
	}
}

// NewEventWithAmount creates a new event with an amount value.
func NewEventWithAmount(eventType EventType, playerID, targetID, sourceID string, amount int) Event {
	evt := NewEvent(eventType, playerID, targetID, sourceID)
	evt.Amount = amount
	return evt
}
