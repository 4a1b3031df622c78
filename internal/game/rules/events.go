package rules

import (
	"sync"

	"github.com/tom-jt/Diviners-Gambit/internal/game/state"
)

// EventType indicates the category of a rules event.
type EventType string

const (
	// EventTurnEnd drives status countdowns and periodic effects.
	EventTurnEnd EventType = "TURN_END"
	// EventCardPlayed fires after a card's effect has been dispatched.
	EventCardPlayed EventType = "CARD_PLAYED"
	// EventHealthChanged fires for every non-set health mutation.
	EventHealthChanged EventType = "HEALTH_CHANGED"
	// EventFinishExecute fires once all tiers of a round have resolved.
	EventFinishExecute EventType = "FINISH_EXECUTE_CARD_EFFECT"
	// EventDefenseChecked fires at the end of every defense check.
	EventDefenseChecked EventType = "DEFENSE_CHECKED"
	// EventPlayerDied fires when death detection marks a player dead.
	EventPlayerDied EventType = "PLAYER_DIED"
	// EventGameStarted fires when a match (or rematch) begins.
	EventGameStarted EventType = "GAME_STARTED"
)

// Event represents a state change that other subsystems may react to.
type Event struct {
	Type EventType
	// PlayerID is the subject player (health changed, died, defended).
	PlayerID int
	// SourceID is the owner of the acting card, or -1.
	SourceID int
	Amount   float64
	// Flag carries the outcome of a defense check (true = effect landed).
	Flag bool
	Turn int
	// Card is the played card the event refers to, if any.
	Card *state.PlayedCard
}

// NewEvent creates a new event with the common fields populated.
func NewEvent(eventType EventType, playerID, sourceID int) Event {
	return Event{
		Type:     eventType,
		PlayerID: playerID,
		SourceID: sourceID,
	}
}

// NewEventWithAmount creates a new event with an amount value.
func NewEventWithAmount(eventType EventType, playerID, sourceID int, amount float64) Event {
	evt := NewEvent(eventType, playerID, sourceID)
	evt.Amount = amount
	return evt
}

// NewCardEvent creates an event about a played card.
func NewCardEvent(eventType EventType, card *state.PlayedCard, flag bool) Event {
	evt := NewEvent(eventType, -1, -1)
	if card != nil {
		evt.PlayerID = card.Owner
		evt.SourceID = card.Owner
	}
	evt.Card = card
	evt.Flag = flag
	return evt
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

// TypedListener defines a callback that reacts to a specific event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

// EventBus provides a synchronous publish/subscribe implementation with type
// filtering. Listeners run in subscription order over a snapshot taken when
// Publish starts; a listener unsubscribed mid-broadcast is skipped.
type EventBus struct {
	mu             sync.RWMutex
	listeners      []TypedListener               // wildcard listeners
	typedListeners map[EventType][]TypedListener // listeners filtered by event type
	live           map[int]struct{}
	nextHandle     int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{
		typedListeners: make(map[EventType][]TypedListener),
		live:           make(map[int]struct{}),
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners = append(bus.listeners, TypedListener{Handle: handle, Callback: listener})
	bus.live[handle] = struct{}{}
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
	listener := TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	}
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], listener)
	bus.live[handle] = struct{}{}
	return handle
}

// SubscribeOnce registers a typed listener that unsubscribes itself before
// its first invocation.
func (bus *EventBus) SubscribeOnce(eventType EventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	var handle int
	handle = bus.SubscribeTyped(eventType, func(evt Event) {
		bus.Unsubscribe(handle)
		callback(evt)
	})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle.
// It reports whether the handle was live.
func (bus *EventBus) Unsubscribe(handle int) bool {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	if _, ok := bus.live[handle]; !ok {
		return false
	}
	delete(bus.live, handle)
	bus.listeners = removeHandle(bus.listeners, handle)
	for eventType, listeners := range bus.typedListeners {
		bus.typedListeners[eventType] = removeHandle(listeners, handle)
	}
	return true
}

func removeHandle(listeners []TypedListener, handle int) []TypedListener {
	for i := range listeners {
		if listeners[i].Handle == handle {
			out := make([]TypedListener, 0, len(listeners)-1)
			out = append(out, listeners[:i]...)
			return append(out, listeners[i+1:]...)
		}
	}
	return listeners
}

// Active reports whether a handle is still subscribed.
func (bus *EventBus) Active(handle int) bool {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	_, ok := bus.live[handle]
	return ok
}

// Len returns the number of live subscriptions.
func (bus *EventBus) Len() int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return len(bus.live)
}

// Reset drops every subscription. Handles are never reused.
func (bus *EventBus) Reset() {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.listeners = nil
	bus.typedListeners = make(map[EventType][]TypedListener)
	bus.live = make(map[int]struct{})
}

// Publish delivers the event to all registered listeners synchronously.
// Listeners may subscribe, unsubscribe or publish from inside a callback.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	snapshot := make([]TypedListener, 0, len(bus.listeners)+len(bus.typedListeners[event.Type]))
	snapshot = append(snapshot, bus.typedListeners[event.Type]...)
	snapshot = append(snapshot, bus.listeners...)
	bus.mu.RUnlock()

	for _, listener := range snapshot {
		if !bus.Active(listener.Handle) {
			continue
		}
		listener.Callback(event)
	}
}
