package rules

import (
	"testing"

	"github.com/tom-jt/Diviners-Gambit/internal/game/catalog"
	"github.com/tom-jt/Diviners-Gambit/internal/game/state"
)

func TestEventBusSubscribeTyped(t *testing.T) {
	bus := NewEventBus()

	turnEnds := 0
	healthChanges := 0

	handle1 := bus.SubscribeTyped(EventTurnEnd, func(e Event) {
		turnEnds++
	})
	handle2 := bus.SubscribeTyped(EventHealthChanged, func(e Event) {
		healthChanges++
	})

	bus.Publish(NewEvent(EventTurnEnd, -1, -1))
	if turnEnds != 1 || healthChanges != 0 {
		t.Fatalf("expected 1/0, got %d/%d", turnEnds, healthChanges)
	}

	bus.Publish(NewEventWithAmount(EventHealthChanged, 0, 1, -1))
	if turnEnds != 1 || healthChanges != 1 {
		t.Fatalf("expected 1/1, got %d/%d", turnEnds, healthChanges)
	}

	if !bus.Unsubscribe(handle1) {
		t.Fatalf("expected handle %d to be live", handle1)
	}
	if bus.Unsubscribe(handle1) {
		t.Fatalf("second unsubscribe must report false")
	}

	bus.Publish(NewEvent(EventTurnEnd, -1, -1))
	if turnEnds != 1 {
		t.Fatalf("expected turn end count still 1 after unsubscribe, got %d", turnEnds)
	}

	bus.Unsubscribe(handle2)
	if bus.Len() != 0 {
		t.Fatalf("expected no live subscriptions, got %d", bus.Len())
	}
}

func TestEventBusSubscribeAll(t *testing.T) {
	bus := NewEventBus()

	var order []string
	bus.Subscribe(func(e Event) { order = append(order, "all") })
	bus.SubscribeTyped(EventCardPlayed, func(e Event) { order = append(order, "typed") })

	card := state.NewPlayedCard(catalog.Default().MustCard(catalog.CardSlash), 1)
	bus.Publish(NewCardEvent(EventCardPlayed, card, false))
	bus.Publish(NewEvent(EventTurnEnd, -1, -1))

	want := []string{"typed", "all", "all"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestEventBusUnsubscribeDuringPublish(t *testing.T) {
	bus := NewEventBus()

	calls := 0
	var second int
	bus.SubscribeTyped(EventTurnEnd, func(Event) {
		calls++
		bus.Unsubscribe(second)
	})
	second = bus.SubscribeTyped(EventTurnEnd, func(Event) {
		t.Fatalf("listener removed mid-broadcast must not fire")
	})

	bus.Publish(NewEvent(EventTurnEnd, -1, -1))
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestEventBusSubscribeDuringPublish(t *testing.T) {
	bus := NewEventBus()

	late := 0
	bus.SubscribeTyped(EventTurnEnd, func(Event) {
		bus.SubscribeTyped(EventTurnEnd, func(Event) { late++ })
	})

	bus.Publish(NewEvent(EventTurnEnd, -1, -1))
	if late != 0 {
		t.Fatalf("listener added mid-broadcast fired %d times", late)
	}
	bus.Publish(NewEvent(EventTurnEnd, -1, -1))
	if late != 1 {
		t.Fatalf("expected late listener to fire on next broadcast, got %d", late)
	}
}

func TestEventBusSubscribeOnce(t *testing.T) {
	bus := NewEventBus()

	count := 0
	handle := bus.SubscribeOnce(EventFinishExecute, func(Event) { count++ })
	if !bus.Active(handle) {
		t.Fatalf("expected once-handle to be active before firing")
	}

	bus.Publish(NewEvent(EventFinishExecute, -1, -1))
	bus.Publish(NewEvent(EventFinishExecute, -1, -1))
	if count != 1 {
		t.Fatalf("expected once listener to fire 1 time, got %d", count)
	}
	if bus.Active(handle) {
		t.Fatalf("once-handle still active after firing")
	}
}

func TestEventBusReentrantPublish(t *testing.T) {
	bus := NewEventBus()

	var seen []EventType
	bus.SubscribeTyped(EventCardPlayed, func(Event) {
		seen = append(seen, EventCardPlayed)
		bus.Publish(NewEventWithAmount(EventHealthChanged, 1, 0, -1))
	})
	bus.SubscribeTyped(EventHealthChanged, func(Event) {
		seen = append(seen, EventHealthChanged)
	})

	bus.Publish(NewCardEvent(EventCardPlayed, nil, false))
	if len(seen) != 2 || seen[1] != EventHealthChanged {
		t.Fatalf("expected nested publish to complete inline, got %v", seen)
	}
}

func TestEventBusReset(t *testing.T) {
	bus := NewEventBus()

	fired := false
	h := bus.Subscribe(func(Event) { fired = true })
	bus.SubscribeTyped(EventTurnEnd, func(Event) { fired = true })

	bus.Reset()
	bus.Publish(NewEvent(EventTurnEnd, -1, -1))
	if fired {
		t.Fatalf("listeners survived reset")
	}
	if bus.Len() != 0 || bus.Active(h) {
		t.Fatalf("expected empty bus after reset")
	}

	next := bus.SubscribeTyped(EventTurnEnd, func(Event) {})
	if next == h {
		t.Fatalf("handles must not be reused after reset")
	}
}

func TestNewCardEvent(t *testing.T) {
	card := state.NewPlayedCard(catalog.Default().MustCard(catalog.CardGun), 2)
	card.Target = 0

	evt := NewCardEvent(EventDefenseChecked, card, true)
	if evt.PlayerID != 2 || evt.SourceID != 2 || !evt.Flag || evt.Card != card {
		t.Fatalf("unexpected card event: %+v", evt)
	}

	if nilEvt := NewCardEvent(EventCardPlayed, nil, false); nilEvt.PlayerID != -1 {
		t.Fatalf("expected -1 player for nil card, got %d", nilEvt.PlayerID)
	}
}
