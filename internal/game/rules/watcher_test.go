package rules

import (
	"testing"
)

// deathWatcher flags any player death.
type deathWatcher struct {
	*BaseWatcher
}

func (w *deathWatcher) Watch(event Event) {
	if event.Type == EventPlayerDied {
		w.SetCondition(true)
	}
}

func (w *deathWatcher) Copy() Watcher {
	cp := &deathWatcher{BaseWatcher: NewBaseWatcher(w.GetScope())}
	cp.SetCondition(w.ConditionMet())
	return cp
}

func TestWatcherRegistry(t *testing.T) {
	registry := NewWatcherRegistry()
	bus := NewEventBus()
	registry.Attach(bus)

	w := &deathWatcher{BaseWatcher: NewBaseWatcher(WatcherScopeGame)}
	w.SetKey("DeathWatcher")
	registry.AddWatcher(w)

	// Same key replaces the old watcher in place.
	replacement := &deathWatcher{BaseWatcher: NewBaseWatcher(WatcherScopeGame)}
	replacement.SetKey("DeathWatcher")
	registry.AddWatcher(replacement)
	if all := registry.GetAllWatchers(); len(all) != 1 || all[0] != Watcher(replacement) {
		t.Fatalf("expected the replacement only, got %d watchers", len(all))
	}

	bus.Publish(NewEvent(EventPlayerDied, 1, -1))
	if !replacement.ConditionMet() {
		t.Fatal("watcher should have condition met")
	}
	if w.ConditionMet() {
		t.Fatal("replaced watcher must not be notified")
	}

	registry.ResetWatchers()
	if replacement.ConditionMet() {
		t.Fatal("watcher should not have condition met after reset")
	}
}

func TestWatcherRegistryGeneratedKeys(t *testing.T) {
	registry := NewWatcherRegistry()

	a := &deathWatcher{BaseWatcher: NewBaseWatcher(WatcherScopePlayer)}
	a.SetPlayerID(0)
	b := &deathWatcher{BaseWatcher: NewBaseWatcher(WatcherScopePlayer)}
	b.SetPlayerID(1)
	registry.AddWatcher(a)
	registry.AddWatcher(b)

	if a.GetKey() == "" || a.GetKey() == b.GetKey() {
		t.Fatalf("expected distinct generated keys, got %q and %q", a.GetKey(), b.GetKey())
	}
	all := registry.GetAllWatchers()
	if len(all) != 2 || all[0] != Watcher(a) || all[1] != Watcher(b) {
		t.Fatal("watchers must be kept in registration order")
	}
}

func TestWatcherScope(t *testing.T) {
	if WatcherScopeGame.String() != "GAME" {
		t.Fatalf("expected GAME, got %s", WatcherScopeGame.String())
	}
	if WatcherScopePlayer.String() != "PLAYER" {
		t.Fatalf("expected PLAYER, got %s", WatcherScopePlayer.String())
	}
}

func TestBaseWatcher(t *testing.T) {
	bw := NewBaseWatcher(WatcherScopePlayer)
	bw.SetKey("test_key")

	if bw.GetKey() != "test_key" {
		t.Fatalf("expected test_key, got %s", bw.GetKey())
	}
	if bw.GetPlayerID() != -1 {
		t.Fatalf("expected unset player -1, got %d", bw.GetPlayerID())
	}
	bw.SetPlayerID(3)
	if bw.GetPlayerID() != 3 {
		t.Fatalf("expected player 3, got %d", bw.GetPlayerID())
	}

	bw.SetCondition(true)
	bw.Reset()
	if bw.ConditionMet() {
		t.Fatal("should not have condition met after reset")
	}
}

func TestWatcherRegistryAttach(t *testing.T) {
	registry := NewWatcherRegistry()
	bus := NewEventBus()

	w := &deathWatcher{BaseWatcher: NewBaseWatcher(WatcherScopeGame)}
	registry.AddWatcher(w)
	handle := registry.Attach(bus)

	bus.Publish(NewEvent(EventPlayerDied, 0, -1))
	if !w.ConditionMet() {
		t.Fatal("attached watcher should see bus events")
	}

	bus.Unsubscribe(handle)
	registry.ResetWatchers()
	bus.Publish(NewEvent(EventPlayerDied, 0, -1))
	if w.ConditionMet() {
		t.Fatal("detached watcher must not see bus events")
	}
}
