package watchers

import (
	"testing"

	"github.com/magefree/coup-engine-go/internal/game/rules"
)

func TestChallengeWatcher(t *testing.T) {
	watcher := NewChallengeWatcher()

	if watcher.ConditionMet() {
		t.Fatal("watcher should not have condition met initially")
	}

	watcher.Watch(rules.NewEvent(rules.EventChallengeWon, "Bob", "Alice", "a1"))
	watcher.Watch(rules.NewEvent(rules.EventChallengeLost, "Bob", "Carol", "a2"))
	watcher.Watch(rules.NewEvent(rules.EventChallengeLost, "Bob", "Carol", "a3"))
	watcher.Watch(rules.NewEvent(rules.EventTurnEnded, "Bob", "", ""))

	if !watcher.ConditionMet() {
		t.Fatal("watcher should have condition met after a challenge")
	}
	if watcher.Won("Bob") != 1 {
		t.Fatalf("expected 1 challenge won, got %d", watcher.Won("Bob"))
	}
	if watcher.Lost("Bob") != 2 {
		t.Fatalf("expected 2 challenges lost, got %d", watcher.Lost("Bob"))
	}
	if watcher.Total() != 3 {
		t.Fatalf("expected 3 challenges, got %d", watcher.Total())
	}

	watcher.Reset()
	if watcher.ConditionMet() {
		t.Fatal("watcher should not have condition met after reset")
	}
	if watcher.Total() != 0 {
		t.Fatalf("expected 0 challenges after reset, got %d", watcher.Total())
	}
}

func TestEliminationWatcher(t *testing.T) {
	watcher := NewEliminationWatcher()

	watcher.Watch(rules.NewEvent(rules.EventPlayerEliminated, "Bob", "", "a1"))
	watcher.Watch(rules.NewEvent(rules.EventPlayerDisqualified, "Carol", "", "a2"))
	watcher.Watch(rules.NewEvent(rules.EventPlayerEliminated, "Carol", "", "a2"))
	watcher.Watch(rules.NewEvent(rules.EventPlayerEliminated, "Carol", "", "a2"))

	order := watcher.Order()
	if len(order) != 2 || order[0] != "Bob" || order[1] != "Carol" {
		t.Fatalf("unexpected elimination order %v", order)
	}
	if watcher.WasDisqualified("Bob") {
		t.Fatal("Bob was not disqualified")
	}
	if !watcher.WasDisqualified("Carol") {
		t.Fatal("Carol was disqualified")
	}

	watcher.Reset()
	if len(watcher.Order()) != 0 {
		t.Fatalf("expected empty order after reset, got %v", watcher.Order())
	}
}

func TestCoinFlowWatcher(t *testing.T) {
	watcher := NewCoinFlowWatcher()

	watcher.Watch(rules.NewEventWithAmount(rules.EventCoinsGained, "Alice", "", "a1", 3))
	watcher.Watch(rules.NewEventWithAmount(rules.EventCoinsGained, "Alice", "Bob", "a2", 2))
	watcher.Watch(rules.NewEventWithAmount(rules.EventCoinsLost, "Bob", "Alice", "a2", 2))
	watcher.Watch(rules.NewEventWithAmount(rules.EventCostPaid, "Alice", "", "a3", 7))

	if watcher.Gained("Alice") != 5 {
		t.Fatalf("expected 5 coins gained, got %d", watcher.Gained("Alice"))
	}
	if watcher.Lost("Bob") != 2 {
		t.Fatalf("expected 2 coins lost, got %d", watcher.Lost("Bob"))
	}
	if watcher.Spent("Alice") != 7 {
		t.Fatalf("expected 7 coins spent, got %d", watcher.Spent("Alice"))
	}
	if watcher.Net("Alice") != -2 {
		t.Fatalf("expected net -2, got %d", watcher.Net("Alice"))
	}
}

func TestDefaultRegistryFollowsBus(t *testing.T) {
	bus := rules.NewEventBus()
	registry, challenges, eliminations, coins := NewDefaultRegistry()
	registry.Attach(bus)

	bus.Publish(rules.NewEvent(rules.EventChallengeWon, "Carol", "Bob", "a1"))
	bus.Publish(rules.NewEvent(rules.EventPlayerEliminated, "Bob", "", "a1"))
	bus.Publish(rules.NewEventWithAmount(rules.EventCoinsGained, "Alice", "", "a2", 1))

	if len(registry.GetAllWatchers()) != 3 {
		t.Fatalf("expected 3 watchers, got %d", len(registry.GetAllWatchers()))
	}
	if challenges.Won("Carol") != 1 {
		t.Fatal("challenge watcher missed the event")
	}
	if got := eliminations.Order(); len(got) != 1 || got[0] != "Bob" {
		t.Fatalf("unexpected elimination order %v", got)
	}
	if coins.Gained("Alice") != 1 {
		t.Fatal("coin watcher missed the event")
	}
}
