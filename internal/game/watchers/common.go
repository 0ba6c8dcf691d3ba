package watchers

import (
	"slices"

	"github.com/magefree/coup-engine-go/internal/game/rules"
)

// ChallengeWatcher tallies challenges won and lost by each challenger.
type ChallengeWatcher struct {
	*rules.BaseWatcher
	won  map[string]int
	lost map[string]int
}

// NewChallengeWatcher creates a new challenge watcher.
func NewChallengeWatcher() *ChallengeWatcher {
	w := &ChallengeWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame),
		won:         make(map[string]int),
		lost:        make(map[string]int),
	}
	w.SetKey("ChallengeWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *ChallengeWatcher) Watch(event rules.Event) {
	switch event.Type {
	case rules.EventChallengeWon:
		w.won[event.PlayerID]++
	case rules.EventChallengeLost:
		w.lost[event.PlayerID]++
	default:
		return
	}
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *ChallengeWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.won = make(map[string]int)
	w.lost = make(map[string]int)
}

// Won returns the number of challenges playerID won.
func (w *ChallengeWatcher) Won(playerID string) int {
	return w.won[playerID]
}

// Lost returns the number of challenges playerID lost.
func (w *ChallengeWatcher) Lost(playerID string) int {
	return w.lost[playerID]
}

// Total returns the number of challenges resolved.
func (w *ChallengeWatcher) Total() int {
	total := 0
	for _, n := range w.won {
		total += n
	}
	for _, n := range w.lost {
		total += n
	}
	return total
}

// EliminationWatcher records the order in which players were knocked out.
type EliminationWatcher struct {
	*rules.BaseWatcher
	order        []string
	disqualified map[string]bool
}

// NewEliminationWatcher creates a new elimination watcher.
func NewEliminationWatcher() *EliminationWatcher {
	w := &EliminationWatcher{
		BaseWatcher:  rules.NewBaseWatcher(rules.WatcherScopeGame),
		disqualified: make(map[string]bool),
	}
	w.SetKey("EliminationWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *EliminationWatcher) Watch(event rules.Event) {
	switch event.Type {
	case rules.EventPlayerDisqualified:
		w.disqualified[event.PlayerID] = true
	case rules.EventPlayerEliminated:
		if !slices.Contains(w.order, event.PlayerID) {
			w.order = append(w.order, event.PlayerID)
		}
		w.SetCondition(true)
	}
}

// Reset clears the watcher's state.
func (w *EliminationWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.order = nil
	w.disqualified = make(map[string]bool)
}

// Order returns eliminated players, first out first.
func (w *EliminationWatcher) Order() []string {
	return slices.Clone(w.order)
}

// WasDisqualified reports whether playerID went out by disqualification.
func (w *EliminationWatcher) WasDisqualified(playerID string) bool {
	return w.disqualified[playerID]
}

// CoinFlowWatcher tracks coins gained, lost to steals and spent on costs.
type CoinFlowWatcher struct {
	*rules.BaseWatcher
	gained map[string]int
	lost   map[string]int
	spent  map[string]int
}

// NewCoinFlowWatcher creates a new coin flow watcher.
func NewCoinFlowWatcher() *CoinFlowWatcher {
	w := &CoinFlowWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame),
		gained:      make(map[string]int),
		lost:        make(map[string]int),
		spent:       make(map[string]int),
	}
	w.SetKey("CoinFlowWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *CoinFlowWatcher) Watch(event rules.Event) {
	if event.PlayerID == "" {
		return
	}
	switch event.Type {
	case rules.EventCoinsGained:
		w.gained[event.PlayerID] += event.Amount
	case rules.EventCoinsLost:
		w.lost[event.PlayerID] += event.Amount
	case rules.EventCostPaid:
		w.spent[event.PlayerID] += event.Amount
	default:
		return
	}
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *CoinFlowWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.gained = make(map[string]int)
	w.lost = make(map[string]int)
	w.spent = make(map[string]int)
}

// Gained returns the coins playerID collected.
func (w *CoinFlowWatcher) Gained(playerID string) int {
	return w.gained[playerID]
}

// Lost returns the coins stolen from playerID.
func (w *CoinFlowWatcher) Lost(playerID string) int {
	return w.lost[playerID]
}

// Spent returns the coins playerID paid for actions.
func (w *CoinFlowWatcher) Spent(playerID string) int {
	return w.spent[playerID]
}

// Net returns gained minus lost minus spent for playerID.
func (w *CoinFlowWatcher) Net(playerID string) int {
	return w.gained[playerID] - w.lost[playerID] - w.spent[playerID]
}

// NewDefaultRegistry returns a registry holding one of each watcher.
func NewDefaultRegistry() (*rules.WatcherRegistry, *ChallengeWatcher, *EliminationWatcher, *CoinFlowWatcher) {
	registry := rules.NewWatcherRegistry()
	challenges := NewChallengeWatcher()
	eliminations := NewEliminationWatcher()
	coins := NewCoinFlowWatcher()
	registry.AddWatcher(challenges)
	registry.AddWatcher(eliminations)
	registry.AddWatcher(coins)
	return registry, challenges, eliminations, coins
}
