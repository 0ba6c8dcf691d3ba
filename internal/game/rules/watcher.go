package rules

import (
	"fmt"
	"sync"
)

// WatcherScope defines the scope of a watcher's tracking.
type WatcherScope int

const (
	// WatcherScopeGame tracks events for the entire game.
	WatcherScopeGame WatcherScope = iota
	// WatcherScopePlayer tracks events for a specific player.
	WatcherScopePlayer
)

// String returns the string representation of the watcher scope.
func (ws WatcherScope) String() string {
	switch ws {
	case WatcherScopeGame:
		return "GAME"
	case WatcherScopePlayer:
		return "PLAYER"
	default:
		return "UNKNOWN"
	}
}

// Watcher observes game events and tracks a condition or statistic.
type Watcher interface {
	// Watch is called for every published event.
	Watch(event Event)
	// Reset clears the watcher's state (called when a game is reset).
	Reset()
	// ConditionMet returns true if the tracked condition has been met.
	ConditionMet() bool
	// GetScope returns the scope of this watcher.
	GetScope() WatcherScope
	// GetKey returns a unique key for this watcher instance.
	GetKey() string
}

// BaseWatcher provides a base implementation for watchers.
type BaseWatcher struct {
	scope     WatcherScope
	condition bool
	key       string
}

// NewBaseWatcher creates a new base watcher with the specified scope.
func NewBaseWatcher(scope WatcherScope) *BaseWatcher {
	return &BaseWatcher{scope: scope}
}

// GetScope returns the watcher's scope.
func (bw *BaseWatcher) GetScope() WatcherScope {
	return bw.scope
}

// ConditionMet returns whether the condition has been met.
func (bw *BaseWatcher) ConditionMet() bool {
	return bw.condition
}

// SetCondition sets the condition flag.
func (bw *BaseWatcher) SetCondition(condition bool) {
	bw.condition = condition
}

// Reset clears the condition.
func (bw *BaseWatcher) Reset() {
	bw.condition = false
}

// GetKey returns the unique key for this watcher.
func (bw *BaseWatcher) GetKey() string {
	return bw.key
}

// SetKey sets the unique key for this watcher.
func (bw *BaseWatcher) SetKey(key string) {
	bw.key = key
}

// WatcherRegistry manages watchers for a game.
type WatcherRegistry struct {
	mu       sync.RWMutex
	watchers map[string]Watcher
	order    []string
}

// NewWatcherRegistry creates a new watcher registry.
func NewWatcherRegistry() *WatcherRegistry {
	return &WatcherRegistry{
		watchers: make(map[string]Watcher),
	}
}

// AddWatcher adds a watcher to the registry. Watchers without a key are
// keyed by their scope and dynamic type.
func (wr *WatcherRegistry) AddWatcher(watcher Watcher) {
	if watcher == nil {
		return
	}

	wr.mu.Lock()
	defer wr.mu.Unlock()

	key := watcher.GetKey()
	if key == "" {
		key = fmt.Sprintf("%s_%T", watcher.GetScope(), watcher)
		if setter, ok := watcher.(interface{ SetKey(string) }); ok {
			setter.SetKey(key)
		}
	}

	if _, exists := wr.watchers[key]; !exists {
		wr.order = append(wr.order, key)
	}
	wr.watchers[key] = watcher
}

// RemoveWatcher removes a watcher from the registry.
func (wr *WatcherRegistry) RemoveWatcher(key string) {
	wr.mu.Lock()
	defer wr.mu.Unlock()

	if _, ok := wr.watchers[key]; !ok {
		return
	}
	delete(wr.watchers, key)
	for i, k := range wr.order {
		if k == key {
			wr.order = append(wr.order[:i], wr.order[i+1:]...)
			break
		}
	}
}

// GetWatcher retrieves a watcher by key.
func (wr *WatcherRegistry) GetWatcher(key string) Watcher {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	return wr.watchers[key]
}

// GetAllWatchers returns all registered watchers in registration order.
func (wr *WatcherRegistry) GetAllWatchers() []Watcher {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	result := make([]Watcher, 0, len(wr.order))
	for _, key := range wr.order {
		result = append(result, wr.watchers[key])
	}
	return result
}

// ResetWatchers resets all watchers.
func (wr *WatcherRegistry) ResetWatchers() {
	for _, watcher := range wr.GetAllWatchers() {
		watcher.Reset()
	}
}

// NotifyWatchers notifies all watchers of an event, in registration order.
func (wr *WatcherRegistry) NotifyWatchers(event Event) {
	for _, watcher := range wr.GetAllWatchers() {
		watcher.Watch(event)
	}
}

// Attach subscribes the registry to bus and returns the subscription handle.
func (wr *WatcherRegistry) Attach(bus *EventBus) int {
	return bus.Subscribe(wr.NotifyWatchers)
}
