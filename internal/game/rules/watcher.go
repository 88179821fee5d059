package rules

import "sync"

// Watcher observes published events and records derived state, such as the
// per-match stats ledger.
type Watcher interface {
	// Watch is called for every published event.
	Watch(event Event)
	// Key returns a unique key for this watcher instance.
	Key() string
}

// WatcherRegistry manages watchers for a match.
type WatcherRegistry struct {
	mu       sync.RWMutex
	watchers []Watcher
}

// NewWatcherRegistry creates a new watcher registry.
func NewWatcherRegistry() *WatcherRegistry {
	return &WatcherRegistry{}
}

// AddWatcher adds a watcher, replacing any watcher with the same key.
func (wr *WatcherRegistry) AddWatcher(watcher Watcher) {
	if watcher == nil {
		return
	}
	wr.mu.Lock()
	defer wr.mu.Unlock()
	for i, w := range wr.watchers {
		if w.Key() == watcher.Key() {
			wr.watchers[i] = watcher
			return
		}
	}
	wr.watchers = append(wr.watchers, watcher)
}

// RemoveWatcher removes a watcher by key.
func (wr *WatcherRegistry) RemoveWatcher(key string) {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	for i, w := range wr.watchers {
		if w.Key() == key {
			wr.watchers = append(wr.watchers[:i], wr.watchers[i+1:]...)
			return
		}
	}
}

// GetWatcher retrieves a watcher by key.
func (wr *WatcherRegistry) GetWatcher(key string) Watcher {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	for _, w := range wr.watchers {
		if w.Key() == key {
			return w
		}
	}
	return nil
}

// NotifyWatchers notifies all watchers of an event in registration order.
func (wr *WatcherRegistry) NotifyWatchers(event Event) {
	wr.mu.RLock()
	watchers := make([]Watcher, len(wr.watchers))
	copy(watchers, wr.watchers)
	wr.mu.RUnlock()

	for _, w := range watchers {
		w.Watch(event)
	}
}
