package effects

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/thraizz/dominion-server-go/internal/game/cards"
	"github.com/thraizz/dominion-server-go/internal/game/rules"
)

// ErrUnknownCard is returned when no module is registered for a card key.
var ErrUnknownCard = errors.New("unknown card module")

// PlayArgs describes one resolution of a played card.
type PlayArgs struct {
	PlayerID string
	Card     *cards.Card
	// ReactionContext collects reaction results for this resolution.
	ReactionContext *rules.ReactionContext
}

// PlayFunc is a card's on-play behaviour.
type PlayFunc func(ctx context.Context, ec *Context, args PlayArgs) error

// LifeCycleArgs describes a card moving between zones.
type LifeCycleArgs struct {
	PlayerID string
	Card     *cards.Card
	From     cards.Location
	To       cards.Location
}

// LifeCycleFunc handles one lifecycle event.
type LifeCycleFunc func(ctx context.Context, ec *Context, args LifeCycleArgs) error

// LifeCycle holds a card's optional lifecycle hooks.
type LifeCycle struct {
	OnGained     LifeCycleFunc
	OnDiscarded  LifeCycleFunc
	OnLeavePlay  LifeCycleFunc
	OnEnterHand  LifeCycleFunc
	OnLeaveHand  LifeCycleFunc
	OnCardPlayed LifeCycleFunc
}

// Hook returns the handler for event, or nil.
func (l LifeCycle) Hook(event LifeCycleEvent) LifeCycleFunc {
	switch event {
	case OnGained:
		return l.OnGained
	case OnDiscarded:
		return l.OnDiscarded
	case OnLeavePlay:
		return l.OnLeavePlay
	case OnEnterHand:
		return l.OnEnterHand
	case OnLeaveHand:
		return l.OnLeaveHand
	case OnCardPlayed:
		return l.OnCardPlayed
	default:
		return nil
	}
}

// ScoreArgs is passed to scoring functions at game end.
type ScoreArgs struct {
	PlayerID string
	Card     *cards.Card
	// OwnedCards is every card the player owns, wherever it is.
	OwnedCards []*cards.Card
}

// ScoreFunc returns the victory points a card is worth. It must not run
// actions.
type ScoreFunc func(args ScoreArgs) int

// Module is everything the engine knows about one card key.
type Module struct {
	Definition cards.Definition
	Play       PlayFunc
	LifeCycle  LifeCycle
	Score      ScoreFunc
	// NonSupply lists the keys of piles this card needs outside the supply,
	// such as the next step of a traveler chain.
	NonSupply []string
}

// Registry maps card keys to modules. It is filled once at startup and only
// read afterwards.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]*Module
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]*Module)}
}

// Register adds modules. Registering a key twice is an error.
func (r *Registry) Register(modules ...Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range modules {
		m := modules[i]
		key := m.Definition.Key
		if key == "" {
			return fmt.Errorf("register module: empty card key")
		}
		if _, exists := r.modules[key]; exists {
			return fmt.Errorf("register module %s: already registered", key)
		}
		r.modules[key] = &m
	}
	return nil
}

// Lookup returns the module for key.
func (r *Registry) Lookup(key string) (*Module, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCard, key)
	}
	return m, nil
}

// Keys returns every registered key in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.modules))
	for k := range r.modules {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Definitions returns the card definitions of every module, sorted by key.
func (r *Registry) Definitions() []cards.Definition {
	keys := r.Keys()
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]cards.Definition, 0, len(keys))
	for _, k := range keys {
		defs = append(defs, r.modules[k].Definition)
	}
	return defs
}
