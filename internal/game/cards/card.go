package cards

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
)

var (
	// ErrCardNotFound is returned when a card instance id is not known to the library.
	ErrCardNotFound = errors.New("card not found")
	// ErrUnknownKey is returned when no definition is registered for a card key.
	ErrUnknownKey = errors.New("unknown card key")
)

// ID identifies a card instance for the whole match. Moving a card between
// zones never allocates a new ID.
type ID int

// Type is a card type tag.
type Type string

const (
	TypeAction   Type = "ACTION"
	TypeTreasure Type = "TREASURE"
	TypeVictory  Type = "VICTORY"
	TypeCurse    Type = "CURSE"
	TypeAttack   Type = "ATTACK"
	TypeReaction Type = "REACTION"
	TypeDuration Type = "DURATION"
	TypeTraveler Type = "TRAVELER"
)

// Facing is the visible side of a card; set-aside cards are often face down.
type Facing string

const (
	FacingFront Facing = "front"
	FacingBack  Facing = "back"
)

// Cost is the printed or effective price of a card.
type Cost struct {
	Treasure int
	Potion   int
}

// Definition is the static template a card instance is created from.
type Definition struct {
	Key   string
	Name  string
	Types []Type
	Cost  Cost
}

// Card is a single card instance.
type Card struct {
	ID     ID
	Key    string
	Name   string
	Types  []Type
	Cost   Cost
	Owner  string
	Facing Facing
}

// Is reports whether the card carries the given type tag.
func (c *Card) Is(t Type) bool {
	return slices.Contains(c.Types, t)
}

func (c *Card) String() string {
	return fmt.Sprintf("%s#%d", c.Key, c.ID)
}

// Library maps card ids to card instances and card keys to definitions.
type Library struct {
	mu          sync.RWMutex
	definitions map[string]Definition
	cards       map[ID]*Card
	homes       map[string]Zone
	nextID      ID
}

// NewLibrary creates an empty card library.
func NewLibrary() *Library {
	return &Library{
		definitions: make(map[string]Definition),
		cards:       make(map[ID]*Card),
		homes:       make(map[string]Zone),
		nextID:      1,
	}
}

// Define registers card definitions. Redefining a key overwrites it.
func (l *Library) Define(defs ...Definition) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, def := range defs {
		l.definitions[def.Key] = def
	}
}

// Definition returns the definition for a card key.
func (l *Library) Definition(key string) (Definition, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	def, ok := l.definitions[key]
	return def, ok
}

// Create allocates a new card instance for key owned by owner. Owner is empty
// for supply cards until they are gained.
func (l *Library) Create(key, owner string) (*Card, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	def, ok := l.definitions[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	card := &Card{
		ID:     l.nextID,
		Key:    def.Key,
		Name:   def.Name,
		Types:  slices.Clone(def.Types),
		Cost:   def.Cost,
		Owner:  owner,
		Facing: FacingFront,
	}
	l.cards[card.ID] = card
	l.nextID++
	return card, nil
}

// SetHome records the shared zone a key's pile lives in.
func (l *Library) SetHome(key string, zone Zone) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.homes[key] = zone
}

// Home returns the shared zone a key's pile lives in.
func (l *Library) Home(key string) (Zone, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	zone, ok := l.homes[key]
	return zone, ok
}

// Get returns the card instance with the given id.
func (l *Library) Get(id ID) (*Card, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	card, ok := l.cards[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrCardNotFound, id)
	}
	return card, nil
}

// MustGet is Get for callers holding an id they obtained from this library.
func (l *Library) MustGet(id ID) *Card {
	card, err := l.Get(id)
	if err != nil {
		panic(err)
	}
	return card
}

// IDs returns every allocated card id in ascending order.
func (l *Library) IDs() []ID {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := make([]ID, 0, len(l.cards))
	for id := range l.cards {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
