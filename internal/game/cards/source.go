package cards

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrNotInZone is returned when a card is expected somewhere it is not.
var ErrNotInZone = errors.New("card not in zone")

// Zone names a card location.
type Zone string

const (
	ZoneHand           Zone = "playerHand"
	ZoneDeck           Zone = "playerDeck"
	ZoneDiscard        Zone = "playerDiscard"
	ZonePlayArea       Zone = "playArea"
	ZoneActiveDuration Zone = "activeDuration"
	ZoneSetAside       Zone = "setAside"
	ZoneTrash          Zone = "trash"
	ZoneBasicSupply    Zone = "basicSupply"
	ZoneKingdomSupply  Zone = "kingdomSupply"
	ZoneNonSupply      Zone = "nonSupply"
)

// Shared reports whether the zone is common to all players.
func (z Zone) Shared() bool {
	switch z {
	case ZoneTrash, ZoneBasicSupply, ZoneKingdomSupply, ZoneNonSupply:
		return true
	default:
		return false
	}
}

// InPlay reports whether cards in the zone count as being in play.
func (z Zone) InPlay() bool {
	return z == ZonePlayArea || z == ZoneActiveDuration
}

// Location is a zone, qualified by player for per-player zones.
type Location struct {
	Zone     Zone
	PlayerID string
}

// At builds a location, dropping the player for shared zones.
func At(zone Zone, playerID string) Location {
	if zone.Shared() {
		return Location{Zone: zone}
	}
	return Location{Zone: zone, PlayerID: playerID}
}

func (l Location) String() string {
	if l.PlayerID == "" {
		return string(l.Zone)
	}
	return fmt.Sprintf("%s[%s]", l.Zone, l.PlayerID)
}

// SourceController tracks which zone every card instance is in. The last
// element of a zone is its top (the next card drawn from a deck).
type SourceController struct {
	mu      sync.RWMutex
	sources map[Location][]ID
	index   map[ID]Location
}

// NewSourceController creates an empty controller.
func NewSourceController() *SourceController {
	return &SourceController{
		sources: make(map[Location][]ID),
		index:   make(map[ID]Location),
	}
}

// GetSource returns a copy of the ordered card ids in zone for playerID.
func (sc *SourceController) GetSource(zone Zone, playerID string) []ID {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return slices.Clone(sc.sources[At(zone, playerID)])
}

// Locate returns the current location of a card.
func (sc *SourceController) Locate(id ID) (Location, bool) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	loc, ok := sc.index[id]
	return loc, ok
}

// Contains reports whether the card is currently in loc.
func (sc *SourceController) Contains(loc Location, id ID) bool {
	current, ok := sc.Locate(id)
	return ok && current == At(loc.Zone, loc.PlayerID)
}

// Top returns the top card of a zone.
func (sc *SourceController) Top(zone Zone, playerID string) (ID, bool) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	ids := sc.sources[At(zone, playerID)]
	if len(ids) == 0 {
		return 0, false
	}
	return ids[len(ids)-1], true
}

// Put places a card on top of loc, removing it from wherever it was.
func (sc *SourceController) Put(loc Location, id ID) (Location, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	from, had := sc.removeLocked(id)
	loc = At(loc.Zone, loc.PlayerID)
	sc.sources[loc] = append(sc.sources[loc], id)
	sc.index[id] = loc
	return from, had
}

// PutBottom places a card at the bottom of loc.
func (sc *SourceController) PutBottom(loc Location, id ID) (Location, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	from, had := sc.removeLocked(id)
	loc = At(loc.Zone, loc.PlayerID)
	sc.sources[loc] = append([]ID{id}, sc.sources[loc]...)
	sc.index[id] = loc
	return from, had
}

// Remove takes a card out of whatever zone holds it.
func (sc *SourceController) Remove(id ID) (Location, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	from, ok := sc.removeLocked(id)
	if !ok {
		return Location{}, fmt.Errorf("%w: card %d is not in any zone", ErrNotInZone, id)
	}
	return from, nil
}

// Replace sets the full ordered contents of loc. Every id must already be in loc.
func (sc *SourceController) Replace(loc Location, ids []ID) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	loc = At(loc.Zone, loc.PlayerID)
	current := sc.sources[loc]
	if len(current) != len(ids) {
		return fmt.Errorf("replace %s: expected %d cards, got %d", loc, len(current), len(ids))
	}
	for _, id := range ids {
		if sc.index[id] != loc {
			return fmt.Errorf("%w: card %d is not in %s", ErrNotInZone, id, loc)
		}
	}
	sc.sources[loc] = slices.Clone(ids)
	return nil
}

func (sc *SourceController) removeLocked(id ID) (Location, bool) {
	loc, ok := sc.index[id]
	if !ok {
		return Location{}, false
	}
	ids := sc.sources[loc]
	if i := slices.Index(ids, id); i >= 0 {
		sc.sources[loc] = slices.Delete(ids, i, i+1)
	}
	delete(sc.index, id)
	return loc, true
}
