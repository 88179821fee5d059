package cards

import "slices"

// Filter narrows a Find query.
type Filter func(q *query)

type query struct {
	locations []Location
	owner     string
	keys      []string
	types     []Type
	upTo      *upTo
	exclude   []ID
}

type upTo struct {
	playerID string
	cost     Cost
}

// InZone restricts the query to a zone. Multiple InZone filters are unioned
// in the order given.
func InZone(zone Zone, playerID string) Filter {
	return func(q *query) {
		q.locations = append(q.locations, At(zone, playerID))
	}
}

// InSupply restricts the query to both supply zones.
func InSupply() Filter {
	return func(q *query) {
		q.locations = append(q.locations, At(ZoneBasicSupply, ""), At(ZoneKingdomSupply, ""))
	}
}

// OwnedBy restricts the query to cards owned by playerID.
func OwnedBy(playerID string) Filter {
	return func(q *query) { q.owner = playerID }
}

// WithKey restricts the query to any of the given card keys.
func WithKey(keys ...string) Filter {
	return func(q *query) { q.keys = append(q.keys, keys...) }
}

// OfType restricts the query to cards carrying every given type.
func OfType(types ...Type) Filter {
	return func(q *query) { q.types = append(q.types, types...) }
}

// CostUpTo restricts the query to cards whose effective cost for playerID is
// at most cost.
func CostUpTo(playerID string, cost Cost) Filter {
	return func(q *query) { q.upTo = &upTo{playerID: playerID, cost: cost} }
}

// Excluding drops specific card ids from the result.
func Excluding(ids ...ID) Filter {
	return func(q *query) { q.exclude = append(q.exclude, ids...) }
}

// Finder answers declarative card queries. It only reads.
type Finder struct {
	library *Library
	sources *SourceController
	prices  *PriceController
}

// NewFinder creates a Finder over the given collaborators.
func NewFinder(library *Library, sources *SourceController, prices *PriceController) *Finder {
	return &Finder{library: library, sources: sources, prices: prices}
}

// Find returns the ids matching every filter. Results follow zone order when
// zones are given, and ascending id order otherwise.
func (f *Finder) Find(filters ...Filter) []ID {
	q := &query{}
	for _, filter := range filters {
		filter(q)
	}

	var candidates []ID
	if len(q.locations) == 0 {
		candidates = f.library.IDs()
	} else {
		for _, loc := range q.locations {
			candidates = append(candidates, f.sources.GetSource(loc.Zone, loc.PlayerID)...)
		}
	}

	result := make([]ID, 0, len(candidates))
	for _, id := range candidates {
		card, err := f.library.Get(id)
		if err != nil {
			continue
		}
		if f.matches(q, card) {
			result = append(result, id)
		}
	}
	return result
}

// Top returns the top-most matching card, the one a player would take from a pile.
func (f *Finder) Top(filters ...Filter) (ID, bool) {
	ids := f.Find(filters...)
	if len(ids) == 0 {
		return 0, false
	}
	return ids[len(ids)-1], true
}

func (f *Finder) matches(q *query, card *Card) bool {
	if slices.Contains(q.exclude, card.ID) {
		return false
	}
	if q.owner != "" && card.Owner != q.owner {
		return false
	}
	if len(q.keys) > 0 && !slices.Contains(q.keys, card.Key) {
		return false
	}
	for _, t := range q.types {
		if !card.Is(t) {
			return false
		}
	}
	if q.upTo != nil {
		cost := f.prices.ApplyRules(card, q.upTo.playerID)
		if cost.Treasure > q.upTo.cost.Treasure || cost.Potion > q.upTo.cost.Potion {
			return false
		}
	}
	return true
}
