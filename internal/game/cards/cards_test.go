package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLibrary() *Library {
	lib := NewLibrary()
	lib.Define(
		Definition{Key: "copper", Name: "Copper", Types: []Type{TypeTreasure}, Cost: Cost{Treasure: 0}},
		Definition{Key: "village", Name: "Village", Types: []Type{TypeAction}, Cost: Cost{Treasure: 3}},
		Definition{Key: "militia", Name: "Militia", Types: []Type{TypeAction, TypeAttack}, Cost: Cost{Treasure: 4}},
		Definition{Key: "gold", Name: "Gold", Types: []Type{TypeTreasure}, Cost: Cost{Treasure: 6}},
	)
	return lib
}

func TestLibrary_CreateAllocatesStableIDs(t *testing.T) {
	lib := newTestLibrary()

	first, err := lib.Create("copper", "alice")
	require.NoError(t, err)
	second, err := lib.Create("village", "")
	require.NoError(t, err)

	assert.Equal(t, ID(1), first.ID)
	assert.Equal(t, ID(2), second.ID)
	assert.True(t, second.Is(TypeAction))
	assert.Equal(t, FacingFront, second.Facing)

	got, err := lib.Get(first.ID)
	require.NoError(t, err)
	assert.Same(t, first, got)

	_, err = lib.Create("unknown", "")
	assert.ErrorIs(t, err, ErrUnknownKey)
	_, err = lib.Get(99)
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestLibrary_Home(t *testing.T) {
	lib := newTestLibrary()
	_, ok := lib.Home("village")
	assert.False(t, ok)

	lib.SetHome("village", ZoneKingdomSupply)
	zone, ok := lib.Home("village")
	require.True(t, ok)
	assert.Equal(t, ZoneKingdomSupply, zone)
}

func TestSourceController_MoveKeepsIdentity(t *testing.T) {
	sc := NewSourceController()
	hand := At(ZoneHand, "alice")
	play := At(ZonePlayArea, "alice")

	sc.Put(hand, 1)
	sc.Put(hand, 2)
	assert.Equal(t, []ID{1, 2}, sc.GetSource(ZoneHand, "alice"))

	from, had := sc.Put(play, 1)
	assert.True(t, had)
	assert.Equal(t, hand, from)
	assert.Equal(t, []ID{2}, sc.GetSource(ZoneHand, "alice"))
	assert.Equal(t, []ID{1}, sc.GetSource(ZonePlayArea, "alice"))
	assert.True(t, sc.Contains(play, 1))

	top, ok := sc.Top(ZoneHand, "alice")
	require.True(t, ok)
	assert.Equal(t, ID(2), top)
}

func TestSourceController_SharedZonesIgnorePlayer(t *testing.T) {
	sc := NewSourceController()
	sc.Put(Location{Zone: ZoneTrash, PlayerID: "alice"}, 7)

	assert.Equal(t, []ID{7}, sc.GetSource(ZoneTrash, "bob"))
	loc, ok := sc.Locate(7)
	require.True(t, ok)
	assert.Equal(t, Location{Zone: ZoneTrash}, loc)
}

func TestSourceController_ReplaceRequiresSameCards(t *testing.T) {
	sc := NewSourceController()
	deck := At(ZoneDeck, "alice")
	sc.Put(deck, 1)
	sc.Put(deck, 2)
	sc.PutBottom(deck, 3)
	assert.Equal(t, []ID{3, 1, 2}, sc.GetSource(ZoneDeck, "alice"))

	require.NoError(t, sc.Replace(deck, []ID{2, 3, 1}))
	assert.Equal(t, []ID{2, 3, 1}, sc.GetSource(ZoneDeck, "alice"))

	assert.Error(t, sc.Replace(deck, []ID{1, 2}))
	assert.ErrorIs(t, sc.Replace(deck, []ID{1, 2, 9}), ErrNotInZone)

	_, err := sc.Remove(42)
	assert.ErrorIs(t, err, ErrNotInZone)
}

func TestPriceController_ApplyRules(t *testing.T) {
	lib := newTestLibrary()
	village, err := lib.Create("village", "")
	require.NoError(t, err)
	copper, err := lib.Create("copper", "")
	require.NoError(t, err)

	pc := NewPriceController()
	assert.Equal(t, 3, pc.ApplyRules(village, "alice").Treasure)

	pc.AddRule(CostRule{ID: "bridge:1", Treasure: -1})
	pc.AddRule(CostRule{ID: "alice-only", Treasure: -1, AppliesTo: func(_ *Card, playerID string) bool {
		return playerID == "alice"
	}})
	assert.Equal(t, 1, pc.ApplyRules(village, "alice").Treasure)
	assert.Equal(t, 2, pc.ApplyRules(village, "bob").Treasure)
	assert.Equal(t, 0, pc.ApplyRules(copper, "alice").Treasure, "cost never drops below zero")

	pc.RemoveRule("alice-only")
	assert.Equal(t, 2, pc.ApplyRules(village, "alice").Treasure)

	pc.ClearRules()
	assert.Equal(t, 3, pc.ApplyRules(village, "alice").Treasure)
}

func TestFinder_Find(t *testing.T) {
	lib := newTestLibrary()
	sc := NewSourceController()
	pc := NewPriceController()
	finder := NewFinder(lib, sc, pc)

	supply := At(ZoneKingdomSupply, "")
	var villages []ID
	for i := 0; i < 3; i++ {
		c, err := lib.Create("village", "")
		require.NoError(t, err)
		sc.Put(supply, c.ID)
		villages = append(villages, c.ID)
	}
	militia, err := lib.Create("militia", "")
	require.NoError(t, err)
	sc.Put(supply, militia.ID)
	gold, err := lib.Create("gold", "")
	require.NoError(t, err)
	sc.Put(At(ZoneBasicSupply, ""), gold.ID)
	copper, err := lib.Create("copper", "alice")
	require.NoError(t, err)
	sc.Put(At(ZoneHand, "alice"), copper.ID)

	assert.Equal(t, villages, finder.Find(InZone(ZoneKingdomSupply, ""), WithKey("village")))
	assert.Equal(t, []ID{militia.ID}, finder.Find(InSupply(), OfType(TypeAttack)))
	assert.Equal(t, []ID{copper.ID}, finder.Find(OwnedBy("alice")))

	upToFour := finder.Find(InSupply(), CostUpTo("alice", Cost{Treasure: 4}))
	assert.ElementsMatch(t, append(append([]ID{}, villages...), militia.ID), upToFour)

	pc.AddRule(CostRule{ID: "discount", Treasure: -2})
	assert.Contains(t, finder.Find(InSupply(), CostUpTo("alice", Cost{Treasure: 4})), gold.ID)

	top, ok := finder.Top(InZone(ZoneKingdomSupply, ""), WithKey("village"))
	require.True(t, ok)
	assert.Equal(t, villages[2], top)

	assert.Empty(t, finder.Find(InSupply(), WithKey("province")))
	assert.NotContains(t, finder.Find(InSupply(), WithKey("village"), Excluding(villages[0])), villages[0])
}
