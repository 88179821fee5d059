package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thraizz/dominion-server-go/internal/game/cards"
	"github.com/thraizz/dominion-server-go/internal/game/effects"
)

func travelerOptions() Options {
	opts := DefaultOptions()
	opts.Kingdom = append(opts.Kingdom, "page", "peasant")
	return opts
}

func count(keys []string, key string) int {
	n := 0
	for _, k := range keys {
		if k == key {
			n++
		}
	}
	return n
}

func TestTraveler_NonSupplyPilesSeeded(t *testing.T) {
	tm := newTestMatch(t, travelerOptions())

	nonSupply := tm.keys(cards.ZoneNonSupply, "")
	for _, key := range []string{"treasureHunter", "warrior", "hero", "champion", "soldier", "fugitive", "disciple", "teacher"} {
		assert.Equal(t, 5, count(nonSupply, key), key)
	}
	assert.Zero(t, count(nonSupply, "page"))

	view, err := tm.engine.GetMatchView(tm.id, "alice")
	require.NoError(t, err)
	assert.Equal(t, 10, view.Supply["page"])
	assert.Zero(t, view.Supply["champion"], "non-supply piles are not in the supply")
}

func TestTraveler_PageExchangeAccepted(t *testing.T) {
	tm := newTestMatch(t, travelerOptions())
	tm.pad("alice", 10)
	page := tm.give("alice", "page")
	tm.play("alice", page)
	assert.Equal(t, 1, tm.st.match.PlayerActions)

	tm.decider.QueueChoice("alice", 0)
	tm.endTurn("alice")

	assert.True(t, tm.in(cards.ZoneKingdomSupply, "", page), "page returns to its pile")
	assert.Empty(t, page.Owner)
	assert.Equal(t, 1, count(tm.keys(cards.ZoneDiscard, "alice"), "treasureHunter"))
	assert.Equal(t, 4, count(tm.keys(cards.ZoneNonSupply, ""), "treasureHunter"))

	prompts := tm.decider.Prompts()
	require.Len(t, prompts, 1)
	assert.Equal(t, "Exchange Page for Treasure Hunter?", prompts[0].Prompt)

	gains := tm.st.match.Stats.GainsDuringTurn(1, "alice")
	require.Len(t, gains, 1)
	assert.False(t, gains[0].Bought)
}

func TestTraveler_PageExchangeDeclined(t *testing.T) {
	tm := newTestMatch(t, travelerOptions())
	tm.pad("alice", 10)
	page := tm.give("alice", "page")
	tm.play("alice", page)

	tm.decider.QueueChoice("alice", 1)
	tm.endTurn("alice")

	assert.True(t, tm.in(cards.ZoneDiscard, "alice", page))
	assert.Equal(t, "alice", page.Owner)
	assert.Zero(t, count(tm.keys(cards.ZoneDiscard, "alice"), "treasureHunter"))
	assert.Equal(t, 5, count(tm.keys(cards.ZoneNonSupply, ""), "treasureHunter"))
}

func TestTraveler_DiscardFromHandDoesNotExchange(t *testing.T) {
	tm := newTestMatch(t, travelerOptions())
	page := tm.give("alice", "page")

	_, err := tm.engine.RunGameAction(tm.ctx, tm.id, effects.ActionDiscardCard, effects.Payload{PlayerID: "alice", CardID: page.ID})
	require.NoError(t, err)

	assert.Empty(t, tm.decider.Prompts())
	assert.True(t, tm.in(cards.ZoneDiscard, "alice", page))
}

func TestTraveler_HeroReturnsToNonSupplyPile(t *testing.T) {
	tm := newTestMatch(t, travelerOptions())
	tm.pad("alice", 10)
	hero := tm.give("alice", "hero")
	goldID, ok := tm.st.finder.Top(cards.InSupply(), cards.WithKey("gold"))
	require.True(t, ok)
	tm.decider.QueueSelection("alice", goldID)

	tm.play("alice", hero)
	assert.Equal(t, 2, tm.st.match.PlayerTreasure)
	assert.True(t, tm.in(cards.ZoneDiscard, "alice", tm.st.library.MustGet(goldID)))

	tm.decider.QueueChoice("alice", 0)
	tm.endTurn("alice")

	assert.True(t, tm.in(cards.ZoneNonSupply, "", hero))
	assert.Equal(t, 6, count(tm.keys(cards.ZoneNonSupply, ""), "hero"))
	assert.Equal(t, 1, count(tm.keys(cards.ZoneDiscard, "alice"), "champion"))
}

func TestTraveler_TreasureHunterCountsRightNeighbourGains(t *testing.T) {
	tm := newTestMatch(t, travelerOptions())
	tm.pad("alice", 10)
	tm.endTurn("alice")

	for i := 0; i < 2; i++ {
		id, ok := tm.st.finder.Top(cards.InSupply(), cards.WithKey("copper"))
		require.True(t, ok)
		_, err := tm.engine.RunGameAction(tm.ctx, tm.id, effects.ActionGainCard, effects.Payload{PlayerID: "bob", CardID: id})
		require.NoError(t, err)
	}
	tm.endTurn("bob")

	hunter := tm.give("alice", "treasureHunter")
	tm.play("alice", hunter)

	assert.Equal(t, 1, tm.st.match.PlayerActions)
	assert.Equal(t, 1, tm.st.match.PlayerTreasure)
	assert.Equal(t, 2, count(tm.keys(cards.ZoneDiscard, "alice"), "silver"))
}

func TestTraveler_TreasureHunterOnFirstTurn(t *testing.T) {
	tm := newTestMatch(t, travelerOptions())
	hunter := tm.give("alice", "treasureHunter")
	tm.play("alice", hunter)

	assert.Zero(t, count(tm.keys(cards.ZoneDiscard, "alice"), "silver"))
}

func TestTraveler_WarriorPerTravelerInPlay(t *testing.T) {
	tm := newTestMatch(t, travelerOptions())
	tm.pad("alice", 10)
	stacked := tm.stack("bob", "gold", "silver")
	gold, silver := stacked[0], stacked[1]

	page := tm.give("alice", "page")
	warrior := tm.give("alice", "warrior")
	tm.play("alice", page)
	tm.play("alice", warrior)

	assert.True(t, tm.in(cards.ZoneTrash, "", silver), "cost 3 is trashed")
	assert.True(t, tm.in(cards.ZoneDiscard, "bob", gold), "cost 6 stays discarded")
	assert.Len(t, tm.zone(cards.ZoneDeck, "bob"), 5)
}

func TestTraveler_ChampionStaysInPlay(t *testing.T) {
	tm := newTestMatch(t, travelerOptions())
	tm.pad("alice", 20)
	champion := tm.give("alice", "champion")
	tm.play("alice", champion)
	assert.Equal(t, 1, tm.st.match.PlayerActions)

	tm.endTurn("alice")
	assert.True(t, tm.in(cards.ZoneActiveDuration, "alice", champion))

	militia := tm.give("bob", "militia")
	tm.play("bob", militia)
	assert.Len(t, tm.zone(cards.ZoneHand, "alice"), 5, "champion grants immunity")
	tm.endTurn("bob")

	village := tm.give("alice", "village")
	tm.play("alice", village)
	assert.Equal(t, 1-1+2+1, tm.st.match.PlayerActions)

	tm.endTurn("alice")
	assert.True(t, tm.in(cards.ZoneActiveDuration, "alice", champion))
	assert.Len(t, tm.templatesFrom(champion), 2)
}

func TestTraveler_SoldierCountsOtherAttacks(t *testing.T) {
	tm := newTestMatch(t, travelerOptions())
	village := tm.give("alice", "village")
	militia := tm.give("alice", "militia")
	soldier := tm.give("alice", "soldier")

	tm.play("alice", village)
	tm.play("alice", militia)
	require.Len(t, tm.zone(cards.ZoneHand, "bob"), 3)
	tm.play("alice", soldier)

	assert.Equal(t, 2+2+1, tm.st.match.PlayerTreasure)
	assert.Len(t, tm.zone(cards.ZoneHand, "bob"), 3, "bob is below four cards")
}

func TestTraveler_SoldierMakesOthersDiscard(t *testing.T) {
	tm := newTestMatch(t, travelerOptions())
	soldier := tm.give("alice", "soldier")
	tm.play("alice", soldier)

	assert.Equal(t, 2, tm.st.match.PlayerTreasure)
	assert.Len(t, tm.zone(cards.ZoneHand, "bob"), 4)
	assert.Len(t, tm.zone(cards.ZoneDiscard, "bob"), 1)
}

func TestTraveler_Fugitive(t *testing.T) {
	tm := newTestMatch(t, travelerOptions())
	fugitive := tm.give("alice", "fugitive")
	tm.play("alice", fugitive)

	assert.Equal(t, 1, tm.st.match.PlayerActions)
	assert.Len(t, tm.zone(cards.ZoneHand, "alice"), 5+2-1)
	assert.Len(t, tm.zone(cards.ZoneDiscard, "alice"), 1)
}

func TestTraveler_DiscipleDoublesAndGainsCopy(t *testing.T) {
	tm := newTestMatch(t, travelerOptions())
	tm.pad("alice", 10)
	disciple := tm.give("alice", "disciple")
	smithy := tm.give("alice", "smithy")
	tm.decider.QueueSelection("alice", smithy.ID)

	tm.play("alice", disciple)

	assert.Len(t, tm.zone(cards.ZoneHand, "alice"), 5+6)
	assert.True(t, tm.in(cards.ZonePlayArea, "alice", smithy))
	assert.Equal(t, 1, count(tm.keys(cards.ZoneDiscard, "alice"), "smithy"))
	view, err := tm.engine.GetMatchView(tm.id, "alice")
	require.NoError(t, err)
	assert.Equal(t, 9, view.Supply["smithy"])
}

func TestTraveler_Teacher(t *testing.T) {
	tm := newTestMatch(t, travelerOptions())
	teacher := tm.give("alice", "teacher")
	tm.play("alice", teacher)

	assert.Equal(t, 1, tm.st.match.PlayerActions)
	assert.Equal(t, 2, tm.st.match.PlayerBuys)
	assert.Equal(t, 1, tm.st.match.PlayerTreasure)
	assert.Len(t, tm.zone(cards.ZoneHand, "alice"), 6)
}
