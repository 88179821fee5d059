package effects

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thraizz/dominion-server-go/internal/game/cards"
	"github.com/thraizz/dominion-server-go/internal/game/match"
	"github.com/thraizz/dominion-server-go/internal/game/rules"
)

func dispatchTurn(t *testing.T, ec *Context, eventType rules.EventType) {
	t.Helper()
	require.NoError(t, ec.Reactions.Dispatch(context.Background(), rules.NewTurnEvent(eventType, ec.Match), nil))
}

func TestDuration_RoundTrip(t *testing.T) {
	ec, _ := newTestContext(t)
	card := createIn(t, ec, "caravan", "alice", cards.At(cards.ZonePlayArea, "alice"))

	fired := 0
	d := NewDuration(ec, card)
	ids, err := d.Register(rules.ReactionTemplate{
		ListeningFor: rules.EventStartTurn,
		Once:         true,
		Compulsory:   true,
		Condition:    d.OnOwnersNextTurn,
		TriggeredEffect: func(context.Context, rules.ReactionArgs) (rules.ReactionResult, error) {
			fired++
			return rules.ResultNone, nil
		},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"caravan:1:startTurn"}, ids)

	tmpl := ec.Reactions.Templates(rules.EventStartTurn)
	require.Len(t, tmpl, 1)
	assert.Equal(t, "alice", tmpl[0].PlayerID)
	assert.Equal(t, card.ID, tmpl[0].SourceCardID)
	assert.Equal(t, rules.LifetimeWhileInPlay, tmpl[0].Lifetime)

	// A same-turn start event never fires the delayed effect.
	dispatchTurn(t, ec, rules.EventStartTurn)
	assert.Equal(t, 0, fired)

	ec.Match.TurnPhase = match.PhaseCleanup
	dispatchTurn(t, ec, rules.EventStartTurnPhase)
	assert.True(t, ec.Sources.Contains(cards.At(cards.ZoneActiveDuration, "alice"), card.ID))
	assert.False(t, ec.Reactions.Live(d.SystemID()))

	ec.Match.AdvanceTurn()
	dispatchTurn(t, ec, rules.EventStartTurn)
	assert.Equal(t, 0, fired, "bob's turn is not the owner's")

	ec.Match.AdvanceTurn()
	dispatchTurn(t, ec, rules.EventStartTurn)
	assert.Equal(t, 1, fired)
	assert.True(t, ec.Sources.Contains(cards.At(cards.ZonePlayArea, "alice"), card.ID))

	ec.Match.AdvanceTurn()
	ec.Match.AdvanceTurn()
	dispatchTurn(t, ec, rules.EventStartTurn)
	assert.Equal(t, 1, fired)
}

func TestDuration_SystemTemplateIgnoresOtherTurns(t *testing.T) {
	ec, _ := newTestContext(t)
	card := createIn(t, ec, "caravan", "alice", cards.At(cards.ZonePlayArea, "alice"))

	d := NewDuration(ec, card)
	_, err := d.Register()
	require.NoError(t, err)

	// Leaving play before cleanup keeps it out of the duration zone.
	ec.Sources.Put(cards.At(cards.ZoneTrash, ""), card.ID)
	ec.Match.TurnPhase = match.PhaseCleanup
	dispatchTurn(t, ec, rules.EventStartTurnPhase)

	loc, ok := ec.Sources.Locate(card.ID)
	require.True(t, ok)
	assert.Equal(t, cards.ZoneTrash, loc.Zone)
	assert.True(t, ec.Reactions.Live(d.SystemID()), "condition false keeps the once template")

	swept := ec.Reactions.UnregisterBySource(card.ID, rules.LifetimeWhileInPlay)
	assert.Equal(t, []string{d.SystemID()}, swept)
}

func TestDuration_RejectsTemplateWithoutEvent(t *testing.T) {
	ec, _ := newTestContext(t)
	card := createIn(t, ec, "caravan", "alice", cards.At(cards.ZonePlayArea, "alice"))

	_, err := RegisterDuration(ec, card, rules.ReactionTemplate{})
	assert.ErrorIs(t, err, rules.ErrInvalidReaction)
}
