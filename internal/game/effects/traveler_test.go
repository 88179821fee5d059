package effects

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thraizz/dominion-server-go/internal/game/cards"
)

func setupTraveler(t *testing.T) (*Context, *fakeRunner, *cards.Card, *cards.Card) {
	t.Helper()
	ec, runner := newTestContext(t)
	ec.Library.SetHome("page", cards.ZoneKingdomSupply)
	ec.Library.SetHome("treasureHunter", cards.ZoneNonSupply)
	page := createIn(t, ec, "page", "alice", cards.At(cards.ZoneDiscard, "alice"))
	hunter := createIn(t, ec, "treasureHunter", "", cards.At(cards.ZoneNonSupply, ""))
	return ec, runner, page, hunter
}

func discardedFromPlay(page *cards.Card) LifeCycleArgs {
	return LifeCycleArgs{
		PlayerID: "alice",
		Card:     page,
		From:     cards.At(cards.ZonePlayArea, "alice"),
		To:       cards.At(cards.ZoneDiscard, "alice"),
	}
}

func TestExchangeTraveler_Accept(t *testing.T) {
	ec, runner, page, hunter := setupTraveler(t)
	runner.choices = []int{0}

	require.NoError(t, ExchangeTraveler(context.Background(), ec, discardedFromPlay(page), "treasureHunter"))

	assert.True(t, ec.Sources.Contains(cards.At(cards.ZoneKingdomSupply, ""), page.ID))
	assert.True(t, ec.Sources.Contains(cards.At(cards.ZoneDiscard, "alice"), hunter.ID))
	assert.Equal(t, []ActionName{ActionUserPrompt, ActionMoveCard, ActionGainCard}, runner.names())
	assert.Equal(t, page.ID, runner.calls[2].opts.Source)
}

func TestExchangeTraveler_Decline(t *testing.T) {
	ec, runner, page, hunter := setupTraveler(t)
	runner.choices = []int{1}

	require.NoError(t, ExchangeTraveler(context.Background(), ec, discardedFromPlay(page), "treasureHunter"))

	assert.True(t, ec.Sources.Contains(cards.At(cards.ZoneDiscard, "alice"), page.ID))
	assert.True(t, ec.Sources.Contains(cards.At(cards.ZoneNonSupply, ""), hunter.ID))
	assert.Equal(t, []ActionName{ActionUserPrompt}, runner.names())
}

func TestExchangeTraveler_NotFromPlay(t *testing.T) {
	ec, runner, page, _ := setupTraveler(t)
	args := discardedFromPlay(page)
	args.From = cards.At(cards.ZoneHand, "alice")

	require.NoError(t, ExchangeTraveler(context.Background(), ec, args, "treasureHunter"))
	assert.Empty(t, runner.calls)
}

func TestExchangeTraveler_NoUpgradeLeft(t *testing.T) {
	ec, runner, page, _ := setupTraveler(t)

	require.NoError(t, ExchangeTraveler(context.Background(), ec, discardedFromPlay(page), "warrior"))
	assert.Empty(t, runner.calls)
}
