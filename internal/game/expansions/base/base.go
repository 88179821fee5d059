// Package base holds the card modules of the Dominion base set.
package base

import (
	"context"
	"fmt"

	"github.com/thraizz/dominion-server-go/internal/game/cards"
	"github.com/thraizz/dominion-server-go/internal/game/effects"
)

// Register adds every base card module to reg.
func Register(reg *effects.Registry) error {
	return reg.Register(Modules()...)
}

// Modules returns the base card modules.
func Modules() []effects.Module {
	modules := append(basicCards(), kingdomCards()...)
	return append(modules, attackCards()...)
}

func def(key, name string, cost int, types ...cards.Type) cards.Definition {
	return cards.Definition{Key: key, Name: name, Types: types, Cost: cards.Cost{Treasure: cost}}
}

// pickGain lets playerID gain one card from the supply costing up to cost.
// It reports the gained card, or 0 when nothing was gained.
func pickGain(ctx context.Context, ec *effects.Context, playerID string, source cards.ID, cost int, filters ...cards.Filter) (cards.ID, error) {
	filters = append(filters, cards.CostUpTo(playerID, cards.Cost{Treasure: cost}))
	piles := ec.SupplyPiles(filters...)
	selected, err := ec.Select(ctx, playerID, effects.SelectionRequest{
		Prompt:  fmt.Sprintf("Gain a card costing up to %d", cost),
		CardIDs: piles,
		Min:     1,
		Max:     1,
	}, effects.WithSource(source))
	if err != nil || len(selected) == 0 {
		return 0, err
	}
	return selected[0], ec.GainCard(ctx, playerID, selected[0], effects.WithSource(source))
}

// fromHand asks playerID to pick between min and max cards from their hand.
func fromHand(ctx context.Context, ec *effects.Context, playerID string, source cards.ID, prompt string, min, max int, filters ...cards.Filter) ([]cards.ID, error) {
	filters = append([]cards.Filter{cards.InZone(cards.ZoneHand, playerID)}, filters...)
	return ec.Select(ctx, playerID, effects.SelectionRequest{
		Prompt:  prompt,
		CardIDs: ec.Finder.Find(filters...),
		Min:     min,
		Max:     max,
	}, effects.WithSource(source))
}
