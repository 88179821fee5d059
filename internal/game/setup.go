package game

import (
	"context"
	"fmt"

	"github.com/thraizz/dominion-server-go/internal/game/cards"
	"github.com/thraizz/dominion-server-go/internal/game/effects"
	"go.uber.org/zap"
)

// basicSupply lists the piles every match uses.
var basicSupply = []string{"copper", "silver", "gold", "estate", "duchy", "province", "curse"}

const (
	kingdomPileSize   = 10
	nonSupplyPileSize = 5
	startingCoppers   = 7
	startingEstates   = 3
)

// pileSize returns the size of key's pile for the player count, including
// the starting cards dealt out of it.
func pileSize(def cards.Definition, players int) int {
	victory := 8
	if players > 2 {
		victory = 12
	}
	switch def.Key {
	case "copper":
		return 60
	case "silver":
		return 40
	case "gold":
		return 30
	case "curse":
		return 10 * (players - 1)
	}
	if def.Key == "estate" {
		return victory + startingEstates*players
	}
	if def.Key == "province" && players > 4 {
		return 3 * players
	}
	for _, t := range def.Types {
		if t == cards.TypeVictory {
			return victory
		}
	}
	return kingdomPileSize
}

// setup defines every registered card, seeds the supply and non-supply
// piles, deals starting decks and draws opening hands.
func (st *matchState) setup(ctx context.Context) error {
	reg := st.engine.registry
	st.library.Define(reg.Definitions()...)
	players := len(st.match.Players)
	counts := st.engine.options.SupplyCounts

	seed := func(key string, zone cards.Zone, size int) error {
		def, ok := st.library.Definition(key)
		if !ok {
			return fmt.Errorf("%w: %s", effects.ErrUnknownCard, key)
		}
		if n, ok := counts[key]; ok {
			size = n
		} else if size == 0 {
			size = pileSize(def, players)
		}
		st.library.SetHome(key, zone)
		for i := 0; i < size; i++ {
			card, err := st.library.Create(key, "")
			if err != nil {
				return err
			}
			st.sources.Put(cards.At(zone, ""), card.ID)
		}
		return nil
	}

	for _, key := range basicSupply {
		if err := seed(key, cards.ZoneBasicSupply, 0); err != nil {
			return err
		}
	}

	var nonSupply []string
	seen := make(map[string]bool)
	for _, key := range st.engine.options.Kingdom {
		if err := seed(key, cards.ZoneKingdomSupply, 0); err != nil {
			return err
		}
		module, err := reg.Lookup(key)
		if err != nil {
			return err
		}
		// Traveler chains name their next step; follow them to the end.
		queue := append([]string(nil), module.NonSupply...)
		for len(queue) > 0 {
			next := queue[0]
			queue = queue[1:]
			if seen[next] {
				continue
			}
			seen[next] = true
			nonSupply = append(nonSupply, next)
			m, err := reg.Lookup(next)
			if err != nil {
				return err
			}
			queue = append(queue, m.NonSupply...)
		}
	}
	for _, key := range nonSupply {
		if err := seed(key, cards.ZoneNonSupply, nonSupplyPileSize); err != nil {
			return err
		}
	}

	for _, player := range st.match.Players {
		if err := st.dealStartingDeck(ctx, player.ID); err != nil {
			return err
		}
	}

	st.logger.Debug("supply seeded",
		zap.Int("cards", len(st.library.IDs())),
		zap.Strings("non_supply", nonSupply),
	)
	return nil
}

// dealStartingDeck takes the starting cards from the supply into the
// player's deck, shuffles and draws a hand. The deal is not a gain.
func (st *matchState) dealStartingDeck(ctx context.Context, playerID string) error {
	deck := cards.At(cards.ZoneDeck, playerID)
	deal := func(key string, n int) error {
		for i := 0; i < n; i++ {
			id, ok := st.finder.Top(cards.InSupply(), cards.WithKey(key))
			if !ok {
				return fmt.Errorf("starting deck: %s pile is empty", key)
			}
			st.library.MustGet(id).Owner = playerID
			st.sources.Put(deck, id)
		}
		return nil
	}
	if err := deal("copper", startingCoppers); err != nil {
		return err
	}
	if err := deal("estate", startingEstates); err != nil {
		return err
	}

	ids := st.sources.GetSource(cards.ZoneDeck, playerID)
	st.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	if err := st.sources.Replace(deck, ids); err != nil {
		return err
	}

	_, err := st.RunGameAction(ctx, effects.ActionDrawCard, effects.Payload{PlayerID: playerID, Count: st.engine.options.HandSize})
	return err
}
