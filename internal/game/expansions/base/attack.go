package base

import (
	"context"
	"fmt"

	"github.com/thraizz/dominion-server-go/internal/game/cards"
	"github.com/thraizz/dominion-server-go/internal/game/effects"
)

func attackCards() []effects.Module {
	return []effects.Module{
		{Definition: def("bureaucrat", "Bureaucrat", 4, cards.TypeAction, cards.TypeAttack), Play: playBureaucrat},
		{Definition: def("militia", "Militia", 4, cards.TypeAction, cards.TypeAttack), Play: playMilitia},
		{Definition: def("witch", "Witch", 5, cards.TypeAction, cards.TypeAttack), Play: playWitch},
	}
}

func playMilitia(ctx context.Context, ec *effects.Context, args effects.PlayArgs) error {
	if err := ec.GainTreasure(ctx, args.PlayerID, 2, effects.WithSource(args.Card.ID)); err != nil {
		return err
	}
	return ec.ForEachAttackTarget(ctx, args, func(ctx context.Context, target string) error {
		excess := len(ec.Hand(target)) - 3
		if excess <= 0 {
			return nil
		}
		selected, err := fromHand(ctx, ec, target, args.Card.ID, fmt.Sprintf("Discard %d cards", excess), excess, excess)
		if err != nil {
			return err
		}
		for _, id := range selected {
			if err := ec.Discard(ctx, target, id, effects.WithSource(args.Card.ID)); err != nil {
				return err
			}
		}
		return nil
	})
}

func playWitch(ctx context.Context, ec *effects.Context, args effects.PlayArgs) error {
	if _, err := ec.DrawCards(ctx, args.PlayerID, 2, effects.WithSource(args.Card.ID)); err != nil {
		return err
	}
	return ec.ForEachAttackTarget(ctx, args, func(ctx context.Context, target string) error {
		_, err := ec.GainFromSupply(ctx, target, "curse", effects.WithSource(args.Card.ID))
		return err
	})
}

// playBureaucrat gains a Silver onto the deck; each other player puts a
// Victory card from hand onto their deck, or reveals a hand with none.
func playBureaucrat(ctx context.Context, ec *effects.Context, args effects.PlayArgs) error {
	if silver, ok := ec.Finder.Top(cards.InSupply(), cards.WithKey("silver")); ok {
		if err := ec.GainCardTo(ctx, args.PlayerID, silver, cards.At(cards.ZoneDeck, args.PlayerID), effects.WithSource(args.Card.ID)); err != nil {
			return err
		}
	}
	return ec.ForEachAttackTarget(ctx, args, func(ctx context.Context, target string) error {
		victory := ec.Finder.Find(cards.InZone(cards.ZoneHand, target), cards.OfType(cards.TypeVictory))
		if len(victory) == 0 {
			for _, id := range ec.Hand(target) {
				if err := ec.Reveal(ctx, target, id, effects.WithSource(args.Card.ID)); err != nil {
					return err
				}
			}
			return nil
		}
		selected, err := ec.Select(ctx, target, effects.SelectionRequest{
			Prompt:  "Put a Victory card onto your deck",
			CardIDs: victory,
			Min:     1,
			Max:     1,
		}, effects.WithSource(args.Card.ID))
		if err != nil || len(selected) == 0 {
			return err
		}
		if err := ec.Reveal(ctx, target, selected[0], effects.WithSource(args.Card.ID)); err != nil {
			return err
		}
		return ec.Move(ctx, target, selected[0], cards.At(cards.ZoneDeck, target), effects.WithSource(args.Card.ID))
	})
}
