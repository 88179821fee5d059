package adventures

import (
	"context"

	"github.com/thraizz/dominion-server-go/internal/game/cards"
	"github.com/thraizz/dominion-server-go/internal/game/effects"
	"github.com/thraizz/dominion-server-go/internal/game/rules"
	"go.uber.org/zap"
)

// playTreasureHunter gains a Silver for each card the player to the right
// gained on their last turn.
func playTreasureHunter(ctx context.Context, ec *effects.Context, args effects.PlayArgs) error {
	if err := (effects.Bonus{Actions: 1, Treasure: 1}).Apply(ctx, ec, args.PlayerID, args.Card.ID); err != nil {
		return err
	}
	right, err := ec.Match.PlayerToRight(args.PlayerID)
	if err != nil {
		return err
	}
	lastTurn := ec.Match.TurnNumber - 1
	if lastTurn < 1 {
		return nil
	}
	gains := ec.Match.Stats.GainsDuringTurn(lastTurn, right.ID)
	for range gains {
		ok, err := ec.GainFromSupply(ctx, args.PlayerID, "silver", effects.WithSource(args.Card.ID))
		if err != nil || !ok {
			return err
		}
	}
	return nil
}

// playWarrior makes each other player discard the top card of their deck
// once per Traveler in play, trashing it if it costs 3 or 4.
func playWarrior(ctx context.Context, ec *effects.Context, args effects.PlayArgs) error {
	if _, err := ec.DrawCards(ctx, args.PlayerID, 2, effects.WithSource(args.Card.ID)); err != nil {
		return err
	}
	travelers := len(ec.Finder.Find(cards.InZone(cards.ZonePlayArea, args.PlayerID), cards.OfType(cards.TypeTraveler)))
	return ec.ForEachAttackTarget(ctx, args, func(ctx context.Context, target string) error {
		for i := 0; i < travelers; i++ {
			top, err := topOfDeck(ctx, ec, target, args.Card.ID)
			if err != nil {
				return err
			}
			if top == nil {
				return nil
			}
			if err := ec.Discard(ctx, target, top.ID, effects.WithSource(args.Card.ID)); err != nil {
				return err
			}
			cost := ec.Prices.ApplyRules(top, target)
			if cost.Treasure == 3 || cost.Treasure == 4 {
				if err := ec.Trash(ctx, target, top.ID, effects.WithSource(args.Card.ID)); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// topOfDeck returns the top card of playerID's deck, shuffling the discard
// pile in first if the deck is empty. It returns nil when both are empty.
func topOfDeck(ctx context.Context, ec *effects.Context, playerID string, source cards.ID) (*cards.Card, error) {
	id, ok := ec.Sources.Top(cards.ZoneDeck, playerID)
	if !ok {
		if len(ec.Sources.GetSource(cards.ZoneDiscard, playerID)) == 0 {
			return nil, nil
		}
		if _, err := ec.Run(ctx, effects.ActionShuffleDeck, effects.Payload{PlayerID: playerID}, effects.WithSource(source)); err != nil {
			return nil, err
		}
		if id, ok = ec.Sources.Top(cards.ZoneDeck, playerID); !ok {
			return nil, nil
		}
	}
	return ec.Card(id)
}

func playHero(ctx context.Context, ec *effects.Context, args effects.PlayArgs) error {
	if err := ec.GainTreasure(ctx, args.PlayerID, 2, effects.WithSource(args.Card.ID)); err != nil {
		return err
	}
	selected, err := ec.Select(ctx, args.PlayerID, effects.SelectionRequest{
		Prompt:  "Gain a Treasure",
		CardIDs: ec.SupplyPiles(cards.OfType(cards.TypeTreasure)),
		Min:     1,
		Max:     1,
	}, effects.WithSource(args.Card.ID))
	if err != nil || len(selected) == 0 {
		return err
	}
	return ec.GainCard(ctx, args.PlayerID, selected[0], effects.WithSource(args.Card.ID))
}

// playChampion stays in play for the rest of the game: its owner is
// unaffected by other players' attacks and gets +1 Action per Action played.
func playChampion(ctx context.Context, ec *effects.Context, args effects.PlayArgs) error {
	if err := ec.GainActions(ctx, args.PlayerID, 1, effects.WithSource(args.Card.ID)); err != nil {
		return err
	}
	owner := args.Card.Owner
	playedType := func(ra rules.ReactionArgs, t cards.Type) bool {
		played, err := ec.Card(ra.Event.CardID)
		return err == nil && played.Is(t)
	}
	_, err := effects.RegisterDuration(ec, args.Card,
		rules.ReactionTemplate{
			ListeningFor: rules.EventCardPlayed,
			ID:           rules.DeriveID(args.Card.Key, args.Card.ID, rules.EventCardPlayed) + ":immunity",
			Compulsory:   true,
			Condition: func(ra rules.ReactionArgs) bool {
				return ra.Event.PlayerID != owner && playedType(ra, cards.TypeAttack)
			},
			TriggeredEffect: func(context.Context, rules.ReactionArgs) (rules.ReactionResult, error) {
				return rules.ResultImmunity, nil
			},
		},
		rules.ReactionTemplate{
			ListeningFor: rules.EventCardPlayed,
			ID:           rules.DeriveID(args.Card.Key, args.Card.ID, rules.EventCardPlayed) + ":action",
			Compulsory:   true,
			Condition: func(ra rules.ReactionArgs) bool {
				return ra.Event.PlayerID == owner && playedType(ra, cards.TypeAction)
			},
			TriggeredEffect: func(ctx context.Context, _ rules.ReactionArgs) (rules.ReactionResult, error) {
				return rules.ResultNone, ec.GainActions(ctx, owner, 1, effects.WithSource(args.Card.ID))
			},
		},
	)
	return err
}

// playSoldier grants +2 Treasure and +1 per other Attack in play; each other
// player with four or more cards in hand discards one.
func playSoldier(ctx context.Context, ec *effects.Context, args effects.PlayArgs) error {
	attacks := ec.Finder.Find(
		cards.InZone(cards.ZonePlayArea, args.PlayerID),
		cards.OfType(cards.TypeAttack),
		cards.Excluding(args.Card.ID),
	)
	if err := ec.GainTreasure(ctx, args.PlayerID, 2+len(attacks), effects.WithSource(args.Card.ID)); err != nil {
		return err
	}
	return ec.ForEachAttackTarget(ctx, args, func(ctx context.Context, target string) error {
		hand := ec.Hand(target)
		if len(hand) < 4 {
			return nil
		}
		selected, err := ec.Select(ctx, target, effects.SelectionRequest{
			Prompt:  "Discard a card",
			CardIDs: hand,
			Min:     1,
			Max:     1,
		}, effects.WithSource(args.Card.ID))
		if err != nil || len(selected) == 0 {
			return err
		}
		return ec.Discard(ctx, target, selected[0], effects.WithSource(args.Card.ID))
	})
}

func playFugitive(ctx context.Context, ec *effects.Context, args effects.PlayArgs) error {
	if err := (effects.Bonus{Cards: 2, Actions: 1}).Apply(ctx, ec, args.PlayerID, args.Card.ID); err != nil {
		return err
	}
	selected, err := ec.Select(ctx, args.PlayerID, effects.SelectionRequest{
		Prompt:  "Discard a card",
		CardIDs: ec.Hand(args.PlayerID),
		Min:     1,
		Max:     1,
	}, effects.WithSource(args.Card.ID))
	if err != nil || len(selected) == 0 {
		return err
	}
	return ec.Discard(ctx, args.PlayerID, selected[0], effects.WithSource(args.Card.ID))
}

// playDisciple plays an Action from hand twice and gains a copy of it.
func playDisciple(ctx context.Context, ec *effects.Context, args effects.PlayArgs) error {
	selected, err := ec.Select(ctx, args.PlayerID, effects.SelectionRequest{
		Prompt:  "You may play an Action card twice",
		CardIDs: ec.Finder.Find(cards.InZone(cards.ZoneHand, args.PlayerID), cards.OfType(cards.TypeAction)),
		Min:     0,
		Max:     1,
	}, effects.WithSource(args.Card.ID))
	if err != nil || len(selected) == 0 {
		return err
	}
	chosen, err := ec.Card(selected[0])
	if err != nil {
		return err
	}
	for i := 0; i < 2; i++ {
		if err := ec.Play(ctx, args.PlayerID, chosen.ID, effects.WithSource(args.Card.ID)); err != nil {
			return err
		}
	}
	ok, err := ec.GainFromSupply(ctx, args.PlayerID, chosen.Key, effects.WithSource(args.Card.ID))
	if err == nil && !ok {
		ec.Logger.Debug("no copy to gain", zap.String("card_key", chosen.Key))
	}
	return err
}
