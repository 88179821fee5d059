package base

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/thraizz/dominion-server-go/internal/game/cards"
	"github.com/thraizz/dominion-server-go/internal/game/effects"
	"github.com/thraizz/dominion-server-go/internal/game/rules"
	"go.uber.org/zap"
)

func kingdomCards() []effects.Module {
	return []effects.Module{
		{Definition: def("cellar", "Cellar", 2, cards.TypeAction), Play: playCellar},
		{Definition: def("chapel", "Chapel", 2, cards.TypeAction), Play: playChapel},
		{
			Definition: def("moat", "Moat", 2, cards.TypeAction, cards.TypeReaction),
			Play:       effects.Bonus{Cards: 2}.Play(),
			LifeCycle:  effects.LifeCycle{OnEnterHand: moatEnterHand},
		},
		{Definition: def("village", "Village", 3, cards.TypeAction), Play: effects.Bonus{Cards: 1, Actions: 2}.Play()},
		{Definition: def("woodcutter", "Woodcutter", 3, cards.TypeAction), Play: effects.Bonus{Buys: 1, Treasure: 2}.Play()},
		{Definition: def("workshop", "Workshop", 3, cards.TypeAction), Play: playWorkshop},
		{Definition: def("merchant", "Merchant", 3, cards.TypeAction), Play: playMerchant},
		{Definition: def("bridge", "Bridge", 4, cards.TypeAction), Play: playBridge},
		{Definition: def("moneylender", "Moneylender", 4, cards.TypeAction), Play: playMoneylender},
		{Definition: def("remodel", "Remodel", 4, cards.TypeAction), Play: playRemodel},
		{Definition: def("smithy", "Smithy", 4, cards.TypeAction), Play: effects.Bonus{Cards: 3}.Play()},
		{Definition: def("throneRoom", "Throne Room", 4, cards.TypeAction), Play: playThroneRoom},
		{Definition: def("councilRoom", "Council Room", 5, cards.TypeAction), Play: playCouncilRoom},
		{Definition: def("festival", "Festival", 5, cards.TypeAction), Play: effects.Bonus{Actions: 2, Buys: 1, Treasure: 2}.Play()},
		{Definition: def("laboratory", "Laboratory", 5, cards.TypeAction), Play: effects.Bonus{Cards: 2, Actions: 1}.Play()},
		{Definition: def("library", "Library", 5, cards.TypeAction), Play: playLibrary},
		{Definition: def("market", "Market", 5, cards.TypeAction), Play: effects.Bonus{Cards: 1, Actions: 1, Buys: 1, Treasure: 1}.Play()},
		{Definition: def("mine", "Mine", 5, cards.TypeAction), Play: playMine},
	}
}

func playCellar(ctx context.Context, ec *effects.Context, args effects.PlayArgs) error {
	if err := ec.GainActions(ctx, args.PlayerID, 1, effects.WithSource(args.Card.ID)); err != nil {
		return err
	}
	hand := ec.Hand(args.PlayerID)
	selected, err := fromHand(ctx, ec, args.PlayerID, args.Card.ID, "Discard any number of cards", 0, len(hand))
	if err != nil || len(selected) == 0 {
		return err
	}
	for _, id := range selected {
		if err := ec.Discard(ctx, args.PlayerID, id, effects.WithSource(args.Card.ID)); err != nil {
			return err
		}
	}
	_, err = ec.DrawCards(ctx, args.PlayerID, len(selected), effects.WithSource(args.Card.ID))
	return err
}

func playChapel(ctx context.Context, ec *effects.Context, args effects.PlayArgs) error {
	selected, err := fromHand(ctx, ec, args.PlayerID, args.Card.ID, "Trash up to 4 cards", 0, 4)
	if err != nil {
		return err
	}
	for _, id := range selected {
		if err := ec.Trash(ctx, args.PlayerID, id, effects.WithSource(args.Card.ID)); err != nil {
			return err
		}
	}
	return nil
}

// moatEnterHand lets the Moat's owner reveal it while it is in hand to be
// unaffected by another player's attack.
func moatEnterHand(_ context.Context, ec *effects.Context, args effects.LifeCycleArgs) error {
	moat := args.Card
	_, err := ec.Reactions.RegisterFor(moat, rules.EventCardPlayed, rules.ReactionTemplate{
		Lifetime: rules.LifetimeWhileInHand,
		Condition: func(ra rules.ReactionArgs) bool {
			if ra.Event.PlayerID == moat.Owner || ra.Context.HasImmunity(moat.Owner) {
				return false
			}
			played, err := ec.Card(ra.Event.CardID)
			return err == nil && played.Is(cards.TypeAttack)
		},
		TriggeredEffect: func(ctx context.Context, ra rules.ReactionArgs) (rules.ReactionResult, error) {
			reveal, err := ec.Confirm(ctx, moat.Owner, "Reveal Moat to be unaffected by the attack?", effects.WithSource(moat.ID))
			if err != nil || !reveal {
				return rules.ResultNone, err
			}
			if err := ec.Reveal(ctx, moat.Owner, moat.ID, effects.WithSource(moat.ID)); err != nil {
				return rules.ResultNone, err
			}
			return rules.ResultImmunity, nil
		},
	})
	return err
}

func playWorkshop(ctx context.Context, ec *effects.Context, args effects.PlayArgs) error {
	_, err := pickGain(ctx, ec, args.PlayerID, args.Card.ID, 4)
	return err
}

// merchantBonus is the pending "first Silver this turn" bonus of one
// Merchant play.
type merchantBonus struct {
	ec       *effects.Context
	playerID string
	turn     int
	source   cards.ID
}

func (b *merchantBonus) firstSilver(ra rules.ReactionArgs) bool {
	if ra.Event.PlayerID != b.playerID || ra.Event.TurnNumber != b.turn {
		return false
	}
	played, err := b.ec.Card(ra.Event.CardID)
	if err != nil || played.Key != "silver" {
		return false
	}
	silvers := 0
	for _, rec := range b.ec.Match.Stats.PlaysDuringTurn(b.turn, b.playerID) {
		if c, err := b.ec.Card(rec.CardID); err == nil && c.Key == "silver" {
			silvers++
		}
	}
	return silvers == 1
}

func (b *merchantBonus) apply(ctx context.Context, _ rules.ReactionArgs) (rules.ReactionResult, error) {
	return rules.ResultNone, b.ec.GainTreasure(ctx, b.playerID, 1, effects.WithSource(b.source))
}

func playMerchant(ctx context.Context, ec *effects.Context, args effects.PlayArgs) error {
	if err := (effects.Bonus{Cards: 1, Actions: 1}).Apply(ctx, ec, args.PlayerID, args.Card.ID); err != nil {
		return err
	}
	bonus := &merchantBonus{ec: ec, playerID: args.PlayerID, turn: ec.Match.TurnNumber, source: args.Card.ID}
	_, err := ec.Reactions.RegisterFor(args.Card, rules.EventCardPlayed, rules.ReactionTemplate{
		Lifetime:               rules.LifetimeWhileInPlay,
		Once:                   true,
		Compulsory:             true,
		AllowMultipleInstances: true,
		Condition:              bonus.firstSilver,
		TriggeredEffect:        bonus.apply,
	})
	return err
}

func playBridge(ctx context.Context, ec *effects.Context, args effects.PlayArgs) error {
	if err := (effects.Bonus{Buys: 1, Treasure: 1}).Apply(ctx, ec, args.PlayerID, args.Card.ID); err != nil {
		return err
	}
	// Each play stacks; rules are cleared at cleanup.
	ec.Prices.AddRule(cards.CostRule{
		ID:       fmt.Sprintf("bridge:%d:%s", args.Card.ID, uuid.NewString()),
		Treasure: -1,
	})
	return nil
}

func playMoneylender(ctx context.Context, ec *effects.Context, args effects.PlayArgs) error {
	selected, err := fromHand(ctx, ec, args.PlayerID, args.Card.ID, "You may trash a Copper", 0, 1, cards.WithKey("copper"))
	if err != nil || len(selected) == 0 {
		return err
	}
	if err := ec.Trash(ctx, args.PlayerID, selected[0], effects.WithSource(args.Card.ID)); err != nil {
		return err
	}
	return ec.GainTreasure(ctx, args.PlayerID, 3, effects.WithSource(args.Card.ID))
}

func playRemodel(ctx context.Context, ec *effects.Context, args effects.PlayArgs) error {
	selected, err := fromHand(ctx, ec, args.PlayerID, args.Card.ID, "Trash a card", 1, 1)
	if err != nil || len(selected) == 0 {
		return err
	}
	trashed, err := ec.Card(selected[0])
	if err != nil {
		return err
	}
	cost := ec.Prices.ApplyRules(trashed, args.PlayerID)
	if err := ec.Trash(ctx, args.PlayerID, trashed.ID, effects.WithSource(args.Card.ID)); err != nil {
		return err
	}
	_, err = pickGain(ctx, ec, args.PlayerID, args.Card.ID, cost.Treasure+2)
	return err
}

func playThroneRoom(ctx context.Context, ec *effects.Context, args effects.PlayArgs) error {
	selected, err := fromHand(ctx, ec, args.PlayerID, args.Card.ID, "Choose an Action to play twice", 0, 1, cards.OfType(cards.TypeAction))
	if err != nil || len(selected) == 0 {
		return err
	}
	for i := 0; i < 2; i++ {
		if err := ec.Play(ctx, args.PlayerID, selected[0], effects.WithSource(args.Card.ID)); err != nil {
			return err
		}
	}
	return nil
}

func playCouncilRoom(ctx context.Context, ec *effects.Context, args effects.PlayArgs) error {
	if err := (effects.Bonus{Cards: 4, Buys: 1}).Apply(ctx, ec, args.PlayerID, args.Card.ID); err != nil {
		return err
	}
	others, err := ec.Targets("ALL_OTHER", args.PlayerID)
	if err != nil {
		return err
	}
	for _, other := range others {
		if _, err := ec.DrawCards(ctx, other, 1, effects.WithSource(args.Card.ID)); err != nil {
			return err
		}
	}
	return nil
}

// playLibrary draws to seven cards, optionally setting aside Actions, which
// are discarded afterwards.
func playLibrary(ctx context.Context, ec *effects.Context, args effects.PlayArgs) error {
	var setAside []cards.ID
	for len(ec.Hand(args.PlayerID)) < 7 {
		drawn, err := ec.DrawCards(ctx, args.PlayerID, 1, effects.WithSource(args.Card.ID))
		if err != nil {
			return err
		}
		if len(drawn) == 0 {
			break
		}
		card, err := ec.Card(drawn[0])
		if err != nil {
			return err
		}
		if !card.Is(cards.TypeAction) {
			continue
		}
		skip, err := ec.Confirm(ctx, args.PlayerID, fmt.Sprintf("Set aside %s?", card.Name), effects.WithSource(args.Card.ID))
		if err != nil {
			return err
		}
		if skip {
			if err := ec.Move(ctx, args.PlayerID, card.ID, cards.At(cards.ZoneSetAside, args.PlayerID), effects.WithSource(args.Card.ID)); err != nil {
				return err
			}
			setAside = append(setAside, card.ID)
		}
	}
	for _, id := range setAside {
		if err := ec.Discard(ctx, args.PlayerID, id, effects.WithSource(args.Card.ID)); err != nil {
			return err
		}
	}
	ec.Logger.Debug("library resolved",
		zap.String("player_id", args.PlayerID),
		zap.Int("set_aside", len(setAside)),
	)
	return nil
}

func playMine(ctx context.Context, ec *effects.Context, args effects.PlayArgs) error {
	selected, err := fromHand(ctx, ec, args.PlayerID, args.Card.ID, "Trash a Treasure", 0, 1, cards.OfType(cards.TypeTreasure))
	if err != nil || len(selected) == 0 {
		return err
	}
	trashed, err := ec.Card(selected[0])
	if err != nil {
		return err
	}
	cost := ec.Prices.ApplyRules(trashed, args.PlayerID)
	if err := ec.Trash(ctx, args.PlayerID, trashed.ID, effects.WithSource(args.Card.ID)); err != nil {
		return err
	}
	piles := ec.SupplyPiles(cards.OfType(cards.TypeTreasure), cards.CostUpTo(args.PlayerID, cards.Cost{Treasure: cost.Treasure + 3}))
	gain, err := ec.Select(ctx, args.PlayerID, effects.SelectionRequest{
		Prompt:  "Gain a Treasure to your hand",
		CardIDs: piles,
		Min:     1,
		Max:     1,
	}, effects.WithSource(args.Card.ID))
	if err != nil || len(gain) == 0 {
		return err
	}
	return ec.GainCardTo(ctx, args.PlayerID, gain[0], cards.At(cards.ZoneHand, args.PlayerID), effects.WithSource(args.Card.ID))
}
