// Package seaside holds duration card modules from Seaside.
package seaside

import (
	"context"

	"github.com/thraizz/dominion-server-go/internal/game/cards"
	"github.com/thraizz/dominion-server-go/internal/game/effects"
	"github.com/thraizz/dominion-server-go/internal/game/rules"
)

// Register adds every Seaside card module to reg.
func Register(reg *effects.Registry) error {
	return reg.Register(Modules()...)
}

// Modules returns the Seaside card modules.
func Modules() []effects.Module {
	return []effects.Module{
		durationBonus("caravan", "Caravan", 4, effects.Bonus{Cards: 1, Actions: 1}, effects.Bonus{Cards: 1}),
		durationBonus("fishingVillage", "Fishing Village", 3, effects.Bonus{Actions: 2, Treasure: 1}, effects.Bonus{Actions: 1, Treasure: 1}),
		durationBonus("merchantShip", "Merchant Ship", 5, effects.Bonus{Treasure: 2}, effects.Bonus{Treasure: 2}),
		durationBonus("wharf", "Wharf", 5, effects.Bonus{Cards: 2, Buys: 1}, effects.Bonus{Cards: 2, Buys: 1}),
		{Definition: def("lighthouse", "Lighthouse", 2), Play: playLighthouse},
		{Definition: def("haven", "Haven", 2), Play: playHaven},
	}
}

func def(key, name string, cost int) cards.Definition {
	return cards.Definition{
		Key:   key,
		Name:  name,
		Types: []cards.Type{cards.TypeAction, cards.TypeDuration},
		Cost:  cards.Cost{Treasure: cost},
	}
}

// nextTurn is the usual delayed template: once, at the start of the owner's
// next turn. Playing the card twice, as with Throne Room, schedules it twice.
func nextTurn(d *effects.Duration, fn func(ctx context.Context) error) rules.ReactionTemplate {
	return rules.ReactionTemplate{
		ListeningFor:           rules.EventStartTurn,
		Once:                   true,
		Compulsory:             true,
		AllowMultipleInstances: true,
		Condition:              d.OnOwnersNextTurn,
		TriggeredEffect: func(ctx context.Context, _ rules.ReactionArgs) (rules.ReactionResult, error) {
			return rules.ResultNone, fn(ctx)
		},
	}
}

// durationBonus builds a card granting now on play and later at the start
// of the owner's next turn.
func durationBonus(key, name string, cost int, now, later effects.Bonus) effects.Module {
	return effects.Module{
		Definition: def(key, name, cost),
		Play: func(ctx context.Context, ec *effects.Context, args effects.PlayArgs) error {
			if err := now.Apply(ctx, ec, args.PlayerID, args.Card.ID); err != nil {
				return err
			}
			d := effects.NewDuration(ec, args.Card)
			_, err := d.Register(nextTurn(d, func(ctx context.Context) error {
				return later.Apply(ctx, ec, args.Card.Owner, args.Card.ID)
			}))
			return err
		},
	}
}

// playLighthouse grants +1 Action and +1 Treasure now and next turn; while
// it stays in play its owner is unaffected by attacks.
func playLighthouse(ctx context.Context, ec *effects.Context, args effects.PlayArgs) error {
	if err := (effects.Bonus{Actions: 1, Treasure: 1}).Apply(ctx, ec, args.PlayerID, args.Card.ID); err != nil {
		return err
	}
	owner := args.Card.Owner
	d := effects.NewDuration(ec, args.Card)
	_, err := d.Register(
		nextTurn(d, func(ctx context.Context) error {
			return ec.GainTreasure(ctx, owner, 1, effects.WithSource(args.Card.ID))
		}),
		rules.ReactionTemplate{
			ListeningFor: rules.EventCardPlayed,
			Compulsory:   true,
			Condition: func(ra rules.ReactionArgs) bool {
				if ra.Event.PlayerID == owner {
					return false
				}
				played, err := ec.Card(ra.Event.CardID)
				return err == nil && played.Is(cards.TypeAttack)
			},
			TriggeredEffect: func(context.Context, rules.ReactionArgs) (rules.ReactionResult, error) {
				return rules.ResultImmunity, nil
			},
		},
	)
	return err
}

// haven is one Haven play and the card it set aside.
type haven struct {
	ec       *effects.Context
	owner    string
	source   cards.ID
	setAside cards.ID
}

func (h *haven) returnToHand(ctx context.Context) error {
	if !h.ec.Sources.Contains(cards.At(cards.ZoneSetAside, h.owner), h.setAside) {
		return nil
	}
	return h.ec.Move(ctx, h.owner, h.setAside, cards.At(cards.ZoneHand, h.owner), effects.WithSource(h.source))
}

// playHaven sets a card from hand aside face down and returns it to hand at
// the start of the owner's next turn.
func playHaven(ctx context.Context, ec *effects.Context, args effects.PlayArgs) error {
	if err := (effects.Bonus{Cards: 1, Actions: 1}).Apply(ctx, ec, args.PlayerID, args.Card.ID); err != nil {
		return err
	}
	selected, err := ec.Select(ctx, args.PlayerID, effects.SelectionRequest{
		Prompt:  "Set aside a card",
		CardIDs: ec.Hand(args.PlayerID),
		Min:     1,
		Max:     1,
	}, effects.WithSource(args.Card.ID))
	if err != nil || len(selected) == 0 {
		return err
	}
	if err := ec.SetAside(ctx, args.PlayerID, selected[0], effects.WithSource(args.Card.ID)); err != nil {
		return err
	}

	h := &haven{ec: ec, owner: args.Card.Owner, source: args.Card.ID, setAside: selected[0]}
	d := effects.NewDuration(ec, args.Card)
	_, err = d.Register(nextTurn(d, h.returnToHand))
	return err
}
