package effects

import (
	"context"
	"fmt"

	"github.com/thraizz/dominion-server-go/internal/game/cards"
	"github.com/thraizz/dominion-server-go/internal/game/match"
	"github.com/thraizz/dominion-server-go/internal/game/rules"
	"go.uber.org/zap"
)

// Duration tracks one play of a duration card: the card and the turn it was
// played on. Conditions read it instead of capturing loose variables.
type Duration struct {
	ec         *Context
	Card       *cards.Card
	PlayedTurn int
}

// NewDuration starts tracking card, played on the current turn.
func NewDuration(ec *Context, card *cards.Card) *Duration {
	return &Duration{ec: ec, Card: card, PlayedTurn: ec.Match.TurnNumber}
}

// OnOwnersNextTurn is a condition that holds for turn events of the card's
// owner on any turn after the one it was played on.
func (d *Duration) OnOwnersNextTurn(args rules.ReactionArgs) bool {
	return args.Event.PlayerID == d.Card.Owner && args.Event.TurnNumber > d.PlayedTurn
}

// SystemID is the id of the bookkeeping template that parks the card.
func (d *Duration) SystemID() string {
	return rules.DeriveID(d.Card.Key, d.Card.ID, rules.EventStartTurnPhase) + ":system"
}

// Register keeps the card in play through this turn's cleanup and registers
// the delayed templates.
//
// Templates default to the card as source, its owner as player, the
// while-in-play lifetime and a derived id; callers registering more than one
// template per event must set distinct ids. Once a once-template fires, the
// card returns from the active duration zone to the play area so the next
// cleanup discards it.
func (d *Duration) Register(templates ...rules.ReactionTemplate) ([]string, error) {
	owner := d.Card.Owner
	playArea := cards.At(cards.ZonePlayArea, owner)
	active := cards.At(cards.ZoneActiveDuration, owner)

	if _, err := d.ec.Reactions.RegisterSystem(rules.ReactionTemplate{
		ID:           d.SystemID(),
		ListeningFor: rules.EventStartTurnPhase,
		PlayerID:     owner,
		SourceCardID: d.Card.ID,
		Lifetime:     rules.LifetimeWhileInPlay,
		Once:         true,
		Compulsory:   true,
		Condition: func(args rules.ReactionArgs) bool {
			return args.Event.Phase == match.PhaseCleanup &&
				args.Event.TurnNumber == d.PlayedTurn &&
				d.ec.Sources.Contains(playArea, d.Card.ID)
		},
		TriggeredEffect: func(ctx context.Context, _ rules.ReactionArgs) (rules.ReactionResult, error) {
			return rules.ResultNone, d.ec.Move(ctx, owner, d.Card.ID, active, WithSource(d.Card.ID))
		},
	}); err != nil {
		return nil, fmt.Errorf("register duration %s: %w", d.Card, err)
	}

	ids := make([]string, 0, len(templates))
	for _, t := range templates {
		if t.ListeningFor == "" {
			return ids, fmt.Errorf("register duration %s: %w: no event type", d.Card, rules.ErrInvalidReaction)
		}
		if t.ID == "" {
			t.ID = rules.DeriveID(d.Card.Key, d.Card.ID, t.ListeningFor)
		}
		if t.PlayerID == "" {
			t.PlayerID = owner
		}
		t.SourceCardID = d.Card.ID
		if t.Lifetime == rules.LifetimeManual {
			t.Lifetime = rules.LifetimeWhileInPlay
		}
		if t.Once && t.TriggeredEffect != nil {
			t.TriggeredEffect = d.returnToPlay(t.TriggeredEffect)
		}
		id, err := d.ec.Reactions.Register(t)
		if err != nil {
			return ids, fmt.Errorf("register duration %s: %w", d.Card, err)
		}
		ids = append(ids, id)
	}

	d.ec.Logger.Debug("duration registered",
		zap.String("card_key", d.Card.Key),
		zap.Int("card_id", int(d.Card.ID)),
		zap.Int("turn", d.PlayedTurn),
		zap.Strings("reaction_ids", ids),
	)
	return ids, nil
}

func (d *Duration) returnToPlay(effect func(context.Context, rules.ReactionArgs) (rules.ReactionResult, error)) func(context.Context, rules.ReactionArgs) (rules.ReactionResult, error) {
	return func(ctx context.Context, args rules.ReactionArgs) (rules.ReactionResult, error) {
		result, err := effect(ctx, args)
		if err != nil {
			return result, err
		}
		owner := d.Card.Owner
		if d.ec.Sources.Contains(cards.At(cards.ZoneActiveDuration, owner), d.Card.ID) {
			if err := d.ec.Move(ctx, owner, d.Card.ID, cards.At(cards.ZonePlayArea, owner), WithSource(d.Card.ID)); err != nil {
				return result, err
			}
		}
		return result, nil
	}
}

// RegisterDuration is shorthand for NewDuration(ec, card).Register(templates...).
func RegisterDuration(ec *Context, card *cards.Card, templates ...rules.ReactionTemplate) ([]string, error) {
	return NewDuration(ec, card).Register(templates...)
}
