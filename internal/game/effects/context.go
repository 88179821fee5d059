package effects

import (
	"context"
	"fmt"

	"github.com/thraizz/dominion-server-go/internal/game/cards"
	"github.com/thraizz/dominion-server-go/internal/game/match"
	"github.com/thraizz/dominion-server-go/internal/game/rules"
	"github.com/thraizz/dominion-server-go/internal/game/targeting"
	"go.uber.org/zap"
)

// Context is what card modules see of a running match. Modules change zones
// and counters only through Runner; they register reactions and cost rules
// directly.
type Context struct {
	Match     *match.Match
	Library   *cards.Library
	Sources   *cards.SourceController
	Prices    *cards.PriceController
	Finder    *cards.Finder
	Reactions *rules.ReactionManager
	Runner    ActionRunner
	Logger    *zap.Logger
}

// Run forwards to the action runner.
func (c *Context) Run(ctx context.Context, name ActionName, payload Payload, opts ...ActionOption) (Result, error) {
	return c.Runner.RunGameAction(ctx, name, payload, opts...)
}

// Card looks up a card instance.
func (c *Context) Card(id cards.ID) (*cards.Card, error) {
	return c.Library.Get(id)
}

// Hand returns playerID's hand in order.
func (c *Context) Hand(playerID string) []cards.ID {
	return c.Sources.GetSource(cards.ZoneHand, playerID)
}

// Targets resolves a target specifier relative to start.
func (c *Context) Targets(raw, start string) ([]string, error) {
	return targeting.ResolveTargets(raw, start, c.Match.SeatingOrder())
}

// DrawCards draws count cards for playerID and returns the ids drawn.
func (c *Context) DrawCards(ctx context.Context, playerID string, count int, opts ...ActionOption) ([]cards.ID, error) {
	res, err := c.Run(ctx, ActionDrawCard, Payload{PlayerID: playerID, Count: count}, opts...)
	if err != nil {
		return nil, err
	}
	return res.CardIDs, nil
}

// GainActions adds count actions to playerID's turn.
func (c *Context) GainActions(ctx context.Context, playerID string, count int, opts ...ActionOption) error {
	_, err := c.Run(ctx, ActionGainAction, Payload{PlayerID: playerID, Count: count}, opts...)
	return err
}

// GainBuys adds count buys to playerID's turn.
func (c *Context) GainBuys(ctx context.Context, playerID string, count int, opts ...ActionOption) error {
	_, err := c.Run(ctx, ActionGainBuy, Payload{PlayerID: playerID, Count: count}, opts...)
	return err
}

// GainTreasure adds count treasure to playerID's turn.
func (c *Context) GainTreasure(ctx context.Context, playerID string, count int, opts ...ActionOption) error {
	_, err := c.Run(ctx, ActionGainTreasure, Payload{PlayerID: playerID, Count: count}, opts...)
	return err
}

// GainCard gains cardID for playerID into their discard pile.
func (c *Context) GainCard(ctx context.Context, playerID string, cardID cards.ID, opts ...ActionOption) error {
	return c.GainCardTo(ctx, playerID, cardID, cards.At(cards.ZoneDiscard, playerID), opts...)
}

// GainCardTo gains cardID for playerID into to.
func (c *Context) GainCardTo(ctx context.Context, playerID string, cardID cards.ID, to cards.Location, opts ...ActionOption) error {
	_, err := c.Run(ctx, ActionGainCard, Payload{PlayerID: playerID, CardID: cardID, To: to}, opts...)
	return err
}

// GainFromSupply gains the top card of key's pile. It reports false when the
// pile is empty.
func (c *Context) GainFromSupply(ctx context.Context, playerID, key string, opts ...ActionOption) (bool, error) {
	id, ok := c.Finder.Top(cards.InSupply(), cards.WithKey(key))
	if !ok {
		c.Logger.Debug("supply pile empty", zap.String("card_key", key), zap.String("player_id", playerID))
		return false, nil
	}
	return true, c.GainCard(ctx, playerID, id, opts...)
}

// SupplyPiles returns the top card of every supply pile matching filters,
// in supply order.
func (c *Context) SupplyPiles(filters ...cards.Filter) []cards.ID {
	ids := c.Finder.Find(append([]cards.Filter{cards.InSupply()}, filters...)...)
	top := make(map[string]cards.ID)
	var order []string
	for _, id := range ids {
		card, err := c.Library.Get(id)
		if err != nil {
			continue
		}
		if _, ok := top[card.Key]; !ok {
			order = append(order, card.Key)
		}
		top[card.Key] = id
	}
	piles := make([]cards.ID, 0, len(order))
	for _, key := range order {
		piles = append(piles, top[key])
	}
	return piles
}

// Discard moves cardID to playerID's discard pile.
func (c *Context) Discard(ctx context.Context, playerID string, cardID cards.ID, opts ...ActionOption) error {
	_, err := c.Run(ctx, ActionDiscardCard, Payload{PlayerID: playerID, CardID: cardID}, opts...)
	return err
}

// Trash moves cardID to the trash.
func (c *Context) Trash(ctx context.Context, playerID string, cardID cards.ID, opts ...ActionOption) error {
	_, err := c.Run(ctx, ActionTrashCard, Payload{PlayerID: playerID, CardID: cardID}, opts...)
	return err
}

// Move relocates cardID to to without gaining, discarding or trashing it.
func (c *Context) Move(ctx context.Context, playerID string, cardID cards.ID, to cards.Location, opts ...ActionOption) error {
	_, err := c.Run(ctx, ActionMoveCard, Payload{PlayerID: playerID, CardID: cardID, To: to}, opts...)
	return err
}

// SetAside moves cardID face down into playerID's set-aside zone.
func (c *Context) SetAside(ctx context.Context, playerID string, cardID cards.ID, opts ...ActionOption) error {
	_, err := c.Run(ctx, ActionMoveCard, Payload{
		PlayerID: playerID,
		CardID:   cardID,
		To:       cards.At(cards.ZoneSetAside, playerID),
		Facing:   cards.FacingBack,
	}, opts...)
	return err
}

// Play plays cardID for playerID, as Throne Room does.
func (c *Context) Play(ctx context.Context, playerID string, cardID cards.ID, opts ...ActionOption) error {
	_, err := c.Run(ctx, ActionPlayCard, Payload{PlayerID: playerID, CardID: cardID}, opts...)
	return err
}

// Reveal reveals cardID to all players.
func (c *Context) Reveal(ctx context.Context, playerID string, cardID cards.ID, opts ...ActionOption) error {
	_, err := c.Run(ctx, ActionRevealCard, Payload{PlayerID: playerID, CardID: cardID}, opts...)
	return err
}

// Select asks playerID to choose cards. An empty answer is not an error,
// even when Min asks for more; callers branch on it. Non-empty answers must
// satisfy the request.
func (c *Context) Select(ctx context.Context, playerID string, req SelectionRequest, opts ...ActionOption) ([]cards.ID, error) {
	if len(req.CardIDs) == 0 {
		c.Logger.Debug("nothing to select", zap.String("player_id", playerID), zap.String("prompt", req.Prompt))
		return nil, nil
	}
	if req.Max > len(req.CardIDs) {
		req.Max = len(req.CardIDs)
	}
	if req.Min > req.Max {
		req.Min = req.Max
	}
	res, err := c.Run(ctx, ActionSelectCard, Payload{PlayerID: playerID, Selection: req}, opts...)
	if err != nil {
		return nil, err
	}
	if len(res.CardIDs) == 0 {
		c.Logger.Debug("nothing selected", zap.String("player_id", playerID), zap.String("prompt", req.Prompt))
		return nil, nil
	}
	if err := req.Validate(res.CardIDs); err != nil {
		return nil, fmt.Errorf("select for %s: %w", playerID, err)
	}
	return res.CardIDs, nil
}

// Prompt asks playerID to pick a button and returns its index, or -1.
func (c *Context) Prompt(ctx context.Context, playerID string, req PromptRequest, opts ...ActionOption) (int, error) {
	res, err := c.Run(ctx, ActionUserPrompt, Payload{PlayerID: playerID, Prompt: req}, opts...)
	if err != nil {
		return -1, err
	}
	if res.Choice < -1 || res.Choice >= len(req.Buttons) {
		return -1, fmt.Errorf("prompt for %s: choice %d out of range", playerID, res.Choice)
	}
	return res.Choice, nil
}

// Confirm is a yes/no prompt. It reports true only for the first button.
func (c *Context) Confirm(ctx context.Context, playerID, prompt string, opts ...ActionOption) (bool, error) {
	choice, err := c.Prompt(ctx, playerID, PromptRequest{Prompt: prompt, Buttons: []string{"Yes", "No"}}, opts...)
	return choice == 0, err
}

// ForEachAttackTarget calls fn for each other player, starting left of the
// attacker, skipping players that gained immunity earlier in the chain.
func (c *Context) ForEachAttackTarget(ctx context.Context, args PlayArgs, fn func(ctx context.Context, targetID string) error) error {
	targets, err := c.Targets(string(targeting.TargetAllOther), args.PlayerID)
	if err != nil {
		return err
	}
	for _, target := range targets {
		if args.ReactionContext.HasImmunity(target) {
			c.Logger.Debug("attack target immune",
				zap.String("player_id", target),
				zap.String("card_key", args.Card.Key),
			)
			continue
		}
		if err := fn(ctx, target); err != nil {
			return err
		}
	}
	return nil
}
