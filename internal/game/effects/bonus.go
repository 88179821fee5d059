package effects

import (
	"context"

	"github.com/thraizz/dominion-server-go/internal/game/cards"
)

// Bonus is the common "+N Cards, +N Actions, +N Buys, +N Treasure" text.
type Bonus struct {
	Cards    int
	Actions  int
	Buys     int
	Treasure int
}

// Apply grants the bonus to playerID in printed order.
func (b Bonus) Apply(ctx context.Context, ec *Context, playerID string, source cards.ID) error {
	if b.Cards > 0 {
		if _, err := ec.DrawCards(ctx, playerID, b.Cards, WithSource(source)); err != nil {
			return err
		}
	}
	if b.Actions != 0 {
		if err := ec.GainActions(ctx, playerID, b.Actions, WithSource(source)); err != nil {
			return err
		}
	}
	if b.Buys != 0 {
		if err := ec.GainBuys(ctx, playerID, b.Buys, WithSource(source)); err != nil {
			return err
		}
	}
	if b.Treasure != 0 {
		if err := ec.GainTreasure(ctx, playerID, b.Treasure, WithSource(source)); err != nil {
			return err
		}
	}
	return nil
}

// Play returns a PlayFunc that only applies the bonus.
func (b Bonus) Play() PlayFunc {
	return func(ctx context.Context, ec *Context, args PlayArgs) error {
		return b.Apply(ctx, ec, args.PlayerID, args.Card.ID)
	}
}
