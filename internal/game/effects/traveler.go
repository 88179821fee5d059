package effects

import (
	"context"
	"fmt"

	"github.com/thraizz/dominion-server-go/internal/game/cards"
	"go.uber.org/zap"
)

// ExchangeTraveler offers the owner of a traveler discarded from play the
// chance to exchange it for the next card in its chain. On acceptance the
// traveler returns to its pile and the upgrade is gained to discard.
func ExchangeTraveler(ctx context.Context, ec *Context, args LifeCycleArgs, upgradeKey string) error {
	if !args.From.Zone.InPlay() {
		return nil
	}
	card := args.Card
	owner := card.Owner

	upgradeID, ok := ec.Finder.Top(cards.InZone(cards.ZoneNonSupply, ""), cards.WithKey(upgradeKey))
	if !ok {
		ec.Logger.Debug("no traveler upgrade left",
			zap.String("card_key", card.Key),
			zap.String("upgrade_key", upgradeKey),
		)
		return nil
	}
	upgrade, err := ec.Card(upgradeID)
	if err != nil {
		return err
	}

	choice, err := ec.Prompt(ctx, owner, PromptRequest{
		Prompt:  fmt.Sprintf("Exchange %s for %s?", card.Name, upgrade.Name),
		Buttons: []string{"Exchange", "Keep"},
	}, WithSource(card.ID))
	if err != nil {
		return err
	}
	if choice != 0 {
		return nil
	}

	home, ok := ec.Library.Home(card.Key)
	if !ok {
		home = cards.ZoneNonSupply
	}
	if err := ec.Move(ctx, owner, card.ID, cards.At(home, ""), WithSource(card.ID)); err != nil {
		return err
	}
	return ec.GainCard(ctx, owner, upgradeID, WithSource(card.ID))
}
