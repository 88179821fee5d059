package game

import (
	"context"
	"fmt"

	"github.com/thraizz/dominion-server-go/internal/game/cards"
	"github.com/thraizz/dominion-server-go/internal/game/effects"
	"github.com/thraizz/dominion-server-go/internal/game/match"
	"github.com/thraizz/dominion-server-go/internal/game/rules"
	"go.uber.org/zap"
)

// checkActor rejects commands from anyone but the current player.
func (st *matchState) checkActor(playerID string) error {
	if st.over {
		return ErrMatchOver
	}
	if _, err := st.match.PlayerIndex(playerID); err != nil {
		return err
	}
	if !st.match.IsCurrentPlayer(playerID) {
		return fmt.Errorf("%w: %s", ErrNotYourTurn, playerID)
	}
	return nil
}

// startTurn announces the current turn and its action phase.
func (st *matchState) startTurn(ctx context.Context) error {
	st.logger.Debug("turn started",
		zap.Int("turn", st.match.TurnNumber),
		zap.String("player_id", st.match.CurrentPlayer().ID),
	)
	if err := st.emit(ctx, rules.NewTurnEvent(rules.EventStartTurn, st.match), nil); err != nil {
		return err
	}
	return st.emit(ctx, rules.NewTurnEvent(rules.EventStartTurnPhase, st.match), nil)
}

// advancePhase ends the current phase and starts the next one. Entering
// cleanup runs it to completion and passes the turn.
func (st *matchState) advancePhase(ctx context.Context) error {
	if st.match.TurnPhase == match.PhaseCleanup {
		return st.finishCleanup(ctx)
	}
	if err := st.emit(ctx, rules.NewTurnEvent(rules.EventEndTurnPhase, st.match), nil); err != nil {
		return err
	}
	next, _ := st.turns.AdvancePhase()
	if err := st.emit(ctx, rules.NewTurnEvent(rules.EventStartTurnPhase, st.match), nil); err != nil {
		return err
	}
	if next == match.PhaseCleanup {
		return st.cleanup(ctx)
	}
	return nil
}

// endTurn runs the remaining phases of the current turn.
func (st *matchState) endTurn(ctx context.Context) error {
	turn := st.match.TurnNumber
	for st.match.TurnNumber == turn && !st.over {
		if err := st.advancePhase(ctx); err != nil {
			return err
		}
	}
	return nil
}

// cleanup discards the play area and hand, draws a new hand and passes the
// turn. Duration cards were moved out of the play area by their own
// templates when the cleanup phase started.
func (st *matchState) cleanup(ctx context.Context) error {
	playerID := st.match.CurrentPlayer().ID
	for _, zone := range []cards.Zone{cards.ZonePlayArea, cards.ZoneHand} {
		for _, id := range st.sources.GetSource(zone, playerID) {
			// An earlier discard may have exchanged or moved this card.
			if !st.sources.Contains(cards.At(zone, playerID), id) {
				continue
			}
			if _, err := st.RunGameAction(ctx, effects.ActionDiscardCard, effects.Payload{PlayerID: playerID, CardID: id}); err != nil {
				return err
			}
		}
	}
	if _, err := st.RunGameAction(ctx, effects.ActionDrawCard, effects.Payload{PlayerID: playerID, Count: st.engine.options.HandSize}); err != nil {
		return err
	}
	st.prices.ClearRules()
	return st.finishCleanup(ctx)
}

func (st *matchState) finishCleanup(ctx context.Context) error {
	if err := st.emit(ctx, rules.NewTurnEvent(rules.EventEndTurnPhase, st.match), nil); err != nil {
		return err
	}
	if err := st.emit(ctx, rules.NewTurnEvent(rules.EventEndTurn, st.match), nil); err != nil {
		return err
	}
	if st.gameOver() {
		st.over = true
		st.logger.Info("match over",
			zap.Int("turn", st.match.TurnNumber),
			zap.Any("scores", st.scores()),
		)
		return nil
	}
	st.turns.AdvancePhase()
	return st.startTurn(ctx)
}

// gameOver reports whether the Province pile or any three supply piles are
// empty.
func (st *matchState) gameOver() bool {
	if _, ok := st.finder.Top(cards.InSupply(), cards.WithKey("province")); !ok {
		return true
	}
	empty := 0
	keys := append(append([]string(nil), basicSupply...), st.engine.options.Kingdom...)
	for _, key := range keys {
		if _, ok := st.finder.Top(cards.InSupply(), cards.WithKey(key)); !ok {
			empty++
		}
	}
	return empty >= 3
}

// playFromHand plays a card from the current player's hand, spending an
// action for action cards. Playing a treasure ends the action phase.
func (st *matchState) playFromHand(ctx context.Context, playerID string, cardID cards.ID) error {
	if err := st.checkActor(playerID); err != nil {
		return err
	}
	card, err := st.library.Get(cardID)
	if err != nil {
		return err
	}
	if !st.sources.Contains(cards.At(cards.ZoneHand, playerID), cardID) {
		return fmt.Errorf("%w: %s is not in %s's hand", ErrIllegalMove, card, playerID)
	}

	switch {
	case card.Is(cards.TypeAction):
		if st.match.TurnPhase != match.PhaseAction {
			return fmt.Errorf("%w: actions are played in the action phase", ErrIllegalMove)
		}
		if st.match.PlayerActions <= 0 {
			return fmt.Errorf("%w: no actions left", ErrIllegalMove)
		}
		st.match.PlayerActions--
	case card.Is(cards.TypeTreasure):
		if st.match.TurnPhase == match.PhaseAction {
			if err := st.advancePhase(ctx); err != nil {
				return err
			}
		}
		if st.match.TurnPhase != match.PhaseBuy {
			return fmt.Errorf("%w: treasures are played in the buy phase", ErrIllegalMove)
		}
	default:
		return fmt.Errorf("%w: %s cannot be played", ErrIllegalMove, card)
	}

	_, err = st.RunGameAction(ctx, effects.ActionPlayCard, effects.Payload{PlayerID: playerID, CardID: cardID})
	return err
}

// buy gains the top card of key's supply pile for the current player.
func (st *matchState) buy(ctx context.Context, playerID, key string) error {
	if err := st.checkActor(playerID); err != nil {
		return err
	}
	if st.match.TurnPhase == match.PhaseAction {
		if err := st.advancePhase(ctx); err != nil {
			return err
		}
	}
	if st.match.TurnPhase != match.PhaseBuy {
		return fmt.Errorf("%w: not in the buy phase", ErrIllegalMove)
	}
	if st.match.PlayerBuys <= 0 {
		return fmt.Errorf("%w: no buys left", ErrIllegalMove)
	}
	id, ok := st.finder.Top(cards.InSupply(), cards.WithKey(key))
	if !ok {
		return fmt.Errorf("%w: %s pile is empty", ErrIllegalMove, key)
	}
	card := st.library.MustGet(id)
	cost := st.prices.ApplyRules(card, playerID)
	if cost.Potion > 0 || cost.Treasure > st.match.PlayerTreasure {
		return fmt.Errorf("%w: %s costs %d, have %d", ErrIllegalMove, card.Name, cost.Treasure, st.match.PlayerTreasure)
	}

	st.match.PlayerBuys--
	st.match.PlayerTreasure -= cost.Treasure
	_, err := st.RunGameAction(ctx, effects.ActionGainCard, effects.Payload{PlayerID: playerID, CardID: id, Bought: true})
	return err
}

// scores sums the scoring functions of every card each player owns outside
// the trash.
func (st *matchState) scores() map[string]int {
	owned := make(map[string][]*cards.Card)
	for _, id := range st.library.IDs() {
		card := st.library.MustGet(id)
		if card.Owner == "" {
			continue
		}
		if loc, ok := st.sources.Locate(id); !ok || loc.Zone.Shared() {
			continue
		}
		owned[card.Owner] = append(owned[card.Owner], card)
	}

	scores := make(map[string]int, len(st.match.Players))
	for _, player := range st.match.Players {
		total := 0
		for _, card := range owned[player.ID] {
			module, err := st.engine.registry.Lookup(card.Key)
			if err != nil || module.Score == nil {
				continue
			}
			total += module.Score(effects.ScoreArgs{PlayerID: player.ID, Card: card, OwnedCards: owned[player.ID]})
		}
		scores[player.ID] = total
	}
	return scores
}
