package game

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/thraizz/dominion-server-go/internal/game/cards"
	"github.com/thraizz/dominion-server-go/internal/game/match"
	"go.uber.org/zap"
)

// Strategy plays whole turns for a seat through the public engine API.
// Prompts raised mid-turn go to the engine's Decider.
type Strategy interface {
	Name() string
	PlayTurn(ctx context.Context, e *Engine, matchID, playerID string) error
}

// BigMoney plays every treasure and buys the most expensive money or
// victory card it can afford. With a Terminal set, it also buys up to
// MaxTerminals copies of that action and plays it whenever it can.
type BigMoney struct {
	Terminal     string
	MaxTerminals int
}

// Name implements Strategy.
func (b BigMoney) Name() string {
	if b.Terminal == "" {
		return "bigMoney"
	}
	return "bigMoney-" + b.Terminal
}

// PlayTurn implements Strategy.
func (b BigMoney) PlayTurn(ctx context.Context, e *Engine, matchID, playerID string) error {
	if b.Terminal != "" {
		if err := b.playActions(ctx, e, matchID, playerID); err != nil {
			return err
		}
	}

	view, err := e.GetMatchView(matchID, playerID)
	if err != nil {
		return err
	}
	for _, c := range handOf(view, playerID) {
		if !hasType(c.Types, cards.TypeTreasure) {
			continue
		}
		if err := e.PlayCard(ctx, matchID, playerID, c.ID); err != nil {
			return err
		}
	}

	if view, err = e.GetMatchView(matchID, playerID); err != nil {
		return err
	}
	if key := b.choose(view); key != "" {
		if err := e.BuyCard(ctx, matchID, playerID, key); err != nil && !errors.Is(err, ErrIllegalMove) {
			return err
		}
	}
	return e.EndTurn(ctx, matchID, playerID)
}

func (b BigMoney) playActions(ctx context.Context, e *Engine, matchID, playerID string) error {
	for {
		view, err := e.GetMatchView(matchID, playerID)
		if err != nil {
			return err
		}
		if view.Actions <= 0 || view.Phase != match.PhaseAction {
			return nil
		}
		var next *CardView
		for _, c := range handOf(view, playerID) {
			if c.Key == b.Terminal {
				c := c
				next = &c
				break
			}
		}
		if next == nil {
			return nil
		}
		if err := e.PlayCard(ctx, matchID, playerID, next.ID); err != nil {
			return err
		}
	}
}

func (b BigMoney) choose(view MatchView) string {
	treasure := view.Treasure
	switch {
	case treasure >= 8 && view.Supply["province"] > 0:
		return "province"
	case treasure >= 6 && view.Supply["gold"] > 0:
		return "gold"
	case b.Terminal != "" && treasure >= 4 && view.Supply[b.Terminal] > 0 && b.bought(view) < b.MaxTerminals:
		return b.Terminal
	case treasure >= 3 && view.Supply["silver"] > 0:
		return "silver"
	}
	return ""
}

// bought approximates the terminal copies taken so far by what the supply
// pile lost; decks are hidden from views.
func (b BigMoney) bought(view MatchView) int {
	return kingdomPileSize - view.Supply[b.Terminal]
}

func handOf(view MatchView, playerID string) []CardView {
	for _, p := range view.Players {
		if p.PlayerID == playerID {
			return p.Hand
		}
	}
	return nil
}

func hasType(types []cards.Type, t cards.Type) bool {
	for _, have := range types {
		if have == t {
			return true
		}
	}
	return false
}

type paced struct {
	Strategy
	delay time.Duration
}

// Paced waits delay before each of s's turns so spectators can follow.
func Paced(s Strategy, delay time.Duration) Strategy {
	if delay <= 0 {
		return s
	}
	return paced{Strategy: s, delay: delay}
}

func (p paced) PlayTurn(ctx context.Context, e *Engine, matchID, playerID string) error {
	timer := time.NewTimer(p.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}
	return p.Strategy.PlayTurn(ctx, e, matchID, playerID)
}

// Strategies returns the built-in strategies keyed by name.
func Strategies() map[string]Strategy {
	all := []Strategy{
		BigMoney{},
		BigMoney{Terminal: "smithy", MaxTerminals: 1},
		BigMoney{Terminal: "militia", MaxTerminals: 2},
		BigMoney{Terminal: "witch", MaxTerminals: 2},
	}
	byName := make(map[string]Strategy, len(all))
	for _, s := range all {
		byName[s.Name()] = s
	}
	return byName
}

// StrategyNames returns the built-in strategy names, sorted.
func StrategyNames() []string {
	names := make([]string, 0)
	for name := range Strategies() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PlayOut drives a match with one strategy per seat until it ends or
// maxTurns turns have been played. It reports whether the match ended.
func (e *Engine) PlayOut(ctx context.Context, matchID string, seats map[string]Strategy, maxTurns int) (bool, error) {
	for turn := 0; turn < maxTurns; turn++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		view, err := e.lookupView(matchID)
		if err != nil {
			return false, err
		}
		if view.Over {
			return true, nil
		}
		strategy, ok := seats[view.ActivePlayerID]
		if !ok {
			return false, fmt.Errorf("no strategy for player %s", view.ActivePlayerID)
		}
		if err := strategy.PlayTurn(ctx, e, matchID, view.ActivePlayerID); err != nil {
			return false, fmt.Errorf("turn %d (%s, %s): %w", view.TurnNumber, view.ActivePlayerID, strategy.Name(), err)
		}
	}
	over, err := e.IsOver(matchID)
	if err == nil && !over {
		e.logger.Debug("turn limit reached", zap.String("match_id", matchID), zap.Int("max_turns", maxTurns))
	}
	return over, err
}

// lookupView returns the match view of whoever is to act.
func (e *Engine) lookupView(matchID string) (MatchView, error) {
	var view MatchView
	err := e.withMatch(matchID, func(st *matchState) error {
		view = st.view(st.match.CurrentPlayer().ID)
		return nil
	})
	return view, err
}
