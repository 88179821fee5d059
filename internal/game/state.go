package game

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/thraizz/dominion-server-go/internal/game/cards"
	"github.com/thraizz/dominion-server-go/internal/game/effects"
	"github.com/thraizz/dominion-server-go/internal/game/match"
	"github.com/thraizz/dominion-server-go/internal/game/rules"
	"github.com/thraizz/dominion-server-go/internal/game/watchers"
	"go.uber.org/zap"
)

// matchState is everything one match owns. It is the match's only writer:
// card modules reach it through effects.Context.Runner.
type matchState struct {
	engine *Engine
	logger *zap.Logger

	// mu serialises top-level commands. Nested actions issued by effects run
	// under the command that caused them.
	mu sync.Mutex

	match     *match.Match
	library   *cards.Library
	sources   *cards.SourceController
	prices    *cards.PriceController
	finder    *cards.Finder
	reactions *rules.ReactionManager
	bus       *rules.EventBus
	watchers  *rules.WatcherRegistry
	turns     *rules.TurnManager
	effects   *effects.Context
	actions   *ActionLog
	notifier  *notifier

	seed int64
	rng  *rand.Rand
	over bool
}

func newMatchState(e *Engine, players []match.Player) (*matchState, error) {
	m, err := match.New(players)
	if err != nil {
		return nil, err
	}
	logger := e.logger.With(zap.String("match_id", m.ID))

	seed := e.options.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	st := &matchState{
		engine:    e,
		logger:    logger,
		match:     m,
		library:   cards.NewLibrary(),
		sources:   cards.NewSourceController(),
		prices:    cards.NewPriceController(),
		reactions: rules.NewReactionManager(m, logger),
		bus:       rules.NewEventBus(),
		watchers:  rules.NewWatcherRegistry(),
		turns:     rules.NewTurnManager(m),
		actions:   NewActionLog(m.ID),
		notifier:  newNotifier(e.deliverNotification),
		seed:      seed,
		rng:       rand.New(rand.NewSource(seed)),
	}
	st.finder = cards.NewFinder(st.library, st.sources, st.prices)
	st.effects = &effects.Context{
		Match:     m,
		Library:   st.library,
		Sources:   st.sources,
		Prices:    st.prices,
		Finder:    st.finder,
		Reactions: st.reactions,
		Runner:    st,
		Logger:    logger,
	}

	st.watchers.AddWatcher(watchers.NewCardsGainedWatcher(m.Stats))
	st.watchers.AddWatcher(watchers.NewCardsPlayedWatcher(m.Stats))
	st.bus.Subscribe(st.watchers.NotifyWatchers)
	st.bus.Subscribe(func(event rules.Event) {
		st.notifier.push(GameNotification{
			Type:      string(event.Type),
			MatchID:   m.ID,
			PlayerID:  event.PlayerID,
			Timestamp: event.Timestamp,
			Data: map[string]interface{}{
				"card_id": int(event.CardID),
				"turn":    event.TurnNumber,
				"phase":   string(event.Phase),
				"from":    event.From.String(),
				"to":      event.To.String(),
			},
		})
	})

	return st, nil
}

// emit publishes event to the bus and then dispatches it to the reaction
// templates. Bus listeners only observe; reactions may act.
func (st *matchState) emit(ctx context.Context, event rules.Event, rc *rules.ReactionContext) error {
	event.TurnNumber = st.match.TurnNumber
	event.Phase = st.match.TurnPhase
	st.bus.Publish(event)
	return st.reactions.Dispatch(ctx, event, rc)
}

func (st *matchState) cardEvent(eventType rules.EventType, playerID string, card *cards.Card, from, to cards.Location) rules.Event {
	event := rules.NewEvent(eventType, playerID, card.ID)
	event.From = from
	event.To = to
	return event
}

// RunGameAction implements effects.ActionRunner.
func (st *matchState) RunGameAction(ctx context.Context, name effects.ActionName, p effects.Payload, opts ...effects.ActionOption) (effects.Result, error) {
	o := effects.BuildOptions(opts...)
	st.actions.Record(ActionRecord{
		Action:     name,
		PlayerID:   p.PlayerID,
		CardID:     p.CardID,
		Count:      p.Count,
		To:         p.To,
		Source:     o.Source,
		TurnNumber: st.match.TurnNumber,
		Phase:      st.match.TurnPhase,
		Timestamp:  time.Now(),
	})
	st.logger.Debug("game action",
		zap.String("action", string(name)),
		zap.String("player_id", p.PlayerID),
		zap.Int("card_id", int(p.CardID)),
		zap.Int("count", p.Count),
		zap.Int("source", int(o.Source)),
	)

	none := effects.Result{Choice: -1}
	switch name {
	case effects.ActionDrawCard:
		count := p.Count
		if count <= 0 {
			count = 1
		}
		ids, err := st.draw(ctx, p.PlayerID, count, o)
		return effects.Result{CardIDs: ids, Choice: -1}, err
	case effects.ActionGainCard:
		return none, st.gain(ctx, p, o)
	case effects.ActionGainTreasure:
		st.match.PlayerTreasure += p.Count
		return none, nil
	case effects.ActionGainAction:
		st.match.PlayerActions += p.Count
		return none, nil
	case effects.ActionGainBuy:
		st.match.PlayerBuys += p.Count
		return none, nil
	case effects.ActionMoveCard:
		return none, st.moveCard(ctx, p, o)
	case effects.ActionDiscardCard:
		return none, st.discard(ctx, p.PlayerID, p.CardID, o)
	case effects.ActionTrashCard:
		return none, st.trash(ctx, p.PlayerID, p.CardID, o)
	case effects.ActionPlayCard:
		return none, st.play(ctx, p.PlayerID, p.CardID, o)
	case effects.ActionSelectCard:
		ids, err := st.engine.decider.SelectCards(ctx, p.PlayerID, p.Selection)
		return effects.Result{CardIDs: ids, Choice: -1}, err
	case effects.ActionUserPrompt:
		choice, err := st.engine.decider.Prompt(ctx, p.PlayerID, p.Prompt)
		return effects.Result{Choice: choice}, err
	case effects.ActionRevealCard:
		card, err := st.library.Get(p.CardID)
		if err != nil {
			return none, err
		}
		loc, _ := st.sources.Locate(card.ID)
		return none, st.emit(ctx, st.cardEvent(rules.EventCardRevealed, p.PlayerID, card, loc, loc), nil)
	case effects.ActionShuffleDeck:
		return none, st.shuffle(ctx, p.PlayerID)
	default:
		return none, fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
}

// relocate is the single place cards change zone. It keeps ownership and
// facing consistent, sweeps reaction templates whose lifetime ended and runs
// the leave/enter lifecycle hooks.
func (st *matchState) relocate(ctx context.Context, playerID string, card *cards.Card, to cards.Location, facing cards.Facing, o effects.ActionOptions) (cards.Location, error) {
	to = cards.At(to.Zone, to.PlayerID)
	from, _ := st.sources.Put(to, card.ID)

	if to.Zone.Shared() && to.Zone != cards.ZoneTrash {
		card.Owner = ""
	}
	if facing == "" {
		facing = cards.FacingFront
	}
	card.Facing = facing

	args := effects.LifeCycleArgs{PlayerID: playerID, Card: card, From: from, To: to}
	if from.Zone.InPlay() && !to.Zone.InPlay() {
		st.reactions.UnregisterBySource(card.ID, rules.LifetimeWhileInPlay)
		if err := st.runHook(ctx, effects.OnLeavePlay, args, o); err != nil {
			return from, err
		}
	}
	if from.Zone == cards.ZoneHand && to != from {
		st.reactions.UnregisterBySource(card.ID, rules.LifetimeWhileInHand)
		if err := st.runHook(ctx, effects.OnLeaveHand, args, o); err != nil {
			return from, err
		}
	}
	if to.Zone == cards.ZoneHand && to != from {
		if err := st.runHook(ctx, effects.OnEnterHand, args, o); err != nil {
			return from, err
		}
	}
	return from, nil
}

// runHook invokes a card's lifecycle hook unless the action suppressed it.
func (st *matchState) runHook(ctx context.Context, hook effects.LifeCycleEvent, args effects.LifeCycleArgs, o effects.ActionOptions) error {
	if o.Suppresses(hook) {
		return nil
	}
	module, err := st.engine.registry.Lookup(args.Card.Key)
	if err != nil {
		return err
	}
	fn := module.LifeCycle.Hook(hook)
	if fn == nil {
		return nil
	}
	if err := fn(ctx, st.effects, args); err != nil {
		return fmt.Errorf("%s %s: %w", hook, args.Card, err)
	}
	return nil
}

func (st *matchState) draw(ctx context.Context, playerID string, count int, o effects.ActionOptions) ([]cards.ID, error) {
	drawn := make([]cards.ID, 0, count)
	for len(drawn) < count {
		id, ok := st.sources.Top(cards.ZoneDeck, playerID)
		if !ok {
			if len(st.sources.GetSource(cards.ZoneDiscard, playerID)) == 0 {
				st.logger.Debug("nothing left to draw",
					zap.String("player_id", playerID),
					zap.Int("drawn", len(drawn)),
					zap.Int("wanted", count),
				)
				break
			}
			if _, err := st.RunGameAction(ctx, effects.ActionShuffleDeck, effects.Payload{PlayerID: playerID}, effects.WithSource(o.Source)); err != nil {
				return drawn, err
			}
			continue
		}
		card, err := st.library.Get(id)
		if err != nil {
			return drawn, err
		}
		to := cards.At(cards.ZoneHand, playerID)
		from, err := st.relocate(ctx, playerID, card, to, cards.FacingFront, o)
		if err != nil {
			return drawn, err
		}
		drawn = append(drawn, id)
		if err := st.emit(ctx, st.cardEvent(rules.EventCardDrawn, playerID, card, from, to), nil); err != nil {
			return drawn, err
		}
	}
	return drawn, nil
}

// shuffle shuffles the discard pile and puts it under the deck. Cards moved
// here are not discarded and trigger no discard hooks.
func (st *matchState) shuffle(ctx context.Context, playerID string) error {
	deck := cards.At(cards.ZoneDeck, playerID)
	remaining := st.sources.GetSource(cards.ZoneDeck, playerID)
	shuffled := st.sources.GetSource(cards.ZoneDiscard, playerID)
	st.rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	for _, id := range shuffled {
		st.sources.PutBottom(deck, id)
		st.library.MustGet(id).Facing = cards.FacingFront
	}
	if err := st.sources.Replace(deck, append(shuffled, remaining...)); err != nil {
		return err
	}
	event := rules.NewEvent(rules.EventDeckShuffled, playerID, 0)
	event.To = deck
	return st.emit(ctx, event, nil)
}

func (st *matchState) gain(ctx context.Context, p effects.Payload, o effects.ActionOptions) error {
	card, err := st.library.Get(p.CardID)
	if err != nil {
		return err
	}
	to := p.To
	if to.Zone == "" {
		to = cards.At(cards.ZoneDiscard, p.PlayerID)
	}
	card.Owner = p.PlayerID
	from, err := st.relocate(ctx, p.PlayerID, card, to, cards.FacingFront, o)
	if err != nil {
		return err
	}

	event := st.cardEvent(rules.EventCardGained, p.PlayerID, card, from, to)
	event.Bought = p.Bought
	if err := st.emit(ctx, event, nil); err != nil {
		return err
	}
	return st.runHook(ctx, effects.OnGained, effects.LifeCycleArgs{PlayerID: p.PlayerID, Card: card, From: from, To: to}, o)
}

func (st *matchState) moveCard(ctx context.Context, p effects.Payload, o effects.ActionOptions) error {
	card, err := st.library.Get(p.CardID)
	if err != nil {
		return err
	}
	if p.To.Zone == "" {
		return fmt.Errorf("move %s: no destination", card)
	}
	from, err := st.relocate(ctx, p.PlayerID, card, p.To, p.Facing, o)
	if err != nil {
		return err
	}
	return st.emit(ctx, st.cardEvent(rules.EventCardMoved, p.PlayerID, card, from, p.To), nil)
}

func (st *matchState) discard(ctx context.Context, playerID string, cardID cards.ID, o effects.ActionOptions) error {
	card, err := st.library.Get(cardID)
	if err != nil {
		return err
	}
	owner := card.Owner
	if owner == "" {
		owner = playerID
	}
	to := cards.At(cards.ZoneDiscard, owner)
	from, err := st.relocate(ctx, playerID, card, to, cards.FacingFront, o)
	if err != nil {
		return err
	}
	if err := st.emit(ctx, st.cardEvent(rules.EventCardDiscarded, playerID, card, from, to), nil); err != nil {
		return err
	}
	return st.runHook(ctx, effects.OnDiscarded, effects.LifeCycleArgs{PlayerID: playerID, Card: card, From: from, To: to}, o)
}

func (st *matchState) trash(ctx context.Context, playerID string, cardID cards.ID, o effects.ActionOptions) error {
	card, err := st.library.Get(cardID)
	if err != nil {
		return err
	}
	to := cards.At(cards.ZoneTrash, "")
	from, err := st.relocate(ctx, playerID, card, to, cards.FacingFront, o)
	if err != nil {
		return err
	}
	return st.emit(ctx, st.cardEvent(rules.EventCardTrashed, playerID, card, from, to), nil)
}

// play resolves a card: it enters the play area, the played event is
// dispatched with a fresh reaction context, then the card's own effect runs
// against that context.
func (st *matchState) play(ctx context.Context, playerID string, cardID cards.ID, o effects.ActionOptions) error {
	card, err := st.library.Get(cardID)
	if err != nil {
		return err
	}
	module, err := st.engine.registry.Lookup(card.Key)
	if err != nil {
		return err
	}

	playArea := cards.At(cards.ZonePlayArea, playerID)
	from, _ := st.sources.Locate(card.ID)
	if !from.Zone.InPlay() {
		if from, err = st.relocate(ctx, playerID, card, playArea, cards.FacingFront, o); err != nil {
			return err
		}
	}

	rc := rules.NewReactionContext()
	if err := st.emit(ctx, st.cardEvent(rules.EventCardPlayed, playerID, card, from, playArea), rc); err != nil {
		return err
	}
	if err := st.runHook(ctx, effects.OnCardPlayed, effects.LifeCycleArgs{PlayerID: playerID, Card: card, From: from, To: playArea}, o); err != nil {
		return err
	}
	if module.Play == nil {
		return nil
	}
	if err := module.Play(ctx, st.effects, effects.PlayArgs{PlayerID: playerID, Card: card, ReactionContext: rc}); err != nil {
		return fmt.Errorf("play %s: %w", card, err)
	}
	return nil
}
