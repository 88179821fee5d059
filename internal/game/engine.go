package game

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/thraizz/dominion-server-go/internal/game/cards"
	"github.com/thraizz/dominion-server-go/internal/game/effects"
	"github.com/thraizz/dominion-server-go/internal/game/match"
	"go.uber.org/zap"
)

var (
	// ErrMatchNotFound is returned for an unknown match id.
	ErrMatchNotFound = errors.New("match not found")
	// ErrMatchOver is returned for commands sent to a finished match.
	ErrMatchOver = errors.New("match is over")
	// ErrNotYourTurn is returned when a player acts out of turn.
	ErrNotYourTurn = errors.New("not your turn")
	// ErrIllegalMove is returned for plays and buys the rules forbid.
	ErrIllegalMove = errors.New("illegal move")
	// ErrUnknownAction is returned for an action name outside the vocabulary.
	ErrUnknownAction = errors.New("unknown game action")
)

// Options configures new matches.
type Options struct {
	// Seed makes shuffles reproducible. Zero seeds from the clock.
	Seed     int64
	HandSize int
	// Kingdom lists the kingdom card keys in supply.
	Kingdom []string
	// SupplyCounts overrides pile sizes per card key.
	SupplyCounts map[string]int
	// ActionLogDir, when set, is where finished matches save their action log.
	ActionLogDir string
}

// DefaultOptions returns a first-game kingdom with standard sizes.
func DefaultOptions() Options {
	return Options{
		HandSize: 5,
		Kingdom: []string{
			"cellar", "market", "merchant", "militia", "moat",
			"remodel", "smithy", "village", "workshop", "throneRoom",
		},
	}
}

// GameNotification is emitted for every game event, for UIs and logs.
type GameNotification struct {
	// Seq numbers a match's notifications from 1 in emission order.
	Seq       int
	Type      string
	MatchID   string
	PlayerID  string
	Timestamp time.Time
	Data      map[string]interface{}
}

// NotificationHandler receives notifications asynchronously. Each match's
// notifications arrive in order, one at a time.
type NotificationHandler func(notification GameNotification)

// Engine runs Dominion matches. Each match is driven by one logical thread
// of control; matches share nothing but the read-only card registry.
type Engine struct {
	logger              *zap.Logger
	registry            *effects.Registry
	decider             Decider
	options             Options
	mu                  sync.RWMutex
	matches             map[string]*matchState
	notificationHandler NotificationHandler
}

// NewEngine creates an engine. A nil decider plays automatically.
func NewEngine(registry *effects.Registry, decider Decider, options Options, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if decider == nil {
		decider = AutoDecider{}
	}
	if options.HandSize <= 0 {
		options.HandSize = 5
	}
	return &Engine{
		logger:   logger,
		registry: registry,
		decider:  decider,
		options:  options,
		matches:  make(map[string]*matchState),
	}
}

// SetNotificationHandler sets the handler for game notifications.
func (e *Engine) SetNotificationHandler(handler NotificationHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notificationHandler = handler
}

// deliverNotification calls the current handler, if any.
func (e *Engine) deliverNotification(notification GameNotification) {
	e.mu.RLock()
	handler := e.notificationHandler
	e.mu.RUnlock()

	if handler != nil {
		handler(notification)
	}
}

// notifier delivers one match's notifications in emission order on its own
// goroutine, so slow consumers never block the match.
type notifier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []GameNotification
	seq     int
	closed  bool
	deliver func(GameNotification)
}

func newNotifier(deliver func(GameNotification)) *notifier {
	n := &notifier{deliver: deliver}
	n.cond = sync.NewCond(&n.mu)
	go n.run()
	return n
}

func (n *notifier) push(notification GameNotification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.seq++
	notification.Seq = n.seq
	n.queue = append(n.queue, notification)
	n.cond.Signal()
}

// close stops the delivery goroutine once the queue has drained.
func (n *notifier) close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.cond.Signal()
}

func (n *notifier) run() {
	for {
		n.mu.Lock()
		for len(n.queue) == 0 && !n.closed {
			n.cond.Wait()
		}
		batch := n.queue
		n.queue = nil
		done := n.closed
		n.mu.Unlock()

		for _, notification := range batch {
			n.deliver(notification)
		}
		if done && len(batch) == 0 {
			return
		}
	}
}

// StartMatch seats players, builds the supply and deals starting decks, then
// starts the first turn. It returns the new match id.
func (e *Engine) StartMatch(ctx context.Context, players []match.Player) (string, error) {
	if len(players) < 2 {
		return "", fmt.Errorf("at least 2 players required")
	}
	st, err := newMatchState(e, players)
	if err != nil {
		return "", err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	e.mu.Lock()
	e.matches[st.match.ID] = st
	e.mu.Unlock()

	if err := st.setup(ctx); err != nil {
		e.mu.Lock()
		delete(e.matches, st.match.ID)
		e.mu.Unlock()
		st.notifier.close()
		return "", fmt.Errorf("setup match: %w", err)
	}

	e.logger.Info("match started",
		zap.String("match_id", st.match.ID),
		zap.Strings("players", st.match.SeatingOrder()),
		zap.Strings("kingdom", e.options.Kingdom),
		zap.Int64("seed", st.seed),
	)

	if err := st.startTurn(ctx); err != nil {
		return st.match.ID, err
	}
	return st.match.ID, nil
}

// lookup returns a match by id.
func (e *Engine) lookup(matchID string) (*matchState, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	st, ok := e.matches[matchID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	return st, nil
}

// withMatch runs fn holding the match's command lock.
func (e *Engine) withMatch(matchID string, fn func(st *matchState) error) error {
	st, err := e.lookup(matchID)
	if err != nil {
		return err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return fn(st)
}

// RunGameAction performs a single action in a match from outside any effect.
func (e *Engine) RunGameAction(ctx context.Context, matchID string, name effects.ActionName, payload effects.Payload, opts ...effects.ActionOption) (effects.Result, error) {
	var res effects.Result
	err := e.withMatch(matchID, func(st *matchState) error {
		var err error
		res, err = st.RunGameAction(ctx, name, payload, opts...)
		return err
	})
	return res, err
}

// PlayCard plays a card from the current player's hand.
func (e *Engine) PlayCard(ctx context.Context, matchID, playerID string, cardID cards.ID) error {
	return e.withMatch(matchID, func(st *matchState) error {
		return st.playFromHand(ctx, playerID, cardID)
	})
}

// BuyCard buys the top card of a supply pile.
func (e *Engine) BuyCard(ctx context.Context, matchID, playerID, key string) error {
	return e.withMatch(matchID, func(st *matchState) error {
		return st.buy(ctx, playerID, key)
	})
}

// EndPhase moves the current player to their next phase. Ending the buy
// phase runs cleanup and starts the next player's turn.
func (e *Engine) EndPhase(ctx context.Context, matchID, playerID string) error {
	return e.withMatch(matchID, func(st *matchState) error {
		if err := st.checkActor(playerID); err != nil {
			return err
		}
		return st.advancePhase(ctx)
	})
}

// EndTurn finishes the current player's turn.
func (e *Engine) EndTurn(ctx context.Context, matchID, playerID string) error {
	return e.withMatch(matchID, func(st *matchState) error {
		if err := st.checkActor(playerID); err != nil {
			return err
		}
		return st.endTurn(ctx)
	})
}

// Scores returns each player's victory points.
func (e *Engine) Scores(matchID string) (map[string]int, error) {
	var scores map[string]int
	err := e.withMatch(matchID, func(st *matchState) error {
		scores = st.scores()
		return nil
	})
	return scores, err
}

// IsOver reports whether the match has ended.
func (e *Engine) IsOver(matchID string) (bool, error) {
	var over bool
	err := e.withMatch(matchID, func(st *matchState) error {
		over = st.over
		return nil
	})
	return over, err
}

// ActionLog returns the audit trail of a match.
func (e *Engine) ActionLog(matchID string) (*ActionLog, error) {
	st, err := e.lookup(matchID)
	if err != nil {
		return nil, err
	}
	return st.actions, nil
}

// EndMatch removes a match, saving its action log when configured.
func (e *Engine) EndMatch(matchID string) error {
	e.mu.Lock()
	st, ok := e.matches[matchID]
	delete(e.matches, matchID)
	e.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	st.notifier.close()

	if e.options.ActionLogDir != "" {
		if err := st.actions.SaveToFile(e.options.ActionLogDir); err != nil {
			e.logger.Warn("failed to save action log",
				zap.String("match_id", matchID),
				zap.Error(err),
			)
		}
	}
	e.logger.Info("match ended", zap.String("match_id", matchID))
	return nil
}

// MatchIDs returns the ids of running matches, sorted.
func (e *Engine) MatchIDs() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := make([]string, 0, len(e.matches))
	for id := range e.matches {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
