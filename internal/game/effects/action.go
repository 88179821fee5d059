package effects

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/thraizz/dominion-server-go/internal/game/cards"
)

// ErrInvalidSelection is returned when a selection does not satisfy its request.
var ErrInvalidSelection = errors.New("invalid selection")

// ActionName names an atomic game action performed by the delegate.
type ActionName string

const (
	ActionDrawCard     ActionName = "drawCard"
	ActionGainCard     ActionName = "gainCard"
	ActionGainTreasure ActionName = "gainTreasure"
	ActionGainAction   ActionName = "gainAction"
	ActionGainBuy      ActionName = "gainBuy"
	ActionMoveCard     ActionName = "moveCard"
	ActionDiscardCard  ActionName = "discardCard"
	ActionTrashCard    ActionName = "trashCard"
	ActionPlayCard     ActionName = "playCard"
	ActionSelectCard   ActionName = "selectCard"
	ActionUserPrompt   ActionName = "userPrompt"
	ActionRevealCard   ActionName = "revealCard"
	ActionShuffleDeck  ActionName = "shuffleDeck"
)

// SelectionRequest asks a player to choose cards among CardIDs.
type SelectionRequest struct {
	Prompt  string
	CardIDs []cards.ID
	Min     int
	Max     int
}

// Validate checks that selected satisfies the request.
func (r SelectionRequest) Validate(selected []cards.ID) error {
	if len(selected) < r.Min {
		return fmt.Errorf("%w: need at least %d, got %d", ErrInvalidSelection, r.Min, len(selected))
	}
	if len(selected) > r.Max {
		return fmt.Errorf("%w: need at most %d, got %d", ErrInvalidSelection, r.Max, len(selected))
	}
	seen := make(map[cards.ID]bool, len(selected))
	for _, id := range selected {
		if !slices.Contains(r.CardIDs, id) {
			return fmt.Errorf("%w: card %d was not offered", ErrInvalidSelection, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: card %d selected twice", ErrInvalidSelection, id)
		}
		seen[id] = true
	}
	return nil
}

// PromptRequest asks a player to pick one of Buttons. A result of -1 means
// the player declined.
type PromptRequest struct {
	Prompt  string
	Buttons []string
}

// Payload carries the arguments of an action. Fields unused by an action are
// ignored.
type Payload struct {
	PlayerID  string
	CardID    cards.ID
	Count     int
	To        cards.Location
	Facing    cards.Facing
	Bought    bool
	Selection SelectionRequest
	Prompt    PromptRequest
}

// Result is what an action reports back.
type Result struct {
	CardIDs []cards.ID
	// Choice is the chosen prompt button, or -1.
	Choice int
}

// LifeCycleEvent names a card lifecycle hook.
type LifeCycleEvent string

const (
	OnGained     LifeCycleEvent = "onGained"
	OnDiscarded  LifeCycleEvent = "onDiscarded"
	OnLeavePlay  LifeCycleEvent = "onLeavePlay"
	OnEnterHand  LifeCycleEvent = "onEnterHand"
	OnLeaveHand  LifeCycleEvent = "onLeaveHand"
	OnCardPlayed LifeCycleEvent = "onCardPlayed"
)

// ActionOptions are per-call options for an action.
type ActionOptions struct {
	// Source attributes the action to the card that caused it.
	Source cards.ID
	// Suppressed lifecycle hooks are not invoked for this action.
	Suppressed []LifeCycleEvent
}

// Suppresses reports whether hook is suppressed.
func (o ActionOptions) Suppresses(hook LifeCycleEvent) bool {
	return slices.Contains(o.Suppressed, hook)
}

// ActionOption configures ActionOptions.
type ActionOption func(*ActionOptions)

// WithSource attributes the action to a card for logging.
func WithSource(id cards.ID) ActionOption {
	return func(o *ActionOptions) { o.Source = id }
}

// SuppressLifeCycle suppresses the given hooks for this action.
func SuppressLifeCycle(hooks ...LifeCycleEvent) ActionOption {
	return func(o *ActionOptions) { o.Suppressed = append(o.Suppressed, hooks...) }
}

// BuildOptions applies opts in order.
func BuildOptions(opts ...ActionOption) ActionOptions {
	var o ActionOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ActionRunner performs game actions. It is the only writer of match state;
// every call may block, for instance while a player answers a prompt.
type ActionRunner interface {
	RunGameAction(ctx context.Context, name ActionName, payload Payload, opts ...ActionOption) (Result, error)
}
