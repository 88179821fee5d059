package rules

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/thraizz/dominion-server-go/internal/game/cards"
	"github.com/thraizz/dominion-server-go/internal/game/match"
	"go.uber.org/zap"
)

// ErrInvalidReaction is returned when a template cannot be registered.
var ErrInvalidReaction = errors.New("invalid reaction template")

// Lifetime controls when the engine sweeps a template owned by a card.
type Lifetime int

const (
	// LifetimeManual templates live until unregistered or fired once.
	LifetimeManual Lifetime = iota
	// LifetimeWhileInPlay templates are removed when their source card leaves play.
	LifetimeWhileInPlay
	// LifetimeWhileInHand templates are removed when their source card leaves hand.
	LifetimeWhileInHand
)

func (l Lifetime) String() string {
	switch l {
	case LifetimeManual:
		return "MANUAL"
	case LifetimeWhileInPlay:
		return "WHILE_IN_PLAY"
	case LifetimeWhileInHand:
		return "WHILE_IN_HAND"
	default:
		return "UNKNOWN"
	}
}

// ReactionResult is what a fired reaction reports back for its player.
type ReactionResult string

const (
	ResultNone     ReactionResult = ""
	ResultImmunity ReactionResult = "immunity"
)

// ReactionArgs is passed to a template's condition and effect.
type ReactionArgs struct {
	Match    *match.Match
	Event    Event
	Reaction ReactionTemplate
	Context  *ReactionContext
}

// ReactionTemplate is a registered (condition, effect) pair bound to an event type.
type ReactionTemplate struct {
	ID           string
	ListeningFor EventType
	PlayerID     string
	SourceCardID cards.ID
	Lifetime     Lifetime

	Once                   bool
	Compulsory             bool
	AllowMultipleInstances bool

	Condition       func(args ReactionArgs) bool
	TriggeredEffect func(ctx context.Context, args ReactionArgs) (ReactionResult, error)

	system bool
}

// System reports whether the template was registered for engine bookkeeping.
func (t ReactionTemplate) System() bool {
	return t.system
}

// DeriveID builds the conventional "<cardKey>:<cardID>:<event>" template id.
func DeriveID(cardKey string, cardID cards.ID, eventType EventType) string {
	return fmt.Sprintf("%s:%d:%s", cardKey, cardID, eventType)
}

// ReactionManager stores reaction templates and dispatches events to them in
// registration order.
type ReactionManager struct {
	mu        sync.Mutex
	match     *match.Match
	templates map[string]*ReactionTemplate
	order     []string
	logger    *zap.Logger
}

// NewReactionManager creates an empty manager bound to one match.
func NewReactionManager(m *match.Match, logger *zap.Logger) *ReactionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReactionManager{
		match:     m,
		templates: make(map[string]*ReactionTemplate),
		logger:    logger,
	}
}

// Register adds a template and returns the id it was stored under.
//
// Re-registering an id replaces the live template in its original slot,
// unless both templates allow multiple instances, in which case the new one
// is stored under a suffixed id.
func (rm *ReactionManager) Register(template ReactionTemplate) (string, error) {
	template.system = false
	return rm.register(template)
}

// RegisterFor is the (card, event, partial template) shorthand; the id is
// derived with DeriveID and the card becomes the template's source.
func (rm *ReactionManager) RegisterFor(card *cards.Card, eventType EventType, partial ReactionTemplate) (string, error) {
	partial.ID = DeriveID(card.Key, card.ID, eventType)
	partial.ListeningFor = eventType
	partial.SourceCardID = card.ID
	if partial.PlayerID == "" {
		partial.PlayerID = card.Owner
	}
	return rm.Register(partial)
}

// RegisterSystem registers an engine bookkeeping template. Mechanics are
// identical to Register.
func (rm *ReactionManager) RegisterSystem(template ReactionTemplate) (string, error) {
	template.system = true
	return rm.register(template)
}

func (rm *ReactionManager) register(template ReactionTemplate) (string, error) {
	if template.ListeningFor == "" {
		return "", fmt.Errorf("%w: %q has no event type", ErrInvalidReaction, template.ID)
	}
	if template.TriggeredEffect == nil {
		return "", fmt.Errorf("%w: %q has no effect", ErrInvalidReaction, template.ID)
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	if template.ID == "" {
		template.ID = uuid.NewString()
	}

	if existing, ok := rm.templates[template.ID]; ok {
		if existing.AllowMultipleInstances && template.AllowMultipleInstances {
			template.ID = template.ID + ":" + uuid.NewString()
		} else {
			rm.templates[template.ID] = &template
			rm.logger.Debug("reaction template replaced",
				zap.String("reaction_id", template.ID),
				zap.String("event", string(template.ListeningFor)),
			)
			return template.ID, nil
		}
	}

	rm.templates[template.ID] = &template
	rm.order = append(rm.order, template.ID)
	rm.logger.Debug("reaction template registered",
		zap.String("reaction_id", template.ID),
		zap.String("event", string(template.ListeningFor)),
		zap.String("player_id", template.PlayerID),
		zap.Bool("once", template.Once),
		zap.Bool("system", template.system),
	)
	return template.ID, nil
}

// Unregister removes a template by id. Unknown ids are ignored.
func (rm *ReactionManager) Unregister(id string) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.removeLocked(id)
}

// UnregisterBySource removes every template owned by cardID with the given
// lifetime and returns the removed ids.
func (rm *ReactionManager) UnregisterBySource(cardID cards.ID, lifetime Lifetime) []string {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	var removed []string
	for _, id := range slices.Clone(rm.order) {
		t := rm.templates[id]
		if t.SourceCardID == cardID && t.Lifetime == lifetime {
			rm.removeLocked(id)
			removed = append(removed, id)
		}
	}
	if len(removed) > 0 {
		rm.logger.Debug("reaction templates swept",
			zap.Int("card_id", int(cardID)),
			zap.Stringer("lifetime", lifetime),
			zap.Strings("reaction_ids", removed),
		)
	}
	return removed
}

func (rm *ReactionManager) removeLocked(id string) bool {
	if _, ok := rm.templates[id]; !ok {
		return false
	}
	delete(rm.templates, id)
	if i := slices.Index(rm.order, id); i >= 0 {
		rm.order = slices.Delete(rm.order, i, i+1)
	}
	return true
}

// Live reports whether a template with id is registered.
func (rm *ReactionManager) Live(id string) bool {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	_, ok := rm.templates[id]
	return ok
}

// Templates returns copies of the live templates listening for eventType, in
// registration order. An empty type returns all templates.
func (rm *ReactionManager) Templates(eventType EventType) []ReactionTemplate {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	var out []ReactionTemplate
	for _, id := range rm.order {
		t := rm.templates[id]
		if eventType == "" || t.ListeningFor == eventType {
			out = append(out, *t)
		}
	}
	return out
}

// Dispatch evaluates every live template listening for event.Type, in
// registration order, running each matching effect to completion before the
// next. Templates unregistered by an earlier effect are skipped. Once
// templates are removed before their effect runs so a nested dispatch cannot
// fire them again. Non-empty results are recorded in rc for the template's
// player. The first effect error stops the dispatch and is returned.
func (rm *ReactionManager) Dispatch(ctx context.Context, event Event, rc *ReactionContext) error {
	rm.mu.Lock()
	var candidates []string
	for _, id := range rm.order {
		if rm.templates[id].ListeningFor == event.Type {
			candidates = append(candidates, id)
		}
	}
	rm.mu.Unlock()

	for _, id := range candidates {
		rm.mu.Lock()
		live, ok := rm.templates[id]
		var template ReactionTemplate
		if ok {
			template = *live
		}
		rm.mu.Unlock()
		if !ok || template.ListeningFor != event.Type {
			continue
		}

		args := ReactionArgs{Match: rm.match, Event: event, Reaction: template, Context: rc}
		if template.Condition != nil && !template.Condition(args) {
			continue
		}

		if template.Once {
			rm.mu.Lock()
			// Another nested dispatch may have consumed it already.
			if rm.templates[id] != live {
				rm.mu.Unlock()
				continue
			}
			rm.removeLocked(id)
			rm.mu.Unlock()
		}

		rm.logger.Debug("reaction firing",
			zap.String("reaction_id", id),
			zap.String("event", string(event.Type)),
			zap.String("player_id", template.PlayerID),
		)
		result, err := template.TriggeredEffect(ctx, args)
		if err != nil {
			return fmt.Errorf("reaction %s: %w", id, err)
		}
		if result != ResultNone && rc != nil {
			rc.Set(template.PlayerID, result)
		}
	}
	return nil
}
