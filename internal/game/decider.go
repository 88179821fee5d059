package game

import (
	"context"
	"sync"

	"github.com/thraizz/dominion-server-go/internal/game/cards"
	"github.com/thraizz/dominion-server-go/internal/game/effects"
)

// Decider answers the questions the engine asks players. Implementations may
// block until a human answers.
type Decider interface {
	SelectCards(ctx context.Context, playerID string, req effects.SelectionRequest) ([]cards.ID, error)
	Prompt(ctx context.Context, playerID string, req effects.PromptRequest) (int, error)
}

// AutoDecider takes the minimum selection from the front of every offer and
// always picks the first button.
type AutoDecider struct{}

// SelectCards implements Decider.
func (AutoDecider) SelectCards(_ context.Context, _ string, req effects.SelectionRequest) ([]cards.ID, error) {
	n := req.Min
	if n > len(req.CardIDs) {
		n = len(req.CardIDs)
	}
	return append([]cards.ID(nil), req.CardIDs[:n]...), nil
}

// Prompt implements Decider.
func (AutoDecider) Prompt(_ context.Context, _ string, req effects.PromptRequest) (int, error) {
	if len(req.Buttons) == 0 {
		return -1, nil
	}
	return 0, nil
}

// ScriptedDecider replays queued answers per player and defers to Fallback
// once a queue runs dry.
type ScriptedDecider struct {
	Fallback Decider

	mu         sync.Mutex
	selections map[string][][]cards.ID
	choices    map[string][]int
	asked      []effects.PromptRequest
}

// NewScriptedDecider creates a decider falling back to AutoDecider.
func NewScriptedDecider() *ScriptedDecider {
	return &ScriptedDecider{
		Fallback:   AutoDecider{},
		selections: make(map[string][][]cards.ID),
		choices:    make(map[string][]int),
	}
}

// QueueSelection queues the answer to playerID's next selection.
func (d *ScriptedDecider) QueueSelection(playerID string, ids ...cards.ID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selections[playerID] = append(d.selections[playerID], ids)
}

// QueueChoice queues the answers to playerID's next prompts.
func (d *ScriptedDecider) QueueChoice(playerID string, choices ...int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.choices[playerID] = append(d.choices[playerID], choices...)
}

// Prompts returns every prompt asked so far.
func (d *ScriptedDecider) Prompts() []effects.PromptRequest {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]effects.PromptRequest(nil), d.asked...)
}

// SelectCards implements Decider.
func (d *ScriptedDecider) SelectCards(ctx context.Context, playerID string, req effects.SelectionRequest) ([]cards.ID, error) {
	d.mu.Lock()
	queue := d.selections[playerID]
	if len(queue) > 0 {
		d.selections[playerID] = queue[1:]
		d.mu.Unlock()
		return queue[0], nil
	}
	d.mu.Unlock()
	return d.Fallback.SelectCards(ctx, playerID, req)
}

// Prompt implements Decider.
func (d *ScriptedDecider) Prompt(ctx context.Context, playerID string, req effects.PromptRequest) (int, error) {
	d.mu.Lock()
	d.asked = append(d.asked, req)
	queue := d.choices[playerID]
	if len(queue) > 0 {
		d.choices[playerID] = queue[1:]
		d.mu.Unlock()
		return queue[0], nil
	}
	d.mu.Unlock()
	return d.Fallback.Prompt(ctx, playerID, req)
}
