package rules

import "sync"

// ReactionContext collects reaction results per player for one causal chain,
// such as the resolution of a single played card.
type ReactionContext struct {
	mu      sync.RWMutex
	results map[string]ReactionResult
}

// NewReactionContext creates an empty context.
func NewReactionContext() *ReactionContext {
	return &ReactionContext{results: make(map[string]ReactionResult)}
}

// Set records result for playerID.
func (rc *ReactionContext) Set(playerID string, result ReactionResult) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.results[playerID] = result
}

// Result returns the recorded result for playerID.
func (rc *ReactionContext) Result(playerID string) ReactionResult {
	if rc == nil {
		return ResultNone
	}
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.results[playerID]
}

// HasImmunity reports whether playerID gained immunity in this chain.
func (rc *ReactionContext) HasImmunity(playerID string) bool {
	return rc.Result(playerID) == ResultImmunity
}
