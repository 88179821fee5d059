package cards

import "sync"

// CostRule adjusts the effective cost of cards it applies to.
type CostRule struct {
	ID string
	// Treasure is added to the cost; negative values are reductions.
	Treasure  int
	AppliesTo func(card *Card, playerID string) bool
}

// PriceController computes effective card costs.
type PriceController struct {
	mu    sync.RWMutex
	rules []CostRule
}

// NewPriceController creates a controller with no rules.
func NewPriceController() *PriceController {
	return &PriceController{}
}

// AddRule adds a cost rule. A rule with an existing ID replaces it.
func (pc *PriceController) AddRule(rule CostRule) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	for i, existing := range pc.rules {
		if existing.ID == rule.ID {
			pc.rules[i] = rule
			return
		}
	}
	pc.rules = append(pc.rules, rule)
}

// RemoveRule removes a rule by ID.
func (pc *PriceController) RemoveRule(id string) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	for i, rule := range pc.rules {
		if rule.ID == id {
			pc.rules = append(pc.rules[:i], pc.rules[i+1:]...)
			return
		}
	}
}

// ClearRules removes every rule, typically at end of turn.
func (pc *PriceController) ClearRules() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.rules = nil
}

// ApplyRules returns the effective cost of card for playerID. Treasure cost
// never drops below zero.
func (pc *PriceController) ApplyRules(card *Card, playerID string) Cost {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	cost := card.Cost
	for _, rule := range pc.rules {
		if rule.AppliesTo == nil || rule.AppliesTo(card, playerID) {
			cost.Treasure += rule.Treasure
		}
	}
	if cost.Treasure < 0 {
		cost.Treasure = 0
	}
	return cost
}
