package rules

import "github.com/thraizz/dominion-server-go/internal/game/match"

// turnSequence is the fixed phase order of a Dominion turn.
var turnSequence = []match.Phase{
	match.PhaseAction,
	match.PhaseBuy,
	match.PhaseCleanup,
}

// TurnManager advances a match through its turn phases.
type TurnManager struct {
	match *match.Match
}

// NewTurnManager creates a turn manager for m.
func NewTurnManager(m *match.Match) *TurnManager {
	return &TurnManager{match: m}
}

// CurrentPhase returns the phase currently in progress.
func (tm *TurnManager) CurrentPhase() match.Phase {
	return tm.match.TurnPhase
}

// NextPhase returns the phase after the current one and whether moving there
// wraps into a new turn.
func (tm *TurnManager) NextPhase() (match.Phase, bool) {
	for i, phase := range turnSequence {
		if phase == tm.match.TurnPhase && i+1 < len(turnSequence) {
			return turnSequence[i+1], false
		}
	}
	return turnSequence[0], true
}

// AdvancePhase moves to the next phase. Leaving cleanup passes the turn to
// the next player, and reports true.
func (tm *TurnManager) AdvancePhase() (match.Phase, bool) {
	next, wraps := tm.NextPhase()
	if wraps {
		tm.match.AdvanceTurn()
		return tm.match.TurnPhase, true
	}
	tm.match.TurnPhase = next
	return next, false
}
