package match

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrUnknownPlayer is returned when a player id is not seated in the match.
var ErrUnknownPlayer = errors.New("unknown player")

// Phase is a step of a Dominion turn.
type Phase string

const (
	PhaseAction  Phase = "action"
	PhaseBuy     Phase = "buy"
	PhaseCleanup Phase = "cleanup"
)

// Player is a seated participant. Seat position never changes mid-match.
type Player struct {
	ID   string
	Name string
}

// Match is the root aggregate for one game. Only the action delegate
// mutates it; effects and reaction conditions read it.
type Match struct {
	ID                     string
	Players                []Player
	TurnNumber             int
	CurrentPlayerTurnIndex int
	TurnPhase              Phase

	PlayerActions  int
	PlayerBuys     int
	PlayerTreasure int

	Stats *Stats
}

// New creates a match seated in the given order, at turn 1 for the first player.
func New(players []Player) (*Match, error) {
	if len(players) == 0 {
		return nil, fmt.Errorf("at least 1 player required")
	}
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return nil, fmt.Errorf("player id is required")
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate player id %q", id)
		}
		seen[id] = true
	}
	return &Match{
		ID:             uuid.NewString(),
		Players:        append([]Player(nil), players...),
		TurnNumber:     1,
		TurnPhase:      PhaseAction,
		PlayerActions:  1,
		PlayerBuys:     1,
		PlayerTreasure: 0,
		Stats:          NewStats(),
	}, nil
}

// SeatingOrder returns player ids in turn order.
func (m *Match) SeatingOrder() []string {
	ids := make([]string, len(m.Players))
	for i, p := range m.Players {
		ids[i] = p.ID
	}
	return ids
}

// CurrentPlayer returns the player whose turn it is.
func (m *Match) CurrentPlayer() Player {
	return m.Players[m.CurrentPlayerTurnIndex]
}

// IsCurrentPlayer reports whether playerID has the turn.
func (m *Match) IsCurrentPlayer(playerID string) bool {
	return m.CurrentPlayer().ID == playerID
}

// PlayerIndex returns the seat of playerID.
func (m *Match) PlayerIndex(playerID string) (int, error) {
	for i, p := range m.Players {
		if p.ID == playerID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
}

// PlayerToRight returns the player seated before playerID in turn order.
func (m *Match) PlayerToRight(playerID string) (Player, error) {
	idx, err := m.PlayerIndex(playerID)
	if err != nil {
		return Player{}, err
	}
	return m.Players[(idx-1+len(m.Players))%len(m.Players)], nil
}

// AdvanceTurn passes the turn to the next seat and resets per-turn counters.
func (m *Match) AdvanceTurn() {
	m.CurrentPlayerTurnIndex = (m.CurrentPlayerTurnIndex + 1) % len(m.Players)
	m.TurnNumber++
	m.TurnPhase = PhaseAction
	m.PlayerActions = 1
	m.PlayerBuys = 1
	m.PlayerTreasure = 0
}
