// Package tournament runs series of bot matches and keeps standings.
package tournament

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/thraizz/dominion-server-go/internal/game"
	"github.com/thraizz/dominion-server-go/internal/game/match"
	"go.uber.org/zap"
)

// TournamentState represents the state of a tournament
type TournamentState int

const (
	TournamentStateWaiting TournamentState = iota
	TournamentStateInProgress
	TournamentStateFinished
)

func (s TournamentState) String() string {
	switch s {
	case TournamentStateWaiting:
		return "WAITING"
	case TournamentStateInProgress:
		return "IN_PROGRESS"
	case TournamentStateFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// Player is a seat in the tournament, played by a named strategy.
type Player struct {
	Name     string
	Strategy game.Strategy
	Points   int
	Wins     int
	Losses   int
	Draws    int
	VP       int
}

// Pairing is one match of a round.
type Pairing struct {
	Player1 string
	Player2 string
	MatchID string
	Winner  string
	Score1  int
	Score2  int
	Turns   int
	// Unfinished is set when the match hit the turn limit.
	Unfinished bool
}

// Round is a set of pairings played together.
type Round struct {
	Number   int
	Pairings []*Pairing
	Bye      string
	Finished bool
}

// PlayerSnapshot captures tournament player data for external use.
type PlayerSnapshot struct {
	Name   string
	Points int
	Wins   int
	Losses int
	Draws  int
	VP     int
}

// PairingSnapshot captures pairing data for external use.
type PairingSnapshot struct {
	Player1    string
	Player2    string
	MatchID    string
	Winner     string
	Score1     int
	Score2     int
	Turns      int
	Unfinished bool
}

// RoundSnapshot captures round data for external use.
type RoundSnapshot struct {
	Number   int
	Bye      string
	Finished bool
	Pairings []PairingSnapshot
}

// TournamentSnapshot captures a consistent view of a tournament.
type TournamentSnapshot struct {
	ID         string
	Name       string
	State      TournamentState
	Players    []PlayerSnapshot
	Rounds     []RoundSnapshot
	NumRounds  int
	MaxTurns   int
	CreateTime time.Time
	StartTime  *time.Time
	EndTime    *time.Time
}

// Tournament is a round-robin series between bot strategies.
type Tournament struct {
	ID          string
	Name        string
	State       TournamentState
	Players     map[string]*Player
	PlayerOrder []string
	Rounds      []*Round
	NumRounds   int
	MaxTurns    int
	CreateTime  time.Time
	StartTime   *time.Time
	EndTime     *time.Time
	mu          sync.RWMutex
}

// NewTournament creates a new tournament
func NewTournament(name string, numRounds, maxTurns int) *Tournament {
	return &Tournament{
		ID:          uuid.New().String(),
		Name:        name,
		State:       TournamentStateWaiting,
		Players:     make(map[string]*Player),
		PlayerOrder: make([]string, 0),
		Rounds:      make([]*Round, 0),
		NumRounds:   numRounds,
		MaxTurns:    maxTurns,
		CreateTime:  time.Now(),
	}
}

// AddPlayer seats strategy under its own name.
func (t *Tournament) AddPlayer(strategy game.Strategy) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.State != TournamentStateWaiting {
		return fmt.Errorf("tournament already started")
	}
	name := strategy.Name()
	if _, exists := t.Players[name]; exists {
		return fmt.Errorf("player already joined")
	}

	t.Players[name] = &Player{Name: name, Strategy: strategy}
	t.PlayerOrder = append(t.PlayerOrder, name)
	return nil
}

// GetPlayerCount returns the number of players
func (t *Tournament) GetPlayerCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.Players)
}

// GetState returns the current tournament state
func (t *Tournament) GetState() TournamentState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.State
}

// Start moves the tournament into progress.
func (t *Tournament) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.State != TournamentStateWaiting {
		return fmt.Errorf("tournament already started")
	}
	if len(t.Players) < 2 {
		return fmt.Errorf("not enough players")
	}

	now := time.Now()
	t.StartTime = &now
	t.State = TournamentStateInProgress
	return nil
}

// CreateRound pairs the players for the next round.
func (t *Tournament) CreateRound() *Round {
	t.mu.Lock()
	defer t.mu.Unlock()

	round := &Round{Number: len(t.Rounds) + 1}
	round.Pairings, round.Bye = t.generatePairings(round.Number)
	if round.Bye != "" {
		// A bye counts as a win.
		t.Players[round.Bye].Points += 3
		t.Players[round.Bye].Wins++
	}
	t.Rounds = append(t.Rounds, round)
	return round
}

// generatePairings rotates every seat but the first by one place per round
// (the circle method), so repeated rounds meet new opponents and swap who
// goes first.
func (t *Tournament) generatePairings(roundNum int) ([]*Pairing, string) {
	seats := append([]string(nil), t.PlayerOrder...)
	bye := ""
	if len(seats)%2 == 1 {
		seats = append(seats, "")
	}
	n := len(seats)
	if n > 2 {
		rest := seats[1:]
		shift := (roundNum - 1) % len(rest)
		rotated := append(append([]string(nil), rest[len(rest)-shift:]...), rest[:len(rest)-shift]...)
		seats = append(seats[:1], rotated...)
	}

	pairings := make([]*Pairing, 0, n/2)
	for i := 0; i < n/2; i++ {
		p1, p2 := seats[i], seats[n-1-i]
		if roundNum%2 == 0 {
			p1, p2 = p2, p1
		}
		if p1 == "" || p2 == "" {
			bye = p1 + p2
			continue
		}
		pairings = append(pairings, &Pairing{Player1: p1, Player2: p2})
	}
	return pairings, bye
}

// RecordMatchResult stores a finished pairing and updates standings. The
// higher score wins; equal scores are a draw.
func (t *Tournament) RecordMatchResult(roundNum int, player1, player2 string, scores map[string]int, turns int, finished bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if roundNum <= 0 || roundNum > len(t.Rounds) {
		return fmt.Errorf("invalid round number")
	}
	round := t.Rounds[roundNum-1]

	for _, pairing := range round.Pairings {
		if pairing.Player1 != player1 || pairing.Player2 != player2 {
			continue
		}
		pairing.Score1 = scores[player1]
		pairing.Score2 = scores[player2]
		pairing.Turns = turns
		pairing.Unfinished = !finished

		p1, p2 := t.Players[player1], t.Players[player2]
		p1.VP += pairing.Score1
		p2.VP += pairing.Score2
		switch {
		case pairing.Score1 > pairing.Score2:
			pairing.Winner = player1
			p1.Wins++
			p1.Points += 3
			p2.Losses++
		case pairing.Score2 > pairing.Score1:
			pairing.Winner = player2
			p2.Wins++
			p2.Points += 3
			p1.Losses++
		default:
			p1.Draws++
			p1.Points++
			p2.Draws++
			p2.Points++
		}
		return nil
	}
	return fmt.Errorf("pairing not found")
}

// finish closes the tournament.
func (t *Tournament) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	t.EndTime = &now
	t.State = TournamentStateFinished
}

// Standings returns the players ordered by points, then victory points, then
// seat order.
func (t *Tournament) Standings() []PlayerSnapshot {
	snap := t.Snapshot()
	standings := append([]PlayerSnapshot(nil), snap.Players...)
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Points != standings[j].Points {
			return standings[i].Points > standings[j].Points
		}
		return standings[i].VP > standings[j].VP
	})
	return standings
}

// Snapshot returns a consistent copy of the tournament state.
func (t *Tournament) Snapshot() TournamentSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	players := make([]PlayerSnapshot, 0, len(t.PlayerOrder))
	for _, name := range t.PlayerOrder {
		if player, ok := t.Players[name]; ok {
			players = append(players, PlayerSnapshot{
				Name:   player.Name,
				Points: player.Points,
				Wins:   player.Wins,
				Losses: player.Losses,
				Draws:  player.Draws,
				VP:     player.VP,
			})
		}
	}

	rounds := make([]RoundSnapshot, 0, len(t.Rounds))
	for _, r := range t.Rounds {
		pairings := make([]PairingSnapshot, 0, len(r.Pairings))
		for _, p := range r.Pairings {
			pairings = append(pairings, PairingSnapshot{
				Player1:    p.Player1,
				Player2:    p.Player2,
				MatchID:    p.MatchID,
				Winner:     p.Winner,
				Score1:     p.Score1,
				Score2:     p.Score2,
				Turns:      p.Turns,
				Unfinished: p.Unfinished,
			})
		}
		rounds = append(rounds, RoundSnapshot{
			Number:   r.Number,
			Bye:      r.Bye,
			Finished: r.Finished,
			Pairings: pairings,
		})
	}

	return TournamentSnapshot{
		ID:         t.ID,
		Name:       t.Name,
		State:      t.State,
		Players:    players,
		Rounds:     rounds,
		NumRounds:  t.NumRounds,
		MaxTurns:   t.MaxTurns,
		CreateTime: t.CreateTime,
		StartTime:  cloneTime(t.StartTime),
		EndTime:    cloneTime(t.EndTime),
	}
}

func cloneTime(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	cp := *src
	return &cp
}

// Manager manages tournaments and plays their matches on one engine.
type Manager struct {
	engine      *game.Engine
	tournaments map[string]*Tournament
	mu          sync.RWMutex
	logger      *zap.Logger
}

// NewManager creates a new tournament manager
func NewManager(engine *game.Engine, logger *zap.Logger) *Manager {
	return &Manager{
		engine:      engine,
		tournaments: make(map[string]*Tournament),
		logger:      logger,
	}
}

// CreateTournament creates a tournament between the given strategies.
func (m *Manager) CreateTournament(name string, numRounds, maxTurns int, strategies ...game.Strategy) (*Tournament, error) {
	tournament := NewTournament(name, numRounds, maxTurns)
	for _, s := range strategies {
		if err := tournament.AddPlayer(s); err != nil {
			return nil, fmt.Errorf("add %s: %w", s.Name(), err)
		}
	}

	m.mu.Lock()
	m.tournaments[tournament.ID] = tournament
	m.mu.Unlock()

	m.logger.Info("tournament created",
		zap.String("tournament_id", tournament.ID),
		zap.String("name", name),
		zap.Int("players", len(strategies)),
		zap.Int("rounds", numRounds),
	)
	return tournament, nil
}

// GetTournament retrieves a tournament by ID
func (m *Manager) GetTournament(tournamentID string) (*Tournament, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tournament, ok := m.tournaments[tournamentID]
	return tournament, ok
}

// RemoveTournament removes a tournament
func (m *Manager) RemoveTournament(tournamentID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tournaments, tournamentID)

	m.logger.Info("tournament removed", zap.String("tournament_id", tournamentID))
}

// GetActiveTournamentCount returns the count of active tournaments
func (m *Manager) GetActiveTournamentCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, tournament := range m.tournaments {
		if tournament.GetState() != TournamentStateFinished {
			count++
		}
	}
	return count
}

// Run plays every round of a tournament. Matches of a round run
// concurrently; each match is ended on the engine once scored.
func (m *Manager) Run(ctx context.Context, tournamentID string) error {
	tournament, ok := m.GetTournament(tournamentID)
	if !ok {
		return fmt.Errorf("tournament %s not found", tournamentID)
	}
	if err := tournament.Start(); err != nil {
		return err
	}

	for i := 0; i < tournament.NumRounds; i++ {
		round := tournament.CreateRound()
		if err := m.playRound(ctx, tournament, round); err != nil {
			return fmt.Errorf("round %d: %w", round.Number, err)
		}
		tournament.mu.Lock()
		round.Finished = true
		tournament.mu.Unlock()
	}

	tournament.finish()
	standings := tournament.Standings()
	fields := []zap.Field{zap.String("tournament_id", tournament.ID)}
	if len(standings) > 0 {
		fields = append(fields, zap.String("leader", standings[0].Name), zap.Int("points", standings[0].Points))
	}
	m.logger.Info("tournament finished", fields...)
	return nil
}

func (m *Manager) playRound(ctx context.Context, tournament *Tournament, round *Round) error {
	var wg sync.WaitGroup
	errs := make([]error, len(round.Pairings))
	for i, pairing := range round.Pairings {
		wg.Add(1)
		go func(i int, pairing *Pairing) {
			defer wg.Done()
			errs[i] = m.playPairing(ctx, tournament, round.Number, pairing)
		}(i, pairing)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) playPairing(ctx context.Context, tournament *Tournament, roundNum int, pairing *Pairing) error {
	tournament.mu.RLock()
	seats := map[string]game.Strategy{
		pairing.Player1: tournament.Players[pairing.Player1].Strategy,
		pairing.Player2: tournament.Players[pairing.Player2].Strategy,
	}
	tournament.mu.RUnlock()

	matchID, err := m.engine.StartMatch(ctx, []match.Player{
		{ID: pairing.Player1, Name: pairing.Player1},
		{ID: pairing.Player2, Name: pairing.Player2},
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := m.engine.EndMatch(matchID); err != nil {
			m.logger.Warn("failed to end match", zap.String("match_id", matchID), zap.Error(err))
		}
	}()

	tournament.mu.Lock()
	pairing.MatchID = matchID
	tournament.mu.Unlock()

	finished, err := m.engine.PlayOut(ctx, matchID, seats, tournament.MaxTurns)
	if err != nil {
		return err
	}
	scores, err := m.engine.Scores(matchID)
	if err != nil {
		return err
	}
	view, err := m.engine.GetMatchView(matchID, pairing.Player1)
	if err != nil {
		return err
	}

	m.logger.Debug("pairing played",
		zap.String("match_id", matchID),
		zap.String("player1", pairing.Player1),
		zap.String("player2", pairing.Player2),
		zap.Int("score1", scores[pairing.Player1]),
		zap.Int("score2", scores[pairing.Player2]),
		zap.Int("turns", view.TurnNumber),
		zap.Bool("finished", finished),
	)
	return tournament.RecordMatchResult(roundNum, pairing.Player1, pairing.Player2, scores, view.TurnNumber, finished)
}
