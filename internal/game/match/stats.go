package match

import "github.com/thraizz/dominion-server-go/internal/game/cards"

// GainRecord describes one card gain.
type GainRecord struct {
	CardID     cards.ID
	PlayerID   string
	TurnNumber int
	TurnPhase  Phase
	Bought     bool
}

// PlayRecord describes one card play.
type PlayRecord struct {
	CardID     cards.ID
	PlayerID   string
	TurnNumber int
	TurnPhase  Phase
}

// Stats is the per-match ledger of gains and plays. CardsGained and
// PlayedCards hold the latest record per card instance; the by-turn indices
// keep every record, so a card that later changes hands does not rewrite
// earlier turns.
type Stats struct {
	CardsGained       map[cards.ID]GainRecord
	CardsGainedByTurn map[int][]GainRecord
	PlayedCards       map[cards.ID]PlayRecord
	PlayedCardsByTurn map[int][]PlayRecord
}

// NewStats creates an empty ledger.
func NewStats() *Stats {
	return &Stats{
		CardsGained:       make(map[cards.ID]GainRecord),
		CardsGainedByTurn: make(map[int][]GainRecord),
		PlayedCards:       make(map[cards.ID]PlayRecord),
		PlayedCardsByTurn: make(map[int][]PlayRecord),
	}
}

// RecordGain stores a card gain.
func (s *Stats) RecordGain(rec GainRecord) {
	s.CardsGained[rec.CardID] = rec
	s.CardsGainedByTurn[rec.TurnNumber] = append(s.CardsGainedByTurn[rec.TurnNumber], rec)
}

// RecordPlay stores a card play.
func (s *Stats) RecordPlay(rec PlayRecord) {
	s.PlayedCards[rec.CardID] = rec
	s.PlayedCardsByTurn[rec.TurnNumber] = append(s.PlayedCardsByTurn[rec.TurnNumber], rec)
}

// GainsDuringTurn returns the gains made on a turn, optionally only by playerID.
func (s *Stats) GainsDuringTurn(turn int, playerID string) []GainRecord {
	var out []GainRecord
	for _, rec := range s.CardsGainedByTurn[turn] {
		if playerID != "" && rec.PlayerID != playerID {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// PlaysDuringTurn returns the plays made on a turn, optionally only by playerID.
// A card played more than once on a turn appears once per play.
func (s *Stats) PlaysDuringTurn(turn int, playerID string) []PlayRecord {
	var out []PlayRecord
	for _, rec := range s.PlayedCardsByTurn[turn] {
		if playerID != "" && rec.PlayerID != playerID {
			continue
		}
		out = append(out, rec)
	}
	return out
}
