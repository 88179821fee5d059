package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seatFour(t *testing.T) *Match {
	t.Helper()
	m, err := New([]Player{{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D"}})
	require.NoError(t, err)
	return m
}

func TestNew_Validates(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
	_, err = New([]Player{{ID: "A"}, {ID: "A"}})
	assert.Error(t, err)
	_, err = New([]Player{{ID: " "}})
	assert.Error(t, err)

	m := seatFour(t)
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, 1, m.TurnNumber)
	assert.Equal(t, PhaseAction, m.TurnPhase)
	assert.Equal(t, "A", m.CurrentPlayer().ID)
	assert.Equal(t, []string{"A", "B", "C", "D"}, m.SeatingOrder())
}

func TestMatch_Seating(t *testing.T) {
	m := seatFour(t)

	idx, err := m.PlayerIndex("C")
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	_, err = m.PlayerIndex("Z")
	assert.ErrorIs(t, err, ErrUnknownPlayer)

	right, err := m.PlayerToRight("A")
	require.NoError(t, err)
	assert.Equal(t, "D", right.ID)
}

func TestMatch_AdvanceTurnResetsCounters(t *testing.T) {
	m := seatFour(t)
	m.PlayerActions = 0
	m.PlayerBuys = 3
	m.PlayerTreasure = 7
	m.TurnPhase = PhaseCleanup

	m.AdvanceTurn()
	assert.Equal(t, 2, m.TurnNumber)
	assert.True(t, m.IsCurrentPlayer("B"))
	assert.Equal(t, PhaseAction, m.TurnPhase)
	assert.Equal(t, 1, m.PlayerActions)
	assert.Equal(t, 1, m.PlayerBuys)
	assert.Equal(t, 0, m.PlayerTreasure)

	for i := 0; i < 3; i++ {
		m.AdvanceTurn()
	}
	assert.True(t, m.IsCurrentPlayer("A"))
}

func TestStats_Ledger(t *testing.T) {
	s := NewStats()
	s.RecordGain(GainRecord{CardID: 10, PlayerID: "A", TurnNumber: 1, TurnPhase: PhaseBuy, Bought: true})
	s.RecordGain(GainRecord{CardID: 11, PlayerID: "B", TurnNumber: 1, TurnPhase: PhaseAction})
	s.RecordGain(GainRecord{CardID: 12, PlayerID: "A", TurnNumber: 2, TurnPhase: PhaseAction})

	assert.Len(t, s.GainsDuringTurn(1, ""), 2)
	gains := s.GainsDuringTurn(1, "A")
	require.Len(t, gains, 1)
	assert.True(t, gains[0].Bought)
	assert.Empty(t, s.GainsDuringTurn(3, ""))

	s.RecordPlay(PlayRecord{CardID: 20, PlayerID: "A", TurnNumber: 1, TurnPhase: PhaseAction})
	s.RecordPlay(PlayRecord{CardID: 20, PlayerID: "A", TurnNumber: 1, TurnPhase: PhaseAction})
	assert.Len(t, s.PlaysDuringTurn(1, "A"), 2)
	assert.Empty(t, s.PlaysDuringTurn(1, "B"))
}

func TestStats_CardChangingHandsKeepsEarlierTurns(t *testing.T) {
	s := NewStats()
	s.RecordGain(GainRecord{CardID: 30, PlayerID: "A", TurnNumber: 1, TurnPhase: PhaseBuy, Bought: true})
	s.RecordPlay(PlayRecord{CardID: 30, PlayerID: "A", TurnNumber: 3, TurnPhase: PhaseAction})
	s.RecordGain(GainRecord{CardID: 30, PlayerID: "B", TurnNumber: 4, TurnPhase: PhaseBuy, Bought: true})
	s.RecordPlay(PlayRecord{CardID: 30, PlayerID: "B", TurnNumber: 6, TurnPhase: PhaseAction})

	gains := s.GainsDuringTurn(1, "")
	require.Len(t, gains, 1)
	assert.Equal(t, "A", gains[0].PlayerID)
	assert.Len(t, s.GainsDuringTurn(4, "B"), 1)

	plays := s.PlaysDuringTurn(3, "")
	require.Len(t, plays, 1)
	assert.Equal(t, "A", plays[0].PlayerID)
	assert.Empty(t, s.PlaysDuringTurn(3, "B"))
	assert.Equal(t, "B", s.PlayedCards[30].PlayerID, "latest play per card")
}
