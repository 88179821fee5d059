package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/thraizz/dominion-server-go/internal/game/cards"
)

// Checksum is a deterministic digest of a match's observable state. Two
// matches started with the same seed and fed the same commands produce the
// same checksum.
type Checksum struct {
	Hash    string
	Turn    int
	Version int
}

// Checksum computes the digest of a match.
func (e *Engine) Checksum(matchID string) (*Checksum, error) {
	var sum *Checksum
	err := e.withMatch(matchID, func(st *matchState) error {
		hash := sha256.New()
		if _, err := hash.Write([]byte(st.canonical())); err != nil {
			return fmt.Errorf("failed to compute hash: %w", err)
		}
		sum = &Checksum{
			Hash:    hex.EncodeToString(hash.Sum(nil)),
			Turn:    st.match.TurnNumber,
			Version: 1,
		}
		return nil
	})
	return sum, err
}

// canonical renders the match without ids that vary between runs, such as
// the match uuid, and in a fixed order.
func (st *matchState) canonical() string {
	var buf bytes.Buffer
	m := st.match

	buf.WriteString(fmt.Sprintf("MATCH:%d|%d|%s|%d|%d|%d|%t\n",
		m.TurnNumber,
		m.CurrentPlayerTurnIndex,
		m.TurnPhase,
		m.PlayerActions,
		m.PlayerBuys,
		m.PlayerTreasure,
		st.over,
	))

	zones := []cards.Zone{
		cards.ZoneHand, cards.ZoneDeck, cards.ZoneDiscard, cards.ZonePlayArea,
		cards.ZoneActiveDuration, cards.ZoneSetAside,
	}
	for _, player := range m.Players {
		buf.WriteString(fmt.Sprintf("PLAYER:%s\n", player.ID))
		for _, zone := range zones {
			writeZone(&buf, st, zone, player.ID)
		}
	}
	for _, zone := range []cards.Zone{cards.ZoneBasicSupply, cards.ZoneKingdomSupply, cards.ZoneNonSupply, cards.ZoneTrash} {
		writeZone(&buf, st, zone, "")
	}

	templates := st.reactions.Templates("")
	ids := make([]string, len(templates))
	for i, t := range templates {
		ids[i] = fmt.Sprintf("%s|%s|%t", t.ID, t.ListeningFor, t.Once)
	}
	sort.Strings(ids)
	for _, id := range ids {
		buf.WriteString(fmt.Sprintf("REACTION:%s\n", id))
	}
	return buf.String()
}

func writeZone(buf *bytes.Buffer, st *matchState, zone cards.Zone, playerID string) {
	buf.WriteString(fmt.Sprintf("  %s:", zone))
	for _, id := range st.sources.GetSource(zone, playerID) {
		card := st.library.MustGet(id)
		buf.WriteString(fmt.Sprintf(" %d=%s/%s", id, card.Key, card.Facing))
	}
	buf.WriteString("\n")
}
