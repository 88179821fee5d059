package watchers

import (
	"github.com/thraizz/dominion-server-go/internal/game/match"
	"github.com/thraizz/dominion-server-go/internal/game/rules"
)

// CardsGainedWatcher records every gain into the match stats ledger.
type CardsGainedWatcher struct {
	stats *match.Stats
}

// NewCardsGainedWatcher creates a watcher writing into stats.
func NewCardsGainedWatcher(stats *match.Stats) *CardsGainedWatcher {
	return &CardsGainedWatcher{stats: stats}
}

// Key implements the Watcher interface.
func (w *CardsGainedWatcher) Key() string { return "CardsGainedWatcher" }

// Watch implements the Watcher interface.
func (w *CardsGainedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventCardGained || event.PlayerID == "" {
		return
	}
	w.stats.RecordGain(match.GainRecord{
		CardID:     event.CardID,
		PlayerID:   event.PlayerID,
		TurnNumber: event.TurnNumber,
		TurnPhase:  event.Phase,
		Bought:     event.Bought,
	})
}

// CardsPlayedWatcher records every play into the match stats ledger.
type CardsPlayedWatcher struct {
	stats *match.Stats
}

// NewCardsPlayedWatcher creates a watcher writing into stats.
func NewCardsPlayedWatcher(stats *match.Stats) *CardsPlayedWatcher {
	return &CardsPlayedWatcher{stats: stats}
}

// Key implements the Watcher interface.
func (w *CardsPlayedWatcher) Key() string { return "CardsPlayedWatcher" }

// Watch implements the Watcher interface.
func (w *CardsPlayedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventCardPlayed || event.PlayerID == "" {
		return
	}
	w.stats.RecordPlay(match.PlayRecord{
		CardID:     event.CardID,
		PlayerID:   event.PlayerID,
		TurnNumber: event.TurnNumber,
		TurnPhase:  event.Phase,
	})
}
