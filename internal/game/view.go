package game

import (
	"github.com/thraizz/dominion-server-go/internal/game/cards"
	"github.com/thraizz/dominion-server-go/internal/game/match"
)

// MatchView is a player's view of a match.
type MatchView struct {
	MatchID        string
	TurnNumber     int
	Phase          match.Phase
	ActivePlayerID string
	Actions        int
	Buys           int
	Treasure       int
	Over           bool
	Players        []PlayerView
	Supply         map[string]int
	Trash          []CardView
}

// PlayerView shows one player. Hand is only filled for the requesting player.
type PlayerView struct {
	PlayerID       string
	Name           string
	Hand           []CardView
	HandCount      int
	DeckCount      int
	Discard        []CardView
	InPlay         []CardView
	ActiveDuration []CardView
	SetAside       []CardView
}

// CardView is a visible card.
type CardView struct {
	ID     cards.ID
	Key    string
	Name   string
	Types  []cards.Type
	Cost   cards.Cost
	Facing cards.Facing
}

// GetMatchView returns playerID's view of a match.
func (e *Engine) GetMatchView(matchID, playerID string) (MatchView, error) {
	var view MatchView
	err := e.withMatch(matchID, func(st *matchState) error {
		if _, err := st.match.PlayerIndex(playerID); err != nil {
			return err
		}
		view = st.view(playerID)
		return nil
	})
	return view, err
}

// SpectatorView returns a match view with every hand hidden.
func (e *Engine) SpectatorView(matchID string) (MatchView, error) {
	var view MatchView
	err := e.withMatch(matchID, func(st *matchState) error {
		view = st.view("")
		return nil
	})
	return view, err
}

func (st *matchState) view(requestingPlayerID string) MatchView {
	m := st.match
	view := MatchView{
		MatchID:        m.ID,
		TurnNumber:     m.TurnNumber,
		Phase:          m.TurnPhase,
		ActivePlayerID: m.CurrentPlayer().ID,
		Actions:        m.PlayerActions,
		Buys:           m.PlayerBuys,
		Treasure:       m.PlayerTreasure,
		Over:           st.over,
		Supply:         make(map[string]int),
		Trash:          st.cardViews(st.sources.GetSource(cards.ZoneTrash, ""), requestingPlayerID),
	}
	for _, zone := range []cards.Zone{cards.ZoneBasicSupply, cards.ZoneKingdomSupply} {
		for _, id := range st.sources.GetSource(zone, "") {
			view.Supply[st.library.MustGet(id).Key]++
		}
	}
	for _, p := range m.Players {
		hand := st.sources.GetSource(cards.ZoneHand, p.ID)
		pv := PlayerView{
			PlayerID:       p.ID,
			Name:           p.Name,
			HandCount:      len(hand),
			DeckCount:      len(st.sources.GetSource(cards.ZoneDeck, p.ID)),
			Discard:        st.cardViews(st.sources.GetSource(cards.ZoneDiscard, p.ID), requestingPlayerID),
			InPlay:         st.cardViews(st.sources.GetSource(cards.ZonePlayArea, p.ID), requestingPlayerID),
			ActiveDuration: st.cardViews(st.sources.GetSource(cards.ZoneActiveDuration, p.ID), requestingPlayerID),
			SetAside:       st.cardViews(st.sources.GetSource(cards.ZoneSetAside, p.ID), requestingPlayerID),
		}
		if p.ID == requestingPlayerID {
			pv.Hand = st.cardViews(hand, requestingPlayerID)
		}
		view.Players = append(view.Players, pv)
	}
	return view
}

// cardViews hides face-down cards from everyone but their owner.
func (st *matchState) cardViews(ids []cards.ID, requestingPlayerID string) []CardView {
	views := make([]CardView, 0, len(ids))
	for _, id := range ids {
		card := st.library.MustGet(id)
		if card.Facing == cards.FacingBack && card.Owner != requestingPlayerID {
			views = append(views, CardView{ID: id, Facing: card.Facing})
			continue
		}
		views = append(views, CardView{
			ID:     id,
			Key:    card.Key,
			Name:   card.Name,
			Types:  card.Types,
			Cost:   card.Cost,
			Facing: card.Facing,
		})
	}
	return views
}
