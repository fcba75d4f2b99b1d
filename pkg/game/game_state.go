package game

import (
	"sort"
	"time"

	"jaffre-server/pkg/bidding"
	"jaffre-server/pkg/deck"
	"jaffre-server/pkg/scoring"
)

// GameState is a snapshot of the game as seen by one participant
type GameState struct {
	ID                 string                 `json:"id"`
	Phase              Phase                  `json:"phase"`
	Players            []*GameStatePlayer     `json:"players"`
	CreatorID          string                 `json:"creatorId"`
	CurrentPlayerIndex int                    `json:"currentPlayerIndex"`
	DealerIndex        int                    `json:"dealerIndex"`
	CurrentBets        []bidding.Bet          `json:"currentBets"`
	HighestBet         *bidding.Bet           `json:"highestBet"`
	Trump              *deck.Color            `json:"trump"`
	CurrentTrick       []scoring.Play         `json:"currentTrick"`
	LastTrick          *scoring.TrickRecord   `json:"lastTrick"`
	RoundNumber        int                    `json:"roundNumber"`
	TeamScores         scoring.TeamScores     `json:"teamScores"`
	RoundHistory       []*scoring.RoundRecord `json:"roundHistory"`
	PlayersReady       []string               `json:"playersReady"`
	Winner             scoring.TeamID         `json:"winner"`
	Options            Options                `json:"options"`
	TurnDeadline       *time.Time             `json:"turnDeadline"`
}

// GameStatePlayer is a seat as seen by one participant. Hand is only set for the viewer's own seat
type GameStatePlayer struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Seat          int            `json:"seat"`
	TeamID        scoring.TeamID `json:"teamId"`
	Hand          deck.Hand      `json:"hand,omitempty"`
	HandSize      int            `json:"handSize"`
	TricksWon     int            `json:"tricksWon"`
	PointsWon     int            `json:"pointsWon"`
	IsBot         bool           `json:"isBot"`
	BotDifficulty Difficulty     `json:"botDifficulty,omitempty"`
	Connected     bool           `json:"connected"`
}

// View returns the state as seen by viewerID. Spectators pass an ID that is not seated and see no hands
func (g *Game) View(viewerID string) *GameState {
	players := make([]*GameStatePlayer, len(g.players))
	for i, p := range g.players {
		gsp := &GameStatePlayer{
			ID:            p.ID,
			Name:          p.Name,
			Seat:          i,
			TeamID:        p.TeamID,
			HandSize:      len(p.Hand),
			TricksWon:     p.TricksWon,
			PointsWon:     p.PointsWon,
			IsBot:         p.IsBot,
			BotDifficulty: p.BotDifficulty,
			Connected:     p.IsBot,
		}

		if p.ID == viewerID {
			gsp.Hand = p.Hand.Clone()
		}

		players[i] = gsp
	}

	ready := make([]string, 0, len(g.playersReady))
	for name := range g.playersReady {
		ready = append(ready, name)
	}
	sort.Strings(ready)

	state := &GameState{
		ID:                 g.id,
		Phase:              g.phase,
		Players:            players,
		CreatorID:          g.creatorID,
		CurrentPlayerIndex: g.currentPlayerIndex,
		DealerIndex:        g.dealerIndex,
		CurrentBets:        append([]bidding.Bet{}, g.bets...),
		CurrentTrick:       append([]scoring.Play{}, g.currentTrick...),
		RoundNumber:        g.roundNumber,
		TeamScores:         g.teamScores,
		RoundHistory:       append([]*scoring.RoundRecord{}, g.roundHistory...),
		PlayersReady:       ready,
		Winner:             g.winner,
		Options:            g.options,
	}

	if g.highestBet != nil {
		bet := *g.highestBet
		state.HighestBet = &bet
	}

	if g.trump != "" {
		trump := g.trump
		state.Trump = &trump
	}

	state.LastTrick = g.LastTrick()

	return state
}

// Player returns the seat with the ID
func (s *GameState) Player(id string) (*GameStatePlayer, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}

	return nil, false
}

// CurrentPlayer returns the seat whose turn it is, if the phase has turns
func (s *GameState) CurrentPlayer() *GameStatePlayer {
	if s.Phase != PhaseBetting && s.Phase != PhasePlaying {
		return nil
	}

	if s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(s.Players) {
		return nil
	}

	return s.Players[s.CurrentPlayerIndex]
}

// IsReady returns true if the named player acknowledged the round summary
func (s *GameState) IsReady(name string) bool {
	for _, n := range s.PlayersReady {
		if n == name {
			return true
		}
	}

	return false
}
