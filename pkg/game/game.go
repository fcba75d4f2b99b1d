// Package game is the authoritative state machine of a single Jaffre game.
//
// A Game is not safe for concurrent use. The room package owns each Game from a
// single goroutine and is the only thing that mutates it.
package game

import (
	"github.com/sirupsen/logrus"

	"jaffre-server/internal/rng"
	"jaffre-server/pkg/bidding"
	"jaffre-server/pkg/deck"
	"jaffre-server/pkg/scoring"
)

// SeatCount is the number of seats at a table
const SeatCount = scoring.SeatCount

// HandSize is the number of cards dealt to each seat
const HandSize = deck.Size / SeatCount

// TricksPerRound is the number of tricks in a round
const TricksPerRound = HandSize

// Phase is the phase of the game
type Phase string

// phase constants
const (
	PhaseTeamSelection Phase = "team_selection"
	PhaseBetting       Phase = "betting"
	PhasePlaying       Phase = "playing"
	PhaseScoring       Phase = "scoring"
	PhaseGameOver      Phase = "game_over"
)

// Game is a game of Jaffre
type Game struct {
	id      string
	options Options
	logger  logrus.FieldLogger
	rng     rng.Generator
	deck    *deck.Deck

	phase     Phase
	players   []*Player
	creatorID string

	currentPlayerIndex int
	dealerIndex        int
	roundNumber        int

	bets         []bidding.Bet
	highestBet   *bidding.Bet
	trump        deck.Color
	currentTrick []scoring.Play
	tricks       []scoring.TrickRecord
	lastTrick    *scoring.TrickRecord

	teamScores   scoring.TeamScores
	roundHistory []*scoring.RoundRecord
	playersReady map[string]bool
	winner       scoring.TeamID
}

// NewGame returns a new game in team selection
func NewGame(id string, options Options, logger logrus.FieldLogger) *Game {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Game{
		id:           id,
		options:      options.withDefaults(),
		logger:       logger.WithField("gameId", id),
		rng:          rng.Crypto{},
		deck:         deck.New(),
		phase:        PhaseTeamSelection,
		players:      make([]*Player, 0, SeatCount),
		playersReady: make(map[string]bool),
	}
}

// SetRandom replaces the source used to seed each round's shuffle
func (g *Game) SetRandom(r rng.Generator) {
	g.rng = r
}

// ID returns the game ID
func (g *Game) ID() string {
	return g.id
}

// Options returns the rules of the game
func (g *Game) Options() Options {
	return g.options
}

// Phase returns the current phase
func (g *Game) Phase() Phase {
	return g.phase
}

// CreatorID returns the ID of the player allowed to start the game
func (g *Game) CreatorID() string {
	return g.creatorID
}

// Players returns the players in seat order
func (g *Game) Players() []*Player {
	return g.players
}

// RoundNumber returns the current round, starting at 1
func (g *Game) RoundNumber() int {
	return g.roundNumber
}

// TeamScores returns the cumulative scores
func (g *Game) TeamScores() scoring.TeamScores {
	return g.teamScores
}

// Winner returns the winning team once the game is over
func (g *Game) Winner() scoring.TeamID {
	return g.winner
}

// LastTrick returns a copy of the most recently resolved trick of the round
func (g *Game) LastTrick() *scoring.TrickRecord {
	if g.lastTrick == nil {
		return nil
	}

	return g.lastTrick.Clone()
}

// LastRound returns the record of the most recently scored round
func (g *Game) LastRound() *scoring.RoundRecord {
	if len(g.roundHistory) == 0 {
		return nil
	}

	return g.roundHistory[len(g.roundHistory)-1]
}

// Player returns the player with the ID
func (g *Game) Player(id string) (*Player, bool) {
	for _, p := range g.players {
		if p.ID == id {
			return p, true
		}
	}

	return nil, false
}

// PlayerByName returns the player with the name
func (g *Game) PlayerByName(name string) (*Player, bool) {
	for _, p := range g.players {
		if p.Name == name {
			return p, true
		}
	}

	return nil, false
}

// Seat returns the seat index of the player, or -1
func (g *Game) Seat(id string) int {
	for i, p := range g.players {
		if p.ID == id {
			return i
		}
	}

	return -1
}

// Bots returns the bot-controlled seats
func (g *Game) Bots() []*Player {
	bots := make([]*Player, 0)
	for _, p := range g.players {
		if p.IsBot {
			bots = append(bots, p)
		}
	}

	return bots
}

// HasHumans returns true if at least one seat is controlled by a human
func (g *Game) HasHumans() bool {
	for _, p := range g.players {
		if !p.IsBot {
			return true
		}
	}

	return false
}

// CurrentPlayer returns the player whose turn it is, if the phase has turns
func (g *Game) CurrentPlayer() *Player {
	if g.phase != PhaseBetting && g.phase != PhasePlaying {
		return nil
	}

	return g.players[g.currentPlayerIndex]
}

// PendingReady returns the players who have not acknowledged the round summary
func (g *Game) PendingReady() []*Player {
	if g.phase != PhaseScoring {
		return nil
	}

	pending := make([]*Player, 0, SeatCount)
	for _, p := range g.players {
		if !g.playersReady[p.Name] {
			pending = append(pending, p)
		}
	}

	return pending
}

func (g *Game) requirePhase(allowed ...Phase) error {
	for _, phase := range allowed {
		if g.phase == phase {
			return nil
		}
	}

	return PhaseError{Phase: g.phase, Allowed: allowed}
}

func (g *Game) teamCount(team scoring.TeamID) int {
	n := 0
	for _, p := range g.players {
		if p.TeamID == team {
			n++
		}
	}

	return n
}
