package game

import (
	"jaffre-server/pkg/deck"
	"jaffre-server/pkg/scoring"
)

// Difficulty is how well a bot plays
type Difficulty string

// difficulty constants
const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// DefaultDifficulty is used when a bot takes over a seat without a difficulty
const DefaultDifficulty = Medium

// Valid returns true for a known difficulty
func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	}

	return false
}

// Player is a seat at the table and whoever currently controls it
type Player struct {
	// ID is the identity of the controlling connection. It changes on reconnect and takeover
	ID            string
	Name          string
	TeamID        scoring.TeamID
	Hand          deck.Hand
	TricksWon     int
	PointsWon     int
	IsBot         bool
	BotDifficulty Difficulty
}

func (p *Player) resetRound() {
	p.Hand = nil
	p.TricksWon = 0
	p.PointsWon = 0
}
