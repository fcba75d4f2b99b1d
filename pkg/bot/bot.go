// Package bot decides what a bot-controlled seat does next.
//
// A Strategy only looks at the same GameState a human in that seat would see,
// and its decisions are ordinary protocol commands that go through the same
// legality checks as a human's.
package bot

import (
	"fmt"

	"jaffre-server/pkg/game"
	"jaffre-server/pkg/protocol"
)

// Strategy chooses the next command for a seat, or returns false when the seat has nothing to do
type Strategy interface {
	Decide(state *game.GameState, playerID string) (protocol.Command, bool)
}

// StrategyFunc adapts a function to a Strategy
type StrategyFunc func(state *game.GameState, playerID string) (protocol.Command, bool)

// Decide calls f
func (f StrategyFunc) Decide(state *game.GameState, playerID string) (protocol.Command, bool) {
	return f(state, playerID)
}

// New returns the strategy for a difficulty
func New(difficulty game.Difficulty) (Strategy, error) {
	switch difficulty {
	case game.Easy:
		return &Heuristic{Difficulty: game.Easy}, nil
	case game.Medium:
		return &Heuristic{Difficulty: game.Medium}, nil
	case game.Hard:
		return &Heuristic{Difficulty: game.Hard}, nil
	}

	return nil, fmt.Errorf("unknown bot difficulty: %s", difficulty)
}

// Auto is the action taken for a seat whose turn timed out: pass the bet, or play the lowest legal card
var Auto Strategy = StrategyFunc(autoAction)

func autoAction(state *game.GameState, playerID string) (protocol.Command, bool) {
	me, ok := myTurn(state, playerID)
	if !ok {
		return nil, false
	}

	switch state.Phase {
	case game.PhaseBetting:
		return &protocol.PlaceBet{Skipped: true}, true
	case game.PhasePlaying:
		legal := game.LegalCards(me.Hand, state.CurrentTrick)
		if len(legal) == 0 {
			return nil, false
		}

		return &protocol.PlayCard{Card: lowest(legal)}, true
	}

	return nil, false
}

// myTurn returns the seat of playerID if it is that seat's turn
func myTurn(state *game.GameState, playerID string) (*game.GameStatePlayer, bool) {
	current := state.CurrentPlayer()
	if current == nil || current.ID != playerID {
		return nil, false
	}

	return current, true
}
