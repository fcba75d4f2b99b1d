package game

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotPlayersTurn is returned when it's not the player's turn
var ErrNotPlayersTurn = errors.New("not player's turn")

// ErrCardNotInHand happens when the player tries to play a card they don't have
var ErrCardNotInHand = errors.New("card is not in player's hand")

// ErrMustFollowColor happens when a player holds the led color and plays another one
var ErrMustFollowColor = errors.New("player must follow the led color")

// ErrNotCreator happens when someone other than the creator tries a creator-only action
var ErrNotCreator = errors.New("only the game creator can do that")

// ErrNameTaken happens when a second player tries to use the same name
var ErrNameTaken = errors.New("name is already taken")

// ErrPlayerNotFound is returned when a player ID or name is not seated at the table
var ErrPlayerNotFound = errors.New("player not found")

// ErrGameFull happens when a fifth player tries to sit down
var ErrGameFull = errors.New("game is full")

// ErrTeamFull happens when a third player selects the same team
var ErrTeamFull = errors.New("team is full")

// ErrInvalidTeam happens when a team other than 1 or 2 is selected
var ErrInvalidTeam = errors.New("invalid team")

// ErrInvalidDifficulty happens with an unknown bot difficulty
var ErrInvalidDifficulty = errors.New("invalid bot difficulty")

// ErrNotABot happens when a bot-only action targets a human
var ErrNotABot = errors.New("player is not a bot")

// ErrIsABot happens when a human-only action targets a bot
var ErrIsABot = errors.New("player is a bot")

// ErrCannotKickSelf prevents the creator from kicking themselves
var ErrCannotKickSelf = errors.New("you cannot kick yourself")

// ErrInvalidName happens when a player name is empty
var ErrInvalidName = errors.New("name is required")

// PhaseError is returned when an action does not apply to the current phase
type PhaseError struct {
	Phase   Phase
	Allowed []Phase
}

func (p PhaseError) Error() string {
	allowed := make([]string, len(p.Allowed))
	for i, phase := range p.Allowed {
		allowed[i] = string(phase)
	}

	return fmt.Sprintf("action is not allowed during %s (allowed: %s)", p.Phase, strings.Join(allowed, ", "))
}

// PlayerCountError is an error on the number of players in the game
type PlayerCountError int

func (p PlayerCountError) Error() string {
	return fmt.Sprintf("expected %d players, got %d", SeatCount, int(p))
}

// TeamBalanceError happens when the game starts without two players on each team
type TeamBalanceError struct {
	Team1 int
	Team2 int
}

func (t TeamBalanceError) Error() string {
	return fmt.Sprintf("each team needs 2 players, got %d and %d", t.Team1, t.Team2)
}

// IntegrityError is a broken invariant. The game cannot safely continue after one
type IntegrityError struct {
	Reason string
}

func (i IntegrityError) Error() string {
	return "integrity violation: " + i.Reason
}
