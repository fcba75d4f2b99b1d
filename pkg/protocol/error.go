package protocol

import (
	"errors"

	"jaffre-server/pkg/bidding"
	"jaffre-server/pkg/game"
	"jaffre-server/pkg/session"
)

// ErrorCode classifies an error sent to a client
type ErrorCode string

// error codes
const (
	CodeInvalidCommand     ErrorCode = "invalid_command"
	CodeNotYourTurn        ErrorCode = "not_your_turn"
	CodeCardNotInHand      ErrorCode = "card_not_in_hand"
	CodeMustFollowColor    ErrorCode = "must_follow_color"
	CodeInvalidBet         ErrorCode = "invalid_bet"
	CodeWrongPhase         ErrorCode = "wrong_phase"
	CodeNotAuthorized      ErrorCode = "not_authorized"
	CodeGameFull           ErrorCode = "game_full"
	CodeTeamFull           ErrorCode = "team_full"
	CodeGameNotFound       ErrorCode = "game_not_found"
	CodeNameTaken          ErrorCode = "name_taken"
	CodePlayerNotFound     ErrorCode = "player_not_found"
	CodeNotInGame          ErrorCode = "not_in_game"
	CodeAlreadyInGame      ErrorCode = "already_in_game"
	CodeKicked             ErrorCode = "kicked"
	CodeIntegrityViolation ErrorCode = "integrity_violation"
	CodeInternal           ErrorCode = "internal_error"
)

// Error is sent to the sender of a rejected command
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	// Bots lists the seats that can be taken over when Code is game_full
	Bots []string `json:"bots,omitempty"`
}

// ErrGameNotFound happens when a command names a game that does not exist
var ErrGameNotFound = errors.New("game not found")

// ErrNotInGame happens when a connection sends a game command without a seat
var ErrNotInGame = errors.New("you are not in a game")

// ErrAlreadyInGame happens when a seated connection tries to join another game
var ErrAlreadyInGame = errors.New("you are already in a game")

// NewError classifies err
func NewError(err error) *Error {
	return &Error{
		Code:    Classify(err),
		Message: err.Error(),
	}
}

// Classify returns the error code of err
func Classify(err error) ErrorCode {
	var (
		phaseErr     game.PhaseError
		countErr     game.PlayerCountError
		balanceErr   game.TeamBalanceError
		integrityErr game.IntegrityError
		amountErr    bidding.AmountError
		unknownErr   UnknownCommandError
		rejection    session.Rejection
	)

	switch {
	case errors.Is(err, game.ErrNotPlayersTurn):
		return CodeNotYourTurn
	case errors.Is(err, game.ErrCardNotInHand):
		return CodeCardNotInHand
	case errors.Is(err, game.ErrMustFollowColor):
		return CodeMustFollowColor
	case errors.Is(err, bidding.ErrBetTooLow), errors.As(err, &amountErr):
		return CodeInvalidBet
	case errors.As(err, &phaseErr):
		return CodeWrongPhase
	case errors.Is(err, game.ErrNotCreator), errors.Is(err, game.ErrCannotKickSelf):
		return CodeNotAuthorized
	case errors.Is(err, game.ErrGameFull):
		return CodeGameFull
	case errors.Is(err, game.ErrTeamFull):
		return CodeTeamFull
	case errors.Is(err, game.ErrNameTaken):
		return CodeNameTaken
	case errors.Is(err, game.ErrPlayerNotFound):
		return CodePlayerNotFound
	case errors.Is(err, ErrGameNotFound):
		return CodeGameNotFound
	case errors.Is(err, ErrNotInGame):
		return CodeNotInGame
	case errors.Is(err, ErrAlreadyInGame):
		return CodeAlreadyInGame
	case errors.As(err, &integrityErr):
		return CodeIntegrityViolation
	case errors.As(err, &countErr), errors.As(err, &balanceErr), errors.As(err, &unknownErr),
		errors.As(err, &rejection), errors.Is(err, ErrMissingType), errors.Is(err, ErrInvalidData),
		errors.Is(err, game.ErrInvalidTeam), errors.Is(err, game.ErrInvalidDifficulty),
		errors.Is(err, game.ErrInvalidName), errors.Is(err, game.ErrNotABot), errors.Is(err, game.ErrIsABot):
		return CodeInvalidCommand
	}

	return CodeInternal
}
