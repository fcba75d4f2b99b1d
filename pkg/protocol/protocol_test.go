package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"jaffre-server/pkg/bidding"
	"jaffre-server/pkg/deck"
	"jaffre-server/pkg/game"
	"jaffre-server/pkg/scoring"
	"jaffre-server/pkg/session"
)

func decode(t *testing.T, s string) (Command, error) {
	t.Helper()

	var env Envelope
	if !assert.NoError(t, json.Unmarshal([]byte(s), &env)) {
		t.FailNow()
	}

	return env.Command()
}

func TestEnvelope_Command(t *testing.T) {
	a := assert.New(t)

	cmd, err := decode(t, `{"type":"place_bet","gameId":"abc","data":{"amount":8,"withoutTrump":true}}`)
	a.NoError(err)
	a.Equal(&PlaceBet{Amount: 8, WithoutTrump: true}, cmd)

	cmd, err = decode(t, `{"type":"play_card","data":{"card":{"color":"brown","value":0}}}`)
	a.NoError(err)
	a.Equal(&PlayCard{Card: deck.CardFromString("0n")}, cmd)

	cmd, err = decode(t, `{"type":"select_team","data":{"teamId":2}}`)
	a.NoError(err)
	a.Equal(&SelectTeam{TeamID: scoring.Team2}, cmd)

	cmd, err = decode(t, `{"type":"start_game"}`)
	a.NoError(err)
	a.Equal(&StartGame{}, cmd)

	cmd, err = decode(t, `{"type":"create_game","data":{"playerName":"Alice","options":{"winningScore":21}}}`)
	a.NoError(err)
	a.Equal(&CreateGame{PlayerName: "Alice", Options: &game.Options{WinningScore: 21}}, cmd)

	cmd, err = decode(t, `{"type":"reconnect_to_game","data":{"token":"t"}}`)
	a.NoError(err)
	a.Equal(TypeReconnectToGame, cmd.CommandType())
}

func TestEnvelope_Command_Errors(t *testing.T) {
	a := assert.New(t)

	_, err := decode(t, `{"data":{}}`)
	a.Equal(ErrMissingType, err)

	_, err = decode(t, `{"type":"shuffle"}`)
	a.EqualError(err, "unknown command: shuffle")
	a.Equal(CodeInvalidCommand, Classify(err))

	_, err = decode(t, `{"type":"play_card","data":{"card":{"color":"purple","value":0}}}`)
	a.True(errors.Is(err, ErrInvalidData))
	a.Equal(CodeInvalidCommand, Classify(err))

	_, err = decode(t, `{"type":"select_team","data":{"teamId":3}}`)
	a.True(errors.Is(err, ErrInvalidData))
}

func TestNewEnvelope(t *testing.T) {
	a := assert.New(t)

	env, err := NewEnvelope("abc", &KickPlayer{PlayerID: "p2"})
	a.NoError(err)
	a.Equal(TypeKickPlayer, env.Type)
	a.Equal("abc", env.GameID)

	cmd, err := env.Command()
	a.NoError(err)
	a.Equal(&KickPlayer{PlayerID: "p2"}, cmd)
}

func TestMessage_Encode(t *testing.T) {
	a := assert.New(t)

	b, err := NewMessage("ctx", ReconnectionFailed{Reason: "expired"}).Encode()
	a.NoError(err)
	a.JSONEq(`{"event":"reconnection_failed","context":"ctx","data":{"reason":"expired"}}`, string(b))

	b, err = NewMessage("", &Error{Code: CodeGameFull, Message: "game is full", Bots: []string{"Robot"}}).Encode()
	a.NoError(err)
	a.JSONEq(`{"event":"error","data":{"code":"game_full","message":"game is full","bots":["Robot"]}}`, string(b))
}

func TestClassify(t *testing.T) {
	a := assert.New(t)

	a.Equal(CodeNotYourTurn, Classify(game.ErrNotPlayersTurn))
	a.Equal(CodeCardNotInHand, Classify(game.ErrCardNotInHand))
	a.Equal(CodeMustFollowColor, Classify(game.ErrMustFollowColor))
	a.Equal(CodeInvalidBet, Classify(bidding.ErrBetTooLow))
	a.Equal(CodeInvalidBet, Classify(bidding.AmountError{Min: 7, Max: 12, Got: 3}))
	a.Equal(CodeWrongPhase, Classify(game.PhaseError{Phase: game.PhaseBetting}))
	a.Equal(CodeNotAuthorized, Classify(game.ErrNotCreator))
	a.Equal(CodeGameFull, Classify(game.ErrGameFull))
	a.Equal(CodeNameTaken, Classify(fmt.Errorf("join: %w", game.ErrNameTaken)))
	a.Equal(CodeIntegrityViolation, Classify(game.IntegrityError{Reason: "x"}))
	a.Equal(CodeInvalidCommand, Classify(game.PlayerCountError(3)))
	a.Equal(CodeInvalidCommand, Classify(session.RejectInvalid))
	a.Equal(CodeGameNotFound, Classify(ErrGameNotFound))
	a.Equal(CodeInternal, Classify(errors.New("boom")))

	e := NewError(game.ErrTeamFull)
	a.Equal(CodeTeamFull, e.Code)
	a.Equal("team is full", e.Message)
}
