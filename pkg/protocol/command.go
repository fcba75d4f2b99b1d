// Package protocol is the wire format between clients and the game server.
//
// Every inbound message is an Envelope whose Data decodes into exactly one
// Command type. Every outbound message is a Message carrying one Event type.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"jaffre-server/pkg/deck"
	"jaffre-server/pkg/game"
	"jaffre-server/pkg/scoring"
)

// ErrMissingType happens when an envelope has no type
var ErrMissingType = errors.New("message type is required")

// ErrInvalidData happens when the data of an envelope does not decode into its command
var ErrInvalidData = errors.New("invalid command data")

// UnknownCommandError happens when an envelope names a command that does not exist
type UnknownCommandError string

func (u UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command: %s", string(u))
}

// Envelope is an inbound message
type Envelope struct {
	Type    string          `json:"type"`
	GameID  string          `json:"gameId,omitempty"`
	Context string          `json:"context,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Command is a decoded inbound message
type Command interface {
	CommandType() string
}

// command types
const (
	TypeCreateGame          = "create_game"
	TypeJoinGame            = "join_game"
	TypeSpectateGame        = "spectate_game"
	TypeSelectTeam          = "select_team"
	TypeSwapPosition        = "swap_position"
	TypeStartGame           = "start_game"
	TypePlaceBet            = "place_bet"
	TypePlayCard            = "play_card"
	TypePlayerReady         = "player_ready"
	TypeLeaveGame           = "leave_game"
	TypeReconnectToGame     = "reconnect_to_game"
	TypeReplaceWithBot      = "replace_with_bot"
	TypeTakeOverBot         = "take_over_bot"
	TypeChangeBotDifficulty = "change_bot_difficulty"
	TypeKickPlayer          = "kick_player"
	TypeAddBot              = "add_bot"
)

// CreateGame opens a new table with the sender seated as its creator
type CreateGame struct {
	PlayerName string        `json:"playerName"`
	Options    *game.Options `json:"options,omitempty"`
}

// JoinGame takes an open seat
type JoinGame struct {
	PlayerName string `json:"playerName"`
}

// SpectateGame watches a game without a seat
type SpectateGame struct{}

// SelectTeam moves the sender to a team
type SelectTeam struct {
	TeamID scoring.TeamID `json:"teamId"`
}

// SwapPosition exchanges seats with another player
type SwapPosition struct {
	TargetPlayerID string `json:"targetPlayerId"`
}

// StartGame deals the first round
type StartGame struct{}

// PlaceBet bets or passes
type PlaceBet struct {
	Amount       int  `json:"amount"`
	WithoutTrump bool `json:"withoutTrump"`
	Skipped      bool `json:"skipped"`
}

// PlayCard plays a card into the current trick
type PlayCard struct {
	Card deck.Card `json:"card"`
}

// PlayerReady acknowledges the round summary
type PlayerReady struct{}

// LeaveGame gives up the sender's seat
type LeaveGame struct{}

// ReconnectToGame returns to a seat with a session token
type ReconnectToGame struct {
	Token string `json:"token"`
}

// ReplaceWithBot hands a seat to a bot. An empty name means the sender's own seat
type ReplaceWithBot struct {
	PlayerName string          `json:"playerName,omitempty"`
	Difficulty game.Difficulty `json:"difficulty,omitempty"`
}

// TakeOverBot seats the sender in place of a bot
type TakeOverBot struct {
	BotName    string `json:"botName"`
	PlayerName string `json:"playerName"`
}

// ChangeBotDifficulty changes how well a bot plays
type ChangeBotDifficulty struct {
	BotName    string          `json:"botName"`
	Difficulty game.Difficulty `json:"difficulty"`
}

// KickPlayer removes a player from the game
type KickPlayer struct {
	PlayerID string `json:"playerId"`
}

// AddBot seats a bot in the lobby
type AddBot struct {
	TeamID     scoring.TeamID  `json:"teamId"`
	Difficulty game.Difficulty `json:"difficulty,omitempty"`
}

// CommandType returns "create_game"
func (CreateGame) CommandType() string { return TypeCreateGame }

// CommandType returns "join_game"
func (JoinGame) CommandType() string { return TypeJoinGame }

// CommandType returns "spectate_game"
func (SpectateGame) CommandType() string { return TypeSpectateGame }

// CommandType returns "select_team"
func (SelectTeam) CommandType() string { return TypeSelectTeam }

// CommandType returns "swap_position"
func (SwapPosition) CommandType() string { return TypeSwapPosition }

// CommandType returns "start_game"
func (StartGame) CommandType() string { return TypeStartGame }

// CommandType returns "place_bet"
func (PlaceBet) CommandType() string { return TypePlaceBet }

// CommandType returns "play_card"
func (PlayCard) CommandType() string { return TypePlayCard }

// CommandType returns "player_ready"
func (PlayerReady) CommandType() string { return TypePlayerReady }

// CommandType returns "leave_game"
func (LeaveGame) CommandType() string { return TypeLeaveGame }

// CommandType returns "reconnect_to_game"
func (ReconnectToGame) CommandType() string { return TypeReconnectToGame }

// CommandType returns "replace_with_bot"
func (ReplaceWithBot) CommandType() string { return TypeReplaceWithBot }

// CommandType returns "take_over_bot"
func (TakeOverBot) CommandType() string { return TypeTakeOverBot }

// CommandType returns "change_bot_difficulty"
func (ChangeBotDifficulty) CommandType() string { return TypeChangeBotDifficulty }

// CommandType returns "kick_player"
func (KickPlayer) CommandType() string { return TypeKickPlayer }

// CommandType returns "add_bot"
func (AddBot) CommandType() string { return TypeAddBot }

var commands = map[string]func() Command{
	TypeCreateGame:          func() Command { return &CreateGame{} },
	TypeJoinGame:            func() Command { return &JoinGame{} },
	TypeSpectateGame:        func() Command { return &SpectateGame{} },
	TypeSelectTeam:          func() Command { return &SelectTeam{} },
	TypeSwapPosition:        func() Command { return &SwapPosition{} },
	TypeStartGame:           func() Command { return &StartGame{} },
	TypePlaceBet:            func() Command { return &PlaceBet{} },
	TypePlayCard:            func() Command { return &PlayCard{} },
	TypePlayerReady:         func() Command { return &PlayerReady{} },
	TypeLeaveGame:           func() Command { return &LeaveGame{} },
	TypeReconnectToGame:     func() Command { return &ReconnectToGame{} },
	TypeReplaceWithBot:      func() Command { return &ReplaceWithBot{} },
	TypeTakeOverBot:         func() Command { return &TakeOverBot{} },
	TypeChangeBotDifficulty: func() Command { return &ChangeBotDifficulty{} },
	TypeKickPlayer:          func() Command { return &KickPlayer{} },
	TypeAddBot:              func() Command { return &AddBot{} },
}

// Command decodes Data into the command named by Type.
// The returned value is a pointer, e.g. *PlaceBet
func (e *Envelope) Command() (Command, error) {
	if e.Type == "" {
		return nil, ErrMissingType
	}

	newCommand, ok := commands[e.Type]
	if !ok {
		return nil, UnknownCommandError(e.Type)
	}

	cmd := newCommand()
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return cmd, nil
	}

	if err := json.Unmarshal(e.Data, cmd); err != nil {
		return nil, fmt.Errorf("%w for %s: %s", ErrInvalidData, e.Type, err)
	}

	return cmd, nil
}

// NewEnvelope encodes a command into an envelope
func NewEnvelope(gameID string, cmd Command) (*Envelope, error) {
	data, err := json.Marshal(cmd)
	if err != nil {
		return nil, err
	}

	return &Envelope{
		Type:   cmd.CommandType(),
		GameID: gameID,
		Data:   data,
	}, nil
}
