package protocol

import (
	"encoding/json"

	"jaffre-server/pkg/game"
	"jaffre-server/pkg/scoring"
)

// Event is an outbound payload
type Event interface {
	EventName() string
}

// event names
const (
	EventGameCreated            = "game_created"
	EventPlayerJoined           = "player_joined"
	EventReconnectionSuccessful = "reconnection_successful"
	EventReconnectionFailed     = "reconnection_failed"
	EventRoundStarted           = "round_started"
	EventGameUpdated            = "game_updated"
	EventTrickResolved          = "trick_resolved"
	EventRoundEnded             = "round_ended"
	EventGameOver               = "game_over"
	EventPlayerLeft             = "player_left"
	EventLeaveGameSuccess       = "leave_game_success"
	EventSpectatorJoined        = "spectator_joined"
	EventError                  = "error"
)

// Message is an outbound message
type Message struct {
	Event   string `json:"event"`
	Context string `json:"context,omitempty"`
	Data    Event  `json:"data"`
}

// NewMessage wraps an event for sending
func NewMessage(context string, event Event) *Message {
	return &Message{
		Event:   event.EventName(),
		Context: context,
		Data:    event,
	}
}

// Encode returns the JSON form of the message
func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// GameCreated is sent to the creator of a new game
type GameCreated struct {
	GameID    string          `json:"gameId"`
	PlayerID  string          `json:"playerId"`
	Token     string          `json:"token"`
	GameState *game.GameState `json:"gameState"`
}

// PlayerJoined is sent when a seat is taken. Token is only set in the copy sent to the new player
type PlayerJoined struct {
	PlayerID   string          `json:"playerId"`
	PlayerName string          `json:"playerName"`
	IsBot      bool            `json:"isBot"`
	Token      string          `json:"token,omitempty"`
	GameState  *game.GameState `json:"gameState"`
}

// ReconnectionSuccessful is sent to a player who returned to their seat
type ReconnectionSuccessful struct {
	PlayerID  string          `json:"playerId"`
	Token     string          `json:"token"`
	GameState *game.GameState `json:"gameState"`
}

// ReconnectionFailed is sent when a session token is not honored
type ReconnectionFailed struct {
	Reason string `json:"reason"`
}

// RoundStarted is sent when cards are dealt
type RoundStarted struct {
	RoundNumber int             `json:"roundNumber"`
	DealerIndex int             `json:"dealerIndex"`
	Redeal      bool            `json:"redeal"`
	GameState   *game.GameState `json:"gameState"`
}

// GameUpdated is sent after any other change
type GameUpdated struct {
	GameState *game.GameState `json:"gameState"`
}

// TrickResolved is sent when the fourth card of a trick is played
type TrickResolved struct {
	Trick     *scoring.TrickRecord `json:"trick"`
	GameState *game.GameState      `json:"gameState"`
}

// RoundEnded is sent when a round is scored
type RoundEnded struct {
	Round     *scoring.RoundRecord `json:"round"`
	GameState *game.GameState      `json:"gameState"`
}

// GameOver is sent when a team reaches the winning score
type GameOver struct {
	Winner     scoring.TeamID       `json:"winner"`
	TeamScores scoring.TeamScores   `json:"teamScores"`
	Round      *scoring.RoundRecord `json:"round"`
	GameState  *game.GameState      `json:"gameState"`
}

// leave reasons
const (
	LeftVoluntarily = "left"
	LeftKicked      = "kicked"
	LeftExpired     = "expired"
	LeftReplaced    = "replaced"
)

// PlayerLeft is sent when a player gives up their seat. ReplacedBy names the bot that took the seat
type PlayerLeft struct {
	PlayerID   string          `json:"playerId"`
	PlayerName string          `json:"playerName"`
	Reason     string          `json:"reason"`
	ReplacedBy string          `json:"replacedBy,omitempty"`
	GameState  *game.GameState `json:"gameState"`
}

// LeaveGameSuccess is sent to the player who left
type LeaveGameSuccess struct {
	GameID string `json:"gameId"`
}

// SpectatorJoined is sent when someone starts watching
type SpectatorJoined struct {
	SpectatorID string          `json:"spectatorId"`
	GameState   *game.GameState `json:"gameState"`
}

// EventName returns "game_created"
func (GameCreated) EventName() string { return EventGameCreated }

// EventName returns "player_joined"
func (PlayerJoined) EventName() string { return EventPlayerJoined }

// EventName returns "reconnection_successful"
func (ReconnectionSuccessful) EventName() string { return EventReconnectionSuccessful }

// EventName returns "reconnection_failed"
func (ReconnectionFailed) EventName() string { return EventReconnectionFailed }

// EventName returns "round_started"
func (RoundStarted) EventName() string { return EventRoundStarted }

// EventName returns "game_updated"
func (GameUpdated) EventName() string { return EventGameUpdated }

// EventName returns "trick_resolved"
func (TrickResolved) EventName() string { return EventTrickResolved }

// EventName returns "round_ended"
func (RoundEnded) EventName() string { return EventRoundEnded }

// EventName returns "game_over"
func (GameOver) EventName() string { return EventGameOver }

// EventName returns "player_left"
func (PlayerLeft) EventName() string { return EventPlayerLeft }

// EventName returns "leave_game_success"
func (LeaveGameSuccess) EventName() string { return EventLeaveGameSuccess }

// EventName returns "spectator_joined"
func (SpectatorJoined) EventName() string { return EventSpectatorJoined }

// EventName returns "error"
func (Error) EventName() string { return EventError }
