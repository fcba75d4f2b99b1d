package room

import (
	"jaffre-server/pkg/game"
	"jaffre-server/pkg/protocol"
)

func gameUpdated(_ string, state *game.GameState) protocol.Event {
	return &protocol.GameUpdated{GameState: state}
}

func (d *Dealer) roundStarted(redeal bool) eventFunc {
	round, dealer := d.game.RoundNumber(), d.game.View("").DealerIndex
	return func(_ string, state *game.GameState) protocol.Event {
		return &protocol.RoundStarted{
			RoundNumber: round,
			DealerIndex: dealer,
			Redeal:      redeal,
			GameState:   state,
		}
	}
}

func (d *Dealer) trickResolved() eventFunc {
	trick := d.game.LastTrick()
	return func(_ string, state *game.GameState) protocol.Event {
		return &protocol.TrickResolved{Trick: trick, GameState: state}
	}
}

func (d *Dealer) roundEnded() eventFunc {
	round := d.game.LastRound()
	return func(_ string, state *game.GameState) protocol.Event {
		return &protocol.RoundEnded{Round: round, GameState: state}
	}
}

func (d *Dealer) gameOver() eventFunc {
	round, winner, scores := d.game.LastRound(), d.game.Winner(), d.game.TeamScores()
	return func(_ string, state *game.GameState) protocol.Event {
		return &protocol.GameOver{
			Winner:     winner,
			TeamScores: scores,
			Round:      round,
			GameState:  state,
		}
	}
}

// playerJoined hands the token to the new player only
func playerJoined(p *game.Player, token string) eventFunc {
	return func(recipientID string, state *game.GameState) protocol.Event {
		ev := &protocol.PlayerJoined{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			IsBot:      p.IsBot,
			GameState:  state,
		}

		if recipientID == p.ID {
			ev.Token = token
		}

		return ev
	}
}

func playerLeft(playerID, name, reason, replacedBy string) eventFunc {
	return func(_ string, state *game.GameState) protocol.Event {
		return &protocol.PlayerLeft{
			PlayerID:   playerID,
			PlayerName: name,
			Reason:     reason,
			ReplacedBy: replacedBy,
			GameState:  state,
		}
	}
}
