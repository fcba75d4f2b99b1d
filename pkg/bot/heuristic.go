package bot

import (
	"jaffre-server/pkg/bidding"
	"jaffre-server/pkg/deck"
	"jaffre-server/pkg/game"
	"jaffre-server/pkg/protocol"
	"jaffre-server/pkg/scoring"
)

// Heuristic is the built-in strategy. Higher difficulties look at more of the table
type Heuristic struct {
	Difficulty game.Difficulty
}

// Decide returns the seat's next command
func (h *Heuristic) Decide(state *game.GameState, playerID string) (protocol.Command, bool) {
	me, ok := state.Player(playerID)
	if !ok {
		return nil, false
	}

	switch state.Phase {
	case game.PhaseTeamSelection:
		if me.TeamID != scoring.NoTeam {
			return nil, false
		}

		return &protocol.SelectTeam{TeamID: smallerTeam(state)}, true
	case game.PhaseBetting:
		if _, ok := myTurn(state, playerID); !ok {
			return nil, false
		}

		return h.bet(state, me), true
	case game.PhasePlaying:
		if _, ok := myTurn(state, playerID); !ok {
			return nil, false
		}

		return h.play(state, me)
	case game.PhaseScoring:
		if state.IsReady(me.Name) {
			return nil, false
		}

		return &protocol.PlayerReady{}, true
	}

	return nil, false
}

func smallerTeam(state *game.GameState) scoring.TeamID {
	var t1, t2 int
	for _, p := range state.Players {
		switch p.TeamID {
		case scoring.Team1:
			t1++
		case scoring.Team2:
			t2++
		}
	}

	if t2 < t1 {
		return scoring.Team2
	}

	return scoring.Team1
}

// estimate is the number of points the seat expects its team to capture
func (h *Heuristic) estimate(hand []deck.Card) int {
	est := 2
	for _, card := range hand {
		switch {
		case card.Value == deck.MaxValue:
			est += 2
		case card.Value == deck.MaxValue-1:
			est++
		case card.IsBonus():
			est++
		}
	}

	if _, n := longestColor(hand); n > 2 {
		est += n - 2
	}

	if h.Difficulty == game.Easy {
		est++
	}

	return est
}

func (h *Heuristic) bet(state *game.GameState, me *game.GameStatePlayer) protocol.Command {
	opts := state.Options
	highest := bidding.Highest(state.CurrentBets)
	est := h.estimate(me.Hand)

	if h.Difficulty == game.Hard && h.strongEverywhere(me.Hand) {
		amount := opts.MinBet
		for amount*2 <= highest {
			amount++
		}

		if amount <= opts.MaxBet && amount <= est {
			return &protocol.PlaceBet{Amount: amount, WithoutTrump: true}
		}
	}

	amount := highest + 1
	if amount < opts.MinBet {
		amount = opts.MinBet
	}

	if amount > est || amount > opts.MaxBet {
		return &protocol.PlaceBet{Skipped: true}
	}

	return &protocol.PlaceBet{Amount: amount}
}

// strongEverywhere is true with a 7 in at least three colors, the shape that does not need trump
func (h *Heuristic) strongEverywhere(hand []deck.Card) bool {
	sevens := filter(hand, func(c deck.Card) bool { return c.Value == deck.MaxValue })
	return len(colorCounts(sevens)) >= 3
}

func (h *Heuristic) play(state *game.GameState, me *game.GameStatePlayer) (protocol.Command, bool) {
	legal := game.LegalCards(me.Hand, state.CurrentTrick)
	if len(legal) == 0 {
		return nil, false
	}

	if h.Difficulty == game.Easy {
		return &protocol.PlayCard{Card: lowest(legal)}, true
	}

	var trump deck.Color
	if state.Trump != nil {
		trump = *state.Trump
	}

	if len(state.CurrentTrick) == 0 {
		return &protocol.PlayCard{Card: h.lead(state, me, legal, trump)}, true
	}

	trick := state.CurrentTrick
	led := trick[0].Card.Color
	best := trick[scoring.TrickWinner(trick, trump)]
	partnerWinning := h.Difficulty == game.Hard && state.Players[best.Seat].TeamID == me.TeamID

	if partnerWinning {
		if bonus := filter(legal, deck.Card.IsBonus); len(bonus) > 0 {
			return &protocol.PlayCard{Card: bonus[0]}, true
		}

		return &protocol.PlayCard{Card: lowest(avoid(legal, deck.Card.IsPenalty))}, true
	}

	winners := filter(legal, func(c deck.Card) bool {
		return scoring.Beats(c, best.Card, led, trump)
	})
	if len(winners) > 0 {
		return &protocol.PlayCard{Card: lowest(winners)}, true
	}

	if h.Difficulty == game.Hard {
		if penalty := filter(legal, deck.Card.IsPenalty); len(penalty) > 0 {
			return &protocol.PlayCard{Card: penalty[0]}, true
		}
	}

	return &protocol.PlayCard{Card: lowest(avoid(legal, deck.Card.IsBonus))}, true
}

func (h *Heuristic) lead(state *game.GameState, me *game.GameStatePlayer, legal []deck.Card, trump deck.Color) deck.Card {
	if h.Difficulty == game.Hard && trump != "" && state.HighestBet != nil &&
		state.Players[state.HighestBet.Seat].TeamID == me.TeamID {
		if trumps := filter(legal, func(c deck.Card) bool { return c.Color == trump }); len(trumps) > 0 {
			return highest(trumps)
		}
	}

	return highest(avoid(legal, func(c deck.Card) bool { return c.Value == 0 }))
}

// avoid drops the cards matching skip unless that would leave nothing
func avoid(cards []deck.Card, skip func(deck.Card) bool) []deck.Card {
	kept := filter(cards, func(c deck.Card) bool { return !skip(c) })
	if len(kept) == 0 {
		return cards
	}

	return kept
}
