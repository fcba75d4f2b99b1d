// Package bidding selects the controlling bet of a betting phase.
//
// Everything here is a pure function of the submitted bets; the game decides
// when a bet may be submitted and what happens once the phase is over.
package bidding

import (
	"errors"
	"fmt"
)

// ErrBetTooLow happens when a bet does not exceed the current highest effective bet
var ErrBetTooLow = errors.New("bet must exceed the current highest bet")

// Bet is a player's contract for the round, or a pass when Skipped is true
type Bet struct {
	PlayerID     string `json:"playerId"`
	Seat         int    `json:"seat"`
	Amount       int    `json:"amount"`
	WithoutTrump bool   `json:"withoutTrump"`
	Skipped      bool   `json:"skipped"`
}

// Effective returns the amount used to compare bets. Without-trump bets count double, skips count zero.
func (b Bet) Effective() int {
	if b.Skipped {
		return 0
	}

	if b.WithoutTrump {
		return b.Amount * 2
	}

	return b.Amount
}

// Multiplier returns how much the round's points are worth under this bet
func (b Bet) Multiplier() int {
	if b.WithoutTrump {
		return 2
	}

	return 1
}

// Reason explains a Resolution
type Reason string

// resolution reasons
const (
	ReasonHighestBet Reason = "highest_bet"
	ReasonAllPassed  Reason = "all_passed"
	ReasonNoBets     Reason = "no_bets"
)

// Resolution is the outcome of Resolve
type Resolution struct {
	Winner *Bet   `json:"winner"`
	Reason Reason `json:"reason"`
}

// Resolve selects the bet with the greatest effective amount.
// Skipped bets never win. Among equal effective amounts the earliest bet wins.
func Resolve(bets []Bet) Resolution {
	if len(bets) == 0 {
		return Resolution{Reason: ReasonNoBets}
	}

	var winner *Bet
	for i := range bets {
		bet := bets[i]
		if bet.Skipped {
			continue
		}

		// strictly greater keeps the earliest bet on ties
		if winner == nil || bet.Effective() > winner.Effective() {
			winner = &bet
		}
	}

	if winner == nil {
		return Resolution{Reason: ReasonAllPassed}
	}

	return Resolution{Winner: winner, Reason: ReasonHighestBet}
}

// Highest returns the effective amount the next bet must exceed
func Highest(bets []Bet) int {
	if res := Resolve(bets); res.Winner != nil {
		return res.Winner.Effective()
	}

	return 0
}

// Complete returns true when the betting phase is over for a table of n seats.
// Betting ends once every seat has acted, or when n-1 consecutive seats skipped after a standing bet.
func Complete(bets []Bet, n int) bool {
	if len(bets) >= n {
		return true
	}

	skips := 0
	for i := len(bets) - 1; i >= 0; i-- {
		if !bets[i].Skipped {
			return skips >= n-1
		}

		skips++
	}

	return false
}

// Rules are the limits a non-skipped bet must respect
type Rules struct {
	MinBet int
	MaxBet int
}

// AmountError happens when a bet amount is outside of the allowed range
type AmountError struct {
	Min int
	Max int
	Got int
}

func (a AmountError) Error() string {
	return fmt.Sprintf("bet must be between %d and %d, got %d", a.Min, a.Max, a.Got)
}

// Validate checks whether bet may follow the bets already placed
func (r Rules) Validate(bet Bet, placed []Bet) error {
	if bet.Skipped {
		return nil
	}

	if bet.Amount < r.MinBet || bet.Amount > r.MaxBet {
		return AmountError{Min: r.MinBet, Max: r.MaxBet, Got: bet.Amount}
	}

	if bet.Effective() <= Highest(placed) {
		return ErrBetTooLow
	}

	return nil
}
