package bidding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func bet(seat, amount int, withoutTrump bool) Bet {
	return Bet{Seat: seat, PlayerID: string(rune('a' + seat)), Amount: amount, WithoutTrump: withoutTrump}
}

func skip(seat int) Bet {
	return Bet{Seat: seat, PlayerID: string(rune('a' + seat)), Skipped: true}
}

func TestBet_Effective(t *testing.T) {
	a := assert.New(t)
	a.Equal(7, bet(0, 7, false).Effective())
	a.Equal(14, bet(0, 7, true).Effective())
	a.Equal(0, Bet{Amount: 12, Skipped: true}.Effective())
	a.Equal(1, bet(0, 7, false).Multiplier())
	a.Equal(2, bet(0, 7, true).Multiplier())
}

func TestResolve(t *testing.T) {
	a := assert.New(t)

	res := Resolve(nil)
	a.Nil(res.Winner)
	a.Equal(ReasonNoBets, res.Reason)

	res = Resolve([]Bet{skip(1), skip(2), skip(3), skip(0)})
	a.Nil(res.Winner)
	a.Equal(ReasonAllPassed, res.Reason)

	res = Resolve([]Bet{bet(1, 7, false), skip(2), skip(3), skip(0)})
	a.Equal(ReasonHighestBet, res.Reason)
	a.Equal(bet(1, 7, false), *res.Winner)

	// without trump compares doubled
	res = Resolve([]Bet{bet(1, 12, false), bet(2, 7, true), skip(3), skip(0)})
	a.Equal(2, res.Winner.Seat)
	a.Equal(7, res.Winner.Amount, "stored amount is not doubled")

	// earliest equal bet wins
	res = Resolve([]Bet{bet(1, 8, false), bet(2, 8, false), bet(3, 4, true), skip(0)})
	a.Equal(1, res.Winner.Seat)
}

func TestResolve_Monotonic(t *testing.T) {
	bets := []Bet{bet(1, 7, false), bet(2, 9, false), skip(3), bet(0, 5, true)}
	res := Resolve(bets)
	for _, b := range bets {
		if !b.Skipped {
			assert.GreaterOrEqual(t, res.Winner.Effective(), b.Effective())
		}
	}
}

func TestComplete(t *testing.T) {
	a := assert.New(t)
	a.False(Complete(nil, 4))
	a.False(Complete([]Bet{skip(1)}, 4))
	a.False(Complete([]Bet{skip(1), skip(2), skip(3)}, 4))
	a.True(Complete([]Bet{skip(1), skip(2), skip(3), skip(0)}, 4))
	a.False(Complete([]Bet{bet(1, 7, false), skip(2)}, 4))
	a.True(Complete([]Bet{bet(1, 7, false), skip(2), skip(3), skip(0)}, 4))
	a.True(Complete([]Bet{skip(1), bet(2, 7, false), skip(3), skip(0)}, 4))

	a.False(Complete([]Bet{skip(1), bet(2, 7, false), skip(3)}, 4))
}

func TestRules_Validate(t *testing.T) {
	a := assert.New(t)
	r := Rules{MinBet: 7, MaxBet: 12}

	a.NoError(r.Validate(skip(1), nil))
	a.NoError(r.Validate(bet(1, 7, false), nil))
	a.EqualError(r.Validate(bet(1, 6, false), nil), "bet must be between 7 and 12, got 6")
	a.EqualError(r.Validate(bet(1, 13, false), nil), "bet must be between 7 and 12, got 13")

	placed := []Bet{bet(1, 8, false)}
	a.Equal(ErrBetTooLow, r.Validate(bet(2, 8, false), placed))
	a.NoError(r.Validate(bet(2, 9, false), placed))
	a.NoError(r.Validate(bet(2, 7, true), placed), "14 beats 8")

	placed = []Bet{bet(1, 7, true)}
	a.Equal(ErrBetTooLow, r.Validate(bet(2, 12, false), placed))
	a.Equal(ErrBetTooLow, r.Validate(bet(2, 7, true), placed))
	a.NoError(r.Validate(bet(2, 8, true), placed))
}
