// Package scoring resolves tricks and scores completed rounds.
//
// This is the only place point arithmetic happens. Every function is pure so a
// round can be replayed from its tricks and bet and produce the same record.
package scoring

import (
	"errors"
	"fmt"

	"jaffre-server/pkg/bidding"
	"jaffre-server/pkg/deck"
)

// points awarded to the capturing team
const (
	TrickPoint   = 1
	BonusPoints  = 5
	PenaltyPoint = -2
)

// SeatCount is the number of seats at the table
const SeatCount = 4

// ErrIncompleteTrick happens when a trick is resolved without a card from every seat
var ErrIncompleteTrick = errors.New("trick does not have a card from every seat")

// Play is a single card played into a trick
type Play struct {
	PlayerID string    `json:"playerId"`
	Seat     int       `json:"seat"`
	Card     deck.Card `json:"card"`
}

// TrickRecord is a resolved trick
type TrickRecord struct {
	Plays      []Play `json:"plays"`
	WinnerID   string `json:"winnerId"`
	WinnerSeat int    `json:"winnerSeat"`
	Points     int    `json:"points"`
}

// Clone returns a copy that shares no memory with t
func (t TrickRecord) Clone() *TrickRecord {
	t.Plays = append([]Play{}, t.Plays...)
	return &t
}

// Beats returns true if challenger beats the current best card of a trick led in led.
// trump is "" when the round is played without trump.
func Beats(challenger, best deck.Card, led, trump deck.Color) bool {
	if trump != "" {
		if challenger.Color == trump && best.Color != trump {
			return true
		}

		if best.Color == trump && challenger.Color != trump {
			return false
		}
	}

	if challenger.Color != best.Color {
		// only reachable when best is on the led color, or both are trump
		return false
	}

	if challenger.Color != led && challenger.Color != trump {
		return false
	}

	return challenger.Value > best.Value
}

// TrickWinner returns the index into plays of the winning card
func TrickWinner(plays []Play, trump deck.Color) int {
	if len(plays) == 0 {
		return -1
	}

	led := plays[0].Card.Color
	winner := 0
	for i := 1; i < len(plays); i++ {
		if Beats(plays[i].Card, plays[winner].Card, led, trump) {
			winner = i
		}
	}

	return winner
}

// TrickPoints returns the points captured with the cards of a trick
func TrickPoints(plays []Play) int {
	points := TrickPoint
	for _, play := range plays {
		switch {
		case play.Card.IsBonus():
			points += BonusPoints
		case play.Card.IsPenalty():
			points += PenaltyPoint
		}
	}

	return points
}

// ResolveTrick returns the record of a completed trick
func ResolveTrick(plays []Play, trump deck.Color) (TrickRecord, error) {
	if len(plays) != SeatCount {
		return TrickRecord{}, ErrIncompleteTrick
	}

	winner := plays[TrickWinner(plays, trump)]
	return TrickRecord{
		Plays:      append([]Play{}, plays...),
		WinnerID:   winner.PlayerID,
		WinnerSeat: winner.Seat,
		Points:     TrickPoints(plays),
	}, nil
}

// Seat describes who sat at a seat during a round
type Seat struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	TeamID   TeamID `json:"teamId"`
}

// PlayerStats are the statistics of a single seat in a round
type PlayerStats struct {
	Seat      int    `json:"seat"`
	PlayerID  string `json:"playerId"`
	Name      string `json:"name"`
	TeamID    TeamID `json:"teamId"`
	TricksWon int    `json:"tricksWon"`
	PointsWon int    `json:"pointsWon"`
}

// Round is the raw play data of a completed round
type Round struct {
	RoundNumber int
	Seats       [SeatCount]Seat
	HighestBet  bidding.Bet
	Trump       deck.Color
	Tricks      []TrickRecord
	Previous    TeamScores
}

// RoundRecord is the immutable summary of a scored round
type RoundRecord struct {
	RoundNumber     int            `json:"roundNumber"`
	HighestBet      bidding.Bet    `json:"highestBet"`
	OffensiveTeam   TeamID         `json:"offensiveTeam"`
	OffensivePoints int            `json:"offensivePoints"`
	DefensivePoints int            `json:"defensivePoints"`
	BetAmount       int            `json:"betAmount"`
	WithoutTrump    bool           `json:"withoutTrump"`
	BetMade         bool           `json:"betMade"`
	RoundScore      TeamScores     `json:"roundScore"`
	CumulativeScore TeamScores     `json:"cumulativeScore"`
	Tricks          []TrickRecord  `json:"tricks"`
	Trump           *deck.Color    `json:"trump"`
	PlayerStats     []*PlayerStats `json:"playerStats"`
}

// ScoreRound re-resolves every trick of the round and derives its record.
// The offensive team scores the bet amount when it captured at least that many points,
// otherwise it loses the bet amount. The defensive team always scores what it captured.
// Without trump, all of the round's scores are doubled.
func ScoreRound(r Round) (*RoundRecord, error) {
	bettor := r.HighestBet.Seat
	if bettor < 0 || bettor >= SeatCount {
		return nil, fmt.Errorf("invalid bettor seat: %d", bettor)
	}

	offensive := r.Seats[bettor].TeamID
	if !offensive.Valid() {
		return nil, fmt.Errorf("bettor seat %d has no team", bettor)
	}

	trump := r.Trump
	if r.HighestBet.WithoutTrump {
		trump = ""
	}

	stats := make([]*PlayerStats, SeatCount)
	for i, seat := range r.Seats {
		stats[i] = &PlayerStats{
			Seat:     i,
			PlayerID: seat.PlayerID,
			Name:     seat.Name,
			TeamID:   seat.TeamID,
		}
	}

	tricks := make([]TrickRecord, len(r.Tricks))
	var teamPoints TeamScores
	for i, trick := range r.Tricks {
		record, err := ResolveTrick(trick.Plays, trump)
		if err != nil {
			return nil, fmt.Errorf("trick %d: %w", i, err)
		}

		tricks[i] = record
		winner := stats[record.WinnerSeat]
		winner.TricksWon++
		winner.PointsWon += record.Points
		teamPoints.set(winner.TeamID, teamPoints.Get(winner.TeamID)+record.Points)
	}

	amount := r.HighestBet.Amount
	multiplier := r.HighestBet.Multiplier()
	offensivePoints := teamPoints.Get(offensive)
	defensivePoints := teamPoints.Get(offensive.Other())
	betMade := offensivePoints >= amount

	var roundScore TeamScores
	if betMade {
		roundScore.set(offensive, amount*multiplier)
	} else {
		roundScore.set(offensive, -amount*multiplier)
	}
	roundScore.set(offensive.Other(), defensivePoints*multiplier)

	var trumpPtr *deck.Color
	if trump != "" {
		trumpPtr = &trump
	}

	return &RoundRecord{
		RoundNumber:     r.RoundNumber,
		HighestBet:      r.HighestBet,
		OffensiveTeam:   offensive,
		OffensivePoints: offensivePoints,
		DefensivePoints: defensivePoints,
		BetAmount:       amount,
		WithoutTrump:    r.HighestBet.WithoutTrump,
		BetMade:         betMade,
		RoundScore:      roundScore,
		CumulativeScore: r.Previous.Add(roundScore),
		Tricks:          tricks,
		Trump:           trumpPtr,
		PlayerStats:     stats,
	}, nil
}

// GameWinner returns the winning team once either team reached threshold.
// When both did, the higher score wins and a tie goes to the offensive team.
func GameWinner(scores TeamScores, threshold int, offensive TeamID) (TeamID, bool) {
	t1 := scores.Team1 >= threshold
	t2 := scores.Team2 >= threshold

	switch {
	case t1 && t2:
		if scores.Team1 > scores.Team2 {
			return Team1, true
		} else if scores.Team2 > scores.Team1 {
			return Team2, true
		}

		return offensive, true
	case t1:
		return Team1, true
	case t2:
		return Team2, true
	}

	return NoTeam, false
}
