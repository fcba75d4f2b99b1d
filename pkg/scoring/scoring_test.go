package scoring

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"jaffre-server/pkg/bidding"
	"jaffre-server/pkg/deck"
	"jaffre-server/pkg/snapshot"
)

// trick builds the plays of a trick led by seat lead
func trick(lead int, cards string) TrickRecord {
	plays := make([]Play, 0, SeatCount)
	for i, card := range deck.CardsFromString(cards) {
		seat := (lead + i) % SeatCount
		plays = append(plays, Play{
			PlayerID: fmt.Sprintf("p%d", seat),
			Seat:     seat,
			Card:     card,
		})
	}

	return TrickRecord{Plays: plays}
}

func seats() [SeatCount]Seat {
	return [SeatCount]Seat{
		{PlayerID: "p0", Name: "Alice", TeamID: Team1},
		{PlayerID: "p1", Name: "Bob", TeamID: Team2},
		{PlayerID: "p2", Name: "Carol", TeamID: Team1},
		{PlayerID: "p3", Name: "Dan", TeamID: Team2},
	}
}

// fullRound uses every card of the deck once. Team2 captures 7 points, team1 captures 4.
func fullRound() []TrickRecord {
	return []TrickRecord{
		trick(1, "7b,0b,1b,2b"),
		trick(1, "6b,3b,4b,5b"),
		trick(1, "0r,1r,7r,2r"),
		trick(3, "6r,0n,5r,3r"),
		trick(3, "0g,7g,1g,2g"),
		trick(0, "7n,1n,2n,3n"),
		trick(0, "4n,5n,6n,3g"),
		trick(2, "4g,5g,6g,4r"),
	}
}

func TestTeamID(t *testing.T) {
	a := assert.New(t)
	a.Equal(Team2, Team1.Other())
	a.Equal(Team1, Team2.Other())
	a.Equal(NoTeam, NoTeam.Other())
	a.False(NoTeam.Valid())

	b, err := json.Marshal(struct {
		A TeamID `json:"a"`
		B TeamID `json:"b"`
	}{NoTeam, Team2})
	a.NoError(err)
	a.Equal(`{"a":null,"b":2}`, string(b))

	var team TeamID
	a.NoError(json.Unmarshal([]byte("1"), &team))
	a.Equal(Team1, team)
	a.NoError(json.Unmarshal([]byte("null"), &team))
	a.Equal(NoTeam, team)
	a.EqualError(json.Unmarshal([]byte("3"), &team), "invalid team: 3")
}

func TestTrickWinner(t *testing.T) {
	a := assert.New(t)

	// highest of led color
	a.Equal(2, TrickWinner(trick(0, "3r,5r,6r,7g").Plays, ""))
	// trump beats led color
	a.Equal(3, TrickWinner(trick(0, "3r,5r,6r,0g").Plays, deck.Green))
	// highest trump
	a.Equal(1, TrickWinner(trick(0, "3r,5g,6r,0g").Plays, deck.Green))
	// off-color cards never win
	a.Equal(0, TrickWinner(trick(0, "1r,7b,7n,7g").Plays, ""))
	// trump led
	a.Equal(2, TrickWinner(trick(0, "1b,0b,4b,7r").Plays, deck.Blue))

	a.Equal(-1, TrickWinner(nil, ""))
}

func TestTrickPoints(t *testing.T) {
	a := assert.New(t)
	a.Equal(1, TrickPoints(trick(0, "1r,2r,3r,4r").Plays))
	a.Equal(6, TrickPoints(trick(0, "1r,0r,3r,4r").Plays))
	a.Equal(-1, TrickPoints(trick(0, "1n,0n,3n,4n").Plays))
	a.Equal(4, TrickPoints(trick(0, "0r,0n,3n,4n").Plays))
}

func TestResolveTrick(t *testing.T) {
	a := assert.New(t)

	record, err := ResolveTrick(trick(3, "6r,0n,5r,3r").Plays, deck.Blue)
	a.NoError(err)
	a.Equal("p3", record.WinnerID)
	a.Equal(3, record.WinnerSeat)
	a.Equal(-1, record.Points)

	_, err = ResolveTrick(trick(3, "6r,0n,5r").Plays, deck.Blue)
	a.Equal(ErrIncompleteTrick, err)
}

func TestScoreRound_BetMade(t *testing.T) {
	a := assert.New(t)

	record, err := ScoreRound(Round{
		RoundNumber: 1,
		Seats:       seats(),
		HighestBet:  bidding.Bet{PlayerID: "p1", Seat: 1, Amount: 7},
		Trump:       deck.Blue,
		Tricks:      fullRound(),
	})
	a.NoError(err)

	a.Equal(Team2, record.OffensiveTeam)
	a.Equal(7, record.OffensivePoints)
	a.Equal(4, record.DefensivePoints)
	a.True(record.BetMade)
	a.Equal(TeamScores{Team1: 4, Team2: 7}, record.RoundScore)
	a.Equal(TeamScores{Team1: 4, Team2: 7}, record.CumulativeScore)
	a.Equal(deck.Blue, *record.Trump)

	a.Equal(2, record.PlayerStats[1].TricksWon)
	a.Equal(2, record.PlayerStats[1].PointsWon)
	a.Equal(2, record.PlayerStats[3].TricksWon)
	a.Equal(5, record.PlayerStats[3].PointsWon)
	a.Equal(3, record.PlayerStats[0].TricksWon)
	a.Equal(1, record.PlayerStats[2].TricksWon)

	snapshot.ValidateSnapshot(t, record)
}

func TestScoreRound_BetMissed(t *testing.T) {
	a := assert.New(t)

	record, err := ScoreRound(Round{
		RoundNumber: 3,
		Seats:       seats(),
		HighestBet:  bidding.Bet{PlayerID: "p1", Seat: 1, Amount: 8},
		Trump:       deck.Blue,
		Tricks:      fullRound(),
		Previous:    TeamScores{Team1: 10, Team2: 12},
	})
	a.NoError(err)

	a.False(record.BetMade)
	a.Equal(TeamScores{Team1: 4, Team2: -8}, record.RoundScore)
	a.Equal(TeamScores{Team1: 14, Team2: 4}, record.CumulativeScore)
}

func TestScoreRound_WithoutTrump(t *testing.T) {
	a := assert.New(t)

	record, err := ScoreRound(Round{
		RoundNumber: 1,
		Seats:       seats(),
		HighestBet:  bidding.Bet{PlayerID: "p1", Seat: 1, Amount: 7, WithoutTrump: true},
		Trump:       deck.Blue,
		Tricks:      fullRound(),
	})
	a.NoError(err)

	a.True(record.WithoutTrump)
	a.Nil(record.Trump)
	a.True(record.BetMade)
	a.Equal(TeamScores{Team1: 8, Team2: 14}, record.RoundScore)
}

func TestScoreRound_Deterministic(t *testing.T) {
	round := Round{
		RoundNumber: 2,
		Seats:       seats(),
		HighestBet:  bidding.Bet{PlayerID: "p0", Seat: 0, Amount: 9},
		Trump:       deck.Red,
		Tricks:      fullRound(),
		Previous:    TeamScores{Team1: 5, Team2: 5},
	}

	first, err := ScoreRound(round)
	assert.NoError(t, err)
	second, err := ScoreRound(round)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScoreRound_Errors(t *testing.T) {
	a := assert.New(t)

	_, err := ScoreRound(Round{Seats: seats(), HighestBet: bidding.Bet{Seat: 4, Amount: 7}})
	a.EqualError(err, "invalid bettor seat: 4")

	_, err = ScoreRound(Round{HighestBet: bidding.Bet{Seat: 1, Amount: 7}})
	a.EqualError(err, "bettor seat 1 has no team")

	_, err = ScoreRound(Round{
		Seats:      seats(),
		HighestBet: bidding.Bet{Seat: 1, Amount: 7},
		Tricks:     []TrickRecord{trick(0, "1r,2r")},
	})
	a.EqualError(err, "trick 0: trick does not have a card from every seat")
}

func TestGameWinner(t *testing.T) {
	a := assert.New(t)

	winner, ok := GameWinner(TeamScores{Team1: 43, Team2: 20}, 41, Team1)
	a.True(ok)
	a.Equal(Team1, winner)

	winner, ok = GameWinner(TeamScores{Team1: 38, Team2: 20}, 41, Team1)
	a.False(ok)
	a.Equal(NoTeam, winner)

	winner, ok = GameWinner(TeamScores{Team1: 30, Team2: 41}, 41, Team1)
	a.True(ok)
	a.Equal(Team2, winner)

	winner, ok = GameWinner(TeamScores{Team1: 45, Team2: 42}, 41, Team2)
	a.True(ok)
	a.Equal(Team1, winner)

	winner, ok = GameWinner(TeamScores{Team1: 42, Team2: 42}, 41, Team2)
	a.True(ok)
	a.Equal(Team2, winner)
}
