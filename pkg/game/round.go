package game

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"jaffre-server/pkg/bidding"
	"jaffre-server/pkg/deck"
	"jaffre-server/pkg/scoring"
)

// BetOutcome is what happened after a bet was accepted
type BetOutcome int

// bet outcomes
const (
	// BetPlaced means betting continues with the next seat
	BetPlaced BetOutcome = iota
	// BettingComplete means a bet won and the round moved to playing
	BettingComplete
	// BettingRedeal means everyone passed and a new hand was dealt
	BettingRedeal
)

// PlayOutcome is what happened after a card was accepted
type PlayOutcome int

// play outcomes
const (
	// CardPlayed means the trick continues with the next seat
	CardPlayed PlayOutcome = iota
	// TrickResolved means the card completed a trick
	TrickResolved
	// RoundEnded means the card completed the last trick and the round was scored
	RoundEnded
	// GameEnded means the round was scored and a team reached the winning score
	GameEnded
)

func (g *Game) startRound() error {
	g.deck.Shuffle(g.rng.Int63())
	g.logger.WithFields(logrus.Fields{
		"seed":     g.deck.Seed(),
		"deckHash": g.deck.HashCode(),
	}).Debug("deck shuffled")

	hands, err := g.deck.Deal(SeatCount, HandSize)
	if err != nil {
		return err
	}

	if left := g.deck.CardsLeft(); left != 0 {
		return IntegrityError{Reason: fmt.Sprintf("%d cards left undealt", left)}
	}

	for i, p := range g.players {
		p.resetRound()
		p.Hand = hands[i]
		p.Hand.Sort()
	}

	g.bets = make([]bidding.Bet, 0, SeatCount)
	g.highestBet = nil
	g.trump = ""
	g.currentTrick = make([]scoring.Play, 0, SeatCount)
	g.tricks = make([]scoring.TrickRecord, 0, TricksPerRound)
	g.lastTrick = nil
	g.playersReady = make(map[string]bool)
	g.phase = PhaseBetting
	g.currentPlayerIndex = g.leftOfDealer()

	g.logger.WithFields(logrus.Fields{
		"round":  g.roundNumber,
		"dealer": g.dealerIndex,
		"seed":   g.deck.Seed(),
	}).Debug("round dealt")

	return nil
}

func (g *Game) leftOfDealer() int {
	return (g.dealerIndex + 1) % SeatCount
}

func (g *Game) requireTurn(id string) (*Player, error) {
	p, ok := g.Player(id)
	if !ok {
		return nil, ErrPlayerNotFound
	}

	if g.players[g.currentPlayerIndex] != p {
		return nil, ErrNotPlayersTurn
	}

	return p, nil
}

// PlaceBet records the current player's bet, or pass when skipped is true
func (g *Game) PlaceBet(id string, amount int, withoutTrump, skipped bool) (BetOutcome, error) {
	if err := g.requirePhase(PhaseBetting); err != nil {
		return 0, err
	}

	if _, err := g.requireTurn(id); err != nil {
		return 0, err
	}

	bet := bidding.Bet{
		PlayerID:     id,
		Seat:         g.currentPlayerIndex,
		Amount:       amount,
		WithoutTrump: withoutTrump,
		Skipped:      skipped,
	}

	if skipped {
		bet.Amount = 0
		bet.WithoutTrump = false
	}

	rules := bidding.Rules{MinBet: g.options.MinBet, MaxBet: g.options.MaxBet}
	if err := rules.Validate(bet, g.bets); err != nil {
		return 0, err
	}

	g.bets = append(g.bets, bet)
	res := bidding.Resolve(g.bets)
	g.highestBet = res.Winner

	if !bidding.Complete(g.bets, SeatCount) {
		g.currentPlayerIndex = (g.currentPlayerIndex + 1) % SeatCount
		return BetPlaced, nil
	}

	if res.Winner == nil {
		g.logger.WithField("round", g.roundNumber).Info("everyone passed, redealing")
		g.dealerIndex = g.leftOfDealer()
		if err := g.startRound(); err != nil {
			return 0, err
		}

		return BettingRedeal, nil
	}

	g.phase = PhasePlaying
	g.currentPlayerIndex = g.leftOfDealer()
	g.logger.WithFields(logrus.Fields{
		"seat":         res.Winner.Seat,
		"amount":       res.Winner.Amount,
		"withoutTrump": res.Winner.WithoutTrump,
	}).Debug("betting complete")

	return BettingComplete, nil
}

// LegalCards returns the cards of hand that may be played into trick.
// The led color must be followed when possible.
func LegalCards(hand deck.Hand, trick []scoring.Play) []deck.Card {
	if len(trick) == 0 || !hand.HasColor(trick[0].Card.Color) {
		return append([]deck.Card{}, hand...)
	}

	led := trick[0].Card.Color
	legal := make([]deck.Card, 0, len(hand))
	for _, card := range hand {
		if card.Color == led {
			legal = append(legal, card)
		}
	}

	return legal
}

// PlayCard plays a card from the current player's hand into the trick
func (g *Game) PlayCard(id string, card deck.Card) (PlayOutcome, error) {
	if err := g.requirePhase(PhasePlaying); err != nil {
		return 0, err
	}

	p, err := g.requireTurn(id)
	if err != nil {
		return 0, err
	}

	if !p.Hand.HasCard(card) {
		return 0, ErrCardNotInHand
	}

	if len(g.currentTrick) > 0 {
		led := g.currentTrick[0].Card.Color
		if card.Color != led && p.Hand.HasColor(led) {
			return 0, ErrMustFollowColor
		}
	}

	p.Hand.Discard(card)
	if g.trump == "" && !g.highestBet.WithoutTrump && g.highestBet.Seat == g.currentPlayerIndex {
		g.trump = card.Color
		g.logger.WithField("trump", card.Color).Debug("trump set")
	}

	g.currentTrick = append(g.currentTrick, scoring.Play{
		PlayerID: p.ID,
		Seat:     g.currentPlayerIndex,
		Card:     card,
	})

	if len(g.currentTrick) < SeatCount {
		g.currentPlayerIndex = (g.currentPlayerIndex + 1) % SeatCount
		return CardPlayed, nil
	}

	record, err := scoring.ResolveTrick(g.currentTrick, g.trump)
	if err != nil {
		return 0, err
	}

	winner := g.players[record.WinnerSeat]
	winner.TricksWon++
	winner.PointsWon += record.Points
	g.tricks = append(g.tricks, record)
	g.lastTrick = &record
	g.currentTrick = make([]scoring.Play, 0, SeatCount)
	g.currentPlayerIndex = record.WinnerSeat

	if len(g.tricks) < TricksPerRound {
		return TrickResolved, nil
	}

	return g.endRound()
}

func (g *Game) endRound() (PlayOutcome, error) {
	round := scoring.Round{
		RoundNumber: g.roundNumber,
		HighestBet:  *g.highestBet,
		Trump:       g.trump,
		Tricks:      g.tricks,
		Previous:    g.teamScores,
	}

	for i, p := range g.players {
		round.Seats[i] = scoring.Seat{PlayerID: p.ID, Name: p.Name, TeamID: p.TeamID}
	}

	record, err := scoring.ScoreRound(round)
	if err != nil {
		return 0, err
	}

	g.roundHistory = append(g.roundHistory, record)
	g.teamScores = record.CumulativeScore
	g.playersReady = make(map[string]bool)
	g.phase = PhaseScoring

	log := g.logger.WithFields(logrus.Fields{
		"round":   g.roundNumber,
		"betMade": record.BetMade,
		"team1":   g.teamScores.Team1,
		"team2":   g.teamScores.Team2,
	})

	if winner, over := scoring.GameWinner(g.teamScores, g.options.WinningScore, record.OffensiveTeam); over {
		g.winner = winner
		g.phase = PhaseGameOver
		log.WithField("winner", winner).Info("game over")
		return GameEnded, nil
	}

	log.Info("round scored")
	return RoundEnded, nil
}

// MarkReady acknowledges the round summary. Returns true once the next round was dealt
func (g *Game) MarkReady(id string) (bool, error) {
	if err := g.requirePhase(PhaseScoring); err != nil {
		return false, err
	}

	p, ok := g.Player(id)
	if !ok {
		return false, ErrPlayerNotFound
	}

	g.playersReady[p.Name] = true
	if len(g.PendingReady()) > 0 {
		return false, nil
	}

	g.dealerIndex = g.leftOfDealer()
	g.roundNumber++
	if err := g.startRound(); err != nil {
		return false, err
	}

	return true, nil
}
