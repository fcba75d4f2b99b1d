package game

import (
	"fmt"

	"jaffre-server/pkg/deck"
	"jaffre-server/pkg/scoring"
)

// CheckIntegrity verifies the invariants the game relies on.
// Any error means the game has diverged and must not continue.
func (g *Game) CheckIntegrity() error {
	ids := make(map[string]bool, len(g.players))
	names := make(map[string]bool, len(g.players))
	for _, p := range g.players {
		if ids[p.ID] {
			return IntegrityError{Reason: fmt.Sprintf("player %s is seated twice", p.ID)}
		}

		if names[p.Name] {
			return IntegrityError{Reason: fmt.Sprintf("name %s is seated twice", p.Name)}
		}

		ids[p.ID] = true
		names[p.Name] = true
	}

	if g.phase == PhaseTeamSelection {
		if len(g.players) > SeatCount {
			return IntegrityError{Reason: fmt.Sprintf("%d players seated", len(g.players))}
		}

		return nil
	}

	if len(g.players) != SeatCount {
		return IntegrityError{Reason: fmt.Sprintf("%d players seated", len(g.players))}
	}

	if g.teamCount(scoring.Team1) != 2 || g.teamCount(scoring.Team2) != 2 {
		return IntegrityError{Reason: "teams are unbalanced"}
	}

	return g.checkDeck()
}

// checkDeck verifies hands, the current trick and completed tricks partition the deck
func (g *Game) checkDeck() error {
	seen := make(map[deck.Card]int, deck.Size)
	for _, p := range g.players {
		for _, card := range p.Hand {
			seen[card]++
		}
	}

	for _, play := range g.currentTrick {
		seen[play.Card]++
	}

	for _, trick := range g.tricks {
		for _, play := range trick.Plays {
			seen[play.Card]++
		}
	}

	for _, card := range deck.Full() {
		switch n := seen[card]; n {
		case 1:
			delete(seen, card)
		case 0:
			return IntegrityError{Reason: fmt.Sprintf("card %s is missing", card)}
		default:
			return IntegrityError{Reason: fmt.Sprintf("card %s appears %d times", card, n)}
		}
	}

	for card := range seen {
		return IntegrityError{Reason: fmt.Sprintf("card %s is not part of the deck", card)}
	}

	return nil
}
