package bot

import (
	"jaffre-server/pkg/deck"
)

func colorIndex(c deck.Color) int {
	for i, color := range deck.Colors {
		if color == c {
			return i
		}
	}

	return len(deck.Colors)
}

// less orders cards by value, then by color
func less(a, b deck.Card) bool {
	if a.Value != b.Value {
		return a.Value < b.Value
	}

	return colorIndex(a.Color) < colorIndex(b.Color)
}

func lowest(cards []deck.Card) deck.Card {
	low := cards[0]
	for _, card := range cards[1:] {
		if less(card, low) {
			low = card
		}
	}

	return low
}

func highest(cards []deck.Card) deck.Card {
	high := cards[0]
	for _, card := range cards[1:] {
		if less(high, card) {
			high = card
		}
	}

	return high
}

func filter(cards []deck.Card, keep func(deck.Card) bool) []deck.Card {
	kept := make([]deck.Card, 0, len(cards))
	for _, card := range cards {
		if keep(card) {
			kept = append(kept, card)
		}
	}

	return kept
}

func colorCounts(cards []deck.Card) map[deck.Color]int {
	counts := make(map[deck.Color]int, len(deck.Colors))
	for _, card := range cards {
		counts[card.Color]++
	}

	return counts
}

// longestColor returns the color with the most cards, the first in deck order on ties
func longestColor(cards []deck.Card) (deck.Color, int) {
	counts := colorCounts(cards)
	var best deck.Color
	n := 0
	for _, color := range deck.Colors {
		if counts[color] > n {
			best, n = color, counts[color]
		}
	}

	return best, n
}
