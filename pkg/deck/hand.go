package deck

import (
	"sort"
)

// Hand represents a collection of cards
type Hand []Card

func (h Hand) Len() int {
	return len(h)
}

func (h Hand) Less(i, j int) bool {
	if h[i].Color != h[j].Color {
		return colorOrder(h[i].Color) < colorOrder(h[j].Color)
	}

	return h[i].Value < h[j].Value
}

func (h Hand) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func colorOrder(c Color) int {
	for i, color := range Colors {
		if color == c {
			return i
		}
	}

	return len(Colors)
}

// Sort sorts the hand by color, then by value
func (h Hand) Sort() {
	sort.Sort(h)
}

// AddCard adds a card to the hand
func (h *Hand) AddCard(card Card) {
	*h = append(*h, card)
}

// HasCard returns true if the hand contains the specified card
func (h Hand) HasCard(card Card) bool {
	for _, c := range h {
		if c.Equal(card) {
			return true
		}
	}

	return false
}

// HasColor returns true if the hand contains a card of the color
func (h Hand) HasColor(color Color) bool {
	for _, c := range h {
		if c.Color == color {
			return true
		}
	}

	return false
}

// Discard will remove a single copy of the specified card
// Returns false if the card was not in the hand
func (h *Hand) Discard(card Card) bool {
	for i, c := range *h {
		if c.Equal(card) {
			newHand := make(Hand, 0, len(*h)-1)
			newHand = append(newHand, (*h)[:i]...)
			newHand = append(newHand, (*h)[i+1:]...)
			*h = newHand
			return true
		}
	}

	return false
}

func (h Hand) String() string {
	return CardsToString(h)
}

// Clone returns a clone of the hand
func (h Hand) Clone() Hand {
	h2 := make(Hand, len(h))
	copy(h2, h)

	return h2
}
