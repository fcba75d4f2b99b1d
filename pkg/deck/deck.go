package deck

import (
	"crypto/sha1" // nolint:gosec
	"encoding/hex"
	"errors"
	"math/rand"
)

// ErrEndOfDeck is an error when Draw() is attempted and there are no more cards
var ErrEndOfDeck = errors.New("end of deck reached")

// Size is the number of cards in a full deck
const Size = len(Colors) * (MaxValue + 1)

// Deck represents a playing deck
type Deck struct {
	Cards []Card `json:"cards"`
	seed  int64
	rng   *rand.Rand
}

// New returns a new deck of cards.
// Important! this deck is unshuffled. You must call the Shuffle() method to shuffle the cards
func New() *Deck {
	d := &Deck{
		seed: -1,
	}

	d.buildDeck()
	return d
}

// Full returns every card of the deck in deck order
func Full() []Card {
	cards := make([]Card, 0, Size)
	for _, color := range Colors {
		for value := 0; value <= MaxValue; value++ {
			cards = append(cards, Card{
				Color: color,
				Value: value,
			})
		}
	}

	return cards
}

func (d *Deck) buildDeck() {
	d.Cards = Full()
}

// Shuffle will shuffle a freshly built deck of cards with the seed
func (d *Deck) Shuffle(seed int64) {
	// we always want to shuffle from an unshuffled deck
	d.buildDeck()

	d.seed = seed
	d.rng = rand.New(rand.NewSource(seed)) // nolint:gosec

	for j := len(d.Cards) - 1; j > 0; j-- {
		i := d.rng.Intn(j + 1)

		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
}

// Seed returns the seed used to shuffle the deck
func (d *Deck) Seed() int64 {
	return d.seed
}

// HashCode returns a SHA1 hash code of the deck.
func (d *Deck) HashCode() string {
	hash := sha1.New() // nolint:gosec
	for _, card := range d.Cards {
		_, _ = hash.Write([]byte(card.String()))
	}

	return hex.EncodeToString(hash.Sum(nil))
}

// Draw will draw the next card
// If there are no more cards, an ErrEndOfDeck is returned.
func (d *Deck) Draw() (Card, error) {
	if len(d.Cards) <= 0 {
		return Card{}, ErrEndOfDeck
	}

	card := d.Cards[0]
	d.Cards = d.Cards[1:]

	return card, nil
}

// Deal deals handSize cards to each of n hands, one card at a time around the table
func (d *Deck) Deal(n, handSize int) ([]Hand, error) {
	if !d.CanDraw(n * handSize) {
		return nil, ErrEndOfDeck
	}

	hands := make([]Hand, n)
	for i := range hands {
		hands[i] = make(Hand, 0, handSize)
	}

	for i := 0; i < handSize; i++ {
		for h := range hands {
			card, err := d.Draw()
			if err != nil {
				return nil, err
			}

			hands[h].AddCard(card)
		}
	}

	return hands, nil
}

// CanDraw returns true if there are {want} cards left in the deck
func (d *Deck) CanDraw(want int) bool {
	return len(d.Cards) >= want
}

// CardsLeft returns the number of cards left in the deck
func (d *Deck) CardsLeft() int {
	return len(d.Cards)
}
