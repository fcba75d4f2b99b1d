package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDeck(t *testing.T) {
	a := assert.New(t)
	d := New()

	a.Equal(32, d.CardsLeft())
	a.Equal(32, Size)
	a.Equal(CardFromString("0r"), d.Cards[0])
	a.Equal(CardFromString("7b"), d.Cards[31])
	a.Equal(int64(-1), d.Seed())

	unshuffled := d.HashCode()

	d.Shuffle(1)
	a.Equal(int64(1), d.Seed())
	a.Equal(32, d.CardsLeft())
	shuffled := d.HashCode()
	a.NotEqual(unshuffled, shuffled)

	// the same seed always yields the same order
	d.Shuffle(1)
	a.Equal(shuffled, d.HashCode())

	d.Shuffle(2)
	a.NotEqual(shuffled, d.HashCode())
}

func TestDeck_Draw(t *testing.T) {
	d := New()

	assert.True(t, d.CanDraw(32))
	assert.False(t, d.CanDraw(33))

	for i := 0; i < 32; i++ {
		_, err := d.Draw()
		assert.NoError(t, err)
	}

	assert.False(t, d.CanDraw(1))

	_, err := d.Draw()
	assert.Equal(t, ErrEndOfDeck, err)

	d.Shuffle(5)
	assert.True(t, d.CanDraw(32), "Shuffle() rebuilds the deck")
}

func TestDeck_Deal(t *testing.T) {
	a := assert.New(t)
	d := New()

	hands, err := d.Deal(4, 8)
	a.NoError(err)
	a.Len(hands, 4)
	a.Equal(0, d.CardsLeft())

	// round-robin dealing
	a.Equal("0r,4r,0n,4n,0g,4g,0b,4b", CardsToString(hands[0]))
	a.Equal("1r,5r,1n,5n,1g,5g,1b,5b", CardsToString(hands[1]))

	seen := make(map[Card]bool)
	for _, hand := range hands {
		a.Len(hand, 8)
		for _, card := range hand {
			a.False(seen[card], "duplicate card %s", card)
			seen[card] = true
		}
	}
	a.Len(seen, 32)

	_, err = d.Deal(4, 8)
	a.Equal(ErrEndOfDeck, err)
}
