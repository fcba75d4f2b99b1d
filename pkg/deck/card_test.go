package deck

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCard_String(t *testing.T) {
	assert.Equal(t, "0r", Card{Color: Red, Value: 0}.String())
	assert.Equal(t, "7n", Card{Color: Brown, Value: 7}.String())
	assert.Equal(t, "3g", Card{Color: Green, Value: 3}.String())
	assert.Equal(t, "5b", Card{Color: Blue, Value: 5}.String())
}

func TestCardFromString(t *testing.T) {
	a := assert.New(t)
	a.Equal(Card{Color: Red, Value: 0}, CardFromString("0r"))
	a.Equal(Card{Color: Brown, Value: 7}, CardFromString("7N"))
	a.Panics(func() { CardFromString("8r") })
	a.Panics(func() { CardFromString("1x") })

	a.Equal("0r,1b,2g,3n", CardsToString(CardsFromString("0r,1b,2g,3n")))
	a.Equal([]Card{}, CardsFromString(""))
}

func TestCard_Specials(t *testing.T) {
	a := assert.New(t)
	a.True(CardFromString("0r").IsBonus())
	a.False(CardFromString("0r").IsPenalty())
	a.True(CardFromString("0n").IsPenalty())
	a.False(CardFromString("0n").IsBonus())
	a.False(CardFromString("0b").IsBonus())
	a.False(CardFromString("1r").IsBonus())
}

func TestCard_UnmarshalJSON(t *testing.T) {
	a := assert.New(t)

	var c Card
	a.NoError(json.Unmarshal([]byte(`{"color":"green","value":4}`), &c))
	a.Equal(CardFromString("4g"), c)

	a.EqualError(json.Unmarshal([]byte(`{"color":"green","value":9}`), &c), "invalid card: green 9")
	a.EqualError(json.Unmarshal([]byte(`{"color":"purple","value":1}`), &c), "invalid card: purple 1")
}
