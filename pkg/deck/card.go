package deck

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Color represents a card color (the suit of a Jaffre deck)
type Color string

// color constants
const (
	Red   Color = "red"
	Blue  Color = "blue"
	Green Color = "green"
	Brown Color = "brown"
)

// Colors is every color in deck order
var Colors = [...]Color{Red, Brown, Green, Blue}

// MaxValue is the highest card value of a color
const MaxValue = 7

// Card is an individual playing card
type Card struct {
	Color Color `json:"color"`
	Value int   `json:"value"`
}

// Valid returns true if the card exists in a Jaffre deck
func (c Card) Valid() bool {
	if c.Value < 0 || c.Value > MaxValue {
		return false
	}

	switch c.Color {
	case Red, Blue, Green, Brown:
		return true
	}

	return false
}

// IsBonus returns true for the red 0 (+5 to the team that captures it)
func (c Card) IsBonus() bool {
	return c.Color == Red && c.Value == 0
}

// IsPenalty returns true for the brown 0 (-2 to the team that captures it)
func (c Card) IsPenalty() bool {
	return c.Color == Brown && c.Value == 0
}

func (c Card) String() string {
	return CardToString(c)
}

// Equal returns true if the cards are equal (matches color and value)
func (c Card) Equal(card Card) bool {
	return c.Color == card.Color && c.Value == card.Value
}

// UnmarshalJSON rejects cards that do not exist in the deck
func (c *Card) UnmarshalJSON(b []byte) error {
	type rawCard Card
	var raw rawCard
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	card := Card(raw)
	if !card.Valid() {
		return fmt.Errorf("invalid card: %s %d", card.Color, card.Value)
	}

	*c = card
	return nil
}

var cardRx = regexp.MustCompile(`(?i)^([0-7])([rbgn])\z`)

// CardFromString returns a Card from the string.
// The string must be in the format of <value><color> where value is 0–7 and color in [rbgn] (n is brown)
func CardFromString(s string) Card {
	match := cardRx.FindStringSubmatch(s)
	if match == nil {
		panic(fmt.Sprintf("could not parse card: %s", s))
	}

	value, err := strconv.Atoi(match[1])
	if err != nil {
		panic(fmt.Sprintf("could not parse card `%s`: %v", s, err))
	}

	var color Color
	switch strings.ToLower(match[2]) {
	case "r":
		color = Red
	case "b":
		color = Blue
	case "g":
		color = Green
	case "n":
		color = Brown
	default:
		// should never be hit due to the regexp
		panic("unknown color")
	}

	return Card{Color: color, Value: value}
}

// CardsFromString will returns a slice of cards
func CardsFromString(s string) []Card {
	if s == "" {
		return []Card{}
	}

	cardStrings := strings.Split(s, ",")
	cards := make([]Card, len(cardStrings))
	for i, card := range cardStrings {
		cards[i] = CardFromString(card)
	}

	return cards
}

// CardToString converts a card (red 7) to a string (7r)
func CardToString(card Card) string {
	var color string
	switch card.Color {
	case Red:
		color = "r"
	case Blue:
		color = "b"
	case Green:
		color = "g"
	case Brown:
		color = "n"
	default:
		color = "?"
	}

	return fmt.Sprintf("%d%s", card.Value, color)
}

// CardsToString will convert a slice of cards to a string in the format of 0r,3b,7n,...
func CardsToString(cards []Card) string {
	c := make([]string, len(cards))
	for i, card := range cards {
		c[i] = CardToString(card)
	}

	return strings.Join(c, ",")
}
