package game

import "fmt"

// DeckSize is the number of cards in a standard deck.
const DeckSize = 52

// CardImageURL is the pattern used by the deck service for card face images.
const CardImageURL = "https://deckofcardsapi.com/static/img/%s.png"

// RawCard is a card as returned by the deck service.
// Only these three fields are read; anything else the service sends is ignored.
type RawCard struct {
	Code  string `json:"code"`
	Image string `json:"image"`
	Value string `json:"value"`
}

// Deal is the payload of a deck service draw: the drawn cards, the deck handle
// to draw further cards from, and how many cards remain in that deck.
type Deal struct {
	Success   bool      `json:"success"`
	DeckID    string    `json:"deck_id"`
	Cards     []RawCard `json:"cards"`
	Remaining int       `json:"remaining"`
	Error     string    `json:"error,omitempty"`
}

// Labels in deck order, with the single character used for card codes.
// The deck service uses "0" for tens.
var ranks = []struct {
	label string
	code  string
}{
	{"ACE", "A"},
	{"2", "2"},
	{"3", "3"},
	{"4", "4"},
	{"5", "5"},
	{"6", "6"},
	{"7", "7"},
	{"8", "8"},
	{"9", "9"},
	{"10", "0"},
	{"JACK", "J"},
	{"QUEEN", "Q"},
	{"KING", "K"},
}

var suits = []string{"S", "D", "C", "H"}

// StandardDeck returns the 52 cards of a standard deck, unshuffled, in the
// same shape the deck service returns them.
func StandardDeck() []RawCard {
	deck := make([]RawCard, 0, DeckSize)
	for _, suit := range suits {
		for _, r := range ranks {
			code := r.code + suit
			deck = append(deck, RawCard{
				Code:  code,
				Image: fmt.Sprintf(CardImageURL, code),
				Value: r.label,
			})
		}
	}
	return deck
}
