package game

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFaceValue is returned when a card's value label is not one of the 13 known labels.
	ErrInvalidFaceValue = errors.New("invalid face value")

	// ErrInsufficientCards is returned when a deal does not hold exactly PyramidSize cards.
	ErrInsufficientCards = errors.New("insufficient cards for pyramid")

	// ErrTooManyCards is returned when more than ReserveStacks cards are appended to the reserve at once.
	ErrTooManyCards = errors.New("too many cards for reserve")

	// ErrStaleSelection is returned when a card id is not present in the current game state.
	ErrStaleSelection = errors.New("stale selection reference")

	// ErrDeckMismatch is returned when a draw comes from a different deck than the game's.
	ErrDeckMismatch = errors.New("deal belongs to a different deck")
)

// MatchSum is the value two cards must add up to in order to be removed together.
const MatchSum = 13

// King is the face value of a King, which is removed on its own.
const King = 13

// faceValues maps the deck service labels to card values. Matching is case-sensitive.
var faceValues = map[string]int{
	"ACE":   1,
	"2":     2,
	"3":     3,
	"4":     4,
	"5":     5,
	"6":     6,
	"7":     7,
	"8":     8,
	"9":     9,
	"10":    10,
	"JACK":  11,
	"QUEEN": 12,
	"KING":  13,
}

// Card is a single playing card on the board or in a reserve stack.
type Card struct {
	ID         string `json:"id"`
	Value      int    `json:"value"`
	Image      string `json:"image"`
	FaceUp     bool   `json:"face_up"`
	Removed    bool   `json:"removed"`
	Selectable bool   `json:"selectable"`
}

func (c Card) String() string {
	return fmt.Sprintf("%s(%d)", c.ID, c.Value)
}

// ParseFaceValue converts a deck service value label ("ACE", "2".."10", "JACK", "QUEEN", "KING")
// into a face value in [1, 13].
func ParseFaceValue(label string) (int, error) {
	v, ok := faceValues[label]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFaceValue, label)
	}
	return v, nil
}

// NormalizeCard builds a Card from the raw fields returned by the deck service.
func NormalizeCard(code, image, label string) (Card, error) {
	v, err := ParseFaceValue(label)
	if err != nil {
		return Card{}, fmt.Errorf("card %s: %w", code, err)
	}
	return Card{
		ID:     code,
		Value:  v,
		Image:  image,
		FaceUp: true,
	}, nil
}

// normalizeAll converts every raw card, failing on the first invalid one.
func normalizeAll(raw []RawCard) ([]Card, error) {
	cards := make([]Card, 0, len(raw))
	for _, r := range raw {
		c, err := NormalizeCard(r.Code, r.Image, r.Value)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}
