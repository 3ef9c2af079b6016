package game

import (
	"fmt"
	"strconv"
	"testing"
)

// labelFor returns the deck service label of a face value.
func labelFor(v int) string {
	switch v {
	case 1:
		return "ACE"
	case 11:
		return "JACK"
	case 12:
		return "QUEEN"
	case 13:
		return "KING"
	default:
		return strconv.Itoa(v)
	}
}

// rawCards builds raw cards with ids prefix00, prefix01, ... and the given values.
func rawCards(prefix string, values ...int) []RawCard {
	cards := make([]RawCard, len(values))
	for i, v := range values {
		code := fmt.Sprintf("%s%02d", prefix, i)
		cards[i] = RawCard{Code: code, Image: fmt.Sprintf(CardImageURL, code), Value: labelFor(v)}
	}
	return cards
}

// testDeal returns a pyramid deal (ids p00..p27) where rows 0-5 are all 2s
// and the bottom row has the given 7 values.
func testDeal(bottom ...int) Deal {
	values := make([]int, 0, PyramidSize)
	for range PyramidSize - PyramidRows {
		values = append(values, 2)
	}
	values = append(values, bottom...)
	return Deal{Success: true, DeckID: "deck1", Cards: rawCards("p", values...), Remaining: DeckSize - PyramidSize}
}

// newTestGame starts a game with the bottom row holding K, 6, 7, 5, 8, A, Q.
func newTestGame(t *testing.T) GameState {
	t.Helper()
	s, err := StartNewGame(testDeal(13, 6, 7, 5, 8, 1, 12))
	if err != nil {
		t.Fatalf("StartNewGame failed: %v", err)
	}
	return s
}

// click applies a click that must not fail.
func click(t *testing.T, s GameState, id string) (GameState, Removal) {
	t.Helper()
	s, removal, err := ApplyClick(s, id)
	if err != nil {
		t.Fatalf("ApplyClick(%s) failed: %v", id, err)
	}
	return s, removal
}

func mustCard(t *testing.T, s GameState, id string) Card {
	t.Helper()
	c, ok := s.Card(id)
	if !ok {
		t.Fatalf("Card %s not found", id)
	}
	return c
}
