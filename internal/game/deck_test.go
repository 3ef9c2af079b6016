package game

import (
	"testing"
)

func TestStandardDeck(t *testing.T) {
	deck := StandardDeck()
	if len(deck) != DeckSize {
		t.Fatalf("Expected %d cards, got %d", DeckSize, len(deck))
	}

	seen := make(map[string]bool)
	sums := 0
	for _, raw := range deck {
		if seen[raw.Code] {
			t.Errorf("Duplicate card code %s", raw.Code)
		}
		seen[raw.Code] = true

		c, err := NormalizeCard(raw.Code, raw.Image, raw.Value)
		if err != nil {
			t.Fatalf("Card %s failed to normalize: %v", raw.Code, err)
		}
		sums += c.Value
	}

	// 4 suits of 1+2+...+13.
	if want := 4 * 91; sums != want {
		t.Errorf("Expected total face value %d, got %d", want, sums)
	}
	if deck[9].Code != "0S" || deck[9].Value != "10" {
		t.Errorf("Expected ten of spades to be coded 0S, got %+v", deck[9])
	}
	if deck[0].Image != "https://deckofcardsapi.com/static/img/AS.png" {
		t.Errorf("Unexpected image URL %q", deck[0].Image)
	}
}
