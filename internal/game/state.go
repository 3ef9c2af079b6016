package game

import (
	"fmt"
	"strings"
)

// Selection is the card armed as the first half of a pair, if any.
// The zero value is NoSelection.
type Selection struct {
	CardID string `json:"card_id,omitempty"`
}

// NoSelection is the empty selection.
var NoSelection = Selection{}

// OneArmed returns the selection holding the given card.
func OneArmed(cardID string) Selection {
	return Selection{CardID: cardID}
}

// Armed reports whether a card is currently armed.
func (s Selection) Armed() bool {
	return s.CardID != ""
}

// Removal describes the cards taken off the table by one move.
// It is either RemoveSingle or RemoveMatchedPair.
type Removal interface {
	CardIDs() []string
	fmt.Stringer
	isRemoval()
}

// RemoveSingle removes a King on its own.
type RemoveSingle struct {
	CardID string
}

func (r RemoveSingle) CardIDs() []string { return []string{r.CardID} }
func (r RemoveSingle) String() string    { return "remove " + r.CardID }
func (RemoveSingle) isRemoval()          {}

// RemoveMatchedPair removes two cards whose values add up to MatchSum.
type RemoveMatchedPair struct {
	First, Second string
}

func (r RemoveMatchedPair) CardIDs() []string { return []string{r.First, r.Second} }
func (r RemoveMatchedPair) String() string    { return fmt.Sprintf("remove %s+%s", r.First, r.Second) }
func (RemoveMatchedPair) isRemoval()          {}

// GameState is a snapshot of one game. Transitions never modify their input:
// they return a new GameState and the caller replaces the one it holds.
//
// The zero value is the empty state before the first deal.
type GameState struct {
	DeckID             string    `json:"deck_id"`
	Pyramid            Pyramid   `json:"pyramid"`
	Reserve            Reserve   `json:"reserve"`
	Selection          Selection `json:"selection"`
	Remaining          int       `json:"remaining"`
	HasWon             bool      `json:"has_won"`
	HasCardsLeftToDraw bool      `json:"has_cards_left_to_draw"`
	Moves              int       `json:"moves"`

	// History holds every removal applied so far, oldest first.
	History []Removal `json:"-"`
}

// Started reports whether a deal has been laid out.
func (s GameState) Started() bool {
	return s.Pyramid[0] != nil
}

// StartNewGame lays out a fresh 28-card deal. Any invalid card aborts the whole deal.
func StartNewGame(d Deal) (GameState, error) {
	cards, err := normalizeAll(d.Cards)
	if err != nil {
		return GameState{}, fmt.Errorf("new game: %w", err)
	}
	p, err := BuildPyramid(cards)
	if err != nil {
		return GameState{}, fmt.Errorf("new game: %w", err)
	}
	return GameState{
		DeckID:             d.DeckID,
		Pyramid:            p,
		Remaining:          d.Remaining,
		HasCardsLeftToDraw: true,
	}, nil
}

// DrawThree deals the drawn cards onto the reserve stacks and clears any armed card.
func DrawThree(s GameState, d Deal) (GameState, error) {
	if d.DeckID != "" && s.DeckID != "" && d.DeckID != s.DeckID {
		return s, fmt.Errorf("draw: %w: game %s, deal %s", ErrDeckMismatch, s.DeckID, d.DeckID)
	}
	cards, err := normalizeAll(d.Cards)
	if err != nil {
		return s, fmt.Errorf("draw: %w", err)
	}
	r, err := AppendToReserve(s.Reserve, cards)
	if err != nil {
		return s, fmt.Errorf("draw: %w", err)
	}
	s.Reserve = r
	s.Remaining = d.Remaining
	s.HasCardsLeftToDraw = d.Remaining > 0
	s.Selection = NoSelection
	return s, nil
}

// Card returns the card with the given id, wherever it is.
func (s GameState) Card(id string) (Card, bool) {
	if row, col, ok := s.Pyramid.find(id); ok {
		return s.Pyramid[row][col], true
	}
	if stack, pos, ok := s.Reserve.find(id); ok {
		return s.Reserve[stack][pos], true
	}
	return Card{}, false
}

// ApplyClick runs one click through the selection state machine. The returned
// Removal is nil when the click removed nothing.
//
// Clicking a card that is not selectable clears the armed card. A King is removed
// alone. Otherwise the first click arms a card and the second click resolves
// the pair, removing both cards if they add up to MatchSum.
func ApplyClick(s GameState, cardID string) (GameState, Removal, error) {
	clicked, ok := s.Card(cardID)
	if !ok {
		return s, nil, fmt.Errorf("%w: %q", ErrStaleSelection, cardID)
	}

	var removal Removal
	switch {
	case !clicked.Selectable:
		s.Selection = NoSelection
		return s, nil, nil

	case clicked.Value == King:
		removal = RemoveSingle{CardID: clicked.ID}

	case !s.Selection.Armed():
		s.Selection = OneArmed(clicked.ID)
		return s, nil, nil

	default:
		first, ok := s.Card(s.Selection.CardID)
		s.Selection = NoSelection
		if !ok || first.Value+clicked.Value != MatchSum {
			return s, nil, nil
		}
		removal = RemoveMatchedPair{First: first.ID, Second: clicked.ID}
	}

	s.Selection = NoSelection
	s, err := RemoveCards(s, removal)
	if err != nil {
		return s, nil, err
	}
	return s, removal, nil
}

// RemoveCards marks the cards of the removal as removed, recomputes which cards
// are selectable, and updates HasWon. Reserve cards don't count towards winning.
func RemoveCards(s GameState, removal Removal) (GameState, error) {
	p := s.Pyramid.clone()
	r := s.Reserve.clone()
	for _, id := range removal.CardIDs() {
		if row, col, ok := p.find(id); ok {
			p[row][col].Removed = true
			continue
		}
		if stack, pos, ok := r.find(id); ok {
			r[stack][pos].Removed = true
			continue
		}
		return s, fmt.Errorf("%w: %q", ErrStaleSelection, id)
	}

	s.Pyramid = RecomputeSelectability(p)
	s.Reserve = RecomputeReserve(r)
	s.HasWon = s.Pyramid.Cleared()
	s.Moves++
	history := make([]Removal, len(s.History), len(s.History)+1)
	copy(history, s.History)
	s.History = append(history, removal)
	return s, nil
}

// SelectableCards returns every card that can currently be clicked, pyramid first
// (top to bottom) and then the reserve stacks.
func (s GameState) SelectableCards() []Card {
	var cards []Card
	for _, c := range s.Pyramid.Cards() {
		if c.Selectable {
			cards = append(cards, c)
		}
	}
	for _, stack := range s.Reserve {
		for _, c := range stack {
			if c.Selectable {
				cards = append(cards, c)
			}
		}
	}
	return cards
}

// Hint returns a removal that is available right now, if any.
func Hint(s GameState) (Removal, bool) {
	cards := s.SelectableCards()
	for _, c := range cards {
		if c.Value == King {
			return RemoveSingle{CardID: c.ID}, true
		}
	}
	for i, a := range cards {
		for _, b := range cards[i+1:] {
			if a.Value+b.Value == MatchSum {
				return RemoveMatchedPair{First: a.ID, Second: b.ID}, true
			}
		}
	}
	return nil, false
}

// HasMoves reports whether any removal is available without drawing.
func HasMoves(s GameState) bool {
	_, ok := Hint(s)
	return ok
}

// IsGameOver reports whether the game is won, or nothing can be removed and nothing is left to draw.
func IsGameOver(s GameState) bool {
	if !s.Started() {
		return false
	}
	return s.HasWon || (!s.HasCardsLeftToDraw && !HasMoves(s))
}

func (s GameState) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Game deck=%s moves=%d remaining=%d won=%t armed=%q\n",
		s.DeckID, s.Moves, s.Remaining, s.HasWon, s.Selection.CardID)
	for row, cards := range s.Pyramid {
		sb.WriteString(strings.Repeat("  ", PyramidRows-1-row))
		for _, c := range cards {
			sb.WriteString(cardCell(c))
		}
		sb.WriteByte('\n')
	}
	for i, stack := range s.Reserve {
		fmt.Fprintf(&sb, "reserve %d:", i)
		for _, c := range stack {
			sb.WriteString(cardCell(c))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// cardCell renders a card as a fixed-width cell: removed cards as "--",
// selectable cards with a trailing '*'.
func cardCell(c Card) string {
	switch {
	case c.Removed:
		return " --  "
	case c.Selectable:
		return fmt.Sprintf(" %-2s* ", c.ID)
	default:
		return fmt.Sprintf(" %-2s  ", c.ID)
	}
}
