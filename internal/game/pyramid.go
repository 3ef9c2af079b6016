package game

import "fmt"

const (
	// PyramidRows is the number of rows in the pyramid. Row i holds i+1 cards.
	PyramidRows = 7

	// PyramidSize is the number of cards dealt into the pyramid.
	PyramidSize = PyramidRows * (PyramidRows + 1) / 2
)

// Pyramid is the triangular board: row 0 is the top card, row 6 the 7 uncovered cards at the bottom.
type Pyramid [PyramidRows][]Card

// rowOffset returns the position in the deal of the first card of the given row.
func rowOffset(row int) int {
	return row * (row + 1) / 2
}

// BuildPyramid partitions exactly PyramidSize cards into rows, in deal order, and
// computes which cards start out selectable.
func BuildPyramid(cards []Card) (Pyramid, error) {
	var p Pyramid
	if len(cards) != PyramidSize {
		return p, fmt.Errorf("%w: need %d, got %d", ErrInsufficientCards, PyramidSize, len(cards))
	}
	for row := range PyramidRows {
		start := rowOffset(row)
		p[row] = make([]Card, row+1)
		copy(p[row], cards[start:start+row+1])
	}
	return RecomputeSelectability(p), nil
}

// clone returns a copy of the pyramid that shares no rows with p.
func (p Pyramid) clone() Pyramid {
	var c Pyramid
	for row := range p {
		if p[row] == nil {
			continue
		}
		c[row] = make([]Card, len(p[row]))
		copy(c[row], p[row])
	}
	return c
}

// RecomputeSelectability returns a copy of p with every Selectable flag derived
// from the current removal state. It only looks at removal flags, so running it
// twice gives the same board.
func RecomputeSelectability(p Pyramid) Pyramid {
	p = p.clone()
	for row := range PyramidRows {
		for col := range p[row] {
			card := &p[row][col]
			switch {
			case card.Removed:
				card.Selectable = false
			case row == PyramidRows-1:
				card.Selectable = true
			default:
				below := p[row+1]
				card.Selectable = col+1 < len(below) && below[col].Removed && below[col+1].Removed
			}
		}
	}
	return p
}

// Cards returns every pyramid card in deal order.
func (p Pyramid) Cards() []Card {
	cards := make([]Card, 0, PyramidSize)
	for _, row := range p {
		cards = append(cards, row...)
	}
	return cards
}

// Cleared reports whether the pyramid was dealt and every one of its cards has been removed.
func (p Pyramid) Cleared() bool {
	count := 0
	for _, row := range p {
		for _, c := range row {
			if !c.Removed {
				return false
			}
			count++
		}
	}
	return count == PyramidSize
}

// find returns the row and column of the card with the given id.
func (p Pyramid) find(id string) (row, col int, ok bool) {
	for row := range p {
		for col := range p[row] {
			if p[row][col].ID == id {
				return row, col, true
			}
		}
	}
	return 0, 0, false
}
