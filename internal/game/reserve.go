package game

import "fmt"

// ReserveStacks is the number of reserve stacks; each draw deals one card to each.
const ReserveStacks = 3

// Reserve holds the drawn cards. Stacks are ordered bottom to top and only grow;
// removed cards stay in place with Removed set.
type Reserve [ReserveStacks][]Card

func (r Reserve) clone() Reserve {
	var c Reserve
	for i := range r {
		if r[i] == nil {
			continue
		}
		c[i] = make([]Card, len(r[i]))
		copy(c[i], r[i])
	}
	return c
}

// AppendToReserve deals drawn card k onto stack k. With fewer than ReserveStacks
// cards the remaining stacks are left as they are. r is not modified.
func AppendToReserve(r Reserve, drawn []Card) (Reserve, error) {
	if len(drawn) > ReserveStacks {
		return r, fmt.Errorf("%w: got %d, at most %d", ErrTooManyCards, len(drawn), ReserveStacks)
	}
	r = r.clone()
	for k, c := range drawn {
		r[k] = append(r[k], c)
	}
	return RecomputeReserve(r), nil
}

// Top returns the index of the topmost non-removed card of stack i, or -1.
func (r Reserve) Top(i int) int {
	for j := len(r[i]) - 1; j >= 0; j-- {
		if !r[i][j].Removed {
			return j
		}
	}
	return -1
}

// RecomputeReserve returns a copy of r where only the top non-removed card of
// each stack is selectable.
func RecomputeReserve(r Reserve) Reserve {
	r = r.clone()
	for i := range r {
		top := r.Top(i)
		for j := range r[i] {
			r[i][j].Selectable = j == top
		}
	}
	return r
}

// Len returns the total number of cards dealt to the reserve, removed or not.
func (r Reserve) Len() int {
	n := 0
	for _, stack := range r {
		n += len(stack)
	}
	return n
}

func (r Reserve) find(id string) (stack, pos int, ok bool) {
	for i := range r {
		for j := range r[i] {
			if r[i][j].ID == id {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}
