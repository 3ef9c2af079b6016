// Package session owns a single game: it fetches cards from the deck service,
// feeds them to the game engine and keeps the latest GameState snapshot.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/janpfeifer/GoPyramid/internal/game"
	"k8s.io/klog/v2"
)

var (
	// ErrDrawInProgress is returned by Draw while a previous draw is still waiting on the deck service.
	ErrDrawInProgress = errors.New("a draw is already in progress")

	// ErrNoCardsLeft is returned by Draw once the deck is exhausted.
	ErrNoCardsLeft = errors.New("no cards left to draw")

	// ErrNotStarted is returned when playing before the first deal.
	ErrNotStarted = errors.New("game not started")
)

// DeckSource deals cards. It is implemented by deckapi.Client.
type DeckSource interface {
	NewDeal(ctx context.Context, count int) (game.Deal, error)
	Draw(ctx context.Context, deckID string, count int) (game.Deal, error)
}

// Session holds the current snapshot of one game.
// Every operation replaces the snapshot with the one returned by the engine;
// failures leave the previous snapshot in place.
type Session struct {
	ID string

	deck DeckSource

	mu      sync.Mutex
	state   game.GameState
	drawing bool // Set while a draw request is in flight
}

// New creates a session with an empty, not yet dealt, game.
func New(id string, deck DeckSource) *Session {
	return &Session{ID: id, deck: deck}
}

// State returns the current snapshot.
func (s *Session) State() game.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Drawing reports whether a draw request is in flight.
func (s *Session) Drawing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawing
}

// Start deals a fresh game from a newly shuffled deck, discarding the current one.
func (s *Session) Start(ctx context.Context) (game.GameState, error) {
	deal, err := s.deck.NewDeal(ctx, game.PyramidSize)
	if err != nil {
		klog.Errorf("Session %s: failed to fetch new deal: %v", s.ID, err)
		return s.State(), fmt.Errorf("new game: %w", err)
	}
	state, err := game.StartNewGame(deal)
	if err != nil {
		klog.Errorf("Session %s: bad deal from deck %s: %v", s.ID, deal.DeckID, err)
		return s.State(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	klog.Infof("Session %s: new game on deck %s (%d cards left in deck)", s.ID, state.DeckID, state.Remaining)
	return s.state, nil
}

// Reset is the same as Start: the whole game is replaced.
func (s *Session) Reset(ctx context.Context) (game.GameState, error) {
	return s.Start(ctx)
}

// Draw fetches the next cards from the deck onto the reserve stacks.
// Only one draw may be in flight at a time.
func (s *Session) Draw(ctx context.Context) (game.GameState, error) {
	s.mu.Lock()
	switch {
	case !s.state.Started():
		s.mu.Unlock()
		return s.State(), ErrNotStarted
	case s.drawing:
		s.mu.Unlock()
		return s.State(), ErrDrawInProgress
	case !s.state.HasCardsLeftToDraw:
		s.mu.Unlock()
		return s.State(), ErrNoCardsLeft
	}
	s.drawing = true
	deckID := s.state.DeckID
	s.mu.Unlock()

	deal, fetchErr := s.deck.Draw(ctx, deckID, game.DrawCount)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawing = false
	if fetchErr != nil {
		klog.Errorf("Session %s: draw from deck %s failed: %v", s.ID, deckID, fetchErr)
		return s.state, fmt.Errorf("draw: %w", fetchErr)
	}
	if s.state.DeckID != deckID {
		// The game was reset while the request was in flight.
		klog.Infof("Session %s: dropping draw from old deck %s", s.ID, deckID)
		return s.state, fmt.Errorf("draw: %w", game.ErrDeckMismatch)
	}
	state, err := game.DrawThree(s.state, deal)
	if err != nil {
		klog.Errorf("Session %s: bad draw from deck %s: %v", s.ID, deckID, err)
		return s.state, err
	}
	s.state = state
	klog.V(1).Infof("Session %s: drew %d cards, %d left", s.ID, len(deal.Cards), deal.Remaining)
	return s.state, nil
}

// Select clicks on a card. The returned Removal is nil if nothing was removed.
func (s *Session) Select(cardID string) (game.GameState, game.Removal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Started() {
		return s.state, nil, ErrNotStarted
	}
	state, removal, err := game.ApplyClick(s.state, cardID)
	if err != nil {
		klog.Errorf("Session %s: %v", s.ID, err)
		return s.state, nil, err
	}
	s.state = state
	if removal != nil {
		klog.V(1).Infof("Session %s: %s (won=%t)", s.ID, removal, state.HasWon)
	}
	return s.state, removal, nil
}
