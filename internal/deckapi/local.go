package deckapi

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/janpfeifer/GoPyramid/internal/game"
	"k8s.io/klog/v2"
)

// LocalService serves the deck service draw endpoints from memory:
//
//	GET /deck/new/draw/?count=N        shuffle a new deck and draw N cards
//	GET /deck/{deck_id}/draw/?count=N  draw N more cards
//
// Responses have the same shape as deckofcardsapi.com.
type LocalService struct {
	mu    sync.Mutex
	decks map[string][]game.RawCard // Cards still to be drawn, by deck id
	mux   *http.ServeMux

	// Shuffle reorders a new deck. Defaults to a uniform random shuffle.
	Shuffle func(cards []game.RawCard)
}

// NewLocalService creates an empty LocalService.
func NewLocalService() *LocalService {
	s := &LocalService{
		decks: make(map[string][]game.RawCard),
		mux:   http.NewServeMux(),
		Shuffle: func(cards []game.RawCard) {
			rand.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
		},
	}
	s.mux.HandleFunc("GET /deck/{deck_id}/draw/", s.handleDraw)
	s.mux.HandleFunc("GET /deck/{deck_id}/draw", s.handleDraw)
	return s
}

// ServeHTTP implements http.Handler.
func (s *LocalService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		klog.Errorf("deckapi: failed to write response: %v", err)
	}
}

func (s *LocalService) handleDraw(w http.ResponseWriter, r *http.Request) {
	deckID := r.PathValue("deck_id")
	count := 1
	if c := r.URL.Query().Get("count"); c != "" {
		n, err := strconv.Atoi(c)
		if err != nil || n < 0 {
			respondJSON(w, http.StatusBadRequest, game.Deal{DeckID: deckID, Error: fmt.Sprintf("invalid count %q", c)})
			return
		}
		count = n
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if deckID == "new" {
		deckID = uuid.NewString()
		cards := game.StandardDeck()
		s.Shuffle(cards)
		s.decks[deckID] = cards
		klog.V(1).Infof("deckapi: shuffled new deck %s", deckID)
	}
	remaining, ok := s.decks[deckID]
	if !ok {
		respondJSON(w, http.StatusNotFound, game.Deal{DeckID: deckID, Error: "Deck ID does not exist."})
		return
	}

	deal := game.Deal{Success: true, DeckID: deckID}
	if count > len(remaining) {
		deal.Success = false
		deal.Error = fmt.Sprintf("Not enough cards remaining to draw %d additional", count)
		count = len(remaining)
	}
	deal.Cards = remaining[:count:count]
	s.decks[deckID] = remaining[count:]
	deal.Remaining = len(s.decks[deckID])
	respondJSON(w, http.StatusOK, deal)
}
