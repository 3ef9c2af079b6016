// Package deckapi talks to a deck-of-cards web service: the public
// deckofcardsapi.com or the LocalService in this package, which serves the
// same endpoints from memory.
package deckapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/janpfeifer/GoPyramid/internal/game"
	"k8s.io/klog/v2"
)

// DefaultBaseURL is the public deck service.
const DefaultBaseURL = "https://deckofcardsapi.com/api"

// ErrNetworkFailure wraps every failure to get a usable answer from the deck service.
var ErrNetworkFailure = errors.New("deck service request failed")

// Client fetches shuffled cards from a deck service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the deck service rooted at baseURL (e.g. DefaultBaseURL).
// A zero timeout means no timeout beyond the request context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewDeal shuffles a new deck and draws count cards from it.
func (c *Client) NewDeal(ctx context.Context, count int) (game.Deal, error) {
	return c.draw(ctx, "new", count)
}

// Draw draws count more cards from an existing deck.
// When the deck runs out, the cards that were left are returned.
func (c *Client) Draw(ctx context.Context, deckID string, count int) (game.Deal, error) {
	if deckID == "" {
		return game.Deal{}, fmt.Errorf("%w: empty deck id", ErrNetworkFailure)
	}
	return c.draw(ctx, deckID, count)
}

func (c *Client) draw(ctx context.Context, deckID string, count int) (game.Deal, error) {
	u := fmt.Sprintf("%s/deck/%s/draw/?count=%d", c.baseURL, url.PathEscape(deckID), count)
	klog.V(1).Infof("deckapi: GET %s", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return game.Deal{}, fmt.Errorf("%w: %w", ErrNetworkFailure, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return game.Deal{}, fmt.Errorf("%w: %w", ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	var deal game.Deal
	decodeErr := json.NewDecoder(resp.Body).Decode(&deal)
	if resp.StatusCode != http.StatusOK {
		msg := resp.Status
		if decodeErr == nil && deal.Error != "" {
			msg = fmt.Sprintf("%s: %s", resp.Status, deal.Error)
		}
		return game.Deal{}, fmt.Errorf("%w: deck %s: %s", ErrNetworkFailure, deckID, msg)
	}
	if decodeErr != nil {
		return game.Deal{}, fmt.Errorf("%w: failed to decode response: %w", ErrNetworkFailure, decodeErr)
	}
	if !deal.Success && len(deal.Cards) == 0 {
		return game.Deal{}, fmt.Errorf("%w: deck %s: %s", ErrNetworkFailure, deckID, deal.Error)
	}
	if !deal.Success {
		klog.Infof("deckapi: deck %s ran out, got %d of %d cards: %s", deal.DeckID, len(deal.Cards), count, deal.Error)
	}
	return deal, nil
}
