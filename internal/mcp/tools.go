// Package mcp exposes a pyramid solitaire game as MCP tools, so an agent can play over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/janpfeifer/GoPyramid/internal/game"
	"github.com/janpfeifer/GoPyramid/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"k8s.io/klog/v2"
)

// ToolResponse is the JSON returned by every tool.
type ToolResponse struct {
	Board      string         `json:"board"`
	State      game.GameState `json:"state"`
	GameOver   bool           `json:"game_over"`
	Removed    []string       `json:"removed,omitempty"`
	Selectable []string       `json:"selectable"`
	Hint       string         `json:"hint,omitempty"`
}

// Tools holds the single game played by one MCP process.
type Tools struct {
	sess *session.Session
}

// NewTools creates the tools over a game dealt from deck.
func NewTools(deck session.DeckSource) *Tools {
	return &Tools{sess: session.New("mcp", deck)}
}

// Register adds all game tools to the MCP server.
func (t *Tools) Register(s *server.MCPServer) {
	s.AddTool(newGameTool(), t.handleNewGame)
	s.AddTool(drawCardsTool(), t.handleDrawCards)
	s.AddTool(selectCardTool(), t.handleSelectCard)
	s.AddTool(getGameStateTool(), t.handleGetGameState)
	s.AddTool(hintTool(), t.handleHint)
}

// --- Tool definitions ---

func newGameTool() mcp.Tool {
	return mcp.NewTool("new_game",
		mcp.WithDescription("Shuffle a new deck and deal a pyramid of 28 cards in 7 rows, discarding any current game. "+
			"Remove uncovered cards in pairs adding up to 13 (A=1, J=11, Q=12); Kings (13) are removed alone."),
	)
}

func drawCardsTool() mcp.Tool {
	return mcp.NewTool("draw_cards",
		mcp.WithDescription("Draw 3 cards from the deck, one onto each reserve stack. Only the top card of each stack can be played."),
	)
}

func selectCardTool() mcp.Tool {
	return mcp.NewTool("select_card",
		mcp.WithDescription("Click on a card. A selectable King is removed at once; otherwise the first click arms the card "+
			"and a second click on a card that adds up to 13 removes both. Clicking a covered card clears the selection."),
		mcp.WithString("card_id", mcp.Required(), mcp.Description("Card code, e.g. 'KH', '0S' (ten of spades) or 'AD'")),
	)
}

func getGameStateTool() mcp.Tool {
	return mcp.NewTool("get_game_state",
		mcp.WithDescription("Get the current board, the selectable cards and whether the game is over. Read-only."),
	)
}

func hintTool() mcp.Tool {
	return mcp.NewTool("hint",
		mcp.WithDescription("Suggest a removal available on the current board, if any. Read-only."),
	)
}

// --- Tool handlers ---

func (t *Tools) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := t.sess.Start(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to deal a new game: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(newResponse(state, nil))), nil
}

func (t *Tools) handleDrawCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := t.sess.Draw(ctx)
	switch {
	case errors.Is(err, session.ErrNotStarted):
		return mcp.NewToolResultError("No game is running. Use new_game first."), nil
	case errors.Is(err, session.ErrNoCardsLeft):
		return mcp.NewToolResultError("The deck is empty, no more cards to draw."), nil
	case err != nil:
		return mcp.NewToolResultErrorf("Failed to draw cards: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(newResponse(state, nil))), nil
}

func (t *Tools) handleSelectCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID := request.GetString("card_id", "")
	if cardID == "" {
		return mcp.NewToolResultError("card_id is required"), nil
	}
	state, removal, err := t.sess.Select(cardID)
	switch {
	case errors.Is(err, session.ErrNotStarted):
		return mcp.NewToolResultError("No game is running. Use new_game first."), nil
	case err != nil:
		return mcp.NewToolResultErrorf("Invalid selection %q: %v", cardID, err), nil
	}
	return mcp.NewToolResultText(respondJSON(newResponse(state, removal))), nil
}

func (t *Tools) handleGetGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state := t.sess.State()
	if !state.Started() {
		return mcp.NewToolResultError("No game is running. Use new_game first."), nil
	}
	return mcp.NewToolResultText(respondJSON(newResponse(state, nil))), nil
}

func (t *Tools) handleHint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state := t.sess.State()
	if !state.Started() {
		return mcp.NewToolResultError("No game is running. Use new_game first."), nil
	}
	resp := newResponse(state, nil)
	if removal, ok := game.Hint(state); ok {
		resp.Hint = removal.String()
	} else if state.HasCardsLeftToDraw {
		resp.Hint = "no pair available, draw_cards"
	} else {
		resp.Hint = "no moves left"
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func newResponse(state game.GameState, removal game.Removal) *ToolResponse {
	resp := &ToolResponse{
		Board:      state.String(),
		State:      state,
		GameOver:   game.IsGameOver(state),
		Selectable: []string{},
	}
	if removal != nil {
		resp.Removed = removal.CardIDs()
	}
	for _, c := range state.SelectableCards() {
		resp.Selectable = append(resp.Selectable, c.ID)
	}
	return resp
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		klog.Errorf("mcp: marshal error: %v", err)
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
