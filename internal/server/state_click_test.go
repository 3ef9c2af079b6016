package server

import (
	"context"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/janpfeifer/GoPyramid/internal/game"
)

// pipeListener serves HTTP connections over net.Pipe
type pipeListener struct {
	ch   chan net.Conn
	done chan struct{}
}

func (l *pipeListener) Accept() (net.Conn, error) {
	select {
	case c := <-l.ch:
		return c, nil
	case <-l.done:
		return nil, net.ErrClosed
	}
}

func (l *pipeListener) Close() error {
	select {
	case <-l.done:
	default:
		close(l.done)
	}
	return nil
}

func (l *pipeListener) Addr() net.Addr { return &net.TCPAddr{} }

// orderedDeck deals unshuffled standard decks, so the layout is known:
// the bottom pyramid row is 9D 0D JD QD KD AC 2C, and draws continue with 3C 4C 5C...
type orderedDeck struct {
	mu    sync.Mutex
	cards map[string][]game.RawCard
	n     int
}

func (d *orderedDeck) NewDeal(ctx context.Context, count int) (game.Deal, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.n++
	id := string(rune('a' + d.n))
	d.cards[id] = game.StandardDeck()
	return d.take(id, count), nil
}

func (d *orderedDeck) Draw(ctx context.Context, deckID string, count int) (game.Deal, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.take(deckID, count), nil
}

func (d *orderedDeck) take(id string, count int) game.Deal {
	cards := d.cards[id]
	count = min(count, len(cards))
	d.cards[id] = cards[count:]
	return game.Deal{Success: true, DeckID: id, Cards: cards[:count], Remaining: len(cards) - count}
}

func TestClickOverPipe(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s := NewServerState(&orderedDeck{cards: make(map[string][]game.RawCard)})
	srv := &http.Server{Handler: http.HandlerFunc(s.HandleWS)}
	listener := &pipeListener{ch: make(chan net.Conn, 10), done: make(chan struct{})}
	defer listener.Close()
	go srv.Serve(listener)
	defer srv.Close()

	opts := &websocket.DialOptions{
		HTTPClient: &http.Client{
			Transport: &http.Transport{
				DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
					cli, srv := net.Pipe()
					listener.ch <- srv
					return cli, nil
				},
			},
		},
	}
	conn, _, err := websocket.Dial(ctx, "http://localhost/ws", opts)
	if err != nil {
		t.Fatalf("Dial error: %v", err)
	}
	defer conn.CloseNow()

	writeMessage(ctx, t, conn, game.MsgTypeJoin, game.JoinMessage{GameID: "unknown"})
	joined := expectState(ctx, t, conn)
	if joined.GameID == "unknown" || joined.GameID == "" {
		t.Fatalf("Unknown game id should get a fresh game, got %q", joined.GameID)
	}
	if s.Games.Len() != 1 {
		t.Errorf("Expected 1 game on the server, got %d", s.Games.Len())
	}

	steps := []struct {
		name    string
		click   string
		removed []string
		armed   string
	}{
		{name: "king alone", click: "KD", removed: []string{"KD"}},
		{name: "arm jack", click: "JD", armed: "JD"},
		{name: "jack and two", click: "2C", removed: []string{"JD", "2C"}},
		{name: "arm queen", click: "QD", armed: "QD"},
		{name: "locked card disarms", click: "5D", armed: ""},
		{name: "arm queen again", click: "QD", armed: "QD"},
		{name: "queen and ace", click: "AC", removed: []string{"QD", "AC"}},
	}
	var last *game.StateMessage
	for _, step := range steps {
		writeMessage(ctx, t, conn, game.MsgTypeSelect, game.SelectMessage{CardID: step.click})
		last = expectState(ctx, t, conn)
		if len(last.Removed) != len(step.removed) {
			t.Fatalf("%s: expected %v removed, got %v", step.name, step.removed, last.Removed)
		}
		for i := range step.removed {
			if last.Removed[i] != step.removed[i] {
				t.Errorf("%s: expected %v removed, got %v", step.name, step.removed, last.Removed)
			}
		}
		if last.State.Selection.CardID != step.armed {
			t.Errorf("%s: expected %q armed, got %q", step.name, step.armed, last.State.Selection.CardID)
		}
	}
	if last.State.Moves != 3 {
		t.Errorf("Expected 3 moves, got %d", last.State.Moves)
	}

	// Row 5 is 3D..8D; 6D sat on QD and KD, 7D on KD and AC, 8D on AC and 2C.
	for _, id := range []string{"6D", "7D", "8D"} {
		c, _ := last.State.Card(id)
		if !c.Selectable {
			t.Errorf("%s should be uncovered", id)
		}
	}

	// The reserve gets 3C 4C 5C; 8D + 5C = 13.
	writeMessage(ctx, t, conn, game.MsgTypeDraw, nil)
	drawn := expectState(ctx, t, conn)
	if drawn.State.Reserve[2][0].ID != "5C" {
		t.Fatalf("Expected 5C on stack 2, got %v", drawn.State.Reserve[2])
	}
	writeMessage(ctx, t, conn, game.MsgTypeSelect, game.SelectMessage{CardID: "8D"})
	expectState(ctx, t, conn)
	writeMessage(ctx, t, conn, game.MsgTypeSelect, game.SelectMessage{CardID: "5C"})
	matched := expectState(ctx, t, conn)
	if len(matched.Removed) != 2 {
		t.Errorf("Expected 8D and 5C removed, got %v", matched.Removed)
	}
	if matched.State.HasWon {
		t.Errorf("Game is far from won")
	}
}
