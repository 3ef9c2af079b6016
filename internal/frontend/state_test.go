package frontend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/janpfeifer/GoPyramid/internal/game"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// connectRecorder dials a websocket server that forwards every client message to the returned channel.
func connectRecorder(t *testing.T) (*websocket.Conn, <-chan game.WsMessage) {
	t.Helper()
	received := make(chan game.WsMessage, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.CloseNow()
		for {
			var msg game.WsMessage
			if err := wsjson.Read(r.Context(), conn, &msg); err != nil {
				return
			}
			received <- msg
		}
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { conn.CloseNow() })
	return conn, received
}

func expectSent(t *testing.T, received <-chan game.WsMessage) game.WsMessage {
	t.Helper()
	select {
	case msg := <-received:
		return msg
	case <-time.After(5 * time.Second):
		t.Fatalf("Nothing was sent to the server")
	}
	return game.WsMessage{}
}

func newClientState() *GlobalClientState {
	return &GlobalClientState{Listeners: make(map[string]func())}
}

func TestSendDrawNotConnected(t *testing.T) {
	s := newClientState()
	if err := s.SendDraw(); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("Expected ErrNotConnected, got %v", err)
	}
	if s.Drawing {
		t.Errorf("A draw that was never sent must not keep the Draw button disabled")
	}
	if s.Error == "" {
		t.Errorf("Expected the error to be shown")
	}
}

func TestSendDraw(t *testing.T) {
	conn, received := connectRecorder(t)
	s := newClientState()
	s.Conn = conn

	if err := s.SendDraw(); err != nil {
		t.Fatalf("SendDraw failed: %v", err)
	}
	if !s.Drawing {
		t.Errorf("Expected Drawing while the draw is pending")
	}
	if msg := expectSent(t, received); msg.Type != game.MsgTypeDraw {
		t.Errorf("Expected a draw message, got %s", msg.Type)
	}

	// A second click while pending sends nothing.
	if err := s.SendDraw(); err != nil {
		t.Fatalf("SendDraw failed: %v", err)
	}
	select {
	case msg := <-received:
		t.Errorf("Unexpected %s message while a draw is pending", msg.Type)
	case <-time.After(100 * time.Millisecond):
	}

	// The server's answer clears the flag.
	msg, err := game.NewWsMessage(game.MsgTypeError, game.ErrorMessage{Message: "deck service down"})
	if err != nil {
		t.Fatalf("NewWsMessage failed: %v", err)
	}
	s.handleMessage(msg)
	if s.Drawing || s.Error != "deck service down" {
		t.Errorf("Expected Drawing cleared and the error shown, got drawing=%t error=%q", s.Drawing, s.Error)
	}
}

func TestCardClicks(t *testing.T) {
	conn, received := connectRecorder(t)
	saved := State
	State = newClientState()
	State.Conn = conn
	defer func() { State = saved }()

	covered := game.Card{ID: "5D", Value: 5, FaceUp: true}
	free := game.Card{ID: "QD", Value: 12, FaceUp: true, Selectable: true}
	g := &Game{State: &game.GameState{DeckID: "deck1", Selection: game.OneArmed(free.ID)}}

	t.Run("classes", func(t *testing.T) {
		if got := cardClasses(covered, free.ID); !slices.Equal(got, []string{"card"}) {
			t.Errorf("Covered card classes: %v", got)
		}
		if got := cardClasses(free, free.ID); !slices.Equal(got, []string{"card", "selectable", "armed"}) {
			t.Errorf("Armed card classes: %v", got)
		}
		if got := cardClasses(free, ""); !slices.Equal(got, []string{"card", "selectable"}) {
			t.Errorf("Selectable card classes: %v", got)
		}
	})

	// A click on a covered card still reaches the server, which clears the armed card.
	t.Run("covered card", func(t *testing.T) {
		var ctx app.Context
		var e app.Event
		g.onCardClick(covered.ID)(ctx, e)
		msg := expectSent(t, received)
		p, err := msg.Parse()
		if err != nil {
			t.Fatalf("Failed to parse %s: %v", msg.Type, err)
		}
		sel, ok := p.(*game.SelectMessage)
		if !ok || sel.CardID != covered.ID {
			t.Errorf("Expected select %s, got %s %+v", covered.ID, msg.Type, p)
		}
	})

	t.Run("game over", func(t *testing.T) {
		g.GameOver = true
		defer func() { g.GameOver = false }()
		var ctx app.Context
		var e app.Event
		g.onCardClick(free.ID)(ctx, e)
		select {
		case msg := <-received:
			t.Errorf("Unexpected %s message after game over", msg.Type)
		case <-time.After(100 * time.Millisecond):
		}
	})
}
