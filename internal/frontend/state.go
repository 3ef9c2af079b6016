package frontend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/janpfeifer/GoPyramid/internal/game"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"k8s.io/klog/v2"
)

// GameIDKey is the local storage key holding the id of the game to rejoin.
const GameIDKey = "pyramid_game_id"

// GlobalClientState manages the connection and the latest game snapshot.
type GlobalClientState struct {
	GameID   string
	Game     *game.GameState
	GameOver bool
	Removed  []string // Cards removed by the last click, for highlighting
	Error    string
	Conn     *websocket.Conn

	// Drawing is set while a draw request is pending; the Draw button stays
	// disabled until the server answers.
	Drawing bool

	// Listeners for state updates
	Listeners map[string]func()
}

var State *GlobalClientState

func (s *GlobalClientState) Notify() {
	klog.V(1).Infof("GlobalClientState: Notifying %d listeners", len(s.Listeners))
	for _, l := range s.Listeners {
		if l != nil {
			l()
		}
	}
}

func InitState() {
	if State == nil {
		klog.V(1).Infof("InitState: creating new state (was nil)")
		State = &GlobalClientState{
			Listeners: make(map[string]func()),
		}
	} else {
		klog.V(1).Infof("InitState: state already exists")
	}
}

// ConnectWS connects to the server and joins the given game (a new one if gameID is empty).
func (s *GlobalClientState) ConnectWS(gameID string) error {
	if s.Conn != nil {
		klog.Infof("ConnectWS: Closing existing connection")
		s.Conn.CloseNow()
	}

	wsURL := fmt.Sprintf("ws://%s/ws", app.Window().URL().Host)
	klog.Infof("ConnectWS: Connecting to %s (Game: %q)", wsURL, gameID)

	// We use a context that lasts for the duration of the connection setup.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		klog.Errorf("ConnectWS: Dial failed: %v", err)
		return fmt.Errorf("dial failed: %w", err)
	}
	s.Conn = conn

	joinMsg, err := game.NewWsMessage(game.MsgTypeJoin, game.JoinMessage{GameID: gameID})
	if err != nil {
		return fmt.Errorf("failed to create join message: %w", err)
	}
	if err := wsjson.Write(ctx, conn, joinMsg); err != nil {
		klog.Errorf("ConnectWS: Failed to send join: %v", err)
		return fmt.Errorf("failed to send join: %w", err)
	}

	klog.Infof("ConnectWS: Join message sent. Starting read loop.")
	go s.readLoop(conn)
	return nil
}

func (s *GlobalClientState) readLoop(conn *websocket.Conn) {
	ctx := context.Background()
	for {
		var msg game.WsMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			klog.Errorf("readLoop: WS read error: %v", err)
			if s.Conn == conn {
				s.Conn = nil
				s.Error = "Connection to the server lost."
				s.Notify()
			}
			return
		}
		klog.V(1).Infof("readLoop: received message type: %s", msg.Type)
		s.handleMessage(msg)
	}
}

func (s *GlobalClientState) handleMessage(msg game.WsMessage) {
	p, err := msg.Parse()
	if err != nil {
		klog.Errorf("handleMessage: Failed to parse %s message: %v", msg.Type, err)
		return
	}

	switch m := p.(type) {
	case *game.StateMessage:
		klog.Infof("handleMessage: Game %s: moves=%d won=%t over=%t", m.GameID, m.State.Moves, m.State.HasWon, m.GameOver)
		s.GameID = m.GameID
		s.Game = &m.State
		s.GameOver = m.GameOver
		s.Removed = m.Removed
		s.Error = ""
		s.Drawing = false
		s.Notify()

	case *game.ErrorMessage:
		klog.Errorf("handleMessage: Server error: %s", m.Message)
		s.Error = m.Message
		s.Drawing = false
		s.Notify()

	default:
		klog.Errorf("handleMessage: Unexpected %s message from server", msg.Type)
	}
}

// ErrNotConnected is returned when sending without a websocket connection.
var ErrNotConnected = errors.New("not connected to the server")

func (s *GlobalClientState) send(msgType game.MessageType, payload any) error {
	if s.Conn == nil {
		klog.Errorf("send: Not connected, dropping %s", msgType)
		return ErrNotConnected
	}
	msg, err := game.NewWsMessage(msgType, payload)
	if err != nil {
		klog.Errorf("send: Failed to create %s message: %v", msgType, err)
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*2)
	defer cancel()
	if err := wsjson.Write(ctx, s.Conn, msg); err != nil {
		klog.Errorf("send: Failed to send %s: %v", msgType, err)
		return fmt.Errorf("failed to send %s: %w", msgType, err)
	}
	return nil
}

// SendNew asks the server for a freshly dealt game.
func (s *GlobalClientState) SendNew() error {
	return s.send(game.MsgTypeNew, nil)
}

// SendDraw asks for 3 more reserve cards. Ignored while a draw is pending.
// Drawing stays set until the server answers with a state or an error.
func (s *GlobalClientState) SendDraw() error {
	if s.Drawing {
		return nil
	}
	s.Drawing = true
	if err := s.send(game.MsgTypeDraw, nil); err != nil {
		s.Drawing = false
		s.Error = err.Error()
		return err
	}
	return nil
}

// SendSelect sends a click on a card.
func (s *GlobalClientState) SendSelect(cardID string) error {
	return s.send(game.MsgTypeSelect, game.SelectMessage{CardID: cardID})
}
