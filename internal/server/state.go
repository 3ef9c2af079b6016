package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/janpfeifer/GoPyramid/internal/game"
	"github.com/janpfeifer/GoPyramid/internal/session"
	"k8s.io/klog/v2"
)

// ServerState holds the games being played on this server.
type ServerState struct {
	Address    string // Address the server is listening on
	DeckAPIURL string // Root of the deck service used for new games

	// TODO: expire games whose websocket has been gone for a while; they are
	// kept so a reloaded page can rejoin its game.
	Games *session.Manager
}

// NewServerState creates a server state whose games deal from deck.
func NewServerState(deck session.DeckSource) *ServerState {
	return &ServerState{
		Games: session.NewManager(deck),
	}
}

const writeTimeout = 5 * time.Second

func (s *ServerState) send(ctx context.Context, conn *websocket.Conn, msgType game.MessageType, payload any) error {
	msg, err := game.NewWsMessage(msgType, payload)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, msg)
}

func (s *ServerState) sendState(ctx context.Context, conn *websocket.Conn, sess *session.Session, state game.GameState, removal game.Removal) error {
	msg := game.StateMessage{
		GameID:   sess.ID,
		State:    state,
		GameOver: game.IsGameOver(state),
	}
	if removal != nil {
		msg.Removed = removal.CardIDs()
	}
	return s.send(ctx, conn, game.MsgTypeState, msg)
}

func (s *ServerState) sendError(ctx context.Context, conn *websocket.Conn, err error) error {
	return s.send(ctx, conn, game.MsgTypeError, game.ErrorMessage{Message: err.Error()})
}

// HandleWS runs one player's game over a websocket: the client joins (or
// rejoins) a game, then sends draws, card selections and resets, and gets
// the new game state back after each one.
func (s *ServerState) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		klog.Errorf("HandleWS: failed to accept websocket: %v", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	var sess *session.Session
	for {
		var msg game.WsMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || errors.Is(err, context.Canceled) {
				klog.V(1).Infof("HandleWS: connection closed")
			} else {
				klog.Errorf("HandleWS: read error: %v", err)
			}
			return
		}
		p, err := msg.Parse()
		if err != nil {
			klog.Errorf("HandleWS: failed to parse %s message: %v", msg.Type, err)
			_ = s.sendError(ctx, conn, err)
			continue
		}

		var (
			state   game.GameState
			removal game.Removal
		)
		switch m := p.(type) {
		case *game.JoinMessage:
			var ok bool
			sess, ok = s.Games.Get(m.GameID)
			if !ok {
				sess = s.Games.Create()
				klog.Infof("HandleWS: new game %s (requested %q)", sess.ID, m.GameID)
			}
			state = sess.State()
			if !state.Started() {
				state, err = sess.Start(ctx)
			}

		case *game.NewMessage:
			if sess == nil {
				sess = s.Games.Create()
			}
			state, err = sess.Reset(ctx)

		case *game.DrawMessage:
			if sess == nil {
				err = session.ErrNotStarted
				break
			}
			state, err = sess.Draw(ctx)

		case *game.SelectMessage:
			if sess == nil {
				err = session.ErrNotStarted
				break
			}
			state, removal, err = sess.Select(m.CardID)

		default:
			klog.Errorf("HandleWS: unexpected %s message from client", msg.Type)
			continue
		}

		if err != nil {
			if err := s.sendError(ctx, conn, err); err != nil {
				klog.Errorf("HandleWS: failed to send error: %v", err)
				return
			}
			continue
		}
		if err := s.sendState(ctx, conn, sess, state, removal); err != nil {
			klog.Errorf("HandleWS: failed to send state: %v", err)
			return
		}
	}
}
